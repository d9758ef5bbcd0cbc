// Package trace replays a scripted pull gesture against a surface and
// records every state and frame event, deterministically: spin ticks come
// from a manual source and the refresh completes only when the script says.
package trace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"pullrefresh/internal/bus"
	"pullrefresh/internal/indicator"
	"pullrefresh/internal/log"
	"pullrefresh/internal/segment"
	"pullrefresh/internal/surface"
	"pullrefresh/internal/tick"
)

// ErrScriptedFailure is the error a failing scripted refresh returns.
var ErrScriptedFailure = errors.New("scripted refresh failure")

const (
	historyCapacity = 4096
	pollInterval    = time.Millisecond
)

// Script describes one gesture.
type Script struct {
	Offsets []float64 // samples submitted in order
	Ticks   int       // spin ticks fired while the refresh runs
	Fail    bool      // the refresh returns ErrScriptedFailure
	Release []float64 // samples submitted after the refresh finished
}

// Ramp returns offsets rising from 0 to peak in steps samples and falling
// back to 0.
func Ramp(peak float64, steps int) []float64 {
	if steps < 1 {
		steps = 1
	}
	out := make([]float64, 0, 2*steps+1)
	for i := 0; i <= steps; i++ {
		out = append(out, peak*float64(i)/float64(steps))
	}
	for i := steps - 1; i >= 0; i-- {
		out = append(out, peak*float64(i)/float64(steps))
	}
	return out
}

// ParseOffsets parses a comma separated list of offsets.
func ParseOffsets(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("offset %q: %w", field, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Result is a finished trace.
type Result struct {
	Events    []bus.Event
	Refreshes int
}

// Run plays script on a fresh surface built from opts and returns every
// event it published. opts.Clock and opts.Hub are replaced.
func Run(ctx context.Context, opts surface.Options, script Script) (Result, error) {
	manual := tick.NewManual()
	opts.Clock = manual
	opts.Hub = bus.NewHub(historyCapacity)
	if opts.Logger == nil {
		opts.Logger = log.WithComponent("trace")
	}
	if opts.SettleDuration == 0 {
		opts.SettleDuration = time.Millisecond
	}

	s, err := surface.New(opts)
	if err != nil {
		return Result{}, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		<-s.Done()
	}()
	go s.Run(runCtx)

	release := make(chan struct{})
	refreshes := 0
	s.SetRefreshAction(func(ctx context.Context) error {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err()
		}
		if script.Fail {
			return ErrScriptedFailure
		}
		return nil
	})

	for _, off := range script.Offsets {
		s.SubmitOffset(off)
	}
	if err := s.Flush(ctx); err != nil {
		return Result{}, err
	}

	if s.Snapshot().Refreshing {
		refreshes = 1
		if err := fireTicks(ctx, s, manual, script.Ticks, opts.Logger); err != nil {
			return Result{}, err
		}
	}
	close(release)

	if err := s.WaitIdle(ctx); err != nil {
		return Result{}, err
	}
	for _, off := range script.Release {
		s.SubmitOffset(off)
	}
	if err := s.Flush(ctx); err != nil {
		return Result{}, err
	}

	return Result{Events: s.History(0), Refreshes: refreshes}, nil
}

// fireTicks delivers n ticks, waiting for each to be applied before the
// next so every step shows up as its own frame.
func fireTicks(ctx context.Context, s *surface.Surface, m *tick.Manual, n int, logger *slog.Logger) error {
	start := s.Snapshot().Frame.Steps
	for i := 1; i <= n; i++ {
		if !m.Fire() {
			logger.Warn("tick rejected", "tick", i)
			return nil
		}
		for s.Snapshot().Frame.Steps < start+i {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollInterval):
			}
		}
	}
	return nil
}

// Table lays the events out one row each.
func (r Result) Table() *Table {
	t := NewTable(
		Column{Header: "#", Align: AlignRight},
		Column{Header: "kind"},
		Column{Header: "stage", MinWidth: 10},
		Column{Header: "progress", Align: AlignRight},
		Column{Header: "phase", MinWidth: 8},
		Column{Header: "head", Align: AlignRight},
		Column{Header: "lap", Align: AlignRight},
		Column{Header: "◌"},
		Column{Header: "brightness", MaxWidth: 48},
		Column{Header: "error", MaxWidth: 32},
	)
	for _, ev := range r.Events {
		snap := ev.Snapshot
		errText := ""
		if snap.Err != nil {
			errText = snap.Err.Error()
		}
		t.AddRow(
			strconv.FormatInt(ev.ID, 10),
			string(ev.Kind),
			snap.Stage.String(),
			strconv.FormatFloat(snap.Progress, 'f', 1, 64),
			snap.Frame.Phase.String(),
			strconv.Itoa(snap.Frame.Head),
			strconv.Itoa(snap.Frame.Lap),
			string(indicator.Braille(snap.Frame.Brightness, 0)),
			FormatBrightness(snap.Frame.Brightness),
			errText,
		)
	}
	return t
}

// FormatBrightness prints a brightness vector compactly, one decimal each.
func FormatBrightness(b [segment.Count]float64) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strings.Join(parts, " ")
}
