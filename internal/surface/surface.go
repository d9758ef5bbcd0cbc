// Package surface owns the pull-to-refresh state of one scrollable surface.
//
// A Surface serialises every mutation through a single goroutine (Run):
// offset samples, configuration changes, refresh completions, spin ticks and
// settle timer expiries all arrive on channels consumed by one select loop,
// so the coordinator and the animator never see concurrent access.
package surface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"pullrefresh/internal/bus"
	"pullrefresh/internal/haptic"
	"pullrefresh/internal/log"
	"pullrefresh/internal/pull"
	"pullrefresh/internal/segment"
	"pullrefresh/internal/tick"
)

// DefaultSettleDuration is how long the indicator winds down after a refresh.
const DefaultSettleDuration = 300 * time.Millisecond

// eventBuffer is the depth of the loop's inbound queue.
const eventBuffer = 256

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("surface: already running")
	// ErrInvalidConfig wraps every construction-time validation failure.
	ErrInvalidConfig = errors.New("surface: invalid configuration")
)

// Options configures a Surface. Zero values select defaults.
type Options struct {
	ID              string
	TriggerDistance float64
	TickInterval    time.Duration
	SettleDuration  time.Duration
	HapticStyle     haptic.Style
	Haptic          haptic.Feedback // nil disables feedback
	Clock           tick.Source     // nil builds a tick.Clock at TickInterval
	Hub             *bus.Hub        // nil builds a private hub
	Logger          *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.ID == "" {
		o.ID = "default"
	}
	if o.TriggerDistance == 0 {
		o.TriggerDistance = pull.DefaultTriggerDistance
	}
	if o.TickInterval == 0 {
		o.TickInterval = tick.DefaultInterval
	}
	if o.SettleDuration == 0 {
		o.SettleDuration = DefaultSettleDuration
	}
	if o.Hub == nil {
		o.Hub = bus.NewHub(bus.DefaultCapacity)
	}
	if o.Logger == nil {
		o.Logger = log.WithSurface(o.ID)
	}
}

// Surface is the owning execution context for one scrollable surface.
type Surface struct {
	id      string
	trigger float64
	settle  time.Duration
	logger  *slog.Logger

	coord *pull.Coordinator
	anim  *segment.Animator
	clock tick.Source
	hub   *bus.Hub

	events  chan func()
	quit    chan struct{}
	started atomic.Bool

	// Loop-owned.
	ctx         context.Context
	ticks       <-chan tick.Tick
	settleTimer *time.Timer
	lastPhase   segment.Phase
}

// New validates opts and builds a stopped Surface. Call Run to start it.
func New(opts Options) (*Surface, error) {
	opts.applyDefaults()
	if opts.SettleDuration < 0 {
		return nil, fmt.Errorf("%w: settle duration %v", ErrInvalidConfig, opts.SettleDuration)
	}

	clock := opts.Clock
	if clock == nil {
		c, err := tick.New(opts.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		clock = c
	}

	s := &Surface{
		id:      opts.ID,
		trigger: opts.TriggerDistance,
		settle:  opts.SettleDuration,
		logger:  opts.Logger,
		clock:   clock,
		hub:     opts.Hub,
		events:  make(chan func(), eventBuffer),
		quit:    make(chan struct{}),
		ctx:     context.Background(),
	}

	coord, err := pull.NewCoordinator(pull.Config{
		TriggerDistance: opts.TriggerDistance,
		Haptic:          opts.Haptic,
		HapticStyle:     opts.HapticStyle,
		Logger:          opts.Logger,
	}, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	s.coord = coord
	s.anim = segment.New(opts.TriggerDistance)
	s.coord.OnChange(s.onState)

	s.publish(bus.KindState)
	return s, nil
}

// ID returns the surface identity.
func (s *Surface) ID() string {
	return s.id
}

// TriggerDistance returns the offset at which a pull starts a refresh.
func (s *Surface) TriggerDistance() float64 {
	return s.trigger
}

// Run owns the surface until ctx is cancelled. It returns nil on
// cancellation and ErrAlreadyRunning if called twice.
func (s *Surface) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.ctx = ctx
	defer func() {
		cancel()
		s.stopTicks()
		s.stopSettleTimer()
		close(s.quit)
	}()

	s.logger.Debug("surface running")
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("surface stopped")
			return nil
		case fn := <-s.events:
			fn()
		case t := <-s.ticks:
			s.onTick(t)
		}
	}
}

// Done is closed once Run has returned.
func (s *Surface) Done() <-chan struct{} {
	return s.quit
}

// SubmitOffset feeds one scroll-offset sample. Samples are applied in
// order on the owning loop.
func (s *Surface) SubmitOffset(offset float64) {
	s.post(func() { s.coord.Submit(offset) })
}

// SetRefreshAction installs the refresh operation, invoked at most once per
// gesture.
func (s *Surface) SetRefreshAction(action pull.RefreshAction) {
	s.post(func() { s.coord.SetRefreshAction(action) })
}

// SetOffsetChangeHook installs the per-sample observer.
func (s *Surface) SetOffsetChangeHook(hook pull.OffsetHook) {
	s.post(func() { s.coord.SetOffsetHook(hook) })
}

// SetEndRefreshHook installs the hook awaited between the end of a refresh
// and the return to idle.
func (s *Surface) SetEndRefreshHook(hook pull.EndHook) {
	s.post(func() { s.coord.SetEndHook(hook) })
}

// Observe subscribes to state and frame events.
func (s *Surface) Observe() (<-chan bus.Event, func()) {
	return s.hub.Subscribe()
}

// Snapshot returns the most recently published snapshot.
func (s *Surface) Snapshot() bus.Snapshot {
	return s.hub.Latest()
}

// BrightnessVector returns the current segment brightness.
func (s *Surface) BrightnessVector() [segment.Count]float64 {
	return s.hub.Latest().Frame.Brightness
}

// History returns buffered events newer than lastID.
func (s *Surface) History(lastID int64) []bus.Event {
	return s.hub.SnapshotSince(lastID)
}

// Flush waits until every event posted before the call has been applied.
func (s *Surface) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if !s.post(func() { close(done) }) {
		return context.Canceled
	}
	select {
	case <-done:
		return nil
	case <-s.quit:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Busy reports whether a refresh is running or the indicator is still
// spinning or settling.
func (s *Surface) Busy() bool {
	snap := s.Snapshot()
	return snap.Stage == pull.StageRefreshing || snap.Stage == pull.StageEnding ||
		snap.Frame.Phase == segment.Spinning || snap.Frame.Phase == segment.Settling
}

// WaitIdle blocks until the surface is no longer Busy, ctx is done or the
// surface stops.
func (s *Surface) WaitIdle(ctx context.Context) error {
	events, cancel := s.Observe()
	defer cancel()

	for s.Busy() {
		select {
		case _, ok := <-events:
			if !ok {
				return context.Canceled
			}
		case <-s.quit:
			return context.Canceled
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Go implements pull.Scheduler. fn runs on its own goroutine; done is posted
// back onto the loop. A panicking fn is reported as an error so the refresh
// still reaches its end.
func (s *Surface) Go(fn func(ctx context.Context) error, done func(error)) {
	ctx := s.ctx
	go func() {
		err := call(ctx, fn)
		if done != nil {
			s.post(func() { done(err) })
		}
	}()
}

func call(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("surface: task panicked: %v", r)
		}
	}()
	return fn(ctx)
}

// post queues fn for the loop. It reports false once the loop has exited.
func (s *Surface) post(fn func()) bool {
	select {
	case <-s.quit:
		return false
	default:
	}
	select {
	case s.events <- fn:
		return true
	case <-s.quit:
		return false
	}
}

func (s *Surface) onState(st pull.State) {
	s.apply(s.anim.Update(st.Progress, st.Refreshing))
	s.publish(bus.KindState)
}

func (s *Surface) onTick(t tick.Tick) {
	if !s.anim.Step() {
		s.logger.Debug("late tick discarded", "gen", t.Gen, "seq", t.Seq)
		return
	}
	s.publish(bus.KindFrame)
}

func (s *Surface) onSettled(gen uint64) {
	if !s.anim.SettleDone(gen) {
		return
	}
	s.settleTimer = nil
	s.publish(bus.KindFrame)
}

// apply performs the clock and timer actions requested by the animator.
// Stopping happens before anything else so no queued tick survives it.
func (s *Surface) apply(eff segment.Effect) {
	if eff.StopTicks {
		s.stopTicks()
	}
	if eff.StartTicks {
		s.stopSettleTimer()
		s.ticks = s.clock.Start()
	}
	if eff.Settle != 0 {
		s.stopSettleTimer()
		gen := eff.Settle
		s.settleTimer = time.AfterFunc(s.settle, func() {
			s.post(func() { s.onSettled(gen) })
		})
	}
}

func (s *Surface) stopTicks() {
	s.clock.Stop()
	s.ticks = nil
}

func (s *Surface) stopSettleTimer() {
	if s.settleTimer != nil {
		s.settleTimer.Stop()
		s.settleTimer = nil
	}
}

func (s *Surface) publish(kind bus.Kind) {
	st := s.coord.State()
	f := s.anim.Frame()
	if f.Phase != s.lastPhase {
		s.logger.Debug("phase", "from", s.lastPhase.String(), "to", f.Phase.String(), "stage", st.Stage.String())
		s.lastPhase = f.Phase
	}
	s.hub.Publish(kind, bus.Snapshot{
		Progress:   st.Progress,
		Refreshing: st.Refreshing,
		Stage:      st.Stage,
		Err:        st.Err,
		Frame:      f,
	})
}
