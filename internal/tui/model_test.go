package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pullrefresh/internal/config"
	"pullrefresh/internal/feed"
	"pullrefresh/internal/log"
	"pullrefresh/internal/surface"
	"pullrefresh/internal/tick"
)

// newTestModel builds a model around a running surface with a manual clock.
func newTestModel(t *testing.T) (Model, *surface.Surface) {
	t.Helper()
	cfg := config.Default()
	cfg.Indicator.HintText = "Pull to refresh"

	opts := cfg.SurfaceOptions("test")
	opts.Clock = tick.NewManual()
	opts.Logger = log.Discard()
	s, err := surface.New(opts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})

	events, unsubscribe := s.Observe()
	t.Cleanup(unsubscribe)

	m := NewModel(s, events, feed.New(0, 0, 2, 1), cfg)
	result, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := result.(Model)
	require.True(t, ok, "Update did not return a Model")
	return model, s
}

func press(t *testing.T, m Model, key string, n int) Model {
	t.Helper()
	for range n {
		result, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
		m = result.(Model)
	}
	return m
}

func flush(t *testing.T, s *surface.Surface) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func TestPullGrowsOverscrollWithResistance(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "k", 1)
	first := m.overscroll
	assert.InDelta(t, pullStep, first, 1e-9)

	m = press(t, m, "k", 1)
	assert.Less(t, m.overscroll-first, first, "second pull should meet resistance")

	m = press(t, m, "k", 500)
	assert.LessOrEqual(t, m.overscroll, 2*m.trigger)
}

func TestReleaseSpringsBackAndSubmits(t *testing.T) {
	m, s := newTestModel(t)
	m = press(t, m, "k", 3)

	now := m.lastPull
	m.step(now)
	flush(t, s)
	assert.Greater(t, s.Snapshot().Progress, 0.0)

	for i := range 600 {
		m.step(now.Add(releaseAfter + time.Duration(i)*frameInterval))
		if m.overscroll == 0 {
			break
		}
	}
	assert.Zero(t, m.overscroll)
	assert.Zero(t, m.submitted)
}

func TestRefreshHoldsOverscrollOpen(t *testing.T) {
	m, s := newTestModel(t)
	release := make(chan struct{})
	defer close(release)
	s.SetRefreshAction(func(ctx context.Context) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	m = press(t, m, "k", 40)
	require.GreaterOrEqual(t, m.overscroll, m.trigger)
	m.step(m.lastPull)
	assert.Eventually(t, func() bool { return s.Snapshot().Refreshing }, 2*time.Second, 5*time.Millisecond)

	now := m.lastPull
	for i := range 600 {
		m.step(now.Add(releaseAfter + time.Duration(i)*frameInterval))
	}
	assert.Equal(t, m.trigger, m.overscroll)
	assert.Contains(t, m.View(), "refreshing")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	result, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, "Goodbye!\n", result.(Model).View())
}
