package pull

import (
	"context"
	"log/slog"

	"pullrefresh/internal/haptic"
	"pullrefresh/internal/log"
)

// RefreshAction is the caller's refresh operation. Success and failure are
// both treated as completion; the error is only passed along.
type RefreshAction func(ctx context.Context) error

// OffsetHook observes every raw offset sample, independent of progress.
type OffsetHook func(ctx context.Context, offset float64)

// EndHook runs once per gesture after the refresh action resolved and
// before the surface returns to idle. err is the action's result.
type EndHook func(ctx context.Context, err error)

// Scheduler runs work off the owning execution context.
type Scheduler interface {
	// Go runs fn asynchronously. If done is non-nil it is called with fn's
	// result back on the owning context.
	Go(fn func(ctx context.Context) error, done func(error))
}

// Config configures a Coordinator.
type Config struct {
	TriggerDistance float64
	Haptic          haptic.Feedback // nil disables feedback
	HapticStyle     haptic.Style
	Logger          *slog.Logger
}

// Coordinator is the refresh state machine for one surface. It is not safe
// for concurrent use: every method must run on the owning context, and the
// Scheduler must deliver completions there too.
type Coordinator struct {
	tracker Tracker
	sched   Scheduler
	haptic  haptic.Feedback
	style   haptic.Style
	logger  *slog.Logger

	state State

	refresh    RefreshAction
	offsetHook OffsetHook
	endHook    EndHook
	pendingEnd EndHook // armed at trigger, cleared after invocation

	listeners []func(State)
	triggers  int
}

// NewCoordinator creates an idle, recharged coordinator.
func NewCoordinator(cfg Config, sched Scheduler) (*Coordinator, error) {
	tracker, err := NewTracker(cfg.TriggerDistance)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithComponent("pull")
	}
	return &Coordinator{
		tracker: tracker,
		sched:   sched,
		haptic:  cfg.Haptic,
		style:   cfg.HapticStyle,
		logger:  logger,
		state: State{
			Stage:           StageIdle,
			Recharged:       true,
			TriggerDistance: tracker.TriggerDistance(),
		},
	}, nil
}

// State returns a copy of the current state.
func (c *Coordinator) State() State {
	return c.state
}

// Triggers returns how many refreshes have been started.
func (c *Coordinator) Triggers() int {
	return c.triggers
}

// SetRefreshAction replaces the refresh operation. A refresh already in
// flight keeps the action it was started with.
func (c *Coordinator) SetRefreshAction(action RefreshAction) {
	c.refresh = action
}

// SetOffsetHook replaces the per-sample observer.
func (c *Coordinator) SetOffsetHook(hook OffsetHook) {
	c.offsetHook = hook
}

// SetEndHook replaces the end-of-refresh hook. It is armed for a gesture
// when that gesture triggers.
func (c *Coordinator) SetEndHook(hook EndHook) {
	c.endHook = hook
}

// OnChange registers a listener called with the new state after every
// change.
func (c *Coordinator) OnChange(fn func(State)) {
	c.listeners = append(c.listeners, fn)
}

// Submit feeds one offset sample.
func (c *Coordinator) Submit(offset float64) {
	if hook := c.offsetHook; hook != nil {
		c.sched.Go(func(ctx context.Context) error {
			hook(ctx, offset)
			return nil
		}, nil)
	}

	prev := c.state
	r := c.tracker.Track(offset, c.state)
	c.state.Recharged = r.Recharged

	if c.state.Refreshing {
		// Re-entrancy guard: only the recharge flag may move.
		return
	}

	c.state.Progress = r.Progress
	if r.Trigger {
		c.begin()
		return
	}

	if offset > 0 {
		c.state.Stage = StagePulling
	} else {
		c.state.Stage = StageIdle
	}
	if c.state.Progress != prev.Progress || c.state.Stage != prev.Stage {
		c.notify()
	}
}

// begin performs Pulling -> Refreshing.
func (c *Coordinator) begin() {
	c.triggers++
	c.state.Recharged = false
	c.state.Refreshing = true
	c.state.Progress = MaxProgress
	c.state.Stage = StageRefreshing
	c.state.Err = nil
	c.pendingEnd = c.endHook

	c.logger.Debug("refresh triggered", "trigger", c.triggers)
	c.notify()

	if fb, style := c.haptic, c.style; fb != nil && style != haptic.None {
		c.sched.Go(func(context.Context) error {
			fb.Impact(style)
			return nil
		}, nil)
	}

	action := c.refresh
	c.sched.Go(func(ctx context.Context) error {
		if action == nil {
			return nil
		}
		return action(ctx)
	}, c.complete)
}

// complete performs Refreshing -> Ending.
func (c *Coordinator) complete(err error) {
	if c.state.Stage != StageRefreshing {
		return
	}
	c.state.Stage = StageEnding
	c.state.Err = err
	c.logger.Debug("refresh resolved", "trigger", c.triggers, "failed", err != nil)
	c.notify()

	hook := c.pendingEnd
	c.pendingEnd = nil
	if hook == nil {
		c.finish()
		return
	}
	c.sched.Go(func(ctx context.Context) error {
		hook(ctx, err)
		return nil
	}, func(error) { c.finish() })
}

// finish performs Ending -> Idle.
func (c *Coordinator) finish() {
	if c.state.Stage != StageEnding {
		return
	}
	c.state.Stage = StageIdle
	c.state.Progress = 0
	c.state.Refreshing = false
	c.logger.Debug("refresh ended", "trigger", c.triggers)
	c.notify()
}

func (c *Coordinator) notify() {
	s := c.state
	for _, fn := range c.listeners {
		fn(s)
	}
}
