// Package tick provides the periodic tick source that drives the spin phase
// of the refresh indicator.
// The package separates tick timing (Clock) from whatever consumes the ticks,
// so the consumer can be a real-time loop or a scripted test.
package tick

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultInterval is the spin step interval (~13 steps per second).
const DefaultInterval = 75 * time.Millisecond

// ErrInvalidInterval is returned by New for a non-positive interval.
var ErrInvalidInterval = errors.New("tick: interval must be positive")

// Tick is one fixed-interval timer event.
type Tick struct {
	Gen uint64    // start generation of the clock that produced the tick
	Seq int       // 1-based position within the generation
	At  time.Time // wall-clock time the ticker fired
}

// Source produces ticks between Start and Stop.
type Source interface {
	// Start begins delivering ticks and returns the channel they arrive on.
	// Starting a running source returns the channel already in use.
	Start() <-chan Tick

	// Stop cancels delivery. After Stop returns no tick of the stopped
	// generation can be received. Stop is idempotent.
	Stop()
}

// Clock is a Source backed by a time.Ticker running in its own goroutine.
// It only handles the goroutine lifecycle and tick timing.
type Clock struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the ticker goroutine
	done   chan struct{}      // closed when the ticker goroutine has exited
	out    chan Tick
	gen    uint64
	stops  int
}

// New creates a stopped Clock ticking every interval once started.
func New(interval time.Duration) (*Clock, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Clock{interval: interval}, nil
}

// Interval returns the time between ticks.
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// Start launches the ticker goroutine.
// If the clock is already running, the current channel is returned.
func (c *Clock) Start() <-chan Tick {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		return c.out
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.gen++
	c.cancel = cancel
	c.done = make(chan struct{})
	c.out = make(chan Tick)

	go c.run(ctx, c.gen, c.out, c.done)
	return c.out
}

// run is the ticker goroutine. Sends select on ctx so that Stop never
// deadlocks against a consumer that has stopped receiving.
func (c *Clock) run(ctx context.Context, gen uint64, out chan<- Tick, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-ctx.Done():
			return
		case at := <-ticker.C:
			seq++
			select {
			case out <- Tick{Gen: gen, Seq: seq, At: at}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Stop stops the ticker and waits for the goroutine to exit.
// If the clock is not running, this is a no-op.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return
	}

	c.cancel()
	<-c.done
	c.cancel = nil
	c.out = nil
	c.stops++
}

// Running reports whether the ticker goroutine is active.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Generation returns the generation of the most recent Start.
func (c *Clock) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Stops returns how many running->stopped transitions have happened.
func (c *Clock) Stops() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stops
}
