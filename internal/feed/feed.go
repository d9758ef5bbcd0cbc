// Package feed simulates the remote list a pull-to-refresh gesture reloads.
package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrFetchFailed is returned by a simulated fetch that was chosen to fail.
var ErrFetchFailed = errors.New("fetch failed")

// Feed is the list the demo refreshes. Refresh runs off the UI goroutine,
// so items are guarded.
type Feed struct {
	delay       time.Duration
	failureRate float64
	batch       int
	now         func() time.Time

	mu      sync.Mutex
	rng     *rand.Rand
	items   []string
	fetches int
}

// New creates a feed whose refresh takes delay, fails with the given
// probability and prepends batch items on success.
func New(delay time.Duration, failureRate float64, batch int, seed uint64) *Feed {
	return &Feed{
		delay:       delay,
		failureRate: failureRate,
		batch:       batch,
		now:         time.Now,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Refresh simulates a network fetch. It is a pull.RefreshAction.
func (f *Feed) Refresh(ctx context.Context) error {
	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.fetches++
	if f.rng.Float64() < f.failureRate {
		return fmt.Errorf("%w (attempt %d)", ErrFetchFailed, f.fetches)
	}

	stamp := f.now().Format("15:04:05")
	fresh := make([]string, 0, f.batch+len(f.items))
	for i := f.batch; i > 0; i-- {
		fresh = append(fresh, fmt.Sprintf("Item %d.%d  fetched %s", f.fetches, i, stamp))
	}
	f.items = append(fresh, f.items...)
	return nil
}

// Items returns a copy of the current items, newest first.
func (f *Feed) Items() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.items))
	copy(out, f.items)
	return out
}

// Fetches returns how many refreshes completed their delay.
func (f *Feed) Fetches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}
