package tick

import (
	"sync"
	"time"
)

// Manual is a Source whose ticks are fired explicitly. Scripted drivers and
// tests use it to step the spin phase deterministically.
type Manual struct {
	mu   sync.Mutex
	out  chan Tick
	gen  uint64
	seq  int
	stop int
}

// NewManual creates a stopped Manual source.
func NewManual() *Manual {
	return &Manual{}
}

// Start implements Source.
func (m *Manual) Start() <-chan Tick {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.out != nil {
		return m.out
	}
	m.gen++
	m.seq = 0
	m.out = make(chan Tick, 64)
	return m.out
}

// Stop implements Source.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.out == nil {
		return
	}
	m.out = nil
	m.stop++
}

// Fire queues one tick. It reports false when the source is stopped or
// the queue is full.
func (m *Manual) Fire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.out == nil {
		return false
	}
	m.seq++
	select {
	case m.out <- Tick{Gen: m.gen, Seq: m.seq, At: time.Now()}:
		return true
	default:
		m.seq--
		return false
	}
}

// Running reports whether the source has been started and not stopped.
func (m *Manual) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.out != nil
}

// Stops returns how many running->stopped transitions have happened.
func (m *Manual) Stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}
