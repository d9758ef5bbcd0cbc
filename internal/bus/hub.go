// Package bus propagates pull state and indicator frames from the owning
// surface loop to renderers and other listeners.
package bus

import (
	"sync"
	"sync/atomic"
	"time"

	"pullrefresh/internal/pull"
	"pullrefresh/internal/segment"
)

// Kind tells listeners what changed.
type Kind string

const (
	KindState Kind = "state" // progress or refreshing changed
	KindFrame Kind = "frame" // brightness vector re-emitted after a phase step
)

// Snapshot is everything a renderer needs for one paint.
type Snapshot struct {
	Progress   float64
	Refreshing bool
	Stage      pull.Stage
	Err        error
	Frame      segment.Frame
}

// Event is one published snapshot.
type Event struct {
	ID       int64
	Kind     Kind
	At       time.Time
	Snapshot Snapshot
}

// DefaultCapacity is the ring size used when none is given.
const DefaultCapacity = 128

// subscriberBuffer is the channel depth handed to each subscriber.
const subscriberBuffer = 128

// Hub is an in-memory pub/sub with a small ring buffer for late listeners.
// There is one writer (the surface loop) and any number of readers.
type Hub struct {
	nextID atomic.Int64

	mu     sync.Mutex
	ring   []Event
	start  int
	size   int
	latest Snapshot

	subs      map[int]chan Event
	nextSubID int
}

// NewHub creates a Hub retaining the last capacity events.
func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Hub{
		ring: make([]Event, capacity),
		subs: make(map[int]chan Event),
	}
}

// Publish records snap and fans it out.
func (h *Hub) Publish(kind Kind, snap Snapshot) Event {
	ev := Event{
		ID:       h.nextID.Add(1),
		Kind:     kind,
		At:       time.Now().UTC(),
		Snapshot: snap,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = snap
	h.pushLocked(ev)
	for _, ch := range h.subs {
		// Don't let slow listeners block the surface loop.
		select {
		case ch <- ev:
		default:
		}
	}
	return ev
}

// Subscribe returns a channel of future events and a cancel func that
// unregisters and closes it. Cancel is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSubID
	h.nextSubID++
	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Latest returns the most recently published snapshot.
func (h *Hub) Latest() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// SnapshotSince returns buffered events with ID > lastID, oldest-first.
// If lastID is 0, the full ring buffer snapshot is returned.
func (h *Hub) SnapshotSince(lastID int64) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Event, 0, h.size)
	for i := 0; i < h.size; i++ {
		ev := h.ring[(h.start+i)%len(h.ring)]
		if lastID == 0 || ev.ID > lastID {
			out = append(out, ev)
		}
	}
	return out
}

// Close unregisters and closes every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Hub) pushLocked(ev Event) {
	capacity := len(h.ring)
	if h.size < capacity {
		h.ring[(h.start+h.size)%capacity] = ev
		h.size++
		return
	}

	// Overwrite oldest.
	h.ring[h.start] = ev
	h.start = (h.start + 1) % capacity
}
