package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	h := NewHub(4)
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(KindState, Snapshot{Progress: 25})
	h.Publish(KindFrame, Snapshot{Progress: 25, Refreshing: true})

	ev := <-ch
	assert.Equal(t, KindState, ev.Kind)
	assert.Equal(t, 25.0, ev.Snapshot.Progress)
	assert.EqualValues(t, 1, ev.ID)

	ev = <-ch
	assert.Equal(t, KindFrame, ev.Kind)
	assert.True(t, ev.Snapshot.Refreshing)
	assert.EqualValues(t, 2, ev.ID)

	assert.True(t, h.Latest().Refreshing)
}

func TestCancelClosesChannel(t *testing.T) {
	h := NewHub(4)
	ch, cancel := h.Subscribe()
	require.Equal(t, 1, h.Subscribers())

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok, "channel still open after cancel")
	assert.Equal(t, 0, h.Subscribers())

	// Publishing with no subscribers must not panic.
	h.Publish(KindState, Snapshot{})
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(4)
	ch, cancel := h.Subscribe()
	defer cancel()

	last := Event{}
	for i := 0; i < subscriberBuffer*2; i++ {
		last = h.Publish(KindFrame, Snapshot{Progress: float64(i % 100)})
	}
	assert.Len(t, ch, subscriberBuffer, "overflow events should be dropped")
	assert.Equal(t, last.Snapshot, h.Latest())
	assert.EqualValues(t, subscriberBuffer*2, last.ID)
}

func TestSnapshotSinceRing(t *testing.T) {
	h := NewHub(3)
	for i := 1; i <= 5; i++ {
		h.Publish(KindState, Snapshot{Progress: float64(i)})
	}

	all := h.SnapshotSince(0)
	require.Len(t, all, 3)
	assert.EqualValues(t, 3, all[0].ID)
	assert.EqualValues(t, 5, all[2].ID)

	recent := h.SnapshotSince(4)
	require.Len(t, recent, 1)
	assert.Equal(t, 5.0, recent[0].Snapshot.Progress)
}

func TestCloseEndsAllSubscriptions(t *testing.T) {
	h := NewHub(0)
	a, _ := h.Subscribe()
	b, _ := h.Subscribe()
	h.Close()

	_, okA := <-a
	_, okB := <-b
	assert.False(t, okA)
	assert.False(t, okB)
}
