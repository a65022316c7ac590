package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewHub(16)
	ch, cancel := h.Subscribe()
	defer cancel()

	h.Publish(Event{Type: TypeSubmitted, Input: "echo hi"})

	select {
	case ev := <-ch:
		assert.Equal(t, TypeSubmitted, ev.Type)
		assert.Equal(t, "echo hi", ev.Input)
		assert.NotZero(t, ev.ID)
		assert.False(t, ev.At.IsZero())
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestHubRecentRingOverwrite(t *testing.T) {
	h := NewHub(3)
	for range 5 {
		h.Publish(Event{Type: TypeCompleted})
	}

	recent := h.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, int64(3), recent[0].ID)
	assert.Equal(t, int64(5), recent[2].ID)

	since := h.Recent(4)
	require.Len(t, since, 1)
	assert.Equal(t, int64(5), since[0].ID)
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(4)
	_, cancel := h.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		// More than the subscriber channel buffers; Publish must not stall.
		for range 300 {
			h.Publish(Event{Type: TypeDequeued})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked by slow subscriber")
	}
}

func TestHubCancelIdempotent(t *testing.T) {
	h := NewHub(4)
	_, cancel := h.Subscribe()
	cancel()
	cancel()
}
