// Package realtime fans out change notifications to connected clients.
// Events name only the table and operation; subscribers re-fetch the
// authoritative rows, so dropped or duplicated events are harmless.
package realtime

import (
	"context"
	"sync"
)

// Event identifies a change without carrying row data
type Event struct {
	Table string `json:"table"` // videos, topup_requests or profiles
	Op    string `json:"op"`    // insert, update or delete
}

// Hub is an in-process publish/subscribe fan-out
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewHub returns an empty Hub
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a listener. The returned channel is closed when the
// context ends; the cancel func may also be called directly.
func (h *Hub) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel
}

// Publish delivers an event to every subscriber without blocking. A
// subscriber with a full buffer misses the event; it will catch up on its
// next re-fetch.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
