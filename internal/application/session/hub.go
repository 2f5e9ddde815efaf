// Package session fans identity transitions out to live subscribers.
package session

import (
	"sync"
	"time"
)

type State string

const (
	SignedIn  State = "signed_in"
	SignedOut State = "signed_out"
)

const defaultBuffer = 8

type IdentityEvent struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	State  State     `json:"state"`
	At     time.Time `json:"at"`
}

type subscriber struct {
	userID string
	ch     chan IdentityEvent
}

// Hub delivers each event to the subscribers of its user. A subscriber that
// does not keep up loses events rather than stalling the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	next   uint64
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]*subscriber),
		buffer: buffer,
	}
}

// Subscribe registers interest in userID. The returned cancel func is
// idempotent and closes the channel.
func (h *Hub) Subscribe(userID string) (<-chan IdentityEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan IdentityEvent, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.next
	h.next++
	h.subs[id] = &subscriber{userID: userID, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if s, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(s.ch)
			}
		})
	}
}

// Publish returns the number of subscribers the event reached.
func (h *Hub) Publish(e IdentityEvent) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, s := range h.subs {
		if s.userID != e.UserID {
			continue
		}
		select {
		case s.ch <- e:
			n++
		default:
		}
	}
	return n
}

// Close ends every subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, s := range h.subs {
		close(s.ch)
		delete(h.subs, id)
	}
}
