// Package events fans out state-change notifications from the client
// services to whoever renders them.
package events

import "sync"

// Kind names what changed.
type Kind string

const (
	AuthChanged       Kind = "auth_changed"
	UserChanged       Kind = "user_changed"
	Navigate          Kind = "navigate"
	DocumentsChanged  Kind = "documents_changed"
	SessionsChanged   Kind = "sessions_changed"
	TranscriptChanged Kind = "transcript_changed"
	ChatStateChanged  Kind = "chat_state_changed"
)

// Event is one notification. Path is set for Navigate.
type Event struct {
	Kind Kind
	Path string
}

type Handler func(Event)

type subscription struct {
	id uint64
	fn Handler
}

// Hub delivers every published event to all current subscribers, in
// subscription order. A nil *Hub drops events.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

func New() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub) Subscribe(fn Handler) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish calls every subscriber synchronously. Handlers run without the
// hub lock held, so they may subscribe, unsubscribe or publish.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}

	h.mu.RLock()
	subs := make([]subscription, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, s := range subs {
		s.fn(e)
	}
}

// Emit is a shorthand for Publish(Event{Kind: k}).
func (h *Hub) Emit(k Kind) {
	h.Publish(Event{Kind: k})
}
