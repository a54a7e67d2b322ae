// Package events is the console's typed publish/subscribe hub. It replaces
// the browser's storage and avatarUpdated DOM events with explicit types.
package events

import (
	"sync"

	"github.com/avvvet/nobleco-console/internal/comm"
	log "github.com/sirupsen/logrus"
)

type Event interface {
	EventType() string
}

// AvatarUpdated is published after an avatar upload or delete. AvatarURL is
// empty when the avatar was removed.
type AvatarUpdated struct {
	UserID    int64  `json:"user_id"`
	AvatarURL string `json:"avatar_url"`
}

func (AvatarUpdated) EventType() string { return comm.TypeAvatarUpdated }

// SessionChanged is published on login, logout and profile edits.
type SessionChanged struct {
	UserID   int64 `json:"user_id"`
	LoggedIn bool  `json:"logged_in"`
}

func (SessionChanged) EventType() string { return comm.TypeSessionChanged }

// Relay forwards locally published events to other instances.
type Relay interface {
	Relay(e Event) error
}

type Hub struct {
	mu    sync.RWMutex
	subs  map[uint64]func(Event)
	next  uint64
	relay Relay
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]func(Event))}
}

func (h *Hub) SetRelay(r Relay) {
	h.mu.Lock()
	h.relay = r
	h.mu.Unlock()
}

// Subscribe registers fn and returns the function that removes it.
func (h *Hub) Subscribe(fn func(Event)) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// On subscribes to events of one concrete type.
func On[T Event](h *Hub, fn func(T)) func() {
	return h.Subscribe(func(e Event) {
		if t, ok := e.(T); ok {
			fn(t)
		}
	})
}

// Publish delivers e locally and hands it to the relay, if any.
func (h *Hub) Publish(e Event) {
	h.Deliver(e)

	h.mu.RLock()
	r := h.relay
	h.mu.RUnlock()
	if r != nil {
		if err := r.Relay(e); err != nil {
			log.Errorf("relay %s event: %s", e.EventType(), err)
		}
	}
}

// Deliver runs local subscribers only.
func (h *Hub) Deliver(e Event) {
	h.mu.RLock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
