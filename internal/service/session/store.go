// Package session holds the authenticated identity for the lifetime of the
// process and fans out auth-state change notifications.
package session

import (
	"log"
	"sync"

	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
)

// EventType labels an auth-state transition.
type EventType string

const (
	EventEstablished EventType = "session_established"
	EventCleared     EventType = "session_cleared"
)

// Event is one auth-state change. Identity is set only for EventEstablished.
type Event struct {
	Type     EventType          `json:"type"`
	Identity *identity.Identity `json:"identity,omitempty"`
}

// Store owns the bound identity. Binding replaces any prior identity
// wholesale; there is no merge.
type Store struct {
	mu      sync.RWMutex
	current *identity.Identity
	subs    map[int]chan Event
	nextSub int
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{subs: make(map[int]chan Event)}
}

// Current returns the bound identity, if any.
func (s *Store) Current() (identity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return identity.Identity{}, false
	}
	return *s.current, true
}

// Bind replaces the bound identity and notifies subscribers.
func (s *Store) Bind(ident identity.Identity) {
	s.mu.Lock()
	s.current = &ident
	s.mu.Unlock()

	s.notify(Event{Type: EventEstablished, Identity: &ident})
}

// Clear drops the bound identity and notifies subscribers. Clearing an
// already-empty store is a no-op.
func (s *Store) Clear() {
	s.mu.Lock()
	wasBound := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if wasBound {
		s.notify(Event{Type: EventCleared})
	}
}

// Subscribe registers for auth-state change events. The returned cancel func
// must be called to release the subscription.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Store) notify(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, ch := range s.subs {
		select {
		case ch <- event:
		default:
			log.Printf("[session] dropping event for slow subscriber %d", id)
		}
	}
}
