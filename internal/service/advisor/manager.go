package advisor

import (
	"context"
	"log"
	"sync"

	"github.com/strategicsync/strategic-sync/backend/internal/service/session"
	"github.com/strategicsync/strategic-sync/backend/internal/store"
)

// Manager hands out one controller per bound identity and tears sessions
// down when the auth state clears. An in-flight stream on a discarded
// controller runs to completion but its result is never displayed or
// persisted against a live session.
type Manager struct {
	gen      Generator
	history  store.HistoryRepository
	vaults   store.VaultRepository
	sessions *session.Store

	mu          sync.Mutex
	controllers map[string]*Controller
	cancelSub   func()
}

// NewManager creates the manager and subscribes it to auth-state changes.
func NewManager(gen Generator, history store.HistoryRepository, vaults store.VaultRepository, sessions *session.Store) *Manager {
	m := &Manager{
		gen:         gen,
		history:     history,
		vaults:      vaults,
		sessions:    sessions,
		controllers: make(map[string]*Controller),
	}

	events, cancel := sessions.Subscribe()
	m.cancelSub = cancel
	go m.watchSessions(events)

	return m
}

// Acquire returns the controller for the currently bound identity,
// rehydrating a fresh one on first access.
func (m *Manager) Acquire(ctx context.Context) (*Controller, error) {
	ident, ok := m.sessions.Current()
	if !ok {
		return nil, ErrNoIdentity
	}

	m.mu.Lock()
	if existing, found := m.controllers[ident.ID]; found {
		m.mu.Unlock()
		return existing, nil
	}
	m.mu.Unlock()

	controller := New(m.gen, m.history, m.vaults)
	controller.Initialize(ctx, ident)
	if err := controller.RefreshVault(ctx); err != nil {
		// Degrades to an empty vault view; the cache fills on later reads.
		log.Printf("[advisor] initial vault fetch failed for identity=%s: %v", ident.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, found := m.controllers[ident.ID]; found {
		return existing, nil
	}
	m.controllers[ident.ID] = controller
	return controller, nil
}

// StreamingAvailable reports whether a generation collaborator was
// configured at startup.
func (m *Manager) StreamingAvailable() bool {
	return m.gen != nil
}

// Close cancels the auth-state subscription.
func (m *Manager) Close() {
	if m.cancelSub != nil {
		m.cancelSub()
	}
}

func (m *Manager) watchSessions(events <-chan session.Event) {
	for event := range events {
		if event.Type != session.EventCleared {
			continue
		}
		m.mu.Lock()
		count := len(m.controllers)
		m.controllers = make(map[string]*Controller)
		m.mu.Unlock()
		if count > 0 {
			log.Printf("[advisor] session cleared, discarded %d controller(s)", count)
		}
	}
}
