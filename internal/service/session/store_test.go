package session

import (
	"testing"

	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
)

func TestCurrentEmptyStore(t *testing.T) {
	s := NewStore()
	if _, ok := s.Current(); ok {
		t.Fatal("expected no bound identity")
	}
}

func TestBindReplacesIdentity(t *testing.T) {
	s := NewStore()
	s.Bind(identity.Identity{ID: "id-1", Name: "Jane"})
	s.Bind(identity.Identity{ID: "id-2", Name: "Ken"})

	current, ok := s.Current()
	if !ok {
		t.Fatal("expected bound identity")
	}
	if current.ID != "id-2" {
		t.Fatalf("expected id-2, got %s", current.ID)
	}
}

func TestClearDropsIdentity(t *testing.T) {
	s := NewStore()
	s.Bind(identity.Identity{ID: "id-1"})
	s.Clear()

	if _, ok := s.Current(); ok {
		t.Fatal("expected no bound identity after clear")
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s := NewStore()
	events, cancel := s.Subscribe()
	defer cancel()

	s.Bind(identity.Identity{ID: "id-1", Name: "Jane"})

	event := <-events
	if event.Type != EventEstablished {
		t.Fatalf("expected established event, got %s", event.Type)
	}
	if event.Identity == nil || event.Identity.ID != "id-1" {
		t.Fatalf("expected identity id-1, got %+v", event.Identity)
	}

	s.Clear()
	event = <-events
	if event.Type != EventCleared {
		t.Fatalf("expected cleared event, got %s", event.Type)
	}
	if event.Identity != nil {
		t.Fatalf("cleared event should carry no identity, got %+v", event.Identity)
	}
}

func TestClearEmptyStoreEmitsNothing(t *testing.T) {
	s := NewStore()
	events, cancel := s.Subscribe()
	defer cancel()

	s.Clear()

	select {
	case event := <-events:
		t.Fatalf("unexpected event %s", event.Type)
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	s := NewStore()
	events, cancel := s.Subscribe()
	cancel()

	if _, open := <-events; open {
		t.Fatal("expected closed channel after cancel")
	}

	// A second cancel must not panic.
	cancel()
	s.Bind(identity.Identity{ID: "id-1"})
}
