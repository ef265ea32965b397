package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/strategicsync/strategic-sync/backend/internal/model/advisor"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestAppendAndListTurnsAscending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	contents := []string{"first", "second", "third"}
	roles := []advisor.Role{advisor.RoleHuman, advisor.RoleAssistant, advisor.RoleHuman}
	for i := range contents {
		if _, err := s.AppendTurn(ctx, "id-1", roles[i], contents[i]); err != nil {
			t.Fatalf("AppendTurn %d: %v", i, err)
		}
	}

	turns, err := s.ListTurns(ctx, "id-1")
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		if turn.Content != contents[i] {
			t.Errorf("turn %d: expected content %q, got %q", i, contents[i], turn.Content)
		}
		if turn.Role != roles[i] {
			t.Errorf("turn %d: expected role %q, got %q", i, roles[i], turn.Role)
		}
		if turn.State != advisor.StateFinal {
			t.Errorf("turn %d: expected final state, got %q", i, turn.State)
		}
		if !turn.Persisted {
			t.Errorf("turn %d: expected persisted flag", i)
		}
	}
}

func TestListTurnsScopedToIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.AppendTurn(ctx, "id-1", advisor.RoleHuman, "mine"); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if _, err := s.AppendTurn(ctx, "id-2", advisor.RoleHuman, "theirs"); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}

	turns, err := s.ListTurns(ctx, "id-1")
	if err != nil {
		t.Fatalf("ListTurns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "mine" {
		t.Fatalf("expected only id-1 turns, got %+v", turns)
	}
}

func TestVaultEntriesDescending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"oldest", "middle", "newest"} {
		if _, err := s.CreateEntry(ctx, "id-1", "STRATEGIC CAPTURE", title, "body"); err != nil {
			t.Fatalf("CreateEntry %q: %v", title, err)
		}
	}

	entries, err := s.ListEntries(ctx, "id-1")
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"newest", "middle", "oldest"}
	for i, entry := range entries {
		if entry.Title != want[i] {
			t.Errorf("entry %d: expected title %q, got %q", i, want[i], entry.Title)
		}
	}
}

func TestDeleteEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry, err := s.CreateEntry(ctx, "id-1", "STRATEGIC CAPTURE", "title", "body")
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}

	if err := s.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if err := s.DeleteEntry(ctx, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	entries, err := s.ListEntries(ctx, "id-1")
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty vault, got %d entries", len(entries))
	}
}

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	account := &Account{
		ID:           "acc-1",
		Email:        "jane@acme.test",
		PasswordHash: "hash",
		Name:         "Jane",
		Company:      "Acme",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	duplicate := &Account{
		ID:           "acc-2",
		Email:        "jane@acme.test",
		PasswordHash: "hash2",
		Name:         "Other Jane",
		Company:      "Acme",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateAccount(ctx, duplicate); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGetAccountByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	account := &Account{
		ID:           "acc-1",
		Email:        "jane@acme.test",
		PasswordHash: "hash",
		Name:         "Jane",
		Company:      "Acme",
		Industry:     "SaaS",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	found, err := s.GetAccountByEmail(ctx, "jane@acme.test")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if found == nil {
		t.Fatal("expected account, got nil")
	}
	if found.Name != "Jane" || found.Company != "Acme" || found.Industry != "SaaS" {
		t.Errorf("unexpected profile fields: %+v", found)
	}

	missing, err := s.GetAccountByEmail(ctx, "nobody@acme.test")
	if err != nil {
		t.Fatalf("GetAccountByEmail unknown: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown email, got %+v", missing)
	}
}

func TestGetProfileAndUpdatePassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	account := &Account{
		ID:           "acc-1",
		Email:        "jane@acme.test",
		PasswordHash: "old-hash",
		Name:         "Jane",
		Company:      "Acme",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	profile, err := s.GetProfile(ctx, "acc-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Email != "jane@acme.test" || profile.Name != "Jane" {
		t.Errorf("unexpected profile: %+v", profile)
	}

	if _, err := s.GetProfile(ctx, "unknown"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	if err := s.UpdatePasswordHash(ctx, "acc-1", "new-hash"); err != nil {
		t.Fatalf("UpdatePasswordHash: %v", err)
	}
	updated, err := s.GetAccountByEmail(ctx, "jane@acme.test")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if updated.PasswordHash != "new-hash" {
		t.Errorf("expected updated hash, got %q", updated.PasswordHash)
	}

	if err := s.UpdatePasswordHash(ctx, "unknown", "x"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
