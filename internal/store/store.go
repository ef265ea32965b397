// Package store provides the durable persistence layer behind the advisor
// history, the vault and the account registry.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/strategicsync/strategic-sync/backend/internal/model/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
	"github.com/strategicsync/strategic-sync/backend/internal/model/vault"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
	ErrEntryNotFound   = errors.New("vault entry not found")
)

// Account is the stored credential record behind an Identity.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Company      string
	Industry     string
	CreatedAt    time.Time
}

// Identity derives the session-facing profile from the account record.
func (a *Account) Identity() identity.Identity {
	return identity.Identity{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Company:   a.Company,
		Industry:  a.Industry,
		CreatedAt: a.CreatedAt,
	}
}

// HistoryRepository is the append-only conversation log. Ordering on read is
// delegated to the store's own timestamp column; no update or delete is
// exposed.
type HistoryRepository interface {
	// AppendTurn inserts one turn and returns it with the store-assigned id
	// and timestamp.
	AppendTurn(ctx context.Context, identityID string, role advisor.Role, content string) (advisor.Turn, error)

	// ListTurns returns all turns for the identity, ascending by creation
	// time.
	ListTurns(ctx context.Context, identityID string) ([]advisor.Turn, error)
}

// VaultRepository persists promoted insight records. All operations are
// independent, non-transactional calls.
type VaultRepository interface {
	// CreateEntry inserts an entry and returns it with the store-assigned id
	// and timestamp.
	CreateEntry(ctx context.Context, identityID, category, title, content string) (vault.Entry, error)

	// ListEntries returns the identity's entries, descending by creation
	// time.
	ListEntries(ctx context.Context, identityID string) ([]vault.Entry, error)

	// DeleteEntry removes an entry by id.
	DeleteEntry(ctx context.Context, id string) error
}

// AccountRepository backs the integrated auth variant.
type AccountRepository interface {
	// CreateAccount inserts a new account; ErrEmailTaken when the email is
	// already registered.
	CreateAccount(ctx context.Context, account *Account) error

	// GetAccountByEmail returns the account for the email, or nil when none
	// exists.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)

	// GetProfile fetches the profile fields for an account id.
	GetProfile(ctx context.Context, id string) (*identity.Identity, error)

	// UpdatePasswordHash replaces the stored credential for an account.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// Repository aggregates the persistence surface consumed by the services.
type Repository interface {
	HistoryRepository
	VaultRepository
	AccountRepository

	// Ping verifies connectivity to the backing store.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
