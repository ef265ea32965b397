package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/strategicsync/strategic-sync/backend/internal/model/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
	"github.com/strategicsync/strategic-sync/backend/internal/model/vault"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode keeps reads open while the stream handlers append.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		company TEXT NOT NULL,
		industry TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS advisor_history (
		id TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_identity ON advisor_history(identity_id, created_at);

	CREATE TABLE IF NOT EXISTS vault_entries (
		id TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_vault_identity ON vault_entries(identity_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// AppendTurn inserts one conversation turn with a store-assigned id and
// timestamp. Creation time is stored in unix nanoseconds so that turns
// appended in quick succession keep distinct, ordered timestamps.
func (s *SQLiteStore) AppendTurn(ctx context.Context, identityID string, role advisor.Role, content string) (advisor.Turn, error) {
	turn := advisor.Turn{
		ID:         uuid.NewString(),
		IdentityID: identityID,
		Role:       role,
		State:      advisor.StateFinal,
		Content:    content,
		Persisted:  true,
		CreatedAt:  time.Now().UTC(),
	}

	query := `INSERT INTO advisor_history (id, identity_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, turn.ID, turn.IdentityID, string(turn.Role), turn.Content, turn.CreatedAt.UnixNano()); err != nil {
		return advisor.Turn{}, fmt.Errorf("append turn: %w", err)
	}
	return turn, nil
}

// ListTurns returns the identity's history ascending by creation time, with
// rowid as the tiebreak for equal timestamps.
func (s *SQLiteStore) ListTurns(ctx context.Context, identityID string) ([]advisor.Turn, error) {
	query := `
		SELECT id, identity_id, role, content, created_at
		FROM advisor_history WHERE identity_id = ?
		ORDER BY created_at ASC, rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Printf("[store] failed to close history rows: %v", closeErr)
		}
	}()

	var turns []advisor.Turn
	for rows.Next() {
		var turn advisor.Turn
		var role string
		var createdAt int64
		if err := rows.Scan(&turn.ID, &turn.IdentityID, &role, &turn.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		turn.Role = advisor.Role(role)
		turn.State = advisor.StateFinal
		turn.Persisted = true
		turn.CreatedAt = time.Unix(0, createdAt).UTC()
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return turns, nil
}

// CreateEntry inserts a vault entry with a store-assigned id and timestamp.
func (s *SQLiteStore) CreateEntry(ctx context.Context, identityID, category, title, content string) (vault.Entry, error) {
	entry := vault.Entry{
		ID:         uuid.NewString(),
		IdentityID: identityID,
		Category:   category,
		Title:      title,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}

	query := `INSERT INTO vault_entries (id, identity_id, category, title, content, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, entry.ID, entry.IdentityID, entry.Category, entry.Title, entry.Content, entry.CreatedAt.UnixNano()); err != nil {
		return vault.Entry{}, fmt.Errorf("create vault entry: %w", err)
	}
	return entry, nil
}

// ListEntries returns the identity's vault entries, most recent first.
func (s *SQLiteStore) ListEntries(ctx context.Context, identityID string) ([]vault.Entry, error) {
	query := `
		SELECT id, identity_id, category, title, content, created_at
		FROM vault_entries WHERE identity_id = ?
		ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("query vault entries: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Printf("[store] failed to close vault rows: %v", closeErr)
		}
	}()

	var entries []vault.Entry
	for rows.Next() {
		var entry vault.Entry
		var createdAt int64
		if err := rows.Scan(&entry.ID, &entry.IdentityID, &entry.Category, &entry.Title, &entry.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan vault row: %w", err)
		}
		entry.CreatedAt = time.Unix(0, createdAt).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vault rows: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes a vault entry by id.
func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM vault_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vault entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// CreateAccount inserts a new account record.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *Account) error {
	query := `INSERT INTO accounts (id, email, password_hash, name, company, industry, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		account.ID, account.Email, account.PasswordHash,
		account.Name, account.Company, account.Industry,
		account.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetAccountByEmail returns the account for the email, or nil when none
// exists.
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT id, email, password_hash, name, company, industry, created_at FROM accounts WHERE email = ?`
	row := s.db.QueryRowContext(ctx, query, email)

	var account Account
	var createdAt int64
	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Name, &account.Company, &account.Industry, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan account row: %w", err)
	}
	account.CreatedAt = time.Unix(0, createdAt).UTC()
	return &account, nil
}

// GetProfile fetches the profile fields for an account id.
func (s *SQLiteStore) GetProfile(ctx context.Context, id string) (*identity.Identity, error) {
	query := `SELECT id, email, name, company, industry, created_at FROM accounts WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	var ident identity.Identity
	var createdAt int64
	err := row.Scan(&ident.ID, &ident.Email, &ident.Name, &ident.Company, &ident.Industry, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile row: %w", err)
	}
	ident.CreatedAt = time.Unix(0, createdAt).UTC()
	return &ident, nil
}

// UpdatePasswordHash replaces the stored credential for an account.
func (s *SQLiteStore) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE accounts SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
