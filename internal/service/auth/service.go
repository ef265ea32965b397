// Package auth implements session-based sign-in against the account
// registry. Successful sign-in binds the session store; sign-out clears it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
	"github.com/strategicsync/strategic-sync/backend/internal/service/session"
	"github.com/strategicsync/strategic-sync/backend/internal/store"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const minPasswordLength = 8

// Service wires credential checks to the account repository and the session
// store.
type Service struct {
	accounts store.AccountRepository
	sessions *session.Store
}

// NewService creates the auth service.
func NewService(accounts store.AccountRepository, sessions *session.Store) *Service {
	return &Service{accounts: accounts, sessions: sessions}
}

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
	Company  string
	Industry string
}

// SignUp registers a new account and binds the resulting identity.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (identity.Identity, error) {
	email := normalizeEmail(input.Email)
	if email == "" {
		return identity.Identity{}, ErrEmailRequired
	}
	if len(input.Password) < minPasswordLength {
		return identity.Identity{}, ErrPasswordTooShort
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return identity.Identity{}, ErrNameRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	account := &store.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Company:      strings.TrimSpace(input.Company),
		Industry:     strings.TrimSpace(input.Industry),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return identity.Identity{}, err
	}

	ident := account.Identity()
	s.sessions.Bind(ident)
	return ident, nil
}

// SignIn verifies credentials, fetches the profile by account id and binds
// the identity.
func (s *Service) SignIn(ctx context.Context, email, password string) (identity.Identity, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return identity.Identity{}, fmt.Errorf("look up account: %w", err)
	}
	if account == nil {
		return identity.Identity{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return identity.Identity{}, ErrInvalidCredentials
	}

	profile, err := s.accounts.GetProfile(ctx, account.ID)
	if err != nil {
		return identity.Identity{}, fmt.Errorf("fetch profile: %w", err)
	}

	s.sessions.Bind(*profile)
	return *profile, nil
}

// ResetPassword replaces the credential for an existing email.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	account, err := s.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("look up account: %w", err)
	}
	if account == nil {
		return store.ErrAccountNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.accounts.UpdatePasswordHash(ctx, account.ID, string(hash))
}

// SignOut clears the bound identity.
func (s *Service) SignOut() {
	s.sessions.Clear()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
