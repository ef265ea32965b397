// Package advisor orchestrates one interactive chat session: optimistic
// transcript appends, streaming assistant output and write-behind
// persistence of completed exchanges.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	model "github.com/strategicsync/strategic-sync/backend/internal/model/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
	"github.com/strategicsync/strategic-sync/backend/internal/model/vault"
	"github.com/strategicsync/strategic-sync/backend/internal/store"
)

// GenerationErrorText replaces a pending turn's content wholesale when the
// stream fails; partial concatenations are never left behind.
const GenerationErrorText = "Error: Cloud sync interrupted."

var (
	ErrNoIdentity        = errors.New("no identity bound to session")
	ErrTurnNotFound      = errors.New("turn not found")
	ErrTurnNotPromotable = errors.New("turn is not promotable")
	ErrIdentityMismatch  = errors.New("turn belongs to a different identity")
)

// Stream is the lazy, finite, non-restartable fragment sequence returned by
// the generation collaborator. Recv returns io.EOF at stream end.
type Stream interface {
	Recv() (string, error)
	Close()
}

// Generator opens one streaming generation call with the session context and
// prior transcript.
type Generator interface {
	StreamAdvice(ctx context.Context, ident identity.Identity, history []model.Turn, query string) (Stream, error)
}

// Controller manages one conversational exchange end to end. Only the
// controller mutates the transcript, and only at the two mutation points in
// Submit; all accessors return copies.
type Controller struct {
	gen     Generator
	history store.HistoryRepository
	vaults  store.VaultRepository

	mu         sync.Mutex
	ident      *identity.Identity
	turns      []model.Turn
	generating bool
	lastErr    error
	vaultCache []vault.Entry
	promoted   map[string]vault.Entry
}

// New creates a controller over the given collaborators.
func New(gen Generator, history store.HistoryRepository, vaults store.VaultRepository) *Controller {
	return &Controller{
		gen:      gen,
		history:  history,
		vaults:   vaults,
		promoted: make(map[string]vault.Entry),
	}
}

// Initialize binds the identity and rehydrates the transcript from the
// history repository. An unreachable repository degrades silently to the
// synthetic welcome turn so the panel stays usable.
func (c *Controller) Initialize(ctx context.Context, ident identity.Identity) {
	turns, err := c.history.ListTurns(ctx, ident.ID)
	if err != nil {
		log.Printf("[advisor] history fetch failed for identity=%s: %v", ident.ID, err)
		turns = nil
	}
	if len(turns) == 0 {
		turns = []model.Turn{welcomeTurn(ident)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ident = &ident
	c.turns = turns
	c.generating = false
	c.lastErr = nil
	c.vaultCache = nil
	c.promoted = make(map[string]vault.Entry)
}

// Submit runs one exchange: it appends the human turn and a pending
// assistant turn, streams fragments into the pending slot (forwarding each
// to emit), and persists both turns once the stream completes. It reports
// false without side effects when the text is empty, no identity is bound,
// or a generation is already in progress.
func (c *Controller) Submit(ctx context.Context, text string, emit func(fragment string)) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	c.mu.Lock()
	if c.ident == nil || c.generating || c.gen == nil {
		c.mu.Unlock()
		return false
	}
	ident := *c.ident
	now := time.Now().UTC()
	humanID := uuid.NewString()
	pendingID := uuid.NewString()
	prior := append([]model.Turn(nil), c.turns...)
	c.turns = append(c.turns,
		model.Turn{ID: humanID, IdentityID: ident.ID, Role: model.RoleHuman, State: model.StateFinal, Content: text, CreatedAt: now},
		model.Turn{ID: pendingID, IdentityID: ident.ID, Role: model.RoleAssistant, State: model.StatePending, CreatedAt: now},
	)
	c.generating = true
	c.mu.Unlock()

	stream, err := c.gen.StreamAdvice(ctx, ident, prior, text)
	if err != nil {
		c.failPending(pendingID, err)
		return true
	}
	defer stream.Close()

	for {
		fragment, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			c.failPending(pendingID, recvErr)
			return true
		}
		if fragment == "" {
			continue
		}

		c.mu.Lock()
		c.appendFragment(pendingID, fragment)
		c.mu.Unlock()
		if emit != nil {
			emit(fragment)
		}
	}

	c.mu.Lock()
	var final string
	if turn := c.findTurn(pendingID); turn != nil {
		turn.State = model.StateFinal
		final = turn.Content
	}
	c.generating = false
	c.lastErr = nil
	c.mu.Unlock()

	c.persistExchange(ctx, ident.ID, humanID, pendingID, text, final)
	return true
}

// PromoteToVault commits a finished turn's content to the vault. Promotion
// is idempotent per turn: a repeated call returns the existing entry instead
// of duplicating it.
func (c *Controller) PromoteToVault(ctx context.Context, turnID string) (vault.Entry, error) {
	c.mu.Lock()
	if c.ident == nil {
		c.mu.Unlock()
		return vault.Entry{}, ErrNoIdentity
	}
	ident := *c.ident
	turn := c.findTurn(turnID)
	if turn == nil {
		c.mu.Unlock()
		return vault.Entry{}, ErrTurnNotFound
	}
	if turn.IdentityID != ident.ID {
		c.mu.Unlock()
		return vault.Entry{}, ErrIdentityMismatch
	}
	if !turn.Promotable() {
		c.mu.Unlock()
		return vault.Entry{}, ErrTurnNotPromotable
	}
	if existing, ok := c.promoted[turnID]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	content := turn.Content
	c.mu.Unlock()

	entry, err := c.vaults.CreateEntry(ctx, ident.ID, vault.CategoryCapture, vault.TitleFor(content), content)
	if err != nil {
		// Cache stays untouched; the caller simply gets no confirmation.
		return vault.Entry{}, fmt.Errorf("create vault entry: %w", err)
	}

	c.mu.Lock()
	c.vaultCache = append([]vault.Entry{entry}, c.vaultCache...)
	c.promoted[turnID] = entry
	c.mu.Unlock()
	return entry, nil
}

// RefreshVault re-reads the identity's entries into the read-through cache.
func (c *Controller) RefreshVault(ctx context.Context) error {
	c.mu.Lock()
	if c.ident == nil {
		c.mu.Unlock()
		return ErrNoIdentity
	}
	identityID := c.ident.ID
	c.mu.Unlock()

	entries, err := c.vaults.ListEntries(ctx, identityID)
	if err != nil {
		return fmt.Errorf("list vault entries: %w", err)
	}

	c.mu.Lock()
	c.vaultCache = entries
	c.mu.Unlock()
	return nil
}

// RemoveFromVault deletes an entry; the cache is updated only on a
// successful round trip.
func (c *Controller) RemoveFromVault(ctx context.Context, entryID string) error {
	if err := c.vaults.DeleteEntry(ctx, entryID); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	filtered := c.vaultCache[:0]
	for _, entry := range c.vaultCache {
		if entry.ID != entryID {
			filtered = append(filtered, entry)
		}
	}
	c.vaultCache = filtered
	for turnID, entry := range c.promoted {
		if entry.ID == entryID {
			delete(c.promoted, turnID)
		}
	}
	return nil
}

// Transcript returns a copy of the in-memory transcript, the display source
// of truth for the session.
func (c *Controller) Transcript() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Turn(nil), c.turns...)
}

// VaultEntries returns a copy of the read-through cache, most recent first.
func (c *Controller) VaultEntries() []vault.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]vault.Entry(nil), c.vaultCache...)
}

// Generating reports whether a stream is in flight.
func (c *Controller) Generating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generating
}

// LastError returns the most recent stream failure, if the last exchange
// errored.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Identity returns the bound identity, if any.
func (c *Controller) Identity() (identity.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ident == nil {
		return identity.Identity{}, false
	}
	return *c.ident, true
}

// findTurn returns a pointer into c.turns; callers must hold c.mu.
func (c *Controller) findTurn(id string) *model.Turn {
	for i := range c.turns {
		if c.turns[i].ID == id {
			return &c.turns[i]
		}
	}
	return nil
}

// appendFragment grows the single mutable slot; callers must hold c.mu.
func (c *Controller) appendFragment(pendingID, fragment string) {
	if turn := c.findTurn(pendingID); turn != nil && turn.State == model.StatePending {
		turn.Content += fragment
	}
}

func (c *Controller) failPending(pendingID string, cause error) {
	log.Printf("[advisor] generation stream failed: %v", cause)

	c.mu.Lock()
	defer c.mu.Unlock()
	if turn := c.findTurn(pendingID); turn != nil {
		turn.Content = GenerationErrorText
		turn.State = model.StateErrored
	}
	c.generating = false
	c.lastErr = cause
}

// persistExchange mirrors the completed exchange to durable storage: the
// human turn first so rehydration reads in conversation order, then the
// assistant turn. The two appends are independent; a failure leaves the
// in-memory transcript authoritative and the turn's Persisted flag false.
func (c *Controller) persistExchange(ctx context.Context, identityID, humanID, pendingID, humanText, assistantText string) {
	if saved, err := c.history.AppendTurn(ctx, identityID, model.RoleHuman, humanText); err != nil {
		log.Printf("[advisor] failed to persist human turn: %v", err)
	} else {
		c.adoptDurable(humanID, saved)
	}

	if saved, err := c.history.AppendTurn(ctx, identityID, model.RoleAssistant, assistantText); err != nil {
		log.Printf("[advisor] failed to persist assistant turn: %v", err)
	} else {
		c.adoptDurable(pendingID, saved)
	}
}

// adoptDurable swaps a turn's temporary local id for the store-assigned one
// and marks it persisted.
func (c *Controller) adoptDurable(localID string, saved model.Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if turn := c.findTurn(localID); turn != nil {
		turn.ID = saved.ID
		turn.Persisted = true
	}
}

func welcomeTurn(ident identity.Identity) model.Turn {
	content := fmt.Sprintf(
		"Cloud Protocol Initialized. Welcome back, %s. I am monitoring the strategic convergence for %s. How shall we pivot today?",
		ident.Name, ident.Company,
	)
	return model.Turn{
		ID:         uuid.NewString(),
		IdentityID: ident.ID,
		Role:       model.RoleAssistant,
		State:      model.StateFinal,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
}
