package advisor_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	advisorhandler "github.com/strategicsync/strategic-sync/backend/internal/handler/advisor"
	model "github.com/strategicsync/strategic-sync/backend/internal/model/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
	"github.com/strategicsync/strategic-sync/backend/internal/model/vault"
	advisorservice "github.com/strategicsync/strategic-sync/backend/internal/service/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/service/session"
	"github.com/strategicsync/strategic-sync/backend/internal/store"
)

type stubStream struct {
	fragments []string
	idx       int
}

func (s *stubStream) Recv() (string, error) {
	if s.idx < len(s.fragments) {
		fragment := s.fragments[s.idx]
		s.idx++
		return fragment, nil
	}
	return "", io.EOF
}

func (s *stubStream) Close() {}

type stubGenerator struct {
	fragments []string
}

func (g *stubGenerator) StreamAdvice(_ context.Context, _ identity.Identity, _ []model.Turn, _ string) (advisorservice.Stream, error) {
	return &stubStream{fragments: g.fragments}, nil
}

type stubHistory struct {
	existing []model.Turn
	seq      int
}

func (h *stubHistory) AppendTurn(_ context.Context, identityID string, role model.Role, content string) (model.Turn, error) {
	h.seq++
	return model.Turn{
		ID:         fmt.Sprintf("hist-%d", h.seq),
		IdentityID: identityID,
		Role:       role,
		State:      model.StateFinal,
		Content:    content,
		Persisted:  true,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func (h *stubHistory) ListTurns(_ context.Context, _ string) ([]model.Turn, error) {
	return append([]model.Turn(nil), h.existing...), nil
}

type stubVault struct {
	entries []vault.Entry
}

func (v *stubVault) CreateEntry(_ context.Context, identityID, category, title, content string) (vault.Entry, error) {
	entry := vault.Entry{
		ID:         "vault-1",
		IdentityID: identityID,
		Category:   category,
		Title:      title,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	v.entries = append([]vault.Entry{entry}, v.entries...)
	return entry, nil
}

func (v *stubVault) ListEntries(_ context.Context, _ string) ([]vault.Entry, error) {
	return append([]vault.Entry(nil), v.entries...), nil
}

func (v *stubVault) DeleteEntry(_ context.Context, id string) error {
	for i, entry := range v.entries {
		if entry.ID == id {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrEntryNotFound
}

func newTestRouter(gen advisorservice.Generator, history store.HistoryRepository, vaults store.VaultRepository, sessions *session.Store) (http.Handler, func()) {
	manager := advisorservice.NewManager(gen, history, vaults, sessions)
	r := chi.NewRouter()
	advisorhandler.New(manager).RegisterRoutes(r)
	return r, manager.Close
}

func boundSessions() *session.Store {
	sessions := session.NewStore()
	sessions.Bind(identity.Identity{ID: "id-jane", Email: "jane@acme.test", Name: "Jane", Company: "Acme"})
	return sessions
}

func decodeSSE(t *testing.T, body string) []advisorhandler.StreamResponse {
	t.Helper()
	var responses []advisorhandler.StreamResponse
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var response advisorhandler.StreamResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &response); err != nil {
			t.Fatalf("failed to decode sse frame %q: %v", line, err)
		}
		responses = append(responses, response)
	}
	return responses
}

func TestHistoryRequiresSession(t *testing.T) {
	router, cleanup := newTestRouter(&stubGenerator{}, &stubHistory{}, &stubVault{}, session.NewStore())
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/advisor/history", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestHistoryReturnsWelcomeTranscript(t *testing.T) {
	router, cleanup := newTestRouter(&stubGenerator{}, &stubHistory{}, &stubVault{}, boundSessions())
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/advisor/history", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var turns []model.Turn
	if err := json.Unmarshal(w.Body.Bytes(), &turns); err != nil {
		t.Fatalf("failed to decode transcript: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].Role != model.RoleAssistant || !strings.Contains(turns[0].Content, "Jane") {
		t.Errorf("unexpected welcome turn: %+v", turns[0])
	}
}

func TestStreamRequiresMessage(t *testing.T) {
	router, cleanup := newTestRouter(&stubGenerator{}, &stubHistory{}, &stubVault{}, boundSessions())
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/advisor/stream", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestStreamUnavailableWithoutGenerator(t *testing.T) {
	router, cleanup := newTestRouter(nil, &stubHistory{}, &stubVault{}, boundSessions())
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/advisor/stream?message=hello", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestStreamEmitsEventSequence(t *testing.T) {
	gen := &stubGenerator{fragments: []string{"alpha ", "beta"}}
	router, cleanup := newTestRouter(gen, &stubHistory{}, &stubVault{}, boundSessions())
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/advisor/stream?message=hello", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if contentType := w.Header().Get("Content-Type"); contentType != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", contentType)
	}

	responses := decodeSSE(t, w.Body.String())
	if len(responses) != 5 {
		t.Fatalf("expected 5 frames, got %d: %+v", len(responses), responses)
	}
	if responses[0].Event != "start" {
		t.Errorf("expected start frame, got %q", responses[0].Event)
	}
	if responses[1].Event != "delta" || responses[1].Content != "alpha " {
		t.Errorf("unexpected first delta: %+v", responses[1])
	}
	if responses[2].Event != "delta" || responses[2].Content != "beta" {
		t.Errorf("unexpected second delta: %+v", responses[2])
	}
	if responses[3].Event != "message" || responses[3].Content != "alpha beta" {
		t.Errorf("unexpected message frame: %+v", responses[3])
	}
	if responses[4].Event != "end" || !responses[4].Finished {
		t.Errorf("unexpected end frame: %+v", responses[4])
	}
}

func TestPromoteUnknownTurn(t *testing.T) {
	router, cleanup := newTestRouter(&stubGenerator{}, &stubHistory{}, &stubVault{}, boundSessions())
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/advisor/vault/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestPromoteFinalTurn(t *testing.T) {
	history := &stubHistory{existing: []model.Turn{{
		ID:         "hist-1",
		IdentityID: "id-jane",
		Role:       model.RoleAssistant,
		State:      model.StateFinal,
		Content:    "Insight\nbody",
		Persisted:  true,
	}}}
	router, cleanup := newTestRouter(&stubGenerator{}, history, &stubVault{}, boundSessions())
	defer cleanup()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/advisor/vault/hist-1", nil))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var entry vault.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode entry: %v", err)
	}
	if entry.Category != vault.CategoryCapture {
		t.Errorf("expected category %q, got %q", vault.CategoryCapture, entry.Category)
	}
	if entry.Title != "Insight..." {
		t.Errorf("expected title %q, got %q", "Insight...", entry.Title)
	}
	if entry.Content != "Insight\nbody" {
		t.Errorf("expected full content, got %q", entry.Content)
	}
}
