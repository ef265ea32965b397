// Package advisor exposes the chat session over HTTP, streaming assistant
// output via Server-Sent Events.
package advisor

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/strategicsync/strategic-sync/backend/internal/model/advisor"
	advisorservice "github.com/strategicsync/strategic-sync/backend/internal/service/advisor"
	"github.com/strategicsync/strategic-sync/backend/pkg/utils"
)

// Handler manages advisor transcript and streaming endpoints.
type Handler struct {
	manager *advisorservice.Manager
}

// New creates the advisor handler.
func New(manager *advisorservice.Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers the advisor endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/advisor/history", h.handleHistory)
	r.Get("/advisor/stream", h.handleStream)
	r.Post("/advisor/vault/{turnID}", h.handlePromote)
}

// StreamResponse represents a streaming response chunk.
type StreamResponse struct {
	Event    string `json:"event"`
	Content  string `json:"content,omitempty"`
	Finished bool   `json:"finished,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	controller, err := h.manager.Acquire(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "sign in to open the advisor")
		return
	}
	utils.RespondJSON(w, http.StatusOK, controller.Transcript())
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
		return
	}

	if !h.manager.StreamingAvailable() {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	controller, err := h.manager.Acquire(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "sign in to open the advisor")
		return
	}

	utils.SetupSSEHeaders(w)
	h.sendSSE(w, flusher, StreamResponse{Event: "start"})

	accepted := controller.Submit(r.Context(), message, func(fragment string) {
		h.sendSSE(w, flusher, StreamResponse{Event: "delta", Content: fragment})
	})
	if !accepted {
		h.sendSSE(w, flusher, StreamResponse{Event: "error", Error: "submission rejected"})
		return
	}

	if streamErr := controller.LastError(); streamErr != nil {
		h.sendSSE(w, flusher, StreamResponse{
			Event: "error",
			Error: fmt.Sprintf("generation failed: %v", streamErr),
		})
		return
	}

	transcript := controller.Transcript()
	if len(transcript) > 0 {
		last := transcript[len(transcript)-1]
		if last.Role == model.RoleAssistant && last.State == model.StateFinal {
			h.sendSSE(w, flusher, StreamResponse{Event: "message", Content: last.Content})
		}
	}

	h.sendSSE(w, flusher, StreamResponse{Event: "end", Finished: true})
	log.Printf("[advisor] completed stream exchange")
}

func (h *Handler) handlePromote(w http.ResponseWriter, r *http.Request) {
	turnID := chi.URLParam(r, "turnID")

	controller, err := h.manager.Acquire(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "sign in to open the advisor")
		return
	}

	entry, err := controller.PromoteToVault(r.Context(), turnID)
	if err != nil {
		utils.RespondError(w, promoteStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, entry)
}

func promoteStatus(err error) int {
	switch {
	case errors.Is(err, advisorservice.ErrTurnNotFound):
		return http.StatusNotFound
	case errors.Is(err, advisorservice.ErrIdentityMismatch):
		return http.StatusForbidden
	case errors.Is(err, advisorservice.ErrTurnNotPromotable):
		return http.StatusConflict
	case errors.Is(err, advisorservice.ErrNoIdentity):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) sendSSE(w http.ResponseWriter, flusher http.Flusher, response StreamResponse) {
	utils.SendSSEChunk(w, flusher, response)
}
