// Package vault exposes the saved-insight list over HTTP.
package vault

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	advisorservice "github.com/strategicsync/strategic-sync/backend/internal/service/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/store"
	"github.com/strategicsync/strategic-sync/backend/pkg/utils"
)

// Handler serves the vault read-through cache and deletions.
type Handler struct {
	manager *advisorservice.Manager
}

// New creates the vault handler.
func New(manager *advisorservice.Manager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers the vault endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/vault", h.handleList)
	r.Delete("/vault/{entryID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	controller, err := h.manager.Acquire(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "sign in to open the vault")
		return
	}

	if err := controller.RefreshVault(r.Context()); err != nil {
		// Serve the cached copy; a transient read failure is not blocking.
		log.Printf("[vault] refresh failed: %v", err)
	}
	utils.RespondJSON(w, http.StatusOK, controller.VaultEntries())
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	controller, err := h.manager.Acquire(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "sign in to open the vault")
		return
	}

	if err := controller.RemoveFromVault(r.Context(), entryID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrEntryNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
