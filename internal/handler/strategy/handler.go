// Package strategy serves the static dashboard sections.
package strategy

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strategicsync/strategic-sync/backend/internal/model/strategy"
	"github.com/strategicsync/strategic-sync/backend/pkg/utils"
)

// Handler serves the strategy content panels.
type Handler struct {
	sections strategy.Store
}

// New creates the strategy handler.
func New(sections strategy.Store) *Handler {
	return &Handler{sections: sections}
}

// RegisterRoutes registers the strategy content endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/strategy/sections", h.handleListSections)
	r.Get("/strategy/sections/{sectionID}", h.handleGetSection)
}

func (h *Handler) handleListSections(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.sections.List())
}

func (h *Handler) handleGetSection(w http.ResponseWriter, r *http.Request) {
	sectionID := chi.URLParam(r, "sectionID")
	section, ok := h.sections.FindByID(sectionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "section not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, section)
}
