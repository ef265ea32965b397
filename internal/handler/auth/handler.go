// Package auth exposes the sign-up / sign-in / reset / sign-out flow.
package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authservice "github.com/strategicsync/strategic-sync/backend/internal/service/auth"
	"github.com/strategicsync/strategic-sync/backend/internal/service/session"
	"github.com/strategicsync/strategic-sync/backend/internal/store"
	"github.com/strategicsync/strategic-sync/backend/pkg/utils"
)

// Handler wires the auth service to HTTP.
type Handler struct {
	authSvc  *authservice.Service
	sessions *session.Store
}

// New creates the auth handler.
func New(authSvc *authservice.Service, sessions *session.Store) *Handler {
	return &Handler{authSvc: authSvc, sessions: sessions}
}

// RegisterRoutes registers the auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.handleSignUp)
	r.Post("/auth/signin", h.handleSignIn)
	r.Post("/auth/reset", h.handleReset)
	r.Post("/auth/signout", h.handleSignOut)
	r.Get("/auth/session", h.handleSession)
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Company  string `json:"company"`
		Industry string `json:"industry"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ident, err := h.authSvc.SignUp(r.Context(), authservice.SignUpInput{
		Email:    payload.Email,
		Password: payload.Password,
		Name:     payload.Name,
		Company:  payload.Company,
		Industry: payload.Industry,
	})
	if err != nil {
		utils.RespondError(w, signUpStatus(err), err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, ident)
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ident, err := h.authSvc.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			utils.RespondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "sign in failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, ident)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email       string `json:"email"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authSvc.ResetPassword(r.Context(), payload.Email, payload.NewPassword); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, authservice.ErrPasswordTooShort):
			status = http.StatusBadRequest
		case errors.Is(err, store.ErrAccountNotFound):
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	h.authSvc.SignOut()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	ident, ok := h.sessions.Current()
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "no active session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, ident)
}

func signUpStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, authservice.ErrEmailRequired),
		errors.Is(err, authservice.ErrPasswordTooShort),
		errors.Is(err, authservice.ErrNameRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
