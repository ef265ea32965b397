package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	advisorHandler "github.com/strategicsync/strategic-sync/backend/internal/handler/advisor"
	authHandler "github.com/strategicsync/strategic-sync/backend/internal/handler/auth"
	sessionwsHandler "github.com/strategicsync/strategic-sync/backend/internal/handler/sessionws"
	strategyHandler "github.com/strategicsync/strategic-sync/backend/internal/handler/strategy"
	vaultHandler "github.com/strategicsync/strategic-sync/backend/internal/handler/vault"
	middlewarePkg "github.com/strategicsync/strategic-sync/backend/internal/middleware"
	strategyModel "github.com/strategicsync/strategic-sync/backend/internal/model/strategy"
	advisorService "github.com/strategicsync/strategic-sync/backend/internal/service/advisor"
	authService "github.com/strategicsync/strategic-sync/backend/internal/service/auth"
	"github.com/strategicsync/strategic-sync/backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(sections strategyModel.Store, sessions *session.Store, authSvc *authService.Service, manager *advisorService.Manager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		authHandler.New(authSvc, sessions).RegisterRoutes(api)
		strategyHandler.New(sections).RegisterRoutes(api)
		advisorHandler.New(manager).RegisterRoutes(api)
		vaultHandler.New(manager).RegisterRoutes(api)
		sessionwsHandler.New(sessions).RegisterRoutes(api)
	})

	return r
}
