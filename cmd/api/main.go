package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/strategicsync/strategic-sync/backend/internal/config"
	"github.com/strategicsync/strategic-sync/backend/internal/handler"
	advisormodel "github.com/strategicsync/strategic-sync/backend/internal/model/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
	"github.com/strategicsync/strategic-sync/backend/internal/model/strategy"
	advisorservice "github.com/strategicsync/strategic-sync/backend/internal/service/advisor"
	"github.com/strategicsync/strategic-sync/backend/internal/service/ai"
	authservice "github.com/strategicsync/strategic-sync/backend/internal/service/auth"
	"github.com/strategicsync/strategic-sync/backend/internal/service/session"
	"github.com/strategicsync/strategic-sync/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	repository, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		log.Fatalf("failed to open store at %s: %v", cfg.Store.Path, err)
	}
	defer func() {
		if closeErr := repository.Close(); closeErr != nil {
			log.Printf("warning: failed to close store: %v", closeErr)
		}
	}()

	sessions := session.NewStore()
	authSvc := authservice.NewService(repository, sessions)
	sections := strategy.NewMemoryStore(strategy.Seed())

	var generator advisorservice.Generator
	if cfg.AI.Enabled() {
		aiSvc, aiErr := ai.NewService(ctx, cfg.AI)
		if aiErr != nil {
			log.Printf("warning: failed to initialize AI service: %v", aiErr)
			log.Println("continuing without advisor generation - check the ARK_* environment variables")
		} else {
			generator = arkGenerator{svc: aiSvc}
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("model credentials not configured, skipping AI initialization")
	}

	manager := advisorservice.NewManager(generator, repository, repository, sessions)
	defer manager.Close()

	router := handler.NewRouter(sections, sessions, authSvc, manager)

	startServer(ctx, cfg.Server, router)
}

// arkGenerator adapts the eino-backed AI service to the advisor controller's
// generator contract. When streaming is disabled by configuration the full
// response is delivered as a single fragment.
type arkGenerator struct {
	svc *ai.Service
}

func (g arkGenerator) StreamAdvice(ctx context.Context, ident identity.Identity, history []advisormodel.Turn, query string) (advisorservice.Stream, error) {
	if !g.svc.StreamingEnabled() {
		response, err := g.svc.GenerateAdvice(ctx, ident, history, query)
		if err != nil {
			return nil, err
		}
		return &singleShotStream{content: response.Content}, nil
	}
	return g.svc.StreamAdvice(ctx, ident, history, query)
}

type singleShotStream struct {
	content string
	done    bool
}

func (s *singleShotStream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	s.done = true
	return s.content, nil
}

func (s *singleShotStream) Close() {}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Strategic Sync backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
