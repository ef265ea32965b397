// Package sessionws pushes auth-state change notifications to clients over
// a websocket, so open tabs can react to sign-in and sign-out.
package sessionws

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/strategicsync/strategic-sync/backend/internal/model/identity"
	"github.com/strategicsync/strategic-sync/backend/internal/service/session"
)

// Handler upgrades session-event subscriptions to websocket connections.
type Handler struct {
	sessions *session.Store
	upgrader websocket.Upgrader
}

// New creates the session websocket handler.
func New(sessions *session.Store) *Handler {
	return &Handler{
		sessions: sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session/ws", h.handleWebSocket)
}

type outgoingMessage struct {
	Type      string             `json:"type"`
	Identity  *identity.Identity `json:"identity,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[sessionws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.sessions.Subscribe()
	defer cancel()

	if err := conn.WriteJSON(h.snapshot()); err != nil {
		log.Printf("[sessionws] failed to write snapshot: %v", err)
		return
	}

	// Reader loop only detects client disconnect; inbound payloads are
	// ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			message := outgoingMessage{
				Type:      string(event.Type),
				Identity:  event.Identity,
				Timestamp: time.Now().UnixMilli(),
			}
			if err := conn.WriteJSON(message); err != nil {
				log.Printf("[sessionws] failed to write event: %v", err)
				return
			}
		}
	}
}

func (h *Handler) snapshot() outgoingMessage {
	message := outgoingMessage{Type: "snapshot", Timestamp: time.Now().UnixMilli()}
	if ident, ok := h.sessions.Current(); ok {
		message.Identity = &ident
	}
	return message
}
