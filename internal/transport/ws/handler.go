package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mafioso/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.GameHub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler. checkOrigin may be nil to accept any origin.
func NewHandler(hub *app.GameHub, checkOrigin func(r *http.Request) bool, logger *slog.Logger) *Handler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
// Each connection gets a fresh identity; rooms are created or joined over the socket.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	playerID := uuid.New().String()
	client := NewClient(conn, h.hub, playerID, h.logger)

	h.logger.Info("websocket connected", "playerID", playerID, "remote", r.RemoteAddr)

	client.sendConnected()
	client.Run()

	h.logger.Info("websocket disconnected", "playerID", playerID)
}
