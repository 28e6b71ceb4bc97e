package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/khannadk2/swift-order-entry/internal/stream"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The demo desk serves browsers from arbitrary origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StreamHandler upgrades clients onto the live order event stream.
type StreamHandler struct {
	hub    *stream.Hub
	logger *slog.Logger
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(hub *stream.Hub, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{hub: hub, logger: logger}
}

// Orders handles GET /ws/orders. The connection receives every order
// event as a JSON text message until the client disconnects.
func (h *StreamHandler) Orders(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	h.hub.Register(conn)

	// Drain client frames so pings/close are processed; unregister on
	// first read error (disconnect).
	go func() {
		defer h.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
