package handlers

import (
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"github.com/snapgram/snapgram/internal/realtime"
)

type WSHandler struct {
	hub *realtime.Hub
	log *slog.Logger
}

func NewWSHandler(hub *realtime.Hub, log *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, log: log}
}

// Handle GET /ws?userId=
//
// The handshake query param binds the connection to a user; the session
// lives exactly as long as the connection, and the read error path is the
// only disconnect signal.
func (h *WSHandler) Handle(c *websocket.Conn) {
	userID := c.Query("userId")
	if userID == "" {
		h.log.Warn("ws connection without userId rejected")
		_ = c.Close()
		return
	}

	client := realtime.NewClient(uuid.NewString(), userID, c)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump(h.hub)
}
