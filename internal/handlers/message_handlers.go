package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/snapgram/snapgram/internal/auth"
	"github.com/snapgram/snapgram/internal/database"
	"github.com/snapgram/snapgram/internal/realtime"
)

type MessageHandler struct {
	messages *database.MessageRepo
	hub      *realtime.Hub
	log      *slog.Logger
}

func NewMessageHandler(messages *database.MessageRepo, hub *realtime.Hub, log *slog.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, hub: hub, log: log}
}

type sendMessageRequest struct {
	TextMessage string `json:"textMessage"`
}

// Send POST /api/v1/message/send/:id
//
// The message row is the durable record. The receiver additionally gets
// "newMessage" and "getMessageNotification" events on their live session,
// best-effort only.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.TextMessage) == "" {
		return badRequest(c, "message is required")
	}

	senderID := auth.UserID(c)
	receiverID := c.Params("id")

	msg, err := h.messages.Send(c.Context(), senderID, receiverID, req.TextMessage)
	if err != nil {
		return serverError(c, err)
	}

	h.hub.Deliver(receiverID, realtime.EventNewMessage, msg)
	h.hub.Deliver(receiverID, realtime.EventMessageNotification, realtime.MessageNotification{
		SenderID: senderID,
		Text:     msg.Text,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"newMessage": msg,
	})
}

// List GET /api/v1/message/all/:id
func (h *MessageHandler) List(c *fiber.Ctx) error {
	msgs, err := h.messages.ListBetween(c.Context(), auth.UserID(c), c.Params("id"))
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"messages": msgs,
	})
}
