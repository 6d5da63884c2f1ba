package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/honeynet-in/honeypot-backend/internal/models"
	"github.com/honeynet-in/honeypot-backend/internal/services"
)

// ChatHandler handles inbound scammer messages.
type ChatHandler struct {
	service *services.HoneypotService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(service *services.HoneypotService) *ChatHandler {
	return &ChatHandler{service: service}
}

// chatRequest is the inbound body. The message arrives either as a bare
// string or as an object carrying a text field; the history field, when
// present, is ignored; server-side history is authoritative.
type chatRequest struct {
	Message   json.RawMessage        `json:"message"`
	SessionID string                 `json:"sessionId"`
	History   json.RawMessage        `json:"history"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// HandleChat processes one POST /api/chat request.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	message, ok := messageText(req.Message)
	if !ok || message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%d", time.Now().UnixMilli())
	}

	result, err := h.service.ProcessMessage(c.Context(), sessionID, message)
	if err != nil {
		// Operational hiccups degrade inside the service; anything
		// surfacing here is genuinely unexpected.
		log.Printf("❌ Unexpected error handling chat for %s: %v", sessionID, err)
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	history := make([]fiber.Map, 0, len(result.History))
	for _, turn := range result.History {
		sender := "agent"
		if turn.Role == models.RoleUser {
			sender = "scammer"
		}
		history = append(history, fiber.Map{
			"sender":    sender,
			"text":      turn.Content,
			"timestamp": turn.Timestamp.UnixMilli(),
		})
	}

	return c.JSON(fiber.Map{
		"status":              "success",
		"reply":               result.Reply,
		"conversationHistory": history,
		"internal_logic":      result.Logic,
	})
}

// messageText accepts both message shapes: "hello" and {"text": "hello"}.
func messageText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Text != "" {
		return obj.Text, true
	}

	return "", false
}
