package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/honeynet-in/honeypot-backend/internal/services"
)

// HistoryHandler serves transcript replay and the accumulated intelligence
// view for the dashboard.
type HistoryHandler struct {
	service *services.HoneypotService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(service *services.HoneypotService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// HandleHistory returns the ordered turns for a session, or an empty array
// when no sessionId is supplied.
func (h *HistoryHandler) HandleHistory(c *fiber.Ctx) error {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		return c.JSON([]fiber.Map{})
	}

	turns, err := h.service.History(sessionID)
	if err != nil {
		log.Printf("⚠️  Failed to load history for %s: %v", sessionID, err)
		return c.JSON([]fiber.Map{})
	}

	out := make([]fiber.Map, 0, len(turns))
	for _, turn := range turns {
		out = append(out, fiber.Map{
			"role":      turn.Role,
			"content":   turn.Content,
			"timestamp": turn.Timestamp,
		})
	}
	return c.JSON(out)
}

// HandleIntelligence returns the merged intelligence view across every
// snapshot persisted for the session.
func (h *HistoryHandler) HandleIntelligence(c *fiber.Ctx) error {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "sessionId is required",
		})
	}

	merged, err := h.service.AccumulatedIntelligence(sessionID)
	if err != nil {
		log.Printf("⚠️  Failed to merge intelligence for %s: %v", sessionID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load intelligence",
		})
	}

	return c.JSON(merged)
}
