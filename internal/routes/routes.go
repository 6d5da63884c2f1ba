package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/honeynet-in/honeypot-backend/internal/config"
	"github.com/honeynet-in/honeypot-backend/internal/handlers"
	"github.com/honeynet-in/honeypot-backend/internal/middleware"
	"github.com/honeynet-in/honeypot-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg *config.Config, service *services.HoneypotService) {
	chatHandler := handlers.NewChatHandler(service)
	historyHandler := handlers.NewHistoryHandler(service)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	api := app.Group("/api")

	// Lightweight liveness probe; the root endpoints report DB status.
	api.Get("/status", healthHandler.Check)

	// The chat endpoint is the only one guarded by the shared secret; the
	// key check runs before any side effect.
	api.Post("/chat", middleware.RequireAPIKey(cfg.APISecret), chatHandler.HandleChat)

	// Transcript replay for the session bootstrap
	api.Get("/history", historyHandler.HandleHistory)

	// Accumulated intelligence view for the dashboard
	api.Get("/intelligence", historyHandler.HandleIntelligence)
}
