package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/honeynet-in/honeypot-backend/database"
	"github.com/honeynet-in/honeypot-backend/internal/config"
	"github.com/honeynet-in/honeypot-backend/internal/jobs"
	"github.com/honeynet-in/honeypot-backend/internal/llm"
	"github.com/honeynet-in/honeypot-backend/internal/models"
	"github.com/honeynet-in/honeypot-backend/internal/routes"
	"github.com/honeynet-in/honeypot-backend/internal/services"
	"github.com/honeynet-in/honeypot-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("server/.env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize storage
	var store storage.Store
	if cfg.UseMemoryStore {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Conversation{},
			&models.Intelligence{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Build the provider fallback ladder
	providers := make(map[string]llm.Completer)
	if cfg.GroqAPIKey != "" {
		groq, err := llm.NewGroqProvider(cfg.GroqAPIKey)
		if err != nil {
			log.Fatal("Failed to initialize Groq provider:", err)
		}
		providers["groq"] = groq
		log.Println("✅ Groq provider initialized")
	}
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal("Failed to initialize Gemini provider:", err)
		}
		providers["gemini"] = gemini
		log.Println("✅ Gemini provider initialized")
	}

	var candidates []llm.Candidate
	for _, mc := range cfg.Models {
		provider, ok := providers[mc.Provider]
		if !ok {
			log.Printf("⚠️  Skipping model %s: provider %q not configured", mc.Model, mc.Provider)
			continue
		}
		candidates = append(candidates, llm.Candidate{Provider: provider, Model: mc.Model})
	}

	llmClient, err := llm.NewClient(cfg.MaxAttempts, candidates...)
	if err != nil {
		log.Fatal("Failed to build provider ladder:", err)
	}
	log.Printf("✅ Provider ladder ready: %d models, %d attempts", len(candidates), cfg.MaxAttempts)

	// Optional WhatsApp operator alerting
	var alerter jobs.Alerter
	if cfg.TwilioConfigured() {
		twilioService, err := services.NewTwilioService(cfg)
		if err != nil {
			log.Printf("⚠️  Twilio service not initialized: %v", err)
		} else {
			alerter = twilioService
			log.Println("✅ Twilio operator alerting initialized")
		}
	}

	// Evaluation callback notifier (fire-and-forget delivery)
	var notifier services.Notifier
	callbackNotifier := jobs.NewCallbackNotifier(cfg.CallbackURL, alerter, cfg.OperatorPhone)
	if cfg.CallbackEnabled && (cfg.CallbackURL != "" || alerter != nil) {
		callbackNotifier.Start()
		notifier = callbackNotifier
	} else {
		log.Println("⚠️  Evaluation callback disabled")
	}

	honeypotService := services.NewHoneypotService(store, llmClient, notifier)

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "HoneyPot Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, x-api-key",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	// Health check endpoint with database status
	app.Get("/", func(c *fiber.Ctx) error {
		response := fiber.Map{
			"service": "HoneyPot Backend API",
			"version": "1.0.0",
			"status":  "healthy",
			"storage": getStorageType(cfg),
			"providers": fiber.Map{
				"groq":   cfg.GroqAPIKey != "",
				"gemini": cfg.GeminiAPIKey != "",
				"models": len(candidates),
			},
		}

		if !cfg.UseMemoryStore && database.DB != nil {
			sqlDB, err := database.DB.DB()
			dbStatus := "connected"
			if err != nil {
				dbStatus = "error: " + err.Error()
			} else if err := sqlDB.Ping(); err != nil {
				dbStatus = "error: " + err.Error()
			}

			var turnCount, snapshotCount int64
			database.DB.Model(&models.Conversation{}).Count(&turnCount)
			database.DB.Model(&models.Intelligence{}).Count(&snapshotCount)

			response["database"] = fiber.Map{
				"status":        dbStatus,
				"conversations": turnCount,
				"intelligence":  snapshotCount,
			}
		}

		return c.JSON(response)
	})

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if !cfg.UseMemoryStore && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"services": fiber.Map{
				"database": status == "healthy",
				"callback": notifier != nil,
			},
		})
	})

	// Setup routes
	routes.SetupRoutes(app, cfg, honeypotService)

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		if notifier != nil {
			log.Println("⏹️  Stopping callback notifier...")
			callbackNotifier.Stop()
		}
		log.Println("⏹️  Shutting down server...")
		_ = app.Shutdown()
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 HoneyPot Backend starting on port %s", cfg.Port)
	log.Printf("📊 Storage: %s", getStorageType(cfg))
	log.Printf("🤖 Models on ladder: %d", len(candidates))
	log.Printf("📡 Evaluation callback: %s", getCallbackStatus(cfg))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + cfg.Port))
}

func getStorageType(cfg *config.Config) string {
	if cfg.UseMemoryStore {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getCallbackStatus(cfg *config.Config) string {
	if !cfg.CallbackEnabled || cfg.CallbackURL == "" {
		return "Not configured"
	}
	return cfg.CallbackURL
}
