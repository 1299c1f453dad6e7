package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/helleenlara/Plataformalivros/backend/clients/gemini"
	"github.com/helleenlara/Plataformalivros/backend/config"
	"github.com/helleenlara/Plataformalivros/backend/middleware"
	"github.com/helleenlara/Plataformalivros/backend/routes"
	"github.com/helleenlara/Plataformalivros/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(os.Getenv("LOG_MODE"))
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Gemini client for profile generation and writer suggestions
	ai, err := gemini.NewClient(gemini.Options{
		BaseURL: cfg.GeminiBaseURL,
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
	}, logger)
	if err != nil {
		log.Fatalf("Error initializing gemini client: %v", err)
	}

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, ai, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
