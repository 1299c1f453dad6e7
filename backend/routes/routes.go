package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/helleenlara/Plataformalivros/backend/clients/gemini"
	"github.com/helleenlara/Plataformalivros/backend/config"
	"github.com/helleenlara/Plataformalivros/backend/controllers"
	"github.com/helleenlara/Plataformalivros/backend/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, ai gemini.Client, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	authMiddleware := middleware.AuthMiddleware(cfg)

	// Survey and generated profile
	surveyController := controllers.NewSurveyController(db, ai, cfg)
	survey := app.Group("/api/survey", authMiddleware)
	survey.Post("/", surveyController.Submit)
	survey.Get("/", surveyController.Get)
	survey.Post("/regenerate", surveyController.Regenerate)

	// Gamification ledger
	gamificationController := controllers.NewGamificationController(db, cfg)
	gamification := app.Group("/api/gamification", authMiddleware)
	gamification.Post("/reading", gamificationController.RecordReading)
	gamification.Get("/status", gamificationController.Status)
	gamification.Get("/achievements", gamificationController.Achievements)
	gamification.Get("/leaderboard", gamificationController.Leaderboard)

	// Writer insights dashboard
	insightsController := controllers.NewInsightsController(db, ai, cfg)
	insights := app.Group("/api/insights", authMiddleware)
	insights.Get("/", insightsController.Overview)
	insights.Get("/export", insightsController.Export)
	insights.Get("/suggestions", insightsController.Suggestions)
}
