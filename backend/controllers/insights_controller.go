package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/helleenlara/Plataformalivros/backend/clients/gemini"
	"github.com/helleenlara/Plataformalivros/backend/config"
	"github.com/helleenlara/Plataformalivros/backend/services"
	"github.com/helleenlara/Plataformalivros/backend/utils"
	"gorm.io/gorm"
)

type InsightsController struct {
	Insights *services.Insights
	Cfg      *config.Config
}

func NewInsightsController(db *gorm.DB, ai gemini.Client, cfg *config.Config) *InsightsController {
	return &InsightsController{Insights: services.NewInsights(db, ai), Cfg: cfg}
}

// Overview godoc
// @Summary Writer insights over all respondents
// @Description Value counts of formats, goals, sentiments and genres, optionally filtered by age bracket
// @Tags insights
// @Produce json
// @Param idade query string false "Age bracket answer to filter on"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /insights [get]
func (ic *InsightsController) Overview(c *fiber.Ctx) error {
	if _, err := utils.ExtractUsernameFromToken(c, ic.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	report, err := ic.Insights.Overview(c.Context(), c.Query("idade"))
	if err != nil {
		return utils.InternalServerError(c, "Could not aggregate responses")
	}

	return utils.Success(c, fiber.StatusOK, report)
}

// Export streams the (optionally filtered) responses as a CSV download.
func (ic *InsightsController) Export(c *fiber.Ctx) error {
	if _, err := utils.ExtractUsernameFromToken(c, ic.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	data, err := ic.Insights.ExportCSV(c.Context(), c.Query("idade"))
	if err != nil {
		return utils.InternalServerError(c, "Could not export responses")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="dados_filtrados.csv"`)
	return c.Send(data)
}

// Suggestions returns AI writing advice derived from the stored profiles.
func (ic *InsightsController) Suggestions(c *fiber.Ctx) error {
	if _, err := utils.ExtractUsernameFromToken(c, ic.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	text, err := ic.Insights.WritingSuggestions(c.Context(), c.Query("idade"))
	if err != nil {
		if errors.Is(err, services.ErrNoRespondents) {
			return utils.NotFound(c, "Not enough profiles to analyze")
		}
		return utils.BadGateway(c, "Could not generate suggestions")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"analise": text,
	})
}
