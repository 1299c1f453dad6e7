package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/helleenlara/Plataformalivros/backend/config"
	"github.com/helleenlara/Plataformalivros/backend/models"
	"github.com/helleenlara/Plataformalivros/backend/services"
	"github.com/helleenlara/Plataformalivros/backend/utils"
	"gorm.io/gorm"
)

type GamificationController struct {
	Ledger *services.Gamification
	Cfg    *config.Config
}

func NewGamificationController(db *gorm.DB, cfg *config.Config) *GamificationController {
	return &GamificationController{Ledger: services.NewGamification(db), Cfg: cfg}
}

type RecordReadingInput struct {
	PagesRead    int  `json:"paginas_lidas"`
	BookFinished bool `json:"livro_finalizado"`
}

// RecordReading godoc
// @Summary Record today's reading
// @Description Upserts the day's log entry, re-evaluates achievements and returns the updated status
// @Tags gamification
// @Accept json
// @Produce json
// @Param request body RecordReadingInput true "Pages read today and whether a book was finished"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /gamification/reading [post]
func (gc *GamificationController) RecordReading(c *fiber.Ctx) error {
	username, err := utils.ExtractUsernameFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input RecordReadingInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	ctx := c.Context()
	if err := gc.Ledger.RecordReading(ctx, username, input.PagesRead, input.BookFinished); err != nil {
		if errors.Is(err, services.ErrInvalidPages) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalServerError(c, "Could not record reading")
	}

	// Every recorded reading re-checks the achievement unlocks.
	awarded, err := gc.Ledger.EvaluateAchievements(ctx, username)
	if err != nil {
		return utils.InternalServerError(c, "Could not evaluate achievements")
	}

	status, err := gc.Ledger.PointsAndLevel(ctx, username)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute points")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"status":           status,
		"new_achievements": awarded,
	})
}

// Status returns the caller's points, level and weekly challenge state.
func (gc *GamificationController) Status(c *fiber.Ctx) error {
	username, err := utils.ExtractUsernameFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	ctx := c.Context()
	status, err := gc.Ledger.PointsAndLevel(ctx, username)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute points")
	}

	done, err := gc.Ledger.WeeklyChallengeDone(ctx, username)
	if err != nil {
		return utils.InternalServerError(c, "Could not evaluate challenge")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"status": status,
		"challenge": models.WeeklyChallenge{
			Description: gc.Ledger.ActiveChallenge(),
			Done:        done,
		},
	})
}

// Achievements lists the caller's awarded achievements, newest first.
func (gc *GamificationController) Achievements(c *fiber.Ctx) error {
	username, err := utils.ExtractUsernameFromToken(c, gc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	achievements, err := gc.Ledger.Achievements(c.Context(), username)
	if err != nil {
		return utils.InternalServerError(c, "Could not fetch achievements")
	}

	return utils.Success(c, fiber.StatusOK, achievements)
}

// Leaderboard returns the top readers by points. ?limit=n overrides the
// default top 5.
func (gc *GamificationController) Leaderboard(c *fiber.Ctx) error {
	if _, err := utils.ExtractUsernameFromToken(c, gc.Cfg); err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return utils.BadRequest(c, "limit must be a positive integer")
		}
		limit = parsed
	}

	entries, err := gc.Ledger.Leaderboard(c.Context(), limit)
	if err != nil {
		return utils.InternalServerError(c, "Could not compute leaderboard")
	}

	return utils.Success(c, fiber.StatusOK, entries)
}
