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

type SurveyController struct {
	Profile *services.Profile
	Cfg     *config.Config
}

func NewSurveyController(db *gorm.DB, ai gemini.Client, cfg *config.Config) *SurveyController {
	return &SurveyController{Profile: services.NewProfile(db, ai), Cfg: cfg}
}

type SubmitSurveyInput struct {
	Answers map[string]interface{} `json:"answers"`
}

// Submit godoc
// @Summary Submit the reading-preferences questionnaire
// @Description Generates a literary profile from the answers and stores both
// @Tags survey
// @Accept json
// @Produce json
// @Param request body SubmitSurveyInput true "Question-key to answer mapping"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /survey [post]
func (sc *SurveyController) Submit(c *fiber.Ctx) error {
	username, err := utils.ExtractUsernameFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input SubmitSurveyInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	profile, err := sc.Profile.Submit(c.Context(), username, input.Answers)
	if err != nil {
		if errors.Is(err, services.ErrEmptyAnswers) {
			return utils.BadRequest(c, "Survey answers must not be empty")
		}
		return utils.BadGateway(c, "Could not generate profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"perfil_gerado": profile,
	})
}

// Get returns the caller's stored answers and generated profile.
func (sc *SurveyController) Get(c *fiber.Ctx) error {
	username, err := utils.ExtractUsernameFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	response, err := sc.Profile.Get(c.Context(), username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "No survey response yet")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, response)
}

// Regenerate rebuilds the profile and recommendations from the answers the
// caller already submitted, overwriting the stored profile.
func (sc *SurveyController) Regenerate(c *fiber.Ctx) error {
	username, err := utils.ExtractUsernameFromToken(c, sc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	profile, err := sc.Profile.Regenerate(c.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrNoResponse) {
			return utils.NotFound(c, "No survey response to regenerate from")
		}
		return utils.BadGateway(c, "Could not generate profile")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"perfil_gerado": profile,
	})
}
