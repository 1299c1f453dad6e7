package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/helleenlara/Plataformalivros/backend/clients/gemini"
	"github.com/helleenlara/Plataformalivros/backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyAnswers = errors.New("survey answers must not be empty")
	ErrNoResponse   = errors.New("no stored survey response for user")
)

// Profile turns a user's questionnaire answers into an AI-generated literary
// profile with book and article recommendations, and keeps the stored response
// in step: one row per user, resubmission overwrites answers and profile.
type Profile struct {
	DB *gorm.DB
	AI gemini.Client
}

func NewProfile(db *gorm.DB, ai gemini.Client) *Profile {
	return &Profile{DB: db, AI: ai}
}

// Submit generates a profile from the answers and upserts the user's stored
// response. Returns the generated profile text.
func (p *Profile) Submit(ctx context.Context, username string, answers map[string]interface{}) (string, error) {
	if len(answers) == 0 {
		return "", ErrEmptyAnswers
	}

	prompt, err := profilePrompt(answers)
	if err != nil {
		return "", err
	}

	profile, err := p.AI.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := p.save(ctx, username, answers, profile); err != nil {
		return "", err
	}
	return profile, nil
}

// Get returns the user's stored answers and profile.
// gorm.ErrRecordNotFound passes through when none exists.
func (p *Profile) Get(ctx context.Context, username string) (*models.SurveyResponse, error) {
	var response models.SurveyResponse
	if err := p.DB.WithContext(ctx).First(&response, "usuario = ?", username).Error; err != nil {
		return nil, err
	}
	return &response, nil
}

// Regenerate rebuilds the profile from the answers already on file and
// overwrites the stored one.
func (p *Profile) Regenerate(ctx context.Context, username string) (string, error) {
	response, err := p.Get(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoResponse
		}
		return "", err
	}

	prompt, err := regeneratePrompt(response.Answers)
	if err != nil {
		return "", err
	}

	profile, err := p.AI.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := p.save(ctx, username, response.Answers, profile); err != nil {
		return "", err
	}
	return profile, nil
}

func (p *Profile) save(ctx context.Context, username string, answers map[string]interface{}, profile string) error {
	response := models.SurveyResponse{
		Username: username,
		Answers:  datatypes.JSONMap(answers),
		Profile:  profile,
	}
	return p.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "usuario"}},
			DoUpdates: clause.AssignmentColumns([]string{"dados", "perfil_gerado"}),
		}).
		Create(&response).Error
}

func profilePrompt(answers map[string]interface{}) (string, error) {
	encoded, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	return "Gere um perfil literário com base nas respostas e recomende livros e artigos academicos com base nesse perfil:\n" + string(encoded), nil
}

func regeneratePrompt(answers map[string]interface{}) (string, error) {
	encoded, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	return "Com base nas respostas abaixo, crie um perfil literário atualizado.\n" +
		"Depois, recomende:\n" +
		"1. Livros relevantes com base nos gostos literários.\n" +
		"2. Artigos acadêmicos conforme os interesses acadêmicos (se aplicável).\n\n" +
		string(encoded), nil
}
