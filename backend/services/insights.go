package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/helleenlara/Plataformalivros/backend/clients/gemini"
	"github.com/helleenlara/Plataformalivros/backend/models"
	"gorm.io/gorm"
)

var ErrNoRespondents = errors.New("no survey responses to analyze")

// Answer keys the writer dashboard aggregates over. These follow the
// questionnaire's own key names as stored in respostas_formulario.
const (
	answerAge       = "idade"
	answerFormat    = "formato_livro"
	answerGoal      = "objetivo_leitura"
	answerSentiment = "sentimento_livro"
	answerGenres    = "generos"
)

// Insights aggregates every respondent's answers and profiles into the
// writer-facing dashboard: value counts, CSV export and AI writing
// suggestions.
type Insights struct {
	DB *gorm.DB
	AI gemini.Client
}

func NewInsights(db *gorm.DB, ai gemini.Client) *Insights {
	return &Insights{DB: db, AI: ai}
}

func (s *Insights) responses(ctx context.Context, ageFilter string) ([]models.SurveyResponse, error) {
	var all []models.SurveyResponse
	if err := s.DB.WithContext(ctx).Find(&all).Error; err != nil {
		return nil, err
	}
	if ageFilter == "" {
		return all, nil
	}

	filtered := all[:0]
	for _, r := range all {
		if answerString(r.Answers, answerAge) == ageFilter {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// Overview computes value counts over the respondents' answers, optionally
// restricted to one age bracket. Genres are stored as one comma-separated
// answer, so each response can count toward several genres.
func (s *Insights) Overview(ctx context.Context, ageFilter string) (*models.InsightsReport, error) {
	responses, err := s.responses(ctx, ageFilter)
	if err != nil {
		return nil, err
	}

	report := &models.InsightsReport{
		Respondents: len(responses),
		Formats:     map[string]int{},
		Goals:       map[string]int{},
		Sentiments:  map[string]int{},
		Genres:      map[string]int{},
	}

	for _, r := range responses {
		countAnswer(report.Formats, r.Answers, answerFormat)
		countAnswer(report.Goals, r.Answers, answerGoal)
		countAnswer(report.Sentiments, r.Answers, answerSentiment)
		for _, genre := range strings.Split(answerString(r.Answers, answerGenres), ", ") {
			if genre != "" {
				report.Genres[genre]++
			}
		}
	}
	return report, nil
}

// ExportCSV flattens the (optionally age-filtered) responses into CSV, one
// column per answer key found across the dataset, for the dashboard download.
func (s *Insights) ExportCSV(ctx context.Context, ageFilter string) ([]byte, error) {
	responses, err := s.responses(ctx, ageFilter)
	if err != nil {
		return nil, err
	}

	keySet := map[string]struct{}{}
	for _, r := range responses {
		for key := range r.Answers {
			keySet[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"usuario"}, keys...)
	header = append(header, "perfil_gerado")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range responses {
		record := make([]string, 0, len(header))
		record = append(record, r.Username)
		for _, key := range keys {
			record = append(record, answerString(r.Answers, key))
		}
		record = append(record, r.Profile)
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritingSuggestions asks the AI for practical writing advice derived from the
// stored reader profiles, optionally narrowed to one age bracket.
func (s *Insights) WritingSuggestions(ctx context.Context, ageFilter string) (string, error) {
	responses, err := s.responses(ctx, ageFilter)
	if err != nil {
		return "", err
	}

	var profiles []string
	for _, r := range responses {
		if p := strings.TrimSpace(r.Profile); p != "" {
			profiles = append(profiles, strings.ToLower(p))
		}
	}
	if len(profiles) == 0 {
		return "", ErrNoRespondents
	}

	return s.AI.GenerateText(ctx, suggestionsPrompt(ageFilter, strings.Join(profiles, " ")))
}

func suggestionsPrompt(ageFilter, profiles string) string {
	audience := "leitores brasileiros"
	if ageFilter != "" {
		audience = fmt.Sprintf("leitores brasileiros da faixa etária: %s", ageFilter)
	}
	return fmt.Sprintf(
		"Você é um consultor literário com acesso a perfis reais de %s.\n\n"+
			"Seu objetivo é ajudar escritores a adaptar seus textos para alcançar esse público com mais impacto.\n"+
			"Analise os perfis abaixo e identifique:\n\n"+
			"1. Temas e assuntos mais valorizados pelos leitores.\n"+
			"2. Estilos narrativos preferidos.\n"+
			"3. Emoções ou sensações que o público busca nos livros.\n"+
			"4. Padrões de interesse e preferências recorrentes.\n\n"+
			"Com base nisso, gere recomendações práticas para escritores: enredos sugeridos, "+
			"estilo de escrita, gatilhos emocionais e gêneros ideais para esse público.\n"+
			"Apenas forneça as recomendações. Não faça perguntas nem continue a conversa.\n\n"+
			"Aqui estão os perfis dos leitores:\n%s",
		audience, profiles)
}

func answerString(answers map[string]interface{}, key string) string {
	if v, ok := answers[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

func countAnswer(counts map[string]int, answers map[string]interface{}, key string) {
	if v := answerString(answers, key); v != "" {
		counts[v]++
	}
}
