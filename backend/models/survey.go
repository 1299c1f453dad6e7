package models

import "gorm.io/datatypes"

// SurveyResponse maps the respostas_formulario table: one response per user.
// Answers is the question-key to answer-value mapping persisted as JSON, so
// question-set drift across form versions stays visible in the stored record.
type SurveyResponse struct {
	Username string            `gorm:"column:usuario;primaryKey" json:"usuario"`
	Answers  datatypes.JSONMap `gorm:"column:dados" json:"dados"`
	Profile  string            `gorm:"column:perfil_gerado" json:"perfil_gerado"`
}

func (SurveyResponse) TableName() string {
	return "respostas_formulario"
}

// InsightsReport aggregates all respondents' answers for the writer dashboard.
type InsightsReport struct {
	Respondents int            `json:"respondents"`
	Formats     map[string]int `json:"formats"`
	Goals       map[string]int `json:"goals"`
	Sentiments  map[string]int `json:"sentiments"`
	Genres      map[string]int `json:"genres"`
}
