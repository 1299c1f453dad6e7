package models

import "time"

// ReadingLog maps the progresso_leitura table: one row per user per calendar
// day. The composite primary key carries the (username, data) uniqueness that
// the daily upsert relies on.
type ReadingLog struct {
	Username     string    `gorm:"column:username;primaryKey" json:"username"`
	Date         time.Time `gorm:"column:data;primaryKey;type:date" json:"data"`
	PagesRead    int       `gorm:"column:paginas_lidas;not null" json:"paginas_lidas"`
	BookFinished bool      `gorm:"column:livro_finalizado;not null" json:"livro_finalizado"`
}

func (ReadingLog) TableName() string {
	return "progresso_leitura"
}

// Achievement maps the conquistas table. Insert-once: the composite primary
// key absorbs duplicate awards via do-nothing-on-conflict.
type Achievement struct {
	Username  string    `gorm:"column:username;primaryKey" json:"username"`
	Name      string    `gorm:"column:nome_conquista;primaryKey" json:"nome_conquista"`
	AwardedAt time.Time `gorm:"column:data_conquista;autoCreateTime" json:"data_conquista"`
}

func (Achievement) TableName() string {
	return "conquistas"
}

type ReaderStatus struct {
	Points int    `json:"points"`
	Level  string `json:"level"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}

type WeeklyChallenge struct {
	Description string `json:"description"`
	Done        bool   `json:"done"`
}
