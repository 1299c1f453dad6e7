package services

import (
	"context"
	"errors"
	"time"

	"github.com/helleenlara/Plataformalivros/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Achievement names as stored in conquistas. These are data, not labels:
// renaming one would orphan every previously awarded row.
const (
	AchievementHundredPages = "Leu 100 páginas!"
	AchievementFirstBook    = "Primeiro livro finalizado"
	AchievementSevenDays    = "Leu 7 dias seguidos"
)

// Level names, lowest first.
const (
	LevelBeginner   = "Iniciante"
	LevelApprentice = "Aprendiz"
	LevelExplorer   = "Explorador Literário"
	LevelMaster     = "Mestre das Letras"
)

const (
	pointsPerFinishedBook = 50
	weeklyChallengePages  = 50
	defaultLeaderboardTop = 5
)

var ErrInvalidPages = errors.New("pages read must be at least 1")

// Gamification keeps the per-user reading ledger and derives points, levels,
// achievements and rankings from it. Identity is always an explicit username
// argument; durability of the daily upsert and the insert-once achievement
// award is delegated to the store's single-statement conflict handling.
type Gamification struct {
	DB *gorm.DB

	now func() time.Time
}

func NewGamification(db *gorm.DB) *Gamification {
	return &Gamification{DB: db, now: time.Now}
}

// today truncates the clock to a calendar day in UTC so that every write and
// window computation agrees on what "today" is.
func (g *Gamification) today() time.Time {
	t := g.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart is the first day of the trailing 7-day window (today-6 .. today).
func (g *Gamification) weekStart() time.Time {
	return g.today().AddDate(0, 0, -6)
}

// RecordReading upserts today's log entry for the user. Re-submitting the same
// day replaces pages and the finished flag: last write wins for that day.
func (g *Gamification) RecordReading(ctx context.Context, username string, pages int, finished bool) error {
	if pages < 1 {
		return ErrInvalidPages
	}

	entry := models.ReadingLog{
		Username:     username,
		Date:         g.today(),
		PagesRead:    pages,
		BookFinished: finished,
	}

	return g.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "data"}},
			DoUpdates: clause.AssignmentColumns([]string{"paginas_lidas", "livro_finalizado"}),
		}).
		Create(&entry).Error
}

type ledgerTotals struct {
	Pages    int
	Finished int
}

func (g *Gamification) totals(ctx context.Context, username string) (ledgerTotals, error) {
	var row ledgerTotals
	err := g.DB.WithContext(ctx).
		Model(&models.ReadingLog{}).
		Select("COALESCE(SUM(paginas_lidas), 0) AS pages, COALESCE(SUM(CASE WHEN livro_finalizado THEN 1 ELSE 0 END), 0) AS finished").
		Where("username = ?", username).
		Scan(&row).Error
	return row, err
}

// PointsAndLevel derives the user's score from the full ledger: one point per
// page read plus 50 per finished book, then the level from fixed thresholds.
func (g *Gamification) PointsAndLevel(ctx context.Context, username string) (models.ReaderStatus, error) {
	row, err := g.totals(ctx, username)
	if err != nil {
		return models.ReaderStatus{}, err
	}

	points := row.Pages + row.Finished*pointsPerFinishedBook
	return models.ReaderStatus{Points: points, Level: LevelForPoints(points)}, nil
}

// LevelForPoints maps a point total onto its named tier. Thresholds are
// left-inclusive: 100 points is already Aprendiz.
func LevelForPoints(points int) string {
	switch {
	case points < 100:
		return LevelBeginner
	case points < 500:
		return LevelApprentice
	case points < 1000:
		return LevelExplorer
	default:
		return LevelMaster
	}
}

// EvaluateAchievements runs the three unlock checks and records any that
// qualify, returning the names awarded for the first time. Re-awarding is
// absorbed by the conquistas conflict clause and never surfaces as an error.
func (g *Gamification) EvaluateAchievements(ctx context.Context, username string) ([]string, error) {
	row, err := g.totals(ctx, username)
	if err != nil {
		return nil, err
	}

	var earned []string
	if row.Pages >= 100 {
		earned = append(earned, AchievementHundredPages)
	}
	if row.Finished >= 1 {
		earned = append(earned, AchievementFirstBook)
	}

	var days int64
	err = g.DB.WithContext(ctx).
		Model(&models.ReadingLog{}).
		Where("username = ? AND data >= ?", username, g.weekStart()).
		Distinct("data").
		Count(&days).Error
	if err != nil {
		return nil, err
	}
	// Exactly 7 distinct days in the window, not "at least".
	if days == 7 {
		earned = append(earned, AchievementSevenDays)
	}

	var awarded []string
	for _, name := range earned {
		res := g.DB.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Achievement{Username: username, Name: name, AwardedAt: g.now().UTC()})
		if res.Error != nil {
			return awarded, res.Error
		}
		if res.RowsAffected > 0 {
			awarded = append(awarded, name)
		}
	}
	return awarded, nil
}

// Achievements lists the user's awarded achievements, newest first.
func (g *Gamification) Achievements(ctx context.Context, username string) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := g.DB.WithContext(ctx).
		Where("username = ?", username).
		Order("data_conquista DESC").
		Find(&achievements).Error
	return achievements, err
}

// ActiveChallenge returns the static weekly challenge text.
func (g *Gamification) ActiveChallenge() string {
	return "Leia 50 páginas esta semana para ganhar +50 pontos bônus"
}

// WeeklyChallengeDone reports whether the user read at least 50 pages in the
// trailing 7-day window. Read-only: awarding the bonus is the caller's call.
func (g *Gamification) WeeklyChallengeDone(ctx context.Context, username string) (bool, error) {
	var pages int
	err := g.DB.WithContext(ctx).
		Model(&models.ReadingLog{}).
		Select("COALESCE(SUM(paginas_lidas), 0)").
		Where("username = ? AND data >= ?", username, g.weekStart()).
		Scan(&pages).Error
	if err != nil {
		return false, err
	}
	return pages >= weeklyChallengePages, nil
}

// Leaderboard ranks every known user by total points, users without log
// entries included at 0. Ties break on username ascending so the order is
// deterministic.
func (g *Gamification) Leaderboard(ctx context.Context, topN int) ([]models.LeaderboardEntry, error) {
	if topN <= 0 {
		topN = defaultLeaderboardTop
	}

	var rows []struct {
		Username string
		Points   int
	}
	err := g.DB.WithContext(ctx).Raw(`
		SELECT u.username AS username,
		       COALESCE(SUM(p.paginas_lidas), 0) + COALESCE(SUM(CASE WHEN p.livro_finalizado THEN 1 ELSE 0 END), 0) * ? AS points
		FROM usuarios u
		LEFT JOIN progresso_leitura p ON u.username = p.username
		GROUP BY u.username
		ORDER BY points DESC, u.username ASC
		LIMIT ?`, pointsPerFinishedBook, topN).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.LeaderboardEntry{Rank: i + 1, Username: row.Username, Points: row.Points}
	}
	return entries, nil
}
