// Package storage persists finished runs and the score leaderboard in SQLite.
// It uses the pure-Go modernc.org/sqlite driver, so builds need no cgo.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Registers the "sqlite" driver

	"github.com/vovakirdan/roadrush/internal/core"
)

// sqliteTimeLayout is the format SQLite uses for CURRENT_TIMESTAMP.
const sqliteTimeLayout = "2006-01-02 15:04:05"

// Applied to every pooled connection. SSH sessions finish runs
// concurrently, so a writer waits for the lock instead of failing.
const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	score INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	score INTEGER NOT NULL DEFAULT 0,
	kills INTEGER NOT NULL DEFAULT 0,
	dodged INTEGER NOT NULL DEFAULT 0,
	shots INTEGER NOT NULL DEFAULT 0,
	pickups INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	seed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id, id DESC);
`

// Aggregate column lists shared by the per-game and all-games stats queries.
const (
	scoreAggregates = `COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), MAX(created_at)`
	runAggregates   = `COUNT(*), COALESCE(SUM(kills), 0), COALESCE(SUM(dodged), 0), COALESCE(MAX(duration_ms), 0)`
)

// Store is the score database. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	GameID    string    `json:"game_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// RunEntry is a finished run with its statistics.
type RunEntry struct {
	ID        int64         `json:"id"`
	GameID    string        `json:"game_id"`
	Stats     core.RunStats `json:"stats"`
	CreatedAt time.Time     `json:"created_at"`
}

// GameStats aggregates the leaderboard and the run history of one game.
type GameStats struct {
	GameID     string    `json:"game_id"`
	GamesCount int       `json:"games"`
	HighScore  int       `json:"high_score"`
	AvgScore   float64   `json:"avg_score"`
	TotalScore int64     `json:"total_score"`
	LastPlayed time.Time `json:"last_played"`

	// Aggregated from recorded runs
	RunsCount   int   `json:"runs"`
	TotalKills  int64 `json:"total_kills"`
	TotalDodged int64 `json:"total_dodged"`
	LongestMS   int64 `json:"longest_ms"`
}

// Open opens the database at dbPath, creating it and any missing parent
// directories. A leading "~" is expanded to the home directory.
func Open(dbPath string) (*Store, error) {
	path, err := expandHome(dbPath)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open %s: %w", path, err)
	}

	// The first statement also proves the file is usable.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot migrate %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun records a finished run. Runs with a positive score also enter the
// score table, so the leaderboard and the run history stay consistent.
// Returns the ID of the run record.
func (s *Store) SaveRun(gameID string, stats core.RunStats) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	res, err := tx.Exec(
		`INSERT INTO runs (game_id, score, kills, dodged, shots, pickups, duration_ms, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		gameID,
		stats.Score,
		stats.Kills,
		stats.Dodged,
		stats.Shots,
		stats.Pickups,
		stats.DurationMS,
		stats.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot read run ID: %w", err)
	}

	if stats.Score > 0 {
		if _, err := tx.Exec("INSERT INTO scores (game_id, score) VALUES (?, ?)", gameID, stats.Score); err != nil {
			return 0, fmt.Errorf("storage: cannot save score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

// TopScores returns up to limit leaderboard entries, best first. Ties keep
// insertion order. A non-positive limit means 10.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at FROM scores
		 WHERE game_id = ? ORDER BY score DESC, id ASC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}

	var entries []ScoreEntry
	err = eachRow(rows, func(r *sql.Rows) error {
		var (
			e       ScoreEntry
			created any
		)
		if err := r.Scan(&e.ID, &e.GameID, &e.Score, &created); err != nil {
			return err
		}
		e.CreatedAt = parseTime(created)
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// means 20.
func (s *Store) RecentRuns(gameID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, score, kills, dodged, shots, pickups, duration_ms, seed, created_at
		 FROM runs WHERE game_id = ? ORDER BY id DESC LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}

	var runs []RunEntry
	err = eachRow(rows, func(r *sql.Rows) error {
		var (
			e       RunEntry
			created any
		)
		st := &e.Stats
		if err := r.Scan(&e.ID, &e.GameID,
			&st.Score, &st.Kills, &st.Dodged, &st.Shots, &st.Pickups, &st.DurationMS, &st.Seed,
			&created); err != nil {
			return err
		}
		e.CreatedAt = parseTime(created)
		runs = append(runs, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// HighScore returns the best score for the game, or 0 when none exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var best int
	err := s.db.QueryRow("SELECT COALESCE(MAX(score), 0) FROM scores WHERE game_id = ?", gameID).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return best, nil
}

// ClearScores deletes the leaderboard and run history of one game.
func (s *Store) ClearScores(gameID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	for _, table := range []string{"scores", "runs"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE game_id = ?", gameID); err != nil {
			return fmt.Errorf("storage: cannot clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// scoreFields lists scan targets for scoreAggregates.
func (g *GameStats) scoreFields(lastPlayed *any) []any {
	return []any{&g.GamesCount, &g.HighScore, &g.AvgScore, &g.TotalScore, lastPlayed}
}

// runFields lists scan targets for runAggregates.
func (g *GameStats) runFields() []any {
	return []any{&g.RunsCount, &g.TotalKills, &g.TotalDodged, &g.LongestMS}
}

// GetGameStats aggregates one game. A game with no records yields zeros.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var last any
	err := s.db.QueryRow("SELECT "+scoreAggregates+" FROM scores WHERE game_id = ?", gameID).
		Scan(stats.scoreFields(&last)...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(last)

	err = s.db.QueryRow("SELECT "+runAggregates+" FROM runs WHERE game_id = ?", gameID).
		Scan(stats.runFields()...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	return stats, nil
}

// GetAllGamesStats aggregates every game that has scores or runs, keyed by
// game ID.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	all := make(map[string]*GameStats)
	entry := func(id string) *GameStats {
		if all[id] == nil {
			all[id] = &GameStats{GameID: id}
		}
		return all[id]
	}

	rows, err := s.db.Query("SELECT game_id, " + scoreAggregates + " FROM scores GROUP BY game_id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	err = eachRow(rows, func(r *sql.Rows) error {
		var (
			id   string
			last any
			g    GameStats
		)
		if err := r.Scan(append([]any{&id}, g.scoreFields(&last)...)...); err != nil {
			return err
		}
		e := entry(id)
		e.GamesCount, e.HighScore, e.AvgScore, e.TotalScore = g.GamesCount, g.HighScore, g.AvgScore, g.TotalScore
		e.LastPlayed = parseTime(last)
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = s.db.Query("SELECT game_id, " + runAggregates + " FROM runs GROUP BY game_id")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all run stats: %w", err)
	}
	err = eachRow(rows, func(r *sql.Rows) error {
		var (
			id string
			g  GameStats
		)
		if err := r.Scan(append([]any{&id}, g.runFields()...)...); err != nil {
			return err
		}
		e := entry(id)
		e.RunsCount, e.TotalKills, e.TotalDodged, e.LongestMS = g.RunsCount, g.TotalKills, g.TotalDodged, g.LongestMS
		return nil
	})
	if err != nil {
		return nil, err
	}

	return all, nil
}

// eachRow calls fn for every row and closes rows.
func eachRow(rows *sql.Rows, fn func(*sql.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("storage: cannot scan row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("storage: row iteration error: %w", err)
	}
	return nil
}

// parseTime handles the driver returning either time.Time or a string.
// Aggregates such as MAX(created_at) lose the column type and come back as
// text; NULL yields the zero time.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{sqliteTimeLayout, time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
