// Package storage provides SQLite-based persistence for mission summaries.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/ecuations-d/internal/mission"
)

// ErrDuplicateSession is returned when a session already has a stored summary.
var ErrDuplicateSession = errors.New("storage: session already summarized")

// Store manages the SQLite database connection for summary persistence.
type Store struct {
	db *sql.DB
}

// SummaryEntry is a stored summary with its row id.
type SummaryEntry struct {
	ID int64
	mission.Summary
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			mission_id TEXT NOT NULL,
			finished_at DATETIME NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			lives INTEGER NOT NULL DEFAULT 0,
			ammo INTEGER NOT NULL DEFAULT 0,
			treasures INTEGER NOT NULL DEFAULT 0,
			equations_solved INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_summaries_mission_id ON summaries(mission_id);
		CREATE INDEX IF NOT EXISTS idx_summaries_best ON summaries(mission_id, equations_solved DESC, coins DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSummary records a completion summary. A second summary for the same
// session returns ErrDuplicateSession.
func (s *Store) SaveSummary(ctx context.Context, sum mission.Summary) error {
	if sum.SessionID == "" || sum.MissionID == "" {
		return fmt.Errorf("storage: summary needs session and mission ids")
	}
	if sum.Timestamp.IsZero() {
		sum.Timestamp = time.Now()
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM summaries WHERE session_id = ?", sum.SessionID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("storage: cannot check session: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSession, sum.SessionID)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO summaries
		 (session_id, mission_id, finished_at, coins, lives, ammo, treasures, equations_solved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.SessionID,
		sum.MissionID,
		sum.Timestamp.UTC().Format(timeLayout),
		sum.Coins,
		sum.Lives,
		sum.Ammo,
		sum.Treasures,
		sum.EquationsSolved,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save summary: %w", err)
	}
	return nil
}

const timeLayout = "2006-01-02 15:04:05"

const summaryColumns = `id, session_id, mission_id, finished_at, coins, lives, ammo, treasures, equations_solved`

// History returns the most recent summaries, newest first. An empty
// missionID selects every mission.
func (s *Store) History(missionID string, limit int) ([]SummaryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + summaryColumns + ` FROM summaries`
	args := []any{}
	if missionID != "" {
		query += ` WHERE mission_id = ?`
		args = append(args, missionID)
	}
	query += ` ORDER BY finished_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query summaries: %w", err)
	}
	defer rows.Close()

	var entries []SummaryEntry
	for rows.Next() {
		e, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Best returns the strongest run of a mission: most equations solved, then
// most coins, then earliest. ok is false when the mission has no summaries.
func (s *Store) Best(missionID string) (SummaryEntry, bool, error) {
	row := s.db.QueryRow(
		`SELECT `+summaryColumns+`
		 FROM summaries
		 WHERE mission_id = ?
		 ORDER BY equations_solved DESC, coins DESC, finished_at ASC
		 LIMIT 1`,
		missionID,
	)
	e, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SummaryEntry{}, false, nil
	}
	if err != nil {
		return SummaryEntry{}, false, err
	}
	return e, true, nil
}

// ClearSummaries deletes every summary of the given mission.
func (s *Store) ClearSummaries(missionID string) error {
	_, err := s.db.Exec("DELETE FROM summaries WHERE mission_id = ?", missionID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear summaries: %w", err)
	}
	return nil
}

// MissionStats contains aggregated statistics for a mission.
type MissionStats struct {
	MissionID      string
	Completions    int
	BestEquations  int
	BestCoins      int
	AvgCoins       float64
	TotalTreasures int64
	LastPlayed     time.Time
}

// GetAllMissionStats retrieves statistics for every mission with at least one summary.
func (s *Store) GetAllMissionStats() (map[string]*MissionStats, error) {
	rows, err := s.db.Query(
		`SELECT mission_id, COUNT(*), MAX(equations_solved), MAX(coins), AVG(coins), SUM(treasures), MAX(finished_at)
		 FROM summaries
		 GROUP BY mission_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get mission stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*MissionStats)
	for rows.Next() {
		var st MissionStats
		var lastPlayed any
		if err := rows.Scan(&st.MissionID, &st.Completions, &st.BestEquations, &st.BestCoins, &st.AvgCoins, &st.TotalTreasures, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.MissionID] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(sc scanner) (SummaryEntry, error) {
	var e SummaryEntry
	var finishedAt any
	err := sc.Scan(
		&e.ID,
		&e.SessionID,
		&e.MissionID,
		&finishedAt,
		&e.Coins,
		&e.Lives,
		&e.Ammo,
		&e.Treasures,
		&e.EquationsSolved,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	e.Timestamp = parseTime(finishedAt)
	return e, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
