// Package storage provides SQLite-based persistence for leaderboards and
// run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/flappy-planes/internal/leaderboard"
)

// DefaultPath is where the CLI keeps its database.
const DefaultPath = "~/.planes/scores.db"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished run from the history table.
type Run struct {
	ID        int64
	BoardKey  string
	Name      string
	Seconds   float64
	CreatedAt time.Time
}

// Stats contains aggregated run history for one board.
type Stats struct {
	BoardKey   string
	Runs       int
	Best       float64
	Average    float64
	Total      float64
	LastPlayed time.Time
}

var (
	_ leaderboard.Backend = (*Store)(nil)
	_ leaderboard.History = (*Store)(nil)
)

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
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

	// SSH sessions write from several goroutines; one connection keeps
	// SQLite from returning SQLITE_BUSY.
	db.SetMaxOpenConns(1)

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
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_key TEXT NOT NULL,
			name TEXT NOT NULL,
			seconds REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_board_key ON runs(board_key);
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

// Get returns the value stored under key, or nil if there is none.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot read %q: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(key string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %q: %w", key, err)
	}
	return nil
}

// SaveRun appends a finished run to the history.
func (s *Store) SaveRun(key, name string, seconds float64) error {
	_, err := s.db.Exec(
		"INSERT INTO runs (board_key, name, seconds) VALUES (?, ?, ?)",
		key, name, seconds,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save run: %w", err)
	}
	return nil
}

// RecentRuns retrieves the latest runs for a board, newest first.
func (s *Store) RecentRuns(key string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, board_key, name, seconds, created_at
		 FROM runs
		 WHERE board_key = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		key, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.BoardKey, &r.Name, &r.Seconds, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes the run history of a board.
func (s *Store) ClearRuns(key string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE board_key = ?", key)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// GetStats retrieves aggregated run statistics for a board.
func (s *Store) GetStats(key string) (*Stats, error) {
	stats := &Stats{BoardKey: key}
	var lastPlayed any

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(seconds), 0), COALESCE(AVG(seconds), 0),
		        COALESCE(SUM(seconds), 0), MAX(created_at)
		 FROM runs WHERE board_key = ?`,
		key,
	).Scan(&stats.Runs, &stats.Best, &stats.Average, &stats.Total, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllStats retrieves statistics for every board that has runs.
func (s *Store) GetAllStats() (map[string]*Stats, error) {
	rows, err := s.db.Query(
		`SELECT board_key, COUNT(*), MAX(seconds), AVG(seconds), SUM(seconds), MAX(created_at)
		 FROM runs
		 GROUP BY board_key`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stats: %w", err)
	}
	defer rows.Close()

	all := make(map[string]*Stats)
	for rows.Next() {
		var st Stats
		var lastPlayed any
		if err := rows.Scan(&st.BoardKey, &st.Runs, &st.Best, &st.Average, &st.Total, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		all[st.BoardKey] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return all, nil
}

// parseTime handles the datetime column coming back as either time.Time or
// text, depending on how the row was written.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
