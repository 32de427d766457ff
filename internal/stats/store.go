// Package stats records play sessions in SQLite.
package stats

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Session is one run of the game, from start to quit.
type Session struct {
	ID       uuid.UUID
	Seed     int64
	Preset   string
	Started  time.Time
	Duration time.Duration
	Shots    int
	Hits     int
	Removed  int
}

// Accuracy returns hits per shot, or 0 with no shots.
func (s Session) Accuracy() float64 {
	if s.Shots == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Shots)
}

// Store is the session log. A Store opened with an empty path records
// nothing and returns no sessions.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if path == "" {
		return &Store{}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create stats directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Enabled reports whether the store writes anywhere.
func (s *Store) Enabled() bool {
	return s != nil && s.db != nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.db.Close()
}

// Migrate creates the schema.
func (s *Store) Migrate() error {
	if !s.Enabled() {
		return nil
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			preset TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			shots INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			removed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Record saves a session, assigning an ID if it has none.
func (s *Store) Record(ctx context.Context, sess *Session) error {
	if !s.Enabled() {
		return nil
	}
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, seed, preset, started_at, duration_ms, shots, hits, removed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID.String(), sess.Seed, sess.Preset, sess.Started.UnixMilli(),
		sess.Duration.Milliseconds(), sess.Shots, sess.Hits, sess.Removed)
	if err != nil {
		return fmt.Errorf("failed to record session: %w", err)
	}
	return nil
}

// Recent returns up to n sessions, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Session, error) {
	if !s.Enabled() || n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, preset, started_at, duration_ms, shots, hits, removed
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess      Session
			id        string
			startedMS int64
			durMS     int64
		)
		if err := rows.Scan(&id, &sess.Seed, &sess.Preset, &startedMS, &durMS, &sess.Shots, &sess.Hits, &sess.Removed); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if sess.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad session id %q: %w", id, err)
		}
		sess.Started = time.UnixMilli(startedMS)
		sess.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, sess)
	}
	return out, rows.Err()
}
