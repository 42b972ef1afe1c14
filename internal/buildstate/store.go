// Package buildstate persists per-page content hashes and build history in
// SQLite, enabling incremental rebuilds and a local build log.
package buildstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed build state database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// BuildRecord is one completed build.
type BuildRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Outcome    string // success | warning | failed
	Pages      int
	Issues     int
}

// Open opens (and initializes) the state database, creating parent
// directories for file-backed paths.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		path TEXT PRIMARY KEY,
		hash TEXT NOT NULL,
		rendered_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		pages INTEGER NOT NULL,
		issues INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// PageHash returns the stored content hash for a page, or "" when unknown.
func (s *Store) PageHash(ctx context.Context, path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hash string
	err := s.db.QueryRowContext(ctx, "SELECT hash FROM pages WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query page hash: %w", err)
	}
	return hash, nil
}

// SetPageHash upserts the content hash for a page.
func (s *Store) SetPageHash(ctx context.Context, path, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (path, hash, rendered_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = excluded.hash, rendered_at = excluded.rendered_at`,
		path, hash, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert page hash: %w", err)
	}
	return nil
}

// PrunePages drops stored hashes for pages no longer in the content tree.
func (s *Store) PrunePages(ctx context.Context, keep map[string]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT path FROM pages")
	if err != nil {
		return fmt.Errorf("list pages: %w", err)
	}
	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan page: %w", err)
		}
		if _, ok := keep[p]; !ok {
			stale = append(stale, p)
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range stale {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE path = ?", p); err != nil {
			return fmt.Errorf("delete stale page: %w", err)
		}
	}
	return nil
}

// RecordBuild appends a build to the history table.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, started_at, finished_at, outcome, pages, issues) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.StartedAt.Unix(), rec.FinishedAt.Unix(), rec.Outcome, rec.Pages, rec.Issues,
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// RecentBuilds returns up to limit builds, newest first.
func (s *Store) RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, started_at, finished_at, outcome, pages, issues FROM builds ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var started, finished int64
		if err := rows.Scan(&rec.ID, &started, &finished, &rec.Outcome, &rec.Pages, &rec.Issues); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.StartedAt = time.Unix(started, 0)
		rec.FinishedAt = time.Unix(finished, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}
