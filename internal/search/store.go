// Package search provides the persistent full-text index: an inverted
// term index plus per-document metadata, stored in an embedded SQLite
// database that survives process restarts.
package search

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/lightkb/internal/metrics"
)

// Store is the on-disk search index.
//
// WAL mode gives concurrent readers with a single writer inside the
// process; the RWMutex serializes this process's access the same way. All
// writes normally come from the watch coordinator's goroutine, Search may
// be called concurrently from request-handling code.
type Store struct {
	db       *sql.DB
	mu       sync.RWMutex
	recorder metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

const schema = `
CREATE TABLE IF NOT EXISTS postings (
	term TEXT NOT NULL,
	slug TEXT NOT NULL,
	UNIQUE(term, slug)
);
CREATE INDEX IF NOT EXISTS idx_postings_term ON postings(term);

CREATE TABLE IF NOT EXISTS documents (
	slug    TEXT PRIMARY KEY,
	title   TEXT NOT NULL DEFAULT '',
	excerpt TEXT NOT NULL DEFAULT ''
);
`

// Open opens (or creates) the index database at dbPath, creating parent
// directories as needed.
func Open(dbPath string, opts ...Option) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("search: create index directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("search: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("search: ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("search: apply schema: %w", err)
	}

	s := &Store{db: db, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Clear empties both the posting and metadata tables.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("search: begin clear: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM postings`); err != nil {
		return fmt.Errorf("search: clear postings: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM documents`); err != nil {
		return fmt.Errorf("search: clear documents: %w", err)
	}
	return tx.Commit()
}
