// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the advisor corpus: professors, publications, the
// authorship bridge between them, and precomputed embeddings. The query path
// only reads; the ingest and index commands are the only writers.
// See docs/ARCHITECTURE.md § Relational Store.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/advisor-match/pkg/types"
)

// Store manages the advisor-match SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.Path, creating parent
// directories and the schema as needed.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS professors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			college TEXT,
			dept TEXT,
			interests TEXT,
			openalex_author_id TEXT UNIQUE,
			image_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS publications (
			paper_id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			venue TEXT,
			year INTEGER,
			citation_count INTEGER,
			url TEXT,
			embedding BLOB
		)`,
		`CREATE TABLE IF NOT EXISTS author_bridge (
			professor_id INTEGER NOT NULL REFERENCES professors(id),
			paper_id TEXT NOT NULL REFERENCES publications(paper_id),
			author_position INTEGER,
			is_primary_author INTEGER NOT NULL DEFAULT 0,
			UNIQUE(professor_id, paper_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bridge_paper_id ON author_bridge(paper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bridge_professor_id ON author_bridge(professor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_year ON publications(year)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// placeholders returns a "?,?,?" string with n slots.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, 2*n)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
