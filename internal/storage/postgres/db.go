// Package postgres is the persistence adapter: simple key-based CRUD
// for learning paths, quota usage, search analytics and bookmarks. No
// cross-entity transactions.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS learning_paths (
			id SERIAL PRIMARY KEY,
			topic TEXT NOT NULL,
			videos JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS learning_paths_topic_idx ON learning_paths (topic, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS quota_usage (
			usage_date DATE NOT NULL,
			key_index INT NOT NULL,
			search_calls INT NOT NULL DEFAULT 0,
			detail_items INT NOT NULL DEFAULT 0,
			total_units INT NOT NULL DEFAULT 0,
			PRIMARY KEY (usage_date, key_index)
		)`,
		`CREATE TABLE IF NOT EXISTS search_analytics (
			id SERIAL PRIMARY KEY,
			query TEXT NOT NULL,
			session_id TEXT,
			result_count INT NOT NULL DEFAULT 0,
			error_kind TEXT,
			searched_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS bookmarks (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			topic TEXT NOT NULL,
			video_ids TEXT[] NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS bookmarks_user_idx ON bookmarks (user_id, created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
