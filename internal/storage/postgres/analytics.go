package postgres

import (
	"context"
	"fmt"

	"learnpath/internal/models"
)

func (s *Store) RecordSearch(ctx context.Context, rec models.SearchRecord) error {
	const query = `
		INSERT INTO search_analytics (query, session_id, result_count, error_kind, searched_at)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.Query, rec.SessionID, rec.ResultCount, rec.ErrorKind, rec.SearchedAt)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// PopularTopics returns the most-searched queries, most frequent first.
func (s *Store) PopularTopics(ctx context.Context, limit int) ([]models.TopicCount, error) {
	const query = `
		SELECT query, COUNT(*) AS searches
		FROM search_analytics
		GROUP BY query
		ORDER BY searches DESC, query
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular topics: %w", err)
	}
	defer rows.Close()

	var topics []models.TopicCount
	for rows.Next() {
		var tc models.TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, tc)
	}
	return topics, rows.Err()
}
