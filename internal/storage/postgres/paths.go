package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"learnpath/internal/models"
)

func (s *Store) SaveLearningPath(ctx context.Context, path *models.LearningPath) error {
	videos, err := json.Marshal(path.Videos)
	if err != nil {
		return fmt.Errorf("failed to marshal path videos: %w", err)
	}

	const query = `
		INSERT INTO learning_paths (topic, videos, created_at)
		VALUES ($1, $2, $3)
	`
	if _, err := s.db.ExecContext(ctx, query, path.Topic, videos, path.CreatedAt); err != nil {
		return fmt.Errorf("failed to save learning path: %w", err)
	}
	return nil
}

// GetLearningPathByTopic returns the most recently saved path for a
// topic, or nil when none exists.
func (s *Store) GetLearningPathByTopic(ctx context.Context, topic string) (*models.LearningPath, error) {
	const query = `
		SELECT topic, videos, created_at
		FROM learning_paths
		WHERE topic = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var path models.LearningPath
	var videos []byte
	err := s.db.QueryRowContext(ctx, query, topic).Scan(&path.Topic, &videos, &path.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load learning path: %w", err)
	}
	if err := json.Unmarshal(videos, &path.Videos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal path videos: %w", err)
	}
	return &path, nil
}
