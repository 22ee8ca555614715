package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"learnpath/internal/models"
)

func (s *Store) CreateBookmark(ctx context.Context, b *models.Bookmark) error {
	const query = `
		INSERT INTO bookmarks (user_id, topic, video_ids)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := s.db.QueryRowContext(ctx, query, b.UserID, b.Topic, pq.Array(b.VideoIDs)).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bookmark: %w", err)
	}
	return nil
}

func (s *Store) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	const query = `
		SELECT id, user_id, topic, video_ids, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []models.Bookmark
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.Topic, pq.Array(&b.VideoIDs), &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("bookmark %d not found", id)
	}
	return nil
}
