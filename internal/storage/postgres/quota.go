package postgres

import (
	"context"
	"fmt"

	"learnpath/internal/models"
)

// RecordQuotaUsage upserts the full counter snapshot for a
// (day, key) pair. The tracker sends absolute values, not deltas, so
// replaying an update is harmless.
func (s *Store) RecordQuotaUsage(ctx context.Context, rec models.QuotaRecord) error {
	const query = `
		INSERT INTO quota_usage (usage_date, key_index, search_calls, detail_items, total_units)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (usage_date, key_index) DO UPDATE SET
			search_calls = EXCLUDED.search_calls,
			detail_items = EXCLUDED.detail_items,
			total_units = EXCLUDED.total_units
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.Date, rec.KeyIndex, rec.SearchCalls, rec.DetailItems, rec.TotalUnits)
	if err != nil {
		return fmt.Errorf("failed to record quota usage: %w", err)
	}
	return nil
}

// GetQuotaUsage returns per-key usage rows for a quota day (YYYY-MM-DD).
func (s *Store) GetQuotaUsage(ctx context.Context, date string) ([]models.QuotaRecord, error) {
	const query = `
		SELECT usage_date::text, key_index, search_calls, detail_items, total_units
		FROM quota_usage
		WHERE usage_date = $1
		ORDER BY key_index
	`
	rows, err := s.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query quota usage: %w", err)
	}
	defer rows.Close()

	var records []models.QuotaRecord
	for rows.Next() {
		var rec models.QuotaRecord
		if err := rows.Scan(&rec.Date, &rec.KeyIndex, &rec.SearchCalls, &rec.DetailItems, &rec.TotalUnits); err != nil {
			return nil, fmt.Errorf("failed to scan quota row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// PruneQuotaBefore deletes usage rows older than the cutoff day.
func (s *Store) PruneQuotaBefore(ctx context.Context, cutoff string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quota_usage WHERE usage_date < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune quota usage: %w", err)
	}
	return res.RowsAffected()
}
