package models

import "time"

// QuotaRecord is the persisted per-day, per-key usage counter. Date is
// a YYYY-MM-DD string in the quota timezone, not the server locale.
type QuotaRecord struct {
	Date        string `json:"date"`
	KeyIndex    int    `json:"key_index"`
	SearchCalls int    `json:"search_calls"`
	DetailItems int    `json:"detail_items"`
	TotalUnits  int    `json:"total_units"`
}

// SearchRecord is an analytics entry written per search request.
// Writing it is best-effort and never fails the request.
type SearchRecord struct {
	Query       string    `json:"query"`
	SessionID   string    `json:"session_id,omitempty"`
	ResultCount int       `json:"result_count"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	SearchedAt  time.Time `json:"searched_at"`
}

// Bookmark is a user-saved learning path reference.
type Bookmark struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Topic     string    `json:"topic"`
	VideoIDs  []string  `json:"video_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicCount is an aggregated analytics row.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}
