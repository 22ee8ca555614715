package models

import "time"

// RawCandidate is a video as returned by the search API, before any
// filtering or scoring has happened.
type RawCandidate struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelTitle    string    `json:"channel_title"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Duration        string    `json:"duration"`
	DurationSeconds int       `json:"duration_seconds"`
	PublishedAt     time.Time `json:"published_at"`
	ViewCount       int64     `json:"view_count"`
}

// Candidate is a raw candidate that survived the duration-band filter
// and has its recency score computed.
type Candidate struct {
	RawCandidate
	RecencyScore float64 `json:"recency_score"`
}

// ScoredCandidate carries the topical relevance verdict.
type ScoredCandidate struct {
	Candidate
	Relevance          float64 `json:"relevance"`
	RelevanceReasoning string  `json:"relevance_reasoning"`
}

// ClassifiedCandidate carries the difficulty tier (1=beginner,
// 2=intermediate, 3=advanced).
type ClassifiedCandidate struct {
	ScoredCandidate
	Tier          int    `json:"tier"`
	TierReasoning string `json:"tier_reasoning"`
}

// PathVideo is a finalized entry of a learning path. Level is the slot
// the video fills in the progression, which may differ from the
// classified tier when a tier had to be backfilled.
type PathVideo struct {
	ClassifiedCandidate
	Level            int    `json:"level"`
	LevelLabel       string `json:"level_label"`
	LevelDescription string `json:"level_description"`
}

// LearningPath is the ordered beginner-to-advanced progression built
// for a topic. Videos are ordered by ascending level and reference
// pairwise-distinct video IDs.
type LearningPath struct {
	Topic     string      `json:"topic"`
	Videos    []PathVideo `json:"videos"`
	CreatedAt time.Time   `json:"created_at"`
}
