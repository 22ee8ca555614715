// Package curator orchestrates the search pipeline: cache-aware
// fetching, AI relevance scoring, difficulty classification, path
// selection and best-effort persistence.
package curator

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"learnpath/internal/ai"
	"learnpath/internal/models"
	"learnpath/shared/config"
)

// Fetcher produces duration-filtered, recency-scored candidates for a
// topic. Implemented by the YouTube client.
type Fetcher interface {
	FetchCandidates(ctx context.Context, topic string) ([]models.Candidate, error)
}

// Store is the persistence boundary the pipeline writes through. Both
// writes are best-effort; a failure is logged and never fails the
// user-facing response.
type Store interface {
	SaveLearningPath(ctx context.Context, path *models.LearningPath) error
	RecordSearch(ctx context.Context, rec models.SearchRecord) error
}

// Pipeline owns all mutable curation state (via its collaborators) and
// runs one search request end to end. Safe for concurrent use.
type Pipeline struct {
	fetcher  Fetcher
	analyzer *ai.Analyzer
	store    Store
	cfg      *config.PipelineConfig

	now func() time.Time
}

func NewPipeline(fetcher Fetcher, analyzer *ai.Analyzer, store Store, cfg *config.PipelineConfig) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		analyzer: analyzer,
		store:    store,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Search converts a topic into a learning path. Returns *Error on
// failure; AI unavailability is absorbed by the scorer fallbacks and
// never surfaces here.
func (p *Pipeline) Search(ctx context.Context, topic, sessionID string) (*models.LearningPath, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, &Error{Kind: KindNoResults, Message: "Search topic must not be empty."}
	}

	start := p.now()
	log.Printf("Curating learning path for topic %q", topic)

	candidates, err := p.fetcher.FetchCandidates(ctx, topic)
	if err != nil {
		perr := mapFetchError(err)
		p.recordSearch(ctx, topic, sessionID, 0, string(perr.Kind))
		return nil, perr
	}

	scored := p.analyzer.ScoreRelevance(ctx, candidates, topic)

	relevant := p.filterByRelevance(scored)
	if len(relevant) == 0 {
		perr := &Error{
			Kind:    KindNoRelevantResults,
			Message: "Videos were found but none were relevant enough. Try rephrasing your search.",
		}
		p.recordSearch(ctx, topic, sessionID, 0, string(perr.Kind))
		return nil, perr
	}

	classified := p.analyzer.ClassifyDifficulty(ctx, relevant, topic)

	path := &models.LearningPath{
		Topic:     topic,
		Videos:    SelectPath(classified, topic, p.cfg.Weights),
		CreatedAt: p.now(),
	}

	if err := p.store.SaveLearningPath(ctx, path); err != nil {
		log.Printf("Warning: failed to save learning path for %q: %v", topic, err)
	}
	p.recordSearch(ctx, topic, sessionID, len(path.Videos), "")

	log.Printf("Curated %d-video path for %q in %v (%d candidates, %d relevant)",
		len(path.Videos), topic, time.Since(start), len(candidates), len(relevant))
	return path, nil
}

// filterByRelevance applies the threshold relaxation policy: keep
// candidates at the strict threshold; if fewer than 3 remain, relax;
// if still fewer than 3, take the best-scoring candidates that scored
// at all. Zero-scored candidates never pass, so an all-zero batch
// yields the empty slice (NO_RELEVANT_RESULTS upstream).
func (p *Pipeline) filterByRelevance(scored []models.ScoredCandidate) []models.ScoredCandidate {
	for _, threshold := range []float64{p.cfg.RelevanceThreshold, p.cfg.RelaxedThreshold} {
		var kept []models.ScoredCandidate
		for _, c := range scored {
			if c.Relevance >= threshold {
				kept = append(kept, c)
			}
		}
		if len(kept) >= 3 {
			return kept
		}
	}

	var kept []models.ScoredCandidate
	for _, c := range scored {
		if c.Relevance > 0 {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Relevance > kept[j].Relevance
	})
	return kept
}

func (p *Pipeline) recordSearch(ctx context.Context, topic, sessionID string, resultCount int, errorKind string) {
	rec := models.SearchRecord{
		Query:       topic,
		SessionID:   sessionID,
		ResultCount: resultCount,
		ErrorKind:   errorKind,
		SearchedAt:  p.now(),
	}
	if err := p.store.RecordSearch(ctx, rec); err != nil {
		log.Printf("Warning: failed to record search analytics for %q: %v", topic, err)
	}
}
