package curator

import (
	"strings"
	"testing"

	"learnpath/internal/models"
	"learnpath/shared/config"
)

var testWeights = config.Weights{Relevance: 0.6, Recency: 0.25, Views: 0.15}

func classified(id string, tier int, relevance float64) models.ClassifiedCandidate {
	return models.ClassifiedCandidate{
		ScoredCandidate: models.ScoredCandidate{
			Candidate: models.Candidate{
				RawCandidate: models.RawCandidate{ID: id, Title: "Video " + id},
				RecencyScore: 0.5,
			},
			Relevance: relevance,
		},
		Tier: tier,
	}
}

func TestSelectPathOnePerTier(t *testing.T) {
	// Tiers {1,1,2,3,3}: duplicates within a tier must be dropped.
	candidates := []models.ClassifiedCandidate{
		classified("a", 1, 0.9),
		classified("b", 1, 0.85),
		classified("c", 2, 0.8),
		classified("d", 3, 0.95),
		classified("e", 3, 0.7),
	}

	path := SelectPath(candidates, "photosynthesis", testWeights)
	if len(path) != 3 {
		t.Fatalf("got %d videos, want 3", len(path))
	}

	seen := make(map[string]bool)
	for i, v := range path {
		if v.Level != i+1 {
			t.Errorf("path[%d].Level = %d, want %d (ascending)", i, v.Level, i+1)
		}
		if seen[v.ID] {
			t.Errorf("video %s selected twice", v.ID)
		}
		seen[v.ID] = true
	}

	// The better-scored candidate of each tier wins.
	if path[0].ID != "a" || path[1].ID != "c" || path[2].ID != "d" {
		t.Errorf("selected [%s %s %s], want [a c d]", path[0].ID, path[1].ID, path[2].ID)
	}
}

func TestSelectPathBackfillsMissingTiers(t *testing.T) {
	// No tier-2 or tier-3 candidates: the best remaining tier-1
	// candidates fill those slots.
	candidates := []models.ClassifiedCandidate{
		classified("a", 1, 0.9),
		classified("b", 1, 0.8),
		classified("c", 1, 0.7),
		classified("d", 1, 0.6),
	}

	path := SelectPath(candidates, "topic", testWeights)
	if len(path) != 3 {
		t.Fatalf("got %d videos, want 3 via backfill", len(path))
	}

	seen := make(map[string]bool)
	for _, v := range path {
		if seen[v.ID] {
			t.Fatalf("backfill duplicated video %s", v.ID)
		}
		seen[v.ID] = true
	}
	if path[0].ID != "a" || path[1].ID != "b" || path[2].ID != "c" {
		t.Errorf("backfill picked [%s %s %s], want [a b c]", path[0].ID, path[1].ID, path[2].ID)
	}
}

func TestSelectPathFewerThanThree(t *testing.T) {
	candidates := []models.ClassifiedCandidate{
		classified("only", 2, 0.9),
	}

	path := SelectPath(candidates, "topic", testWeights)
	if len(path) != 1 {
		t.Fatalf("got %d videos, want 1 (short paths are not padded)", len(path))
	}
	if path[0].ID != "only" {
		t.Errorf("selected %s, want only", path[0].ID)
	}
}

func TestSelectPathEmpty(t *testing.T) {
	if path := SelectPath(nil, "topic", testWeights); path != nil {
		t.Errorf("SelectPath(nil) = %v, want nil", path)
	}
}

func TestSelectPathLabels(t *testing.T) {
	candidates := []models.ClassifiedCandidate{
		classified("a", 1, 0.9),
		classified("b", 2, 0.9),
		classified("c", 3, 0.9),
	}

	path := SelectPath(candidates, "organic chemistry", testWeights)
	wantLabels := []string{"level 1", "level 2", "level 3"}
	for i, v := range path {
		if v.LevelLabel != wantLabels[i] {
			t.Errorf("path[%d].LevelLabel = %q, want %q", i, v.LevelLabel, wantLabels[i])
		}
		if !strings.Contains(v.LevelDescription, "organic chemistry") {
			t.Errorf("path[%d].LevelDescription = %q, topic not interpolated", i, v.LevelDescription)
		}
	}
}

func TestCompositeScoreRelevanceDominates(t *testing.T) {
	lowViews := classified("a", 1, 0.9)
	highViews := classified("b", 1, 0.4)
	highViews.ViewCount = 50_000_000
	highViews.RecencyScore = 1.0

	if compositeScore(lowViews, testWeights) <= compositeScore(highViews, testWeights) {
		t.Error("view count and recency outweighed a large relevance gap")
	}
}

func TestViewScore(t *testing.T) {
	if viewScore(0) != 0 {
		t.Errorf("viewScore(0) = %v, want 0", viewScore(0))
	}
	if viewScore(100_000_000) != 1 {
		t.Errorf("viewScore(100M) = %v, want saturated at 1", viewScore(100_000_000))
	}
	if viewScore(1000) >= viewScore(1_000_000) {
		t.Error("viewScore not monotonic")
	}
}
