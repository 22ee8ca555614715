package curator

import (
	"fmt"
	"math"
	"sort"

	"learnpath/internal/models"
	"learnpath/shared/config"
)

var levelDescriptions = map[int]string{
	1: "Start your %s journey with the fundamentals",
	2: "Deepen your understanding of %s",
	3: "Master advanced %s concepts",
}

// SelectPath picks at most one video per difficulty tier to form the
// beginner-to-advanced progression. Candidates are ranked by composite
// score, each tier takes its highest-ranked untaken candidate, and
// empty tiers are backfilled from the best remaining candidate
// regardless of its classified tier. Output is ordered by ascending
// level and never repeats a video ID. When fewer than 3 distinct
// candidates exist, the path is returned short rather than padded.
func SelectPath(candidates []models.ClassifiedCandidate, topic string, w config.Weights) []models.PathVideo {
	if len(candidates) == 0 {
		return nil
	}

	ranked := make([]models.ClassifiedCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return compositeScore(ranked[i], w) > compositeScore(ranked[j], w)
	})

	taken := make(map[string]bool)
	slots := make(map[int]*models.ClassifiedCandidate)

	for tier := 1; tier <= 3; tier++ {
		for i := range ranked {
			c := &ranked[i]
			if c.Tier == tier && !taken[c.ID] {
				slots[tier] = c
				taken[c.ID] = true
				break
			}
		}
	}

	// Backfill empty tiers from the best remaining candidates.
	for tier := 1; tier <= 3; tier++ {
		if slots[tier] != nil {
			continue
		}
		for i := range ranked {
			c := &ranked[i]
			if !taken[c.ID] {
				slots[tier] = c
				taken[c.ID] = true
				break
			}
		}
	}

	var path []models.PathVideo
	for tier := 1; tier <= 3; tier++ {
		c := slots[tier]
		if c == nil {
			continue
		}
		path = append(path, models.PathVideo{
			ClassifiedCandidate: *c,
			Level:               tier,
			LevelLabel:          fmt.Sprintf("level %d", tier),
			LevelDescription:    fmt.Sprintf(levelDescriptions[tier], topic),
		})
	}
	return path
}

// compositeScore ranks candidates before tier selection. Relevance
// dominates, recency breaks near-ties, view count nudges.
func compositeScore(c models.ClassifiedCandidate, w config.Weights) float64 {
	return w.Relevance*c.Relevance + w.Recency*c.RecencyScore + w.Views*viewScore(c.ViewCount)
}

// viewScore squashes raw view counts onto [0,1] with a log scale;
// roughly 10M views saturates it.
func viewScore(views int64) float64 {
	if views <= 0 {
		return 0
	}
	s := math.Log10(float64(views)+1) / 7.0
	if s > 1 {
		return 1
	}
	return s
}
