package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"learnpath/internal/models"
)

// Heuristic difficulty thresholds for the no-AI fallback.
const (
	advancedDurationSeconds     = 1800
	intermediateDurationSeconds = 900
)

var (
	advancedKeywords     = []string{"advanced", "master", "expert", "comprehensive"}
	intermediateKeywords = []string{"intermediate", "tutorial", "guide", "course"}
)

// ClassifyDifficulty attaches a difficulty tier (1=beginner,
// 2=intermediate, 3=advanced) to every candidate. Candidates are
// deduplicated by video ID first; upstream should already guarantee
// uniqueness. Falls back to a keyword/duration heuristic when the model
// is unavailable.
func (a *Analyzer) ClassifyDifficulty(ctx context.Context, candidates []models.ScoredCandidate, topic string) []models.ClassifiedCandidate {
	candidates = dedupeByID(candidates)
	if len(candidates) == 0 {
		return nil
	}

	classified, err := a.classifyWithModel(ctx, candidates, topic)
	if err == nil {
		return classified
	}
	log.Printf("AI difficulty classification unavailable (%v), using heuristic fallback", err)

	out := make([]models.ClassifiedCandidate, 0, len(candidates))
	for _, c := range candidates {
		tier, reasoning := heuristicTier(c)
		out = append(out, models.ClassifiedCandidate{
			ScoredCandidate: c,
			Tier:            tier,
			TierReasoning:   reasoning,
		})
	}
	return out
}

func (a *Analyzer) classifyWithModel(ctx context.Context, candidates []models.ScoredCandidate, topic string) ([]models.ClassifiedCandidate, error) {
	prompt := buildDifficultyPrompt(candidates, topic)

	response, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result struct {
		Difficulties []int    `json:"difficulties"`
		Reasoning    []string `json:"reasoning"`
	}
	if err := unmarshalResponse(response, &result); err != nil {
		return nil, err
	}

	out := make([]models.ClassifiedCandidate, 0, len(candidates))
	for i, c := range candidates {
		cc := models.ClassifiedCandidate{ScoredCandidate: c, Tier: 1}
		if i < len(result.Difficulties) {
			cc.Tier = clampTier(result.Difficulties[i])
		}
		if i < len(result.Reasoning) {
			cc.TierReasoning = result.Reasoning[i]
		}
		out = append(out, cc)
	}
	return out, nil
}

func buildDifficultyPrompt(candidates []models.ScoredCandidate, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are classifying the pedagogical difficulty of YouTube videos about %q.

Assign each video exactly one level:
1 = beginner: assumes no prior knowledge, introduces fundamentals
2 = intermediate: assumes basic familiarity, goes deeper into how things work
3 = advanced: assumes solid working knowledge, covers edge cases or expert technique

VIDEOS:
`, topic)
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. Title: %s\n   Description: %s\n   Duration: %d seconds\n",
			i+1, c.Title, truncate(c.Description, 200), c.DurationSeconds)
	}
	fmt.Fprintf(&b, `
Respond with only a JSON object in this exact shape, with one entry per video in order:
{"difficulties": [1, 3, ...], "reasoning": ["short reason", "short reason", ...]}`)
	return b.String()
}

// heuristicTier guesses difficulty from title keywords, then duration.
func heuristicTier(c models.ScoredCandidate) (int, string) {
	title := strings.ToLower(c.Title)

	for _, kw := range advancedKeywords {
		if strings.Contains(title, kw) {
			return 3, fmt.Sprintf("title suggests advanced content (%q)", kw)
		}
	}
	if c.DurationSeconds > advancedDurationSeconds {
		return 3, "long-form deep dive"
	}

	for _, kw := range intermediateKeywords {
		if strings.Contains(title, kw) {
			return 2, fmt.Sprintf("title suggests structured instruction (%q)", kw)
		}
	}
	if c.DurationSeconds > intermediateDurationSeconds {
		return 2, "medium-length instructional content"
	}

	return 1, "short introductory content"
}

func dedupeByID(candidates []models.ScoredCandidate) []models.ScoredCandidate {
	seen := make(map[string]bool)
	var out []models.ScoredCandidate
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}
