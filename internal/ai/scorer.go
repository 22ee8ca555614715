package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"learnpath/internal/models"
)

// fallbackScore marks items the model skipped or mangled: low
// confidence, but not excluded.
const fallbackScore = 0.1

// ScoreRelevance attaches a 0.0-1.0 topical relevance score to every
// candidate. The primary path is one batched model call; if it fails or
// the model is unconfigured, deterministic keyword matching takes over.
func (a *Analyzer) ScoreRelevance(ctx context.Context, candidates []models.Candidate, topic string) []models.ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}

	scored, err := a.scoreWithModel(ctx, candidates, topic)
	if err == nil {
		return scored
	}
	log.Printf("AI relevance scoring unavailable (%v), using keyword fallback", err)

	out := make([]models.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		score, reasoning := keywordRelevance(c, topic)
		out = append(out, models.ScoredCandidate{
			Candidate:          c,
			Relevance:          score,
			RelevanceReasoning: reasoning,
		})
	}
	return out
}

func (a *Analyzer) scoreWithModel(ctx context.Context, candidates []models.Candidate, topic string) ([]models.ScoredCandidate, error) {
	prompt := buildRelevancePrompt(candidates, topic)

	response, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result struct {
		Scores    []float64 `json:"scores"`
		Reasoning []string  `json:"reasoning"`
	}
	if err := unmarshalResponse(response, &result); err != nil {
		return nil, err
	}

	out := make([]models.ScoredCandidate, 0, len(candidates))
	for i, c := range candidates {
		sc := models.ScoredCandidate{Candidate: c, Relevance: fallbackScore}
		if i < len(result.Scores) {
			sc.Relevance = clamp01(result.Scores[i])
		}
		if i < len(result.Reasoning) {
			sc.RelevanceReasoning = result.Reasoning[i]
		}
		out = append(out, sc)
	}
	return out, nil
}

func buildRelevancePrompt(candidates []models.Candidate, topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are rating how relevant YouTube videos are for someone who wants to learn about %q.

Rate each video from 0.0 (unrelated) to 1.0 (directly teaches the topic).
Judge only from the title and description provided.

VIDEOS:
`, topic)
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. Title: %s\n   Description: %s\n", i+1, c.Title, truncate(c.Description, 200))
	}
	fmt.Fprintf(&b, `
Respond with only a JSON object in this exact shape, with one entry per video in order:
{"scores": [0.9, 0.2, ...], "reasoning": ["short reason", "short reason", ...]}`)
	return b.String()
}

// keywordRelevance is the deterministic fallback. A candidate must
// contain every topic word (longer than 2 characters) across its title
// and description to score at all; partial matches are intentionally
// penalized to zero so tangential content never surfaces.
func keywordRelevance(c models.Candidate, topic string) (float64, string) {
	words := topicWords(topic)
	title := strings.ToLower(c.Title)
	text := title + " " + strings.ToLower(c.Description)

	for _, w := range words {
		if !strings.Contains(text, w) {
			return 0, "missing topic keywords"
		}
	}

	phrase := strings.ToLower(strings.TrimSpace(topic))
	if phrase != "" && strings.Contains(title, phrase) {
		return 0.9, "topic phrase appears in the title"
	}

	score := 0.3 * float64(len(words))
	if score > 1.0 {
		score = 1.0
	}
	return score, "matches all topic keywords"
}

// topicWords splits a topic into lowercase words longer than 2 characters.
func topicWords(topic string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(topic)) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}
