// Package ai scores candidates with the Gemini API. Every AI failure is
// recovered locally through deterministic fallbacks, so the analyzer
// never propagates an error into the pipeline.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"learnpath/shared/config"

	"google.golang.org/genai"
)

// Analyzer wraps the Gemini client for relevance scoring and difficulty
// classification. A nil client (no API key configured) forces the
// deterministic fallbacks for every request.
type Analyzer struct {
	client *genai.Client
	model  string
}

func NewAnalyzer(ctx context.Context, cfg *config.AIConfig) (*Analyzer, error) {
	a := &Analyzer{model: cfg.Model}

	if cfg.GeminiAPIKey == "" {
		return a, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	a.client = client
	return a, nil
}

// generate sends a single text prompt and returns the response text.
func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	if a.client == nil {
		return "", fmt.Errorf("AI client not configured")
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// extractJSON pulls the outermost JSON object out of a model response,
// which often wraps it in prose or markdown fences.
func extractJSON(response string) (string, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return response[start : end+1], nil
}

func unmarshalResponse(response string, v any) error {
	jsonStr, err := extractJSON(response)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), v); err != nil {
		return fmt.Errorf("failed to unmarshal model JSON: %w", err)
	}
	return nil
}

func truncate(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampTier(v int) int {
	if v < 1 {
		return 1
	}
	if v > 3 {
		return 3
	}
	return v
}
