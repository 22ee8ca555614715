// Package youtube fetches learning-topic candidates from the YouTube
// Data API, rotating through a pool of API keys as daily quotas run out.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"learnpath/internal/cache"
	"learnpath/internal/models"
	"learnpath/internal/quota"
	"learnpath/shared/config"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

var (
	// ErrQuotaExhausted means every configured key returned quota-exceeded.
	ErrQuotaExhausted = errors.New("all API keys exhausted for the day")
	// ErrInvalidKey means the API rejected a configured key outright.
	ErrInvalidKey = errors.New("invalid API key")
	// ErrAccessDenied means the API project is misconfigured (API not
	// enabled, referrer restrictions, etc).
	ErrAccessDenied = errors.New("access denied by the video API")
	// ErrNoResults means no candidates survived dedup and the duration filter.
	ErrNoResults = errors.New("no candidates found")
)

const callTimeout = 30 * time.Second

// Client issues search and details calls against the video API. One
// API-key-scoped service is built per configured key; a search and its
// follow-up details call always use the same key.
type Client struct {
	cfg      *config.YouTubeConfig
	pipeline *config.PipelineConfig
	services []*yt.Service
	tracker  *quota.Tracker
	cache    *cache.Cache

	mu     sync.Mutex
	cursor int

	// Stubbed in tests.
	search  func(ctx context.Context, keyIndex int, topic string) (*yt.SearchListResponse, error)
	details func(ctx context.Context, keyIndex int, ids []string) (*yt.VideoListResponse, error)
	now     func() time.Time
}

func NewClient(ctx context.Context, cfg *config.Config, tracker *quota.Tracker, resultCache *cache.Cache) (*Client, error) {
	c := &Client{
		cfg:      &cfg.YouTube,
		pipeline: &cfg.Pipeline,
		tracker:  tracker,
		cache:    resultCache,
		now:      time.Now,
	}
	for i, key := range cfg.YouTube.APIKeys {
		svc, err := yt.NewService(ctx, option.WithAPIKey(key))
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube service for key %d: %w", i, err)
		}
		c.services = append(c.services, svc)
	}
	c.search = c.apiSearch
	c.details = c.apiDetails
	return c, nil
}

// FetchCandidates runs the search half of the pipeline: cache check,
// key-rotating search, batched details lookup, duration filtering and
// recency scoring. A cache hit returns immediately without touching the
// network or the quota counters.
func (c *Client) FetchCandidates(ctx context.Context, topic string) ([]models.Candidate, error) {
	if cached, ok := c.cache.Get(topic); ok {
		log.Printf("Cache hit for topic %q (%d candidates)", cache.Normalize(topic), len(cached))
		return cached, nil
	}

	resp, keyIndex, err := c.searchWithRotation(ctx, topic)
	if err != nil {
		return nil, err
	}

	ids := dedupeVideoIDs(resp.Items)
	if len(ids) > c.cfg.PrefetchLimit {
		ids = ids[:c.cfg.PrefetchLimit]
	}
	if len(ids) == 0 {
		return nil, ErrNoResults
	}

	// The details call reuses the key that the search succeeded on.
	dctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()
	dresp, err := c.details(dctx, keyIndex, ids)
	c.tracker.RecordDetailCall(ctx, keyIndex, len(ids))
	if err != nil {
		if isQuotaExceeded(err) {
			return nil, ErrQuotaExhausted
		}
		return nil, mapAPIError(err)
	}

	candidates := c.buildCandidates(dresp.Items)
	if len(candidates) == 0 {
		return nil, ErrNoResults
	}

	c.cache.Put(topic, candidates)
	return candidates, nil
}

// searchWithRotation tries each key in round-robin order until one
// succeeds or all report quota-exceeded. Every attempt, failed or not,
// is charged to the quota tracker.
func (c *Client) searchWithRotation(ctx context.Context, topic string) (*yt.SearchListResponse, int, error) {
	var lastQuotaErr error
	for attempt := 0; attempt < len(c.services); attempt++ {
		keyIndex := c.nextKey()

		sctx, cancel := context.WithTimeout(ctx, callTimeout)
		resp, err := c.search(sctx, keyIndex, topic)
		cancel()

		c.tracker.RecordSearchCall(ctx, keyIndex)

		if err == nil {
			return resp, keyIndex, nil
		}
		if isQuotaExceeded(err) {
			log.Printf("Key %d quota exceeded, rotating (%d/%d keys tried)", keyIndex, attempt+1, len(c.services))
			lastQuotaErr = err
			continue
		}
		return nil, 0, mapAPIError(err)
	}
	return nil, 0, fmt.Errorf("%w: %v", ErrQuotaExhausted, lastQuotaErr)
}

// nextKey advances the shared round-robin cursor.
func (c *Client) nextKey() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.cursor
	c.cursor = (c.cursor + 1) % len(c.services)
	return idx
}

func (c *Client) apiSearch(ctx context.Context, keyIndex int, topic string) (*yt.SearchListResponse, error) {
	return c.services[keyIndex].Search.List([]string{"id", "snippet"}).
		Q(topic).
		Type("video").
		MaxResults(c.cfg.MaxResults).
		Order("relevance").
		SafeSearch("moderate").
		VideoEmbeddable("true").
		Context(ctx).
		Do()
}

func (c *Client) apiDetails(ctx context.Context, keyIndex int, ids []string) (*yt.VideoListResponse, error) {
	return c.services[keyIndex].Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
}

// buildCandidates converts API items into candidates, dropping anything
// outside the configured duration band (shorts, multi-hour streams).
func (c *Client) buildCandidates(items []*yt.Video) []models.Candidate {
	now := c.now()
	var out []models.Candidate
	for _, item := range items {
		if item.Snippet == nil || item.ContentDetails == nil {
			continue
		}

		seconds := parseDurationSeconds(item.ContentDetails.Duration)
		if seconds < c.pipeline.MinDurationSeconds || seconds > c.pipeline.MaxDurationSeconds {
			continue
		}

		raw := models.RawCandidate{
			ID:              item.Id,
			Title:           item.Snippet.Title,
			Description:     item.Snippet.Description,
			ChannelTitle:    item.Snippet.ChannelTitle,
			Duration:        item.ContentDetails.Duration,
			DurationSeconds: seconds,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			raw.ThumbnailURL = item.Snippet.Thumbnails.Medium.Url
		}
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			raw.PublishedAt = publishedAt
		}
		if item.Statistics != nil {
			raw.ViewCount = int64(item.Statistics.ViewCount)
		}

		out = append(out, models.Candidate{
			RawCandidate: raw,
			RecencyScore: recencyScore(raw.PublishedAt, now),
		})
	}
	return out
}

// dedupeVideoIDs keeps the first occurrence of each video ID.
func dedupeVideoIDs(items []*yt.SearchResult) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, item := range items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		if seen[item.Id.VideoId] {
			continue
		}
		seen[item.Id.VideoId] = true
		ids = append(ids, item.Id.VideoId)
	}
	return ids
}

// isQuotaExceeded detects the API's 403 quota responses, which are
// distinguished from other 403s by the error reason.
func isQuotaExceeded(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	for _, e := range gerr.Errors {
		switch e.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return true
		}
	}
	return false
}

// mapAPIError translates non-quota API failures into the fetcher's
// error taxonomy.
func mapAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, e := range gerr.Errors {
			switch e.Reason {
			case "keyInvalid", "badRequest":
				return fmt.Errorf("%w: %s", ErrInvalidKey, e.Message)
			case "accessNotConfigured", "forbidden", "accessDenied":
				return fmt.Errorf("%w: %s", ErrAccessDenied, e.Message)
			}
		}
		return fmt.Errorf("video API returned %d: %w", gerr.Code, err)
	}
	return fmt.Errorf("video API request failed: %w", err)
}
