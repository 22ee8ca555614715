package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnpath/internal/curator"
	"learnpath/internal/models"
	"learnpath/shared/monitoring"
)

type fakeSearcher struct {
	path *models.LearningPath
	err  error
}

func (f *fakeSearcher) Search(ctx context.Context, topic, sessionID string) (*models.LearningPath, error) {
	return f.path, f.err
}

type fakeStore struct {
	bookmarks []models.Bookmark
	topics    []models.TopicCount
	quota     []models.QuotaRecord
	savedPath *models.LearningPath
	err       error
}

func (f *fakeStore) CreateBookmark(ctx context.Context, b *models.Bookmark) error {
	if f.err != nil {
		return f.err
	}
	b.ID = int64(len(f.bookmarks) + 1)
	f.bookmarks = append(f.bookmarks, *b)
	return nil
}

func (f *fakeStore) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Bookmark
	for _, b := range f.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteBookmark(ctx context.Context, id int64) error {
	for i, b := range f.bookmarks {
		if b.ID == id {
			f.bookmarks = append(f.bookmarks[:i], f.bookmarks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("bookmark %d not found", id)
}

func (f *fakeStore) PopularTopics(ctx context.Context, limit int) ([]models.TopicCount, error) {
	return f.topics, f.err
}

func (f *fakeStore) GetQuotaUsage(ctx context.Context, date string) ([]models.QuotaRecord, error) {
	return f.quota, f.err
}

func (f *fakeStore) GetLearningPathByTopic(ctx context.Context, topic string) (*models.LearningPath, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.savedPath != nil && f.savedPath.Topic == topic {
		return f.savedPath, nil
	}
	return nil, nil
}

func testPath() *models.LearningPath {
	var videos []models.PathVideo
	for tier := 1; tier <= 3; tier++ {
		videos = append(videos, models.PathVideo{
			ClassifiedCandidate: models.ClassifiedCandidate{
				ScoredCandidate: models.ScoredCandidate{
					Candidate: models.Candidate{
						RawCandidate: models.RawCandidate{ID: fmt.Sprintf("vid%d", tier)},
					},
				},
				Tier: tier,
			},
			Level:      tier,
			LevelLabel: fmt.Sprintf("level %d", tier),
		})
	}
	return &models.LearningPath{Topic: "photosynthesis", Videos: videos}
}

func newTestRouter(searcher Searcher, store Store) *Router {
	return NewRouter(searcher, store, monitoring.NewMonitor())
}

func doJSON(t *testing.T, router *Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(&fakeSearcher{path: testPath()}, &fakeStore{})

	rec := doJSON(t, router, http.MethodPost, "/search", searchRequest{Query: "photosynthesis"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Query != "photosynthesis" {
		t.Errorf("Query = %q, want photosynthesis", resp.Query)
	}
	if len(resp.Videos) != 3 {
		t.Errorf("got %d videos, want 3", len(resp.Videos))
	}
}

func TestSearchEndpointPipelineErrors(t *testing.T) {
	tests := []struct {
		kind       curator.Kind
		wantStatus int
	}{
		{curator.KindQuotaExceeded, http.StatusTooManyRequests},
		{curator.KindNoResults, http.StatusNotFound},
		{curator.KindNoRelevantResults, http.StatusNotFound},
		{curator.KindInvalidKey, http.StatusInternalServerError},
		{curator.KindUpstream, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			searcher := &fakeSearcher{err: &curator.Error{Kind: tt.kind, Message: "nope"}}
			router := newTestRouter(searcher, &fakeStore{})

			rec := doJSON(t, router, http.MethodPost, "/search", searchRequest{Query: "x"})
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Error.Kind != string(tt.kind) {
				t.Errorf("error kind = %q, want %q", resp.Error.Kind, tt.kind)
			}
			if resp.Error.Message == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestSearchEndpointBadBody(t *testing.T) {
	router := newTestRouter(&fakeSearcher{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/search", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchEndpointUnexpectedError(t *testing.T) {
	router := newTestRouter(&fakeSearcher{err: errors.New("boom")}, &fakeStore{})

	rec := doJSON(t, router, http.MethodPost, "/search", searchRequest{Query: "x"})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestGetPath(t *testing.T) {
	store := &fakeStore{savedPath: testPath()}
	router := newTestRouter(&fakeSearcher{}, store)

	t.Run("found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/paths?topic=photosynthesis", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var path models.LearningPath
		if err := json.Unmarshal(rec.Body.Bytes(), &path); err != nil {
			t.Fatalf("decode path: %v", err)
		}
		// Saved IDs must round-trip exactly, no substitution.
		want := []string{"vid1", "vid2", "vid3"}
		for i, v := range path.Videos {
			if v.ID != want[i] {
				t.Errorf("Videos[%d].ID = %q, want %q", i, v.ID, want[i])
			}
		}
	})

	t.Run("missing topic param", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/paths", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unknown topic", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/paths?topic=unknown", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestBookmarkLifecycle(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter(&fakeSearcher{}, store)

	rec := doJSON(t, router, http.MethodPost, "/bookmarks", bookmarkRequest{
		UserID:   "user-1",
		Topic:    "photosynthesis",
		VideoIDs: []string{"vid1", "vid2", "vid3"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/bookmarks/user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var bookmarks []models.Bookmark
	if err := json.Unmarshal(rec.Body.Bytes(), &bookmarks); err != nil {
		t.Fatalf("decode bookmarks: %v", err)
	}
	if len(bookmarks) != 1 || bookmarks[0].Topic != "photosynthesis" {
		t.Errorf("bookmarks = %+v, want the created one", bookmarks)
	}

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/bookmarks/%d", bookmarks[0].ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/bookmarks/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", rec.Code)
	}
}

func TestBookmarkValidation(t *testing.T) {
	router := newTestRouter(&fakeSearcher{}, &fakeStore{})

	rec := doJSON(t, router, http.MethodPost, "/bookmarks", bookmarkRequest{UserID: "u"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing fields", rec.Code)
	}
}

func TestPopularTopics(t *testing.T) {
	store := &fakeStore{topics: []models.TopicCount{{Topic: "rust", Count: 5}}}
	router := newTestRouter(&fakeSearcher{}, store)

	rec := doJSON(t, router, http.MethodGet, "/analytics/popular?limit=5", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var topics []models.TopicCount
	if err := json.Unmarshal(rec.Body.Bytes(), &topics); err != nil {
		t.Fatalf("decode topics: %v", err)
	}
	if len(topics) != 1 || topics[0].Topic != "rust" {
		t.Errorf("topics = %+v", topics)
	}
}

func TestQuotaUsageEndpoint(t *testing.T) {
	store := &fakeStore{quota: []models.QuotaRecord{
		{Date: "2026-08-20", KeyIndex: 0, SearchCalls: 4, TotalUnits: 415},
	}}
	router := newTestRouter(&fakeSearcher{}, store)

	rec := doJSON(t, router, http.MethodGet, "/analytics/quota?date=2026-08-20", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var records []models.QuotaRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 1 || records[0].TotalUnits != 415 {
		t.Errorf("records = %+v", records)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&fakeSearcher{}, &fakeStore{})

	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 before any searches", rec.Code)
	}
}
