// Package api is the thin HTTP boundary around the curation pipeline.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"learnpath/internal/models"
	"learnpath/shared/monitoring"
)

// Searcher runs the curation pipeline for one topic.
type Searcher interface {
	Search(ctx context.Context, topic, sessionID string) (*models.LearningPath, error)
}

// Store covers the thin read/write surfaces exposed over HTTP.
type Store interface {
	CreateBookmark(ctx context.Context, b *models.Bookmark) error
	ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error)
	DeleteBookmark(ctx context.Context, id int64) error
	PopularTopics(ctx context.Context, limit int) ([]models.TopicCount, error)
	GetQuotaUsage(ctx context.Context, date string) ([]models.QuotaRecord, error)
	GetLearningPathByTopic(ctx context.Context, topic string) (*models.LearningPath, error)
}

type Router struct {
	*mux.Router
	searcher Searcher
	store    Store
	monitor  *monitoring.Monitor
}

func NewRouter(searcher Searcher, store Store, monitor *monitoring.Monitor) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		searcher: searcher,
		store:    store,
		monitor:  monitor,
	}

	r.HandleFunc("/search", r.search).Methods(http.MethodPost)
	r.HandleFunc("/paths", r.getPath).Methods(http.MethodGet)

	r.HandleFunc("/bookmarks", r.createBookmark).Methods(http.MethodPost)
	r.HandleFunc("/bookmarks/{userID}", r.listBookmarks).Methods(http.MethodGet)
	r.HandleFunc("/bookmarks/{id:[0-9]+}", r.deleteBookmark).Methods(http.MethodDelete)

	r.HandleFunc("/analytics/popular", r.popularTopics).Methods(http.MethodGet)
	r.HandleFunc("/analytics/quota", r.quotaUsage).Methods(http.MethodGet)

	r.HandleFunc("/health", monitor.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/status", monitor.StatusHandler).Methods(http.MethodGet)

	return r
}
