package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"learnpath/internal/curator"
	"learnpath/internal/models"
)

type searchRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"sessionId,omitempty"`
}

type searchResponse struct {
	Query  string             `json:"query"`
	Videos []models.PathVideo `json:"videos"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type bookmarkRequest struct {
	UserID   string   `json:"userId"`
	Topic    string   `json:"topic"`
	VideoIDs []string `json:"videoIds"`
}

func (r *Router) search(w http.ResponseWriter, req *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Request body must be JSON with a query field.")
		return
	}

	path, err := r.searcher.Search(req.Context(), body.Query, body.SessionID)
	if err != nil {
		r.monitor.RecordSearchFailure()

		var perr *curator.Error
		if errors.As(err, &perr) {
			log.Printf("Search for %q failed: %v", body.Query, perr)
			writeError(w, perr.HTTPStatus(), string(perr.Kind), perr.Message)
			return
		}
		log.Printf("Search for %q failed unexpectedly: %v", body.Query, err)
		writeError(w, http.StatusInternalServerError, string(curator.KindUpstream), "Something went wrong. Please try again.")
		return
	}

	r.monitor.RecordSearchSuccess()
	writeJSON(w, http.StatusOK, searchResponse{Query: path.Topic, Videos: path.Videos})
}

// getPath returns the most recently curated path for a topic without
// triggering a new curation run.
func (r *Router) getPath(w http.ResponseWriter, req *http.Request) {
	topic := req.URL.Query().Get("topic")
	if topic == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "A topic query parameter is required.")
		return
	}

	path, err := r.store.GetLearningPathByTopic(req.Context(), topic)
	if err != nil {
		log.Printf("Failed to load path for %q: %v", topic, err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load learning path.")
		return
	}
	if path == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No learning path has been curated for this topic yet.")
		return
	}
	writeJSON(w, http.StatusOK, path)
}

func (r *Router) createBookmark(w http.ResponseWriter, req *http.Request) {
	var body bookmarkRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Request body must be JSON.")
		return
	}
	if body.UserID == "" || body.Topic == "" || len(body.VideoIDs) == 0 {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "userId, topic and videoIds are required.")
		return
	}

	bookmark := &models.Bookmark{
		UserID:   body.UserID,
		Topic:    body.Topic,
		VideoIDs: body.VideoIDs,
	}
	if err := r.store.CreateBookmark(req.Context(), bookmark); err != nil {
		log.Printf("Failed to create bookmark: %v", err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to save bookmark.")
		return
	}
	writeJSON(w, http.StatusCreated, bookmark)
}

func (r *Router) listBookmarks(w http.ResponseWriter, req *http.Request) {
	userID := mux.Vars(req)["userID"]

	bookmarks, err := r.store.ListBookmarks(req.Context(), userID)
	if err != nil {
		log.Printf("Failed to list bookmarks for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load bookmarks.")
		return
	}
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

func (r *Router) deleteBookmark(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Bookmark id must be numeric.")
		return
	}

	if err := r.store.DeleteBookmark(req.Context(), id); err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Bookmark not found.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) popularTopics(w http.ResponseWriter, req *http.Request) {
	limit := 10
	if v := req.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	topics, err := r.store.PopularTopics(req.Context(), limit)
	if err != nil {
		log.Printf("Failed to load popular topics: %v", err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load analytics.")
		return
	}
	if topics == nil {
		topics = []models.TopicCount{}
	}
	writeJSON(w, http.StatusOK, topics)
}

func (r *Router) quotaUsage(w http.ResponseWriter, req *http.Request) {
	date := req.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	records, err := r.store.GetQuotaUsage(req.Context(), date)
	if err != nil {
		log.Printf("Failed to load quota usage for %s: %v", date, err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to load quota usage.")
		return
	}
	if records == nil {
		records = []models.QuotaRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}
