// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/middleware"
	"github.com/danielhkuo/quickly-tally/models"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// RunsHandler serves stored runs. Runs are immutable once written, so a
// cached copy stays valid until the run is deleted.
type RunsHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	cache *lru.Cache[string, models.Run]

	// evictions counts Evict calls. A read that started before an eviction
	// must not cache what it read.
	mu        sync.Mutex
	evictions uint64
}

func NewRunsHandler(db *sql.DB, cfg cliparse.Config) (*RunsHandler, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = cliparse.DefaultCacheSize
	}
	cache, err := lru.New[string, models.Run](size)
	if err != nil {
		return nil, fmt.Errorf("create run cache: %w", err)
	}
	return &RunsHandler{db: db, cfg: cfg, cache: cache}, nil
}

// Evict drops runs from the cache after they are deleted elsewhere
func (h *RunsHandler) Evict(ids ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.evictions++
	for _, id := range ids {
		h.cache.Remove(id)
	}
}

func (h *RunsHandler) evictionCount() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.evictions
}

// cacheRun stores a run read from the database unless an eviction happened
// since seen was taken
func (h *RunsHandler) cacheRun(run models.Run, seen uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.evictions != seen {
		return false
	}
	h.cache.Add(run.ID, run)
	return true
}

// GetRun handles GET /runs/{id}
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if err := auth.ValidateRunID(runID); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid run id")
		return
	}

	if run, ok := h.cache.Get(runID); ok {
		middleware.JSONResponse(w, http.StatusOK, run)
		return
	}

	seen := h.evictionCount()
	run, err := db.GetRun(r.Context(), h.db, runID)
	if errors.Is(err, db.ErrRunNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		slog.Error("failed to query run", "run_id", runID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.cacheRun(run, seen)
	middleware.JSONResponse(w, http.StatusOK, run)
}

// ListRuns handles GET /runs?kind=&limit=
// Newest first
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	kind := query.Get("kind")
	switch kind {
	case "", models.KindRankedChoice, models.KindWeightedRankedChoice, models.KindReferendum:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown kind")
		return
	}

	limit := DefaultListLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, MaxListLimit)
	}

	runs, err := db.ListRuns(r.Context(), h.db, kind, limit)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RunListResponse{Runs: runs})
}

// DeleteRun handles DELETE /runs/{id}
// Requires the admin key returned when the run was created
func (h *RunsHandler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if err := auth.ValidateRunID(runID); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid run id")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(runID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	err := db.DeleteRun(r.Context(), h.db, runID)
	if errors.Is(err, db.ErrRunNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete run", "run_id", runID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.Evict(runID)
	slog.Info("run deleted", "run_id", runID, "request_id", middleware.RequestID(r.Context()))

	w.WriteHeader(http.StatusNoContent)
}
