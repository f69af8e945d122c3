// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/testutil"
)

func newTestRunsHandler(t *testing.T) *RunsHandler {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	t.Cleanup(func() { conn.Close() })

	handler, err := NewRunsHandler(conn, testutil.GetTestConfig())
	if err != nil {
		t.Fatalf("NewRunsHandler() error = %v", err)
	}
	return handler
}

func getRunRequest(runID string) *http.Request {
	req := httptest.NewRequest("GET", "/runs/"+runID, nil)
	req.SetPathValue("id", runID)
	return req
}

func deleteRunRequest(runID, adminKey string) *http.Request {
	req := httptest.NewRequest("DELETE", "/runs/"+runID, nil)
	req.SetPathValue("id", runID)
	if adminKey != "" {
		req.Header.Set("X-Admin-Key", adminKey)
	}
	return req
}

func TestNewRunsHandler_DefaultCacheSize(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	cfg.CacheSize = 0

	if _, err := NewRunsHandler(conn, cfg); err != nil {
		t.Errorf("Expected fallback to the default cache size, got error %v", err)
	}
}

func TestGetRun(t *testing.T) {
	handler := newTestRunsHandler(t)
	cfg := testutil.GetTestConfig()

	runID, _ := testutil.InsertTestRun(t, handler.db, cfg, models.KindReferendum, "Budget", time.Now())

	w := httptest.NewRecorder()
	handler.GetRun(w, getRunRequest(runID))

	testutil.AssertStatus(t, w, http.StatusOK)

	var run models.Run
	testutil.AssertJSON(t, w, &run)

	if run.ID != runID || run.Kind != models.KindReferendum || run.Label != "Budget" {
		t.Errorf("Unexpected run: %+v", run)
	}
	if string(run.Payload) == "" {
		t.Error("Expected payload to be returned")
	}
}

func TestGetRun_Errors(t *testing.T) {
	handler := newTestRunsHandler(t)

	tests := []struct {
		name     string
		runID    string
		expected int
	}{
		{"malformed id", "not-a-uuid", http.StatusBadRequest},
		{"unknown id", auth.NewRunID(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.GetRun(w, getRunRequest(tt.runID))
			testutil.AssertStatus(t, w, tt.expected)
		})
	}
}

func TestGetRun_ServedFromCache(t *testing.T) {
	handler := newTestRunsHandler(t)
	cfg := testutil.GetTestConfig()

	runID, _ := testutil.InsertTestRun(t, handler.db, cfg, models.KindRankedChoice, "", time.Now())

	w := httptest.NewRecorder()
	handler.GetRun(w, getRunRequest(runID))
	testutil.AssertStatus(t, w, http.StatusOK)

	if !handler.cache.Contains(runID) {
		t.Fatal("Expected run to be cached after the first read")
	}

	// Remove the row behind the cache's back; the cached copy still serves
	if err := db.DeleteRun(context.Background(), handler.db, runID); err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}

	w = httptest.NewRecorder()
	handler.GetRun(w, getRunRequest(runID))
	testutil.AssertStatus(t, w, http.StatusOK)

	handler.Evict(runID)

	w = httptest.NewRecorder()
	handler.GetRun(w, getRunRequest(runID))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetRun_ReadRacingDeleteIsNotCached(t *testing.T) {
	handler := newTestRunsHandler(t)
	cfg := testutil.GetTestConfig()

	runID, _ := testutil.InsertTestRun(t, handler.db, cfg, models.KindReferendum, "", time.Now())

	// A read loads the row, then a delete lands before the read caches it
	seen := handler.evictionCount()
	run, err := db.GetRun(context.Background(), handler.db, runID)
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if err := db.DeleteRun(context.Background(), handler.db, runID); err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	handler.Evict(runID)

	if handler.cacheRun(run, seen) {
		t.Error("Expected stale read not to be cached")
	}
	if handler.cache.Contains(runID) {
		t.Fatal("Expected deleted run to stay out of the cache")
	}

	w := httptest.NewRecorder()
	handler.GetRun(w, getRunRequest(runID))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// Reads that start after the eviction cache normally
	otherID, _ := testutil.InsertTestRun(t, handler.db, cfg, models.KindReferendum, "", time.Now())
	w = httptest.NewRecorder()
	handler.GetRun(w, getRunRequest(otherID))
	testutil.AssertStatus(t, w, http.StatusOK)
	if !handler.cache.Contains(otherID) {
		t.Error("Expected later read to be cached")
	}
}

func TestListRuns(t *testing.T) {
	handler := newTestRunsHandler(t)
	cfg := testutil.GetTestConfig()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		testutil.InsertTestRun(t, handler.db, cfg, models.KindRankedChoice, "rc"+strconv.Itoa(i), base.Add(time.Duration(i)*time.Minute))
	}
	newestRef, _ := testutil.InsertTestRun(t, handler.db, cfg, models.KindReferendum, "ref", base.Add(time.Hour))

	tests := []struct {
		name      string
		query     string
		expected  int
		wantCount int
	}{
		{"all", "", http.StatusOK, 4},
		{"by kind", "?kind=ranked_choice", http.StatusOK, 3},
		{"kind with no runs", "?kind=weighted_ranked_choice", http.StatusOK, 0},
		{"limited", "?limit=2", http.StatusOK, 2},
		{"limit above max is clamped", "?limit=100000", http.StatusOK, 4},
		{"unknown kind", "?kind=borda", http.StatusBadRequest, 0},
		{"zero limit", "?limit=0", http.StatusBadRequest, 0},
		{"non-numeric limit", "?limit=ten", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/runs"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.ListRuns(w, req)

			testutil.AssertStatus(t, w, tt.expected)
			if tt.expected != http.StatusOK {
				return
			}

			var resp models.RunListResponse
			testutil.AssertJSON(t, w, &resp)

			if resp.Runs == nil {
				t.Fatal("Expected runs array, got null")
			}
			if len(resp.Runs) != tt.wantCount {
				t.Errorf("Expected %d runs, got %d", tt.wantCount, len(resp.Runs))
			}
		})
	}

	// Newest first
	req := httptest.NewRequest("GET", "/runs", nil)
	w := httptest.NewRecorder()
	handler.ListRuns(w, req)

	var resp models.RunListResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Runs[0].ID != newestRef {
		t.Errorf("Expected newest run %s first, got %s", newestRef, resp.Runs[0].ID)
	}
	for i := 1; i < len(resp.Runs); i++ {
		if resp.Runs[i].ComputedAt.After(resp.Runs[i-1].ComputedAt) {
			t.Errorf("Runs not ordered newest first at index %d", i)
		}
	}
}

func TestDeleteRun(t *testing.T) {
	handler := newTestRunsHandler(t)
	cfg := testutil.GetTestConfig()

	runID, adminKey := testutil.InsertTestRun(t, handler.db, cfg, models.KindReferendum, "", time.Now())

	// Warm the cache so deletion has something to evict
	w := httptest.NewRecorder()
	handler.GetRun(w, getRunRequest(runID))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.DeleteRun(w, deleteRunRequest(runID, adminKey))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	if handler.cache.Contains(runID) {
		t.Error("Expected deleted run to be evicted from the cache")
	}

	w = httptest.NewRecorder()
	handler.GetRun(w, getRunRequest(runID))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	// Second delete finds nothing
	w = httptest.NewRecorder()
	handler.DeleteRun(w, deleteRunRequest(runID, adminKey))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDeleteRun_Unauthorized(t *testing.T) {
	handler := newTestRunsHandler(t)
	cfg := testutil.GetTestConfig()

	runID, _ := testutil.InsertTestRun(t, handler.db, cfg, models.KindReferendum, "", time.Now())
	otherID, otherKey := testutil.InsertTestRun(t, handler.db, cfg, models.KindReferendum, "", time.Now())

	tests := []struct {
		name     string
		adminKey string
	}{
		{"missing key", ""},
		{"garbage key", "not-a-key"},
		{"another run's key", otherKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.DeleteRun(w, deleteRunRequest(runID, tt.adminKey))
			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}

	// Both runs survive
	for _, id := range []string{runID, otherID} {
		if _, err := db.GetRun(context.Background(), handler.db, id); err != nil {
			t.Errorf("Expected run %s to survive, got %v", id, err)
		}
	}
}

func TestDeleteRun_MalformedID(t *testing.T) {
	handler := newTestRunsHandler(t)

	w := httptest.NewRecorder()
	handler.DeleteRun(w, deleteRunRequest("1' OR '1'='1", "key"))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
