// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-tally/auth"
	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/models"
)

// TestDBURL opens a private in-memory SQLite database per call
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn, db.TypeSQLite); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		AdminKeySalt: "test-admin-salt",
		RunRetention: time.Hour,
		PurgeCron:    cliparse.DefaultPurgeCron,
		CacheSize:    16,
	}
}

// InsertTestRun stores a run computed at the given time and returns its ID
// and admin key
func InsertTestRun(t *testing.T, conn *sql.DB, cfg cliparse.Config, kind, label string, computedAt time.Time) (runID, adminKey string) {
	t.Helper()

	runID = auth.NewRunID()
	err := db.InsertRun(context.Background(), conn, models.Run{
		ID:         runID,
		Kind:       kind,
		Label:      label,
		InputsHash: "test-hash",
		ComputedAt: computedAt,
		Payload:    json.RawMessage(`{"inputs":{},"outputs":{}}`),
	})
	if err != nil {
		t.Fatalf("Failed to insert test run: %v", err)
	}

	return runID, auth.GenerateAdminKey(runID, cfg.AdminKeySalt)
}

// SampleProfiles returns three voters with hand-checkable weights under
// SampleCoefficients and SampleBounds: alice 0.74, bob 0.46, carol 0.825
func SampleProfiles() []models.VoterProfile {
	return []models.VoterProfile{
		{ID: "alice", E: 8, P: 50, D: 7, A: 9, S: 100},
		{ID: "bob", E: 5, P: 20, D: 6, A: 4, S: 50},
		{ID: "carol", E: 9, P: 80, D: 8, A: 8, S: 75},
	}
}

func SampleCoefficients() models.WeightCoefficients {
	return models.WeightCoefficients{WE: 0.3, WP: 0.2, WD: 0.3, WA: 0.1, WS: 0.1}
}

func SampleBounds() models.Bounds {
	return models.Bounds{
		Min: models.VoterProfile{},
		Max: models.VoterProfile{E: 10, P: 100, D: 10, A: 10, S: 100},
	}
}

// SampleCandidates and SampleBallots elect A in the second round after B
// is eliminated
func SampleCandidates() []models.Candidate {
	return []models.Candidate{
		{ID: "A", Name: "Alpha"},
		{ID: "B", Name: "Bravo"},
		{ID: "C", Name: "Charlie"},
	}
}

func SampleBallots() []models.Ballot {
	return []models.Ballot{
		{"A", "B"},
		{"A", "C"},
		{"B", "A"},
		{"C", "B"},
		{"C", "A"},
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
