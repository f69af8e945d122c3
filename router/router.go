// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/handlers"
	"github.com/danielhkuo/quickly-tally/middleware"
)

// NewRouter registers every endpoint. runsHandler is passed in rather than
// built here because its cache is shared with the retention purger.
func NewRouter(db *sql.DB, cfg cliparse.Config, runsHandler *handlers.RunsHandler) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	scenarioHandler := handlers.NewScenarioHandler()

	// Health check
	mux.HandleFunc("GET /health", middleware.WithLogging(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))

	// Computations
	mux.HandleFunc("POST /weights", middleware.WithLogging(electionHandler.CalculateWeights))
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.RunRankedChoice))
	mux.HandleFunc("POST /elections/weighted", middleware.WithLogging(electionHandler.RunWeightedRankedChoice))
	mux.HandleFunc("POST /referendums", middleware.WithLogging(electionHandler.RunReferendum))
	mux.HandleFunc("POST /scenarios", middleware.WithLogging(scenarioHandler.RunScenario))

	// Stored runs
	mux.HandleFunc("GET /runs", middleware.WithLogging(runsHandler.ListRuns))
	mux.HandleFunc("GET /runs/{id}", middleware.WithLogging(runsHandler.GetRun))
	mux.HandleFunc("DELETE /runs/{id}", middleware.WithLogging(runsHandler.DeleteRun))

	// Root endpoint
	mux.HandleFunc("GET /{$}", middleware.WithLogging(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-tally API v1"))
	}))

	return mux
}
