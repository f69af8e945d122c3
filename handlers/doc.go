// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Tally API.

# Handler Types

  - ElectionHandler: weights, ranked-choice and referendum computations
  - RunsHandler: stored run retrieval, listing and deletion
  - ScenarioHandler: one-off evaluation of YAML scenarios

Handlers are created via constructor functions that accept *sql.DB and Config:

	electionHandler := handlers.NewElectionHandler(db, cfg)
	runsHandler, err := handlers.NewRunsHandler(db, cfg)

# Computations

	POST /weights             → CalculateWeights (not stored)
	POST /elections           → RunRankedChoice
	POST /elections/weighted  → RunWeightedRankedChoice
	POST /referendums         → RunReferendum
	POST /scenarios           → RunScenario (YAML body, not stored)

Every stored computation returns a run_id, an admin_key and the SHA-256
inputs_hash of its inputs (label excluded). Identical inputs always produce
identical results, so equal hashes mean equal outcomes.

# Stored Runs

	GET    /runs?kind=&limit=  → ListRuns (newest first, limit ≤ 500)
	GET    /runs/{id}          → GetRun
	DELETE /runs/{id}          → DeleteRun

Deletion requires the X-Admin-Key header. Runs never change after they are
written, so RunsHandler keeps an LRU cache of recently read runs; anything
that deletes runs outside the handler must call Evict.
*/
package handlers
