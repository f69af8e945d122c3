// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Tally API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	runsHandler, err := handlers.NewRunsHandler(db, cfg)
	mux := router.NewRouter(db, cfg, runsHandler)

The runs handler is built by the caller so the retention purger can evict
deleted runs from the same cache.

# Endpoints

Health:

	GET /health

Computations:

	POST /weights            - Voter weights only
	POST /elections          - Instant-runoff election
	POST /elections/weighted - Instant-runoff with voter weights
	POST /referendums        - Weighted yes/no vote
	POST /scenarios          - Evaluate a YAML scenario

Stored runs:

	GET    /runs       - List (kind, limit query params)
	GET    /runs/{id}  - Fetch one
	DELETE /runs/{id}  - Delete (requires X-Admin-Key)

All routes except health and root go through middleware.WithLogging.
*/
package router
