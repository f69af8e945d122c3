// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Tally API server.

Quickly Tally computes weighted elections: voter weights from five
attributes, weighted yes/no referendums, and instant-runoff ranked-choice
elections (optionally weighted per voter). Every computation is stored as
an immutable run that can be fetched again later.

# Starting the Server

Configuration comes from CLI flags, then environment variables, then a
.env file in the working directory:

	DATABASE_URL=tally.db ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - RUN_RETENTION (-retention): How long runs are kept (default: 720h)
  - PURGE_CRON (-purge-cron): Purge schedule with seconds (default: 0 0 3 * * *)
  - RUN_CACHE_SIZE (-cache-size): Runs kept in the lookup cache (default: 256)

# Architecture

  - tally: Weighting, referendum and instant-runoff engines
  - handlers: HTTP request handlers (elections, runs, scenarios)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, request IDs, logging, JSON helpers
  - models: Domain, request and response types
  - auth: Run IDs, admin keys, input hashing
  - db: Connections, schema and run storage
  - retention: Scheduled purge of expired runs
  - scenario, report: YAML scenarios and their console rendering
  - cliparse: Configuration parsing

The offline command in cmd/tally evaluates scenario files without a server.
*/
package main
