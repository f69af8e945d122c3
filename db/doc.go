// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation, and stored runs.

# Connections

Open selects the driver from the database type and pings the server:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - postgres: github.com/lib/pq
  - sqlite: modernc.org/sqlite (pure Go, WAL mode, single connection)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election_run: one immutable row per computed election

Columns: id, kind, label, inputs_hash, computed_at (Unix milliseconds), and
payload (JSON with the run's inputs and outputs; JSONB on postgres).

# Indexes

  - election_run.computed_at (listing and retention)
  - election_run.kind
  - election_run.inputs_hash

# Runs

	err := db.InsertRun(ctx, conn, run)
	run, err := db.GetRun(ctx, conn, id)           // ErrRunNotFound if missing
	runs, err := db.ListRuns(ctx, conn, kind, 50)  // newest first
	err := db.DeleteRun(ctx, conn, id)
	ids, err := db.DeleteRunsBefore(ctx, conn, cutoff)

Queries use $N placeholders, which both drivers accept.
*/
package db
