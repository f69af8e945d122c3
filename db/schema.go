// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the database and verifies the connection.
// Both drivers register under the same names as the database types.
func Open(dbType, url string) (*sql.DB, error) {
	if dbType != TypeSQLite && dbType != TypePostgres {
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}

	if dbType == TypeSQLite {
		// SQLite allows one writer; a single connection also keeps
		// in-memory databases from splitting across connections.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set WAL mode: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dbType, err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dbType string) error {
	stmts := postgresSchema
	if dbType == TypeSQLite {
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

var sharedIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_election_run_computed_at ON election_run(computed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_election_run_kind ON election_run(kind)`,
	`CREATE INDEX IF NOT EXISTS idx_election_run_inputs_hash ON election_run(inputs_hash)`,
}

// computed_at holds Unix milliseconds so both dialects store it the same way
var postgresSchema = append([]string{`
CREATE TABLE IF NOT EXISTS election_run (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('ranked_choice', 'weighted_ranked_choice', 'referendum')),
    label TEXT NOT NULL DEFAULT '',
    inputs_hash TEXT NOT NULL,
    computed_at BIGINT NOT NULL,
    payload JSONB NOT NULL
)`}, sharedIndexes...)

var sqliteSchema = append([]string{`
CREATE TABLE IF NOT EXISTS election_run (
    id TEXT PRIMARY KEY,
    kind TEXT NOT NULL CHECK (kind IN ('ranked_choice', 'weighted_ranked_choice', 'referendum')),
    label TEXT NOT NULL DEFAULT '',
    inputs_hash TEXT NOT NULL,
    computed_at INTEGER NOT NULL,
    payload TEXT NOT NULL
)`}, sharedIndexes...)
