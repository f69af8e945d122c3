// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration
for the API server.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - RunRetention: Age after which stored runs are purged (default: 720h)
  - PurgeCron: Purge schedule, six fields with seconds (default: 0 0 3 * * *)
  - CacheSize: Stored runs kept in memory (default: 256)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-admin-salt   Admin key salt
	-retention    Run retention (Go duration)
	-purge-cron   Purge schedule
	-cache-size   Run cache size

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	ADMIN_KEY_SALT  → -admin-salt
	RUN_RETENTION   → -retention
	PURGE_CRON      → -purge-cron
	RUN_CACHE_SIZE  → -cache-size

CLI flags take precedence over environment variables. main loads a .env file
(if present) before parsing, so local settings can live there.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - ADMIN_KEY_SALT is missing
  - DATABASE_TYPE is not sqlite or postgres
  - a numeric or duration value does not parse, or is not positive
*/
package cliparse
