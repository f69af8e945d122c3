// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPort         = 3318
	DefaultDatabaseType = "sqlite"
	DefaultRetention    = 30 * 24 * time.Hour
	DefaultPurgeCron    = "0 0 3 * * *" // daily at 03:00, seconds field first
	DefaultCacheSize    = 256
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string
	RunRetention time.Duration
	PurgeCron    string
	CacheSize    int
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-tally", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	// Run housekeeping
	fs.DurationVar(&cfg.RunRetention, "retention", 0, "How long stored runs are kept")
	fs.StringVar(&cfg.PurgeCron, "purge-cron", "", "Cron schedule (with seconds) for purging old runs")
	fs.IntVar(&cfg.CacheSize, "cache-size", 0, "Number of runs kept in the lookup cache")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DefaultDatabaseType
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (want sqlite or postgres)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.RunRetention == 0 {
		if v := os.Getenv("RUN_RETENTION"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid RUN_RETENTION env variable")
			}
			cfg.RunRetention = d
		} else {
			cfg.RunRetention = DefaultRetention
		}
	}
	if cfg.RunRetention < 0 {
		return Config{}, errors.New("retention must be positive")
	}

	if cfg.PurgeCron == "" {
		cfg.PurgeCron = os.Getenv("PURGE_CRON")
		if cfg.PurgeCron == "" {
			cfg.PurgeCron = DefaultPurgeCron
		}
	}

	if cfg.CacheSize == 0 {
		if v := os.Getenv("RUN_CACHE_SIZE"); v != "" {
			size, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid RUN_CACHE_SIZE env variable")
			}
			cfg.CacheSize = size
		} else {
			cfg.CacheSize = DefaultCacheSize
		}
	}
	if cfg.CacheSize <= 0 {
		return Config{}, errors.New("cache size must be positive")
	}

	return cfg, nil
}
