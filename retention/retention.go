// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package retention

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
)

// purgeTimeout bounds a single scheduled pass
const purgeTimeout = time.Minute

// Purger deletes stored runs older than the retention window on a cron
// schedule
type Purger struct {
	db        *sql.DB
	retention time.Duration
	schedule  string
	evict     func(ids ...string)
	cron      *cron.Cron
	now       func() time.Time
}

// NewPurger creates a Purger. evict is called with the IDs of every purged
// run so caches can drop them; it may be nil.
func NewPurger(db *sql.DB, cfg cliparse.Config, evict func(ids ...string)) *Purger {
	return &Purger{
		db:        db,
		retention: cfg.RunRetention,
		schedule:  cfg.PurgeCron,
		evict:     evict,
		cron:      cron.New(cron.WithSeconds()),
		now:       time.Now,
	}
}

// Start registers the purge job and starts the scheduler
func (p *Purger) Start() error {
	if _, err := p.cron.AddFunc(p.schedule, p.scheduledPurge); err != nil {
		return fmt.Errorf("register purge job: %w", err)
	}
	p.cron.Start()
	slog.Info("retention purger started", "schedule", p.schedule, "retention", p.retention.String())
	return nil
}

// Stop stops the scheduler and waits for a running purge to finish
func (p *Purger) Stop() {
	<-p.cron.Stop().Done()
	slog.Info("retention purger stopped")
}

// PurgeNow deletes every run computed before now minus the retention window
// and returns how many were removed
func (p *Purger) PurgeNow(ctx context.Context) (int, error) {
	cutoff := p.now().Add(-p.retention)

	ids, err := db.DeleteRunsBefore(ctx, p.db, cutoff)
	if err != nil {
		return 0, err
	}
	if p.evict != nil && len(ids) > 0 {
		p.evict(ids...)
	}
	return len(ids), nil
}

func (p *Purger) scheduledPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	n, err := p.PurgeNow(ctx)
	if err != nil {
		slog.Error("run purge failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("purged expired runs", "count", n, "retention", p.retention.String())
	}
}
