// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package retention removes stored runs once they age past RUN_RETENTION.

	purger := retention.NewPurger(conn, cfg, runsHandler.Evict)
	if err := purger.Start(); err != nil {
		log.Fatal(err)
	}
	defer purger.Stop()

The schedule is cfg.PurgeCron, a six-field cron expression with a leading
seconds field (robfig/cron WithSeconds). PurgeNow runs one pass
synchronously.
*/
package retention
