package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return errors.New("server.listen_addr is required")
	}

	if c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}
	if c.Upstream.MinInterval <= 0 {
		return errors.New("upstream.min_interval must be positive")
	}
	if c.Upstream.MarketsTimeout <= 0 {
		return errors.New("upstream.markets_timeout must be positive")
	}
	if c.Upstream.ChartTimeout <= 0 {
		return errors.New("upstream.chart_timeout must be positive")
	}
	if c.Upstream.RetryLimit < 1 {
		return errors.New("upstream.retry_limit must be >= 1")
	}
	if c.Upstream.BackoffStep <= 0 {
		return errors.New("upstream.backoff_step must be positive")
	}
	if c.Upstream.BackoffCap < c.Upstream.BackoffStep {
		return fmt.Errorf("upstream.backoff_cap (%v) cannot be below backoff_step (%v)",
			c.Upstream.BackoffCap, c.Upstream.BackoffStep)
	}
	if c.Upstream.BackoffJitter < 0 {
		return errors.New("upstream.backoff_jitter must be >= 0")
	}

	if c.Cache.SnapshotTTL <= 0 {
		return errors.New("cache.snapshot_ttl must be positive")
	}
	if c.Cache.PairTTL <= 0 {
		return errors.New("cache.pair_ttl must be positive")
	}
	if c.Cache.PageSize < 1 || c.Cache.PageSize > 250 {
		return fmt.Errorf("cache.page_size must be between 1 and 250, got %d", c.Cache.PageSize)
	}
	if c.Cache.PacingMin < 0 {
		return errors.New("cache.pacing_min must be >= 0")
	}
	if c.Cache.PacingMin > c.Cache.PacingMax {
		return fmt.Errorf("cache.pacing_min (%v) cannot exceed pacing_max (%v)",
			c.Cache.PacingMin, c.Cache.PacingMax)
	}

	if c.Reconcile.DrainInterval <= 0 {
		return errors.New("reconcile.drain_interval must be positive")
	}
	if c.Reconcile.MaxAttempts < 1 {
		return errors.New("reconcile.max_attempts must be >= 1")
	}
	if c.Reconcile.PrewarmInterval <= 0 {
		return errors.New("reconcile.prewarm_interval must be positive")
	}
	for i, pair := range c.Reconcile.PrewarmPairs {
		if len(pair) != 2 || pair[0] == "" || pair[1] == "" {
			return fmt.Errorf("reconcile.prewarm_pairs[%d] must name exactly two coins", i)
		}
	}

	if c.Preload.SweepInterval <= 0 {
		return errors.New("preload.sweep_interval must be positive")
	}
	for i, id := range c.Preload.IDs {
		if id == "" {
			return fmt.Errorf("preload.ids[%d] must not be empty", i)
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}
