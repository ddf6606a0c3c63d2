package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultListenAddr = ":8080"

	DefaultBaseURL        = "https://api.coingecko.com/api/v3"
	DefaultVsCurrency     = "usd"
	DefaultMinInterval    = 3000 * time.Millisecond
	DefaultMarketsTimeout = 15 * time.Second
	DefaultChartTimeout   = 20 * time.Second
	DefaultRetryLimit     = 30
	DefaultBackoffStep    = 500 * time.Millisecond
	DefaultBackoffCap     = 8 * time.Second
	DefaultBackoffJitter  = 300 * time.Millisecond

	DefaultSnapshotTTL = 15 * time.Minute
	DefaultPairTTL     = 60 * time.Second
	DefaultPageSize    = 250
	DefaultPacingMin   = 1500 * time.Millisecond
	DefaultPacingMax   = 3500 * time.Millisecond

	DefaultDrainInterval   = 15 * time.Second
	DefaultMaxAttempts     = 30
	DefaultPrewarmInterval = 30 * time.Minute

	DefaultSweepInterval = 1 * time.Hour

	DefaultLogLevel = "info"
)

// Default returns a configuration with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}

	// Upstream defaults
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultBaseURL
	}
	if c.Upstream.VsCurrency == "" {
		c.Upstream.VsCurrency = DefaultVsCurrency
	}
	if c.Upstream.MinInterval == 0 {
		c.Upstream.MinInterval = DefaultMinInterval
	}
	if c.Upstream.MarketsTimeout == 0 {
		c.Upstream.MarketsTimeout = DefaultMarketsTimeout
	}
	if c.Upstream.ChartTimeout == 0 {
		c.Upstream.ChartTimeout = DefaultChartTimeout
	}
	if c.Upstream.RetryLimit == 0 {
		c.Upstream.RetryLimit = DefaultRetryLimit
	}
	if c.Upstream.BackoffStep == 0 {
		c.Upstream.BackoffStep = DefaultBackoffStep
	}
	if c.Upstream.BackoffCap == 0 {
		c.Upstream.BackoffCap = DefaultBackoffCap
	}
	if c.Upstream.BackoffJitter == 0 {
		c.Upstream.BackoffJitter = DefaultBackoffJitter
	}

	// Cache defaults
	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = DefaultSnapshotTTL
	}
	if c.Cache.PairTTL == 0 {
		c.Cache.PairTTL = DefaultPairTTL
	}
	if c.Cache.PageSize == 0 {
		c.Cache.PageSize = DefaultPageSize
	}
	if c.Cache.PacingMin == 0 {
		c.Cache.PacingMin = DefaultPacingMin
	}
	if c.Cache.PacingMax == 0 {
		c.Cache.PacingMax = DefaultPacingMax
	}

	// Reconcile defaults
	if c.Reconcile.DrainInterval == 0 {
		c.Reconcile.DrainInterval = DefaultDrainInterval
	}
	if c.Reconcile.MaxAttempts == 0 {
		c.Reconcile.MaxAttempts = DefaultMaxAttempts
	}
	if c.Reconcile.PrewarmInterval == 0 {
		c.Reconcile.PrewarmInterval = DefaultPrewarmInterval
	}

	// Preload defaults
	if c.Preload.SweepInterval == 0 {
		c.Preload.SweepInterval = DefaultSweepInterval
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
