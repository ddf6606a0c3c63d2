package config

import "time"

// Config is the root configuration for a coinsyncd instance.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Cache     CacheConfig     `yaml:"cache"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Preload   PreloadConfig   `yaml:"preload"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// UpstreamConfig holds CoinGecko client settings.
type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url"`
	APIKey         string        `yaml:"api_key"` // demo key, sent as a header when set
	VsCurrency     string        `yaml:"vs_currency"`
	MinInterval    time.Duration `yaml:"min_interval"` // minimum spacing between upstream calls
	MarketsTimeout time.Duration `yaml:"markets_timeout"`
	ChartTimeout   time.Duration `yaml:"chart_timeout"`
	RetryLimit     int           `yaml:"retry_limit"`
	BackoffStep    time.Duration `yaml:"backoff_step"`
	BackoffCap     time.Duration `yaml:"backoff_cap"`
	BackoffJitter  time.Duration `yaml:"backoff_jitter"`
}

// CacheConfig holds cache TTLs and pair-fetch pacing.
type CacheConfig struct {
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
	PairTTL     time.Duration `yaml:"pair_ttl"`
	PageSize    int           `yaml:"page_size"` // market list page size, CoinGecko caps at 250
	PacingMin   time.Duration `yaml:"pacing_min"`
	PacingMax   time.Duration `yaml:"pacing_max"`
}

// ReconcileConfig holds queue worker and prewarm scheduler settings.
type ReconcileConfig struct {
	DrainInterval   time.Duration `yaml:"drain_interval"`
	MaxAttempts     int           `yaml:"max_attempts"`
	PrewarmInterval time.Duration `yaml:"prewarm_interval"`
	PrewarmPairs    [][]string    `yaml:"prewarm_pairs"` // each entry is [coin1, coin2]
}

// PreloadConfig holds preload sweeper settings.
type PreloadConfig struct {
	IDs           []string      `yaml:"ids"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, or error
}
