package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
server:
  listen_addr: ":9090"
upstream:
  base_url: https://api.coingecko.com/api/v3
  min_interval: 3s
  retry_limit: 5
cache:
  snapshot_ttl: 5m
  page_size: 100
reconcile:
  prewarm_pairs:
    - [bitcoin, ethereum]
    - [solana, cardano]
preload:
  ids: [bitcoin, ethereum, solana]
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("Server.ListenAddr = %q, want %q", cfg.Server.ListenAddr, ":9090")
	}
	if cfg.Upstream.MinInterval != 3*time.Second {
		t.Errorf("Upstream.MinInterval = %v, want %v", cfg.Upstream.MinInterval, 3*time.Second)
	}
	if cfg.Upstream.RetryLimit != 5 {
		t.Errorf("Upstream.RetryLimit = %d, want 5", cfg.Upstream.RetryLimit)
	}
	if cfg.Cache.SnapshotTTL != 5*time.Minute {
		t.Errorf("Cache.SnapshotTTL = %v, want %v", cfg.Cache.SnapshotTTL, 5*time.Minute)
	}
	if len(cfg.Reconcile.PrewarmPairs) != 2 {
		t.Fatalf("PrewarmPairs = %d entries, want 2", len(cfg.Reconcile.PrewarmPairs))
	}
	if cfg.Reconcile.PrewarmPairs[0][0] != "bitcoin" || cfg.Reconcile.PrewarmPairs[0][1] != "ethereum" {
		t.Errorf("PrewarmPairs[0] = %v, want [bitcoin ethereum]", cfg.Reconcile.PrewarmPairs[0])
	}
	if len(cfg.Preload.IDs) != 3 {
		t.Errorf("Preload.IDs = %d entries, want 3", len(cfg.Preload.IDs))
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_CG_API_KEY", "demo-key-123")

	yaml := `
upstream:
  api_key: ${TEST_CG_API_KEY}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Upstream.APIKey != "demo-key-123" {
		t.Errorf("Upstream.APIKey = %q, want %q", cfg.Upstream.APIKey, "demo-key-123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
server:
  listen_addr: ":9090"
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("Server.ListenAddr = %q, want the configured %q", cfg.Server.ListenAddr, ":9090")
	}
	if cfg.Upstream.BaseURL != DefaultBaseURL {
		t.Errorf("Upstream.BaseURL = %q, want default %q", cfg.Upstream.BaseURL, DefaultBaseURL)
	}
	if cfg.Upstream.MinInterval != DefaultMinInterval {
		t.Errorf("Upstream.MinInterval = %v, want default %v", cfg.Upstream.MinInterval, DefaultMinInterval)
	}
	if cfg.Upstream.RetryLimit != DefaultRetryLimit {
		t.Errorf("Upstream.RetryLimit = %d, want default %d", cfg.Upstream.RetryLimit, DefaultRetryLimit)
	}
	if cfg.Cache.SnapshotTTL != DefaultSnapshotTTL {
		t.Errorf("Cache.SnapshotTTL = %v, want default %v", cfg.Cache.SnapshotTTL, DefaultSnapshotTTL)
	}
	if cfg.Cache.PageSize != DefaultPageSize {
		t.Errorf("Cache.PageSize = %d, want default %d", cfg.Cache.PageSize, DefaultPageSize)
	}
	if cfg.Reconcile.DrainInterval != DefaultDrainInterval {
		t.Errorf("Reconcile.DrainInterval = %v, want default %v", cfg.Reconcile.DrainInterval, DefaultDrainInterval)
	}
	if cfg.Preload.SweepInterval != DefaultSweepInterval {
		t.Errorf("Preload.SweepInterval = %v, want default %v", cfg.Preload.SweepInterval, DefaultSweepInterval)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, DefaultLogLevel)
	}
}

func TestLoadAndValidate_MissingFile(t *testing.T) {
	cfg, err := LoadAndValidate(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Upstream.BaseURL != DefaultBaseURL {
		t.Errorf("Upstream.BaseURL = %q, want default %q", cfg.Upstream.BaseURL, DefaultBaseURL)
	}
	if cfg.Cache.PairTTL != DefaultPairTTL {
		t.Errorf("Cache.PairTTL = %v, want default %v", cfg.Cache.PairTTL, DefaultPairTTL)
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing listen addr",
			mutate:  func(c *Config) { c.Server.ListenAddr = "" },
			wantErr: "server.listen_addr is required",
		},
		{
			name:    "negative min interval",
			mutate:  func(c *Config) { c.Upstream.MinInterval = -time.Second },
			wantErr: "upstream.min_interval must be positive",
		},
		{
			name:    "negative retry limit",
			mutate:  func(c *Config) { c.Upstream.RetryLimit = -1 },
			wantErr: "upstream.retry_limit must be >= 1",
		},
		{
			name:    "backoff cap below step",
			mutate:  func(c *Config) { c.Upstream.BackoffCap = 100 * time.Millisecond },
			wantErr: "upstream.backoff_cap (100ms) cannot be below backoff_step (500ms)",
		},
		{
			name:    "page size too large",
			mutate:  func(c *Config) { c.Cache.PageSize = 500 },
			wantErr: "cache.page_size must be between 1 and 250, got 500",
		},
		{
			name:    "pacing min exceeds max",
			mutate:  func(c *Config) { c.Cache.PacingMin = 5 * time.Second },
			wantErr: "cache.pacing_min (5s) cannot exceed pacing_max (3.5s)",
		},
		{
			name:    "one-sided prewarm pair",
			mutate:  func(c *Config) { c.Reconcile.PrewarmPairs = [][]string{{"bitcoin"}} },
			wantErr: "reconcile.prewarm_pairs[0] must name exactly two coins",
		},
		{
			name:    "empty preload id",
			mutate:  func(c *Config) { c.Preload.IDs = []string{"bitcoin", ""} },
			wantErr: "preload.ids[1] must not be empty",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: `log.level must be one of debug, info, warn, error, got "verbose"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
