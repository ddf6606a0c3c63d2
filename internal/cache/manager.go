package cache

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mlachev/coinsync/internal/model"
	"github.com/mlachev/coinsync/internal/reconcile"
)

// Singleflight key namespaces. Pair and history refreshes share one group but
// never collide.
const (
	flightSnapshot      = "snapshot"
	flightPairPrefix    = "pair:"
	flightHistoryPrefix = "history:"
)

// MarketSource is the upstream the manager refreshes from. *gecko.Client
// implements it; tests substitute fakes.
type MarketSource interface {
	Markets(ctx context.Context) ([]model.SnapshotRow, error)
	MarketChart(ctx context.Context, id string) (model.Series, error)
}

// Config holds cache manager configuration.
type Config struct {
	SnapshotTTL time.Duration
	PairTTL     time.Duration

	// PacingMin and PacingMax bound the randomized delay inserted between
	// the two series fetches of a pair refresh. This spacing is deliberate
	// and additional to the transport's own interval.
	PacingMin time.Duration
	PacingMax time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SnapshotTTL: 15 * time.Minute,
		PairTTL:     60 * time.Second,
		PacingMin:   1500 * time.Millisecond,
		PacingMax:   3500 * time.Millisecond,
	}
}

// Manager coordinates cached reads and deduplicated refreshes. All state is
// in memory; a restart is an empty-cache cold start.
type Manager struct {
	cfg    Config
	src    MarketSource
	logger *slog.Logger
	queue  *reconcile.TaskQueue

	state   *cacheState
	flights singleflight.Group

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// Option configures a Manager.
type Option func(*Manager)

// WithQueue attaches the reconciliation queue that failed pair refreshes
// enqueue into. Without a queue, total pair failures are logged and dropped.
func WithQueue(q *reconcile.TaskQueue) Option {
	return func(m *Manager) { m.queue = q }
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSleep replaces the pacing sleep, for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration)) Option {
	return func(m *Manager) { m.sleep = sleep }
}

// NewManager creates a cache manager over the given upstream source.
func NewManager(cfg Config, src MarketSource, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		cfg:    cfg,
		src:    src,
		logger: logger,
		state:  newState(),
		now:    time.Now,
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Health reports whether a market snapshot exists and how old it is.
// Read-only, no side effects.
func (m *Manager) Health() model.Health {
	snap := m.state.getSnapshot()
	if snap == nil {
		return model.Health{}
	}
	return model.Health{
		CacheReady:      true,
		CacheAgeSeconds: int64(m.now().Sub(snap.FetchedAt).Seconds()),
	}
}

// Stats returns a point-in-time view of cache contents and traffic counters.
func (m *Manager) Stats() Stats {
	return m.state.stats(m.now())
}

// Stats describes cache contents and degradation counters.
type Stats struct {
	SnapshotReady       bool  `json:"snapshot_ready"`
	SnapshotAgeSeconds  int64 `json:"snapshot_age_seconds"`
	SnapshotRows        int   `json:"snapshot_rows"`
	SnapshotRefreshes   int64 `json:"snapshot_refreshes"`
	StaleSnapshotServes int64 `json:"stale_snapshot_serves"`
	PairEntries         int   `json:"pair_entries"`
	PairRefreshes       int64 `json:"pair_refreshes"`
	StalePairServes     int64 `json:"stale_pair_serves"`
	Placeholders        int64 `json:"placeholders"`
	HistoryEntries      int   `json:"history_entries"`
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
