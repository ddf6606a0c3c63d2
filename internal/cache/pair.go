package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mlachev/coinsync/internal/model"
	"github.com/mlachev/coinsync/internal/reconcile"
	"github.com/mlachev/coinsync/internal/timeframe"
)

// pairKey canonicalizes an unordered coin pair: lower-cased, sorted, joined.
// The separator cannot appear in a CoinGecko slug, so distinct pairs never
// collide.
func pairKey(id1, id2 string) string {
	a := strings.ToLower(id1)
	b := strings.ToLower(id2)
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// Comparison returns the aligned two-series comparison for a coin pair. It
// never fails: the result is fresh, stale, partial, or a placeholder, with
// Warning set whenever the data is degraded. Argument order does not affect
// which cache entry is used.
func (m *Manager) Comparison(id1, id2 string) *model.PairResult {
	id1 = strings.ToLower(id1)
	id2 = strings.ToLower(id2)
	key := pairKey(id1, id2)

	if res := m.freshPair(key); res != nil {
		return res
	}

	v, _, _ := m.flights.Do(flightPairPrefix+key, func() (any, error) {
		if res := m.freshPair(key); res != nil {
			return res, nil
		}
		return m.refreshPair(id1, id2, key), nil
	})
	return v.(*model.PairResult)
}

// freshPair returns the cached result for key only while it is within TTL.
func (m *Manager) freshPair(key string) *model.PairResult {
	entry, ok := m.state.getPair(key)
	if !ok {
		return nil
	}
	if m.now().Sub(entry.cachedAt) >= m.cfg.PairTTL {
		return nil
	}
	return entry.result
}

// refreshPair fetches both series in order with a randomized pause between
// them. The two fetches fail independently; one failure degrades the result
// to a single series, both failing hands off to the degraded path.
func (m *Manager) refreshPair(id1, id2, key string) *model.PairResult {
	ctx := context.Background()

	series1, err1 := m.src.MarketChart(ctx, id1)
	m.pause(ctx)
	series2, err2 := m.src.MarketChart(ctx, id2)

	if err1 != nil && err2 != nil {
		m.logger.Warn("pair refresh failed for both coins",
			"coin1", id1, "coin2", id2, "error1", err1, "error2", err2)
		return m.degradedPair(id1, id2, key)
	}

	result := m.buildPair(id1, id2, series1, err1, series2, err2)
	m.state.setPair(key, result, m.now())
	return result
}

// buildPair assembles a result from at most one failed fetch. Both series
// present: align and return clean. One absent: keep the other unaligned,
// name the failed coin in the warning.
func (m *Manager) buildPair(id1, id2 string, s1 model.Series, err1 error, s2 model.Series, err2 error) *model.PairResult {
	result := &model.PairResult{Coin1: id1, Coin2: id2}

	switch {
	case err1 == nil && err2 == nil:
		a, b := timeframe.Align(s1, s2)
		result.Data = []model.NamedSeries{
			{Name: id1, Prices: a},
			{Name: id2, Prices: b},
		}
	case err1 != nil:
		m.logger.Warn("pair refresh degraded to single series",
			"failed", id1, "error", err1)
		result.Data = []model.NamedSeries{
			{Name: id1, Prices: model.Series{}},
			{Name: id2, Prices: s2},
		}
		result.Warning = fmt.Sprintf("no data available for %s", id1)
	default:
		m.logger.Warn("pair refresh degraded to single series",
			"failed", id2, "error", err2)
		result.Data = []model.NamedSeries{
			{Name: id1, Prices: s1},
			{Name: id2, Prices: model.Series{}},
		}
		result.Warning = fmt.Sprintf("no data available for %s", id2)
	}
	return result
}

// degradedPair handles a refresh where both fetches failed: serve a stale
// copy of the previous entry when one exists, otherwise enqueue exactly one
// reconciliation task and return an empty placeholder. Neither outcome is
// written back to the cache.
func (m *Manager) degradedPair(id1, id2, key string) *model.PairResult {
	if entry, ok := m.state.getPair(key); ok {
		m.state.recordStalePair()
		age := m.now().Sub(entry.cachedAt)
		m.logger.Warn("serving stale pair entry", "key", key, "age", age)

		stale := *entry.result
		stale.Warning = "serving cached data after upstream failure"
		return &stale
	}

	m.enqueueReconcile(id1, id2)
	m.state.recordPlaceholder()
	return &model.PairResult{
		Coin1: id1,
		Coin2: id2,
		Data: []model.NamedSeries{
			{Name: id1, Prices: model.Series{}},
			{Name: id2, Prices: model.Series{}},
		},
		Warning: "data temporarily unavailable, retry scheduled",
	}
}

func (m *Manager) enqueueReconcile(id1, id2 string) {
	if m.queue == nil {
		m.logger.Warn("no reconciliation queue attached, dropping pair",
			"coin1", id1, "coin2", id2)
		return
	}

	task := reconcile.NewTask(id1, id2)
	m.queue.Push(task)
	m.logger.Info("reconciliation task enqueued",
		"task_id", task.ID, "coin1", id1, "coin2", id2)
}

// pause sleeps for a uniformly random duration in [PacingMin, PacingMax].
func (m *Manager) pause(ctx context.Context) {
	d := m.cfg.PacingMin
	if span := m.cfg.PacingMax - m.cfg.PacingMin; span > 0 {
		d += rand.N(span)
	}
	m.sleep(ctx, d)
}
