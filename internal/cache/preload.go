package cache

import (
	"context"
	"strings"

	"github.com/mlachev/coinsync/internal/model"
)

// History returns the full-year price history for one coin. A non-empty
// cached entry is returned as is regardless of age; freshness is the
// sweeper's job. On a miss the series is fetched, filtered, and stored.
// Never returns an error: a failed fetch yields nil and the next call
// tries again.
func (m *Manager) History(id string) *model.CoinHistory {
	id = strings.ToLower(id)

	if h := m.state.getHistory(id); h != nil && len(h.Prices) > 0 {
		return h
	}

	v, _, _ := m.flights.Do(flightHistoryPrefix+id, func() (any, error) {
		if h := m.state.getHistory(id); h != nil && len(h.Prices) > 0 {
			return h, nil
		}
		return m.refreshHistory(context.Background(), id), nil
	})
	h, _ := v.(*model.CoinHistory)
	return h
}

// refreshHistory fetches and stores one coin's series. Returns nil on fetch
// failure. An empty fetched series is still stored, but History treats it as
// absent so a later request retries.
func (m *Manager) refreshHistory(ctx context.Context, id string) *model.CoinHistory {
	series, err := m.src.MarketChart(ctx, id)
	if err != nil {
		m.logger.Warn("history refresh failed", "coin", id, "error", err)
		return nil
	}

	h := &model.CoinHistory{
		ID:        id,
		Name:      m.displayName(id),
		Prices:    series,
		FetchedAt: m.now(),
	}
	m.state.setHistory(h)

	m.logger.Debug("coin history refreshed", "coin", id, "points", len(series))
	return h
}

// displayName resolves a human name from the current snapshot, falling back
// to the id when the coin is not in it.
func (m *Manager) displayName(id string) string {
	snap := m.state.getSnapshot()
	if snap == nil {
		return id
	}
	for _, row := range snap.Rows {
		if row.ID == id && row.Name != "" {
			return row.Name
		}
	}
	return id
}
