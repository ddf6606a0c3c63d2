package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/mlachev/coinsync/internal/model"
)

// Snapshot returns the full-market snapshot, refreshing it when forced or
// when the cached one has expired. Concurrent refreshes collapse into one
// upstream call whose result every caller shares. A failed refresh serves
// the previous snapshot if one exists; the error return is reserved for a
// total failure with an empty cache.
func (m *Manager) Snapshot(force bool) (*model.Snapshot, error) {
	if !force {
		if snap := m.freshSnapshot(); snap != nil {
			return snap, nil
		}
	}

	v, err, _ := m.flights.Do(flightSnapshot, func() (any, error) {
		// Another flight may have refreshed between the caller's check
		// and this one.
		if !force {
			if snap := m.freshSnapshot(); snap != nil {
				return snap, nil
			}
		}
		return m.refreshSnapshot()
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Snapshot), nil
}

// freshSnapshot returns the cached snapshot only while it is within TTL.
func (m *Manager) freshSnapshot() *model.Snapshot {
	snap := m.state.getSnapshot()
	if snap == nil {
		return nil
	}
	if m.now().Sub(snap.FetchedAt) >= m.cfg.SnapshotTTL {
		return nil
	}
	return snap
}

// refreshSnapshot fetches the market list and replaces the cached snapshot.
// Runs on a background context so a disconnecting caller cannot cancel a
// refresh other callers have joined; the client's own timeout bounds it.
func (m *Manager) refreshSnapshot() (*model.Snapshot, error) {
	start := time.Now()

	rows, err := m.src.Markets(context.Background())
	if err != nil {
		if stale := m.state.getSnapshot(); stale != nil {
			m.state.recordStaleSnapshot()
			m.logger.Warn("snapshot refresh failed, serving stale",
				"age_seconds", int64(m.now().Sub(stale.FetchedAt).Seconds()),
				"error", err,
			)
			return stale, nil
		}
		m.logger.Error("snapshot refresh failed with empty cache", "error", err)
		return nil, fmt.Errorf("refresh market snapshot: %w", err)
	}

	snap := &model.Snapshot{Rows: rows, FetchedAt: m.now()}
	m.state.setSnapshot(snap)

	m.logger.Info("market snapshot refreshed",
		"rows", len(rows),
		"duration", time.Since(start),
	)
	return snap, nil
}
