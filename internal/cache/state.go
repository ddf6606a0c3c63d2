package cache

import (
	"sync"
	"time"

	"github.com/mlachev/coinsync/internal/model"
)

// pairEntry is one cached comparison result.
type pairEntry struct {
	result   *model.PairResult
	cachedAt time.Time
}

// cacheState holds all cached data behind a single RWMutex. Entries are
// replaced wholesale and treated as read-only once stored, so getters hand
// out the stored pointers directly.
type cacheState struct {
	mu sync.RWMutex

	snapshot *model.Snapshot
	pairs    map[string]*pairEntry
	history  map[string]*model.CoinHistory

	snapshotRefreshes   int64
	staleSnapshotServes int64
	pairRefreshes       int64
	stalePairServes     int64
	placeholders        int64
}

func newState() *cacheState {
	return &cacheState{
		pairs:   make(map[string]*pairEntry),
		history: make(map[string]*model.CoinHistory),
	}
}

func (s *cacheState) getSnapshot() *model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *cacheState) setSnapshot(snap *model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.snapshotRefreshes++
}

func (s *cacheState) getPair(key string) (*pairEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.pairs[key]
	return entry, ok
}

func (s *cacheState) setPair(key string, result *model.PairResult, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs[key] = &pairEntry{result: result, cachedAt: at}
	s.pairRefreshes++
}

func (s *cacheState) getHistory(id string) *model.CoinHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history[id]
}

func (s *cacheState) setHistory(h *model.CoinHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[h.ID] = h
}

func (s *cacheState) recordStaleSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staleSnapshotServes++
}

func (s *cacheState) recordStalePair() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stalePairServes++
}

func (s *cacheState) recordPlaceholder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placeholders++
}

func (s *cacheState) stats(now time.Time) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		SnapshotRefreshes:   s.snapshotRefreshes,
		StaleSnapshotServes: s.staleSnapshotServes,
		PairEntries:         len(s.pairs),
		PairRefreshes:       s.pairRefreshes,
		StalePairServes:     s.stalePairServes,
		Placeholders:        s.placeholders,
		HistoryEntries:      len(s.history),
	}
	if s.snapshot != nil {
		st.SnapshotReady = true
		st.SnapshotAgeSeconds = int64(now.Sub(s.snapshot.FetchedAt).Seconds())
		st.SnapshotRows = len(s.snapshot.Rows)
	}
	return st
}
