package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ----- Price series -----

// PricePoint is a single (timestamp, price) sample of a coin's series.
// It marshals as the upstream pair form [milliseconds, price].
type PricePoint struct {
	UnixMs int64
	Price  float64
}

// MarshalJSON encodes the point as a two-element [timestamp, price] array.
func (p PricePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.UnixMs, p.Price})
}

// UnmarshalJSON decodes a two-element [timestamp, price] array.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("price point: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("price point: expected [timestamp, price], got %d elements", len(pair))
	}
	p.UnixMs = int64(pair[0])
	p.Price = pair[1]
	return nil
}

// Series is a price series, ascending by timestamp with no duplicate
// timestamps (upstream guarantee).
type Series []PricePoint

// ----- Market snapshot -----

// SnapshotRow is the current state of one market asset. Every field except
// ID may be absent upstream; numeric fields stay nil in that case.
type SnapshotRow struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	MarketCap    *float64 `json:"market_cap"`
	TotalVolume  *float64 `json:"total_volume"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
}

// Snapshot is the full market list in upstream market-cap-descending order,
// plus the time it was fetched.
type Snapshot struct {
	Rows      []SnapshotRow `json:"rows"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// ----- Pair comparison -----

// NamedSeries labels a price series with its coin id for comparison payloads.
type NamedSeries struct {
	Name   string `json:"name"`
	Prices Series `json:"prices"`
}

// PairResult is the outcome of a two-coin comparison. Data always holds two
// entries in request order; a coin with no available data has empty Prices.
// Warning is set only on degraded results (partial data, stale fallback,
// placeholder) and is empty on the success path.
type PairResult struct {
	Coin1   string        `json:"coin1"`
	Coin2   string        `json:"coin2"`
	Data    []NamedSeries `json:"data"`
	Warning string        `json:"warning,omitempty"`
}

// ----- Single-coin history -----

// CoinHistory is a preloaded full-year daily series for one coin.
type CoinHistory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Prices    Series    `json:"prices"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ----- Introspection -----

// Health reports snapshot cache readiness for the health endpoint.
type Health struct {
	CacheReady      bool  `json:"cacheReady"`
	CacheAgeSeconds int64 `json:"cacheAgeSeconds"`
}
