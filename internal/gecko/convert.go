package gecko

import (
	"encoding/json"
	"strings"

	"github.com/mlachev/coinsync/internal/model"
)

// Series converts the raw price pairs, dropping anything that is not a
// well-formed [timestamp, price] pair of numbers.
func (r *ChartResponse) Series() model.Series {
	out := make(model.Series, 0, len(r.Prices))
	for _, raw := range r.Prices {
		var pair []*float64
		if err := json.Unmarshal(raw, &pair); err != nil {
			continue
		}
		if len(pair) != 2 || pair[0] == nil || pair[1] == nil {
			continue
		}
		out = append(out, model.PricePoint{UnixMs: int64(*pair[0]), Price: *pair[1]})
	}
	return out
}

// ToModel converts an API market row to a snapshot row, lower-casing the id.
func (r *MarketRow) ToModel() model.SnapshotRow {
	return model.SnapshotRow{
		ID:           strings.ToLower(r.ID),
		Symbol:       r.Symbol,
		Name:         r.Name,
		CurrentPrice: r.CurrentPrice,
		MarketCap:    r.MarketCap,
		TotalVolume:  r.TotalVolume,
		Change24h:    r.Change24h,
	}
}
