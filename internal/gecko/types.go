package gecko

import "encoding/json"

// MarketRow is one element of the /coins/markets response. Numeric fields
// are pointers because upstream returns null for thin or delisted assets.
type MarketRow struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	MarketCap    *float64 `json:"market_cap"`
	TotalVolume  *float64 `json:"total_volume"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
}

// ChartResponse is the /coins/{id}/market_chart response. Price pairs stay
// raw so malformed entries can be dropped individually during conversion.
type ChartResponse struct {
	Prices []json.RawMessage `json:"prices"`
}
