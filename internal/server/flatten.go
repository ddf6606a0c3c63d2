package server

import (
	"time"

	"github.com/mlachev/coinsync/internal/model"
)

// ReportRow is one long-format row for the BI tool: one coin, one UTC day,
// one price.
type ReportRow struct {
	Coin  string  `json:"coin"`
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// ReportResponse wraps flattened rows with the source result's warning.
type ReportResponse struct {
	Rows    []ReportRow `json:"rows"`
	Warning string      `json:"warning,omitempty"`
}

// flattenPair converts a comparison result into one row per price point,
// series order preserved. Empty series contribute no rows.
func flattenPair(res *model.PairResult) []ReportRow {
	rows := make([]ReportRow, 0)
	for _, series := range res.Data {
		for _, p := range series.Prices {
			rows = append(rows, ReportRow{
				Coin:  series.Name,
				Date:  time.UnixMilli(p.UnixMs).UTC().Format("2006-01-02"),
				Price: p.Price,
			})
		}
	}
	return rows
}
