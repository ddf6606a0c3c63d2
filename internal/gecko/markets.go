package gecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mlachev/coinsync/internal/model"
)

// Markets fetches the current market list: one page, market-cap descending.
// Rows that cannot be decoded or lack an id are skipped rather than failing
// the whole snapshot.
func (c *Client) Markets(ctx context.Context) ([]model.SnapshotRow, error) {
	query := url.Values{}
	query.Set("vs_currency", c.vsCurrency)
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(c.pageSize))
	query.Set("page", "1")
	query.Set("sparkline", "false")

	var raw []json.RawMessage
	if err := c.get(ctx, "/coins/markets", query, c.marketsTimeout, &raw); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}

	rows := make([]model.SnapshotRow, 0, len(raw))
	for _, item := range raw {
		var row MarketRow
		if err := json.Unmarshal(item, &row); err != nil {
			c.logger.Debug("skipping malformed market row", "error", err)
			continue
		}
		if row.ID == "" {
			continue
		}
		rows = append(rows, row.ToModel())
	}

	return rows, nil
}
