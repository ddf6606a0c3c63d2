package gecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mlachev/coinsync/internal/model"
)

// MarketChart fetches one year of daily prices for a coin. When the
// full-year window is unavailable upstream (404) it makes a single
// follow-up call for the maximum available range; if that also fails, the
// original failure is returned. Young assets routinely lack a full year of
// history.
func (c *Client) MarketChart(ctx context.Context, id string) (model.Series, error) {
	path := "/coins/" + url.PathEscape(id) + "/market_chart"

	body, err := c.doWithRetry(ctx, path, c.chartQuery(daysFullYear), c.chartTimeout)
	if err != nil && IsNotFound(err) {
		c.logger.Info("full-year range unavailable, trying max range", "coin", id)
		if fbBody, fbErr := c.doRequest(ctx, path, c.chartQuery(daysMax), c.chartTimeout); fbErr == nil {
			body, err = fbBody, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("get market chart %s: %w", id, err)
	}

	var resp ChartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal market chart %s: %w", id, err)
	}

	return resp.Series(), nil
}

func (c *Client) chartQuery(days string) url.Values {
	query := url.Values{}
	query.Set("vs_currency", c.vsCurrency)
	query.Set("days", days)
	query.Set("interval", "daily")
	return query
}
