package cache

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mlachev/coinsync/internal/model"
	"github.com/mlachev/coinsync/internal/timeframe"
)

// ReconcilePair refetches both series of a previously failed pair and, when
// both succeed, writes a clean aligned entry for it. Used by the
// reconciliation worker; ctx is the worker's shutdown context. The fetches
// run concurrently, with the transport still serializing the actual calls,
// and both are allowed to finish even if the other fails.
func (m *Manager) ReconcilePair(ctx context.Context, coin1, coin2 string) error {
	coin1 = strings.ToLower(coin1)
	coin2 = strings.ToLower(coin2)

	var s1, s2 model.Series
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if s1, err = m.src.MarketChart(ctx, coin1); err != nil {
			return fmt.Errorf("fetch %s: %w", coin1, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if s2, err = m.src.MarketChart(ctx, coin2); err != nil {
			return fmt.Errorf("fetch %s: %w", coin2, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	a, b := timeframe.Align(s1, s2)
	result := &model.PairResult{
		Coin1: coin1,
		Coin2: coin2,
		Data: []model.NamedSeries{
			{Name: coin1, Prices: a},
			{Name: coin2, Prices: b},
		},
	}
	m.state.setPair(pairKey(coin1, coin2), result, m.now())
	return nil
}
