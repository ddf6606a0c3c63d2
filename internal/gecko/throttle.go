package gecko

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// gate serializes upstream calls: one outstanding request at a time, with a
// minimum spacing between consecutive calls. Queued callers proceed in
// arrival order.
type gate struct {
	mu      sync.Mutex
	limiter *rate.Limiter
}

func newGate(minInterval time.Duration) *gate {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &gate{limiter: rate.NewLimiter(limit, 1)}
}

// run executes fn once the caller holds the call slot and the minimum
// spacing since the previous call has elapsed.
func (g *gate) run(ctx context.Context, fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}
	return fn()
}
