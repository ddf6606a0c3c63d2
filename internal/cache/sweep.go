package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// SweepConfig holds preload sweeper configuration.
type SweepConfig struct {
	Interval time.Duration
	IDs      []string
}

// Sweeper keeps the configured preload coins' histories warm. It runs one
// pass immediately on start (the cold-start warm-up) and then one pass per
// interval. Fetch failures are logged and retried on the next pass.
type Sweeper struct {
	cfg    SweepConfig
	mgr    *Manager
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a sweeper over the given manager.
func NewSweeper(cfg SweepConfig, mgr *Manager, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{cfg: cfg, mgr: mgr, logger: logger}
}

// Start launches the sweep loop in the background.
func (s *Sweeper) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run()
	}()

	s.logger.Info("preload sweeper started",
		"coins", len(s.cfg.IDs),
		"interval", s.cfg.Interval,
	)
	return nil
}

// Stop gracefully shuts down.
func (s *Sweeper) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("preload sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) run() {
	s.sweep()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// sweep refreshes every configured coin once, in order. The shared transport
// paces the underlying calls, so a pass over N coins takes at least N
// throttle intervals.
func (s *Sweeper) sweep() {
	start := time.Now()

	var succeeded, failed int
	for _, id := range s.cfg.IDs {
		if s.ctx.Err() != nil {
			return
		}
		if h := s.mgr.refreshHistory(s.ctx, strings.ToLower(id)); h != nil {
			succeeded++
		} else {
			failed++
		}
	}

	s.logger.Info("preload sweep complete",
		"succeeded", succeeded,
		"failed", failed,
		"duration", time.Since(start),
	)
}
