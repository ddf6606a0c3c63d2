package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PrewarmConfig holds prewarm scheduler configuration.
type PrewarmConfig struct {
	Interval time.Duration // time between prewarm rounds (default: 30m)
	Pairs    [][2]string   // pairs to keep warm
}

// Prewarmer periodically enqueues the configured popular pairs so their
// cache entries exist before the first downstream poll.
type Prewarmer struct {
	cfg    PrewarmConfig
	queue  *TaskQueue
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPrewarmer creates a prewarm scheduler for the given queue.
func NewPrewarmer(cfg PrewarmConfig, queue *TaskQueue, logger *slog.Logger) *Prewarmer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prewarmer{
		cfg:    cfg,
		queue:  queue,
		logger: logger,
	}
}

// Start begins the prewarm loop. The first round runs immediately so a cold
// process starts converging without waiting a full interval.
func (p *Prewarmer) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("prewarm scheduler started",
		"interval", p.cfg.Interval,
		"pairs", len(p.cfg.Pairs),
	)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (p *Prewarmer) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("prewarm scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Prewarmer) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.enqueueAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.enqueueAll()
		}
	}
}

func (p *Prewarmer) enqueueAll() {
	for _, pair := range p.cfg.Pairs {
		task := NewTask(pair[0], pair[1])
		p.queue.Push(task)
		p.logger.Debug("prewarm task queued",
			"task_id", task.ID,
			"coin1", task.Coin1,
			"coin2", task.Coin2,
		)
	}
}
