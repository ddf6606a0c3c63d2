package reconcile

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PairReconciler refreshes a pair cache entry from upstream. Implemented by
// the cache manager.
type PairReconciler interface {
	ReconcilePair(ctx context.Context, coin1, coin2 string) error
}

// Config holds worker configuration.
type Config struct {
	DrainInterval time.Duration // time between drain ticks (default: 15s)
	MaxAttempts   int           // attempt ceiling per task (default: 30)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DrainInterval: 15 * time.Second,
		MaxAttempts:   30,
	}
}

// Worker drains the task queue one task per tick.
type Worker struct {
	cfg    Config
	queue  *TaskQueue
	rec    PairReconciler
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker creates a worker for the given queue.
func NewWorker(cfg Config, queue *TaskQueue, rec PairReconciler, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		cfg:    cfg,
		queue:  queue,
		rec:    rec,
		logger: logger,
	}
}

// Start begins the drain loop.
func (w *Worker) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go w.run()

	w.logger.Info("reconciliation worker started",
		"interval", w.cfg.DrainInterval,
		"max_attempts", w.cfg.MaxAttempts,
	)

	return nil
}

// Stop gracefully shuts down the worker.
func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("reconciliation worker stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the drain loop. Each tick handles at most one task so a deep queue
// cannot amplify upstream load.
func (w *Worker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.cfg.DrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.drainOne(w.ctx)
		}
	}
}

// drainOne pops and attempts one task, reinserting it on failure until the
// attempt ceiling.
func (w *Worker) drainOne(ctx context.Context) {
	task, ok := w.queue.TryPop()
	if !ok {
		return
	}

	start := time.Now()
	err := w.rec.ReconcilePair(ctx, task.Coin1, task.Coin2)
	if err == nil {
		w.logger.Info("pair reconciled",
			"task_id", task.ID,
			"coin1", task.Coin1,
			"coin2", task.Coin2,
			"attempts", task.Attempts+1,
			"duration", time.Since(start),
		)
		return
	}

	task.Attempts++
	if task.Attempts >= w.cfg.MaxAttempts {
		w.logger.Warn("dropping reconciliation task after final attempt",
			"task_id", task.ID,
			"coin1", task.Coin1,
			"coin2", task.Coin2,
			"attempts", task.Attempts,
			"error", err,
		)
		return
	}

	w.logger.Debug("reconciliation attempt failed, requeueing",
		"task_id", task.ID,
		"coin1", task.Coin1,
		"coin2", task.Coin2,
		"attempts", task.Attempts,
		"error", err,
	)
	w.queue.Push(task)
}
