// Command coinsyncd serves cached CoinGecko market data over HTTP.
//
// It owns a single upstream client, a cache manager, and the background
// reconciliation workers, and exposes the read API consumed by reporting
// dashboards.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mlachev/coinsync/internal/cache"
	"github.com/mlachev/coinsync/internal/config"
	"github.com/mlachev/coinsync/internal/gecko"
	"github.com/mlachev/coinsync/internal/reconcile"
	"github.com/mlachev/coinsync/internal/server"
	"github.com/mlachev/coinsync/internal/version"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "configs/coinsync.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Optional .env for local runs; absence is not an error.
	_ = godotenv.Load()

	// Set up structured logging; the level is re-applied from config below.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting coinsyncd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration; a missing file runs on defaults
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if lvl := logLevel(cfg.Log.Level); lvl != slog.LevelInfo {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: lvl,
		}))
		slog.SetDefault(logger)
	}

	logger.Info("configuration loaded",
		"listen_addr", cfg.Server.ListenAddr,
		"upstream", cfg.Upstream.BaseURL,
		"snapshot_ttl", cfg.Cache.SnapshotTTL,
		"pair_ttl", cfg.Cache.PairTTL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Upstream client with throttling and retry
	client := gecko.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.APIKey,
		gecko.WithMinInterval(cfg.Upstream.MinInterval),
		gecko.WithRetryLimit(cfg.Upstream.RetryLimit),
		gecko.WithBackoff(cfg.Upstream.BackoffStep, cfg.Upstream.BackoffCap, cfg.Upstream.BackoffJitter),
		gecko.WithTimeouts(cfg.Upstream.MarketsTimeout, cfg.Upstream.ChartTimeout),
		gecko.WithVsCurrency(cfg.Upstream.VsCurrency),
		gecko.WithPageSize(cfg.Cache.PageSize),
		gecko.WithLogger(logger.With("component", "gecko")),
	)

	// Cache manager and reconciliation queue
	queue := reconcile.NewTaskQueue(16)
	manager := cache.NewManager(cache.Config{
		SnapshotTTL: cfg.Cache.SnapshotTTL,
		PairTTL:     cfg.Cache.PairTTL,
		PacingMin:   cfg.Cache.PacingMin,
		PacingMax:   cfg.Cache.PacingMax,
	}, client, logger.With("component", "cache"), cache.WithQueue(queue))

	// Background workers
	worker := reconcile.NewWorker(reconcile.Config{
		DrainInterval: cfg.Reconcile.DrainInterval,
		MaxAttempts:   cfg.Reconcile.MaxAttempts,
	}, queue, manager, logger.With("component", "reconcile"))

	prewarmer := reconcile.NewPrewarmer(reconcile.PrewarmConfig{
		Interval: cfg.Reconcile.PrewarmInterval,
		Pairs:    prewarmPairs(cfg.Reconcile.PrewarmPairs),
	}, queue, logger.With("component", "prewarm"))

	sweeper := cache.NewSweeper(cache.SweepConfig{
		Interval: cfg.Preload.SweepInterval,
		IDs:      cfg.Preload.IDs,
	}, manager, logger.With("component", "preload"))

	// HTTP API
	srv := server.New(server.Config{
		ListenAddr: cfg.Server.ListenAddr,
	}, manager, queue, logger.With("component", "http"))

	if err := worker.Start(ctx); err != nil {
		logger.Error("failed to start reconcile worker", "error", err)
		os.Exit(1)
	}
	if err := prewarmer.Start(ctx); err != nil {
		logger.Error("failed to start prewarmer", "error", err)
		os.Exit(1)
	}
	if err := sweeper.Start(ctx); err != nil {
		logger.Error("failed to start preload sweeper", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start http server", "error", err)
		os.Exit(1)
	}

	logger.Info("coinsyncd running", "addr", cfg.Server.ListenAddr)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Stop the API first so no new work arrives, then the schedulers that
	// feed the queue, and the drain worker last.
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
	if err := sweeper.Stop(shutdownCtx); err != nil {
		logger.Error("preload sweeper shutdown", "error", err)
	}
	if err := prewarmer.Stop(shutdownCtx); err != nil {
		logger.Error("prewarmer shutdown", "error", err)
	}
	if err := worker.Stop(shutdownCtx); err != nil {
		logger.Error("reconcile worker shutdown", "error", err)
	}

	logger.Info("coinsyncd stopped")
}

// logLevel maps a config log level to its slog value. Unknown values fall
// back to info; Validate rejects them before this runs.
func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// prewarmPairs converts validated config pairs into queue task pairs.
func prewarmPairs(pairs [][]string) [][2]string {
	out := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, [2]string{p[0], p[1]})
	}
	return out
}
