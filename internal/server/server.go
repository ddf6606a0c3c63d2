package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlachev/coinsync/internal/cache"
	"github.com/mlachev/coinsync/internal/reconcile"
)

// Config holds HTTP server configuration.
type Config struct {
	ListenAddr string
}

// Server serves the coinsync API over a gin engine.
type Server struct {
	cfg    Config
	mgr    *cache.Manager
	queue  *reconcile.TaskQueue
	logger *slog.Logger

	http *http.Server
}

// New creates a server over the given cache manager. The queue is optional
// and only feeds the debug endpoint.
func New(cfg Config, mgr *cache.Manager, queue *reconcile.TaskQueue, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		mgr:    mgr,
		queue:  queue,
		logger: logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)

	s.http = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: engine,
	}
	return s
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/coins", s.handleCoins)
		api.GET("/coins/:id/history", s.handleHistory)
		api.GET("/compare", s.handleCompare)
		api.GET("/report", s.handleReport)
	}

	r.GET("/debug/cache", s.handleDebugCache)
}

// Handler exposes the route tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start begins serving in the background.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", "error", err)
		}
	}()

	s.logger.Info("http server started", "addr", s.cfg.ListenAddr)
	return nil
}

// Stop drains in-flight requests and closes the listener.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
