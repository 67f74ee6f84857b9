// Package server hosts the HTTP read surface: health, metrics and the
// versioned bills API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avasalony-boop/policy-tracker/engine/bill"
	"github.com/avasalony-boop/policy-tracker/engine/router/bills"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server wraps the gin engine and its http.Server lifecycle.
type Server struct {
	addr   string
	engine *gin.Engine
	health HealthChecker
}

// New assembles the router with routes bound to repo. health may be nil, in
// which case /healthz always reports ok.
func New(addr string, repo bill.Repository, health HealthChecker) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	srv := &Server{addr: addr, engine: engine, health: health}
	engine.GET("/healthz", srv.healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiBase := engine.Group("/api/v0")
	bills.RegisterRoutes(apiBase, repo)
	return srv
}

// Engine exposes the underlying router, mainly for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health.HealthCheck(c.Request.Context()); err != nil {
			logger.FromContext(c.Request.Context()).Error("Health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
