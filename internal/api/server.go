// Package api implements the HTTP API over audit runs, issues and
// reports.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/seoaudit/internal/config"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

// Server wraps the HTTP server around the audit API router.
type Server struct {
	http   *http.Server
	logger logger.Interface
}

// NewServer builds the server from configuration and a handler set.
func NewServer(cfg config.ServerConfig, h *Handler, log logger.Interface) *Server {
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Server{
		http: &http.Server{
			Addr:         cfg.Address,
			Handler:      NewRouter(h, log),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: log,
	}
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("starting api server", "address", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping api server")
	return s.http.Shutdown(ctx)
}

// NewRouter configures the Gin router with all audit routes.
func NewRouter(h *Handler, log logger.Interface) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/runs", h.ListRuns)
		v1.GET("/runs/:id", h.GetRun)
		v1.GET("/runs/:id/issues", h.ListRunIssues)
		v1.GET("/reports", h.ListReports)
	}

	return router
}

// loggingMiddleware logs each request with latency and status.
func loggingMiddleware(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}
