// Package http provides the HTTP API server, its middleware stack, and
// the standalone metrics server.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	internalMetrics "github.com/idshield/verification/internal/metrics"
	verificationHTTP "github.com/idshield/verification/internal/verification/http"
)

// RouterConfig holds the handlers and optional middleware settings used
// to build the API router.
type RouterConfig struct {
	VerificationHandler *verificationHTTP.VerificationHandler

	CORSEnabled      bool
	CORSAllowOrigins string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int

	// MeterProvider enables per-request HTTP metrics when set.
	MeterProvider    metric.MeterProvider
	MetricsNamespace string
}

// Server represents the HTTP API server.
type Server struct {
	server *http.Server
	router *gin.Engine
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates a new HTTP API server. The database handle is used
// by the readiness endpoint and may be nil in tests.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router with the full middleware stack and
// registers all API routes.
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := s.baseRouter()

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MeterProvider != nil {
		router.Use(internalMetrics.HTTPMetricsMiddleware(cfg.MeterProvider, cfg.MetricsNamespace))
	}

	if cfg.RateLimitEnabled {
		router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, s.logger))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	if cfg.VerificationHandler != nil {
		v1 := router.Group("/v1")
		{
			v1.POST("/ingress", cfg.VerificationHandler.IngressHandler)
			v1.POST("/search", cfg.VerificationHandler.SearchHandler)
			v1.GET("/public-key", cfg.VerificationHandler.PublicKeyHandler)
			v1.GET("/records", cfg.VerificationHandler.ListRecordsHandler)
		}
	}

	s.router = router
}

// baseRouter creates a router with recovery, request id, and logging
// middleware applied.
func (s *Server) baseRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can reach its dependencies.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Error("readiness check failed", slog.String("error", err.Error()))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server. If SetupRouter was not called, a minimal
// router with only health endpoints is used.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		router := s.baseRouter()
		router.GET("/health", s.healthHandler)
		router.GET("/ready", s.readinessHandler)
		s.router = router
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
