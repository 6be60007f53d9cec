// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/dmvault/internal/auth/http"
	authUseCase "github.com/allisson/dmvault/internal/auth/usecase"
	"github.com/allisson/dmvault/internal/config"
	messagingHTTP "github.com/allisson/dmvault/internal/messaging/http"
	"github.com/allisson/dmvault/internal/metrics"
	userHTTP "github.com/allisson/dmvault/internal/user/http"
)

// readinessTimeout bounds a single storage readiness check.
const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether the blob storage can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Server represents the HTTP server
type Server struct {
	server    *http.Server
	router    *gin.Engine
	logger    *slog.Logger
	readiness ReadinessCheck
}

// NewServer creates a new HTTP server. A nil readiness check reports the
// server as not ready.
func NewServer(
	readiness ReadinessCheck,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		logger:    logger,
		readiness: readiness,
		server:    newHTTPServer(host, port, nil),
	}
}

// SetupRouter builds the Gin router with every API route.
//
// ctx bounds background work started by middleware (rate limiter cleanup).
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	authenticator authUseCase.AuthUseCase,
	userHandler *userHTTP.UserHandler,
	messageHandler *messagingHTTP.MessageHandler,
	metricsProvider *metrics.Provider,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	v1.Use(authHTTP.AuthenticationMiddleware(authenticator, s.logger))
	if cfg.RateLimitEnabled {
		v1.Use(authHTTP.RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	v1.GET("/me", userHandler.MeHandler)
	v1.GET("/users", userHandler.ListHandler)
	v1.GET("/contacts", messageHandler.ContactsHandler)
	v1.GET("/messages/:contact", messageHandler.ReadHandler)
	v1.POST("/messages", messageHandler.SendHandler)

	admin := v1.Group("/admin")
	admin.Use(authHTTP.RequireAdminMiddleware(s.logger))
	{
		admin.GET("/users", userHandler.AdminListHandler)
		admin.POST("/users", userHandler.CreateHandler)
		admin.PUT("/users/:login", userHandler.UpdateHandler)
		admin.DELETE("/users/:login", userHandler.DeleteHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router is not configured")
	}
	s.server.Handler = s.router

	return listenAndServe(s.server, "http server", s.logger)
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return shutdownServer(ctx, s.server, "http server", s.logger)
}

// healthHandler reports that the process is up.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the blob storage is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	storageStatus := "ok"
	if s.readiness == nil {
		storageStatus = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := s.readiness(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			storageStatus = "error"
		}
	}

	components := gin.H{"storage": storageStatus}
	if storageStatus != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
