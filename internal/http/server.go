// Package http assembles the public gin router and the server lifecycle.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/allisson/certify/internal/config"
	issuanceHTTP "github.com/allisson/certify/internal/issuance/http"
	"github.com/allisson/certify/internal/metrics"
	throttleDomain "github.com/allisson/certify/internal/throttle/domain"
	throttleHTTP "github.com/allisson/certify/internal/throttle/http"
	throttleService "github.com/allisson/certify/internal/throttle/service"
)

const readinessTimeout = 2 * time.Second

// Rate limit scopes. Each scope keeps its own window per client.
const (
	ScopeOrganizer      = "organizer"
	ScopeEvent          = "event"
	ScopeCertificate    = "certificate"
	ScopeCertificateGet = "certificate_get"
	ScopeDownload       = "download"
)

// Server represents the public HTTP server.
type Server struct {
	db     *sql.DB
	redis  *redis.Client
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// Handlers groups the issuance handlers mounted under /v1.
type Handlers struct {
	Organizer   *issuanceHTTP.OrganizerHandler
	Event       *issuanceHTTP.EventHandler
	Certificate *issuanceHTTP.CertificateHandler
	Stats       *issuanceHTTP.StatsHandler
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
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

// WithRedis adds a Redis ping to the readiness check.
func (s *Server) WithRedis(client *redis.Client) *Server {
	s.redis = client
	return s
}

// SetupRouter builds the gin engine. limiter may be nil when rate limiting is disabled.
func (s *Server) SetupRouter(
	cfg *config.Config,
	handlers Handlers,
	limiter throttleService.Limiter,
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
		router.Use(metrics.HTTPMetricsMiddleware(
			metricsProvider.MeterProvider(),
			cfg.MetricsNamespace,
			"/health", "/ready",
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	throttle := func(scope string, rule config.RateLimitRule) gin.HandlerFunc {
		if limiter == nil || !cfg.RateLimitEnabled {
			return func(c *gin.Context) { c.Next() }
		}
		policy := throttleDomain.Policy{MaxRequests: rule.MaxRequests, Window: rule.Window}
		return throttleHTTP.RateLimitMiddleware(limiter, scope, policy, s.logger)
	}

	v1 := router.Group("/v1")
	{
		organizers := v1.Group("/organizers")
		organizers.POST("", throttle(ScopeOrganizer, cfg.RateLimitOrganizer), handlers.Organizer.CreateHandler)
		organizers.GET("/:reference_id", handlers.Organizer.GetHandler)

		events := v1.Group("/events")
		events.POST("", throttle(ScopeEvent, cfg.RateLimitEvent), handlers.Event.CreateHandler)
		events.GET("/:reference_id", handlers.Event.GetHandler)

		certificates := v1.Group("/certificates")
		certificates.POST("", throttle(ScopeCertificate, cfg.RateLimitCertificate), handlers.Certificate.IssueHandler)
		// Registered before the parameter route so "download" is never read as a reference id.
		certificates.GET(
			"/download",
			throttle(ScopeDownload, cfg.RateLimitDownload),
			handlers.Certificate.DownloadHandler,
		)
		certificates.GET(
			"/:reference_id",
			throttle(ScopeCertificateGet, cfg.RateLimitCertificateGet),
			handlers.Certificate.GetHandler,
		)

		v1.GET("/stats", handlers.Stats.GetHandler)
	}

	s.router = router
}

// Router returns the configured engine, nil before SetupRouter.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports 503 unless every configured backing store answers.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	ready := true
	components := gin.H{}

	if s.db == nil || s.db.PingContext(ctx) != nil {
		ready = false
		components["database"] = "error"
	} else {
		components["database"] = "ok"
	}

	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			ready = false
			components["redis"] = "error"
		} else {
			components["redis"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
