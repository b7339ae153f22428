// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	capabilityService "github.com/allisson/certify/internal/capability/service"
	"github.com/allisson/certify/internal/cache"
	"github.com/allisson/certify/internal/config"
	"github.com/allisson/certify/internal/database"
	"github.com/allisson/certify/internal/http"
	issuanceHTTP "github.com/allisson/certify/internal/issuance/http"
	issuanceUseCase "github.com/allisson/certify/internal/issuance/usecase"
	"github.com/allisson/certify/internal/metrics"
	refidDomain "github.com/allisson/certify/internal/refid/domain"
	refidService "github.com/allisson/certify/internal/refid/service"
	throttleService "github.com/allisson/certify/internal/throttle/service"
	throttleStore "github.com/allisson/certify/internal/throttle/store"
)

// ErrRedisNotConfigured is returned when a Redis backend is selected without REDIS_URL.
var ErrRedisNotConfigured = errors.New("redis backend selected but REDIS_URL is empty")

// Container holds all application dependencies and provides methods to access them.
// Components are created on first access and shared afterwards.
type Container struct {
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	redis           *redis.Client
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Supporting services
	kmsService    capabilityService.KMSService
	signer        capabilityService.Signer
	codec         *refidDomain.Codec
	numberSource  refidService.NumberSource
	issuer        *issuanceUseCase.Issuer
	statsCache    cache.Cache
	memoryCache   *cache.MemoryCache
	counterStore  throttleService.CounterStore
	memoryCounter *throttleStore.MemoryCounterStore
	limiter       throttleService.Limiter

	// Repositories
	organizerRepo   issuanceUseCase.OrganizerRepository
	eventRepo       issuanceUseCase.EventRepository
	certificateRepo issuanceUseCase.CertificateRepository

	// Use Cases
	organizerUseCase   issuanceUseCase.OrganizerUseCase
	eventUseCase       issuanceUseCase.EventUseCase
	certificateUseCase issuanceUseCase.CertificateUseCase
	statsUseCase       issuanceUseCase.StatsUseCase

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	mu                     sync.Mutex
	loggerInit             sync.Once
	dbInit                 sync.Once
	txManagerInit          sync.Once
	redisInit              sync.Once
	metricsProviderInit    sync.Once
	businessMetricsInit    sync.Once
	kmsServiceInit         sync.Once
	signerInit             sync.Once
	codecInit              sync.Once
	numberSourceInit       sync.Once
	issuerInit             sync.Once
	statsCacheInit         sync.Once
	counterStoreInit       sync.Once
	limiterInit            sync.Once
	organizerRepoInit      sync.Once
	eventRepoInit          sync.Once
	certificateRepoInit    sync.Once
	organizerUseCaseInit   sync.Once
	eventUseCaseInit       sync.Once
	certificateUseCaseInit sync.Once
	statsUseCaseInit       sync.Once
	httpServerInit         sync.Once
	metricsServerInit      sync.Once
	initErrors             map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// initialize runs fn once under name and replays its error on every later call.
func (c *Container) initialize(once *sync.Once, name string, fn func() error) error {
	once.Do(func() {
		if err := fn(); err != nil {
			c.mu.Lock()
			c.initErrors[name] = err
			c.mu.Unlock()
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initErrors[name]
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger configured from LOG_LEVEL.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	err := c.initialize(&c.dbInit, "db", func() (err error) {
		c.db, err = c.initDB()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager bound to the database connection.
func (c *Container) TxManager() (database.TxManager, error) {
	err := c.initialize(&c.txManagerInit, "txManager", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		c.txManager = database.NewTxManager(db)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// Redis returns the shared Redis client. It is only needed by the redis backends.
func (c *Container) Redis() (*redis.Client, error) {
	err := c.initialize(&c.redisInit, "redis", func() (err error) {
		c.redis, err = c.initRedis()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.redis, nil
}

// MetricsProvider returns the Prometheus-backed provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	err := c.initialize(&c.metricsProviderInit, "metricsProvider", func() (err error) {
		if !c.config.MetricsEnabled {
			return nil
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder, a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	err := c.initialize(&c.businessMetricsInit, "businessMetrics", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return nil
		}
		c.businessMetrics, err = metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return fmt.Errorf("failed to create business metrics: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the public API server with every route wired.
func (c *Container) HTTPServer() (*http.Server, error) {
	err := c.initialize(&c.httpServerInit, "httpServer", func() (err error) {
		c.httpServer, err = c.initHTTPServer()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	err := c.initialize(&c.metricsServerInit, "metricsServer", func() error {
		provider, err := c.MetricsProvider()
		if err != nil {
			return err
		}
		if provider == nil {
			return nil
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("redis close: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initRedis() (*redis.Client, error) {
	if c.config.RedisURL == "" {
		return nil, ErrRedisNotConfigured
	}
	client, err := database.ConnectRedis(context.Background(), c.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (c *Container) usesRedis() bool {
	return c.config.RateLimitBackend == config.BackendRedis || c.config.CacheBackend == config.BackendRedis
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	organizerUseCase, err := c.OrganizerUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get organizer use case for http server: %w", err)
	}
	eventUseCase, err := c.EventUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get event use case for http server: %w", err)
	}
	certificateUseCase, err := c.CertificateUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate use case for http server: %w", err)
	}
	statsUseCase, err := c.StatsUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats use case for http server: %w", err)
	}

	var limiter throttleService.Limiter
	if c.config.RateLimitEnabled {
		limiter, err = c.Limiter()
		if err != nil {
			return nil, fmt.Errorf("failed to get rate limiter for http server: %w", err)
		}
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	if c.usesRedis() {
		client, err := c.Redis()
		if err != nil {
			return nil, err
		}
		server.WithRedis(client)
	}

	server.SetupRouter(c.config, http.Handlers{
		Organizer:   issuanceHTTP.NewOrganizerHandler(organizerUseCase, logger),
		Event:       issuanceHTTP.NewEventHandler(eventUseCase, logger),
		Certificate: issuanceHTTP.NewCertificateHandler(certificateUseCase, logger),
		Stats:       issuanceHTTP.NewStatsHandler(statsUseCase, logger),
	}, limiter, provider)

	return server, nil
}
