package app

import (
	"context"
	"fmt"
	"time"

	capabilityService "github.com/allisson/certify/internal/capability/service"
	"github.com/allisson/certify/internal/cache"
	"github.com/allisson/certify/internal/config"
	issuanceRepository "github.com/allisson/certify/internal/issuance/repository"
	issuanceUseCase "github.com/allisson/certify/internal/issuance/usecase"
	"github.com/allisson/certify/internal/metrics"
	refidDomain "github.com/allisson/certify/internal/refid/domain"
	refidService "github.com/allisson/certify/internal/refid/service"
	throttleService "github.com/allisson/certify/internal/throttle/service"
	throttleStore "github.com/allisson/certify/internal/throttle/store"
)

const (
	redisCachePrefix     = "certify:cache:"
	redisRateLimitPrefix = "certify:ratelimit:"
)

// Sweeper is a background loop deleting expired in-memory entries.
type Sweeper struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context, interval time.Duration)
}

// KMSService returns the KMS service used to decrypt the signing secret.
func (c *Container) KMSService() capabilityService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = capabilityService.NewKMSService()
	})
	return c.kmsService
}

// Signer returns the download capability signer.
func (c *Container) Signer() (capabilityService.Signer, error) {
	err := c.initialize(&c.signerInit, "signer", func() (err error) {
		c.signer, err = c.initSigner()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.signer, nil
}

// Codec returns the reference identifier codec for the configured campaign.
func (c *Container) Codec() (*refidDomain.Codec, error) {
	err := c.initialize(&c.codecInit, "codec", func() (err error) {
		c.codec, err = refidDomain.NewCodec(refidDomain.Campaign{
			District: c.config.CampaignDistrict,
			Program:  c.config.CampaignProgram,
			Year:     c.config.CampaignYear,
			Officer1: c.config.CampaignOfficer1,
			Officer2: c.config.CampaignOfficer2,
		})
		if err != nil {
			return fmt.Errorf("failed to create reference codec: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.codec, nil
}

// NumberSource returns the random source for certificate numbers.
func (c *Container) NumberSource() refidService.NumberSource {
	c.numberSourceInit.Do(func() {
		c.numberSource = refidService.NewRandomSource()
	})
	return c.numberSource
}

// Issuer returns the collision-retrying issuer shared by every use case.
func (c *Container) Issuer() (*issuanceUseCase.Issuer, error) {
	err := c.initialize(&c.issuerInit, "issuer", func() error {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return err
		}
		c.issuer = issuanceUseCase.NewIssuer(issuanceUseCase.IssuerConfig{
			MaxAttempts: c.config.IssuanceMaxAttempts,
			MinBackoff:  c.config.IssuanceBackoffMin,
			MaxBackoff:  c.config.IssuanceBackoffMax,
		}, c.Logger(), businessMetrics)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.issuer, nil
}

// StatsCache returns the cache backing aggregate counts.
func (c *Container) StatsCache() (cache.Cache, error) {
	err := c.initialize(&c.statsCacheInit, "statsCache", func() (err error) {
		c.statsCache, err = c.initStatsCache()
		return err
	})
	if err != nil {
		return nil, err
	}
	return c.statsCache, nil
}

// CounterStore returns the rate limit counter store for the configured backend.
func (c *Container) CounterStore() (throttleService.CounterStore, error) {
	err := c.initialize(&c.counterStoreInit, "counterStore", func() error {
		switch c.config.RateLimitBackend {
		case config.BackendRedis:
			client, err := c.Redis()
			if err != nil {
				return err
			}
			c.counterStore = throttleStore.NewRedisCounterStore(client, throttleStore.WithKeyPrefix(redisRateLimitPrefix))
		case config.BackendMemory, "":
			c.memoryCounter = throttleStore.NewMemoryCounterStore()
			c.counterStore = c.memoryCounter
		default:
			return fmt.Errorf("unsupported rate limit backend: %s", c.config.RateLimitBackend)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.counterStore, nil
}

// Limiter returns the instrumented rate limiter.
func (c *Container) Limiter() (throttleService.Limiter, error) {
	err := c.initialize(&c.limiterInit, "limiter", func() error {
		store, err := c.CounterStore()
		if err != nil {
			return err
		}
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return err
		}
		c.limiter = throttleService.NewLimiterWithMetrics(
			throttleService.NewLimiter(store, c.Logger()),
			businessMetrics,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.limiter, nil
}

// OrganizerRepository returns the organizer repository for the configured driver.
func (c *Container) OrganizerRepository() (issuanceUseCase.OrganizerRepository, error) {
	err := c.initialize(&c.organizerRepoInit, "organizerRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for organizer repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			c.organizerRepo = issuanceRepository.NewMySQLOrganizerRepository(db)
		case "postgres":
			c.organizerRepo = issuanceRepository.NewPostgreSQLOrganizerRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.organizerRepo, nil
}

// EventRepository returns the event repository for the configured driver.
func (c *Container) EventRepository() (issuanceUseCase.EventRepository, error) {
	err := c.initialize(&c.eventRepoInit, "eventRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for event repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			c.eventRepo = issuanceRepository.NewMySQLEventRepository(db)
		case "postgres":
			c.eventRepo = issuanceRepository.NewPostgreSQLEventRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.eventRepo, nil
}

// CertificateRepository returns the certificate repository for the configured driver.
func (c *Container) CertificateRepository() (issuanceUseCase.CertificateRepository, error) {
	err := c.initialize(&c.certificateRepoInit, "certificateRepo", func() error {
		db, err := c.DB()
		if err != nil {
			return fmt.Errorf("failed to get database for certificate repository: %w", err)
		}
		switch c.config.DBDriver {
		case "mysql":
			c.certificateRepo = issuanceRepository.NewMySQLCertificateRepository(db)
		case "postgres":
			c.certificateRepo = issuanceRepository.NewPostgreSQLCertificateRepository(db)
		default:
			return fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.certificateRepo, nil
}

// StatsUseCase returns the cached aggregate counts use case.
func (c *Container) StatsUseCase() (issuanceUseCase.StatsUseCase, error) {
	err := c.initialize(&c.statsUseCaseInit, "statsUseCase", func() error {
		organizerRepo, eventRepo, certificateRepo, err := c.repositories()
		if err != nil {
			return err
		}
		statsCache, err := c.StatsCache()
		if err != nil {
			return err
		}
		c.statsUseCase = issuanceUseCase.NewStatsUseCase(
			organizerRepo,
			eventRepo,
			certificateRepo,
			statsCache,
			c.config.CacheStatsTTL,
			c.Logger(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.statsUseCase, nil
}

// OrganizerUseCase returns the instrumented organizer use case.
func (c *Container) OrganizerUseCase() (issuanceUseCase.OrganizerUseCase, error) {
	err := c.initialize(&c.organizerUseCaseInit, "organizerUseCase", func() error {
		deps, err := c.issuanceDeps()
		if err != nil {
			return err
		}
		c.organizerUseCase = issuanceUseCase.NewOrganizerUseCaseWithMetrics(
			issuanceUseCase.NewOrganizerUseCase(deps.organizerRepo, deps.codec, deps.issuer, deps.stats),
			deps.metrics,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.organizerUseCase, nil
}

// EventUseCase returns the instrumented event use case.
func (c *Container) EventUseCase() (issuanceUseCase.EventUseCase, error) {
	err := c.initialize(&c.eventUseCaseInit, "eventUseCase", func() error {
		deps, err := c.issuanceDeps()
		if err != nil {
			return err
		}
		txManager, err := c.TxManager()
		if err != nil {
			return err
		}
		c.eventUseCase = issuanceUseCase.NewEventUseCaseWithMetrics(
			issuanceUseCase.NewEventUseCase(
				deps.eventRepo,
				deps.organizerRepo,
				deps.codec,
				deps.issuer,
				deps.stats,
				txManager,
			),
			deps.metrics,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.eventUseCase, nil
}

// CertificateUseCase returns the instrumented certificate use case.
func (c *Container) CertificateUseCase() (issuanceUseCase.CertificateUseCase, error) {
	err := c.initialize(&c.certificateUseCaseInit, "certificateUseCase", func() error {
		deps, err := c.issuanceDeps()
		if err != nil {
			return err
		}
		signer, err := c.Signer()
		if err != nil {
			return err
		}
		c.certificateUseCase = issuanceUseCase.NewCertificateUseCaseWithMetrics(
			issuanceUseCase.NewCertificateUseCase(
				deps.certificateRepo,
				deps.eventRepo,
				deps.codec,
				c.NumberSource(),
				signer,
				deps.issuer,
				deps.stats,
				c.Logger(),
			),
			deps.metrics,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.certificateUseCase, nil
}

// Sweepers returns the background loops for in-memory stores. Redis backends need none.
// Valid after HTTPServer has been built.
func (c *Container) Sweepers() []Sweeper {
	var sweepers []Sweeper
	if c.memoryCounter != nil {
		sweepers = append(sweepers, Sweeper{
			Name:     "rate_limit",
			Interval: c.config.RateLimitSweepInterval,
			Run:      c.memoryCounter.RunSweeper,
		})
	}
	if c.memoryCache != nil {
		sweepers = append(sweepers, Sweeper{
			Name:     "cache",
			Interval: c.config.CacheSweepInterval,
			Run:      c.memoryCache.RunSweeper,
		})
	}
	return sweepers
}

type issuanceDeps struct {
	organizerRepo   issuanceUseCase.OrganizerRepository
	eventRepo       issuanceUseCase.EventRepository
	certificateRepo issuanceUseCase.CertificateRepository
	codec           *refidDomain.Codec
	issuer          *issuanceUseCase.Issuer
	stats           issuanceUseCase.StatsUseCase
	metrics         metrics.BusinessMetrics
}

func (c *Container) repositories() (
	issuanceUseCase.OrganizerRepository,
	issuanceUseCase.EventRepository,
	issuanceUseCase.CertificateRepository,
	error,
) {
	organizerRepo, err := c.OrganizerRepository()
	if err != nil {
		return nil, nil, nil, err
	}
	eventRepo, err := c.EventRepository()
	if err != nil {
		return nil, nil, nil, err
	}
	certificateRepo, err := c.CertificateRepository()
	if err != nil {
		return nil, nil, nil, err
	}
	return organizerRepo, eventRepo, certificateRepo, nil
}

func (c *Container) issuanceDeps() (*issuanceDeps, error) {
	organizerRepo, eventRepo, certificateRepo, err := c.repositories()
	if err != nil {
		return nil, err
	}
	codec, err := c.Codec()
	if err != nil {
		return nil, err
	}
	issuer, err := c.Issuer()
	if err != nil {
		return nil, err
	}
	stats, err := c.StatsUseCase()
	if err != nil {
		return nil, err
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}
	return &issuanceDeps{
		organizerRepo:   organizerRepo,
		eventRepo:       eventRepo,
		certificateRepo: certificateRepo,
		codec:           codec,
		issuer:          issuer,
		stats:           stats,
		metrics:         businessMetrics,
	}, nil
}

func (c *Container) initSigner() (capabilityService.Signer, error) {
	secret, err := capabilityService.LoadSecret(
		context.Background(),
		c.KMSService(),
		c.config.CapabilitySecret,
		c.config.KMSKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load capability secret: %w", err)
	}

	signer, err := capabilityService.NewHMACSigner(secret, c.config.CapabilityTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create capability signer: %w", err)
	}
	return signer, nil
}

func (c *Container) initStatsCache() (cache.Cache, error) {
	var store cache.Cache
	switch c.config.CacheBackend {
	case config.BackendRedis:
		client, err := c.Redis()
		if err != nil {
			return nil, err
		}
		store = cache.NewRedisCache(client, redisCachePrefix)
	case config.BackendMemory, "":
		c.memoryCache = cache.NewMemoryCache()
		store = c.memoryCache
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", c.config.CacheBackend)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}
	return cache.NewCacheWithMetrics(store, businessMetrics), nil
}
