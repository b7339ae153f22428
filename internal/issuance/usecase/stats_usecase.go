package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/allisson/certify/internal/cache"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
)

// StatsCacheKey is the cache entry holding aggregate counts.
const StatsCacheKey = "issuance:stats"

// statsUseCase implements StatsUseCase over a read-through cache.
type statsUseCase struct {
	organizerRepo   OrganizerRepository
	eventRepo       EventRepository
	certificateRepo CertificateRepository
	cache           cache.Cache
	ttl             time.Duration
	logger          *slog.Logger
}

// NewStatsUseCase creates a new StatsUseCase. Counts are cached for ttl.
func NewStatsUseCase(
	organizerRepo OrganizerRepository,
	eventRepo EventRepository,
	certificateRepo CertificateRepository,
	c cache.Cache,
	ttl time.Duration,
	logger *slog.Logger,
) StatsUseCase {
	return &statsUseCase{
		organizerRepo:   organizerRepo,
		eventRepo:       eventRepo,
		certificateRepo: certificateRepo,
		cache:           c,
		ttl:             ttl,
		logger:          logger,
	}
}

// Get returns cached counts, computing and caching them on a miss.
// Cache failures are logged and bypassed.
func (s *statsUseCase) Get(ctx context.Context) (*issuanceDomain.Stats, error) {
	cached, ok, err := cache.GetJSON[issuanceDomain.Stats](ctx, s.cache, StatsCacheKey)
	if err != nil {
		s.logger.Warn("stats cache read failed", slog.Any("error", err))
	}
	if ok {
		return &cached, nil
	}

	stats := &issuanceDomain.Stats{GeneratedAt: time.Now().UTC()}
	if stats.Organizers, err = s.organizerRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Events, err = s.eventRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ApprovedEvents, err = s.eventRepo.CountApproved(ctx); err != nil {
		return nil, err
	}
	if stats.Certificates, err = s.certificateRepo.Count(ctx); err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, StatsCacheKey, stats, s.ttl); err != nil {
		s.logger.Warn("stats cache write failed", slog.Any("error", err))
	}
	return stats, nil
}

// Invalidate drops cached counts after a write.
func (s *statsUseCase) Invalidate(ctx context.Context) {
	if err := s.cache.Clear(ctx, StatsCacheKey); err != nil {
		s.logger.Warn("stats cache invalidation failed", slog.Any("error", err))
	}
}
