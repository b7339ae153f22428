package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	apperrors "github.com/allisson/certify/internal/errors"
	issuanceDomain "github.com/allisson/certify/internal/issuance/domain"
	"github.com/allisson/certify/internal/metrics"
	refidDomain "github.com/allisson/certify/internal/refid/domain"
)

// Candidate is a derived reference identifier not yet persisted.
type Candidate struct {
	ReferenceID string
	Number      int
}

// DeriveFunc produces the next candidate. It runs again on every attempt.
type DeriveFunc func(ctx context.Context) (Candidate, error)

// InsertFunc attempts to persist the record under candidate.
// It must return ErrReferenceConflict when the identifier is already taken.
type InsertFunc func(ctx context.Context, candidate Candidate) error

// IssuerConfig bounds the retry loop.
type IssuerConfig struct {
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
}

// DefaultIssuerConfig returns five attempts with 20ms to 200ms randomized backoff.
func DefaultIssuerConfig() IssuerConfig {
	return IssuerConfig{MaxAttempts: 5, MinBackoff: 20 * time.Millisecond, MaxBackoff: 200 * time.Millisecond}
}

// Issuer runs derive/insert attempts until one succeeds, a terminal error occurs
// or MaxAttempts is reached. Only ErrReferenceConflict is retried.
type Issuer struct {
	cfg     IssuerConfig
	logger  *slog.Logger
	metrics metrics.BusinessMetrics
}

// NewIssuer creates an Issuer. Non-positive settings fall back to DefaultIssuerConfig.
func NewIssuer(cfg IssuerConfig, logger *slog.Logger, m metrics.BusinessMetrics) *Issuer {
	def := DefaultIssuerConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.MinBackoff <= 0 {
		cfg.MinBackoff = def.MinBackoff
	}
	if cfg.MaxBackoff < cfg.MinBackoff {
		cfg.MaxBackoff = cfg.MinBackoff
	}
	if m == nil {
		m = metrics.NewNoOpBusinessMetrics()
	}
	return &Issuer{cfg: cfg, logger: logger, metrics: m}
}

func (i *Issuer) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = i.cfg.MinBackoff
	b.MaxInterval = i.cfg.MaxBackoff
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	b.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(i.cfg.MaxAttempts-1)), ctx) //nolint:gosec // positive
}

// Issue returns the candidate that was persisted.
//
// Failed candidates are never returned. Exhausting the attempts yields ErrIssuanceExhausted and
// a cancelled or expired ctx yields an error wrapping ErrRetryable.
func (i *Issuer) Issue(ctx context.Context, kind refidDomain.Kind, derive DeriveFunc, insert InsertFunc) (Candidate, error) {
	var issued Candidate
	attempt := 0

	operation := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++

		candidate, err := derive(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}

		err = insert(ctx, candidate)
		if err == nil {
			issued = candidate
			return nil
		}
		if !apperrors.Is(err, issuanceDomain.ErrReferenceConflict) {
			return backoff.Permanent(err)
		}

		i.logger.Warn("reference id collision",
			slog.String("kind", kind.String()),
			slog.String("reference_id", candidate.ReferenceID),
			slog.Int("attempt", attempt),
		)
		i.metrics.RecordOperation(ctx, metrics.DomainIssuance, "collision", kind.String())
		return err
	}

	err := backoff.Retry(operation, i.newBackOff(ctx))
	switch {
	case err == nil:
		return issued, nil
	case apperrors.Is(err, context.Canceled) || apperrors.Is(err, context.DeadlineExceeded):
		return Candidate{}, apperrors.Wrapf(apperrors.ErrRetryable, "%s issuance aborted: %v", kind, err)
	case apperrors.Is(err, issuanceDomain.ErrReferenceConflict):
		i.logger.Error("reference id allocation exhausted",
			slog.String("kind", kind.String()),
			slog.Int("attempts", attempt),
		)
		i.metrics.RecordOperation(ctx, metrics.DomainIssuance, "exhausted", kind.String())
		return Candidate{}, issuanceDomain.ErrIssuanceExhausted
	default:
		return Candidate{}, err
	}
}
