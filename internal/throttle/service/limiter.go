package service

import (
	"context"
	"log/slog"
	"time"

	throttleDomain "github.com/allisson/certify/internal/throttle/domain"
)

type limiter struct {
	store  CounterStore
	logger *slog.Logger
	now    Clock
}

// NewLimiter creates a Limiter over store. Store failures are logged and fail open.
func NewLimiter(store CounterStore, logger *slog.Logger) Limiter {
	return &limiter{store: store, logger: logger, now: time.Now}
}

// Check records a request for key under policy.
func (l *limiter) Check(ctx context.Context, key string, policy throttleDomain.Policy) throttleDomain.Decision {
	decision, err := l.store.Hit(ctx, key, policy)
	if err != nil {
		l.logger.Error("rate limit store unavailable, admitting request",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return throttleDomain.Decision{
			Allowed:   true,
			Limit:     policy.MaxRequests,
			Remaining: policy.MaxRequests,
			ResetAt:   l.now().Add(policy.Window),
		}
	}
	return decision
}
