package service

import (
	"context"
	"strings"

	"github.com/allisson/certify/internal/metrics"
	throttleDomain "github.com/allisson/certify/internal/throttle/domain"
)

type limiterWithMetrics struct {
	next    Limiter
	metrics metrics.BusinessMetrics
}

// NewLimiterWithMetrics counts decisions per scope as "allowed" or "rejected".
// Keys are expected as "<scope>:<client>"; only the scope is used as a label.
func NewLimiterWithMetrics(next Limiter, m metrics.BusinessMetrics) Limiter {
	return &limiterWithMetrics{next: next, metrics: m}
}

func (l *limiterWithMetrics) Check(
	ctx context.Context,
	key string,
	policy throttleDomain.Policy,
) throttleDomain.Decision {
	decision := l.next.Check(ctx, key, policy)

	scope, _, _ := strings.Cut(key, ":")
	status := "allowed"
	if !decision.Allowed {
		status = "rejected"
	}
	l.metrics.RecordOperation(ctx, metrics.DomainThrottle, scope, status)

	return decision
}
