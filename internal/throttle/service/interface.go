// Package service provides the rate limiter used by request admission middleware.
package service

import (
	"context"
	"time"

	throttleDomain "github.com/allisson/certify/internal/throttle/domain"
)

// CounterStore holds fixed-window counters keyed by client and scope.
type CounterStore interface {
	// Hit records a request against key. A missing or elapsed window is replaced by a
	// fresh one with count 1. A full window rejects without incrementing.
	Hit(ctx context.Context, key string, policy throttleDomain.Policy) (throttleDomain.Decision, error)
}

// Limiter decides whether a request may proceed.
type Limiter interface {
	// Check never fails. Counter store errors admit the request.
	Check(ctx context.Context, key string, policy throttleDomain.Policy) throttleDomain.Decision
}

// Clock returns the current time.
type Clock func() time.Time
