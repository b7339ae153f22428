package cache

import (
	"context"
	"time"

	"github.com/allisson/certify/internal/metrics"
)

// cacheWithMetrics decorates a Cache with hit, miss and error counters.
type cacheWithMetrics struct {
	next    Cache
	metrics metrics.BusinessMetrics
}

// NewCacheWithMetrics wraps a Cache with metrics instrumentation.
func NewCacheWithMetrics(next Cache, m metrics.BusinessMetrics) Cache {
	return &cacheWithMetrics{next: next, metrics: m}
}

// Get records "hit", "miss" or "error".
func (c *cacheWithMetrics) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok, err := c.next.Get(ctx, key)

	status := "miss"
	switch {
	case err != nil:
		status = metrics.StatusError
	case ok:
		status = "hit"
	}
	c.metrics.RecordOperation(ctx, metrics.DomainCache, "get", status)

	return val, ok, err
}

// Set records "success" or "error".
func (c *cacheWithMetrics) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.next.Set(ctx, key, value, ttl)
	c.metrics.RecordOperation(ctx, metrics.DomainCache, "set", metrics.StatusOf(err))
	return err
}

// Clear records "success" or "error".
func (c *cacheWithMetrics) Clear(ctx context.Context, keys ...string) error {
	err := c.next.Clear(ctx, keys...)
	c.metrics.RecordOperation(ctx, metrics.DomainCache, "clear", metrics.StatusOf(err))
	return err
}
