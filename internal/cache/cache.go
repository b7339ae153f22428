// Package cache provides a TTL key-value cache for derived read results.
//
// Entries are replace-only and expire lazily on read. Stores also sweep expired
// entries in the background (in-process) or rely on key expiry (Redis).
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/allisson/certify/internal/errors"
)

// ErrInvalidTTL indicates a non-positive TTL.
var ErrInvalidTTL = errors.Wrap(errors.ErrInvalidInput, "cache ttl must be positive")

// Cache stores opaque values with a per-entry TTL.
type Cache interface {
	// Get returns the value for key. The bool is false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key until ttl elapses, replacing any existing entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear removes the given keys, or every entry when called with no keys.
	Clear(ctx context.Context, keys ...string) error
}

// GetJSON reads key and decodes it into a T.
func GetJSON[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var out T

	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return out, false, err
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("failed to decode cached value for %q: %w", key, err)
	}
	return out, true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value for %q: %w", key, err)
	}
	return c.Set(ctx, key, raw, ttl)
}
