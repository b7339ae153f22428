package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	throttleDomain "github.com/allisson/certify/internal/throttle/domain"
)

// fixedWindowScript implements the fixed window atomically.
// KEYS[1] counter key, ARGV[1] max requests, ARGV[2] window in milliseconds.
// Returns {allowed, count, pttl}.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if not current or ttl < 0 then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[2])
  return {1, 1, tonumber(ARGV[2])}
end
local count = tonumber(current)
if count >= tonumber(ARGV[1]) then
  return {0, count, ttl}
end
count = redis.call('INCR', KEYS[1])
return {1, count, ttl}
`)

// RedisCounterStore keeps windows in Redis so every instance shares the same limits.
// Key expiry takes the place of the in-process sweep.
type RedisCounterStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// RedisOption configures a RedisCounterStore.
type RedisOption func(*RedisCounterStore)

// WithKeyPrefix overrides the default "ratelimit:" key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisCounterStore) {
		s.prefix = prefix
	}
}

// NewRedisCounterStore creates a counter store backed by client.
func NewRedisCounterStore(client *redis.Client, opts ...RedisOption) *RedisCounterStore {
	s := &RedisCounterStore{
		client: client,
		prefix: "ratelimit:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit records a request for key.
func (s *RedisCounterStore) Hit(
	ctx context.Context,
	key string,
	policy throttleDomain.Policy,
) (throttleDomain.Decision, error) {
	if err := policy.Validate(); err != nil {
		return throttleDomain.Decision{}, err
	}

	res, err := fixedWindowScript.Run(
		ctx,
		s.client,
		[]string{s.prefix + key},
		policy.MaxRequests,
		policy.Window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return throttleDomain.Decision{}, fmt.Errorf("run fixed window script: %w", err)
	}
	if len(res) != 3 {
		return throttleDomain.Decision{}, fmt.Errorf("unexpected fixed window reply length %d", len(res))
	}

	count := int(res[1])
	return throttleDomain.Decision{
		Allowed:   res[0] == 1,
		Limit:     policy.MaxRequests,
		Remaining: max(policy.MaxRequests-count, 0),
		ResetAt:   s.now().Add(time.Duration(res[2]) * time.Millisecond),
	}, nil
}
