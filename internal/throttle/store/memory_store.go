// Package store provides fixed-window counter stores for rate limiting.
package store

import (
	"context"
	"sync"
	"time"

	throttleDomain "github.com/allisson/certify/internal/throttle/domain"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryCounterStore keeps windows in process memory.
// Limits are per process; run RedisCounterStore to share them between instances.
type MemoryCounterStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// MemoryOption configures a MemoryCounterStore.
type MemoryOption func(*MemoryCounterStore)

// WithMemoryClock overrides the store time source.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *MemoryCounterStore) {
		s.now = now
	}
}

// NewMemoryCounterStore creates an empty in-process counter store.
func NewMemoryCounterStore(opts ...MemoryOption) *MemoryCounterStore {
	s := &MemoryCounterStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit records a request for key.
func (s *MemoryCounterStore) Hit(
	_ context.Context,
	key string,
	policy throttleDomain.Policy,
) (throttleDomain.Decision, error) {
	if err := policy.Validate(); err != nil {
		return throttleDomain.Decision{}, err
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{count: 1, resetAt: now.Add(policy.Window)}
		s.windows[key] = w
		return decision(true, policy.MaxRequests, w), nil
	}

	if w.count >= policy.MaxRequests {
		return decision(false, policy.MaxRequests, w), nil
	}

	w.count++
	return decision(true, policy.MaxRequests, w), nil
}

func decision(allowed bool, limit int, w *window) throttleDomain.Decision {
	return throttleDomain.Decision{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: max(limit-w.count, 0),
		ResetAt:   w.resetAt,
	}
}

// Sweep removes windows whose reset time has passed and returns how many were removed.
func (s *MemoryCounterStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if now.After(w.resetAt) {
			delete(s.windows, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked windows.
func (s *MemoryCounterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (s *MemoryCounterStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
