package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	throttleDomain "github.com/allisson/certify/internal/throttle/domain"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryCounterStore_Hit(t *testing.T) {
	ctx := context.Background()
	policy := throttleDomain.Policy{MaxRequests: 3, Window: time.Minute}

	t.Run("admits up to max then rejects", func(t *testing.T) {
		clock := newClock()
		store := NewMemoryCounterStore(WithMemoryClock(clock.Now))

		for i := 1; i <= 3; i++ {
			d, err := store.Hit(ctx, "10.0.0.1", policy)
			require.NoError(t, err)
			assert.True(t, d.Allowed, "request %d", i)
			assert.Equal(t, 3-i, d.Remaining)
			assert.Equal(t, 3, d.Limit)
			assert.Equal(t, clock.now.Add(time.Minute), d.ResetAt)
		}

		d, err := store.Hit(ctx, "10.0.0.1", policy)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, 0, d.Remaining)
	})

	t.Run("rejection does not extend the window", func(t *testing.T) {
		clock := newClock()
		store := NewMemoryCounterStore(WithMemoryClock(clock.Now))
		single := throttleDomain.Policy{MaxRequests: 1, Window: time.Minute}

		first, err := store.Hit(ctx, "k", single)
		require.NoError(t, err)
		require.True(t, first.Allowed)

		for i := 0; i < 5; i++ {
			clock.Advance(10 * time.Second)
			d, err := store.Hit(ctx, "k", single)
			require.NoError(t, err)
			assert.False(t, d.Allowed)
			assert.Equal(t, first.ResetAt, d.ResetAt)
		}
	})

	t.Run("new window after reset time", func(t *testing.T) {
		clock := newClock()
		store := NewMemoryCounterStore(WithMemoryClock(clock.Now))

		for i := 0; i < 4; i++ {
			_, err := store.Hit(ctx, "k", policy)
			require.NoError(t, err)
		}

		clock.Advance(time.Minute)
		d, err := store.Hit(ctx, "k", policy)
		require.NoError(t, err)
		assert.False(t, d.Allowed, "window still open exactly at reset time")

		clock.Advance(time.Millisecond)
		d, err = store.Hit(ctx, "k", policy)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2, d.Remaining)
		assert.Equal(t, clock.now.Add(time.Minute), d.ResetAt)
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := NewMemoryCounterStore()
		single := throttleDomain.Policy{MaxRequests: 1, Window: time.Minute}

		d, err := store.Hit(ctx, "a", single)
		require.NoError(t, err)
		assert.True(t, d.Allowed)

		d, err = store.Hit(ctx, "b", single)
		require.NoError(t, err)
		assert.True(t, d.Allowed)

		d, err = store.Hit(ctx, "a", single)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})

	t.Run("invalid policy", func(t *testing.T) {
		store := NewMemoryCounterStore()
		_, err := store.Hit(ctx, "k", throttleDomain.Policy{})
		assert.ErrorIs(t, err, throttleDomain.ErrInvalidPolicy)
	})
}

func TestMemoryCounterStore_ConcurrentHits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCounterStore()
	policy := throttleDomain.Policy{MaxRequests: 50, Window: time.Hour}

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := store.Hit(ctx, "shared", policy)
			if err == nil && d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestMemoryCounterStore_Sweep(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := NewMemoryCounterStore(WithMemoryClock(clock.Now))

	_, err := store.Hit(ctx, "short", throttleDomain.Policy{MaxRequests: 1, Window: time.Second})
	require.NoError(t, err)
	_, err = store.Hit(ctx, "long", throttleDomain.Policy{MaxRequests: 1, Window: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	clock.Advance(2 * time.Second)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryCounterStore_RunSweeper(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newClock()
	store := NewMemoryCounterStore(WithMemoryClock(clock.Now))
	_, err := store.Hit(context.Background(), "k", throttleDomain.Policy{MaxRequests: 1, Window: time.Second})
	require.NoError(t, err)
	clock.Advance(2 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
