package memocache_test

import (
	"testing"
	"time"

	memocache "github.com/djdv/go-memocache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpiring_LazyExpiry(t *testing.T) {
	t.Parallel()
	const (
		capacity = 4
		ttl      = 50 * time.Millisecond
	)
	cache := memocache.NewExpiring[string, string](capacity, ttl)
	t.Cleanup(func() { _ = cache.Close() })

	cache.Set("key", "value")
	value, ok := cache.Get("key")
	require.True(t, ok)
	require.Equal(t, "value", value)

	time.Sleep(2 * ttl)
	_, ok = cache.Get("key")
	assert.False(t, ok, "an expired entry must never be observed")
	assert.Zero(t, cache.Len(), "lazy expiry removes the entry on read")
}

func TestExpiring_OverwriteRestartsTTL(t *testing.T) {
	t.Parallel()
	const ttl = 80 * time.Millisecond
	cache := memocache.NewExpiring[string, int](1, ttl)
	t.Cleanup(func() { _ = cache.Close() })

	cache.Set("key", 1)
	time.Sleep(ttl / 2)
	cache.Set("key", 2)
	time.Sleep(ttl / 2)
	// The first deadline has passed but the overwrite renewed it.
	value, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, 2, value)
}

func TestExpiring_EvictsNearestDeadline(t *testing.T) {
	t.Parallel()
	const (
		capacity = 3
		ttl      = time.Hour
	)
	cache := memocache.NewExpiring[int, int](capacity, ttl)
	t.Cleanup(func() { _ = cache.Close() })

	// Insertion order fixes deadline order; key 1 expires first.
	for key := 1; key <= capacity; key++ {
		cache.Set(key, key)
		time.Sleep(time.Millisecond)
	}
	// Recency must not matter: touch key 1 and overflow anyway.
	_, ok := cache.Get(1)
	require.True(t, ok)
	cache.Set(capacity+1, capacity+1)

	_, ok = cache.Get(1)
	assert.False(t, ok, "time-priority eviction removes the nearest deadline")
	for key := 2; key <= capacity+1; key++ {
		_, ok := cache.Get(key)
		assert.True(t, ok, "key %d should survive", key)
	}
}

func TestExpiring_SweepWithoutTraffic(t *testing.T) {
	t.Parallel()
	const (
		capacity = 8
		ttl      = 20 * time.Millisecond
		interval = 10 * time.Millisecond
	)
	cache := memocache.NewExpiring[int, int](
		capacity, ttl,
		memocache.WithSweepInterval(interval))
	t.Cleanup(func() { _ = cache.Close() })

	for key := range capacity {
		cache.Set(key, key)
	}
	require.Equal(t, capacity, cache.Len())
	// No Get/Set traffic from here on: only the sweep can
	// remove the entries.
	require.Eventually(t, func() bool {
		return cache.Len() == 0
	}, time.Second, interval/2,
		"the periodic sweep should purge expired entries on its own")
}

func TestExpiring_CloseStopsSweeper(t *testing.T) {
	t.Parallel()
	cache := memocache.NewExpiring[int, int](
		2, time.Minute,
		memocache.WithSweepInterval(5*time.Millisecond))
	require.NoError(t, cache.Close())
	// Idempotent.
	require.NoError(t, cache.Close())
	// The cache stays usable after shutdown.
	cache.Set(1, 1)
	value, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, 1, value)
}

func TestExpiring_ClampedTTL(t *testing.T) {
	t.Parallel()
	cache := memocache.NewExpiring[int, int](2, -time.Second)
	t.Cleanup(func() { _ = cache.Close() })
	// A non-positive TTL is coerced to a minimum positive duration
	// rather than rejected; entries simply expire near-immediately.
	cache.Set(1, 1)
	time.Sleep(10 * time.Millisecond)
	_, ok := cache.Get(1)
	assert.False(t, ok)
}
