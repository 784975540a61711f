package memocache_test

import (
	"testing"

	memocache "github.com/djdv/go-memocache"
)

func TestSegmented(t *testing.T) {
	t.Run("insert to probationary", insertToProbationary)
	t.Run("promotion protects", promotionProtects)
	t.Run("scan resistance", scanResistance)
	t.Run("demotion under pressure", demotionUnderPressure)
	t.Run("protected eviction fallback", protectedEvictionFallback)
}

// A key seen once sits in probationary and is the first
// eviction victim on overflow.
func insertToProbationary(t *testing.T) {
	t.Parallel()
	const capacity = 4
	cache := memocache.NewSegmented[int, int](capacity)
	addIncrementingInts(cache, capacity)
	cache.Set(capacity+1, capacity+1)
	mustMiss(t, cache, 1, "probationary keys evict oldest-first")
	checkSize(t, cache, capacity, "after overflow")
}

// Re-accessing a key promotes it to protected, making it resistant
// to the eviction pressure of a stream of fresh keys.
func promotionProtects(t *testing.T) {
	t.Parallel()
	const (
		capacity = 10
		hotKey   = 1
	)
	cache := memocache.NewSegmented[int, int](capacity)
	cache.Set(hotKey, hotKey)
	mustGet(t, cache, hotKey) // Second access: promoted.
	// Flood with fresh keys well past the probationary budget.
	for key := 100; key < 100+capacity*2; key++ {
		cache.Set(key, key)
	}
	mustGet(t, cache, hotKey)
	checkSize(t, cache, capacity, "after flooding")
}

// A single-pass scan fills and drains probationary without
// disturbing the protected set.
func scanResistance(t *testing.T) {
	t.Parallel()
	const capacity = 10
	cache := memocache.NewSegmented[int, int](capacity)
	hot := []int{1, 2, 3}
	for _, key := range hot {
		cache.Set(key, key)
		mustGet(t, cache, key)
	}
	for key := 1000; key < 1000+capacity*4; key++ {
		cache.Set(key, key)
	}
	for _, key := range hot {
		mustGet(t, cache, key)
	}
}

// When protected is at its budget, a promotion demotes the protected
// LRU back to probationary, where fresh-key pressure can evict it.
func demotionUnderPressure(t *testing.T) {
	t.Parallel()
	const capacity = 5 // Protected budget: 4.
	cache := memocache.NewSegmented[int, int](capacity)
	// Promote 1..4, filling protected; 1 is its LRU.
	for key := 1; key <= 4; key++ {
		cache.Set(key, key)
		mustGet(t, cache, key)
	}
	// Promoting a fifth key demotes 1 to probationary.
	cache.Set(5, 5)
	mustGet(t, cache, 5)
	// Probationary now holds the demoted 1; two fresh keys
	// push it out while the protected keys survive.
	cache.Set(6, 6)
	cache.Set(7, 7)
	mustMiss(t, cache, 1, "demoted key being evicted from probationary")
	for key := 2; key <= 5; key++ {
		mustGet(t, cache, key)
	}
}

// With an empty probationary segment,
// overflow falls back to evicting the protected LRU.
func protectedEvictionFallback(t *testing.T) {
	t.Parallel()
	const capacity = 1
	cache := memocache.NewSegmented[int, int](capacity)
	cache.Set(1, 1)
	mustGet(t, cache, 1) // Promoted; probationary is now empty.
	cache.Set(2, 2)
	mustMiss(t, cache, 1, "protected being the only non-empty segment")
	mustGet(t, cache, 2)
	checkSize(t, cache, capacity, "after the fallback eviction")
}
