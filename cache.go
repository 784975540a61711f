package memocache

import (
	"iter"

	"github.com/djdv/go-memocache/internal/recency"
)

type (
	node[Key comparable, Value any] = recency.Node[Key, Value]
	list[Key comparable, Value any] = recency.List[Key, Value]
	// Cache is the capability shared by every eviction policy.
	// All implementations in this package are safe for concurrent use
	// and never return errors; misconfiguration is clamped at
	// construction rather than rejected.
	Cache[Key comparable, Value any] interface {
		// Get returns the value for key if it is resident
		// (and, for time-based policies, not expired);
		// otherwise it returns the zero value and false.
		Get(Key) (Value, bool)
		// Set inserts or overwrites key with value,
		// evicting at most one entry if the cache is full.
		Set(Key, Value)
		// Clear empties the cache and resets its statistics.
		Clear()
		// Len returns the number of resident entries.
		Len() int
		// Cap returns the capacity fixed at construction.
		Cap() int
	}
)

// Load returns the cached value for key (if resident). Otherwise, it calls
// fetch, inserts and returns the value on success.
// If fetch returns an error, the value is not cached.
func Load[Key comparable, Value any](
	cache Cache[Key, Value],
	key Key, fetch func() (Value, error),
) (Value, error) {
	if value, ok := cache.Get(key); ok {
		return value, nil
	}
	value, err := fetch()
	if err != nil {
		return value, err
	}
	cache.Set(key, value)
	return value, nil
}

// clampCapacity coerces non-positive capacities to the minimum of 1.
// A misconfigured cache degrades to capacity 1 instead of failing.
func clampCapacity(capacity int) int {
	return max(capacity, 1)
}

// keysSeq copies keys (called under the owner's lock)
// and returns an iterator over the copy.
func keysSeq[Key comparable](keys []Key) iter.Seq[Key] {
	return func(yield func(Key) bool) {
		for _, key := range keys {
			if !yield(key) {
				return
			}
		}
	}
}
