package memocache

import "math"

// Memoize wraps a continuous function with a cache, discretizing inputs
// by the precision step: every position within the same
// floor(x/precision) bucket maps to the same key, and therefore to the
// same cached value, even if f is nondeterministic or expensive. The
// returned function is not guaranteed to equal f pointwise; precision
// bucketing intentionally trades exactness for hit rate.
//
// Non-positive precisions are coerced to [DefaultPrecision].
// The wrapper holds no state of its own beyond the cache it was given,
// and is safe for concurrent use whenever the cache is.
func Memoize(
	f func(float64) float64,
	precision float64,
	cache Cache[int64, float64],
) func(float64) float64 {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	return func(position float64) float64 {
		bucket := discretize(position, precision)
		if value, ok := cache.Get(bucket); ok {
			return value
		}
		value := f(position)
		cache.Set(bucket, value)
		return value
	}
}

// discretize maps a continuous position to its integer precision bucket.
func discretize(position, precision float64) int64 {
	return int64(math.Floor(position / precision))
}
