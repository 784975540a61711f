package memocache_test

import (
	"math"
	"math/rand"
	"testing"

	memocache "github.com/djdv/go-memocache"
)

func TestMemoize(t *testing.T) {
	t.Run("single evaluation per bucket", singleEvaluationPerBucket)
	t.Run("bucket boundaries", bucketBoundaries)
	t.Run("negative positions", negativePositions)
	t.Run("clamped precision", clampedPrecision)
}

// Two positions in the same precision bucket must return the identical
// cached value, even for a nondeterministic function: proof that the
// function ran once.
func singleEvaluationPerBucket(t *testing.T) {
	t.Parallel()
	const precision = 0.01
	var (
		rng         = rand.New(rand.NewSource(1))
		evaluations int
		noisy       = func(float64) float64 {
			evaluations++
			return rng.Float64()
		}
		cache    = memocache.NewRecency[int64, float64](64)
		memoized = memocache.Memoize(noisy, precision, cache)
	)
	first := memoized(0.031)
	second := memoized(0.034)
	if first != second {
		t.Fatalf(
			"expected positions in one bucket to share a value"+
				"\n\tgot: %v and %v",
			first, second)
	}
	if evaluations != 1 {
		t.Fatalf(
			"expected a single evaluation, got: %d",
			evaluations)
	}
}

func bucketBoundaries(t *testing.T) {
	t.Parallel()
	const precision = 0.01
	var (
		identity = func(position float64) float64 { return position }
		cache    = memocache.NewRecency[int64, float64](64)
		memoized = memocache.Memoize(identity, precision, cache)
	)
	// 0.019 and 0.021 straddle the floor(x/0.01) boundary.
	low, high := memoized(0.019), memoized(0.021)
	if low == high {
		t.Fatal("expected distinct buckets to evaluate independently")
	}
}

// floor-based discretization buckets negative positions
// away from their positive mirrors.
func negativePositions(t *testing.T) {
	t.Parallel()
	const precision = 0.01
	var (
		identity = func(position float64) float64 { return position }
		cache    = memocache.NewRecency[int64, float64](64)
		memoized = memocache.Memoize(identity, precision, cache)
	)
	negative := memoized(-0.005)
	positive := memoized(0.005)
	if negative == positive {
		t.Fatal("expected -0.005 and 0.005 to occupy distinct buckets")
	}
	if got := memoized(-0.004); got != negative {
		t.Fatalf(
			"expected -0.004 to share the bucket of -0.005"+
				"\n\tgot: %v"+
				"\n\twant: %v",
			got, negative)
	}
}

func clampedPrecision(t *testing.T) {
	t.Parallel()
	var (
		evaluations int
		evaluate    = func(position float64) float64 {
			evaluations++
			return math.Sin(position)
		}
		cache = memocache.NewRecency[int64, float64](64)
		// Invalid precision falls back to the default step.
		memoized = memocache.Memoize(evaluate, -1, cache)
	)
	// Mid-bucket positions for the default 0.001 step.
	first := memoized(0.0103)
	if got := memoized(0.0107); got != first {
		t.Fatal("expected default-precision bucketing after clamping")
	}
	if evaluations != 1 {
		t.Fatalf("expected a single evaluation, got: %d", evaluations)
	}
}
