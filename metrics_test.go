package memocache_test

import (
	"strings"
	"testing"

	memocache "github.com/djdv/go-memocache"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Parallel()
	cache := memocache.NewRecency[int, int](4)
	collector := memocache.NewCollector("curve", cache)

	cache.Set(1, 1)
	cache.Get(1) // Hit.
	cache.Get(2) // Miss.

	const metrics = 6
	assert.Equal(t, metrics, testutil.CollectAndCount(collector))

	const want = `
# HELP memocache_entries Resident entries.
# TYPE memocache_entries gauge
memocache_entries{cache="curve"} 1
# HELP memocache_hit_rate Hits over total lookups; 0 before any lookup.
# TYPE memocache_hit_rate gauge
memocache_hit_rate{cache="curve"} 0.5
# HELP memocache_hits_total Lookups answered from the cache.
# TYPE memocache_hits_total counter
memocache_hits_total{cache="curve"} 1
# HELP memocache_misses_total Lookups that missed, including expired entries.
# TYPE memocache_misses_total counter
memocache_misses_total{cache="curve"} 1
`
	require.NoError(t, testutil.CollectAndCompare(
		collector, strings.NewReader(want),
		"memocache_entries",
		"memocache_hit_rate",
		"memocache_hits_total",
		"memocache_misses_total",
	))
}

func TestCollectorLint(t *testing.T) {
	t.Parallel()
	cache := memocache.NewSegmented[string, string](8)
	problems, err := testutil.CollectAndLint(
		memocache.NewCollector("patterns", cache))
	require.NoError(t, err)
	assert.Empty(t, problems)
}
