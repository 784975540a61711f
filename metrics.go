package memocache

import "github.com/prometheus/client_golang/prometheus"

// StatsSource is satisfied by every cache in this package.
type StatsSource interface {
	Stats() Stats
}

// Collector adapts a cache's [Stats] to a [prometheus.Collector].
// The core never registers anything itself; callers opt in by
// registering a Collector with their registry of choice.
type Collector struct {
	source    StatsSource
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	hitRate   *prometheus.Desc
	entries   *prometheus.Desc
	capacity  *prometheus.Desc
}

// NewCollector creates a [Collector] for source. The cache label
// distinguishes multiple caches registered in the same registry.
func NewCollector(cache string, source StatsSource) *Collector {
	labels := prometheus.Labels{"cache": cache}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("memocache_"+name, help, nil, labels)
	}
	return &Collector{
		source:    source,
		hits:      desc("hits_total", "Lookups answered from the cache."),
		misses:    desc("misses_total", "Lookups that missed, including expired entries."),
		evictions: desc("evictions_total", "Entries removed to respect capacity."),
		hitRate:   desc("hit_rate", "Hits over total lookups; 0 before any lookup."),
		entries:   desc("entries", "Resident entries."),
		capacity:  desc("capacity", "Capacity fixed at construction."),
	}
}

// Describe implements [prometheus.Collector].
func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.hits
	descs <- c.misses
	descs <- c.evictions
	descs <- c.hitRate
	descs <- c.entries
	descs <- c.capacity
}

// Collect implements [prometheus.Collector].
func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	stats := c.source.Stats()
	metrics <- prometheus.MustNewConstMetric(
		c.hits, prometheus.CounterValue, float64(stats.Hits))
	metrics <- prometheus.MustNewConstMetric(
		c.misses, prometheus.CounterValue, float64(stats.Misses))
	metrics <- prometheus.MustNewConstMetric(
		c.evictions, prometheus.CounterValue, float64(stats.Evictions))
	metrics <- prometheus.MustNewConstMetric(
		c.hitRate, prometheus.GaugeValue, stats.HitRate())
	metrics <- prometheus.MustNewConstMetric(
		c.entries, prometheus.GaugeValue, float64(stats.Len))
	metrics <- prometheus.MustNewConstMetric(
		c.capacity, prometheus.GaugeValue, float64(stats.Cap))
}
