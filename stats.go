package memocache

// Stats is a point-in-time snapshot of a cache's accounting.
// Hit and miss counters are immediately consistent with the
// operations that produced them.
type Stats struct {
	// Hits and Misses count Get outcomes since construction
	// or the last Clear. An expired entry counts as a miss.
	Hits, Misses uint64
	// Evictions counts entries removed to keep Len <= Cap,
	// including proactive removals.
	Evictions uint64
	// Len and Cap mirror the cache's introspection methods.
	Len, Cap int
}

// HitRate returns Hits / (Hits + Misses),
// or 0 when no accesses have occurred.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// counters is embedded by the concrete caches;
// the owner's lock guards all fields.
type counters struct {
	hits, misses, evictions uint64
}

func (c *counters) reset() { *c = counters{} }

func (c *counters) snapshot(length, capacity int) Stats {
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Len:       length,
		Cap:       capacity,
	}
}
