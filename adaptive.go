package memocache

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/djdv/go-memocache/internal/recency"
	"go.uber.org/zap"
)

// Frequency tier tags for [recency.Metadata.Tier].
// Entries are promoted in tier order and evicted in reverse priority.
const (
	tierNew = iota
	tierInfrequent
	tierFrequent
	tierCount
)

// Promotion thresholds on access count.
const (
	infrequentThreshold = 2
	frequentThreshold   = 4
)

// historyWindow bounds the sliding window
// of hit/miss outcomes kept for analysis.
const historyWindow = 100

// Policy identifies an eviction discipline. The [AdaptiveCache] reports
// one as an advisory signal derived from recent access patterns.
type Policy uint8

const (
	// PolicyAdaptive is the default recommendation
	// when no pattern stands out.
	PolicyAdaptive Policy = iota
	// PolicyExpiring suits workloads with little reuse,
	// where time-based expiry bounds memory best.
	PolicyExpiring
	// PolicyRecency suits bursty workloads
	// with long runs of repeated hits.
	PolicyRecency
	// PolicySegmented suits workloads with a stable,
	// frequently re-accessed hot set worth protecting.
	PolicySegmented
)

func (p Policy) String() string {
	switch p {
	case PolicyAdaptive:
		return "adaptive"
	case PolicyExpiring:
		return "expiring"
	case PolicyRecency:
		return "recency"
	case PolicySegmented:
		return "segmented"
	default:
		return "unknown"
	}
}

// AdaptiveCache is a bounded cache that classifies entries into three
// frequency tiers (new, infrequent, frequent) and always evicts from the
// lowest-priority non-empty tier, preferring entries that have never
// proven reuse value.
//
// It additionally keeps a sliding window of hit/miss outcomes; a
// periodic background task analyzes the window and derives a recommended
// [Policy]. The recommendation is diagnostic telemetry only: the cache's
// own eviction behavior never changes based on it.
//
// Constructed by [NewAdaptive]; callers should [AdaptiveCache.Close]
// the cache to stop its analysis task.
type AdaptiveCache[Key comparable, Value any] struct {
	index   map[Key]*node[Key, Value]
	tiers   [tierCount]*list[Key, Value]
	log     *zap.Logger
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	closing sync.Once
	counters
	history struct {
		outcomes [historyWindow]bool
		next     int
		size     int
	}
	recommendation Policy
	capacity       int
}

// NewAdaptive creates an [AdaptiveCache] with the given capacity.
// Non-positive capacities are coerced to 1.
// Recognized options: [WithAnalysisInterval], [WithLogger].
func NewAdaptive[Key comparable, Value any](
	capacity int, options ...Option,
) *AdaptiveCache[Key, Value] {
	var (
		set         = parseOptions(options...)
		clamped     = clampCapacity(capacity)
		ctx, cancel = context.WithCancel(context.Background())
		cache       = &AdaptiveCache[Key, Value]{
			index:    make(map[Key]*node[Key, Value], clamped),
			log:      set.logger,
			cancel:   cancel,
			done:     make(chan struct{}),
			capacity: clamped,
		}
	)
	for i := range cache.tiers {
		cache.tiers[i] = recency.NewList[Key, Value]()
	}
	go cache.analyze(ctx, set.analysisInterval)
	return cache
}

// Get returns the value for key if it is resident;
// otherwise it returns the zero value and false.
// Hits promote entries through the tiers once their access count
// reaches the tier thresholds (2 and 4).
func (c *AdaptiveCache[Key, Value]) Get(key Key) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.index[key]
	c.recordAccess(ok)
	if !ok {
		c.misses++
		var zero Value
		return zero, false
	}
	c.hits++
	entry.AccessCount++
	entry.LastAccessed = time.Now()
	if next := tierFor(entry.AccessCount); next != entry.Tier {
		c.tiers[entry.Tier].Remove(entry)
		entry.Tier = next
		c.tiers[next].PushNewest(entry)
	} else {
		c.tiers[entry.Tier].MoveToNewest(entry)
	}
	return entry.Value, true
}

// Set inserts or overwrites key with value. New entries start in the
// `new` tier. If the key is new and the cache is full, the oldest entry
// of the lowest-priority non-empty tier is evicted first.
func (c *AdaptiveCache[Key, Value]) Set(key Key, value Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.index[key]; ok {
		entry.Value = value
		entry.AccessCount++
		entry.LastAccessed = time.Now()
		c.tiers[entry.Tier].MoveToNewest(entry)
		return
	}
	if len(c.index) >= c.capacity {
		c.evict()
	}
	entry := &node[Key, Value]{
		Key:   key,
		Value: value,
		Metadata: recency.Metadata{
			LastAccessed: time.Now(),
			AccessCount:  1,
			Tier:         tierNew,
		},
	}
	c.tiers[tierNew].PushNewest(entry)
	c.index[key] = entry
}

// Clear empties every tier and resets statistics
// along with the access-pattern history.
func (c *AdaptiveCache[Key, Value]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[Key]*node[Key, Value], c.capacity)
	for _, tier := range c.tiers {
		tier.Init()
	}
	c.history.next = 0
	c.history.size = 0
	c.reset()
}

// Len returns the number of resident entries.
func (c *AdaptiveCache[Key, Value]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Cap returns the capacity fixed at construction.
func (c *AdaptiveCache[Key, Value]) Cap() int { return c.capacity }

// Stats returns a snapshot of the cache's accounting.
func (c *AdaptiveCache[Key, Value]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(len(c.index), c.capacity)
}

// Keys returns an iterator over the (unordered) resident keys.
func (c *AdaptiveCache[Key, Value]) Keys() iter.Seq[Key] {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]Key, 0, len(c.index))
	for key := range c.index {
		keys = append(keys, key)
	}
	return keysSeq(keys)
}

// RecommendedPolicy returns the advisory policy signal derived by the
// most recent access-pattern analysis. It defaults to [PolicyAdaptive]
// until an analysis has run.
func (c *AdaptiveCache[Key, Value]) RecommendedPolicy() Policy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recommendation
}

// Close stops the background analysis task and waits for it to return.
// The cache remains usable afterwards; the recommendation freezes.
// Close is idempotent and always returns nil.
func (c *AdaptiveCache[Key, Value]) Close() error {
	c.closing.Do(func() {
		c.cancel()
		<-c.done
	})
	return nil
}

func tierFor(accessCount int) uint8 {
	switch {
	case accessCount >= frequentThreshold:
		return tierFrequent
	case accessCount >= infrequentThreshold:
		return tierInfrequent
	default:
		return tierNew
	}
}

func (c *AdaptiveCache[Key, Value]) evict() {
	for _, tier := range c.tiers {
		oldest := tier.Oldest()
		if oldest == nil {
			continue
		}
		tier.Remove(oldest)
		delete(c.index, oldest.Key)
		c.evictions++
		return
	}
}

func (c *AdaptiveCache[Key, Value]) recordAccess(hit bool) {
	h := &c.history
	h.outcomes[h.next] = hit
	h.next = (h.next + 1) % historyWindow
	if h.size < historyWindow {
		h.size++
	}
}

func (c *AdaptiveCache[Key, Value]) analyze(ctx context.Context, interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runAnalysis()
		}
	}
}

func (c *AdaptiveCache[Key, Value]) runAnalysis() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var (
		hitRate, longestRun = c.summarizeHistory()
		recommendation      = recommend(c.history.size, hitRate, longestRun)
	)
	c.recommendation = recommendation
	c.log.Debug("access pattern analysis",
		zap.Float64("hit_rate", hitRate),
		zap.Int("longest_hit_run", longestRun),
		zap.Stringer("recommendation", recommendation))
}

// summarizeHistory walks the window oldest-first, computing the hit
// rate and the longest run of consecutive hits.
func (c *AdaptiveCache[Key, Value]) summarizeHistory() (float64, int) {
	var (
		h          = &c.history
		hits, run  int
		longestRun int
	)
	if h.size == 0 {
		return 0, 0
	}
	start := h.next - h.size
	if start < 0 {
		start += historyWindow
	}
	for i := range h.size {
		if h.outcomes[(start+i)%historyWindow] {
			hits++
			if run++; run > longestRun {
				longestRun = run
			}
		} else {
			run = 0
		}
	}
	return float64(hits) / float64(h.size), longestRun
}

// recommend maps window statistics to an advisory policy:
// low reuse favors time-based expiry, long hit runs favor plain
// recency, a persistently hot working set favors segmentation,
// and anything in between stays adaptive.
func recommend(samples int, hitRate float64, longestRun int) Policy {
	const (
		lowReuse  = 0.3
		hotSet    = 0.7
		burstyRun = historyWindow / 4
	)
	switch {
	case samples == 0:
		return PolicyAdaptive
	case hitRate < lowReuse:
		return PolicyExpiring
	case longestRun >= burstyRun:
		return PolicyRecency
	case hitRate >= hotSet:
		return PolicySegmented
	default:
		return PolicyAdaptive
	}
}
