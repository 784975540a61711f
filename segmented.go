package memocache

import (
	"iter"
	"math"
	"sync"
	"time"

	"github.com/djdv/go-memocache/internal/recency"
)

// Segment tags for [recency.Metadata.Tier].
const (
	segmentProbationary = iota
	segmentProtected
)

// SegmentedRecencyCache is a bounded cache split into two cooperating
// recency segments: a small "probationary" segment that admits every new
// entry, and a "protected" segment reserved for entries re-accessed at
// least once. Under protected-segment pressure, its least recently used
// entry is demoted back to probationary with its access count reset.
//
// Whole-cache overflow always evicts from probationary first, so a
// single-pass scan fills and drains probationary without disturbing
// protected entries.
//
// Constructed by [NewSegmented].
type SegmentedRecencyCache[Key comparable, Value any] struct {
	index        map[Key]*node[Key, Value]
	probationary *list[Key, Value]
	protected    *list[Key, Value]
	mu           sync.Mutex
	counters
	capacity     int
	protectedCap int
}

// NewSegmented creates a [SegmentedRecencyCache] with the given capacity.
// Non-positive capacities are coerced to 1.
// Recognized options: [WithProbationaryRatio].
func NewSegmented[Key comparable, Value any](
	capacity int, options ...Option,
) *SegmentedRecencyCache[Key, Value] {
	var (
		set     = parseOptions(options...)
		clamped = clampCapacity(capacity)
		// Both segments get at least one slot.
		probationaryCap = max(1,
			int(math.Round(float64(clamped)*set.probationaryRatio)))
		protectedCap = max(1, clamped-probationaryCap)
	)
	return &SegmentedRecencyCache[Key, Value]{
		index:        make(map[Key]*node[Key, Value], clamped),
		probationary: recency.NewList[Key, Value](),
		protected:    recency.NewList[Key, Value](),
		capacity:     clamped,
		protectedCap: protectedCap,
	}
}

// Get returns the value for key if it is resident;
// otherwise it returns the zero value and false.
// A second hit on a probationary entry promotes it to protected.
func (c *SegmentedRecencyCache[Key, Value]) Get(key Key) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.index[key]
	if !ok {
		c.misses++
		var zero Value
		return zero, false
	}
	c.hits++
	entry.AccessCount++
	entry.LastAccessed = time.Now()
	if entry.Tier == segmentProtected {
		c.protected.MoveToNewest(entry)
	} else if entry.AccessCount >= 2 {
		c.promote(entry)
	} else {
		c.probationary.MoveToNewest(entry)
	}
	return entry.Value, true
}

// Set inserts or overwrites key with value. New keys always enter the
// probationary segment; existing keys keep their segment. If the key is
// new and the cache is full, an entry is evicted first (probationary
// preferred).
func (c *SegmentedRecencyCache[Key, Value]) Set(key Key, value Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.index[key]; ok {
		entry.Value = value
		entry.AccessCount++
		entry.LastAccessed = time.Now()
		c.segment(entry.Tier).MoveToNewest(entry)
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
			Tier:         segmentProbationary,
		},
	}
	c.probationary.PushNewest(entry)
	c.index[key] = entry
}

// Clear empties both segments and resets statistics.
func (c *SegmentedRecencyCache[Key, Value]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[Key]*node[Key, Value], c.capacity)
	c.probationary.Init()
	c.protected.Init()
	c.reset()
}

// Len returns the combined size of both segments.
func (c *SegmentedRecencyCache[Key, Value]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Cap returns the capacity fixed at construction.
func (c *SegmentedRecencyCache[Key, Value]) Cap() int { return c.capacity }

// Stats returns a snapshot of the cache's accounting.
func (c *SegmentedRecencyCache[Key, Value]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(len(c.index), c.capacity)
}

// Keys returns an iterator over the (unordered) resident keys.
func (c *SegmentedRecencyCache[Key, Value]) Keys() iter.Seq[Key] {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]Key, 0, len(c.index))
	for key := range c.index {
		keys = append(keys, key)
	}
	return keysSeq(keys)
}

func (c *SegmentedRecencyCache[Key, Value]) segment(tier uint8) *list[Key, Value] {
	if tier == segmentProtected {
		return c.protected
	}
	return c.probationary
}

// promote moves a probationary entry into protected,
// demoting the protected LRU first if the segment is at its budget.
func (c *SegmentedRecencyCache[Key, Value]) promote(entry *node[Key, Value]) {
	c.probationary.Remove(entry)
	if c.protected.Len() >= c.protectedCap {
		c.demote()
	}
	entry.Tier = segmentProtected
	c.protected.PushNewest(entry)
}

// demote moves the protected LRU back into probationary
// with its access count reset to 1.
func (c *SegmentedRecencyCache[Key, Value]) demote() {
	oldest := c.protected.Oldest()
	if debugging {
		assert(oldest != nil,
			"demotion from an empty protected segment")
	}
	c.protected.Remove(oldest)
	oldest.Tier = segmentProbationary
	oldest.AccessCount = 1
	c.probationary.PushNewest(oldest)
}

// evict removes one entry: the probationary LRU when the segment is
// non-empty, otherwise the protected LRU.
func (c *SegmentedRecencyCache[Key, Value]) evict() {
	victims := c.probationary
	if victims.Len() == 0 {
		victims = c.protected
	}
	oldest := victims.Oldest()
	if oldest == nil {
		return
	}
	victims.Remove(oldest)
	delete(c.index, oldest.Key)
	c.evictions++
}
