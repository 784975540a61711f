package memocache

import (
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/djdv/go-memocache/internal/recency"
)

// RecencyCache is a bounded cache evicting the least-recently-used entry.
//
// Reordering work on reads is batched: a hit records new access metadata
// immediately, but the recency list is only compacted once a batch of
// pending reorders accumulates, or when the cache crosses 90% of its
// capacity, at which point a proactive eviction of capacity/10 of the
// oldest entries runs (capacities below ten skip the proactive pass).
// List order is therefore eventually
// consistent (lagging at most the batch threshold), while entry values
// and hit/miss accounting are always immediately consistent.
//
// Constructed by [NewRecency].
type RecencyCache[Key comparable, Value any] struct {
	index map[Key]*node[Key, Value]
	order *list[Key, Value]
	mu    sync.Mutex
	counters
	sequence        uint64
	capacity        int
	batchSize       int
	pendingReorders int
}

// NewRecency creates a [RecencyCache] with the given capacity.
// Non-positive capacities are coerced to 1.
// Recognized options: [WithBatchSize].
func NewRecency[Key comparable, Value any](
	capacity int, options ...Option,
) *RecencyCache[Key, Value] {
	var (
		set     = parseOptions(options...)
		clamped = clampCapacity(capacity)
	)
	return &RecencyCache[Key, Value]{
		index:     make(map[Key]*node[Key, Value], clamped),
		order:     recency.NewList[Key, Value](),
		capacity:  clamped,
		batchSize: set.batchSize,
	}
}

// Get returns the value for key if it is resident;
// otherwise it returns the zero value and false.
// A hit marks the entry as most recently used,
// subject to the batched reordering described on [RecencyCache].
func (c *RecencyCache[Key, Value]) Get(key Key) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.index[key]
	if !ok {
		c.misses++
		var zero Value
		return zero, false
	}
	c.hits++
	c.touch(entry)
	if c.pendingReorders++; c.pendingReorders >= c.batchSize {
		c.compact()
	}
	return entry.Value, true
}

// Set inserts or overwrites key with value. Writes are reordered
// immediately; only read reordering is batched. If the key is new and
// the cache is full, the oldest entry is evicted first.
func (c *RecencyCache[Key, Value]) Set(key Key, value Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.index[key]; ok {
		entry.Value = value
		c.touch(entry)
		c.order.MoveToNewest(entry)
		return
	}
	if len(c.index) >= c.capacity {
		c.compact()
		c.evictOldest(1)
	}
	defer c.relieve()
	entry := &node[Key, Value]{
		Key:   key,
		Value: value,
		Metadata: recency.Metadata{
			LastAccessed: time.Now(),
			Sequence:     c.nextSequence(),
			AccessCount:  1,
		},
	}
	c.order.PushNewest(entry)
	c.index[key] = entry
}

// Clear empties the cache and resets its statistics.
func (c *RecencyCache[Key, Value]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[Key]*node[Key, Value], c.capacity)
	c.order.Init()
	c.pendingReorders = 0
	c.reset()
}

// Len returns the number of resident entries.
func (c *RecencyCache[Key, Value]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Cap returns the capacity fixed at construction.
func (c *RecencyCache[Key, Value]) Cap() int { return c.capacity }

// Stats returns a snapshot of the cache's accounting.
func (c *RecencyCache[Key, Value]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(len(c.index), c.capacity)
}

// Keys returns an iterator over the (unordered) resident keys.
func (c *RecencyCache[Key, Value]) Keys() iter.Seq[Key] {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]Key, 0, len(c.index))
	for key := range c.index {
		keys = append(keys, key)
	}
	return keysSeq(keys)
}

func (c *RecencyCache[Key, Value]) touch(entry *node[Key, Value]) {
	entry.AccessCount++
	entry.LastAccessed = time.Now()
	entry.Sequence = c.nextSequence()
}

func (c *RecencyCache[Key, Value]) nextSequence() uint64 {
	c.sequence++
	return c.sequence
}

// relieve runs the proactive pass after an insert: once the cache
// crosses 90% of its capacity, pending reorders are compacted and
// capacity/10 of the oldest entries are evicted to restore headroom.
// Capacities below ten skip the pass; shedding an entry from a cache of
// a handful would contradict the per-insert single-eviction contract.
func (c *RecencyCache[Key, Value]) relieve() {
	batch := c.capacity / 10
	if batch < 1 {
		return
	}
	if len(c.index) > c.capacity*9/10 {
		c.compact()
		c.evictOldest(batch)
	}
}

// compact settles all pending reorders, restoring exact
// oldest-first order to the recency list.
func (c *RecencyCache[Key, Value]) compact() {
	if c.pendingReorders == 0 {
		return
	}
	c.pendingReorders = 0
	entries := make([]*node[Key, Value], 0, c.order.Len())
	for entry := range c.order.Iter() {
		entries = append(entries, entry)
	}
	slices.SortStableFunc(entries, func(a, b *node[Key, Value]) int {
		switch {
		case a.Sequence < b.Sequence:
			return -1
		case a.Sequence > b.Sequence:
			return 1
		default:
			return 0
		}
	})
	c.order.Init()
	for _, entry := range entries {
		c.order.PushNewest(entry)
	}
}

func (c *RecencyCache[Key, Value]) evictOldest(count int) {
	for range count {
		oldest := c.order.Oldest()
		if oldest == nil {
			return
		}
		c.order.Remove(oldest)
		delete(c.index, oldest.Key)
		c.evictions++
	}
}
