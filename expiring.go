package memocache

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/djdv/go-memocache/internal/recency"
	"go.uber.org/zap"
)

// ExpiringCache is a bounded cache where every entry carries an absolute
// expiration instant, fixed at insert time as now+TTL.
//
// Expired entries are removed lazily when read, and eagerly by a
// periodic background sweep which runs even when the cache is idle,
// bounding the memory held by dead entries to one sweep interval.
// On overflow, the entry closest to expiring is evicted (time-priority,
// not recency).
//
// Constructed by [NewExpiring]; callers should [ExpiringCache.Close]
// the cache to stop its sweeper.
type ExpiringCache[Key comparable, Value any] struct {
	index    map[Key]*node[Key, Value]
	log      *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex
	closing  sync.Once
	counters
	ttl      time.Duration
	capacity int
}

// NewExpiring creates an [ExpiringCache] with the given capacity and
// time-to-live. Non-positive capacities are coerced to 1; non-positive
// TTLs to a minimum positive duration.
// Recognized options: [WithSweepInterval], [WithLogger].
func NewExpiring[Key comparable, Value any](
	capacity int, ttl time.Duration, options ...Option,
) *ExpiringCache[Key, Value] {
	var (
		set         = parseOptions(options...)
		clamped     = clampCapacity(capacity)
		ctx, cancel = context.WithCancel(context.Background())
		cache       = &ExpiringCache[Key, Value]{
			index:    make(map[Key]*node[Key, Value], clamped),
			log:      set.logger,
			cancel:   cancel,
			done:     make(chan struct{}),
			ttl:      max(ttl, minimumTTL),
			capacity: clamped,
		}
	)
	go cache.sweep(ctx, set.sweepInterval)
	return cache
}

// Get returns the value for key if it is resident and not expired;
// otherwise it returns the zero value and false. An expired entry is
// removed before reporting the miss, so an observed value is never stale.
func (c *ExpiringCache[Key, Value]) Get(key Key) (Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.index[key]
	if ok && time.Now().After(entry.ExpiresAt) {
		delete(c.index, key)
		ok = false
	}
	if !ok {
		c.misses++
		var zero Value
		return zero, false
	}
	c.hits++
	entry.AccessCount++
	entry.LastAccessed = time.Now()
	return entry.Value, true
}

// Set inserts or overwrites key with value, restarting its TTL.
// If the key is new and the cache is full, the entry with the
// nearest expiration is evicted first.
func (c *ExpiringCache[Key, Value]) Set(key Key, value Value) {
	var (
		now      = time.Now()
		deadline = now.Add(c.ttl)
	)
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.index[key]; ok {
		entry.Value = value
		entry.AccessCount++
		entry.LastAccessed = now
		entry.ExpiresAt = deadline
		return
	}
	if len(c.index) >= c.capacity {
		c.evictSoonest()
	}
	c.index[key] = &node[Key, Value]{
		Key:   key,
		Value: value,
		Metadata: recency.Metadata{
			LastAccessed: now,
			ExpiresAt:    deadline,
			AccessCount:  1,
		},
	}
}

// Clear empties the cache and resets its statistics.
// The background sweep keeps running.
func (c *ExpiringCache[Key, Value]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[Key]*node[Key, Value], c.capacity)
	c.reset()
}

// Len returns the number of resident entries,
// including any that expired since the last sweep or read.
func (c *ExpiringCache[Key, Value]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Cap returns the capacity fixed at construction.
func (c *ExpiringCache[Key, Value]) Cap() int { return c.capacity }

// Stats returns a snapshot of the cache's accounting.
func (c *ExpiringCache[Key, Value]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(len(c.index), c.capacity)
}

// Keys returns an iterator over the (unordered) resident keys.
func (c *ExpiringCache[Key, Value]) Keys() iter.Seq[Key] {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]Key, 0, len(c.index))
	for key := range c.index {
		keys = append(keys, key)
	}
	return keysSeq(keys)
}

// Close stops the background sweep and waits for it to return.
// The cache remains usable afterwards; only lazy expiration applies.
// Close is idempotent and always returns nil.
func (c *ExpiringCache[Key, Value]) Close() error {
	c.closing.Do(func() {
		c.cancel()
		<-c.done
	})
	return nil
}

func (c *ExpiringCache[Key, Value]) evictSoonest() {
	var soonest *node[Key, Value]
	for _, entry := range c.index {
		if soonest == nil ||
			entry.ExpiresAt.Before(soonest.ExpiresAt) {
			soonest = entry
		}
	}
	if soonest != nil {
		delete(c.index, soonest.Key)
		c.evictions++
	}
}

func (c *ExpiringCache[Key, Value]) sweep(ctx context.Context, interval time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := c.removeExpired(now); removed > 0 {
				c.log.Debug("swept expired entries",
					zap.Int("removed", removed))
			}
		}
	}
}

func (c *ExpiringCache[Key, Value]) removeExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed int
	for key, entry := range c.index {
		if now.After(entry.ExpiresAt) {
			delete(c.index, key)
			removed++
		}
	}
	return removed
}
