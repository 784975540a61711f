// Package memocache implements bounded, thread-safe caches under a
// uniform capability interface ([Cache]), together with a memoization
// wrapper ([Memoize]) that turns an expensive continuous function into a
// cached one by discretizing its input.
//
// Four eviction disciplines are provided:
//
//   - [RecencyCache]
//
//     Classic LRU with batched read-side reordering: hits accumulate
//     until a batch threshold before the recency list is compacted,
//     trading exact per-call ordering for lower lock churn.
//
//   - [ExpiringCache]
//
//     Per-entry absolute deadlines with lazy expiry on read and a
//     periodic background sweep. Overflow evicts the entry closest to
//     expiring (time priority, not recency).
//
//   - [SegmentedRecencyCache]
//
//     SLRU: a probationary segment admits all new entries and a
//     protected segment holds entries re-accessed at least once. Scans
//     fill and drain probationary without disturbing the protected set.
//     See the [SLRU caching strategies paper] for the rationale.
//
//   - [AdaptiveCache]
//
//     Three recency/frequency tiers evicted in priority order, plus a
//     rolling hit/miss window whose periodic analysis yields an
//     advisory recommended [Policy] (telemetry only; the cache never
//     swaps its own discipline).
//
// Glossary and invariants:
//
//   - Eviction
//
//     Removing an entry so that Len never exceeds Cap. Exactly one
//     eviction precedes an insert into a full cache.
//
//   - Promotion / Demotion
//
//     Moving an entry to a higher/lower priority segment or tier.
//
//   - Discretization
//
//     Mapping a continuous input to a coarser integer bucket
//     (floor(position/precision)) for cache-key purposes.
//
//   - Lazy expiration
//
//     Detecting and removing an expired entry only when it is read.
//
//   - Sweep
//
//     Periodic bulk removal of expired entries, independent of reads
//     and writes, bounding dead-entry memory to one sweep interval.
//
// Every cache serializes its operations behind a single lock: operations
// on one instance observe a total order. Misses, evictions and expiry
// all collapse to the same observable absent result; callers recompute
// and Set in every case. Construction never fails: out-of-range
// parameters are clamped to safe minimums so a misconfigured cache
// degrades instead of crashing its caller.
//
// [SLRU caching strategies paper]: https://ieeexplore.ieee.org/document/268884
package memocache
