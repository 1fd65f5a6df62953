// Package dedup suppresses re-delivery of candidate events.
//
// The stream has no delivery guarantees: the same signature can arrive from
// reconnects, resubscriptions or provider retries. The deduplicator keeps a
// bounded seen-set and forwards each signature as novel exactly once while
// it remains inside the eviction horizon. Dedup is deliberately approximate:
// signatures older than the horizon may be re-delivered and downstream
// re-analysis is harmless.
package dedup

import "sync"

// DefaultHighWater is the seen-set size that triggers eviction.
const DefaultHighWater = 10000

// Deduplicator tracks previously observed signatures. Safe for concurrent
// use. Observe never blocks and never fails.
type Deduplicator struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	order     []string // insertion order, drives approximate eviction
	highWater int
}

// New creates a deduplicator with the given high-water mark. A
// non-positive mark uses DefaultHighWater.
func New(highWater int) *Deduplicator {
	if highWater <= 0 {
		highWater = DefaultHighWater
	}
	return &Deduplicator{
		seen:      make(map[string]struct{}, highWater),
		order:     make([]string, 0, highWater),
		highWater: highWater,
	}
}

// Observe reports whether the signature is novel. Malformed (empty)
// signatures are skipped and reported as not novel. When the set exceeds
// the high-water mark the oldest half is evicted in insertion order.
func (d *Deduplicator) Observe(signature string) bool {
	if signature == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[signature]; ok {
		return false
	}

	d.seen[signature] = struct{}{}
	d.order = append(d.order, signature)

	if len(d.seen) > d.highWater {
		d.evictOldestHalf()
	}

	return true
}

// Len returns the current seen-set size.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// evictOldestHalf drops the oldest half of the seen-set. Caller holds the
// lock. Entries evicted here may be re-delivered later as "novel" again,
// which downstream tolerates.
func (d *Deduplicator) evictOldestHalf() {
	half := len(d.order) / 2
	for _, sig := range d.order[:half] {
		delete(d.seen, sig)
	}
	remaining := make([]string, len(d.order)-half)
	copy(remaining, d.order[half:])
	d.order = remaining
}
