package dedup

import (
	"fmt"
	"sync"
	"testing"
)

func TestDeduplicator_NovelExactlyOnce(t *testing.T) {
	d := New(100)

	if !d.Observe("sig1") {
		t.Error("first observation should be novel")
	}
	if d.Observe("sig1") {
		t.Error("second observation should be duplicate")
	}
	if d.Observe("sig1") {
		t.Error("third observation should be duplicate")
	}

	if !d.Observe("sig2") {
		t.Error("distinct signature should be novel")
	}
}

func TestDeduplicator_EmptySignatureSkipped(t *testing.T) {
	d := New(100)

	if d.Observe("") {
		t.Error("empty signature should never be novel")
	}
	if d.Len() != 0 {
		t.Errorf("empty signature should not be tracked, len=%d", d.Len())
	}
}

func TestDeduplicator_EvictionBoundsMemory(t *testing.T) {
	d := New(10)

	for i := 0; i < 100; i++ {
		d.Observe(fmt.Sprintf("sig%d", i))
	}

	if d.Len() > 11 {
		t.Errorf("seen set should stay near high-water mark, len=%d", d.Len())
	}
}

func TestDeduplicator_EvictedEntriesRedeliveredAsNovel(t *testing.T) {
	d := New(10)

	d.Observe("old")
	// Push past the high-water mark so "old" falls outside the horizon.
	for i := 0; i < 20; i++ {
		d.Observe(fmt.Sprintf("fill%d", i))
	}

	if !d.Observe("old") {
		t.Error("signature outside the eviction horizon should be novel again")
	}
}

func TestDeduplicator_RecentEntriesSurviveEviction(t *testing.T) {
	d := New(10)

	for i := 0; i < 10; i++ {
		d.Observe(fmt.Sprintf("sig%d", i))
	}
	// This insert crosses the mark and evicts the oldest half.
	d.Observe("trigger")

	if d.Observe("trigger") {
		t.Error("the entry that triggered eviction must survive it")
	}
	if d.Observe("sig9") {
		t.Error("newest pre-eviction entry should survive eviction")
	}
	if !d.Observe("sig0") {
		t.Error("oldest entry should have been evicted")
	}
}

func TestDeduplicator_ConcurrentObserve(t *testing.T) {
	d := New(1000)

	var wg sync.WaitGroup
	var mu sync.Mutex
	novelCounts := make(map[string]int)

	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sig := fmt.Sprintf("sig%d", i)
				if d.Observe(sig) {
					mu.Lock()
					novelCounts[sig]++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	for sig, n := range novelCounts {
		if n != 1 {
			t.Errorf("signature %s reported novel %d times, want 1", sig, n)
		}
	}
	if len(novelCounts) != 100 {
		t.Errorf("expected 100 novel signatures, got %d", len(novelCounts))
	}
}
