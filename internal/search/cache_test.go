package search

import "testing"

func TestScoreCache_HitReturnsSameValueWithoutGrowth(t *testing.T) {
	c := NewScoreCache(10)
	d := doc("Fix login timeout", "")
	q := Normalize("login timeout")

	first := c.GetOrCompute(d, q)
	if c.Len() != 1 {
		t.Fatalf("expected one cached entry, got %d", c.Len())
	}
	second := c.GetOrCompute(d, q)
	if first != second {
		t.Fatalf("cache hit changed value: %v vs %v", first, second)
	}
	if c.Len() != 1 {
		t.Fatalf("cache hit must not grow the cache: %d", c.Len())
	}
}

func TestScoreCache_TimestampChangeMissesOldEntry(t *testing.T) {
	c := NewScoreCache(10)
	d := doc("Fix login timeout", "")
	q := Normalize("login")

	c.GetOrCompute(d, q)
	d.UpdatedAt = "2026-08-02T09:00:00Z"
	c.GetOrCompute(d, q)
	if c.Len() != 2 {
		t.Fatalf("updated timestamp must produce a new cache key, len=%d", c.Len())
	}

	d.MetadataUpdatedAt = "2026-08-02T09:05:00Z"
	c.GetOrCompute(d, q)
	if c.Len() != 3 {
		t.Fatalf("metadata timestamp must produce a new cache key, len=%d", c.Len())
	}

	d.WorkspaceLabel = "Platform"
	c.GetOrCompute(d, q)
	if c.Len() != 4 {
		t.Fatalf("workspace label must produce a new cache key, len=%d", c.Len())
	}
}

func TestScoreCache_FIFOEviction(t *testing.T) {
	c := NewScoreCache(2)
	q := Normalize("login")

	d1 := Document{ID: "m-1", Title: "login one"}
	d2 := Document{ID: "m-2", Title: "login two"}
	d3 := Document{ID: "m-3", Title: "login three"}

	c.GetOrCompute(d1, q)
	c.GetOrCompute(d2, q)
	c.GetOrCompute(d3, q) // evicts d1 (oldest inserted)
	if c.Len() != 2 {
		t.Fatalf("cache should stay at capacity, len=%d", c.Len())
	}

	// d2 is still cached: a hit must not grow the cache.
	c.GetOrCompute(d2, q)
	if c.Len() != 2 {
		t.Fatalf("hit on surviving entry grew the cache, len=%d", c.Len())
	}

	// Re-inserting d1 evicts the now-oldest d2, not the most recent d3.
	c.GetOrCompute(d1, q)
	if c.Len() != 2 {
		t.Fatalf("reinsert should evict exactly one entry, len=%d", c.Len())
	}
}

func TestScoreCache_ClearAndDefaults(t *testing.T) {
	c := NewScoreCache(0) // falls back to the default bound
	if c.capacity != DefaultCacheCapacity {
		t.Fatalf("capacity fallback failed: %d", c.capacity)
	}
	c.GetOrCompute(Document{ID: "m-1", Title: "login"}, "login")
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Clear should drop all entries, len=%d", c.Len())
	}
}
