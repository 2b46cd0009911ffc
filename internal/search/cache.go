package search

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DefaultCacheCapacity bounds a ScoreCache when the caller does not choose.
const DefaultCacheCapacity = 1000

// ScoreCache memoizes Score results across re-renders of one open switcher
// session. It is a FIFO cache, not an LRU: when full it evicts the single
// oldest-inserted entry, and hits do not refresh an entry's position.
//
// The key covers everything that can legally change a score for a fixed
// query: the document id, both update timestamps, and the resolved workspace
// label. Mutating a document in place without touching a timestamp would
// serve a stale score; that is a documented contract with the backend (it
// bumps updated_at on every write), not something detected here. The cache
// must be cleared wholesale when the mission list or the workspace-name
// mapping changes, since the key carries only the one resolved label.
//
// ScoreCache is not safe for concurrent use; the owning session serializes
// access.
type ScoreCache struct {
	entries  *orderedmap.OrderedMap[string, float64]
	capacity int
}

// NewScoreCache returns an empty cache bounded to capacity entries.
// Non-positive capacities fall back to DefaultCacheCapacity.
func NewScoreCache(capacity int) *ScoreCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ScoreCache{
		entries:  orderedmap.New[string, float64](),
		capacity: capacity,
	}
}

// GetOrCompute returns the cached score for (doc, normalizedQuery) or
// computes, stores, and returns it. Inserting beyond capacity evicts the
// oldest entry.
func (c *ScoreCache) GetOrCompute(doc Document, normalizedQuery string) float64 {
	key := cacheKey(doc, normalizedQuery)
	if v, ok := c.entries.Get(key); ok {
		return v
	}
	v := Score(doc, normalizedQuery)
	c.entries.Set(key, v)
	if c.entries.Len() > c.capacity {
		if oldest := c.entries.Oldest(); oldest != nil {
			c.entries.Delete(oldest.Key)
		}
	}
	return v
}

// Len reports the number of cached entries.
func (c *ScoreCache) Len() int {
	return c.entries.Len()
}

// Clear drops every entry. Call it whenever the mission list or the
// workspace-name mapping changes.
func (c *ScoreCache) Clear() {
	c.entries = orderedmap.New[string, float64]()
}

// cacheKey joins the score-relevant identity of a document with a short hash
// of the query. Timestamps are raw strings straight from the backend; the
// query is hashed to bound key length.
func cacheKey(doc Document, normalizedQuery string) string {
	return strings.Join([]string{
		doc.ID,
		doc.UpdatedAt,
		doc.MetadataUpdatedAt,
		doc.WorkspaceLabel,
		QueryHash(normalizedQuery),
	}, "|")
}
