// Package switcher orchestrates mission search for one open mission-switcher
// session: it owns the score cache and request sequencing, debounces the
// remote semantic search, resolves per-document scores (server value when
// present, local lexical score otherwise), and ranks the candidate list.
//
// All cross-component state that the original dashboard kept at module level
// lives on an explicit Session object here, constructed when the switcher
// opens and torn down when it closes.
package switcher

import "github.com/mbraack/missiondeck/internal/search"

// HybridResolver picks between a server-computed relevance score and the
// local field scorer, per document. The server is authoritative when it has
// an entry for the document's id; on that path the local cache is bypassed
// entirely and must remain untouched.
type HybridResolver struct {
	Cache        *search.ScoreCache
	ServerScores map[string]float64
}

// Resolve returns the score for doc against normalizedQuery.
func (h HybridResolver) Resolve(doc search.Document, normalizedQuery string) float64 {
	if h.ServerScores != nil {
		if v, ok := h.ServerScores[doc.ID]; ok {
			return v
		}
	}
	if h.Cache != nil {
		return h.Cache.GetOrCompute(doc, normalizedQuery)
	}
	return search.Score(doc, normalizedQuery)
}
