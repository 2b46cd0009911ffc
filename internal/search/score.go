package search

import (
	"strings"
	"unicode/utf8"
)

// Field weights for the multi-field scorer. A token hit is worth the field
// weight times its match strength, and a query token takes the best single
// field rather than summing across fields, so the same word appearing
// everywhere is not double-counted.
const (
	weightDisplayName = 5
	weightTitle       = 8
	weightDescription = 7
	weightBackend     = 3
	weightStatus      = 2
	weightFullText    = 1
)

// Phrase-boost bonuses added when the content phrase of the query, or the
// full normalized query, appears verbatim in a field. Additive and not mutually exclusive; sized so
// a verbatim phrase hit outranks any synonym-only match.
const (
	boostTitle       = 14
	boostDescription = 12
	boostDisplayName = 8
	boostFullText    = 5
)

// RunningMatchScore is the flat sentinel score for a running-mission record
// matched by the lightweight substring rule. It is deliberately below any
// positive Document score so unhydrated live entries rank after real hits.
const RunningMatchScore = 0.1

// Document is the scorer's flattened, read-only view of one mission. Callers
// build it from a Mission snapshot plus the workspace name mapping; absent
// mission fields become empty strings and simply contribute nothing.
type Document struct {
	ID          string
	DisplayName string
	Title       string
	Description string
	Backend     string
	Status      string

	// UpdatedAt, MetadataUpdatedAt, and WorkspaceLabel do not influence the
	// score directly; they are carried so ScoreCache can key on them and
	// the pipeline can break ties on recency.
	UpdatedAt         string
	MetadataUpdatedAt string
	WorkspaceLabel    string
}

// scoredField is one weighted, tokenized field of a document.
type scoredField struct {
	weight float64
	tokens map[string]struct{}
}

// Score computes the relevance of doc against normalizedQuery.
//
// Every retained query token group must match at least one field (weakly or
// strongly) or the whole document scores 0; group contributions are the best
// weighted field hit and are summed, then verbatim phrase boosts are added.
// An empty or stopword-only query scores 0 here; "empty query matches
// everything" is the ranking pipeline's business, not the scorer's.
func Score(doc Document, normalizedQuery string) float64 {
	if normalizedQuery == "" {
		return 0
	}
	groups := TokenGroups(normalizedQuery)
	if len(groups) == 0 {
		return 0
	}

	name := Normalize(doc.DisplayName)
	title := Normalize(doc.Title)
	desc := Normalize(doc.Description)
	backend := Normalize(doc.Backend)
	status := Normalize(doc.Status)
	full := joinNonEmpty(name, title, desc, backend, status)

	fields := []scoredField{
		{weightDisplayName, TokenSet(name)},
		{weightTitle, TokenSet(title)},
		{weightDescription, TokenSet(desc)},
		{weightBackend, TokenSet(backend)},
		{weightStatus, TokenSet(status)},
		{weightFullText, TokenSet(full)},
	}

	total := 0.0
	for _, group := range groups {
		best := 0.0
		for _, f := range fields {
			if len(f.tokens) == 0 {
				continue
			}
			if s := groupStrength(group, f.tokens) * f.weight; s > best {
				best = s
			}
		}
		if best == 0 {
			// AND semantics: one dead token group sinks the document.
			return 0
		}
		total += best
	}

	// Phrase boosts accept either the content phrase of the query
	// (stopwords dropped, so "where did we fix the login timeout" carries
	// the same phrase as "fix login timeout") or the full normalized query
	// ("fix the timeout" against a title that spells the article out).
	phrase := contentPhrase(groups)
	if phrase != "" {
		phraseHit := func(field string) bool {
			if field == "" {
				return false
			}
			return strings.Contains(field, phrase) ||
				strings.Contains(field, normalizedQuery)
		}
		if phraseHit(title) {
			total += boostTitle
		}
		if phraseHit(desc) {
			total += boostDescription
		}
		if phraseHit(name) {
			total += boostDisplayName
		}
		if phraseHit(full) {
			total += boostFullText
		}
	}
	return total
}

// RunningMatch applies the lightweight rule for live-execution records that
// have no hydrated Mission: the normalized query must appear as a substring
// of the record's id, derived short name, and state label, concatenated.
// These rows carry almost no metadata, so there is no weighting machinery;
// a hit is worth the flat RunningMatchScore.
func RunningMatch(missionID, shortName, state, normalizedQuery string) bool {
	if normalizedQuery == "" {
		return false
	}
	// Same guard as the scorer: a query with no retained content tokens
	// (single stopword, bare punctuation) matches nothing.
	if len(TokenGroups(normalizedQuery)) == 0 {
		return false
	}
	// Short-query guard, mirroring the matcher's prefix tier: a one- or
	// two-letter ASCII query would substring-match nearly every record id.
	if isASCIIAlnum(normalizedQuery) && utf8.RuneCountInString(normalizedQuery) < 3 {
		return false
	}
	haystack := Normalize(missionID + " " + shortName + " " + state)
	return strings.Contains(haystack, normalizedQuery)
}

// contentPhrase rebuilds the query phrase from the base token of each group.
func contentPhrase(groups [][]string) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, g[0])
	}
	return strings.Join(parts, " ")
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
