package search

import (
	"strings"
	"unicode/utf8"
)

// Graded match strengths returned by MatchStrength, strongest first.
const (
	matchExact      = 1.0
	matchPrefix     = 0.7
	matchInflection = 0.65
	matchSubstring  = 0.45
)

// MatchStrength grades how well a single query token matches a single
// document token, in [0, 1]. The tiers are asymmetric and deliberately trade
// recall for precision on short ASCII tokens, so a one-letter query cannot
// light up every document:
//
//	1.0  exact equality
//	0.7  query is a prefix of the candidate, and the query is either
//	     non-ASCII (short CJK tokens prefix-match freely) or ≥ 3 runes
//	0.65 the candidate is an ASCII prefix of a query of ≥ 5 runes with at
//	     most 2 runes left over; inflections like query "timeouts"
//	     against candidate "timeout"
//	0.45 the candidate (≥ 4 runes) appears inside the query token
//	0    anything else
func MatchStrength(queryToken, candidateToken string) float64 {
	if queryToken == "" || candidateToken == "" {
		return 0
	}
	if queryToken == candidateToken {
		return matchExact
	}

	if strings.HasPrefix(candidateToken, queryToken) {
		if !isASCIIAlnum(queryToken) || utf8.RuneCountInString(queryToken) >= 3 {
			return matchPrefix
		}
	}

	qLen := utf8.RuneCountInString(queryToken)
	cLen := utf8.RuneCountInString(candidateToken)
	if isASCIIAlnum(candidateToken) && qLen >= 5 &&
		strings.HasPrefix(queryToken, candidateToken) && qLen-cLen <= 2 {
		return matchInflection
	}

	if cLen >= 4 && strings.Contains(queryToken, candidateToken) {
		return matchSubstring
	}
	return 0
}

// groupStrength returns the best MatchStrength of any token in the synonym
// group against any token in the candidate set.
func groupStrength(group []string, candidates map[string]struct{}) float64 {
	best := 0.0
	for _, q := range group {
		// Exact hits are cheap to check first against the set.
		if _, ok := candidates[q]; ok {
			return matchExact
		}
		for c := range candidates {
			if s := MatchStrength(q, c); s > best {
				best = s
			}
		}
	}
	return best
}
