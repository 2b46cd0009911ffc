// Package search implements the lexical relevance engine behind the mission
// switcher: Unicode-aware query normalization, synonym expansion, tiered
// token matching, weighted multi-field scoring with phrase boosts, and a
// bounded FIFO score cache. It is intentionally small and deterministic:
//
//   - No logging in the library (callers decide how/what to log)
//   - Every function is total over arbitrary Unicode input, including ""
//   - Scoring is pure; the only mutable state lives in ScoreCache
//
// The package knows nothing about HTTP or the orchestration backend; the
// switcher package layers hybrid server/local resolution on top of it.
package search

import (
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, replaces every rune that is not a Unicode letter,
// digit, or whitespace with a space, collapses runs of whitespace to a single
// space, and trims the ends. Input is NFC-folded first so composed and
// decomposed forms of the same text normalize identically. Non-Latin scripts
// (CJK included) are letters and survive intact.
//
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(norm.NFC.String(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	wroteAny := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && wroteAny {
				b.WriteByte(' ')
			}
			pendingSpace = false
			wroteAny = true
			b.WriteRune(r)
			continue
		}
		// Whitespace and punctuation both become at most one separator.
		pendingSpace = true
	}
	return b.String()
}

// QueryHash returns a short hex digest of the normalized query, used to keep
// score-cache keys bounded in length. FNV-1a is fast and non-cryptographic;
// collisions would only ever serve a stale score for one query, never corrupt
// state, so it is an acceptable trade.
func QueryHash(normalizedQuery string) string {
	h := fnv.New32a()
	h.Write([]byte(normalizedQuery))
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// Tokens splits an already-normalized string into its whitespace-delimited
// tokens. The result is nil for empty input.
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// TokenSet returns the tokens of an already-normalized string as a set.
func TokenSet(normalized string) map[string]struct{} {
	toks := Tokens(normalized)
	if len(toks) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}

// isASCIIAlnum reports whether s consists solely of ASCII letters and digits.
// Tokens that fail this test (CJK words, accented terms) are exempt from the
// minimum-length guards in the matcher, since even one or two runes carry
// real meaning in those scripts.
func isASCIIAlnum(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
