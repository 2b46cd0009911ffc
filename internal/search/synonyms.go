package search

// synonyms is the hand-curated expansion table used to broaden query
// matching. Keys and values are already normalized (lowercase, no
// punctuation). Entries are authored per direction on purpose: some terms
// list a reverse mapping and some do not, and both directions must resolve
// independently for queries to match consistently, so the table is kept
// exactly as authored rather than symmetrized programmatically.
var synonyms = map[string][]string{
	// identity / access
	"auth":           {"login", "authentication", "signin", "credential"},
	"authentication": {"auth", "login", "signin"},
	"login":          {"auth", "authentication", "signin", "session"},
	"signin":         {"login", "auth"},
	"token":          {"credential", "auth", "jwt"},

	// defects and their verbs
	"fix":   {"bug", "repair", "patch", "resolve"},
	"bug":   {"fix", "issue", "defect", "error"},
	"issue": {"bug", "problem", "ticket"},
	"error": {"failure", "bug", "crash", "exception"},
	"fail":  {"failure", "error", "crash"},
	"crash": {"error", "panic", "failure"},

	// latency and stalls
	"timeout": {"latency", "hang", "stall", "deadline"},
	"latency": {"timeout", "slow", "performance"},
	"slow":    {"latency", "performance", "perf"},
	"hang":    {"stall", "timeout", "freeze"},
	"perf":    {"performance", "latency"},

	// shipping
	"deploy":  {"release", "ship", "rollout"},
	"release": {"deploy", "ship", "version"},
	"build":   {"compile", "ci"},
	"ci":      {"build", "pipeline"},

	// code chores
	"refactor": {"cleanup", "rewrite", "restructure"},
	"cleanup":  {"refactor", "tidy"},
	"test":     {"spec", "coverage", "testing"},
	"docs":     {"documentation", "readme"},
	"config":   {"configuration", "settings"},
	"settings": {"config", "configuration", "preferences"},

	// dashboard vocabulary
	"mission":   {"task", "run", "job"},
	"task":      {"mission", "job"},
	"agent":     {"assistant", "model"},
	"workspace": {"project", "repo"},
	"repo":      {"repository", "workspace"},
	"shell":     {"terminal", "console"},
	"terminal":  {"shell", "console"},
	"mcp":       {"server", "tool"},
	"skill":     {"command", "template"},
}

// stopwords are query tokens that carry no retrieval signal on their own.
// They are dropped before grouping so that a natural-language phrasing
// ("where did we fix the login timeout") ranks identically to the bare
// keywords; with AND semantics across groups, a retained stopword would
// otherwise zero out every document.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "was": {}, "were": {}, "are": {},
	"be": {}, "been": {}, "do": {}, "did": {}, "does": {}, "we": {}, "i": {},
	"it": {}, "in": {}, "on": {}, "at": {}, "of": {}, "to": {}, "for": {},
	"and": {}, "or": {}, "with": {}, "that": {}, "this": {}, "my": {},
	"where": {}, "when": {}, "what": {}, "how": {}, "who": {}, "why": {},
}

// ExpandToken returns the token itself plus any synonyms from the static
// table. The token must already be normalized. An empty token yields nil,
// which callers treat as "drop this group".
func ExpandToken(token string) []string {
	if token == "" {
		return nil
	}
	alts := synonyms[token]
	group := make([]string, 0, 1+len(alts))
	group = append(group, token)
	group = append(group, alts...)
	return group
}

// TokenGroups tokenizes a normalized query into synonym groups, one per
// retained token. Stopwords and empty tokens are dropped; if nothing
// survives, the result is empty and the query contributes no score.
func TokenGroups(normalizedQuery string) [][]string {
	toks := Tokens(normalizedQuery)
	if len(toks) == 0 {
		return nil
	}
	groups := make([][]string, 0, len(toks))
	for _, t := range toks {
		if _, skip := stopwords[t]; skip {
			continue
		}
		if g := ExpandToken(t); len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
