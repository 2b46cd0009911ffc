package search

import "testing"

func doc(title, desc string) Document {
	return Document{
		ID:          "m-1",
		Title:       title,
		Description: desc,
		Status:      "active",
		UpdatedAt:   "2026-08-01T10:00:00Z",
	}
}

// ---------- AND semantics ----------

func TestScore_ANDSemantics(t *testing.T) {
	d := doc("Login timeout when refreshing session", "")
	if s := Score(d, "login"); s <= 0 {
		t.Fatalf("single matching token should score > 0, got %v", s)
	}
	// One dead token group must sink the whole document, no matter how
	// strong the other group is.
	if s := Score(d, "login zzyzxq"); s != 0 {
		t.Fatalf("query with one unmatched token must score 0, got %v", s)
	}
}

func TestScore_EmptyAndStopwordOnlyQueries(t *testing.T) {
	d := doc("Anything at all", "with a description")
	if s := Score(d, ""); s != 0 {
		t.Fatalf("empty query must score 0 in the scorer, got %v", s)
	}
	if s := Score(d, "a"); s != 0 {
		t.Fatalf("single-character stopword query must score 0, got %v", s)
	}
	if s := Score(d, "the an"); s != 0 {
		t.Fatalf("stopword-only query must score 0, got %v", s)
	}
}

func TestScore_SingleCharacterQueryMatchesNothing(t *testing.T) {
	// "b" is not a stopword, but a one-letter ASCII query must not light
	// up every document whose title happens to start with that letter.
	d := doc("Build pipeline stalled", "")
	if s := Score(d, "b"); s != 0 {
		t.Fatalf("one-letter query must score 0, got %v", s)
	}
	if s := Score(d, "bu"); s != 0 {
		t.Fatalf("two-letter query must score 0, got %v", s)
	}
}

// ---------- phrase boost ordering ----------

func TestScore_PhraseBeatsSynonyms(t *testing.T) {
	phraseHit := doc("Login timeout when refreshing session", "")
	synonymHit := doc("Authentication latency investigation", "")

	q := Normalize("login timeout")
	sp := Score(phraseHit, q)
	ss := Score(synonymHit, q)
	if sp <= 0 || ss <= 0 {
		t.Fatalf("both documents must match: phrase=%v synonym=%v", sp, ss)
	}
	if sp <= ss {
		t.Fatalf("verbatim phrase hit must outrank synonym-only match: phrase=%v synonym=%v", sp, ss)
	}
}

// ---------- inflection tolerance ----------

func TestScore_InflectionTolerance(t *testing.T) {
	d := doc("Request timeout handling", "")
	if s := Score(d, "timeouts"); s <= 0 {
		t.Fatalf("plural query should match singular document token, got %v", s)
	}
}

// ---------- stopword-insensitive natural language ----------

func TestScore_NaturalLanguageEqualsKeywords(t *testing.T) {
	d := doc(
		"Fix login timeout during session refresh",
		"Retry credential refresh when auth callback stalls",
	)
	keywords := Score(d, Normalize("fix login timeout"))
	sentence := Score(d, Normalize("where did we fix the login timeout"))
	if keywords <= 0 {
		t.Fatalf("keyword query must match, got %v", keywords)
	}
	if keywords != sentence {
		t.Fatalf("stopword phrasing changed the score: keywords=%v sentence=%v", keywords, sentence)
	}
}

func TestScore_PhraseBoostOnFullQueryForm(t *testing.T) {
	// A title that spells the query's stopwords out still earns the
	// phrase boost, even though the content phrase skips them.
	verbatim := doc("Fix the timeout handler", "")
	scattered := doc("Timeout fix elsewhere", "")

	q := Normalize("fix the timeout")
	sv := Score(verbatim, q)
	ss := Score(scattered, q)
	if sv <= 0 || ss <= 0 {
		t.Fatalf("both documents must match: verbatim=%v scattered=%v", sv, ss)
	}
	if sv <= ss {
		t.Fatalf("verbatim title must outrank scattered tokens: verbatim=%v scattered=%v", sv, ss)
	}
}

// ---------- unicode ----------

func TestScore_CJKQueries(t *testing.T) {
	d := doc("登录超时排查", "刷新会话时登录超时")
	if s := Score(d, Normalize("登录")); s <= 0 {
		t.Fatalf("CJK prefix query must match CJK document, got %v", s)
	}
	if s := Score(d, Normalize("部署")); s != 0 {
		t.Fatalf("unrelated CJK query must not match, got %v", s)
	}
}

// ---------- field weights ----------

func TestScore_TitleOutweighsStatus(t *testing.T) {
	titleHit := Document{ID: "a", Title: "blocked pipeline"}
	statusHit := Document{ID: "b", Status: "blocked"}
	ts := Score(titleHit, "blocked")
	ss := Score(statusHit, "blocked")
	if ts <= 0 || ss <= 0 {
		t.Fatalf("both should match: title=%v status=%v", ts, ss)
	}
	if ts <= ss {
		t.Fatalf("title hit should outweigh status hit: title=%v status=%v", ts, ss)
	}
}

func TestScore_MissingFieldsDegradeGracefully(t *testing.T) {
	// Only an ID and a status; everything else absent. Valid input, not an
	// error.
	d := Document{ID: "m-2", Status: "failed"}
	if s := Score(d, "failed"); s <= 0 {
		t.Fatalf("status-only document should still match, got %v", s)
	}
}

// ---------- running-mission substring rule ----------

func TestRunningMatch(t *testing.T) {
	id := "3f9b2a7c-1d44-4e6a-9202-6a1f22f0c111"
	short := "3f9b2a7c"
	if !RunningMatch(id, short, "waiting_for_tool", "3f9b2a7c") {
		t.Fatalf("short id query should match running record")
	}
	if !RunningMatch(id, short, "running", "running") {
		t.Fatalf("state label query should match running record")
	}
	if RunningMatch(id, short, "running", "unrelated") {
		t.Fatalf("unrelated query must not match running record")
	}
	if RunningMatch(id, short, "running", "") {
		t.Fatalf("empty query must not match running record")
	}
	if RunningMatch(id, short, "running", "a") {
		t.Fatalf("single stopword query must not match running record")
	}
	if RunningMatch(id, short, "running", "b") {
		t.Fatalf("one-letter query must not match running record")
	}
	if RunningMatch(id, short, "running", "3f") {
		t.Fatalf("two-letter query must not match running record")
	}
}
