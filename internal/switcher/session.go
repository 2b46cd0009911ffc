package switcher

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbraack/missiondeck/internal/domain"
	"github.com/mbraack/missiondeck/internal/search"
)

// Defaults for a freshly opened session.
const (
	DefaultDebounce    = 120 * time.Millisecond
	DefaultRemoteLimit = 100
)

// RemoteSearcher is the slice of the orchestration backend the session
// needs: one debounced semantic-search call per settled query. Rejection is
// never fatal; it just forces local scoring.
type RemoteSearcher interface {
	SearchMissions(ctx context.Context, query string, limit int) ([]domain.ScoredMission, error)
}

// Session owns all mutable search state for one open mission switcher: the
// normalized query, the score cache, the server-score map for the current
// query, the debounce timer, and the request sequence counter. Construct one
// when the switcher opens, Close it when the switcher closes; nothing here is
// shared between sessions.
//
// The remote response lands on a timer goroutine, so a mutex serializes
// state; the ordering guarantee is still the sequence counter, exactly as in
// the event-driven original: the most recently issued query always wins, and
// a stale response can neither overwrite newer scores nor clear a newer
// request's loading flag.
type Session struct {
	remote      RemoteSearcher
	log         zerolog.Logger
	debounce    time.Duration
	remoteLimit int

	mu             sync.Mutex
	query          string // normalized
	seq            uint64 // latest issued request sequence
	timer          *time.Timer
	cache          *search.ScoreCache
	serverScores   map[string]float64
	loadingSeq     uint64 // sequence currently in flight, 0 when idle
	workspaceNames map[string]string
	closed         bool
}

// SessionOption customizes a Session at construction.
type SessionOption func(*Session)

// WithDebounce overrides the idle delay before the remote search fires.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithRemoteLimit caps the number of results requested from the backend.
func WithRemoteLimit(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.remoteLimit = n
		}
	}
}

// WithCacheCapacity bounds the session's score cache.
func WithCacheCapacity(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.cache = search.NewScoreCache(n)
		}
	}
}

// WithLogger attaches a logger for remote-search diagnostics.
func WithLogger(lg zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = lg }
}

// NewSession creates the state for one open switcher. remote may be nil, in
// which case every query is scored locally.
func NewSession(remote RemoteSearcher, opts ...SessionOption) *Session {
	s := &Session{
		remote:      remote,
		log:         zerolog.Nop(),
		debounce:    DefaultDebounce,
		remoteLimit: DefaultRemoteLimit,
		cache:       search.NewScoreCache(search.DefaultCacheCapacity),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetWorkspaceNames replaces the workspace id → display name mapping and
// clears the score cache (the cache key carries only the resolved label, so
// any mapping change is a coarse full invalidation).
func (s *Session) SetWorkspaceNames(names map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaceNames = names
	s.cache.Clear()
}

// InvalidateScores clears the score cache. Call it whenever the mission list
// backing the switcher is refreshed.
func (s *Session) InvalidateScores() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Clear()
}

// SetQuery normalizes raw and, when the result differs from the current
// query, supersedes any in-flight or pending remote search and drops any
// server scores held for the previous query. A non-empty query schedules
// one remote search after the debounce interval of further inactivity; an
// empty query sends nothing.
func (s *Session) SetQuery(raw string) {
	q := search.Normalize(raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || q == s.query {
		return
	}
	s.query = q
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// Scores answered the previous query; they must not leak into ranking
	// for this one while the debounce window is open.
	s.serverScores = nil
	if q == "" {
		s.loadingSeq = 0
		return
	}
	if s.remote == nil {
		return
	}
	seq := s.seq
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(seq, q) })
}

// Query returns the current normalized query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Loading reports whether a remote search for the current query is in
// flight. A superseded request can never flip this back to false on behalf
// of a newer one.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingSeq != 0
}

// Rank runs the ranking pipeline over c with the session's current query,
// cache, and server scores.
func (s *Session) Rank(c Candidates) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Rank(c, s.query, s.workspaceNames, HybridResolver{
		Cache:        s.cache,
		ServerScores: s.serverScores,
	})
}

// Close cancels any pending debounce timer, invalidates in-flight responses,
// and drops all session state. The session must not be reused afterwards; a
// reopened switcher gets a fresh one.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.seq++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.query = ""
	s.serverScores = nil
	s.loadingSeq = 0
	s.cache.Clear()
}

// fire performs the debounced remote search for the captured sequence
// number. It runs on the timer goroutine.
func (s *Session) fire(seq uint64, query string) {
	s.mu.Lock()
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		return
	}
	s.loadingSeq = seq
	remote, limit := s.remote, s.remoteLimit
	s.mu.Unlock()

	// No explicit deadline here: a hung response is simply ignored once a
	// newer query supersedes this sequence number. The HTTP client carries
	// its own transport timeout.
	results, err := remote.SearchMissions(context.Background(), query, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		// Stale response, possibly after Close: newer state already won.
		return
	}
	if s.loadingSeq == seq {
		s.loadingSeq = 0
	}
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("remote mission search failed; using local scores")
		s.serverScores = nil
		return
	}
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.Mission.ID] = r.RelevanceScore
	}
	s.serverScores = scores
}
