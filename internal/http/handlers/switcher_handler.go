// Switcher search HTTP handler.
//
// This file exposes the server-side rendition of the mission switcher's
// hybrid search:
//   - GET /switcher/search?q=&limit=
//
// One request runs the whole pipeline: fetch candidates from the
// orchestrator, ask its semantic search to score them, and rank locally.
// The remote pass is best-effort; when it errors or times out the handler
// degrades to purely local lexical ranking rather than failing the request.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/mbraack/missiondeck/internal/http/middleware"
	"github.com/mbraack/missiondeck/internal/search"
	"github.com/mbraack/missiondeck/internal/switcher"
	"github.com/mbraack/missiondeck/internal/utils"
)

var (
	// switcherSearches counts switcher searches by scoring mode: "hybrid"
	// when remote scores arrived, "local" for the fallback or empty queries.
	switcherSearches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "switcher_searches_total",
			Help: "Total number of switcher search requests by scoring mode.",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(switcherSearches)
}

// SearchResponse is the ranked switcher listing returned to clients.
//
// Fields:
//   - Query: the normalized form of the q parameter that was actually ranked.
//   - Hybrid: true when remote semantic scores contributed to the ranking.
//   - Entries: ranked rows, best first. Empty queries return the unfiltered
//     listing in natural grouping order.
type SearchResponse struct {
	Query   string           `json:"query"`
	Hybrid  bool             `json:"hybrid"`
	Entries []switcher.Entry `json:"entries"`
}

// Search handles GET /switcher/search.
//
// Query parameters:
//   - q:     free-text query; normalized before matching. Empty lists all.
//   - limit: maximum entries returned (default 50, max 500)
//
// Candidate fetch failures are 502; a failed remote scoring pass only
// downgrades the ranking to local scores.
func (h *Handlers) Search(c *gin.Context) {
	lg := middleware.LoggerFrom(c)
	query := search.Normalize(c.Query("q"))
	limit := utils.ClampInt(utils.AtoiDefault(c.Query("limit"), 50), 1, 500)
	ctx := c.Request.Context()

	missions, err := h.src.ListMissions(ctx, h.settings.CandidateLimit, 0)
	if err != nil {
		lg.Warn().Err(err).Msg("candidate fetch failed")
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "mission backend unavailable")
		return
	}

	// Running records and workspace names enrich the listing but are not
	// load-bearing; degrade to an unenriched ranking when they fail.
	running, err := h.src.ListRunningMissions(ctx)
	if err != nil {
		lg.Warn().Err(err).Msg("running fetch failed, ranking without live records")
		running = nil
	}
	workspaceNames := h.workspaceNames(ctx, lg)

	serverScores := h.remoteScores(ctx, lg, query)
	resolver := switcher.HybridResolver{
		Cache:        search.NewScoreCache(h.settings.CacheCapacity),
		ServerScores: serverScores,
	}

	entries := switcher.Rank(switcher.Candidates{
		Running: running,
		Recent:  missions,
	}, query, workspaceNames, resolver)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []switcher.Entry{}
	}

	mode := "local"
	if serverScores != nil {
		mode = "hybrid"
	}
	switcherSearches.WithLabelValues(mode).Inc()

	ok(c, http.StatusOK, SearchResponse{
		Query:   query,
		Hybrid:  serverScores != nil,
		Entries: entries,
	})
}

// workspaceNames maps workspace id to display name, empty on upstream error.
func (h *Handlers) workspaceNames(ctx context.Context, lg *zerolog.Logger) map[string]string {
	workspaces, err := h.src.ListWorkspaces(ctx)
	if err != nil {
		lg.Warn().Err(err).Msg("workspace fetch failed, ranking without labels")
		return nil
	}
	names := make(map[string]string, len(workspaces))
	for _, ws := range workspaces {
		names[ws.ID] = ws.Name
	}
	return names
}

// remoteScores runs the orchestrator's semantic search for query under the
// configured timeout. A nil map means the remote pass did not contribute
// (empty query, upstream error, or timeout) and ranking is purely local.
func (h *Handlers) remoteScores(ctx context.Context, lg *zerolog.Logger, query string) map[string]float64 {
	if query == "" {
		return nil
	}
	sctx, cancel := context.WithTimeout(ctx, h.settings.RemoteTimeout)
	defer cancel()

	scored, err := h.src.SearchMissions(sctx, query, h.settings.RemoteLimit)
	if err != nil {
		lg.Warn().Err(err).Str("query", query).Msg("remote search failed, falling back to local scores")
		return nil
	}
	scores := make(map[string]float64, len(scored))
	for _, sm := range scored {
		scores[sm.Mission.ID] = sm.RelevanceScore
	}
	return scores
}
