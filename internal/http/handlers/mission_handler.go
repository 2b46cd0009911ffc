// Mission HTTP handlers.
//
// This file exposes read-only REST endpoints over the orchestrator's mission
// inventory:
//   - GET /missions           (recent missions, paginated)
//   - GET /missions/running   (live running records)
//   - GET /workspaces         (workspace directory)
//
// Handlers are transport-thin: they validate input, call the upstream client,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbraack/missiondeck/internal/domain"
	"github.com/mbraack/missiondeck/internal/http/middleware"
	"github.com/mbraack/missiondeck/internal/utils"
)

//
// Upstream contract (context-aware)
//

// MissionSource defines the orchestrator operations consumed by HTTP
// handlers. It is satisfied by backend.Client.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MissionSource interface {
	// ListMissions returns up to limit missions ordered most-recent first.
	ListMissions(ctx context.Context, limit, offset int) ([]domain.Mission, error)
	// ListRunningMissions returns the currently executing mission records.
	ListRunningMissions(ctx context.Context) ([]domain.RunningMissionInfo, error)
	// ListWorkspaces returns the known workspaces.
	ListWorkspaces(ctx context.Context) ([]domain.Workspace, error)
	// SearchMissions runs the orchestrator's semantic search for query.
	SearchMissions(ctx context.Context, query string, limit int) ([]domain.ScoredMission, error)
}

//
// Handler wiring
//

// SearchSettings tunes the server-side switcher search pass.
//
// Fields:
//   - CandidateLimit: missions fetched from upstream per search request.
//   - RemoteLimit: result cap requested from the orchestrator's search.
//   - RemoteTimeout: how long the remote scoring pass may take before the
//     handler falls back to purely local ranking.
//   - CacheCapacity: per-request score cache bound.
type SearchSettings struct {
	CandidateLimit int
	RemoteLimit    int
	RemoteTimeout  time.Duration
	CacheCapacity  int
}

// Handlers groups the mission and switcher endpoints. It depends on the
// abstract MissionSource to keep transport concerns separate from upstream
// plumbing.
type Handlers struct {
	src      MissionSource
	settings SearchSettings
}

// New constructs and returns a Handlers instance bound to the given source.
func New(src MissionSource, settings SearchSettings) *Handlers {
	return &Handlers{src: src, settings: settings}
}

//
// Pagination DTO
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ListMissions handles GET /missions.
//
// Query parameters:
//   - limit:  page size (default 50, max 500)
//   - offset: number of missions to skip (default 0)
//
// Responds 200 with {"missions": [...], "pagination": {...}} or 502 when the
// orchestrator is unreachable.
func (h *Handlers) ListMissions(c *gin.Context) {
	limit := utils.ClampInt(utils.AtoiDefault(c.Query("limit"), 50), 1, 500)
	offset := utils.AtoiDefault(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	missions, err := h.src.ListMissions(c.Request.Context(), limit, offset)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("list missions upstream failed")
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "mission backend unavailable")
		return
	}

	ok(c, http.StatusOK, gin.H{
		"missions":   missions,
		"pagination": Pagination{Limit: limit, Offset: offset, Count: len(missions)},
	})
}

// ListRunning handles GET /missions/running.
//
// Responds 200 with {"running": [...]} or 502 when the orchestrator is
// unreachable.
func (h *Handlers) ListRunning(c *gin.Context) {
	running, err := h.src.ListRunningMissions(c.Request.Context())
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("list running upstream failed")
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "mission backend unavailable")
		return
	}
	ok(c, http.StatusOK, gin.H{"running": running})
}

// ListWorkspaces handles GET /workspaces.
//
// Responds 200 with {"workspaces": [...]} or 502 when the orchestrator is
// unreachable.
func (h *Handlers) ListWorkspaces(c *gin.Context) {
	workspaces, err := h.src.ListWorkspaces(c.Request.Context())
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("list workspaces upstream failed")
		fail(c, http.StatusBadGateway, ErrCodeUpstream, "mission backend unavailable")
		return
	}
	ok(c, http.StatusOK, gin.H{"workspaces": workspaces})
}
