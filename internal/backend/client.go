// Package backend is the HTTP client for the mission orchestration service.
// It exposes exactly the read surface the switcher needs (mission listings,
// live running records, workspaces, and the semantic search endpoint) and
// nothing of the orchestrator's execution API.
//
// Transient failures are retried with backoff (go-retryablehttp); anything
// that still fails surfaces as an error for the caller to downgrade, log, or
// map to an HTTP status. This package never interprets a search failure as
// fatal; that policy belongs to the switcher.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"

	"github.com/mbraack/missiondeck/internal/domain"
)

// DefaultTimeout bounds each attempt against the orchestrator.
const DefaultTimeout = 10 * time.Second

// ErrUpstreamStatus marks a non-2xx response from the orchestrator after
// retries were exhausted. Callers can errors.Is against it to distinguish
// a reachable-but-unhappy upstream from transport failures.
var ErrUpstreamStatus = errors.New("unexpected upstream status")

// maxErrorBody caps how much of an upstream error body is read for messages.
const maxErrorBody = 2048

// Client talks to the orchestration backend. It is safe for concurrent use.
type Client struct {
	base string
	http *retryablehttp.Client
	log  zerolog.Logger
}

// New builds a Client for the orchestrator at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration, lg zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = timeout
	rc.Logger = nil // retry chatter goes through zerolog below instead
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			lg.Warn().Str("url", req.URL.Path).Int("attempt", attempt).Msg("retrying backend request")
		}
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: rc,
		log:  lg,
	}
}

// ListMissions returns up to limit persisted missions ordered by the
// backend (most recently updated first), starting at offset.
func (c *Client) ListMissions(ctx context.Context, limit, offset int) ([]domain.Mission, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var missions []domain.Mission
	if err := c.getJSON(ctx, "/api/missions", q, &missions); err != nil {
		return nil, err
	}
	return missions, nil
}

// ListRunningMissions returns the live execution records.
func (c *Client) ListRunningMissions(ctx context.Context) ([]domain.RunningMissionInfo, error) {
	var running []domain.RunningMissionInfo
	if err := c.getJSON(ctx, "/api/missions/running", nil, &running); err != nil {
		return nil, err
	}
	return running, nil
}

// ListWorkspaces returns the workspace id → name catalogue.
func (c *Client) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	var workspaces []domain.Workspace
	if err := c.getJSON(ctx, "/api/workspaces", nil, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// SearchMissions runs the orchestrator's semantic search for query and
// returns at most limit scored missions. Callers treat any error as "no
// server scores available".
func (c *Client) SearchMissions(ctx context.Context, query string, limit int) ([]domain.ScoredMission, error) {
	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var scored []domain.ScoredMission
	if err := c.getJSON(ctx, "/api/missions/search", q, &scored); err != nil {
		return nil, err
	}
	return scored, nil
}

// getJSON performs one GET against path and decodes the 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("backend: build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("backend: %s: %w %d: %s", path, ErrUpstreamStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: %s: decode response: %w", path, err)
	}
	return nil
}
