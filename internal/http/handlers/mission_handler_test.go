package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbraack/missiondeck/internal/domain"
)

// ---------- fakes ----------

type fakeSource struct {
	missions   []domain.Mission
	running    []domain.RunningMissionInfo
	workspaces []domain.Workspace
	scored     []domain.ScoredMission

	missionsErr   error
	runningErr    error
	workspacesErr error
	searchErr     error

	gotLimit    int
	gotOffset   int
	gotQuery    string
	searchCalls int
}

func (f *fakeSource) ListMissions(_ context.Context, limit, offset int) ([]domain.Mission, error) {
	f.gotLimit, f.gotOffset = limit, offset
	return f.missions, f.missionsErr
}

func (f *fakeSource) ListRunningMissions(context.Context) ([]domain.RunningMissionInfo, error) {
	return f.running, f.runningErr
}

func (f *fakeSource) ListWorkspaces(context.Context) ([]domain.Workspace, error) {
	return f.workspaces, f.workspacesErr
}

func (f *fakeSource) SearchMissions(_ context.Context, query string, _ int) ([]domain.ScoredMission, error) {
	f.searchCalls++
	f.gotQuery = query
	return f.scored, f.searchErr
}

func testSettings() SearchSettings {
	return SearchSettings{
		CandidateLimit: 200,
		RemoteLimit:    100,
		RemoteTimeout:  time.Second,
		CacheCapacity:  100,
	}
}

func newTestRouter(src MissionSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(src, testSettings())
	r := gin.New()
	r.GET("/missions", h.ListMissions)
	r.GET("/missions/running", h.ListRunning)
	r.GET("/workspaces", h.ListWorkspaces)
	r.GET("/switcher/search", h.Search)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func mkMission(id, title, updated string) domain.Mission {
	return domain.Mission{
		ID:        id,
		Title:     title,
		Status:    domain.StatusCompleted,
		UpdatedAt: updated,
	}
}

// ---------- missions ----------

func TestListMissions_ForwardsPagingAndClampsLimit(t *testing.T) {
	src := &fakeSource{missions: []domain.Mission{mkMission("m1", "Fix login timeout", "2026-08-29T10:00:00Z")}}
	r := newTestRouter(src)

	w := doGet(t, r, "/missions?limit=9999&offset=20")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if src.gotLimit != 500 || src.gotOffset != 20 {
		t.Fatalf("expected clamped limit=500 offset=20, got %d/%d", src.gotLimit, src.gotOffset)
	}

	var body struct {
		Missions   []domain.Mission `json:"missions"`
		Pagination Pagination       `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Missions) != 1 || body.Missions[0].ID != "m1" {
		t.Fatalf("unexpected missions: %+v", body.Missions)
	}
	if body.Pagination.Count != 1 || body.Pagination.Limit != 500 {
		t.Fatalf("unexpected pagination: %+v", body.Pagination)
	}
}

func TestListMissions_DefaultsAndNegativeOffset(t *testing.T) {
	src := &fakeSource{}
	r := newTestRouter(src)

	w := doGet(t, r, "/missions?offset=-5")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if src.gotLimit != 50 || src.gotOffset != 0 {
		t.Fatalf("expected defaults limit=50 offset=0, got %d/%d", src.gotLimit, src.gotOffset)
	}
}

func TestListMissions_UpstreamError(t *testing.T) {
	src := &fakeSource{missionsErr: errors.New("connection refused")}
	r := newTestRouter(src)

	w := doGet(t, r, "/missions")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Code != ErrCodeUpstream {
		t.Fatalf("expected %s, got %s", ErrCodeUpstream, resp.Code)
	}
}

// ---------- running ----------

func TestListRunning_OK(t *testing.T) {
	src := &fakeSource{running: []domain.RunningMissionInfo{{MissionID: "r1", State: "running"}}}
	r := newTestRouter(src)

	w := doGet(t, r, "/missions/running")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body struct {
		Running []domain.RunningMissionInfo `json:"running"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Running) != 1 || body.Running[0].MissionID != "r1" {
		t.Fatalf("unexpected running: %+v", body.Running)
	}
}

func TestListRunning_UpstreamError(t *testing.T) {
	src := &fakeSource{runningErr: errors.New("boom")}
	r := newTestRouter(src)

	if w := doGet(t, r, "/missions/running"); w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", w.Code)
	}
}

// ---------- workspaces ----------

func TestListWorkspaces_OK(t *testing.T) {
	src := &fakeSource{workspaces: []domain.Workspace{{ID: "ws1", Name: "payments"}}}
	r := newTestRouter(src)

	w := doGet(t, r, "/workspaces")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body struct {
		Workspaces []domain.Workspace `json:"workspaces"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Workspaces) != 1 || body.Workspaces[0].Name != "payments" {
		t.Fatalf("unexpected workspaces: %+v", body.Workspaces)
	}
}

func TestListWorkspaces_UpstreamError(t *testing.T) {
	src := &fakeSource{workspacesErr: errors.New("boom")}
	r := newTestRouter(src)

	if w := doGet(t, r, "/workspaces"); w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d", w.Code)
	}
}
