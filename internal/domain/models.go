// Package domain defines the mission, workspace, and live-execution records
// exchanged with the orchestration backend. The backend owns every one of
// these entities; this service treats them as immutable snapshots per request,
// validated once at the deserialization boundary so the scoring core can
// operate on fully-typed records instead of loose property probing.
package domain

// MissionStatus is the lifecycle state of a persisted mission.
type MissionStatus string

// Mission lifecycle states as reported by the orchestration backend.
const (
	StatusPending     MissionStatus = "pending"
	StatusActive      MissionStatus = "active"
	StatusBlocked     MissionStatus = "blocked"
	StatusInterrupted MissionStatus = "interrupted"
	StatusFailed      MissionStatus = "failed"
	StatusCompleted   MissionStatus = "completed"
)

// Resumable reports whether a mission in this status can be resumed.
// Interrupted, blocked, and failed missions keep their execution context and
// may be picked back up; everything else starts fresh.
func (s MissionStatus) Resumable() bool {
	switch s {
	case StatusInterrupted, StatusBlocked, StatusFailed:
		return true
	default:
		return false
	}
}

// Mission is a persisted unit of agent work tracked by the backend.
//
// Timestamps are RFC 3339 strings as produced by the backend; they compare
// correctly with plain string ordering, and an absent timestamp is the empty
// string (which sorts after any real one in descending order). All fields
// except ID and Status are optional; absent values are empty strings and are
// valid inputs everywhere in this codebase, never errors.
type Mission struct {
	ID                string        `json:"id"`
	Title             string        `json:"title,omitempty"`
	ShortDescription  string        `json:"short_description,omitempty"`
	Backend           string        `json:"backend,omitempty"`
	Status            MissionStatus `json:"status"`
	WorkspaceID       string        `json:"workspace_id,omitempty"`
	CreatedAt         string        `json:"created_at"`
	UpdatedAt         string        `json:"updated_at"`
	MetadataUpdatedAt string        `json:"metadata_updated_at,omitempty"`
	Resumable         bool          `json:"resumable"`
}

// ShortID returns the leading eight characters of the mission ID, the form
// shown for missions that have no generated title yet.
func (m Mission) ShortID() string {
	return shortID(m.ID)
}

// RunningMissionInfo is the transient live-execution record for a mission
// that is currently executing. It is created when a run starts and removed
// when it stops, and is distinct from the persisted Mission row: a running
// entry can exist before its Mission record has been hydrated on this side.
type RunningMissionInfo struct {
	MissionID    string `json:"mission_id"`
	State        string `json:"state"`
	QueueLen     int    `json:"queue_len"`
	IdleSeconds  int    `json:"idle_seconds"`
	HealthStatus string `json:"health_status,omitempty"`
}

// ShortName returns the abbreviated mission identifier used when the
// switcher has no hydrated Mission record to take a title from.
func (r RunningMissionInfo) ShortName() string {
	return shortID(r.MissionID)
}

// Workspace is a named container for missions. Only the identifier and
// display name matter to this service; the mapping ID → Name feeds the
// display-name field of search documents.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScoredMission pairs a mission with the relevance score the backend's
// semantic search assigned it for one specific query.
type ScoredMission struct {
	Mission        Mission `json:"mission"`
	RelevanceScore float64 `json:"relevance_score"`
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
