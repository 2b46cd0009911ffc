package switcher

import (
	"sort"

	"github.com/mbraack/missiondeck/internal/domain"
	"github.com/mbraack/missiondeck/internal/search"
)

// Group is the display grouping an entry belongs to in the switcher list.
type Group string

// Display groups in their natural order.
const (
	GroupCurrent Group = "current"
	GroupRunning Group = "running"
	GroupRecent  Group = "recent"
)

// Candidates is the full set of documents the switcher can show: the mission
// currently open in the UI, live running records, and recently updated
// missions. The three sets may overlap by id; Rank deduplicates with
// current > running > recent precedence.
type Candidates struct {
	Current *domain.Mission
	Running []domain.RunningMissionInfo
	Recent  []domain.Mission
}

// Entry is one ranked row of the switcher list. Mission is nil for a running
// record that has no hydrated Mission yet; Running is nil for plain recent
// missions. Score is 0 for all entries of an empty-query listing.
type Entry struct {
	Mission *domain.Mission            `json:"mission,omitempty"`
	Running *domain.RunningMissionInfo `json:"running,omitempty"`
	Group   Group                      `json:"group"`
	Score   float64                    `json:"score"`
}

// DocumentFor flattens a mission into the scorer's view of it. The workspace
// name mapping contributes only the display-name field (and the cache key);
// a missing workspace entry degrades to the bare title or short id.
func DocumentFor(m domain.Mission, workspaceNames map[string]string) search.Document {
	label := workspaceNames[m.WorkspaceID]
	name := m.Title
	if name == "" {
		name = "Mission " + m.ShortID()
	}
	if label != "" {
		name = label + " " + name
	}
	return search.Document{
		ID:                m.ID,
		DisplayName:       name,
		Title:             m.Title,
		Description:       m.ShortDescription,
		Backend:           m.Backend,
		Status:            string(m.Status),
		UpdatedAt:         m.UpdatedAt,
		MetadataUpdatedAt: m.MetadataUpdatedAt,
		WorkspaceLabel:    label,
	}
}

// Rank filters and orders the candidate set for normalizedQuery.
//
// An empty query matches everything: candidates come back unfiltered in
// their natural grouping order (current, running, recent) with zero scores.
// A non-empty query scores every entry through the resolver (or the
// running-record substring rule when no Mission is hydrated), drops
// non-positive scores, and stable-sorts by score descending with
// most-recently-updated first on ties (missing timestamps last).
func Rank(c Candidates, normalizedQuery string, workspaceNames map[string]string, r HybridResolver) []Entry {
	entries := assemble(c)
	if normalizedQuery == "" {
		return entries
	}

	matched := make([]Entry, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.Mission != nil:
			e.Score = r.Resolve(DocumentFor(*e.Mission, workspaceNames), normalizedQuery)
		case e.Running != nil:
			if search.RunningMatch(e.Running.MissionID, e.Running.ShortName(), e.Running.State, normalizedQuery) {
				e.Score = search.RunningMatchScore
			}
		}
		if e.Score > 0 {
			matched = append(matched, e)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return entryUpdatedAt(matched[i]) > entryUpdatedAt(matched[j])
	})
	return matched
}

// assemble flattens the candidate sets into natural grouping order,
// deduplicated by mission id. Running entries are hydrated with the full
// Mission record when one is available so they score through the real field
// scorer rather than the substring rule.
func assemble(c Candidates) []Entry {
	byID := make(map[string]*domain.Mission, len(c.Recent)+1)
	if c.Current != nil {
		byID[c.Current.ID] = c.Current
	}
	for i := range c.Recent {
		m := &c.Recent[i]
		if _, ok := byID[m.ID]; !ok {
			byID[m.ID] = m
		}
	}

	seen := make(map[string]struct{}, len(byID)+len(c.Running))
	entries := make([]Entry, 0, len(byID)+len(c.Running))

	if c.Current != nil {
		seen[c.Current.ID] = struct{}{}
		entries = append(entries, Entry{Mission: c.Current, Group: GroupCurrent})
	}
	for i := range c.Running {
		run := &c.Running[i]
		if _, dup := seen[run.MissionID]; dup {
			continue
		}
		seen[run.MissionID] = struct{}{}
		entries = append(entries, Entry{
			Mission: byID[run.MissionID],
			Running: run,
			Group:   GroupRunning,
		})
	}
	for i := range c.Recent {
		m := &c.Recent[i]
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		entries = append(entries, Entry{Mission: m, Group: GroupRecent})
	}
	return entries
}

func entryUpdatedAt(e Entry) string {
	if e.Mission != nil {
		return e.Mission.UpdatedAt
	}
	return ""
}
