package models

import "sort"

// Exclusion reasons. The effective exclusion set is the union of all reasons.
const (
	ExclusionInjured    = "injured"
	ExclusionTeamChange = "team_change"
	ExclusionManual     = "manual"
)

// ExclusionReasons lists the recognized reasons
var ExclusionReasons = []string{ExclusionInjured, ExclusionTeamChange, ExclusionManual}

// ValidExclusionReason reports whether reason is recognized
func ValidExclusionReason(reason string) bool {
	for _, r := range ExclusionReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// ExclusionSet is a set of player IDs omitted from group aggregations
type ExclusionSet map[string]struct{}

// NewExclusionSet builds a set from ids
func NewExclusionSet(ids ...string) ExclusionSet {
	set := make(ExclusionSet, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains is safe to call on a nil set
func (s ExclusionSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members in ascending order
func (s ExclusionSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExclusionEntry is one player excluded for one reason
type ExclusionEntry struct {
	PlayerID string `json:"player_id" validate:"required"`
	Reason   string `json:"reason" validate:"required,oneof=injured team_change manual"`
}
