package models

import (
	"fmt"
	"strings"
)

// StatSelector names which statistic an analysis reads
type StatSelector int

const (
	StatUnknown StatSelector = iota
	StatPassingYards
	StatRushingYards
	StatReceivingYards
	StatReceptions
	StatInterceptions
	StatFumbles
	// StatTotalYards is rushing + receiving yards
	StatTotalYards
	// StatTouchdowns is passing + rushing + receiving touchdowns
	StatTouchdowns
)

// AllStatSelectors lists every recognized selector in declaration order
var AllStatSelectors = []StatSelector{
	StatPassingYards,
	StatRushingYards,
	StatReceivingYards,
	StatReceptions,
	StatInterceptions,
	StatFumbles,
	StatTotalYards,
	StatTouchdowns,
}

func (s StatSelector) String() string {
	switch s {
	case StatPassingYards:
		return "passing_yards"
	case StatRushingYards:
		return "rushing_yards"
	case StatReceivingYards:
		return "receiving_yards"
	case StatReceptions:
		return "receptions"
	case StatInterceptions:
		return "interceptions"
	case StatFumbles:
		return "fumbles"
	case StatTotalYards:
		return "total_yards"
	case StatTouchdowns:
		return "touchdowns"
	}
	return "unknown"
}

// Valid reports whether s is one of the recognized selectors
func (s StatSelector) Valid() bool {
	return s >= StatPassingYards && s <= StatTouchdowns
}

// ParseStatSelector maps an API stat name to its selector
func ParseStatSelector(name string) (StatSelector, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range AllStatSelectors {
		if s.String() == name {
			return s, nil
		}
	}
	return StatUnknown, fmt.Errorf("unknown stat type %q", name)
}

// MarshalText encodes the selector by name
func (s StatSelector) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stat selector %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a selector name
func (s *StatSelector) UnmarshalText(b []byte) error {
	parsed, err := ParseStatSelector(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Extract reads the selected value from a stat line. The bool is false when
// the stat was not recorded, in which case the game must not be analyzed.
func (s StatSelector) Extract(line StatLine) (float64, bool) {
	switch s {
	case StatPassingYards:
		return single(line.PassingYards)
	case StatRushingYards:
		return single(line.RushingYards)
	case StatReceivingYards:
		return single(line.ReceivingYards)
	case StatReceptions:
		return single(line.Receptions)
	case StatInterceptions:
		return single(line.Interceptions)
	case StatFumbles:
		return single(line.Fumbles)
	case StatTotalYards:
		return sumPresent(line.RushingYards, line.ReceivingYards)
	case StatTouchdowns:
		return sumPresent(line.PassingTDs, line.RushingTDs, line.ReceivingTDs)
	}
	return 0, false
}

func single(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// sumPresent adds the recorded parts, counting missing parts as zero.
// The sum is absent only when every part is absent.
func sumPresent(parts ...*float64) (float64, bool) {
	var total float64
	present := false
	for _, p := range parts {
		if p != nil {
			total += *p
			present = true
		}
	}
	return total, present
}
