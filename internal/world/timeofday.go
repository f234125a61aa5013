package world

import (
	"fmt"
	"strings"
)

// TimeOfDay is a set of the times an area can be visited at.
type TimeOfDay uint8

const (
	Day   TimeOfDay = 1 << iota // Daytime
	Night                       // Nighttime

	// Both means either time is acceptable ("all" in the logic files).
	Both = Day | Night
)

// Has reports whether every time in other is also in t.
func (t TimeOfDay) Has(other TimeOfDay) bool {
	return t&other == other
}

// Intersect returns the times present in both sets.
func (t TimeOfDay) Intersect(other TimeOfDay) TimeOfDay {
	return t & other
}

// Union returns the times present in either set.
func (t TimeOfDay) Union(other TimeOfDay) TimeOfDay {
	return (t | other) & Both
}

// IsEmpty returns true if the set contains no time at all
func (t TimeOfDay) IsEmpty() bool {
	return t&Both == 0
}

// Each calls fn once for every single time contained in the set, Day first.
func (t TimeOfDay) Each(fn func(TimeOfDay)) {
	if t&Day != 0 {
		fn(Day)
	}
	if t&Night != 0 {
		fn(Night)
	}
}

// String returns the string representation of a TimeOfDay
func (t TimeOfDay) String() string {
	switch t & Both {
	case Day:
		return "day"
	case Night:
		return "night"
	case Both:
		return "both"
	default:
		return "none"
	}
}

// ParseTimeOfDay converts a logic file time string to a TimeOfDay.
// An empty string means unconstrained.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return Day, nil
	case "night":
		return Night, nil
	case "", "both", "all", "any":
		return Both, nil
	default:
		return 0, fmt.Errorf("unknown time of day %q", s)
	}
}
