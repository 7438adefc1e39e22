package models

import "strings"

// Preference axes, rankable via Preferences.Priority.
const (
	AxisTime       = "time"
	AxisBuilding   = "building"
	AxisDays       = "days"
	AxisInstructor = "instructor"
)

// DefaultPriority is the axis ranking applied when a request omits one.
var DefaultPriority = []string{AxisTime, AxisBuilding, AxisDays, AxisInstructor}

// Preferences bundles every per-request planner toggle. It is threaded
// explicitly through the planner, selector, and editor rather than living in
// package state.
type Preferences struct {
	Priority    []string
	Earliest    int // minutes of day
	Latest      int
	NoDays      string // concatenated day letters the student wants free
	Buildings   map[string]struct{}
	Instructors map[string]struct{}

	MaxPerTerm int
	MinPerTerm int

	AllowWarnings           bool
	AllowPrimaryConflicts   bool
	AllowSecondaryConflicts bool
}

// DefaultPreferences mirrors the planner's historical defaults: 3-5 courses
// per term, a 09:00-10:00 preferred window, warnings and conflicts allowed.
func DefaultPreferences() Preferences {
	return Preferences{
		Priority:                append([]string(nil), DefaultPriority...),
		Earliest:                9 * 60,
		Latest:                  10 * 60,
		Buildings:               map[string]struct{}{},
		Instructors:             map[string]struct{}{},
		MaxPerTerm:              5,
		MinPerTerm:              3,
		AllowWarnings:           true,
		AllowPrimaryConflicts:   true,
		AllowSecondaryConflicts: true,
	}
}

// Weights assigns each axis the inverse of its rank: the first axis in the
// priority list weighs the most. Axes missing from the list weigh zero.
func (p Preferences) Weights() map[string]int {
	weights := make(map[string]int, len(p.Priority))
	for i, axis := range p.Priority {
		weights[strings.ToLower(axis)] = len(p.Priority) - i
	}
	return weights
}

// PrefersBuilding reports membership in the preferred-building set.
func (p Preferences) PrefersBuilding(building string) bool {
	_, ok := p.Buildings[building]
	return ok
}

// PrefersInstructor reports membership in the preferred-instructor set.
func (p Preferences) PrefersInstructor(name string) bool {
	_, ok := p.Instructors[name]
	return ok
}

// AvoidsDays reports whether the meeting's day set is disjoint from the
// forbidden days.
func (p Preferences) AvoidsDays(days string) bool {
	return !daysIntersect(days, p.NoDays)
}

// InWindow reports whether a clock time falls inside [Earliest, Latest].
func (p Preferences) InWindow(minutes int) bool {
	return p.Earliest <= minutes && minutes <= p.Latest
}
