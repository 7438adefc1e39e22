package models

import (
	"fmt"
	"sort"
	"strings"
)

// MeetingSlot is one recurring meeting of a section. Start and End are
// wall-clock minutes of day; Days is a concatenation of single-letter day
// codes (M T W R F S U).
type MeetingSlot struct {
	Days     string
	Start    int
	End      int
	Building string
	Room     string
}

// Overlaps reports whether two slots collide: the day sets intersect and the
// half-open intervals [Start, End) overlap.
func (m MeetingSlot) Overlaps(other MeetingSlot) bool {
	if !daysIntersect(m.Days, other.Days) {
		return false
	}
	return m.Start < other.End && other.Start < m.End
}

func daysIntersect(a, b string) bool {
	for _, r := range a {
		if strings.ContainsRune(b, r) {
			return true
		}
	}
	return false
}

// ParseClock converts "HH:MM" or "HH:MM:SS" into minutes of day.
func ParseClock(raw string) (int, error) {
	var h, m, s int
	switch strings.Count(raw, ":") {
	case 1:
		if _, err := fmt.Sscanf(raw, "%d:%d", &h, &m); err != nil {
			return 0, fmt.Errorf("invalid clock time %q", raw)
		}
	case 2:
		if _, err := fmt.Sscanf(raw, "%d:%d:%d", &h, &m, &s); err != nil {
			return 0, fmt.Errorf("invalid clock time %q", raw)
		}
	default:
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q", raw)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes of day as a 24-hour "HH:MM" string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Section is a concrete catalog section with its meetings and instructors
// attached.
type Section struct {
	ID              int64  `db:"id"`
	CourseID        int64  `db:"course_id"`
	TermID          int64  `db:"term_id"`
	Code            string `db:"section_code"`
	IsPrimary       bool   `db:"is_primary"`
	Activity        string `db:"activity"`
	EnrollmentCap   int    `db:"enrollment_cap"`
	EnrollmentTotal int    `db:"enrollment_total"`
	WaitlistCap     int    `db:"waitlist_cap"`
	WaitlistTotal   int    `db:"waitlist_total"`

	Times       []MeetingSlot `db:"-"`
	Instructors []string      `db:"-"`
}

// Usable reports whether a student can still get into the section: it is
// unusable only when enrollment and waitlist are both full.
func (s *Section) Usable() bool {
	return s.EnrollmentTotal < s.EnrollmentCap || s.WaitlistTotal < s.WaitlistCap
}

// ConflictsWith reports whether any meeting of s collides with any meeting
// of other.
func (s *Section) ConflictsWith(other *Section) bool {
	for _, m1 := range s.Times {
		for _, m2 := range other.Times {
			if m1.Overlaps(m2) {
				return true
			}
		}
	}
	return false
}

// CodePrefix returns the section code up to the first '-'. Lecture "1-LEC"
// and discussion "1-DIS-A" pair through the shared "1" prefix.
func (s *Section) CodePrefix() string {
	prefix, _, _ := strings.Cut(s.Code, "-")
	return prefix
}

// MeetingView is the external rendering of one or more identical meetings,
// with days merged and times as "HH:MM" strings.
type MeetingView struct {
	Days     string `json:"days"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Building string `json:"building"`
	Room     string `json:"room"`
}

// Slot parses the view back into a comparable MeetingSlot. Malformed times
// yield a zero-width slot that can never conflict.
func (v MeetingView) Slot() MeetingSlot {
	start, err1 := ParseClock(v.Start)
	end, err2 := ParseClock(v.End)
	if err1 != nil || err2 != nil {
		return MeetingSlot{Days: v.Days}
	}
	return MeetingSlot{Days: v.Days, Start: start, End: end, Building: v.Building, Room: v.Room}
}

// SectionSummary is the section object exposed on the JSON surface.
type SectionSummary struct {
	ID              int64         `json:"id"`
	Section         string        `json:"section"`
	Activity        string        `json:"activity"`
	EnrollmentCap   int           `json:"enrollment_cap"`
	EnrollmentTotal int           `json:"enrollment_total"`
	WaitlistCap     int           `json:"waitlist_cap"`
	WaitlistTotal   int           `json:"waitlist_total"`
	Times           []MeetingView `json:"times"`
	Instructors     []string      `json:"instructors"`
}

// Summarize converts a catalog section into its external form, merging
// meetings that share time and place into a single entry with combined days.
func Summarize(sec *Section) *SectionSummary {
	if sec == nil {
		return nil
	}
	type slotKey struct {
		start, end     int
		building, room string
	}
	merged := make(map[slotKey]map[rune]struct{})
	var order []slotKey
	for _, t := range sec.Times {
		key := slotKey{start: t.Start, end: t.End, building: t.Building, room: t.Room}
		if merged[key] == nil {
			merged[key] = make(map[rune]struct{})
			order = append(order, key)
		}
		for _, d := range t.Days {
			merged[key][d] = struct{}{}
		}
	}

	times := make([]MeetingView, 0, len(order))
	for _, key := range order {
		days := make([]string, 0, len(merged[key]))
		for d := range merged[key] {
			days = append(days, string(d))
		}
		sort.Strings(days)
		times = append(times, MeetingView{
			Days:     strings.Join(days, ""),
			Start:    FormatClock(key.start),
			End:      FormatClock(key.end),
			Building: key.building,
			Room:     key.room,
		})
	}

	instructors := sec.Instructors
	if instructors == nil {
		instructors = []string{}
	}
	return &SectionSummary{
		ID:              sec.ID,
		Section:         sec.Code,
		Activity:        sec.Activity,
		EnrollmentCap:   sec.EnrollmentCap,
		EnrollmentTotal: sec.EnrollmentTotal,
		WaitlistCap:     sec.WaitlistCap,
		WaitlistTotal:   sec.WaitlistTotal,
		Times:           times,
		Instructors:     instructors,
	}
}

// Instructor is a catalog instructor row.
type Instructor struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
