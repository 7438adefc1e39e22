package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Filler is the synthetic course key used to pad under-filled terms. It is
// inert in every invariant check.
const Filler = "FILLER"

// IsPlaceholder reports whether a course key is transparent to requisite and
// conflict validation: the FILLER sentinel and unresolved elective slots.
func IsPlaceholder(courseKey string) bool {
	return courseKey == Filler || strings.HasSuffix(courseKey, "Elective")
}

// CoursePlacement holds the chosen sections for one course in the detailed
// (earliest) term. Either block may be null.
type CoursePlacement struct {
	Lecture    *SectionSummary `json:"lecture"`
	Discussion *SectionSummary `json:"discussion"`
}

// TermEntry is one term's worth of schedule. The earliest term is detailed
// (course -> placement in insertion order); later terms are plain ordered
// course lists.
type TermEntry struct {
	Detailed   bool
	Order      []string
	Placements map[string]*CoursePlacement
}

// NewListEntry builds a plain term entry.
func NewListEntry(courses []string) *TermEntry {
	return &TermEntry{Order: append([]string(nil), courses...)}
}

// NewDetailedEntry builds an empty detailed term entry.
func NewDetailedEntry() *TermEntry {
	return &TermEntry{Detailed: true, Placements: make(map[string]*CoursePlacement)}
}

// Contains reports whether the course key is placed in this term.
func (e *TermEntry) Contains(courseKey string) bool {
	for _, c := range e.Order {
		if c == courseKey {
			return true
		}
	}
	return false
}

// Add appends a course. The placement is kept only for detailed entries.
func (e *TermEntry) Add(courseKey string, placement *CoursePlacement) {
	e.Order = append(e.Order, courseKey)
	if e.Detailed {
		if placement == nil {
			placement = &CoursePlacement{}
		}
		e.Placements[courseKey] = placement
	}
}

// Remove drops the first occurrence of the course and returns its placement,
// if any.
func (e *TermEntry) Remove(courseKey string) *CoursePlacement {
	for i, c := range e.Order {
		if c == courseKey {
			e.Order = append(e.Order[:i:i], e.Order[i+1:]...)
			break
		}
	}
	var placement *CoursePlacement
	if e.Detailed {
		placement = e.Placements[courseKey]
		delete(e.Placements, courseKey)
	}
	return placement
}

// Clone deep-copies the entry. Section summaries are shared; mutations
// replace pointers rather than editing summaries in place.
func (e *TermEntry) Clone() *TermEntry {
	clone := &TermEntry{
		Detailed: e.Detailed,
		Order:    append([]string(nil), e.Order...),
	}
	if e.Placements != nil {
		clone.Placements = make(map[string]*CoursePlacement, len(e.Placements))
		for key, p := range e.Placements {
			if p == nil {
				clone.Placements[key] = nil
				continue
			}
			cp := *p
			clone.Placements[key] = &cp
		}
	}
	return clone
}

// Schedule is the ordered term -> entry mapping produced by the planner and
// mutated by the editor.
type Schedule struct {
	Terms   []string
	Entries map[string]*TermEntry
}

// NewSchedule pre-creates an empty schedule over the given window.
func NewSchedule(terms []Term) *Schedule {
	s := &Schedule{Entries: make(map[string]*TermEntry, len(terms))}
	for _, t := range terms {
		s.Terms = append(s.Terms, t.Label())
	}
	return s
}

// EarliestTerm returns the label of the first term, or "".
func (s *Schedule) EarliestTerm() string {
	if len(s.Terms) == 0 {
		return ""
	}
	return s.Terms[0]
}

// TermIndex returns the chronological position of the label, or -1.
func (s *Schedule) TermIndex(label string) int {
	for i, t := range s.Terms {
		if t == label {
			return i
		}
	}
	return -1
}

// Entry returns the entry for a term label.
func (s *Schedule) Entry(label string) (*TermEntry, bool) {
	e, ok := s.Entries[label]
	return e, ok
}

// Clone deep-copies the schedule so mutations can be validated before
// committing.
func (s *Schedule) Clone() *Schedule {
	clone := &Schedule{
		Terms:   append([]string(nil), s.Terms...),
		Entries: make(map[string]*TermEntry, len(s.Entries)),
	}
	for label, entry := range s.Entries {
		clone.Entries[label] = entry.Clone()
	}
	return clone
}

// PlacedCourses returns every non-placeholder course key in the schedule.
func (s *Schedule) PlacedCourses() []string {
	var keys []string
	for _, label := range s.Terms {
		for _, c := range s.Entries[label].Order {
			if !IsPlaceholder(c) {
				keys = append(keys, c)
			}
		}
	}
	return keys
}

// MarshalJSON renders terms in chronological order; the detailed term
// serializes as an object in insertion order, later terms as arrays.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, label := range s.Terms {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := marshalEntry(buf, s.Entries[label]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalEntry(buf *bytes.Buffer, entry *TermEntry) error {
	if entry == nil {
		buf.WriteString("[]")
		return nil
	}
	if !entry.Detailed {
		data, err := json.Marshal(entry.Order)
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	}
	buf.WriteByte('{')
	for i, course := range entry.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(course)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		placement := entry.Placements[course]
		if placement == nil {
			placement = &CoursePlacement{}
		}
		data, err := json.Marshal(placement)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON accepts the wire form, preserving course insertion order
// inside the detailed term and ordering terms chronologically.
func (s *Schedule) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("schedule must be a JSON object")
	}

	s.Entries = make(map[string]*TermEntry)
	s.Terms = nil
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("schedule term key is not a string")
		}
		if _, err := ParseTermLabel(label); err != nil {
			return err
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		entry, err := unmarshalEntry(raw)
		if err != nil {
			return fmt.Errorf("term %s: %w", label, err)
		}
		s.Terms = append(s.Terms, label)
		s.Entries[label] = entry
	}

	sort.SliceStable(s.Terms, func(i, j int) bool {
		a, _ := ParseTermLabel(s.Terms[i])
		b, _ := ParseTermLabel(s.Terms[j])
		return a.Before(b)
	})
	return nil
}

func unmarshalEntry(raw json.RawMessage) (*TermEntry, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return NewListEntry(nil), nil
	}
	if trimmed[0] == '[' {
		var courses []string
		if err := json.Unmarshal(raw, &courses); err != nil {
			return nil, err
		}
		return NewListEntry(courses), nil
	}

	entry := NewDetailedEntry()
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		course, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("course key is not a string")
		}
		var placement CoursePlacement
		if err := dec.Decode(&placement); err != nil {
			return nil, fmt.Errorf("course %s: %w", course, err)
		}
		entry.Add(course, &placement)
	}
	return entry, nil
}
