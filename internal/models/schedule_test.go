package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSchedule(t *testing.T) *Schedule {
	t.Helper()
	terms, err := TermSequence(
		Term{Season: SeasonFall, Year: 2024},
		Term{Season: SeasonWinter, Year: 2025},
	)
	require.NoError(t, err)

	s := NewSchedule(terms)
	detailed := NewDetailedEntry()
	detailed.Add("COM SCI|31", &CoursePlacement{
		Lecture: &SectionSummary{ID: 1, Section: "1-LEC", Activity: "LEC",
			Times:       []MeetingView{{Days: "MW", Start: "09:00", End: "09:50", Building: "Boelter", Room: "3400"}},
			Instructors: []string{"Smallberg, D."}},
	})
	detailed.Add(Filler, nil)
	s.Entries["Fall 2024"] = detailed
	s.Entries["Winter 2025"] = NewListEntry([]string{"COM SCI|32", Filler})
	return s
}

func TestScheduleMarshalShape(t *testing.T) {
	s := buildSchedule(t)

	raw, err := json.Marshal(s)
	require.NoError(t, err)

	text := string(raw)
	assert.True(t, len(text) > 2 && text[0] == '{')
	// Terms serialize chronologically, the detailed term as an object and
	// later terms as arrays.
	assert.Less(t,
		strings.Index(text, `"Fall 2024"`), strings.Index(text, `"Winter 2025"`))
	assert.Contains(t, text, `"Winter 2025":["COM SCI|32","FILLER"]`)
	assert.Contains(t, text, `"discussion":null`)
}

func TestScheduleUnmarshalPreservesOrder(t *testing.T) {
	raw := `{
		"Winter 2025": ["COM SCI|32"],
		"Fall 2024": {
			"COM SCI|31": {"lecture": null, "discussion": null},
			"MATH|31A": {"lecture": null, "discussion": null}
		}
	}`
	var s Schedule
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, []string{"Fall 2024", "Winter 2025"}, s.Terms, "terms sort chronologically")
	entry, ok := s.Entry("Fall 2024")
	require.True(t, ok)
	assert.True(t, entry.Detailed)
	assert.Equal(t, []string{"COM SCI|31", "MATH|31A"}, entry.Order)
}

func TestScheduleUnmarshalRejectsBadTerm(t *testing.T) {
	var s Schedule
	err := json.Unmarshal([]byte(`{"Summer 2025": []}`), &s)
	assert.Error(t, err)
}

func TestScheduleRoundTrip(t *testing.T) {
	s := buildSchedule(t)
	raw, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Schedule
	require.NoError(t, json.Unmarshal(raw, &decoded))

	again, err := json.Marshal(&decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
}

func TestScheduleCloneIsIndependent(t *testing.T) {
	s := buildSchedule(t)
	clone := s.Clone()

	entry, _ := clone.Entry("Fall 2024")
	entry.Remove("COM SCI|31")
	entry.Add("MATH|31A", nil)

	original, _ := s.Entry("Fall 2024")
	assert.True(t, original.Contains("COM SCI|31"))
	assert.False(t, original.Contains("MATH|31A"))
}

func TestPlacedCoursesSkipsPlaceholders(t *testing.T) {
	s := buildSchedule(t)
	assert.Equal(t, []string{"COM SCI|31", "COM SCI|32"}, s.PlacedCourses())
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(Filler))
	assert.True(t, IsPlaceholder("Technical Breadth Elective"))
	assert.False(t, IsPlaceholder("COM SCI|31"))
}
