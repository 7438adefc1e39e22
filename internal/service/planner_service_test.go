package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruintracks/bruintracks-go/internal/dto"
	"github.com/bruintracks/bruintracks-go/internal/models"
)

func lecture(id int64, code string, days string, start, end int) models.Section {
	return models.Section{
		ID: id, Code: code, IsPrimary: true, Activity: "LEC",
		EnrollmentCap: 100, EnrollmentTotal: 10,
		Times: []models.MeetingSlot{{Days: days, Start: start, End: end, Building: "Boelter", Room: "3400"}},
	}
}

func discussion(id int64, code string, days string, start, end int) models.Section {
	return models.Section{
		ID: id, Code: code, IsPrimary: false, Activity: "DIS",
		EnrollmentCap: 30, EnrollmentTotal: 5,
		Times: []models.MeetingSlot{{Days: days, Start: start, End: end, Building: "Boelter", Room: "5264"}},
	}
}

// plannerFixture builds COM SCI 31 and 32 (32 requires 31) offered across a
// three-quarter window.
func plannerFixture() *stubCatalog {
	catalog := newStubCatalog()
	catalog.addSubject(1, "COM SCI", "Computer Science (COM SCI)")
	catalog.addCourse(10, "COM SCI|31", "")
	catalog.addCourse(11, "COM SCI|32",
		`{"course": "Computer Science 31", "relation": "prerequisite", "severity": "R"}`)
	catalog.addTerm("Fall 2024", 1)
	catalog.addTerm("Winter 2025", 2)
	catalog.addTerm("Spring 2025", 3)

	for termID := int64(1); termID <= 3; termID++ {
		catalog.addSection(10, termID, lecture(100+termID, "1-LEC", "MW", 10*60, 11*60))
		catalog.addSection(10, termID, discussion(110+termID, "1-DIS-A", "F", 10*60, 11*60))
		catalog.addSection(11, termID, lecture(200+termID, "1-LEC", "TR", 14*60, 15*60))
	}
	return catalog
}

func newPlanner(catalog *stubCatalog) *PlannerService {
	engine := NewRequisiteEngine(nil)
	selector := NewSectionSelector(nil)
	return NewPlannerService(catalog, engine, selector, 12, nil, nil)
}

func basePlanRequest(courses ...string) dto.PlanRequest {
	return dto.PlanRequest{
		StartYear: 2024, StartQuarter: "Fall",
		EndYear: 2025, EndQuarter: "Spring",
		CoursesToSchedule: courses,
	}
}

func nonFiller(entry *models.TermEntry) []string {
	var courses []string
	for _, key := range entry.Order {
		if !models.IsPlaceholder(key) {
			courses = append(courses, key)
		}
	}
	return courses
}

func TestPlanOrdersPrerequisiteBeforeDependent(t *testing.T) {
	planner := newPlanner(plannerFixture())

	resp, err := planner.Plan(context.Background(), basePlanRequest("COM SCI|31", "COM SCI|32"))
	require.NoError(t, err)
	require.Empty(t, resp.Note)
	require.NotEmpty(t, resp.PlanID)

	fall, ok := resp.Schedule.Entry("Fall 2024")
	require.True(t, ok)
	assert.True(t, fall.Detailed)
	assert.Equal(t, []string{"COM SCI|31"}, nonFiller(fall))

	placement := fall.Placements["COM SCI|31"]
	require.NotNil(t, placement)
	require.NotNil(t, placement.Lecture)
	assert.Equal(t, "1-LEC", placement.Lecture.Section)
	require.NotNil(t, placement.Discussion)
	assert.Equal(t, "1-DIS-A", placement.Discussion.Section)

	winter, _ := resp.Schedule.Entry("Winter 2025")
	assert.Equal(t, []string{"COM SCI|32"}, nonFiller(winter))
}

func TestPlanNeverPlacesCorequisiteAfterDependent(t *testing.T) {
	catalog := newStubCatalog()
	catalog.addSubject(1, "COM SCI", "Computer Science (COM SCI)")
	catalog.addCourse(10, "COM SCI|1",
		`{"course": "Computer Science 2", "relation": "corequisite", "severity": "R"}`)
	catalog.addCourse(11, "COM SCI|2", "")
	catalog.addTerm("Fall 2024", 1)
	catalog.addTerm("Winter 2025", 2)
	for termID := int64(1); termID <= 2; termID++ {
		catalog.addSection(10, termID, lecture(100+termID, "1-LEC", "MW", 10*60, 11*60))
		catalog.addSection(11, termID, lecture(200+termID, "1-LEC", "TR", 14*60, 15*60))
	}

	one := 1
	req := basePlanRequest("COM SCI|1", "COM SCI|2")
	req.EndYear, req.EndQuarter = 2025, "Winter"
	req.Preferences = dto.PreferencesPayload{
		MaxCoursesPerTerm:   &one,
		LeastCoursesPerTerm: &one,
	}

	resp, err := newPlanner(catalog).Plan(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, resp.Note)

	fall, _ := resp.Schedule.Entry("Fall 2024")
	assert.Equal(t, []string{"COM SCI|2"}, nonFiller(fall),
		"the corequisite lands no later than its dependent")
	winter, _ := resp.Schedule.Entry("Winter 2025")
	assert.Equal(t, []string{"COM SCI|1"}, nonFiller(winter))
}

func TestPlanRespectsTranscript(t *testing.T) {
	planner := newPlanner(plannerFixture())
	grade := "B+"

	req := basePlanRequest("COM SCI|31", "COM SCI|32")
	req.Transcript = map[string]*string{"COM SCI|31": &grade}

	resp, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, resp.Note)

	fall, _ := resp.Schedule.Entry("Fall 2024")
	assert.Equal(t, []string{"COM SCI|32"}, nonFiller(fall))
	for _, label := range resp.Schedule.Terms {
		entry, _ := resp.Schedule.Entry(label)
		assert.NotContains(t, entry.Order, "COM SCI|31")
	}
}

func TestPlanReportsUnplaceableInSingleTermWindow(t *testing.T) {
	planner := newPlanner(plannerFixture())

	req := basePlanRequest("COM SCI|31", "COM SCI|32")
	req.EndYear, req.EndQuarter = 2024, "Fall"

	resp, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)

	fall, _ := resp.Schedule.Entry("Fall 2024")
	assert.Equal(t, []string{"COM SCI|31"}, nonFiller(fall))
	assert.Equal(t, "Unable to schedule: COM SCI|32", resp.Note)
}

func TestPlanEmptyCourseListYieldsFillerOnly(t *testing.T) {
	planner := newPlanner(plannerFixture())

	resp, err := planner.Plan(context.Background(), basePlanRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.Note)

	for _, label := range resp.Schedule.Terms {
		entry, _ := resp.Schedule.Entry(label)
		assert.Empty(t, nonFiller(entry))
		assert.Len(t, entry.Order, 3, "padded to min-per-term")
	}
}

func TestPlanAllCoursesAlreadyPassed(t *testing.T) {
	planner := newPlanner(plannerFixture())
	a, b := "A", "B-"

	req := basePlanRequest("COM SCI|31", "COM SCI|32")
	req.Transcript = map[string]*string{"COM SCI|31": &a, "COM SCI|32": &b}

	resp, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Note)
	assert.Empty(t, resp.Schedule.PlacedCourses())
}

func TestPlanCourseNeverOfferedGoesToNote(t *testing.T) {
	catalog := plannerFixture()
	catalog.addCourse(12, "COM SCI|35L", "")
	// No sections anywhere in the window.

	planner := newPlanner(catalog)
	resp, err := planner.Plan(context.Background(), basePlanRequest("COM SCI|31", "COM SCI|35L"))
	require.NoError(t, err)

	assert.Equal(t, "Unable to schedule: COM SCI|35L", resp.Note)
	assert.NotContains(t, resp.Schedule.PlacedCourses(), "COM SCI|35L")
}

func TestPlanRecordsCourseWithoutPrimarySections(t *testing.T) {
	catalog := plannerFixture()
	catalog.addCourse(12, "COM SCI|36", "")
	// Offered, but only a discussion exists this quarter.
	catalog.addSection(12, 1, discussion(300, "1-DIS-B", "M", 9*60, 10*60))

	planner := newPlanner(catalog)
	req := basePlanRequest("COM SCI|36")
	req.EndYear, req.EndQuarter = 2024, "Fall"

	resp, err := planner.Plan(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, resp.Note)

	fall, _ := resp.Schedule.Entry("Fall 2024")
	require.True(t, fall.Contains("COM SCI|36"))
	placement := fall.Placements["COM SCI|36"]
	require.NotNil(t, placement)
	assert.Nil(t, placement.Lecture)
	assert.Nil(t, placement.Discussion)
}

func TestPlanRejectsEmptyHorizon(t *testing.T) {
	planner := newPlanner(plannerFixture())

	req := basePlanRequest("COM SCI|31")
	req.StartYear, req.StartQuarter = 2025, "Spring"
	req.EndYear, req.EndQuarter = 2024, "Fall"

	_, err := planner.Plan(context.Background(), req)
	assert.Error(t, err)
}

func TestPlanRejectsMalformedCourseKey(t *testing.T) {
	planner := newPlanner(plannerFixture())

	_, err := planner.Plan(context.Background(), basePlanRequest("COM SCI 31"))
	assert.Error(t, err)
}

func TestTargetLoad(t *testing.T) {
	prefs := models.DefaultPreferences() // min 3, max 5

	assert.Equal(t, 0, targetLoad(0, 3, prefs))
	assert.Equal(t, 3, targetLoad(2, 3, prefs), "clamped up to min")
	assert.Equal(t, 4, targetLoad(11, 3, prefs))
	assert.Equal(t, 5, targetLoad(30, 3, prefs), "clamped down to max")
}

func TestCombinations(t *testing.T) {
	combos := combinations([]string{"a", "b", "c"}, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}, combos)
	assert.Nil(t, combinations([]string{"a"}, 2))
}
