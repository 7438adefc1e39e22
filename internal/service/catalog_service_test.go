package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruintracks/bruintracks-go/internal/models"
	"github.com/bruintracks/bruintracks-go/internal/repository"
)

type fakeSubjectStore struct {
	calls int
	rows  []models.Subject
}

func (f *fakeSubjectStore) ListAll(context.Context) ([]models.Subject, error) {
	f.calls++
	return f.rows, nil
}

type fakeCourseStore struct {
	calls int
	rows  []models.Course
}

func (f *fakeCourseStore) FindByPairs(_ context.Context, pairs []repository.CoursePair) ([]models.Course, error) {
	f.calls++
	var out []models.Course
	for _, pair := range pairs {
		for _, row := range f.rows {
			if row.SubjectID == pair.SubjectID && row.CatalogNumber == pair.CatalogNumber {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (f *fakeCourseStore) FindByIDs(_ context.Context, ids []int64) ([]models.Course, error) {
	f.calls++
	var out []models.Course
	for _, id := range ids {
		for _, row := range f.rows {
			if row.ID == id {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

type fakeTermStore struct{ rows []models.TermRow }

func (f *fakeTermStore) ListAll(context.Context) ([]models.TermRow, error) {
	return f.rows, nil
}

type fakeSectionStore struct {
	calls       int
	sections    []models.Section
	meetings    []repository.MeetingRow
	instructors []repository.InstructorRow
}

func (f *fakeSectionStore) ListByCourseIDs(_ context.Context, courseIDs []int64, termID int64) ([]models.Section, error) {
	f.calls++
	var out []models.Section
	for _, sec := range f.sections {
		for _, id := range courseIDs {
			if sec.CourseID == id && sec.TermID == termID {
				out = append(out, sec)
			}
		}
	}
	return out, nil
}

func (f *fakeSectionStore) FindByID(_ context.Context, id int64) (*models.Section, error) {
	for _, sec := range f.sections {
		if sec.ID == id {
			found := sec
			return &found, nil
		}
	}
	return nil, errNotInFixture
}

func (f *fakeSectionStore) MeetingsBySectionIDs(context.Context, []int64) ([]repository.MeetingRow, error) {
	return f.meetings, nil
}

func (f *fakeSectionStore) InstructorNamesBySectionIDs(context.Context, []int64) ([]repository.InstructorRow, error) {
	return f.instructors, nil
}

var errNotInFixture = assert.AnError

type fakeBreadthStore struct{}

func (fakeBreadthStore) CourseIDsByArea(context.Context, string) ([]int64, error) {
	return nil, nil
}

func (fakeBreadthStore) DescriptionsByCourseIDs(context.Context, []int64) (map[int64]string, error) {
	return map[int64]string{}, nil
}

func newCatalogUnderTest(subjects *fakeSubjectStore, courses *fakeCourseStore, terms *fakeTermStore, sections *fakeSectionStore) *CatalogService {
	return NewCatalogService(subjects, courses, terms, sections, fakeBreadthStore{}, nil, nil)
}

func TestSessionMemoizesCourseLookups(t *testing.T) {
	subjects := &fakeSubjectStore{rows: []models.Subject{
		{ID: 1, Code: "COM SCI", Name: "Computer Science (COM SCI)"},
	}}
	courses := &fakeCourseStore{rows: []models.Course{
		{ID: 10, SubjectID: 1, CatalogNumber: "31", Title: "Introduction to Computer Science I"},
	}}

	svc := newCatalogUnderTest(subjects, courses, &fakeTermStore{}, &fakeSectionStore{})
	view, err := svc.Open(context.Background())
	require.NoError(t, err)

	key := models.CourseKey{Subject: "COM SCI", Number: "31"}
	first, err := view.Courses(context.Background(), []models.CourseKey{key})
	require.NoError(t, err)
	require.Contains(t, first, "COM SCI|31")

	second, err := view.Courses(context.Background(), []models.CourseKey{key})
	require.NoError(t, err)
	assert.Same(t, first["COM SCI|31"], second["COM SCI|31"])
	assert.Equal(t, 1, courses.calls, "repeat lookups stay in the session")
	assert.Equal(t, 1, subjects.calls)
}

func TestSessionRemembersCourseMisses(t *testing.T) {
	subjects := &fakeSubjectStore{rows: []models.Subject{
		{ID: 1, Code: "COM SCI", Name: "Computer Science (COM SCI)"},
	}}
	courses := &fakeCourseStore{}

	svc := newCatalogUnderTest(subjects, courses, &fakeTermStore{}, &fakeSectionStore{})
	view, err := svc.Open(context.Background())
	require.NoError(t, err)

	key := models.CourseKey{Subject: "COM SCI", Number: "999"}
	for i := 0; i < 2; i++ {
		found, err := view.Courses(context.Background(), []models.CourseKey{key})
		require.NoError(t, err)
		assert.Empty(t, found)
	}
	assert.Equal(t, 1, courses.calls, "a known miss never hits the store again")

	// Unknown subjects miss without any store round trip.
	found, err := view.Courses(context.Background(), []models.CourseKey{{Subject: "NO DEPT", Number: "1"}})
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, 1, courses.calls)
}

func TestSessionFiltersAndHydratesSections(t *testing.T) {
	sections := &fakeSectionStore{
		sections: []models.Section{
			{ID: 100, CourseID: 10, TermID: 1, Code: "1-LEC", IsPrimary: true, Activity: "LEC",
				EnrollmentCap: 100, EnrollmentTotal: 10},
			{ID: 101, CourseID: 10, TermID: 1, Code: "2-LEC", IsPrimary: true, Activity: "LEC",
				EnrollmentCap: 50, EnrollmentTotal: 50},
		},
		meetings: []repository.MeetingRow{
			{SectionID: 100, Days: "MW", Start: "10:00:00", End: "11:00:00", Building: "Boelter", Room: "3400"},
			{SectionID: 100, Days: "F", Start: "not-a-time", End: "11:00:00"},
		},
		instructors: []repository.InstructorRow{{SectionID: 100, Name: "Eggert, P."}},
	}

	svc := newCatalogUnderTest(&fakeSubjectStore{}, &fakeCourseStore{}, &fakeTermStore{}, sections)
	view, err := svc.Open(context.Background())
	require.NoError(t, err)

	got, err := view.Sections(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, got, 1, "the full section is dropped")
	assert.Equal(t, "1-LEC", got[0].Code)
	require.Len(t, got[0].Times, 1, "unparseable meetings are skipped")
	assert.Equal(t, 10*60, got[0].Times[0].Start)
	assert.Equal(t, []string{"Eggert, P."}, got[0].Instructors)

	_, err = view.Sections(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, sections.calls)
}

func TestSessionTermIDSeasonFallback(t *testing.T) {
	terms := &fakeTermStore{rows: []models.TermRow{
		{ID: 7, Name: "Fall Quarter 2024"},
		{ID: 8, Name: "Winter Quarter 2025"},
	}}

	svc := newCatalogUnderTest(&fakeSubjectStore{}, &fakeCourseStore{}, terms, &fakeSectionStore{})
	view, err := svc.Open(context.Background())
	require.NoError(t, err)

	id, err := view.TermID(context.Background(), "Winter 2025")
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)

	_, err = view.TermID(context.Background(), "Summer 2025")
	assert.Error(t, err)
}

func TestSessionResolveCourseName(t *testing.T) {
	subjects := &fakeSubjectStore{rows: []models.Subject{
		{ID: 1, Code: "COM SCI", Name: "Computer Science (COM SCI)"},
		{ID: 2, Code: "MATH", Name: "Mathematics (MATH)"},
	}}

	svc := newCatalogUnderTest(subjects, &fakeCourseStore{}, &fakeTermStore{}, &fakeSectionStore{})
	view, err := svc.Open(context.Background())
	require.NoError(t, err)

	key, ok := view.ResolveCourseName(context.Background(), "Computer Science 31")
	require.True(t, ok)
	assert.Equal(t, "COM SCI|31", key.String())

	key, ok = view.ResolveCourseName(context.Background(), "Mathematics 31A")
	require.True(t, ok)
	assert.Equal(t, "MATH|31A", key.String())

	_, ok = view.ResolveCourseName(context.Background(), "Underwater Basket Weaving 101")
	assert.False(t, ok)
}
