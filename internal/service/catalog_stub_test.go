package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

// stubCatalog implements CatalogView over in-memory fixtures.
type stubCatalog struct {
	subjects     []models.Subject
	courses      map[string]*models.Course
	coursesByID  map[int64]*models.Course
	keyByID      map[int64]string
	termIDs      map[string]int64
	sections     map[sectionListKey][]models.Section
	sectionsByID map[int64]*models.Section
	breadthIDs   map[string][]int64
	descriptions map[int64]string
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		courses:      make(map[string]*models.Course),
		coursesByID:  make(map[int64]*models.Course),
		keyByID:      make(map[int64]string),
		termIDs:      make(map[string]int64),
		sections:     make(map[sectionListKey][]models.Section),
		sectionsByID: make(map[int64]*models.Section),
		breadthIDs:   make(map[string][]int64),
		descriptions: make(map[int64]string),
	}
}

func (s *stubCatalog) addSubject(id int64, code, name string) {
	s.subjects = append(s.subjects, models.Subject{ID: id, Code: code, Name: name})
}

func (s *stubCatalog) addCourse(id int64, key string, requisites string) *models.Course {
	parsed, err := models.ParseCourseKey(key)
	if err != nil {
		panic(err)
	}
	var subjectID int64
	for _, subj := range s.subjects {
		if subj.Code == parsed.Subject {
			subjectID = subj.ID
		}
	}
	course := &models.Course{
		ID:            id,
		SubjectID:     subjectID,
		CatalogNumber: parsed.Number,
		Title:         key,
	}
	if requisites != "" {
		node, err := models.ParseRequisites(json.RawMessage(requisites))
		if err != nil {
			panic(err)
		}
		course.Requisites = node
	}
	s.courses[key] = course
	s.coursesByID[id] = course
	s.keyByID[id] = key
	return course
}

func (s *stubCatalog) addTerm(label string, id int64) {
	s.termIDs[label] = id
}

func (s *stubCatalog) addSection(courseID, termID int64, sec models.Section) {
	sec.CourseID = courseID
	sec.TermID = termID
	key := sectionListKey{courseID: courseID, termID: termID}
	s.sections[key] = append(s.sections[key], sec)
	stored := sec
	s.sectionsByID[sec.ID] = &stored
}

func (s *stubCatalog) Open(ctx context.Context) (CatalogView, error) {
	return s, nil
}

func (s *stubCatalog) Subjects(ctx context.Context) ([]models.Subject, error) {
	return s.subjects, nil
}

func (s *stubCatalog) SubjectCodeByID(ctx context.Context, id int64) (string, error) {
	for _, subj := range s.subjects {
		if subj.ID == id {
			return subj.Code, nil
		}
	}
	return "", fmt.Errorf("unknown subject id %d", id)
}

func (s *stubCatalog) ResolveCourseName(ctx context.Context, name string) (models.CourseKey, bool) {
	trimmed := strings.TrimSpace(name)
	idx := strings.LastIndex(trimmed, " ")
	if idx <= 0 {
		return models.CourseKey{}, false
	}
	department := models.NormalizeSubjectName(trimmed[:idx])
	for _, subj := range s.subjects {
		if models.NormalizeSubjectName(subj.Name) == department {
			return models.CourseKey{Subject: subj.Code, Number: trimmed[idx+1:]}, true
		}
	}
	return models.CourseKey{}, false
}

func (s *stubCatalog) TermID(ctx context.Context, label string) (int64, error) {
	if id, ok := s.termIDs[label]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("no catalog term matches %q", label)
}

func (s *stubCatalog) Courses(ctx context.Context, keys []models.CourseKey) (map[string]*models.Course, error) {
	result := make(map[string]*models.Course, len(keys))
	for _, key := range keys {
		if course, ok := s.courses[key.String()]; ok {
			result[key.String()] = course
		}
	}
	return result, nil
}

func (s *stubCatalog) CoursesByID(ctx context.Context, ids []int64) ([]models.Course, error) {
	var result []models.Course
	for _, id := range ids {
		if course, ok := s.coursesByID[id]; ok {
			result = append(result, *course)
		}
	}
	return result, nil
}

func (s *stubCatalog) Sections(ctx context.Context, courseID, termID int64) ([]models.Section, error) {
	return s.sections[sectionListKey{courseID: courseID, termID: termID}], nil
}

func (s *stubCatalog) SectionByID(ctx context.Context, id int64) (*models.Section, error) {
	if sec, ok := s.sectionsByID[id]; ok {
		return sec, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubCatalog) BreadthCourseIDs(ctx context.Context, area string) ([]int64, error) {
	return s.breadthIDs[area], nil
}

func (s *stubCatalog) Descriptions(ctx context.Context, courseIDs []int64) (map[int64]string, error) {
	result := make(map[int64]string, len(courseIDs))
	for _, id := range courseIDs {
		if desc, ok := s.descriptions[id]; ok {
			result[id] = desc
		}
	}
	return result, nil
}
