package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/models"
	"github.com/bruintracks/bruintracks-go/internal/repository"
	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
)

// Store interfaces are declared consumer-side so tests can stub the catalog
// without a database.

type subjectStore interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type courseStore interface {
	FindByPairs(ctx context.Context, pairs []repository.CoursePair) ([]models.Course, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Course, error)
}

type termStore interface {
	ListAll(ctx context.Context) ([]models.TermRow, error)
}

type sectionStore interface {
	ListByCourseIDs(ctx context.Context, courseIDs []int64, termID int64) ([]models.Section, error)
	FindByID(ctx context.Context, id int64) (*models.Section, error)
	MeetingsBySectionIDs(ctx context.Context, sectionIDs []int64) ([]repository.MeetingRow, error)
	InstructorNamesBySectionIDs(ctx context.Context, sectionIDs []int64) ([]repository.InstructorRow, error)
}

type breadthStore interface {
	CourseIDsByArea(ctx context.Context, area string) ([]int64, error)
	DescriptionsByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64]string, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
}

// CatalogView is the read surface a single planning or editing run sees.
// Everything loaded through a view is memoized for the lifetime of that run.
type CatalogView interface {
	Subjects(ctx context.Context) ([]models.Subject, error)
	SubjectCodeByID(ctx context.Context, id int64) (string, error)
	ResolveCourseName(ctx context.Context, name string) (models.CourseKey, bool)
	TermID(ctx context.Context, label string) (int64, error)
	Courses(ctx context.Context, keys []models.CourseKey) (map[string]*models.Course, error)
	CoursesByID(ctx context.Context, ids []int64) ([]models.Course, error)
	Sections(ctx context.Context, courseID, termID int64) ([]models.Section, error)
	SectionByID(ctx context.Context, id int64) (*models.Section, error)
	BreadthCourseIDs(ctx context.Context, area string) ([]int64, error)
	Descriptions(ctx context.Context, courseIDs []int64) (map[int64]string, error)
}

// CatalogOpener produces a fresh CatalogView per request.
type CatalogOpener interface {
	Open(ctx context.Context) (CatalogView, error)
}

// CatalogService fronts the read-only catalog store. It is safe for
// concurrent use; per-request state lives on the sessions it opens.
type CatalogService struct {
	subjects subjectStore
	courses  courseStore
	terms    termStore
	sections sectionStore
	breadth  breadthStore
	cache    catalogCache
	log      *zap.Logger
}

// NewCatalogService wires the catalog repositories together. cache and log
// may be nil.
func NewCatalogService(
	subjects subjectStore,
	courses courseStore,
	terms termStore,
	sections sectionStore,
	breadth breadthStore,
	cache catalogCache,
	log *zap.Logger,
) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		subjects: subjects,
		courses:  courses,
		terms:    terms,
		sections: sections,
		breadth:  breadth,
		cache:    cache,
		log:      log,
	}
}

// Open starts a session whose lookups are memoized, so repeated queries for
// the same course or section within one run hit the store at most once.
func (s *CatalogService) Open(ctx context.Context) (CatalogView, error) {
	return &CatalogSession{
		svc:          s,
		courseByKey:  make(map[string]*models.Course),
		sectionLists: make(map[sectionListKey][]models.Section),
	}, nil
}

type sectionListKey struct {
	courseID int64
	termID   int64
}

// CatalogSession memoizes catalog reads for one planning or editing run. It
// is not safe for concurrent use.
type CatalogSession struct {
	svc *CatalogService

	subjects       []models.Subject
	subjectByID    map[int64]models.Subject
	subjectByCode  map[string]models.Subject
	codeByLongName map[string]string

	termRows []models.TermRow

	courseByKey  map[string]*models.Course
	sectionLists map[sectionListKey][]models.Section
}

// Subjects returns all catalog subjects, loading them once per session.
func (c *CatalogSession) Subjects(ctx context.Context) ([]models.Subject, error) {
	if c.subjects != nil {
		return c.subjects, nil
	}

	var subjects []models.Subject
	if err := c.svc.cacheGet(ctx, "catalog:subjects", &subjects); err != nil {
		loaded, err := c.svc.subjects.ListAll(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err,
				appErrors.ErrCatalogUnavailable.Code,
				appErrors.ErrCatalogUnavailable.Status,
				appErrors.ErrCatalogUnavailable.Message)
		}
		subjects = loaded
		c.svc.cacheSet(ctx, "catalog:subjects", subjects)
	}

	c.subjects = subjects
	c.subjectByID = make(map[int64]models.Subject, len(subjects))
	c.subjectByCode = make(map[string]models.Subject, len(subjects))
	c.codeByLongName = make(map[string]string, len(subjects))
	for _, subj := range subjects {
		c.subjectByID[subj.ID] = subj
		c.subjectByCode[subj.Code] = subj
		c.codeByLongName[models.NormalizeSubjectName(subj.Name)] = subj.Code
	}
	return c.subjects, nil
}

// SubjectCodeByID resolves a subject id to its short code.
func (c *CatalogSession) SubjectCodeByID(ctx context.Context, id int64) (string, error) {
	if _, err := c.Subjects(ctx); err != nil {
		return "", err
	}
	subj, ok := c.subjectByID[id]
	if !ok {
		return "", fmt.Errorf("unknown subject id %d", id)
	}
	return subj.Code, nil
}

// ResolveCourseName maps a human-readable requisite name such as
// "Computer Science 31" onto a canonical course key. The catalog number is
// the final space-separated token; everything before it is the department's
// long name.
func (c *CatalogSession) ResolveCourseName(ctx context.Context, name string) (models.CourseKey, bool) {
	if _, err := c.Subjects(ctx); err != nil {
		return models.CourseKey{}, false
	}

	trimmed := strings.TrimSpace(name)
	idx := strings.LastIndex(trimmed, " ")
	if idx <= 0 {
		return models.CourseKey{}, false
	}
	department := models.NormalizeSubjectName(trimmed[:idx])
	number := trimmed[idx+1:]

	code, ok := c.codeByLongName[department]
	if !ok {
		return models.CourseKey{}, false
	}
	return models.CourseKey{Subject: code, Number: number}, true
}

// TermID resolves a "Fall 2024" label to a catalog term id. Exact term_name
// matches win; otherwise the first row mentioning the season is used, since
// the catalog keeps one row per quarter.
func (c *CatalogSession) TermID(ctx context.Context, label string) (int64, error) {
	if c.termRows == nil {
		var rows []models.TermRow
		if err := c.svc.cacheGet(ctx, "catalog:terms", &rows); err != nil {
			loaded, err := c.svc.terms.ListAll(ctx)
			if err != nil {
				return 0, appErrors.Wrap(err,
					appErrors.ErrCatalogUnavailable.Code,
					appErrors.ErrCatalogUnavailable.Status,
					appErrors.ErrCatalogUnavailable.Message)
			}
			rows = loaded
			c.svc.cacheSet(ctx, "catalog:terms", rows)
		}
		c.termRows = rows
	}

	for _, row := range c.termRows {
		if row.Name == label {
			return row.ID, nil
		}
	}

	term, err := models.ParseTermLabel(label)
	if err != nil {
		return 0, err
	}
	for _, row := range c.termRows {
		if strings.Contains(row.Name, string(term.Season)) {
			return row.ID, nil
		}
	}
	return 0, fmt.Errorf("no catalog term matches %q", label)
}

// Courses fetches the given course keys, returning a map keyed by the
// canonical "<SUBJ>|<NUM>" form. Unknown keys are simply absent. Requisite
// documents that fail to parse are logged and treated as empty.
func (c *CatalogSession) Courses(ctx context.Context, keys []models.CourseKey) (map[string]*models.Course, error) {
	if _, err := c.Subjects(ctx); err != nil {
		return nil, err
	}

	result := make(map[string]*models.Course, len(keys))
	var missing []repository.CoursePair
	missingKeys := make(map[repository.CoursePair]string)
	for _, key := range keys {
		keyStr := key.String()
		if course, ok := c.courseByKey[keyStr]; ok {
			if course != nil {
				result[keyStr] = course
			}
			continue
		}
		subj, ok := c.subjectByCode[key.Subject]
		if !ok {
			c.courseByKey[keyStr] = nil
			continue
		}
		pair := repository.CoursePair{SubjectID: subj.ID, CatalogNumber: key.Number}
		missing = append(missing, pair)
		missingKeys[pair] = keyStr
	}

	if len(missing) > 0 {
		rows, err := c.svc.courses.FindByPairs(ctx, missing)
		if err != nil {
			return nil, appErrors.Wrap(err,
				appErrors.ErrCatalogUnavailable.Code,
				appErrors.ErrCatalogUnavailable.Status,
				appErrors.ErrCatalogUnavailable.Message)
		}
		for i := range rows {
			course := rows[i]
			c.attachRequisites(&course)
			pair := repository.CoursePair{SubjectID: course.SubjectID, CatalogNumber: course.CatalogNumber}
			keyStr, ok := missingKeys[pair]
			if !ok {
				continue
			}
			stored := course
			c.courseByKey[keyStr] = &stored
			result[keyStr] = &stored
			delete(missingKeys, pair)
		}
		// Remember misses so repeated lookups skip the store.
		for _, keyStr := range missingKeys {
			c.courseByKey[keyStr] = nil
		}
	}
	return result, nil
}

// CoursesByID fetches courses by primary key with requisites parsed.
func (c *CatalogSession) CoursesByID(ctx context.Context, ids []int64) ([]models.Course, error) {
	rows, err := c.svc.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrCatalogUnavailable.Code,
			appErrors.ErrCatalogUnavailable.Status,
			appErrors.ErrCatalogUnavailable.Message)
	}
	for i := range rows {
		c.attachRequisites(&rows[i])
	}
	return rows, nil
}

func (c *CatalogSession) attachRequisites(course *models.Course) {
	node, err := models.ParseRequisites(course.RawRequisites)
	if err != nil {
		c.svc.log.Warn("unparseable requisite document",
			zap.Int64("course_id", course.ID),
			zap.Error(err))
		course.Requisites = nil
		return
	}
	course.Requisites = node
}

// Sections returns the usable sections of a course in a term, with meeting
// times and instructor names attached.
func (c *CatalogSession) Sections(ctx context.Context, courseID, termID int64) ([]models.Section, error) {
	key := sectionListKey{courseID: courseID, termID: termID}
	if cached, ok := c.sectionLists[key]; ok {
		return cached, nil
	}

	rows, err := c.svc.sections.ListByCourseIDs(ctx, []int64{courseID}, termID)
	if err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrCatalogUnavailable.Code,
			appErrors.ErrCatalogUnavailable.Status,
			appErrors.ErrCatalogUnavailable.Message)
	}

	usable := make([]models.Section, 0, len(rows))
	for _, sec := range rows {
		if sec.Usable() {
			usable = append(usable, sec)
		}
	}
	if err := c.hydrateSections(ctx, usable); err != nil {
		return nil, err
	}

	c.sectionLists[key] = usable
	return usable, nil
}

// SectionByID fetches one section with its meetings and instructors.
func (c *CatalogSession) SectionByID(ctx context.Context, id int64) (*models.Section, error) {
	sec, err := c.svc.sections.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	hydrated := []models.Section{*sec}
	if err := c.hydrateSections(ctx, hydrated); err != nil {
		return nil, err
	}
	return &hydrated[0], nil
}

func (c *CatalogSession) hydrateSections(ctx context.Context, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}
	ids := make([]int64, len(sections))
	index := make(map[int64]int, len(sections))
	for i, sec := range sections {
		ids[i] = sec.ID
		index[sec.ID] = i
	}

	meetings, err := c.svc.sections.MeetingsBySectionIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err,
			appErrors.ErrCatalogUnavailable.Code,
			appErrors.ErrCatalogUnavailable.Status,
			appErrors.ErrCatalogUnavailable.Message)
	}
	for _, row := range meetings {
		i, ok := index[row.SectionID]
		if !ok {
			continue
		}
		start, err1 := models.ParseClock(row.Start)
		end, err2 := models.ParseClock(row.End)
		if err1 != nil || err2 != nil {
			c.svc.log.Warn("unparseable meeting time",
				zap.Int64("section_id", row.SectionID),
				zap.String("start", row.Start),
				zap.String("end", row.End))
			continue
		}
		sections[i].Times = append(sections[i].Times, models.MeetingSlot{
			Days:     row.Days,
			Start:    start,
			End:      end,
			Building: row.Building,
			Room:     row.Room,
		})
	}

	instructors, err := c.svc.sections.InstructorNamesBySectionIDs(ctx, ids)
	if err != nil {
		return appErrors.Wrap(err,
			appErrors.ErrCatalogUnavailable.Code,
			appErrors.ErrCatalogUnavailable.Status,
			appErrors.ErrCatalogUnavailable.Message)
	}
	for _, row := range instructors {
		if i, ok := index[row.SectionID]; ok {
			sections[i].Instructors = append(sections[i].Instructors, row.Name)
		}
	}
	return nil
}

// BreadthCourseIDs lists the catalog course ids tagged with a breadth area.
func (c *CatalogSession) BreadthCourseIDs(ctx context.Context, area string) ([]int64, error) {
	ids, err := c.svc.breadth.CourseIDsByArea(ctx, area)
	if err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrCatalogUnavailable.Code,
			appErrors.ErrCatalogUnavailable.Status,
			appErrors.ErrCatalogUnavailable.Message)
	}
	return ids, nil
}

// Descriptions fetches catalog descriptions for the given courses.
func (c *CatalogSession) Descriptions(ctx context.Context, courseIDs []int64) (map[int64]string, error) {
	descriptions, err := c.svc.breadth.DescriptionsByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrCatalogUnavailable.Code,
			appErrors.ErrCatalogUnavailable.Status,
			appErrors.ErrCatalogUnavailable.Message)
	}
	return descriptions, nil
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dest interface{}) error {
	if s.cache == nil {
		return appErrors.ErrCacheMiss
	}
	err := s.cache.Get(ctx, key, dest)
	if err != nil && err != appErrors.ErrCacheMiss {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}
