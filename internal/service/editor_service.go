package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/dto"
	"github.com/bruintracks/bruintracks-go/internal/models"
	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
)

// EditorService applies structured schedule mutations. Every operation
// validates on a clone and commits only when the mutated schedule still
// satisfies requisite ordering and the first-term conflict policy.
type EditorService struct {
	catalog  CatalogOpener
	engine   *RequisiteEngine
	validate *validator.Validate
	log      *zap.Logger
}

// NewEditorService wires the editor.
func NewEditorService(catalog CatalogOpener, engine *RequisiteEngine, validate *validator.Validate, log *zap.Logger) *EditorService {
	if validate == nil {
		validate = validator.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EditorService{catalog: catalog, engine: engine, validate: validate, log: log}
}

// Apply runs one operation. Domain rejections come back as success=false with
// the original schedule; only malformed requests and catalog outages surface
// as errors.
func (s *EditorService) Apply(ctx context.Context, req dto.EditRequest) (*dto.EditResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if req.Schedule == nil || len(req.Schedule.Terms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "schedule is empty")
	}

	// "interpret" is resolved upstream into structured operations; the
	// core only accepts the structured three.
	if req.Operation.Type == dto.OpInterpret {
		return reject(req.Schedule, "interpret operations must be resolved into move, swap, or change_section upstream"), nil
	}

	view, err := s.catalog.Open(ctx)
	if err != nil {
		return nil, err
	}

	transcript := models.NewTranscript(req.Transcript)
	prefs := req.Preferences.ToModel()

	working := req.Schedule.Clone()
	var message string
	var checkTimes bool

	switch req.Operation.Type {
	case dto.OpMove:
		message, checkTimes = s.applyMove(working, req.Operation)
	case dto.OpSwap:
		message, checkTimes = s.applySwap(working, req.Operation)
	case dto.OpChangeSection:
		message, err = s.applyChangeSection(ctx, view, working, req.Operation)
		checkTimes = true
		if err != nil {
			return nil, err
		}
	default:
		return &dto.EditResponse{
			Success:  false,
			Message:  fmt.Sprintf("unknown operation %q", req.Operation.Type),
			Schedule: req.Schedule,
		}, nil
	}
	if message != "" {
		return reject(req.Schedule, message), nil
	}

	if msg, err := s.checkRequisites(ctx, view, working, transcript, prefs.AllowWarnings); err != nil {
		return nil, err
	} else if msg != "" {
		return reject(req.Schedule, msg), nil
	}

	if checkTimes {
		if msg := checkEarliestTermTimes(working, prefs); msg != "" {
			return reject(req.Schedule, msg), nil
		}
	}

	return &dto.EditResponse{
		Success:  true,
		Message:  successMessage(req.Operation),
		Schedule: working,
	}, nil
}

func reject(original *models.Schedule, message string) *dto.EditResponse {
	return &dto.EditResponse{Success: false, Message: message, Schedule: original}
}

func successMessage(op dto.EditOperation) string {
	switch op.Type {
	case dto.OpMove:
		return fmt.Sprintf("Moved %s from %s to %s", op.Course, op.FromTerm, op.ToTerm)
	case dto.OpSwap:
		return fmt.Sprintf("Swapped %s (%s) with %s (%s)", op.Course1, op.Term1, op.Course2, op.Term2)
	default:
		return fmt.Sprintf("Updated sections for %s in %s", op.Course, op.Term)
	}
}

// applyMove relocates one course. Returns a rejection message, and whether
// the detailed term was touched.
func (s *EditorService) applyMove(schedule *models.Schedule, op dto.EditOperation) (string, bool) {
	from, okFrom := schedule.Entry(op.FromTerm)
	to, okTo := schedule.Entry(op.ToTerm)
	if !okFrom || !okTo {
		return "Invalid terms specified", false
	}
	if !from.Contains(op.Course) {
		return "Course not found in specified term", false
	}
	if !models.IsPlaceholder(op.Course) && to.Contains(op.Course) {
		return fmt.Sprintf("%s is already scheduled in %s", op.Course, op.ToTerm), false
	}

	placement := from.Remove(op.Course)
	to.Add(op.Course, placement)

	earliest := schedule.EarliestTerm()
	return "", op.FromTerm == earliest || op.ToTerm == earliest
}

// applySwap exchanges two courses between their terms.
func (s *EditorService) applySwap(schedule *models.Schedule, op dto.EditOperation) (string, bool) {
	entry1, ok1 := schedule.Entry(op.Term1)
	entry2, ok2 := schedule.Entry(op.Term2)
	if !ok1 || !ok2 {
		return "Invalid terms specified", false
	}
	if !entry1.Contains(op.Course1) || !entry2.Contains(op.Course2) {
		return "Course not found in specified term", false
	}

	placement1 := entry1.Remove(op.Course1)
	placement2 := entry2.Remove(op.Course2)
	entry1.Add(op.Course2, placement2)
	entry2.Add(op.Course1, placement1)

	earliest := schedule.EarliestTerm()
	return "", op.Term1 == earliest || op.Term2 == earliest
}

// applyChangeSection replaces the chosen lecture and/or discussion of a
// course in the earliest term.
func (s *EditorService) applyChangeSection(ctx context.Context, view CatalogView, schedule *models.Schedule, op dto.EditOperation) (string, error) {
	if op.Term != schedule.EarliestTerm() {
		return "Section changes are only supported in the earliest term", nil
	}
	entry, ok := schedule.Entry(op.Term)
	if !ok || !entry.Detailed {
		return "Invalid terms specified", nil
	}
	if !entry.Contains(op.Course) {
		return "Course not found in specified term", nil
	}

	key, err := models.ParseCourseKey(op.Course)
	if err != nil {
		return "Course not found in specified term", nil
	}
	found, err := view.Courses(ctx, []models.CourseKey{key})
	if err != nil {
		return "", err
	}
	course, ok := found[op.Course]
	if !ok {
		return "Course not found in specified term", nil
	}
	termID, err := view.TermID(ctx, op.Term)
	if err != nil {
		return "Invalid terms specified", nil
	}

	placement := entry.Placements[op.Course]
	if placement == nil {
		placement = &models.CoursePlacement{}
		entry.Placements[op.Course] = placement
	}

	if op.NewLectureID != nil {
		sec, msg, err := s.fetchSection(ctx, view, *op.NewLectureID, course.ID, termID, true)
		if err != nil || msg != "" {
			return msg, err
		}
		placement.Lecture = models.Summarize(sec)
	}
	if op.NewDiscussionID != nil {
		sec, msg, err := s.fetchSection(ctx, view, *op.NewDiscussionID, course.ID, termID, false)
		if err != nil || msg != "" {
			return msg, err
		}
		placement.Discussion = models.Summarize(sec)
	}
	return "", nil
}

func (s *EditorService) fetchSection(ctx context.Context, view CatalogView, id, courseID, termID int64, wantPrimary bool) (*models.Section, string, error) {
	kind := "lecture"
	if !wantPrimary {
		kind = "discussion"
	}

	sec, err := view.SectionByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Sprintf("Invalid %s section ID", kind), nil
		}
		return nil, "", err
	}
	if sec.CourseID != courseID || sec.TermID != termID || sec.IsPrimary != wantPrimary {
		return nil, fmt.Sprintf("Invalid %s section ID", kind), nil
	}
	return sec, "", nil
}

// checkRequisites re-validates every placed course against the mutated
// schedule: for each course some requisite clause must hold, with
// prerequisites placed strictly earlier and corequisites no later than the
// course itself.
func (s *EditorService) checkRequisites(ctx context.Context, view CatalogView, schedule *models.Schedule, transcript models.Transcript, allowWarnings bool) (string, error) {
	placedIndex := make(map[string]int)
	for i, label := range schedule.Terms {
		for _, key := range schedule.Entries[label].Order {
			if !models.IsPlaceholder(key) {
				placedIndex[key] = i
			}
		}
	}

	for i, label := range schedule.Terms {
		for _, raw := range schedule.Entries[label].Order {
			if models.IsPlaceholder(raw) {
				continue
			}
			key, err := models.ParseCourseKey(raw)
			if err != nil {
				continue
			}
			found, err := view.Courses(ctx, []models.CourseKey{key})
			if err != nil {
				return "", err
			}
			course, ok := found[raw]
			if !ok {
				continue
			}

			clauses := s.engine.ResolveClauses(ctx, view, ToDNF(course.Requisites))
			if !clauseHolds(clauses, transcript, placedIndex, i, allowWarnings) {
				return fmt.Sprintf("Prerequisites not met for %s in %s", raw, label), nil
			}
		}
	}
	return "", nil
}

func clauseHolds(clauses [][]models.CourseRequirement, transcript models.Transcript, placedIndex map[string]int, termIdx int, allowWarnings bool) bool {
	if len(clauses) == 0 {
		return true
	}
	for _, clause := range clauses {
		ok := true
		for _, req := range clause {
			if !req.Enforced(allowWarnings) {
				continue
			}
			if transcript.PassedAt(req.Course, req.MinGrade) {
				continue
			}
			idx, placed := placedIndex[req.Course]
			if !placed {
				ok = false
				break
			}
			if req.Relation == models.RelationCorequisite {
				if idx > termIdx {
					ok = false
					break
				}
			} else if idx >= termIdx {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// checkEarliestTermTimes validates the detailed term's meeting times under
// the conflict policy. Returns a rejection message or "".
func checkEarliestTermTimes(schedule *models.Schedule, prefs models.Preferences) string {
	label := schedule.EarliestTerm()
	entry, ok := schedule.Entry(label)
	if !ok || !entry.Detailed {
		return ""
	}

	type placedSection struct {
		course  string
		slots   []models.MeetingSlot
		primary bool
	}
	var sections []placedSection
	for _, key := range entry.Order {
		if models.IsPlaceholder(key) {
			continue
		}
		placement := entry.Placements[key]
		if placement == nil {
			continue
		}
		for _, pair := range []struct {
			summary *models.SectionSummary
			primary bool
		}{{placement.Lecture, true}, {placement.Discussion, false}} {
			if pair.summary == nil {
				continue
			}
			slots := make([]models.MeetingSlot, 0, len(pair.summary.Times))
			for _, view := range pair.summary.Times {
				slots = append(slots, view.Slot())
			}
			sections = append(sections, placedSection{course: key, slots: slots, primary: pair.primary})
		}
	}

	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			// A course's own lecture and discussion never conflict with
			// each other.
			if sections[i].course == sections[j].course && sections[i].primary != sections[j].primary {
				continue
			}
			if !slotsOverlap(sections[i].slots, sections[j].slots) {
				continue
			}
			if sections[i].primary && sections[j].primary {
				if !prefs.AllowPrimaryConflicts {
					return fmt.Sprintf("Time conflict in %s", label)
				}
				continue
			}
			if !prefs.AllowSecondaryConflicts {
				return fmt.Sprintf("Time conflict in %s", label)
			}
		}
	}
	return ""
}

func slotsOverlap(a, b []models.MeetingSlot) bool {
	for _, s1 := range a {
		for _, s2 := range b {
			if s1.Overlaps(s2) {
				return true
			}
		}
	}
	return false
}
