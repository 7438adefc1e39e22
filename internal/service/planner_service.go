package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/dto"
	"github.com/bruintracks/bruintracks-go/internal/models"
	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
)

// PlannerService turns a required course list into a term-by-term schedule.
type PlannerService struct {
	catalog      CatalogOpener
	engine       *RequisiteEngine
	selector     *SectionSelector
	maxAvailable int
	validate     *validator.Validate
	log          *zap.Logger
}

// NewPlannerService wires the planner. maxAvailable bounds the first-term
// combinatorial search; non-positive values fall back to 12.
func NewPlannerService(
	catalog CatalogOpener,
	engine *RequisiteEngine,
	selector *SectionSelector,
	maxAvailable int,
	validate *validator.Validate,
	log *zap.Logger,
) *PlannerService {
	if maxAvailable <= 0 {
		maxAvailable = 12
	}
	if validate == nil {
		validate = validator.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PlannerService{
		catalog:      catalog,
		engine:       engine,
		selector:     selector,
		maxAvailable: maxAvailable,
		validate:     validate,
		log:          log,
	}
}

// Plan builds a best-effort schedule. Courses that cannot be placed anywhere
// in the window are reported in the response note rather than failing the
// run.
func (s *PlannerService) Plan(ctx context.Context, req dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	start := models.Term{Season: models.Season(req.StartQuarter), Year: req.StartYear}
	end := models.Term{Season: models.Season(req.EndQuarter), Year: req.EndYear}
	terms, err := models.TermSequence(start, end)
	if err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, err.Error())
	}

	// Placeholder entries such as "FILLER" or elective slots flow through
	// planning untouched; everything else must be a canonical course key.
	var roots []models.CourseKey
	var placeholders []string
	for _, raw := range req.CoursesToSchedule {
		if models.IsPlaceholder(raw) {
			placeholders = append(placeholders, raw)
			continue
		}
		key, err := models.ParseCourseKey(raw)
		if err != nil {
			return nil, appErrors.Wrap(err,
				appErrors.ErrInvalidInput.Code, appErrors.ErrInvalidInput.Status, err.Error())
		}
		roots = append(roots, key)
	}

	transcript := models.NewTranscript(req.Transcript)
	prefs := req.Preferences.ToModel()
	planID := uuid.NewString()

	view, err := s.catalog.Open(ctx)
	if err != nil {
		return nil, err
	}

	closure, err := s.engine.Closure(ctx, view, roots, transcript, prefs.AllowWarnings)
	if err != nil {
		return nil, err
	}

	var remaining []string
	var unplaced []string
	for _, key := range closure.Order {
		if closure.Courses[key] == nil {
			unplaced = append(unplaced, key)
			continue
		}
		remaining = append(remaining, key)
	}
	remaining = append(remaining, placeholders...)

	termLabels := make([]string, len(terms))
	for i, t := range terms {
		termLabels[i] = t.Label()
	}
	offerings, err := BuildOfferingIndex(ctx, view, closure.Courses, termLabels, s.log)
	if err != nil {
		return nil, err
	}

	dependents, indegree := buildPrereqDAG(remaining, closure.Chosen, prefs.AllowWarnings)

	s.log.Info("planning run",
		zap.String("plan_id", planID),
		zap.Int("required", len(remaining)),
		zap.Int("terms", len(terms)))

	schedule := models.NewSchedule(terms)
	for i, label := range termLabels {
		target := targetLoad(len(remaining), len(terms)-i, prefs)
		available := availableCourses(remaining, indegree, offerings, label)

		var entry *models.TermEntry
		var placed []string
		if i == 0 {
			entry, placed, err = s.planEarliestTerm(ctx, view, closure, offerings, label, available, target, prefs)
			if err != nil {
				return nil, err
			}
		} else {
			if target > len(available) {
				target = len(available)
			}
			placed = available[:target]
			entry = models.NewListEntry(placed)
		}

		schedule.Entries[label] = entry
		remaining = commitPlacements(remaining, placed, dependents, indegree)
	}

	for _, label := range termLabels {
		padTerm(schedule.Entries[label], prefs)
	}

	unplaced = append(unplaced, remaining...)
	sort.Strings(unplaced)

	resp := &dto.PlanResponse{Schedule: schedule, PlanID: planID}
	if len(unplaced) > 0 {
		resp.Note = "Unable to schedule: " + strings.Join(unplaced, ", ")
	}
	return resp, nil
}

// planEarliestTerm runs the bounded combination search and section selection
// for the detailed term.
func (s *PlannerService) planEarliestTerm(
	ctx context.Context,
	view CatalogView,
	closure *ClosureResult,
	offerings *OfferingIndex,
	label string,
	available []string,
	target int,
	prefs models.Preferences,
) (*models.TermEntry, []string, error) {
	entry := models.NewDetailedEntry()

	// The enumeration is bounded for determinism: only the
	// lexicographically first maxAvailable candidates are considered.
	if len(available) > s.maxAvailable {
		available = available[:s.maxAvailable]
	}
	k := target
	if k > len(available) {
		k = len(available)
	}
	if k == 0 {
		return entry, nil, nil
	}

	termID, haveTerm := offerings.TermID(label)
	if !haveTerm {
		return entry, nil, nil
	}

	type candidate struct {
		combo []string
		sel   *PrefixSelection
	}
	var best, fallback *candidate
	better := func(a, b *candidate) bool {
		if b == nil {
			return true
		}
		if a.sel.Score != b.sel.Score {
			return a.sel.Score > b.sel.Score
		}
		if a.sel.Placed != b.sel.Placed {
			return a.sel.Placed > b.sel.Placed
		}
		return lessCombo(a.combo, b.combo)
	}

	for _, combo := range combinations(available, k) {
		var refs []CourseRef
		for _, key := range combo {
			if models.IsPlaceholder(key) {
				continue
			}
			refs = append(refs, CourseRef{Key: key, ID: closure.Courses[key].ID})
		}
		sel, err := s.selector.SelectPrefix(ctx, view, refs, termID, prefs)
		if err != nil {
			return nil, nil, err
		}

		cand := &candidate{combo: combo, sel: sel}
		if !sel.Conflicts && better(cand, best) {
			best = cand
		}
		if better(cand, fallback) {
			fallback = cand
		}
	}

	chosen := best
	if chosen == nil {
		chosen = fallback
	}
	if chosen == nil {
		return entry, nil, nil
	}

	for _, key := range chosen.combo {
		entry.Add(key, chosen.sel.Placements[key])
	}
	return entry, chosen.combo, nil
}

// targetLoad spreads the remaining work evenly over the remaining terms,
// clamped to the per-term load bounds.
func targetLoad(remaining, termsLeft int, prefs models.Preferences) int {
	if remaining == 0 || termsLeft == 0 {
		return 0
	}
	target := remaining / termsLeft
	if remaining%termsLeft > 0 {
		target++
	}
	if target < prefs.MinPerTerm {
		target = prefs.MinPerTerm
	}
	if target > prefs.MaxPerTerm {
		target = prefs.MaxPerTerm
	}
	return target
}

// availableCourses lists the remaining courses with no outstanding
// prerequisites that are offered this term, in lexicographic order.
func availableCourses(remaining []string, indegree map[string]int, offerings *OfferingIndex, label string) []string {
	var available []string
	for _, key := range remaining {
		if indegree[key] == 0 && offerings.Offered(key, label) {
			available = append(available, key)
		}
	}
	sort.Strings(available)
	return available
}

// buildPrereqDAG derives ordering edges among the courses being planned.
// Both enforced relations create edges: a course may never land before its
// prerequisites, nor before its corequisites.
func buildPrereqDAG(remaining []string, chosen map[string][]models.CourseRequirement, allowWarnings bool) (map[string][]string, map[string]int) {
	inPlan := make(map[string]bool, len(remaining))
	for _, key := range remaining {
		inPlan[key] = true
	}

	dependents := make(map[string][]string)
	indegree := make(map[string]int, len(remaining))
	for _, key := range remaining {
		indegree[key] = 0
	}
	for _, key := range remaining {
		for _, req := range chosen[key] {
			if !req.Enforced(allowWarnings) {
				continue
			}
			if !inPlan[req.Course] {
				continue
			}
			dependents[req.Course] = append(dependents[req.Course], key)
			indegree[key]++
		}
	}
	return dependents, indegree
}

// commitPlacements removes placed courses from the remaining set and
// decrements their dependents' indegrees.
func commitPlacements(remaining, placed []string, dependents map[string][]string, indegree map[string]int) []string {
	placedSet := make(map[string]bool, len(placed))
	for _, key := range placed {
		placedSet[key] = true
		for _, dep := range dependents[key] {
			indegree[dep]--
		}
	}

	next := remaining[:0]
	for _, key := range remaining {
		if !placedSet[key] {
			next = append(next, key)
		}
	}
	return next
}

// padTerm fills under-loaded terms with FILLER and drops surplus padding.
func padTerm(entry *models.TermEntry, prefs models.Preferences) {
	for len(entry.Order) < prefs.MinPerTerm {
		entry.Add(models.Filler, nil)
	}
	for len(entry.Order) > prefs.MaxPerTerm && entry.Contains(models.Filler) {
		entry.Remove(models.Filler)
	}
}

// combinations enumerates every k-subset of items, preserving item order
// within each subset.
func combinations(items []string, k int) [][]string {
	if k <= 0 || k > len(items) {
		return nil
	}
	var result [][]string
	combo := make([]string, 0, k)
	var recurse func(start int)
	recurse = func(start int) {
		if len(combo) == k {
			result = append(result, append([]string(nil), combo...))
			return
		}
		for i := start; i <= len(items)-(k-len(combo)); i++ {
			combo = append(combo, items[i])
			recurse(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	recurse(0)
	return result
}

// lessCombo orders equal-length course lists lexicographically.
func lessCombo(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
