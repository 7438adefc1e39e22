package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

// ToDNF flattens a requisite tree into disjunctive normal form: a list of
// clauses where satisfying every leaf of any one clause satisfies the tree.
// A nil tree yields no clauses, meaning trivially satisfied.
func ToDNF(node *models.RequisiteNode) [][]models.RequisiteLeaf {
	if node == nil {
		return nil
	}

	switch {
	case node.Leaf != nil:
		return [][]models.RequisiteLeaf{{*node.Leaf}}

	case node.Any != nil:
		var clauses [][]models.RequisiteLeaf
		for i := range node.Any {
			clauses = append(clauses, ToDNF(&node.Any[i])...)
		}
		return clauses

	default:
		// Conjunction: cartesian product of the children's clause sets.
		product := [][]models.RequisiteLeaf{{}}
		for i := range node.All {
			child := ToDNF(&node.All[i])
			if len(child) == 0 {
				continue
			}
			next := make([][]models.RequisiteLeaf, 0, len(product)*len(child))
			for _, base := range product {
				for _, clause := range child {
					combined := make([]models.RequisiteLeaf, 0, len(base)+len(clause))
					combined = append(combined, base...)
					combined = append(combined, clause...)
					next = append(next, combined)
				}
			}
			product = next
		}
		return product
	}
}

// ChooseClause picks the clause needing the fewest additions, preferring
// earlier clauses on ties and short-circuiting on a fully satisfied one.
// satisfied reports whether a requirement is already met under the caller's
// policy. Returns the chosen clause and its unmet requirements.
func ChooseClause(clauses [][]models.CourseRequirement, satisfied func(models.CourseRequirement) bool) (chosen, missing []models.CourseRequirement) {
	if len(clauses) == 0 {
		return nil, nil
	}

	bestIdx := -1
	var bestMissing []models.CourseRequirement
	for i, clause := range clauses {
		var unmet []models.CourseRequirement
		for _, req := range clause {
			if !satisfied(req) {
				unmet = append(unmet, req)
			}
		}
		if len(unmet) == 0 {
			return clause, nil
		}
		if bestIdx < 0 || len(unmet) < len(bestMissing) {
			bestIdx = i
			bestMissing = unmet
		}
	}
	return clauses[bestIdx], bestMissing
}

// RequisiteEngine resolves requisite trees against the catalog and computes
// the transitive closure of courses a plan must include.
type RequisiteEngine struct {
	log *zap.Logger
}

// NewRequisiteEngine constructs the engine. log may be nil.
func NewRequisiteEngine(log *zap.Logger) *RequisiteEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &RequisiteEngine{log: log}
}

// ResolveClauses maps human-readable leaf names onto canonical course keys.
// Leaves naming an unknown department are logged and dropped rather than
// failing the run.
func (e *RequisiteEngine) ResolveClauses(ctx context.Context, view CatalogView, clauses [][]models.RequisiteLeaf) [][]models.CourseRequirement {
	resolved := make([][]models.CourseRequirement, 0, len(clauses))
	for _, clause := range clauses {
		reqs := make([]models.CourseRequirement, 0, len(clause))
		for _, leaf := range clause {
			key, ok := view.ResolveCourseName(ctx, leaf.Course)
			if !ok {
				e.log.Warn("skipping unresolvable requisite", zap.String("course", leaf.Course))
				continue
			}
			reqs = append(reqs, models.CourseRequirement{
				Course:   key.String(),
				Relation: leaf.Relation,
				MinGrade: leaf.MinGrade,
				Severity: leaf.Severity,
			})
		}
		resolved = append(resolved, reqs)
	}
	return resolved
}

// ClosureResult is the outcome of expanding a course list to include every
// enforceable requisite.
type ClosureResult struct {
	// Courses maps canonical keys to catalog rows. Keys missing from the
	// catalog are absent.
	Courses map[string]*models.Course
	// Chosen maps each course to the requisite clause selected for it.
	Chosen map[string][]models.CourseRequirement
	// Order lists every course in the closure in discovery order, roots
	// first.
	Order []string
}

// Closure expands the root course list breadth-first, adding each unmet
// enforceable requirement to the set until it is self-contained. Roots
// already passed on the transcript are excluded up front.
func (e *RequisiteEngine) Closure(
	ctx context.Context,
	view CatalogView,
	roots []models.CourseKey,
	transcript models.Transcript,
	allowWarnings bool,
) (*ClosureResult, error) {
	result := &ClosureResult{
		Courses: make(map[string]*models.Course),
		Chosen:  make(map[string][]models.CourseRequirement),
	}

	inClosure := make(map[string]bool)
	var queue []models.CourseKey
	for _, root := range roots {
		key := root.String()
		if transcript.Passed(key) || inClosure[key] {
			continue
		}
		inClosure[key] = true
		result.Order = append(result.Order, key)
		queue = append(queue, root)
	}

	// Clause choice ranks against the transcript alone; what is already in
	// the closure or unenforced must not tilt the ranking.
	satisfied := func(req models.CourseRequirement) bool {
		return transcript.PassedAt(req.Course, req.MinGrade)
	}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		keyStr := key.String()

		found, err := view.Courses(ctx, []models.CourseKey{key})
		if err != nil {
			return nil, err
		}
		course, ok := found[keyStr]
		if !ok {
			e.log.Warn("course not in catalog", zap.String("course", keyStr))
			continue
		}
		result.Courses[keyStr] = course

		clauses := e.ResolveClauses(ctx, view, ToDNF(course.Requisites))
		chosen, missing := ChooseClause(clauses, satisfied)
		result.Chosen[keyStr] = chosen

		for _, req := range missing {
			if !req.Enforced(allowWarnings) {
				continue
			}
			if inClosure[req.Course] {
				continue
			}
			reqKey, err := models.ParseCourseKey(req.Course)
			if err != nil {
				continue
			}
			inClosure[req.Course] = true
			result.Order = append(result.Order, req.Course)
			queue = append(queue, reqKey)
		}
	}

	return result, nil
}
