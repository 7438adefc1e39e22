package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

// CourseRef pairs a canonical course key with its catalog id.
type CourseRef struct {
	Key string
	ID  int64
}

// PrefixSelection is the outcome of picking sections for one candidate
// first-term course set.
type PrefixSelection struct {
	// Placements records every course in the prefix; courses with no usable
	// primary this term keep nil section blocks.
	Placements map[string]*models.CoursePlacement
	// Score is the summed, per-course clamped preference score.
	Score int
	// Placed counts courses that received a primary section.
	Placed int
	// Conflicts reports whether the chosen sections violate the configured
	// conflict policy.
	Conflicts bool

	chosen map[string]chosenSections
}

type chosenSections struct {
	primary   *models.Section
	secondary *models.Section
}

// SectionSelector scores and picks (lecture, discussion) pairings for the
// earliest term.
type SectionSelector struct {
	log *zap.Logger
}

// NewSectionSelector constructs a selector. log may be nil.
func NewSectionSelector(log *zap.Logger) *SectionSelector {
	if log == nil {
		log = zap.NewNop()
	}
	return &SectionSelector{log: log}
}

// SelectPrefix independently picks the best primary section per course and
// the best secondary sharing the primary's code prefix, then checks the
// resulting set against the conflict policy.
func (s *SectionSelector) SelectPrefix(
	ctx context.Context,
	view CatalogView,
	courses []CourseRef,
	termID int64,
	prefs models.Preferences,
) (*PrefixSelection, error) {
	weights := prefs.Weights()
	sel := &PrefixSelection{
		Placements: make(map[string]*models.CoursePlacement, len(courses)),
		chosen:     make(map[string]chosenSections, len(courses)),
	}

	for _, course := range courses {
		sel.Placements[course.Key] = &models.CoursePlacement{}

		sections, err := view.Sections(ctx, course.ID, termID)
		if err != nil {
			return nil, err
		}

		var primaries, secondaries []*models.Section
		for i := range sections {
			if sections[i].IsPrimary {
				primaries = append(primaries, &sections[i])
			} else {
				secondaries = append(secondaries, &sections[i])
			}
		}
		if len(primaries) == 0 {
			continue
		}

		primary := bestSection(primaries, prefs, weights)
		var matching []*models.Section
		for _, sec := range secondaries {
			if sec.CodePrefix() == primary.CodePrefix() {
				matching = append(matching, sec)
			}
		}
		secondary := bestSection(matching, prefs, weights)

		courseScore := scoreSection(primary, prefs, weights)
		if secondary != nil {
			courseScore += scoreSection(secondary, prefs, weights)
		}
		if courseScore < 0 {
			courseScore = 0
		}
		sel.Score += courseScore
		sel.Placed++

		sel.Placements[course.Key] = &models.CoursePlacement{
			Lecture:    models.Summarize(primary),
			Discussion: models.Summarize(secondary),
		}
		sel.chosen[course.Key] = chosenSections{primary: primary, secondary: secondary}
	}

	sel.Conflicts = hasForbiddenConflict(sel.chosen, prefs)
	return sel, nil
}

// bestSection returns the highest-scoring section, keeping the earlier
// section code on ties. Sections that keep every forbidden day free
// outrank any section that meets on one, whatever the scores say; the
// dirty pool is only a fallback. Returns nil for an empty slice.
func bestSection(sections []*models.Section, prefs models.Preferences, weights map[string]int) *models.Section {
	var bestClean, bestDirty *models.Section
	cleanScore, dirtyScore := 0, 0
	for _, sec := range sections {
		score := scoreSection(sec, prefs, weights)
		if avoidsForbiddenDays(sec, prefs) {
			if bestClean == nil || score > cleanScore {
				bestClean = sec
				cleanScore = score
			}
		} else if bestDirty == nil || score > dirtyScore {
			bestDirty = sec
			dirtyScore = score
		}
	}
	if bestClean != nil {
		return bestClean
	}
	return bestDirty
}

func avoidsForbiddenDays(sec *models.Section, prefs models.Preferences) bool {
	for _, slot := range sec.Times {
		if !prefs.AvoidsDays(slot.Days) {
			return false
		}
	}
	return true
}

// scoreSection sums the per-meeting preference awards plus a one-time
// instructor award.
func scoreSection(sec *models.Section, prefs models.Preferences, weights map[string]int) int {
	if sec == nil {
		return 0
	}
	score := 0
	for _, slot := range sec.Times {
		if prefs.InWindow(slot.Start) {
			score += weights[models.AxisTime]
		}
		if prefs.InWindow(slot.End) {
			score += weights[models.AxisTime]
		}
		if prefs.PrefersBuilding(slot.Building) {
			score += weights[models.AxisBuilding]
		}
		if prefs.AvoidsDays(slot.Days) {
			score += weights[models.AxisDays]
		}
	}
	for _, name := range sec.Instructors {
		if prefs.PrefersInstructor(name) {
			score += weights[models.AxisInstructor]
			break
		}
	}
	return score
}

// hasForbiddenConflict applies the policy: primary-vs-primary overlaps are
// forbidden when primary conflicts are disallowed; any overlap involving a
// secondary (secondary-vs-secondary, or cross-course primary-vs-secondary)
// is forbidden when secondary conflicts are disallowed.
func hasForbiddenConflict(chosen map[string]chosenSections, prefs models.Preferences) bool {
	type placed struct {
		course  string
		sec     *models.Section
		primary bool
	}
	var all []placed
	for course, cs := range chosen {
		if cs.primary != nil {
			all = append(all, placed{course: course, sec: cs.primary, primary: true})
		}
		if cs.secondary != nil {
			all = append(all, placed{course: course, sec: cs.secondary, primary: false})
		}
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.course == b.course && a.primary != b.primary {
				continue
			}
			if !a.sec.ConflictsWith(b.sec) {
				continue
			}
			if a.primary && b.primary {
				if !prefs.AllowPrimaryConflicts {
					return true
				}
				continue
			}
			if !prefs.AllowSecondaryConflicts {
				return true
			}
		}
	}
	return false
}
