package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

// OfferingIndex answers "is this course offered in this term" for one
// planning run. A course is offered when the catalog lists at least one
// usable section for it in the term. Placeholders are offered everywhere.
type OfferingIndex struct {
	offered map[string]map[string]bool
	termIDs map[string]int64
}

// BuildOfferingIndex probes the catalog for every course/term combination in
// the planning window. Terms missing from the catalog are logged and treated
// as offering nothing.
func BuildOfferingIndex(
	ctx context.Context,
	view CatalogView,
	courses map[string]*models.Course,
	termLabels []string,
	log *zap.Logger,
) (*OfferingIndex, error) {
	if log == nil {
		log = zap.NewNop()
	}

	idx := &OfferingIndex{
		offered: make(map[string]map[string]bool, len(courses)),
		termIDs: make(map[string]int64, len(termLabels)),
	}

	for _, label := range termLabels {
		termID, err := view.TermID(ctx, label)
		if err != nil {
			log.Warn("term not in catalog", zap.String("term", label), zap.Error(err))
			continue
		}
		idx.termIDs[label] = termID
	}

	for key, course := range courses {
		if course == nil {
			continue
		}
		terms := make(map[string]bool, len(termLabels))
		for _, label := range termLabels {
			termID, ok := idx.termIDs[label]
			if !ok {
				continue
			}
			sections, err := view.Sections(ctx, course.ID, termID)
			if err != nil {
				return nil, err
			}
			terms[label] = len(sections) > 0
		}
		idx.offered[key] = terms
	}

	return idx, nil
}

// Offered reports whether the course can be taken in the term.
func (idx *OfferingIndex) Offered(courseKey, termLabel string) bool {
	if models.IsPlaceholder(courseKey) {
		return true
	}
	terms, ok := idx.offered[courseKey]
	if !ok {
		return false
	}
	return terms[termLabel]
}

// TermID returns the catalog id previously resolved for a term label.
func (idx *OfferingIndex) TermID(termLabel string) (int64, bool) {
	id, ok := idx.termIDs[termLabel]
	return id, ok
}
