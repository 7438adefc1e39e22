package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/dto"
	"github.com/bruintracks/bruintracks-go/internal/models"
	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
)

// BreadthService ranks technical-breadth electives for a declared area by
// how many prerequisites the student still lacks.
type BreadthService struct {
	catalog  CatalogOpener
	engine   *RequisiteEngine
	validate *validator.Validate
	log      *zap.Logger
}

// NewBreadthService wires the optimizer.
func NewBreadthService(catalog CatalogOpener, engine *RequisiteEngine, validate *validator.Validate, log *zap.Logger) *BreadthService {
	if validate == nil {
		validate = validator.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BreadthService{catalog: catalog, engine: engine, validate: validate, log: log}
}

// Recommend returns the top three candidates plus the remaining ranked list.
// Only upper-division courses the student has neither completed nor already
// planned qualify.
func (s *BreadthService) Recommend(ctx context.Context, req dto.BreadthRequest) (*dto.BreadthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	view, err := s.catalog.Open(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := view.BreadthCourseIDs(ctx, req.TechBreadthArea)
	if err != nil {
		return nil, err
	}
	courses, err := view.CoursesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	transcript := models.NewTranscript(req.Transcript)
	planned := make(map[string]bool, len(req.RequiredCourses))
	for _, key := range req.RequiredCourses {
		planned[key] = true
	}
	taken := func(key string) bool {
		_, completed := transcript[key]
		return completed || planned[key]
	}

	type ranked struct {
		candidate dto.BreadthCandidate
		courseID  int64
	}
	var candidates []ranked
	for i := range courses {
		course := &courses[i]
		if !models.UpperDivision(course.CatalogNumber) {
			continue
		}
		code, err := view.SubjectCodeByID(ctx, course.SubjectID)
		if err != nil {
			s.log.Warn("breadth course with unknown subject",
				zap.Int64("course_id", course.ID), zap.Error(err))
			continue
		}
		key := models.CourseKey{Subject: code, Number: course.CatalogNumber}.String()
		if taken(key) {
			continue
		}

		clauses := s.engine.ResolveClauses(ctx, view, ToDNF(course.Requisites))
		_, missing := ChooseClause(clauses, func(req models.CourseRequirement) bool {
			return taken(req.Course)
		})
		missingKeys := make([]string, 0, len(missing))
		for _, req := range missing {
			missingKeys = append(missingKeys, req.Course)
		}
		sort.Strings(missingKeys)

		candidates = append(candidates, ranked{
			candidate: dto.BreadthCandidate{
				Course:            key,
				AdditionalPrereqs: len(missingKeys),
				MissingPrereqs:    missingKeys,
			},
			courseID: course.ID,
		})
	}

	if len(candidates) < 3 {
		return nil, appErrors.Clone(appErrors.ErrNotFound,
			fmt.Sprintf("fewer than 3 eligible courses in breadth area %q", req.TechBreadthArea))
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].candidate, candidates[j].candidate
		if a.AdditionalPrereqs != b.AdditionalPrereqs {
			return a.AdditionalPrereqs < b.AdditionalPrereqs
		}
		return a.Course < b.Course
	})

	eligibleIDs := make([]int64, len(candidates))
	for i, c := range candidates {
		eligibleIDs[i] = c.courseID
	}
	descriptions, err := view.Descriptions(ctx, eligibleIDs)
	if err != nil {
		return nil, err
	}

	resp := &dto.BreadthResponse{
		Recommended: make([]dto.BreadthCandidate, 0, 3),
		Additional:  make([]dto.BreadthCandidate, 0, len(candidates)-3),
	}
	for i, c := range candidates {
		c.candidate.Description = descriptions[c.courseID]
		if i < 3 {
			resp.Recommended = append(resp.Recommended, c.candidate)
		} else {
			resp.Additional = append(resp.Additional, c.candidate)
		}
	}
	return resp, nil
}
