package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

// CourseRepository reads the courses table.
type CourseRepository struct {
	db    *sqlx.DB
	retry Retrier
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *sqlx.DB, retry Retrier) *CourseRepository {
	return &CourseRepository{db: db, retry: retry}
}

// CoursePair is one (subject_id, catalog_number) lookup key.
type CoursePair struct {
	SubjectID     int64
	CatalogNumber string
}

// FindByPairs fetches the courses matching the given subject/number pairs
// using a row-value IN list.
func (r *CourseRepository) FindByPairs(ctx context.Context, pairs []CoursePair) ([]models.Course, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	query := `SELECT id, subject_id, catalog_number, title, course_requisites
		FROM courses WHERE (subject_id, catalog_number) IN (`
	args := make([]interface{}, 0, len(pairs)*2)
	for i, p := range pairs {
		if i > 0 {
			query += ","
		}
		query += fmt.Sprintf("($%d,$%d)", i*2+1, i*2+2)
		args = append(args, p.SubjectID, p.CatalogNumber)
	}
	query += ")"

	var courses []models.Course
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		courses = courses[:0]
		return r.db.SelectContext(ctx, &courses, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("find courses by pairs: %w", err)
	}
	return courses, nil
}

// FindByIDs fetches courses by primary key.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []int64) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT id, subject_id, catalog_number, title, course_requisites FROM courses WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build course id query: %w", err)
	}
	query = r.db.Rebind(query)

	var courses []models.Course
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		courses = courses[:0]
		return r.db.SelectContext(ctx, &courses, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("find courses by ids: %w", err)
	}
	return courses, nil
}
