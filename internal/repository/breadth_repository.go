package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// BreadthRepository reads the technical-breadth area tables.
type BreadthRepository struct {
	db    *sqlx.DB
	retry Retrier
}

// NewBreadthRepository constructs a breadth repository.
func NewBreadthRepository(db *sqlx.DB, retry Retrier) *BreadthRepository {
	return &BreadthRepository{db: db, retry: retry}
}

// CourseIDsByArea returns the ids of every course tagged with the given
// breadth area title.
func (r *BreadthRepository) CourseIDsByArea(ctx context.Context, area string) ([]int64, error) {
	const query = `SELECT course_id FROM tech_breadth_courses WHERE tba_title = $1`

	var ids []int64
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		ids = ids[:0]
		return r.db.SelectContext(ctx, &ids, query, area)
	})
	if err != nil {
		return nil, fmt.Errorf("list breadth courses for %q: %w", area, err)
	}
	return ids, nil
}

// DescriptionRow is one course_descriptions row.
type DescriptionRow struct {
	CourseID    int64  `db:"course_id"`
	Description string `db:"description"`
}

// DescriptionsByCourseIDs fetches catalog descriptions for the given courses.
func (r *BreadthRepository) DescriptionsByCourseIDs(ctx context.Context, courseIDs []int64) (map[int64]string, error) {
	if len(courseIDs) == 0 {
		return map[int64]string{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT course_id, description FROM course_descriptions WHERE course_id IN (?)`, courseIDs)
	if err != nil {
		return nil, fmt.Errorf("build description query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []DescriptionRow
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list course descriptions: %w", err)
	}

	descriptions := make(map[int64]string, len(rows))
	for _, row := range rows {
		descriptions[row.CourseID] = row.Description
	}
	return descriptions, nil
}
