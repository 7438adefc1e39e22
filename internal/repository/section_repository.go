package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

// SectionRepository reads sections, meeting times, and section instructors.
type SectionRepository struct {
	db    *sqlx.DB
	retry Retrier
}

// NewSectionRepository constructs a section repository.
func NewSectionRepository(db *sqlx.DB, retry Retrier) *SectionRepository {
	return &SectionRepository{db: db, retry: retry}
}

const sectionColumns = `id, course_id, term_id, section_code, is_primary, activity,
	enrollment_cap, enrollment_total, waitlist_cap, waitlist_total`

// ListByCourseIDs fetches all sections of the given courses in one term.
func (r *SectionRepository) ListByCourseIDs(ctx context.Context, courseIDs []int64, termID int64) ([]models.Section, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+sectionColumns+` FROM sections WHERE course_id IN (?) AND term_id = ? ORDER BY course_id, section_code`,
		courseIDs, termID)
	if err != nil {
		return nil, fmt.Errorf("build section query: %w", err)
	}
	query = r.db.Rebind(query)

	var sections []models.Section
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		sections = sections[:0]
		return r.db.SelectContext(ctx, &sections, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// FindByID fetches a single section row.
func (r *SectionRepository) FindByID(ctx context.Context, id int64) (*models.Section, error) {
	const query = `SELECT ` + sectionColumns + ` FROM sections WHERE id = $1`

	var section models.Section
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		return r.db.GetContext(ctx, &section, query, id)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find section %d: %w", id, err)
	}
	return &section, nil
}

// MeetingRow is one meeting_times row; times arrive as catalog strings.
type MeetingRow struct {
	SectionID int64  `db:"section_id"`
	Days      string `db:"days_of_week"`
	Start     string `db:"start_time"`
	End       string `db:"end_time"`
	Building  string `db:"building"`
	Room      string `db:"room"`
}

// MeetingsBySectionIDs fetches all meeting times for the given sections.
func (r *SectionRepository) MeetingsBySectionIDs(ctx context.Context, sectionIDs []int64) ([]MeetingRow, error) {
	if len(sectionIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT section_id, days_of_week, start_time, end_time, building, room
		 FROM meeting_times WHERE section_id IN (?) ORDER BY section_id`, sectionIDs)
	if err != nil {
		return nil, fmt.Errorf("build meeting query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []MeetingRow
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list meeting times: %w", err)
	}
	return rows, nil
}

// InstructorRow joins section_instructors with instructor names.
type InstructorRow struct {
	SectionID int64  `db:"section_id"`
	Name      string `db:"name"`
}

// InstructorNamesBySectionIDs fetches instructor names per section.
func (r *SectionRepository) InstructorNamesBySectionIDs(ctx context.Context, sectionIDs []int64) ([]InstructorRow, error) {
	if len(sectionIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT si.section_id, i.name
		 FROM section_instructors si
		 JOIN instructors i ON i.id = si.instructor_id
		 WHERE si.section_id IN (?) ORDER BY si.section_id, i.name`, sectionIDs)
	if err != nil {
		return nil, fmt.Errorf("build instructor query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []InstructorRow
	err = r.retry.Do(ctx, func(ctx context.Context) error {
		rows = rows[:0]
		return r.db.SelectContext(ctx, &rows, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list section instructors: %w", err)
	}
	return rows, nil
}
