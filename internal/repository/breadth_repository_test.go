package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreadthCourseIDsByArea(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBreadthRepository(db, noRetry())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tech_breadth_courses WHERE tba_title = $1`)).
		WithArgs("Signals and Systems").
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow(20).AddRow(21))

	ids, err := repo.CourseIDsByArea(context.Background(), "Signals and Systems")
	require.NoError(t, err)
	assert.Equal(t, []int64{20, 21}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreadthDescriptionsByCourseIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBreadthRepository(db, noRetry())

	mock.ExpectQuery(`FROM course_descriptions WHERE course_id IN`).
		WithArgs(int64(20), int64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "description"}).
			AddRow(20, "Circuit analysis fundamentals.").
			AddRow(21, "Signal processing."))

	descriptions, err := repo.DescriptionsByCourseIDs(context.Background(), []int64{20, 21})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{
		20: "Circuit analysis fundamentals.",
		21: "Signal processing.",
	}, descriptions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreadthDescriptionsEmptyInput(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBreadthRepository(db, noRetry())

	descriptions, err := repo.DescriptionsByCourseIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, descriptions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
