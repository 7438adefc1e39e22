package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

// SubjectRepository reads the subjects table.
type SubjectRepository struct {
	db    *sqlx.DB
	retry Retrier
}

// NewSubjectRepository constructs a subject repository.
func NewSubjectRepository(db *sqlx.DB, retry Retrier) *SubjectRepository {
	return &SubjectRepository{db: db, retry: retry}
}

// ListAll returns every subject. The table is small enough to load whole.
func (r *SubjectRepository) ListAll(ctx context.Context) ([]models.Subject, error) {
	const query = `SELECT id, code, name FROM subjects ORDER BY code`

	var subjects []models.Subject
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		subjects = subjects[:0]
		return r.db.SelectContext(ctx, &subjects, query)
	})
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}
