package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bruintracks/bruintracks-go/internal/models"
)

// TermRepository reads the terms table.
type TermRepository struct {
	db    *sqlx.DB
	retry Retrier
}

// NewTermRepository constructs a term repository.
func NewTermRepository(db *sqlx.DB, retry Retrier) *TermRepository {
	return &TermRepository{db: db, retry: retry}
}

// ListAll returns every catalog term row.
func (r *TermRepository) ListAll(ctx context.Context) ([]models.TermRow, error) {
	const query = `SELECT id, term_name FROM terms ORDER BY id`

	var terms []models.TermRow
	err := r.retry.Do(ctx, func(ctx context.Context) error {
		terms = terms[:0]
		return r.db.SelectContext(ctx, &terms, query)
	})
	if err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}
