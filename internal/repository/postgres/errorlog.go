package postgres

import (
	"context"
	"database/sql"

	"vendoprint/internal/domain"
	"vendoprint/internal/repository"
)

// ErrorLogRepository is a PostgreSQL implementation of repository.ErrorLogRepository.
type ErrorLogRepository struct {
	q Querier
}

// NewErrorLogRepository creates a new PostgreSQL error log repository.
func NewErrorLogRepository(db *sql.DB) *ErrorLogRepository {
	return &ErrorLogRepository{q: db}
}

// Create persists a new error log row.
func (r *ErrorLogRepository) Create(ctx context.Context, entry *domain.ErrorLog) error {
	query := `
		INSERT INTO error_logs (id, error_type, error_message, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.Type,
		entry.Message,
		entry.Resolved,
		entry.CreatedAt,
	)

	return err
}

// CountUnresolved returns the number of unresolved errors.
func (r *ErrorLogRepository) CountUnresolved(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM error_logs WHERE resolved = FALSE`

	var count int
	if err := r.q.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// Resolve marks an error as resolved.
func (r *ErrorLogRepository) Resolve(ctx context.Context, id string) error {
	query := `UPDATE error_logs SET resolved = TRUE WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.ErrorLogRepository = (*ErrorLogRepository)(nil)
