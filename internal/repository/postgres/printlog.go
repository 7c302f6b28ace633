package postgres

import (
	"context"
	"database/sql"

	"vendoprint/internal/domain"
	"vendoprint/internal/repository"
)

// PrintLogRepository is a PostgreSQL implementation of repository.PrintLogRepository.
type PrintLogRepository struct {
	q Querier
}

// NewPrintLogRepository creates a new PostgreSQL print log repository.
func NewPrintLogRepository(db *sql.DB) *PrintLogRepository {
	return &PrintLogRepository{q: db}
}

// NewPrintLogRepositoryWithTx creates a print log repository using a transaction.
func NewPrintLogRepositoryWithTx(tx *sql.Tx) *PrintLogRepository {
	return &PrintLogRepository{q: tx}
}

// Create persists a new print log row.
func (r *PrintLogRepository) Create(ctx context.Context, entry *domain.PrintLog) error {
	query := `
		INSERT INTO print_logs
		(id, job_id, file_type, file_name, pages, copies, color_mode, orientation, cost, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.JobID,
		entry.FileType,
		entry.FileName,
		entry.Pages,
		entry.Copies,
		entry.ColorMode,
		entry.Orientation,
		entry.Cost,
		entry.Status,
		entry.ErrorMessage,
		entry.CreatedAt,
	)

	return err
}

// UpdateOutcome records the terminal status of a print log.
func (r *PrintLogRepository) UpdateOutcome(ctx context.Context, id string, status domain.JobStatus, errorMessage string) error {
	query := `UPDATE print_logs SET status = $1, error_message = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, status, errorMessage, id)
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

// Recent returns the most recent print logs, newest first.
func (r *PrintLogRepository) Recent(ctx context.Context, limit int) ([]*domain.PrintLog, error) {
	query := `
		SELECT id, job_id, file_type, file_name, pages, copies, color_mode, orientation, cost, status, error_message, created_at
		FROM print_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.PrintLog
	for rows.Next() {
		var entry domain.PrintLog
		var errMsg sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.JobID,
			&entry.FileType,
			&entry.FileName,
			&entry.Pages,
			&entry.Copies,
			&entry.ColorMode,
			&entry.Orientation,
			&entry.Cost,
			&entry.Status,
			&errMsg,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.ErrorMessage = errMsg.String
		logs = append(logs, &entry)
	}

	return logs, rows.Err()
}

// Stats aggregates the dashboard statistics in a single round trip.
func (r *PrintLogRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'COMPLETED'),
			COUNT(*) FILTER (WHERE status = 'FAILED'),
			COUNT(*) FILTER (WHERE status = 'COMPLETED' AND created_at::date = CURRENT_DATE),
			COALESCE(SUM(cost) FILTER (WHERE status = 'COMPLETED'), 0)
		FROM print_logs
	`

	var stats domain.Stats
	err := r.q.QueryRowContext(ctx, query).Scan(
		&stats.TotalPrints,
		&stats.FailedPrints,
		&stats.TodayPrints,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, err
	}

	if total := stats.TotalPrints + stats.FailedPrints; total > 0 {
		stats.SuccessRate = float64(stats.TotalPrints) / float64(total) * 100
	}

	return &stats, nil
}

var _ repository.PrintLogRepository = (*PrintLogRepository)(nil)
