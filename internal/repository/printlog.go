package repository

import (
	"context"

	"vendoprint/internal/domain"
)

// PrintLogRepository defines the persistence operations for print logs.
type PrintLogRepository interface {
	// Create persists a new print log row.
	Create(ctx context.Context, entry *domain.PrintLog) error

	// UpdateOutcome records the terminal status of a print log.
	UpdateOutcome(ctx context.Context, id string, status domain.JobStatus, errorMessage string) error

	// Recent returns the most recent print logs, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.PrintLog, error)

	// Stats aggregates the dashboard statistics.
	Stats(ctx context.Context) (*domain.Stats, error)
}
