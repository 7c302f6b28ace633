package repository

import (
	"context"

	"vendoprint/internal/domain"
)

// ErrorLogRepository defines the persistence operations for kiosk errors.
type ErrorLogRepository interface {
	// Create persists a new error log row.
	Create(ctx context.Context, entry *domain.ErrorLog) error

	// CountUnresolved returns the number of unresolved errors.
	CountUnresolved(ctx context.Context) (int, error)

	// Resolve marks an error as resolved.
	Resolve(ctx context.Context, id string) error
}
