package repository

import (
	"context"
	"time"

	"vendoprint/internal/domain"
)

// PaymentLogRepository defines the persistence operations for coin
// credit events.
type PaymentLogRepository interface {
	// Create persists one accepted credit event.
	Create(ctx context.Context, entry *domain.PaymentLog) error

	// RevenueSince sums the coin values accepted since the given time.
	RevenueSince(ctx context.Context, since time.Time) (float64, error)
}
