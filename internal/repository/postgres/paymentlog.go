package postgres

import (
	"context"
	"database/sql"
	"time"

	"vendoprint/internal/domain"
	"vendoprint/internal/repository"
)

// PaymentLogRepository is a PostgreSQL implementation of repository.PaymentLogRepository.
type PaymentLogRepository struct {
	q Querier
}

// NewPaymentLogRepository creates a new PostgreSQL payment log repository.
func NewPaymentLogRepository(db *sql.DB) *PaymentLogRepository {
	return &PaymentLogRepository{q: db}
}

// Create persists one accepted credit event.
func (r *PaymentLogRepository) Create(ctx context.Context, entry *domain.PaymentLog) error {
	query := `
		INSERT INTO payment_logs (id, session_id, coin_value, total_paid, total_cost, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.SessionID,
		entry.CoinValue,
		entry.TotalPaid,
		entry.TotalCost,
		entry.Source,
		entry.CreatedAt,
	)

	return err
}

// RevenueSince sums the coin values accepted since the given time.
func (r *PaymentLogRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	query := `SELECT COALESCE(SUM(coin_value), 0) FROM payment_logs WHERE created_at >= $1`

	var total float64
	if err := r.q.QueryRowContext(ctx, query, since).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

var _ repository.PaymentLogRepository = (*PaymentLogRepository)(nil)
