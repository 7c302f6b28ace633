package service

import (
	"context"
	"log"
	"time"

	"vendoprint/internal/domain"
	"vendoprint/internal/repository"
)

// StatsCache caches the aggregated dashboard stats between polls.
type StatsCache interface {
	GetStats(ctx context.Context) (*domain.Stats, error)
	SetStats(ctx context.Context, stats *domain.Stats) error
}

// StatsService aggregates the owner dashboard numbers.
type StatsService struct {
	printLogs   repository.PrintLogRepository
	paymentLogs repository.PaymentLogRepository
	errorLogs   repository.ErrorLogRepository
	cache       StatsCache
}

// NewStatsService creates a new StatsService. cache may be nil.
func NewStatsService(
	printLogs repository.PrintLogRepository,
	paymentLogs repository.PaymentLogRepository,
	errorLogs repository.ErrorLogRepository,
	cache StatsCache,
) *StatsService {
	return &StatsService{
		printLogs:   printLogs,
		paymentLogs: paymentLogs,
		errorLogs:   errorLogs,
		cache:       cache,
	}
}

// GetStats returns the dashboard statistics, served from the Redis cache
// when fresh. The dashboard polls; the aggregate queries don't need to
// run more than once per cache window. Today's revenue comes from the
// payment log (actual coins accepted), not the print log.
func (s *StatsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetStats(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	stats, err := s.printLogs.Stats(ctx)
	if err != nil {
		return nil, err
	}

	unresolved, err := s.errorLogs.CountUnresolved(ctx)
	if err != nil {
		return nil, err
	}
	stats.UnresolvedErrors = unresolved

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	revenue, err := s.paymentLogs.RevenueSince(ctx, midnight)
	if err != nil {
		return nil, err
	}
	stats.TodayRevenue = revenue

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, stats); err != nil {
			log.Printf("[STATS] cache write failed: %v", err)
		}
	}

	return stats, nil
}

// RecentLogs returns the most recent print logs for the dashboard.
func (s *StatsService) RecentLogs(ctx context.Context, limit int) ([]*domain.PrintLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.printLogs.Recent(ctx, limit)
}
