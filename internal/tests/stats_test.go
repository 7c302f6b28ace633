package tests

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"vendoprint/internal/domain"
	"vendoprint/internal/service"
)

// ──────────────────────────────────────────────
// DASHBOARD STATS AGGREGATION
// ──────────────────────────────────────────────

func seedPrintLog(t *testing.T, repo *MockPrintLogRepository, id string, status domain.JobStatus, cost float64, at time.Time) {
	t.Helper()
	err := repo.Create(context.Background(), &domain.PrintLog{
		ID:        id,
		JobID:     id,
		FileType:  domain.FileTypeDocument,
		FileName:  id + ".pdf",
		Pages:     1,
		Copies:    1,
		Status:    status,
		Cost:      cost,
		CreatedAt: at,
	})
	if err != nil {
		t.Fatalf("seed print log: %v", err)
	}
}

func TestStats_AggregatesFromRepositories(t *testing.T) {
	t.Parallel()

	printLogs := NewMockPrintLogRepository()
	payLogs := NewMockPaymentLogRepository()
	errLogs := NewMockErrorLogRepository()
	cache := NewMockStatsCache()

	now := time.Now()
	seedPrintLog(t, printLogs, "job-1", domain.JobStatusCompleted, 20, now)
	seedPrintLog(t, printLogs, "job-2", domain.JobStatusCompleted, 10, now.Add(-48*time.Hour))
	seedPrintLog(t, printLogs, "job-3", domain.JobStatusFailed, 15, now)
	seedPrintLog(t, printLogs, "job-4", domain.JobStatusPrinting, 5, now) // in flight, counts nowhere

	for _, coin := range []float64{10, 5, 5} {
		payLogs.Create(context.Background(), &domain.PaymentLog{
			ID:        "pay",
			CoinValue: coin,
			CreatedAt: now,
		})
	}

	errLogs.Create(context.Background(), &domain.ErrorLog{ID: "err-1", Type: domain.ErrorTypePaperJam})
	errLogs.Create(context.Background(), &domain.ErrorLog{ID: "err-2", Type: domain.ErrorTypeNoPaper, Resolved: true})

	svc := service.NewStatsService(printLogs, payLogs, errLogs, cache)
	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalPrints != 2 {
		t.Errorf("total prints = %d, want 2 (completed only)", stats.TotalPrints)
	}
	if stats.FailedPrints != 1 {
		t.Errorf("failed prints = %d, want 1", stats.FailedPrints)
	}
	if stats.TodayPrints != 1 {
		t.Errorf("today prints = %d, want 1", stats.TodayPrints)
	}
	if stats.TotalRevenue != 30 {
		t.Errorf("total revenue = %.2f, want 30 (failed jobs earn nothing)", stats.TotalRevenue)
	}
	if stats.TodayRevenue != 20 {
		t.Errorf("today revenue = %.2f, want 20 (coin sum)", stats.TodayRevenue)
	}
	if want := float64(2) / 3 * 100; stats.SuccessRate != want {
		t.Errorf("success rate = %.2f, want %.2f", stats.SuccessRate, want)
	}
	if stats.UnresolvedErrors != 1 {
		t.Errorf("unresolved errors = %d, want 1", stats.UnresolvedErrors)
	}

	if atomic.LoadInt32(&cache.SetCallCount) != 1 {
		t.Error("aggregated stats were not written to the cache")
	}
}

func TestStats_ServedFromCacheWhenFresh(t *testing.T) {
	t.Parallel()

	printLogs := NewMockPrintLogRepository()
	payLogs := NewMockPaymentLogRepository()
	errLogs := NewMockErrorLogRepository()
	cache := NewMockStatsCache()
	cache.Prime(&domain.Stats{TotalPrints: 7, TotalRevenue: 140})

	svc := service.NewStatsService(printLogs, payLogs, errLogs, cache)
	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalPrints != 7 || stats.TotalRevenue != 140 {
		t.Errorf("cached stats not returned: %+v", stats)
	}
	if got := atomic.LoadInt32(&printLogs.StatsCallCount); got != 0 {
		t.Errorf("aggregate query ran despite a cache hit: %d calls", got)
	}
}

func TestStats_CacheFailureFallsThroughToRepositories(t *testing.T) {
	t.Parallel()

	printLogs := NewMockPrintLogRepository()
	payLogs := NewMockPaymentLogRepository()
	errLogs := NewMockErrorLogRepository()
	cache := NewMockStatsCache()
	cache.GetError = ErrMockTimeout

	seedPrintLog(t, printLogs, "job-1", domain.JobStatusCompleted, 20, time.Now())

	svc := service.NewStatsService(printLogs, payLogs, errLogs, cache)
	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("a cache failure must not fail the dashboard: %v", err)
	}
	if stats.TotalPrints != 1 {
		t.Errorf("total prints = %d, want 1", stats.TotalPrints)
	}
}

func TestStats_RecentLogsClampsLimit(t *testing.T) {
	t.Parallel()

	printLogs := NewMockPrintLogRepository()
	now := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		seedPrintLog(t, printLogs, id, domain.JobStatusCompleted, 5, now)
	}

	svc := service.NewStatsService(printLogs, NewMockPaymentLogRepository(), NewMockErrorLogRepository(), nil)

	logs, err := svc.RecentLogs(context.Background(), -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 3 {
		t.Errorf("defaulted limit returned %d rows, want 3", len(logs))
	}

	logs, err = svc.RecentLogs(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("limit 2 returned %d rows", len(logs))
	}
}
