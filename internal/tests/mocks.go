package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"vendoprint/internal/domain"
	"vendoprint/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK PRINT LOG REPOSITORY
// ──────────────────────────────────────────────

// MockPrintLogRepository is a mock implementation of PrintLogRepository.
type MockPrintLogRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.PrintLog

	// Counters for verification
	CreateCallCount        int32
	UpdateOutcomeCallCount int32
	StatsCallCount         int32

	// Error injection
	CreateError        error
	UpdateOutcomeError error
	StatsError         error
}

// NewMockPrintLogRepository creates a new mock print log repository.
func NewMockPrintLogRepository() *MockPrintLogRepository {
	return &MockPrintLogRepository{
		entries: make(map[string]*domain.PrintLog),
	}
}

func (m *MockPrintLogRepository) Create(ctx context.Context, entry *domain.PrintLog) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *entry
	m.entries[entry.ID] = &copy
	return nil
}

func (m *MockPrintLogRepository) UpdateOutcome(ctx context.Context, id string, status domain.JobStatus, errorMessage string) error {
	atomic.AddInt32(&m.UpdateOutcomeCallCount, 1)
	if m.UpdateOutcomeError != nil {
		return m.UpdateOutcomeError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return repository.ErrNotFound
	}
	entry.Status = status
	entry.ErrorMessage = errorMessage
	return nil
}

func (m *MockPrintLogRepository) Recent(ctx context.Context, limit int) ([]*domain.PrintLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PrintLog, 0, len(m.entries))
	for _, e := range m.entries {
		copy := *e
		result = append(result, &copy)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

// Stats mirrors the SQL aggregation: only COMPLETED rows count as
// prints and revenue, FAILED rows count separately, in-flight rows
// count nowhere.
func (m *MockPrintLogRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	atomic.AddInt32(&m.StatsCallCount, 1)
	if m.StatsError != nil {
		return nil, m.StatsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	nowY, nowM, nowD := time.Now().Date()
	stats := &domain.Stats{}
	for _, e := range m.entries {
		switch e.Status {
		case domain.JobStatusCompleted:
			stats.TotalPrints++
			stats.TotalRevenue += e.Cost
			if y, mo, d := e.CreatedAt.Date(); y == nowY && mo == nowM && d == nowD {
				stats.TodayPrints++
			}
		case domain.JobStatusFailed:
			stats.FailedPrints++
		}
	}
	if total := stats.TotalPrints + stats.FailedPrints; total > 0 {
		stats.SuccessRate = float64(stats.TotalPrints) / float64(total) * 100
	}
	return stats, nil
}

// GetEntry returns a print log for test assertions.
func (m *MockPrintLogRepository) GetEntry(id string) *domain.PrintLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[id]
}

// CountEntries returns the number of print logs.
func (m *MockPrintLogRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT LOG REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentLogRepository is a mock implementation of PaymentLogRepository.
type MockPaymentLogRepository struct {
	mu      sync.RWMutex
	entries []*domain.PaymentLog

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockPaymentLogRepository creates a new mock payment log repository.
func NewMockPaymentLogRepository() *MockPaymentLogRepository {
	return &MockPaymentLogRepository{}
}

func (m *MockPaymentLogRepository) Create(ctx context.Context, entry *domain.PaymentLog) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *entry
	m.entries = append(m.entries, &copy)
	return nil
}

func (m *MockPaymentLogRepository) RevenueSince(ctx context.Context, since time.Time) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total float64
	for _, e := range m.entries {
		if !e.CreatedAt.Before(since) {
			total += e.CoinValue
		}
	}
	return total, nil
}

// GetEntries returns all payment logs for assertions.
func (m *MockPaymentLogRepository) GetEntries() []*domain.PaymentLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.PaymentLog, len(m.entries))
	copy(result, m.entries)
	return result
}

// CountEntries returns the number of payment logs.
func (m *MockPaymentLogRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ──────────────────────────────────────────────
// MOCK ERROR LOG REPOSITORY
// ──────────────────────────────────────────────

// MockErrorLogRepository is a mock implementation of ErrorLogRepository.
type MockErrorLogRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.ErrorLog

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockErrorLogRepository creates a new mock error log repository.
func NewMockErrorLogRepository() *MockErrorLogRepository {
	return &MockErrorLogRepository{
		entries: make(map[string]*domain.ErrorLog),
	}
}

func (m *MockErrorLogRepository) Create(ctx context.Context, entry *domain.ErrorLog) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *entry
	m.entries[entry.ID] = &copy
	return nil
}

func (m *MockErrorLogRepository) CountUnresolved(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.entries {
		if !e.Resolved {
			count++
		}
	}
	return count, nil
}

func (m *MockErrorLogRepository) Resolve(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return repository.ErrNotFound
	}
	entry.Resolved = true
	return nil
}

// GetEntries returns all error logs for assertions.
func (m *MockErrorLogRepository) GetEntries() []*domain.ErrorLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.ErrorLog, 0, len(m.entries))
	for _, e := range m.entries {
		copy := *e
		result = append(result, &copy)
	}
	return result
}

// CountEntries returns the number of error logs.
func (m *MockErrorLogRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ──────────────────────────────────────────────
// MOCK PRINTER
// ──────────────────────────────────────────────

// MockPrinter is a mock print submitter.
type MockPrinter struct {
	mu   sync.Mutex
	jobs []*domain.PrintJob

	// Control behavior
	PrintError error
	PrintDelay time.Duration

	// Counters
	PrintCallCount int32
}

// NewMockPrinter creates a new mock printer.
func NewMockPrinter() *MockPrinter {
	return &MockPrinter{}
}

func (m *MockPrinter) Print(ctx context.Context, job *domain.PrintJob) error {
	atomic.AddInt32(&m.PrintCallCount, 1)
	if m.PrintDelay > 0 {
		select {
		case <-time.After(m.PrintDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PrintError != nil {
		return m.PrintError
	}
	copy := *job
	m.jobs = append(m.jobs, &copy)
	return nil
}

// SetFailure configures the printer to fail.
func (m *MockPrinter) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PrintError = err
}

// PrintedJobs returns the submitted jobs for assertions.
func (m *MockPrinter) PrintedJobs() []*domain.PrintJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.PrintJob, len(m.jobs))
	copy(result, m.jobs)
	return result
}

// ──────────────────────────────────────────────
// MOCK STATS CACHE
// ──────────────────────────────────────────────

// MockStatsCache is an in-memory stand-in for the Redis stats cache.
type MockStatsCache struct {
	mu    sync.Mutex
	stats *domain.Stats

	// Counters
	GetCallCount int32
	SetCallCount int32

	// Error injection
	GetError error
	SetError error
}

// NewMockStatsCache creates a new mock stats cache.
func NewMockStatsCache() *MockStatsCache {
	return &MockStatsCache{}
}

func (m *MockStatsCache) GetStats(ctx context.Context) (*domain.Stats, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stats == nil {
		return nil, nil // Cache miss
	}
	copy := *m.stats
	return &copy, nil
}

func (m *MockStatsCache) SetStats(ctx context.Context, stats *domain.Stats) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *stats
	m.stats = &copy
	return nil
}

// Prime seeds the cache for test setup.
func (m *MockStatsCache) Prime(stats *domain.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *stats
	m.stats = &copy
}

// ──────────────────────────────────────────────
// MOCK PRINTER STATUS CACHE
// ──────────────────────────────────────────────

// MockStatusCache records printer status cache invalidations.
type MockStatusCache struct {
	InvalidateCallCount int32

	// Error injection
	InvalidateError error
}

// NewMockStatusCache creates a new mock printer status cache.
func NewMockStatusCache() *MockStatusCache {
	return &MockStatusCache{}
}

func (m *MockStatusCache) InvalidatePrinterStatus(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	return m.InvalidateError
}

// ──────────────────────────────────────────────
// MOCK SOUND PLAYER
// ──────────────────────────────────────────────

// MockSoundPlayer records which audio cues were played.
type MockSoundPlayer struct {
	CoinCallCount     int32
	PrintingCallCount int32
	CompleteCallCount int32
	ErrorCallCount    int32
}

// NewMockSoundPlayer creates a new mock sound player.
func NewMockSoundPlayer() *MockSoundPlayer {
	return &MockSoundPlayer{}
}

func (m *MockSoundPlayer) Coin()     { atomic.AddInt32(&m.CoinCallCount, 1) }
func (m *MockSoundPlayer) Printing() { atomic.AddInt32(&m.PrintingCallCount, 1) }
func (m *MockSoundPlayer) Complete() { atomic.AddInt32(&m.CompleteCallCount, 1) }
func (m *MockSoundPlayer) Error()    { atomic.AddInt32(&m.ErrorCallCount, 1) }

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockPrinterJam   = errors.New("mock: Paper jam detected in tray 1")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
