package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"vendoprint/internal/domain"
)

// CacheStore caches expensive reads in Redis: the dashboard aggregates
// and the lpstat-derived printer status. Both are poll targets, so a
// short TTL cuts most of the load without visible staleness.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	StatsCacheTTL         = 10 * time.Second // dashboard aggregates
	PrinterStatusCacheTTL = 5 * time.Second  // lpstat shellout result
)

// Key names
const (
	statsCacheKey         = "cache:dashboard:stats"
	printerStatusCacheKey = "cache:printer:status"
)

// GetStats retrieves the cached dashboard stats. Returns nil on a miss.
func (s *CacheStore) GetStats(ctx context.Context) (*domain.Stats, error) {
	data, err := s.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var stats domain.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SetStats stores the dashboard stats.
func (s *CacheStore) SetStats(ctx context.Context, stats *domain.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statsCacheKey, data, StatsCacheTTL).Err()
}

// GetPrinterStatus retrieves the cached printer status. Returns nil on a
// miss.
func (s *CacheStore) GetPrinterStatus(ctx context.Context) (*domain.PrinterStatus, error) {
	data, err := s.client.Get(ctx, printerStatusCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var status domain.PrinterStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SetPrinterStatus stores the printer status.
func (s *CacheStore) SetPrinterStatus(ctx context.Context, status *domain.PrinterStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, printerStatusCacheKey, data, PrinterStatusCacheTTL).Err()
}

// InvalidatePrinterStatus drops the cached printer status, used when a
// job settles so the next poll sees fresh state.
func (s *CacheStore) InvalidatePrinterStatus(ctx context.Context) error {
	return s.client.Del(ctx, printerStatusCacheKey).Err()
}
