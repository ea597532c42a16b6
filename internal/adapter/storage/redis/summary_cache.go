package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wager-ledger-analytics/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const summaryKey = "runs:latest"

// SummaryCache implements ports.SummaryCache using Redis. It holds the
// latest completed run summary so the report API can answer without a
// database round trip.
type SummaryCache struct {
	client *goredis.Client
}

// NewSummaryCache creates a new Redis-backed summary cache.
func NewSummaryCache(client *goredis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

// Get retrieves the cached latest run summary.
// Returns nil, nil on a cache miss.
func (c *SummaryCache) Get(ctx context.Context) (*domain.RunSummary, error) {
	val, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis summary get: %w", err)
	}

	var summary domain.RunSummary
	if err := json.Unmarshal(val, &summary); err != nil {
		return nil, fmt.Errorf("redis summary decode: %w", err)
	}
	return &summary, nil
}

// Set stores the latest run summary with TTL.
func (c *SummaryCache) Set(ctx context.Context, summary *domain.RunSummary, ttl time.Duration) error {
	val, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("redis summary encode: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis summary set: %w", err)
	}
	return nil
}
