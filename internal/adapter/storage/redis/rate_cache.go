package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const rateKey = "rates:current"

// RateCache implements ports.RateCache using Redis. The whole conversion
// table is stored under one key as a JSON object; rates are always read
// and replaced together.
type RateCache struct {
	client *goredis.Client
}

// NewRateCache creates a new Redis-backed rate cache.
func NewRateCache(client *goredis.Client) *RateCache {
	return &RateCache{client: client}
}

// GetAll retrieves the cached conversion table.
// Returns nil, nil on a cache miss.
func (c *RateCache) GetAll(ctx context.Context) (map[string]decimal.Decimal, error) {
	val, err := c.client.Get(ctx, rateKey).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis rates get: %w", err)
	}

	var rates map[string]decimal.Decimal
	if err := json.Unmarshal(val, &rates); err != nil {
		return nil, fmt.Errorf("redis rates decode: %w", err)
	}
	return rates, nil
}

// SetAll stores the conversion table with TTL.
func (c *RateCache) SetAll(ctx context.Context, rates map[string]decimal.Decimal, ttl time.Duration) error {
	val, err := json.Marshal(rates)
	if err != nil {
		return fmt.Errorf("redis rates encode: %w", err)
	}
	if err := c.client.Set(ctx, rateKey, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis rates set: %w", err)
	}
	return nil
}
