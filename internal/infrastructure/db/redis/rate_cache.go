package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kursownik/api/internal/core/domain"
)

// RateCache keeps the latest rate per currency as JSON.
// Key format: rate:latest:<CURRENCY>
type RateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRateCache stores entries for ttl; a non-positive ttl keeps them until overwritten.
func NewRateCache(client *redis.Client, ttl time.Duration) *RateCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RateCache{client: client, ttl: ttl}
}

func (c *RateCache) Get(ctx context.Context, currency string) (*domain.Rate, bool, error) {
	raw, err := c.client.Get(ctx, c.key(currency)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("rate cache get: %w", err)
	}

	var r domain.Rate
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, false, fmt.Errorf("rate cache decode: %w", err)
	}
	return &r, true, nil
}

func (c *RateCache) Set(ctx context.Context, r *domain.Rate) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("rate cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(r.Currency), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("rate cache set: %w", err)
	}
	return nil
}

func (c *RateCache) key(currency string) string {
	return "rate:latest:" + strings.ToUpper(currency)
}
