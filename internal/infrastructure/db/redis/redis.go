// Package redis holds the Redis adapters: the latest-rate cache and the
// per-purchase lock.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPingTimeout = 5 * time.Second
	defaultOpTimeout   = 3 * time.Second
)

// Config mirrors config.RedisConfig.
type Config struct {
	Addr     string
	Password string
	DB       int
	// PoolSize of zero keeps the go-redis default (10 per CPU).
	PoolSize int
	// OpTimeout bounds every read and write; PingTimeout bounds the
	// startup check.
	OpTimeout   time.Duration
	PingTimeout time.Duration
}

func (c Config) options() *redis.Options {
	op := c.OpTimeout
	if op <= 0 {
		op = defaultOpTimeout
	}
	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		ReadTimeout:  op,
		WriteTimeout: op,
	}
}

// Connect builds the client and refuses to return it until Redis answers PING.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	wait := cfg.PingTimeout
	if wait <= 0 {
		wait = defaultPingTimeout
	}

	client := redis.NewClient(cfg.options())

	pingCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s db=%d: %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}
