// Package redis backs the ephemeral stores: per-user carts and the
// event dedup window.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config selects the Redis instance and logical database.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect opens a client and fails fast when the server is unreachable,
// so a bad address surfaces at startup rather than on the first cart read.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = pingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
