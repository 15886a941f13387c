// Package cache connects the Redis instance backing idempotency keys.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// OpenRedis connects and pings. An empty address returns a nil client,
// which the HTTP server reads as "idempotency disabled".
func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	if o.Addr == "" {
		return nil, nil
	}
	r := redis.NewClient(&redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", o.Addr, err)
	}
	return r, nil
}
