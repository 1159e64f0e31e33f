// Package db defines the key-value store abstraction used for caching
// prediction results.
package db

import (
	"context"
	"time"
)

// Store is a minimal key-value surface over Redis.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close()
}
