// Package cache provides the idempotency stores that stop a retried
// invoice submission from creating a second invoice.
package cache

import (
	"context"
	"time"

	"github.com/billmaster/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStore claims and releases request keys
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Close() error
}

var (
	_ IdempotencyStore = (*RedisIdempotencyStore)(nil)
	_ IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
)

// NewIdempotencyStore returns a Redis store when Redis is enabled and
// reachable, otherwise an in-memory store. A Redis failure is logged, not
// returned, so a single-node shop keeps billing while Redis is down.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) IdempotencyStore {
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(0)
	}
	client, err := NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
		return NewInMemoryIdempotencyStore(0)
	}
	logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()))
	return NewRedisIdempotencyStore(client, "")
}
