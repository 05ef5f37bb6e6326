package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisLockTTL     = 30 * time.Second
	redisLockBackoff = 100 * time.Millisecond
	releaseTimeout   = 5 * time.Second
)

// RedisLocker shares the lock between several server instances.
type RedisLocker struct {
	rdb    *redis.Client
	client *redislock.Client
	logger *zap.Logger
}

// NewRedisLocker connects to addr and verifies the connection.
func NewRedisLocker(ctx context.Context, addr string, logger *zap.Logger) (*RedisLocker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return &RedisLocker{rdb: rdb, client: redislock.New(rdb), logger: logger}, nil
}

// Acquire retries with a linear backoff until the lock is obtained or ctx is done.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	lk, err := l.client.Obtain(ctx, lockKey, redisLockTTL, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(redisLockBackoff),
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, errors.Join(ErrNotObtained, err)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain %s: %w", lockKey, err)
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release lock", zap.String("key", lockKey), zap.Error(err))
		}
	}, nil
}

// Close releases the underlying redis connection pool.
func (l *RedisLocker) Close() error {
	return l.rdb.Close()
}
