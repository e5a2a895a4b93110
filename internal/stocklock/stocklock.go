// Package stocklock serializes stock mutations on raw materials across API
// instances. Row locks in the database remain the source of truth; the
// distributed lock only keeps concurrent writers from piling up on them.
package stocklock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"waterlife-backoffice/internal/config"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Release frees whatever Acquire obtained. Safe to call once.
type Release func()

type Locker interface {
	// Acquire locks every raw material in ids. Errors are returned only for a
	// cancelled context; an unreachable lock backend degrades to no locking.
	Acquire(ctx context.Context, ids []uuid.UUID) (Release, error)
}

type nopLocker struct{}

// Nop returns a Locker that never locks.
func Nop() Locker { return nopLocker{} }

func (nopLocker) Acquire(ctx context.Context, _ []uuid.UUID) (Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return func() {}, nil
}

type redisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisLocker builds a Locker on top of an existing redis client.
func NewRedisLocker(rdb redislock.RedisClient, ttl time.Duration, log *zap.Logger) Locker {
	return &redisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		log:    log.Named("stocklock"),
	}
}

func key(id uuid.UUID) string {
	return fmt.Sprintf("lock:raw_material:%s", id)
}

func (l *redisLocker) Acquire(ctx context.Context, ids []uuid.UUID) (Release, error) {
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(l.ttl/(50*time.Millisecond))),
	}

	locks := make([]*redislock.Lock, 0, len(ids))
	release := func() {
		// context.Background so locks are freed even when the request was cancelled
		for i := len(locks) - 1; i >= 0; i-- {
			if err := locks[i].Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.log.Warn("release lock", zap.String("key", locks[i].Key()), zap.Error(err))
			}
		}
	}

	// ids must be sorted by the caller so every writer takes locks in the same order
	for _, id := range ids {
		lock, err := l.client.Obtain(ctx, key(id), l.ttl, opts)
		switch {
		case err == nil:
			locks = append(locks, lock)
		case ctx.Err() != nil:
			release()
			return nil, ctx.Err()
		case errors.Is(err, redislock.ErrNotObtained):
			l.log.Warn("could not obtain stock lock; proceeding with row locks only", zap.String("raw_material_id", id.String()))
		default:
			l.log.Warn("error obtaining stock lock; proceeding with row locks only", zap.String("raw_material_id", id.String()), zap.Error(err))
		}
	}
	return release, nil
}

// Connect returns a redis-backed Locker when an address is configured, and a
// no-op Locker otherwise. The redis client, when created, is returned for closing.
func Connect(ctx context.Context, cfg config.RedisConfig, lockCfg config.StockLockConfig, log *zap.Logger) (Locker, *redis.Client, error) {
	if cfg.Addr == "" {
		log.Info("redis not configured; stock locks rely on database row locks")
		return Nop(), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	log.Info("connected to redis", zap.String("addr", cfg.Addr))
	return NewRedisLocker(rdb, lockCfg.TTL, log), rdb, nil
}
