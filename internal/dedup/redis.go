package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/DigitalGarageMVP/ifmvp-backend/internal/config"
)

const keyPrefix = "dedup:event:"

// RedisGuard is a Guard backed by redis SET NX with a bounded TTL. When
// FailOpen is set, redis outages are logged and events pass through
// undeduplicated rather than stalling the pipeline.
type RedisGuard struct {
	client   *redis.Client
	ttl      time.Duration
	failOpen bool
	log      *zap.Logger
}

// NewRedisGuard connects to redis and returns a guard with the configured
// retention window
func NewRedisGuard(ctx context.Context, cfg config.Redis, ttl time.Duration, failOpen bool, log *zap.Logger) (*RedisGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Dedup guard connected to redis",
		zap.String("addr", cfg.Addr),
		zap.Duration("ttl", ttl),
		zap.Bool("fail_open", failOpen))

	return &RedisGuard{
		client:   client,
		ttl:      ttl,
		failOpen: failOpen,
		log:      log,
	}, nil
}

// FirstSighting claims the event id atomically. SET NX succeeds exactly
// once per key within the TTL window.
func (g *RedisGuard) FirstSighting(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return true, nil
	}

	ok, err := g.client.SetNX(ctx, keyPrefix+eventID, 1, g.ttl).Result()
	if err != nil {
		if g.failOpen {
			g.log.Warn("Dedup guard unavailable, failing open",
				zap.String("event_id", eventID),
				zap.Error(err))
			return true, nil
		}
		return false, fmt.Errorf("dedup check failed: %w", err)
	}

	return ok, nil
}

// Release deletes the claim so the next sighting of the id passes again
func (g *RedisGuard) Release(ctx context.Context, eventID string) error {
	if eventID == "" {
		return nil
	}

	if err := g.client.Del(ctx, keyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("dedup release failed: %w", err)
	}
	return nil
}

// Close closes the redis connection
func (g *RedisGuard) Close() error {
	return g.client.Close()
}
