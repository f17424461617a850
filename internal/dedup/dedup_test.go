package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// unreachableClient dials a closed loopback port so every command fails
// with a connection error.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestDisabled_EverySightingIsFirst(t *testing.T) {
	guard := Disabled{}

	for i := 0; i < 3; i++ {
		first, err := guard.FirstSighting(context.Background(), "event-1")
		assert.NoError(t, err)
		assert.True(t, first)
	}

	assert.NoError(t, guard.Release(context.Background(), "event-1"))
}

func TestRedisGuard_EmptyEventIDSkipsLookup(t *testing.T) {
	guard := &RedisGuard{
		client:   nil,
		ttl:      time.Hour,
		failOpen: false,
		log:      zap.NewNop(),
	}

	first, err := guard.FirstSighting(context.Background(), "")

	assert.NoError(t, err)
	assert.True(t, first)
}

func TestRedisGuard_ReleaseEmptyEventIDSkipsLookup(t *testing.T) {
	guard := &RedisGuard{
		client:   nil,
		ttl:      time.Hour,
		failOpen: false,
		log:      zap.NewNop(),
	}

	assert.NoError(t, guard.Release(context.Background(), ""))
}

func TestRedisGuard_ReleaseSurfacesConnectionError(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	guard := &RedisGuard{
		client:   client,
		ttl:      time.Hour,
		failOpen: true,
		log:      zap.NewNop(),
	}

	err := guard.Release(context.Background(), "event-1")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "dedup release failed")
}

func TestRedisGuard_FailOpenPassesEventThrough(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	guard := &RedisGuard{
		client:   client,
		ttl:      time.Hour,
		failOpen: true,
		log:      zap.NewNop(),
	}

	first, err := guard.FirstSighting(context.Background(), "event-1")

	assert.NoError(t, err)
	assert.True(t, first)
}

func TestRedisGuard_FailClosedReturnsError(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	guard := &RedisGuard{
		client:   client,
		ttl:      time.Hour,
		failOpen: false,
		log:      zap.NewNop(),
	}

	first, err := guard.FirstSighting(context.Background(), "event-1")

	assert.Error(t, err)
	assert.False(t, first)
	assert.Contains(t, err.Error(), "dedup check failed")
}
