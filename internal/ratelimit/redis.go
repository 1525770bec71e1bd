package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a shared fixed-window counter backed by INCR + EXPIRE.
// The window TTL is set only on the first hit so the window resets wholesale
// at a fixed boundary rather than sliding.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a counter store over the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		panic("ratelimit: redis client required")
	}
	return &RedisStore{client: client}
}

// Incr counts a hit for key within the fixed window.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: incr %s: %w", key, err)
	}

	if count == 1 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("ratelimit: expire %s: %w", key, err)
		}
	}

	return int(count), nil
}
