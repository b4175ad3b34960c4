package rate

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "agrl:"

// RedisStore keeps fixed-window counters in Redis so replicas share one
// budget per identifier. The window is the key's TTL: INCR advances the
// counter, the first increment arms the expiry, and the remaining TTL is
// the retry hint.
type RedisStore struct {
	redis redis.UniversalClient
}

// NewRedisStore wraps the given Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{redis: client}
}

// Incr implements Store.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	k := redisKeyPrefix + key

	count, err := s.redis.Incr(ctx, k).Result()
	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		if err := s.redis.Expire(ctx, k, window).Err(); err != nil {
			return 0, 0, err
		}
		return count, window, nil
	}

	ttl, err := s.redis.TTL(ctx, k).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// Counter survived without an expiry (lost EXPIRE); re-arm so the
		// window cannot become permanent.
		if err := s.redis.Expire(ctx, k, window).Err(); err != nil {
			return 0, 0, err
		}
		ttl = window
	}

	return count, ttl, nil
}
