package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedisStoreCountsWithinWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, remaining, err := store.Incr(ctx, "login:1.2.3.4", time.Minute)
		if err != nil {
			t.Fatalf("incr: %v", err)
		}
		if count != want {
			t.Fatalf("count = %d, want %d", count, want)
		}
		if remaining <= 0 || remaining > time.Minute {
			t.Fatalf("remaining = %v, want within (0, 1m]", remaining)
		}
	}
}

func TestRedisStoreWindowExpiry(t *testing.T) {
	client, mr := newTestRedis(t)
	limiter := NewLimiter(NewRedisStore(client))
	preset := Preset{Limit: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		dec, err := limiter.Check(ctx, "login", "5.6.7.8", preset)
		if err != nil {
			t.Fatal(err)
		}
		if !dec.Allowed {
			t.Fatalf("check %d: expected allowed", i)
		}
	}

	dec, err := limiter.Check(ctx, "login", "5.6.7.8", preset)
	if err != nil {
		t.Fatal(err)
	}
	if dec.Allowed {
		t.Fatal("expected denial over limit")
	}
	if dec.RetryAfterSeconds() < 1 {
		t.Fatalf("retry after = %d, want >= 1", dec.RetryAfterSeconds())
	}

	mr.FastForward(time.Minute + time.Second)

	dec, err = limiter.Check(ctx, "login", "5.6.7.8", preset)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Allowed {
		t.Fatal("expected allowance after window expiry")
	}
}

func TestRedisStoreHealsMissingTTL(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewRedisStore(client)
	ctx := context.Background()

	if _, _, err := store.Incr(ctx, "login:ttl", time.Minute); err != nil {
		t.Fatal(err)
	}
	// Simulate a counter that lost its expiry.
	if err := client.Persist(ctx, redisKeyPrefix+"login:ttl").Err(); err != nil {
		t.Fatal(err)
	}

	_, remaining, err := store.Incr(ctx, "login:ttl", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if remaining != time.Minute {
		t.Fatalf("remaining = %v, want re-armed full window", remaining)
	}
	ttl := client.TTL(ctx, redisKeyPrefix+"login:ttl").Val()
	if ttl <= 0 {
		t.Fatalf("ttl = %v, want positive after healing", ttl)
	}
}
