package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheWithClient(client, ttl)
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache, _ := newTestRedisCache(t, 0)
	want := testRecord("app-9")

	if err := cache.Write(ctx, "app-9", want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := cache.Read(ctx, "app-9")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.ApplicationID != "app-9" || got.Outcome != OutcomeProvider {
		t.Fatalf("record mismatch: %+v", got)
	}
}

func TestRedisCacheMiss(t *testing.T) {
	cache, _ := newTestRedisCache(t, 0)
	_, err := cache.Read(context.Background(), "missing")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCacheCorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newTestRedisCache(t, 0)
	if err := mr.Set("analysis:app-9", "{broken"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	_, err := cache.Read(context.Background(), "app-9")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected corrupt entry to read as a miss, got %v", err)
	}
}

func TestRedisCacheTTLExpiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newTestRedisCache(t, time.Minute)

	if err := cache.Write(ctx, "app-9", testRecord("app-9")); err != nil {
		t.Fatalf("write: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	_, err := cache.Read(ctx, "app-9")
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected expired entry to read as a miss, got %v", err)
	}
}
