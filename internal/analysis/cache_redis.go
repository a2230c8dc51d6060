package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps analysis records in Redis under analysis:<appID>.
// Intended for deployments that already run Redis next to the service; the
// object-store cache remains the durable default.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies connectivity.
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

// NewRedisCacheWithClient wraps an existing client. Used in tests.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Read loads the cached record for an application.
func (c *RedisCache) Read(ctx context.Context, applicationID string) (Record, error) {
	raw, err := c.client.Get(ctx, cacheKey(applicationID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrCacheMiss
		}
		return Record{}, fmt.Errorf("analysis cache read app=%s: %w", applicationID, err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, ErrCacheMiss
	}
	rec.Result.Normalize()
	return rec, nil
}

// Write stores the record, overwriting any previous entry.
func (c *RedisCache) Write(ctx context.Context, applicationID string, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("analysis cache marshal app=%s: %w", applicationID, err)
	}
	if err := c.client.Set(ctx, cacheKey(applicationID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("analysis cache write app=%s: %w", applicationID, err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func cacheKey(applicationID string) string {
	return "analysis:" + applicationID
}

var _ Cache = (*RedisCache)(nil)
