package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zapponejosh/panchang-api/internal/panchang"
)

// RedisCache keeps reports in Redis with SET EX expiry.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to url and verifies the connection.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	if url == "" {
		return nil, errors.New("redis cache requires REDIS_URL")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisCacheFromClient(client), nil
}

// NewRedisCacheFromClient wraps an existing client. Close closes it.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get decodes the report stored under key.
func (c *RedisCache) Get(ctx context.Context, key string) (*panchang.Report, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var r panchang.Report
	if err := json.Unmarshal(data, &r); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return nil, false, fmt.Errorf("%w: %s: %w", ErrCorrupt, key, err)
	}
	return &r, true, nil
}

// Set stores r. The request is already encoded in key.
func (c *RedisCache) Set(ctx context.Context, key string, _ panchang.Request, r *panchang.Report, ttl time.Duration) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Health pings Redis.
func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
