package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pulseapp/pulse-backend/internal/config"
)

// Client wraps the redis client with the small set of operations the
// services need: JSON-ish string caching with TTL and integer counters.
type Client struct {
	inner *redis.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		inner: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       0,
		}),
	}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.inner.Ping(ctx).Err()
}

func (c *Client) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.inner.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.inner.Set(ctx, key, value, ttl).Err()
}

func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.inner.Del(ctx, keys...).Err()
}

func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.inner.Incr(ctx, key).Result()
}

func (c *Client) Decr(ctx context.Context, key string) (int64, error) {
	return c.inner.Decr(ctx, key).Result()
}

func (c *Client) GetInt(ctx context.Context, key string) (int64, bool) {
	val, err := c.inner.Get(ctx, key).Int64()
	if err != nil {
		return 0, false
	}
	return val, true
}

func (c *Client) Close() error {
	return c.inner.Close()
}
