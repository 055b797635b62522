package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const urlKeyPrefix = "orgdrive:download_url:"

// RedisURLCache caches signed download URLs until shortly before they expire.
type RedisURLCache struct {
	rdb *redis.Client
}

func NewRedisURLCache(ctx context.Context, redisURL string) (*RedisURLCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisURLCache{rdb: rdb}, nil
}

func (c *RedisURLCache) GetURL(ctx context.Context, ref string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, urlKey(ref)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisURLCache) SetURL(ctx context.Context, ref, url string, ttl time.Duration) error {
	return c.rdb.Set(ctx, urlKey(ref), url, ttl).Err()
}

func (c *RedisURLCache) DeleteURL(ctx context.Context, ref string) error {
	return c.rdb.Del(ctx, urlKey(ref)).Err()
}

func (c *RedisURLCache) Close() error {
	return c.rdb.Close()
}

func urlKey(ref string) string {
	return urlKeyPrefix + ref
}
