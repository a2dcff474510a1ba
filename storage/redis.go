package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const reportKeyPrefix = "report:"

// RedisCache keeps report results as JSON for TTL
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) ReportKey(name string) string {
	return reportKeyPrefix + name
}

// Get decodes the cached value into dst and reports whether it was found
func (c *RedisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.Client.Get(ctx, c.ReportKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.ReportKey(key), payload, c.TTL).Err()
}

// Invalidate drops every cached report
func (c *RedisCache) Invalidate(ctx context.Context) error {
	var keys []string
	iter := c.Client.Scan(ctx, 0, reportKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.Client.Del(ctx, keys...).Err()
}
