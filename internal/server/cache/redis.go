// Package cache keeps resolved media descriptors so repeated GetMedia calls
// skip the database and the URL signer.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "timeline:media:"

// redisClient is the part of *redis.Client the cache needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisDescriptorCache stores descriptors as JSON with a TTL that must stay
// below the presigned URL lifetime.
type RedisDescriptorCache struct {
	rdb redisClient
	ttl time.Duration
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func NewRedisDescriptorCache(rdb redisClient, ttl time.Duration) *RedisDescriptorCache {
	return &RedisDescriptorCache{rdb: rdb, ttl: ttl}
}

func (c *RedisDescriptorCache) Connect(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get reports a miss as (nil, false, nil).
func (c *RedisDescriptorCache) Get(ctx context.Context, id string) (*gatewayapi.Media, bool, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var m gatewayapi.Media
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("decode descriptor: %w", err)
	}
	return &m, true, nil
}

func (c *RedisDescriptorCache) Set(ctx context.Context, m *gatewayapi.Media) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	if err := c.rdb.Set(ctx, keyPrefix+m.ID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisDescriptorCache) Close() error {
	return c.rdb.Close()
}

// NopCache always misses. It stands in when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*gatewayapi.Media, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, *gatewayapi.Media) error                { return nil }
func (NopCache) Close() error                                                 { return nil }
