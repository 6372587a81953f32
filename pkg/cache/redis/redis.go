package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentport/jobsync/pkg/cache"
)

// Cache is a Redis-backed cache.Cache. Hit/miss counters are tracked locally
// per instance; size comes from DBSize, so the instance should own its
// logical database.
type Cache struct {
	client *redis.Client
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func New(opts cache.Options) (*Cache, error) {
	redisOpts, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis cache: parse url: %w", err)
	}

	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = cache.DefaultOptions().DefaultTTL
	}

	return &Cache{
		client: redis.NewClient(redisOpts),
		ttl:    ttl,
	}, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return cache.ErrInvalidValue
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, key string, value any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.misses.Add(1)
		return cache.ErrNotFound
	}
	if err != nil {
		return err
	}

	c.hits.Add(1)
	if err := json.Unmarshal(data, value); err != nil {
		return cache.ErrInvalidValue
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Clear(ctx context.Context) error {
	return c.client.FlushDB(ctx).Err()
}

func (c *Cache) Stats(ctx context.Context) (cache.Stats, error) {
	size, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return cache.Stats{}, err
	}
	return cache.Stats{
		Size:      int(size),
		HitCount:  c.hits.Load(),
		MissCount: c.misses.Load(),
	}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

var _ cache.Cache = (*Cache)(nil)
