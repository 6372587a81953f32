package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrClosed       = errors.New("cache is closed")
)

// Stats describes the observable state of a cache instance.
type Stats struct {
	Size      int   `json:"size"`
	HitCount  int64 `json:"hitCount"`
	MissCount int64 `json:"missCount"`
}

// Cache is a key/value store with per-entry expiry. Implementations carry no
// knowledge of what they hold; values round-trip through JSON so in-process
// and externally backed implementations behave the same.
type Cache interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// Get unmarshals the cached entry into value. Returns ErrNotFound on a
	// miss or an expired entry.
	Get(ctx context.Context, key string, value any) error

	Delete(ctx context.Context, key string) error

	Clear(ctx context.Context) error

	Stats(ctx context.Context) (Stats, error)

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	CleanupInterval time.Duration

	RedisURL string
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute * 5,
	}
}
