// Package redis caches directory reads from another source in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/storage"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long cached directory reads stay fresh.
	DefaultTTL = 10 * time.Minute

	keyPrefix   = "concierge:directory:"
	keyAll      = keyPrefix + "all"
	keyCategory = keyPrefix + "cat:"
)

// CachedSource is a read-through cache in front of another Source. Cache
// errors never fail a read; they fall through to the wrapped source.
type CachedSource struct {
	inner  storage.Source
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

var _ storage.Source = (*CachedSource)(nil)

// Option configures a CachedSource.
type Option func(*CachedSource) error

// WithTTL sets the cache entry lifetime. Default is 10 minutes.
func WithTTL(ttl time.Duration) Option {
	return func(c *CachedSource) error {
		if ttl <= 0 {
			return fmt.Errorf("cache ttl must be positive, got %s", ttl)
		}
		c.ttl = ttl
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedSource) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// Connect opens a client for addr and checks it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// NewCachedSource wraps inner with a cache stored through rdb.
func NewCachedSource(inner storage.Source, rdb redis.Cmdable, opts ...Option) (*CachedSource, error) {
	if inner == nil {
		return nil, storage.ErrNoSources
	}
	if rdb == nil {
		return nil, errors.New("redis client required")
	}
	c := &CachedSource{inner: inner, rdb: rdb, ttl: DefaultTTL, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "directory-cache")
	return c, nil
}

// Name implements storage.Source.
func (c *CachedSource) Name() string {
	return "redis(" + c.inner.Name() + ")"
}

// FetchCategory implements storage.Source.
func (c *CachedSource) FetchCategory(ctx context.Context, category core.Category) ([]core.Record, error) {
	return c.readThrough(ctx, keyCategory+string(category), func() ([]core.Record, error) {
		return c.inner.FetchCategory(ctx, category)
	})
}

// FetchAll implements storage.Source.
func (c *CachedSource) FetchAll(ctx context.Context) ([]core.Record, error) {
	return c.readThrough(ctx, keyAll, func() ([]core.Record, error) {
		return c.inner.FetchAll(ctx)
	})
}

// Invalidate drops every cached directory read.
func (c *CachedSource) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (c *CachedSource) readThrough(ctx context.Context, key string, load func() ([]core.Record, error)) ([]core.Record, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		records, decodeErr := storage.UnmarshalRecords(data)
		if decodeErr == nil {
			c.logger.Debug("cache hit", "key", key, "count", len(records))
			return records, nil
		}
		c.logger.Warn("dropping undecodable cache entry", "key", key, "err", decodeErr)
	case errors.Is(err, redis.Nil):
		c.logger.Debug("cache miss", "key", key)
	default:
		c.logger.Warn("cache read failed", "key", key, "err", err)
	}

	records, err := load()
	if err != nil {
		return nil, err
	}
	// Empty answers are not cached so a later fallback source gets its turn.
	if len(records) > 0 {
		if err := c.rdb.Set(ctx, key, storage.MarshalRecords(records), c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return records, nil
}
