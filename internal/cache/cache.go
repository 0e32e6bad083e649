// Package cache holds the read-through cache in front of the public list endpoints.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"log/slog"
)

// ErrMiss is returned by Store.Get when the key is absent.
var ErrMiss = errors.New("cache: miss")

// Store is a byte-oriented key/value cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// Nop never stores anything. It is used when no cache backend is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error)              { return nil, ErrMiss }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Incr(context.Context, string) (int64, error)              { return 0, nil }

// Collection caches one JSON-encoded value under a fixed key.
// Entries are stored per generation; Invalidate bumps the generation so a
// fill that raced with it lands on a key no reader uses.
// Backend failures are logged and the loader is used instead.
type Collection[T any] struct {
	store  Store
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewCollection builds a Collection. A nil store disables caching.
func NewCollection[T any](store Store, key string, ttl time.Duration, logger *slog.Logger) *Collection[T] {
	if store == nil {
		store = Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[T]{store: store, key: key, ttl: ttl, logger: logger}
}

// Load returns the cached value or calls fill and caches its result.
func (c *Collection[T]) Load(ctx context.Context, fill func(context.Context) (T, error)) (T, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		c.logger.Warn("cache generation read failed", "key", c.key, "error", err)
		return fill(ctx)
	}
	key := c.key + ":" + strconv.FormatInt(gen, 10)

	raw, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if err := json.Unmarshal(raw, &value); err == nil {
			return value, nil
		}
		c.logger.Warn("cache entry undecodable", "key", key)
	case !errors.Is(err, ErrMiss):
		c.logger.Warn("cache get failed", "key", key, "error", err)
	}

	value, err := fill(ctx)
	if err != nil {
		return value, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return value, nil
	}
	if err := c.store.Set(ctx, key, encoded, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
	return value, nil
}

// Invalidate retires the current entry by advancing the generation.
func (c *Collection[T]) Invalidate(ctx context.Context) {
	if _, err := c.store.Incr(ctx, c.genKey()); err != nil {
		c.logger.Warn("cache invalidate failed", "key", c.key, "error", err)
	}
}

func (c *Collection[T]) genKey() string {
	return c.key + ":gen"
}

func (c *Collection[T]) generation(ctx context.Context) (int64, error) {
	raw, err := c.store.Get(ctx, c.genKey())
	if errors.Is(err, ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}
