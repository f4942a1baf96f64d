package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// LookupRecorder observes cache hits and misses.
type LookupRecorder interface {
	CacheLookup(cache string, hit bool)
}

// ViewCache is a JSON-backed cache for one read projection type T.
type ViewCache[T any] struct {
	name     string
	store    Store
	ttl      time.Duration
	logger   *slog.Logger
	recorder LookupRecorder
}

func NewViewCache[T any](name string, store Store, ttl time.Duration, logger *slog.Logger, recorder LookupRecorder) *ViewCache[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewCache[T]{name: name, store: store, ttl: ttl, logger: logger, recorder: recorder}
}

// Get returns (nil, false) on a miss, a backend error or a value that no longer
// decodes; the caller then falls back to the database.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.WarnContext(ctx, "cache read failed", slog.String("cache", c.name), slog.String("key", key), slog.String("error", err.Error()))
		}
		c.observe(false)
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		c.logger.WarnContext(ctx, "cache entry undecodable", slog.String("cache", c.name), slog.String("key", key), slog.String("error", err.Error()))
		c.observe(false)
		return nil, false
	}
	c.observe(true)
	return &v, true
}

// Set stores value under key. Failures are logged, not returned: a failed cache
// write never fails the read that triggered it.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WarnContext(ctx, "cache marshal failed", slog.String("cache", c.name), slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", slog.String("cache", c.name), slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *ViewCache[T]) observe(hit bool) {
	if c.recorder != nil {
		c.recorder.CacheLookup(c.name, hit)
	}
}
