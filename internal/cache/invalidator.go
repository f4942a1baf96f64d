package cache

import (
	"context"
	"log/slog"
	"time"
)

const invalidateTimeout = 2 * time.Second

// FailureRecorder counts invalidations that did not reach the cache.
type FailureRecorder interface {
	CacheInvalidationFailed()
}

// Invalidator removes cached projections after a committed mutation.
type Invalidator struct {
	store    Store
	logger   *slog.Logger
	recorder FailureRecorder
}

func NewInvalidator(store Store, logger *slog.Logger, recorder FailureRecorder) *Invalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Invalidator{store: store, logger: logger, recorder: recorder}
}

// Invalidate deletes keys. It runs detached from ctx's cancellation because the
// mutation it follows is already durable. A failure is logged and counted; the
// stale entry then lives until its TTL expires.
func (i *Invalidator) Invalidate(ctx context.Context, keys ...string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	if err := i.store.Delete(ctx, keys...); err != nil {
		i.logger.WarnContext(ctx, "cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
		if i.recorder != nil {
			i.recorder.CacheInvalidationFailed()
		}
	}
}
