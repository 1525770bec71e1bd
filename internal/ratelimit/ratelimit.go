// Package ratelimit provides fixed-window request counting keyed by client IP.
package ratelimit

import (
	"context"
	"time"

	"github.com/editmelo/studio-platform/pkg/logging"
)

// Store counts hits per key within a fixed window. The returned count includes
// the current hit, so the first call for a fresh key returns 1.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

// Limiter applies a fixed-window limit over a namespaced Store.
type Limiter struct {
	store     Store
	namespace string
	max       int
	window    time.Duration
	logger    *logging.Logger
}

// New creates a limiter allowing max hits per window for each key.
func New(store Store, namespace string, max int, window time.Duration, logger *logging.Logger) *Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Limiter{
		store:     store,
		namespace: namespace,
		max:       max,
		window:    window,
		logger:    logger,
	}
}

// Allow reports whether the key is still within its window budget. Store
// failures fail open: blocking legitimate traffic on a counter outage is
// worse than admitting a few extra requests.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.store.Incr(ctx, l.namespace+":"+key, l.window)
	if err != nil {
		l.logger.Error("rate limit store unavailable, failing open", "error", err, "namespace", l.namespace)
		return true
	}
	if count > l.max {
		l.logger.Warn("rate limit exceeded",
			"namespace", l.namespace,
			"key", key,
			"count", count,
			"max", l.max,
		)
		return false
	}
	return true
}
