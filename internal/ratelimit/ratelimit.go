// Package ratelimit throttles calls to model providers.
// It uses a token bucket with a backoff window set after HTTP 429 responses.
package ratelimit

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRetryAfter is the backoff used when a 429 carries no Retry-After.
const DefaultRetryAfter = 20 * time.Second

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit. Zero or less disables limiting.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// Limiter rate-limits requests to one provider.
// A nil *Limiter never blocks.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// New creates a limiter. It returns nil when limiting is disabled.
func New(cfg Config) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = int(cfg.RequestsPerSecond)
		if cfg.BurstSize < 1 {
			cfg.BurstSize = 1
		}
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
// It also respects any backoff period set by RecordRateLimit.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// RecordRateLimit sets a backoff period after a 429 response.
func (l *Limiter) RecordRateLimit(retryAfter time.Duration) {
	if l == nil {
		return
	}
	if retryAfter <= 0 {
		retryAfter = DefaultRetryAfter
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if at := time.Now().Add(retryAfter); at.After(l.retryAt) {
		l.retryAt = at
	}
}

// Allow reports whether a request can be made immediately.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return l.limiter.Allow()
}

// RetryAfter parses the Retry-After header (seconds form) of a response.
// It returns zero when absent or unparsable.
func RetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
