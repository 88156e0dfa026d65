package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RateLimitStore counts hits per key within a fixed window.
type RateLimitStore interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)
}

type rateLimitRecorder interface {
	RateLimitRejected(endpoint string)
	RateLimitStoreError()
}

// RateDecision is the outcome of a single rate limit check.
type RateDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RetryAfter returns the whole seconds until the window resets, never negative.
func (d RateDecision) RetryAfter(now time.Time) int64 {
	wait := d.Reset.Sub(now)
	if wait <= 0 {
		return 0
	}
	secs := int64(wait / time.Second)
	if wait%time.Second != 0 {
		secs++
	}
	return secs
}

// RateLimiter applies fixed-window limits keyed by client and endpoint.
type RateLimiter struct {
	store   RateLimitStore
	window  time.Duration
	logger  *zap.Logger
	metrics rateLimitRecorder
	now     func() time.Time
}

// NewRateLimiter constructs a RateLimiter. A nil metrics recorder is allowed.
func NewRateLimiter(store RateLimitStore, window time.Duration, logger *zap.Logger, metrics *MetricsService) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	limiter := &RateLimiter{store: store, window: window, logger: logger, now: time.Now}
	if metrics != nil {
		limiter.metrics = metrics
	}
	return limiter
}

// Allow counts one request from identifier against endpoint. Store failures let the request through.
func (l *RateLimiter) Allow(ctx context.Context, identifier, endpoint string, limit int) RateDecision {
	now := l.now()
	count, ttl, err := l.store.Increment(ctx, identifier+":"+endpoint, l.window)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, allowing request",
			zap.String("endpoint", endpoint), zap.Error(err))
		if l.metrics != nil {
			l.metrics.RateLimitStoreError()
		}
		return RateDecision{Allowed: true, Limit: limit, Remaining: limit, Reset: now.Add(l.window)}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	decision := RateDecision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		Reset:     now.Add(ttl),
	}
	if !decision.Allowed {
		l.logger.Warn("rate limit exceeded",
			zap.String("identifier", identifier), zap.String("endpoint", endpoint), zap.Int64("count", count))
		if l.metrics != nil {
			l.metrics.RateLimitRejected(endpoint)
		}
	}
	return decision
}

// Now exposes the limiter clock so responses compute Retry-After from the same instant.
func (l *RateLimiter) Now() time.Time {
	return l.now()
}
