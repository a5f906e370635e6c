package notification

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucketRateLimiter implements token bucket rate limiting
type TokenBucketRateLimiter struct {
	capacity int
	every    time.Duration

	mu      sync.Mutex
	limiter *rate.Limiter
}

// NewTokenBucketRateLimiter allows bursts of capacity, refilling one token per refillRate.
// A zero refillRate disables limiting; a zero capacity denies everything.
func NewTokenBucketRateLimiter(capacity int, refillRate time.Duration) *TokenBucketRateLimiter {
	tb := &TokenBucketRateLimiter{
		capacity: capacity,
		every:    refillRate,
	}
	tb.limiter = tb.newLimiter()
	return tb
}

func (tb *TokenBucketRateLimiter) newLimiter() *rate.Limiter {
	limit := rate.Inf
	if tb.every > 0 {
		limit = rate.Every(tb.every)
	}
	return rate.NewLimiter(limit, tb.capacity)
}

// Allow checks if a request is allowed under the rate limit
func (tb *TokenBucketRateLimiter) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.capacity <= 0 {
		return false
	}
	return tb.limiter.Allow()
}

// Reset resets the rate limiter to full capacity
func (tb *TokenBucketRateLimiter) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.limiter = tb.newLimiter()
}
