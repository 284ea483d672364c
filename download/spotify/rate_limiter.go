package spotify

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a sliding window rate limiter. It is applied
// before every outbound API call so bursts of collection expansions stay
// under the limit instead of triggering 429 responses.
type RateLimiter struct {
	mu           sync.Mutex
	requestTimes []time.Time
	maxRequests  int
	windowSize   time.Duration
	enabled      bool
}

// NewRateLimiter creates a rate limiter allowing maxRequests per
// windowSeconds.
func NewRateLimiter(enabled bool, maxRequests int, windowSeconds float64) *RateLimiter {
	return &RateLimiter{
		requestTimes: make([]time.Time, 0),
		maxRequests:  maxRequests,
		windowSize:   time.Duration(windowSeconds * float64(time.Second)),
		enabled:      enabled,
	}
}

// WaitIfNeeded blocks until a request can be made without exceeding the
// window, respecting context cancellation.
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	if !rl.enabled {
		return nil
	}

	for {
		rl.mu.Lock()
		now := time.Now()
		windowStart := now.Add(-rl.windowSize)

		valid := rl.requestTimes[:0]
		for _, t := range rl.requestTimes {
			if t.After(windowStart) {
				valid = append(valid, t)
			}
		}
		rl.requestTimes = valid

		if len(rl.requestTimes) < rl.maxRequests {
			rl.requestTimes = append(rl.requestTimes, now)
			rl.mu.Unlock()
			return nil
		}

		oldest := rl.requestTimes[0]
		waitTime := rl.windowSize - now.Sub(oldest)
		rl.mu.Unlock()

		if waitTime <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
}
