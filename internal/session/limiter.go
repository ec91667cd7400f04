//-------------------------------------------------------------------------
//
// TourChat Server
//
// Copyright (c) 2025 - 2026, the TourChat authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

package session

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between requests per session.
// A session that arrives too soon waits out the remainder of the interval
// instead of being rejected. Sessions never delay each other.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewRateLimiter creates a rate limiter with the given minimum interval.
// A zero or negative interval disables throttling.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Throttle blocks until the session is allowed to proceed, then records the
// request time. It returns early with the context's error if the context is
// canceled while waiting. The internal lock is held only to read and update
// the timestamp map, never across the wait.
func (r *RateLimiter) Throttle(ctx context.Context, sessionID string) error {
	if r.interval <= 0 {
		return nil
	}

	r.mu.Lock()
	last, seen := r.lastSeen[sessionID]
	now := r.now()
	var wait time.Duration
	if seen {
		if elapsed := now.Sub(last); elapsed < r.interval {
			wait = r.interval - elapsed
		}
	}
	if wait == 0 {
		r.lastSeen[sessionID] = now
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	r.mu.Lock()
	r.lastSeen[sessionID] = r.now()
	r.mu.Unlock()
	return nil
}

// Forget drops the rate limit record for a session, typically when the
// session itself is cleared.
func (r *RateLimiter) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.lastSeen, sessionID)
	r.mu.Unlock()
}
