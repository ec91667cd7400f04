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
	"testing"
	"time"
)

func TestRateLimiter_FirstRequestImmediate(t *testing.T) {
	limiter := NewRateLimiter(time.Second)

	start := time.Now()
	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first request should not wait, took %v", elapsed)
	}
}

func TestRateLimiter_SecondRequestWaits(t *testing.T) {
	limiter := NewRateLimiter(50 * time.Millisecond)

	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}

	start := time.Now()
	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("second request should wait out the interval, took %v", elapsed)
	}
}

func TestRateLimiter_SessionsDoNotBlockEachOther(t *testing.T) {
	limiter := NewRateLimiter(time.Second)

	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}

	start := time.Now()
	if err := limiter.Throttle(context.Background(), "s2"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("a different session should not wait, took %v", elapsed)
	}
}

func TestRateLimiter_ContextCanceled(t *testing.T) {
	limiter := NewRateLimiter(time.Minute)

	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Throttle(ctx, "s1")
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if err != context.DeadlineExceeded {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestRateLimiter_CanceledWaitDoesNotRecord(t *testing.T) {
	limiter := NewRateLimiter(time.Second)
	base := time.Unix(1000, 0)
	limiter.now = func() time.Time { return base }

	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}

	// Half the interval later, a request arrives with an already-canceled
	// context and gives up while waiting.
	limiter.now = func() time.Time { return base.Add(500 * time.Millisecond) }
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Throttle(ctx, "s1"); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The canceled request must not push the window out: the window still
	// runs from the first request, so once the full interval has elapsed
	// the next request proceeds at once.
	limiter.now = func() time.Time { return base.Add(time.Second) }
	start := time.Now()
	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("request after the interval should not wait, took %v", elapsed)
	}
}

func TestRateLimiter_DisabledInterval(t *testing.T) {
	limiter := NewRateLimiter(0)

	for i := 0; i < 5; i++ {
		if err := limiter.Throttle(context.Background(), "s1"); err != nil {
			t.Fatalf("Throttle failed: %v", err)
		}
	}
}

func TestRateLimiter_Forget(t *testing.T) {
	limiter := NewRateLimiter(time.Second)

	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}
	limiter.Forget("s1")

	start := time.Now()
	if err := limiter.Throttle(context.Background(), "s1"); err != nil {
		t.Fatalf("Throttle failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("forgotten session should not wait, took %v", elapsed)
	}
}
