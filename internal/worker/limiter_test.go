package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("db.example.supabase.co") {
			t.Errorf("Request %d should be allowed within burst", i+1)
		}
	}

	if limiter.Allow("db.example.supabase.co") {
		t.Error("Request beyond burst should be denied")
	}
}

func TestLimiter_IndependentHosts(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("host-a.example.com") {
		t.Error("First request to host-a should be allowed")
	}
	if !limiter.Allow("host-b.example.com") {
		t.Error("First request to host-b should be allowed despite host-a burst")
	}
	if limiter.Allow("host-a.example.com") {
		t.Error("Second immediate request to host-a should be denied")
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.1, 1)

	// Exhaust the burst
	if err := limiter.Wait(context.Background(), "slow.example.com"); err != nil {
		t.Fatalf("First wait should succeed, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "slow.example.com"); err == nil {
		t.Error("Expected wait to fail once the context deadline passed")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	limiter := NewLimiter(10, 0)

	if !limiter.Allow("any.example.com") {
		t.Error("Limiter with defaulted burst should allow the first request")
	}
}
