package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int) *RateLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, RateLimitConfig{APILimit: limit, APIWindow: 60 * time.Second})
}

func TestAllowAPICall_ExhaustsWindow(t *testing.T) {
	limiter := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.AllowAPICall(ctx, "key-1")
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if !result.Allowed {
			t.Fatalf("call %d should be allowed", i)
		}
		if result.Remaining != 3-i-1 {
			t.Fatalf("call %d: expected remaining %d, got %d", i, 3-i-1, result.Remaining)
		}
	}

	result, err := limiter.AllowAPICall(ctx, "key-1")
	if err != nil {
		t.Fatalf("over-limit call: %v", err)
	}
	if result.Allowed {
		t.Fatalf("expected the fourth call to be denied")
	}
	if result.Remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", result.Remaining)
	}
}

func TestAllowAPICall_PrincipalsAreIsolated(t *testing.T) {
	limiter := newTestLimiter(t, 1)
	ctx := context.Background()

	if result, err := limiter.AllowAPICall(ctx, "alice"); err != nil || !result.Allowed {
		t.Fatalf("alice first call: allowed=%v err=%v", result != nil && result.Allowed, err)
	}
	if result, err := limiter.AllowAPICall(ctx, "alice"); err != nil || result.Allowed {
		t.Fatalf("alice second call should be denied")
	}
	if result, err := limiter.AllowAPICall(ctx, "bob"); err != nil || !result.Allowed {
		t.Fatalf("bob is an independent window: allowed=%v err=%v", result != nil && result.Allowed, err)
	}
}

func TestReset_ClearsWindow(t *testing.T) {
	limiter := newTestLimiter(t, 1)
	ctx := context.Background()

	if _, err := limiter.AllowAPICall(ctx, "key-1"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if result, _ := limiter.AllowAPICall(ctx, "key-1"); result.Allowed {
		t.Fatalf("window should be exhausted")
	}

	if err := limiter.Reset(ctx, "key-1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if result, _ := limiter.AllowAPICall(ctx, "key-1"); !result.Allowed {
		t.Fatalf("expected a fresh window after reset")
	}
}
