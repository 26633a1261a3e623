//go:build integration

package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/filedrop/filedrop/internal/cache"
)

// TestIPRateLimitConcurrency verifies IP-based rate limiting under
// concurrent load. This test requires Redis to be running.
func TestIPRateLimitConcurrency(t *testing.T) {
	ctx := context.Background()

	redisURL := "redis://localhost:6379"
	cacheClient, err := cache.New(ctx, redisURL)
	if err != nil {
		t.Skipf("Skipping integration test: Redis not available: %v", err)
	}
	defer cacheClient.Close()

	_ = cacheClient.Client().FlushDB(ctx).Err()

	testIP := "192.168.1.100"
	rps := 5
	burst := 3

	var allowed, rejected int64
	var wg sync.WaitGroup

	// 30 concurrent requests against a small bucket
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := cacheClient.CheckIPRateLimit(ctx, testIP, rps, burst)
			if err != nil {
				t.Errorf("CheckIPRateLimit error: %v", err)
				return
			}
			if result.Allowed {
				atomic.AddInt64(&allowed, 1)
			} else {
				atomic.AddInt64(&rejected, 1)
			}
		}()
	}

	wg.Wait()

	t.Logf("IP rate limit: %d allowed, %d rejected", allowed, rejected)

	if allowed > int64(burst+rps) {
		t.Errorf("Too many requests allowed: %d (expected <= %d)", allowed, burst+rps)
	}
	if rejected == 0 {
		t.Error("Expected some requests to be rejected")
	}
}
