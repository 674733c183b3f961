package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// newTestLimiter builds a limiter with the sweep effectively disabled
// and registers Stop with the test.
func newTestLimiter(t *testing.T, cfg RateLimitConfig) *RateLimiter {
	t.Helper()
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = time.Hour
	}
	rl := NewRateLimiter(cfg)
	t.Cleanup(rl.Stop)
	return rl
}

// ===== Allow =====

func TestAllow_NewClientStartsWithFullBucket(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{Rate: 5, Burst: 3, Window: time.Hour})

	d := rl.Allow("10.0.0.1")
	if !d.OK {
		t.Fatal("first request must be allowed")
	}
	if d.Remaining != 7 {
		t.Errorf("expected rate+burst-1 = 7 remaining, got %d", d.Remaining)
	}
}

func TestAllow_DeniesOnceBucketIsDrained(t *testing.T) {
	t.Parallel()

	// Capacity is rate+burst = 2; the window is long enough that no
	// tokens come back during the test.
	rl := newTestLimiter(t, RateLimitConfig{Rate: 1, Burst: 1, Window: time.Hour})

	for i := 0; i < 2; i++ {
		if d := rl.Allow("10.0.0.1"); !d.OK {
			t.Fatalf("request %d should fit in the bucket", i+1)
		}
	}

	d := rl.Allow("10.0.0.1")
	if d.OK {
		t.Fatal("third request must be denied")
	}
	if d.Remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", d.Remaining)
	}
	if d.RetryIn <= 0 {
		t.Errorf("a denial must say how long to wait, got %v", d.RetryIn)
	}
	if !d.Reset.After(time.Now()) {
		t.Errorf("reset must lie in the future, got %v", d.Reset)
	}
}

func TestAllow_ClientsDoNotShareBuckets(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{Rate: 1, Burst: 1, Window: time.Hour})

	rl.Allow("10.0.0.1")
	rl.Allow("10.0.0.1")
	if d := rl.Allow("10.0.0.1"); d.OK {
		t.Fatal("expected the first client drained")
	}

	if d := rl.Allow("10.0.0.2"); !d.OK {
		t.Error("a second client must start with its own full bucket")
	}
}

func TestAllow_TokensComeBackOverTime(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{Rate: 5, Burst: 1, Window: 100 * time.Millisecond})

	for i := 0; i < 6; i++ {
		rl.Allow("10.0.0.1")
	}
	if d := rl.Allow("10.0.0.1"); d.OK {
		t.Fatal("bucket should be empty before the refill")
	}

	// 150ms at 5 tokens per 100ms refills the bucket completely.
	time.Sleep(150 * time.Millisecond)

	if d := rl.Allow("10.0.0.1"); !d.OK {
		t.Error("expected the refill to admit the request")
	}
}

func TestAllow_DefaultsApplyToZeroConfig(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{})

	d := rl.Allow("10.0.0.1")
	if !d.OK {
		t.Fatal("a fresh bucket under defaults must allow")
	}
	// Defaults are 100 per minute with a burst of 20.
	if d.Remaining != 119 {
		t.Errorf("expected 119 remaining under default capacity, got %d", d.Remaining)
	}
}

func TestAllow_ConcurrentCallersSpendExactlyTheCapacity(t *testing.T) {
	t.Parallel()

	// An hour-long window makes refill during the test negligible, so
	// exactly rate+burst = 20 of the 100 attempts may pass.
	rl := newTestLimiter(t, RateLimitConfig{Rate: 10, Burst: 10, Window: time.Hour})

	var allowed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("10.0.0.1").OK {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != 20 {
		t.Errorf("expected exactly 20 requests through, got %d", got)
	}
}

// ===== sweep =====

func TestSweep_DropsBucketsIdleForTwoWindows(t *testing.T) {
	t.Parallel()

	rl := newTestLimiter(t, RateLimitConfig{Rate: 1, Burst: 1, Window: time.Minute})

	rl.Allow("stale")
	rl.Allow("fresh")

	rl.mu.Lock()
	rl.buckets["stale"].seen = time.Now().Add(-3 * time.Minute)
	rl.mu.Unlock()

	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.buckets["stale"]; ok {
		t.Error("expected the idle bucket removed")
	}
	if _, ok := rl.buckets["fresh"]; !ok {
		t.Error("expected the active bucket kept")
	}
}

func TestStop_LimiterStaysUsable(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 1, Window: time.Hour})
	rl.Stop()

	// In-flight requests during shutdown still consult the limiter.
	if d := rl.Allow("10.0.0.1"); !d.OK {
		t.Error("expected Allow to work after Stop")
	}
}

// ===== RateLimit middleware =====

func limitedHandler(t *testing.T, cfg RateLimitConfig) http.Handler {
	t.Helper()
	rl := newTestLimiter(t, cfg)
	return RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func fromAddr(method, target, addr string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimit_SetsAccountingHeaders(t *testing.T) {
	t.Parallel()

	handler := limitedHandler(t, RateLimitConfig{Rate: 9, Burst: 1, Window: time.Hour})
	rr := serve(handler, fromAddr(http.MethodGet, "/activities", "10.0.0.1:4000"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-RateLimit-Limit"); got != "9" {
		t.Errorf("expected the configured rate in X-RateLimit-Limit, got %q", got)
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "9" {
		t.Errorf("expected 9 remaining after one spend, got %q", got)
	}
	if _, err := strconv.ParseInt(rr.Header().Get("X-RateLimit-Reset"), 10, 64); err != nil {
		t.Errorf("X-RateLimit-Reset must be a unix timestamp: %v", err)
	}
}

func TestRateLimit_DeniedRequestGetsProblemAndRetryAfter(t *testing.T) {
	t.Parallel()

	handler := limitedHandler(t, RateLimitConfig{Rate: 1, Burst: 1, Window: time.Hour})

	var rr *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		rr = serve(handler, fromAddr(http.MethodPost, "/activities/Chess%20Club/signup?email=amelia@mergington.edu", "10.0.0.1:4000"))
	}

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Rate limit exceeded") {
		t.Errorf("expected the rate limit detail, got %q", rr.Body.String())
	}

	retryAfter, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	if err != nil || retryAfter < 1 {
		t.Errorf("Retry-After must be a positive integer, got %q", rr.Header().Get("Retry-After"))
	}
}

func TestRateLimit_BucketsFollowTheIPNotThePort(t *testing.T) {
	t.Parallel()

	handler := limitedHandler(t, RateLimitConfig{Rate: 1, Burst: 1, Window: time.Hour})

	serve(handler, fromAddr(http.MethodGet, "/activities", "10.0.0.1:1111"))
	serve(handler, fromAddr(http.MethodGet, "/activities", "10.0.0.1:2222"))

	// Same client on a third ephemeral port: drained.
	rr := serve(handler, fromAddr(http.MethodGet, "/activities", "10.0.0.1:3333"))
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("expected the reconnecting client denied, got %d", rr.Code)
	}

	// A different machine is unaffected.
	rr = serve(handler, fromAddr(http.MethodGet, "/activities", "10.0.0.2:1111"))
	if rr.Code != http.StatusOK {
		t.Errorf("expected another client allowed, got %d", rr.Code)
	}
}

func TestRateLimit_ProbeEndpointsBypassTheLimiter(t *testing.T) {
	t.Parallel()

	handler := limitedHandler(t, RateLimitConfig{Rate: 1, Burst: 1, Window: time.Hour})

	for i := 0; i < 3; i++ {
		serve(handler, fromAddr(http.MethodGet, "/activities", "10.0.0.1:4000"))
	}

	for _, path := range []string{"/health", "/metrics"} {
		rr := serve(handler, fromAddr(http.MethodGet, path, "10.0.0.1:4000"))
		if rr.Code != http.StatusOK {
			t.Errorf("%s must not be rate limited, got %d", path, rr.Code)
		}
		if got := rr.Header().Get("X-RateLimit-Limit"); got != "" {
			t.Errorf("%s must not carry limiter headers, got %q", path, got)
		}
	}
}

// ===== clientKey =====

func TestClientKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"10.0.0.1:58411", "10.0.0.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"unix-socket-peer", "unix-socket-peer"},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/activities", nil)
		req.RemoteAddr = tc.remoteAddr
		if got := clientKey(req); got != tc.want {
			t.Errorf("clientKey(%q) = %q, want %q", tc.remoteAddr, got, tc.want)
		}
	}
}
