package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/mergington/activities/internal/model"
)

// RateLimiter is a token bucket limiter keyed by client. Each bucket
// holds Rate+Burst tokens and refills continuously at Rate tokens per
// Window, so a client that paces itself never sees a denial while a
// signup storm from one machine drains its bucket quickly.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit    int     // configured Rate, advertised in headers
	rate     float64 // tokens accrued per window
	window   time.Duration
	capacity float64 // rate + burst

	sweepEvery time.Duration
	done       chan struct{}
}

type bucket struct {
	tokens float64
	seen   time.Time
}

// RateLimitConfig holds rate limiter settings. Zero values fall back to
// 100 requests per minute with a burst of 20, swept every 5 minutes.
type RateLimitConfig struct {
	Rate    int
	Window  time.Duration
	Burst   int
	Cleanup time.Duration
}

// Decision is the outcome of one Allow call.
type Decision struct {
	OK        bool
	Remaining int
	RetryIn   time.Duration // time until the next token when denied
	Reset     time.Time     // when the bucket is full again
}

// NewRateLimiter builds a limiter and starts its sweep goroutine. Call
// Stop on shutdown.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = 100
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = 5 * time.Minute
	}

	rl := &RateLimiter{
		buckets:    make(map[string]*bucket),
		limit:      cfg.Rate,
		rate:       float64(cfg.Rate),
		window:     cfg.Window,
		capacity:   float64(cfg.Rate + cfg.Burst),
		sweepEvery: cfg.Cleanup,
		done:       make(chan struct{}),
	}

	go rl.sweepLoop()
	return rl
}

// Stop ends the sweep goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep drops buckets idle for at least two windows; such buckets are
// full again and indistinguishable from fresh ones.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-2 * rl.window)
	for key, b := range rl.buckets {
		if b.seen.Before(cutoff) {
			delete(rl.buckets, key)
		}
	}
}

// Allow spends one token from key's bucket, creating it at full
// capacity on first sight.
func (rl *RateLimiter) Allow(key string) Decision {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{tokens: rl.capacity, seen: now}
		rl.buckets[key] = b
	} else {
		elapsed := now.Sub(b.seen)
		b.tokens = math.Min(rl.capacity, b.tokens+rl.rate*(float64(elapsed)/float64(rl.window)))
		b.seen = now
	}

	refillAll := func(missing float64) time.Duration {
		return time.Duration(missing / rl.rate * float64(rl.window))
	}

	if b.tokens >= 1 {
		b.tokens--
		return Decision{
			OK:        true,
			Remaining: int(b.tokens),
			Reset:     now.Add(refillAll(rl.capacity - b.tokens)),
		}
	}

	return Decision{
		RetryIn: refillAll(1 - b.tokens),
		Reset:   now.Add(refillAll(rl.capacity - b.tokens)),
	}
}

// RateLimit applies per-client token buckets to the API routes. Probe
// endpoints (/health, /metrics) bypass the limiter.
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exemptFromLimit(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			d := limiter.Allow(clientKey(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

			if !d.OK {
				retryAfter := int(math.Ceil(d.RetryIn.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

				model.NewRateLimitError(retryAfter).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func exemptFromLimit(path string) bool {
	return path == "/health" || path == "/metrics"
}

// clientKey buckets requests by client IP. The port is stripped so a
// client reconnecting on a fresh ephemeral port keeps the same bucket.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
