// Package middleware wraps the activities API with its cross-cutting
// behavior: request ids, logging, panic recovery, CORS, rate limiting,
// idempotent retries, Prometheus instrumentation, and gzip.
//
// Chain composes a stack, applying the first middleware outermost:
//
//	handler := middleware.Chain(mux,
//	    middleware.RequestID,
//	    middleware.Logger,
//	    middleware.Recovery,
//	)
//
// The stack order in cmd/server is load-bearing. Logger outside
// Recovery means panics still produce a log line with a request id.
// RateLimit outside Idempotency means replays spend tokens like real
// work. Compress sits innermost and leaves /metrics alone.
//
// RequestID stores the id on the request context; handlers read it back
// with GetRequestID. The probe endpoints /health and /metrics bypass
// the rate limiter so monitoring cannot be starved by a busy client IP.
package middleware
