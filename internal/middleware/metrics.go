package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mergington/activities/internal/metrics"
)

// Metrics records request counts, latency, and an in-flight gauge for every
// request. Paths are normalized to their route patterns so arbitrary URLs
// cannot grow the label set.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		pattern := routePattern(r.URL.Path)

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(wrapped.statusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// routePattern maps a request path onto the route it can match.
func routePattern(path string) string {
	switch {
	case path == "/":
		return "/"
	case path == "/activities":
		return "/activities"
	case path == "/health":
		return "/health"
	case path == "/metrics":
		return "/metrics"
	case strings.HasPrefix(path, "/static/"):
		return "/static"
	case strings.HasPrefix(path, "/activities/") && strings.HasSuffix(path, "/signup"):
		return "/activities/{name}/signup"
	case strings.HasPrefix(path, "/activities/") && strings.HasSuffix(path, "/unregister"):
		return "/activities/{name}/unregister"
	default:
		return "other"
	}
}
