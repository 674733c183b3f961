package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

// IdempotencyStore keeps the first response produced under each
// idempotency key so retries of the same mutation replay it instead of
// reapplying the roster edit.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]*idempotencyEntry
	ttl     time.Duration
	done    chan struct{}
}

// idempotencyEntry is complete once inFlight is false; done is closed at
// that point, and the response fields never change afterwards.
type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds store settings. Zero values fall back to a
// 24 hour TTL swept hourly.
type IdempotencyConfig struct {
	TTL     time.Duration
	Cleanup time.Duration
}

// NewIdempotencyStore builds a store and starts its sweep goroutine.
// Call Stop on shutdown.
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries: make(map[string]*idempotencyEntry),
		ttl:     cfg.TTL,
		done:    make(chan struct{}),
	}

	go store.sweepLoop(cfg.Cleanup)
	return store
}

// Stop ends the sweep goroutine.
func (s *IdempotencyStore) Stop() {
	close(s.done)
}

func (s *IdempotencyStore) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

// sweep drops expired entries. In-flight entries are kept regardless of
// age; their waiters hold references to them.
func (s *IdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if !e.inFlight && e.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// claim returns the entry under key and whether the caller now owns its
// execution. When claimed is false the request is a retry: wait on the
// entry's done channel, then replay it. Expired entries are reclaimed.
func (s *IdempotencyStore) claim(key string) (*idempotencyEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		if e.inFlight || e.expiresAt.After(time.Now()) {
			return e, false
		}
	}

	e := &idempotencyEntry{inFlight: true, done: make(chan struct{})}
	s.entries[key] = e
	return e, true
}

// complete records the captured response on a claimed entry and wakes
// every retry waiting on it.
func (s *IdempotencyStore) complete(e *idempotencyEntry, status int, headers http.Header, body []byte) {
	s.mu.Lock()
	e.status = status
	e.headers = headers
	e.body = body
	e.expiresAt = time.Now().Add(s.ttl)
	e.inFlight = false
	s.mu.Unlock()

	close(e.done)
}

// abort discards a claimed entry whose attempt died mid-flight, so a
// later retry executes fresh instead of replaying. Waiters already
// queued on this entry replay the same 500 the recovery middleware sent
// to the original caller.
func (s *IdempotencyStore) abort(key string, e *idempotencyEntry) {
	s.mu.Lock()
	if s.entries[key] == e {
		delete(s.entries, key)
	}
	e.status = http.StatusInternalServerError
	e.headers = http.Header{"Content-Type": []string{"application/problem+json"}}
	e.body = []byte(internalProblemJSON)
	e.inFlight = false
	s.mu.Unlock()

	close(e.done)
}

// replay writes the stored response. Only call after the entry's done
// channel is closed.
func (e *idempotencyEntry) replay(w http.ResponseWriter) {
	for k, vals := range e.headers {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("X-Idempotency-Replayed", "true")
	w.WriteHeader(e.status)
	_, _ = w.Write(e.body)
}

// requestFingerprint keys an idempotent request by client, supplied key
// and the full request shape. The fingerprint covers the request URI
// because the roster endpoints carry the student email in the query
// string; the same key reused for a different student is a different
// request.
func requestFingerprint(client, idempotencyKey, method, requestURI string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(client))
	h.Write([]byte(idempotencyKey))
	h.Write([]byte(method))
	h.Write([]byte(requestURI))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// idempotencyResponseWriter tees the response into a buffer so the
// store can keep it for replays.
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays cached responses for retried mutations that carry
// an Idempotency-Key header. Reads pass through untouched, as do
// mutations without the header. A retry that arrives while the first
// attempt is still executing waits for it rather than running the edit
// a second time.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodDelete {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := requestFingerprint(clientKey(r), idempotencyKey, r.Method, r.URL.RequestURI(), body)

			entry, claimed := store.claim(key)
			if !claimed {
				<-entry.done
				entry.replay(w)
				return
			}

			// A panic below unwinds to the recovery middleware; the
			// entry must not stay in flight forever when that happens.
			completed := false
			defer func() {
				if !completed {
					store.abort(key, entry)
				}
			}()

			irw := &idempotencyResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(irw, r)

			store.complete(entry, irw.status, irw.Header().Clone(), irw.body.Bytes())
			completed = true
		})
	}
}
