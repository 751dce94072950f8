package server

import (
	"bytes"
	"net/http"
	"sync"
)

// IdempotencyCache replays responses for repeated POST requests that carry
// the same Idempotency-Key header. Entries live for the process lifetime,
// matching the store's own persistence model.
type IdempotencyCache struct {
	mu      sync.Mutex
	entries map[string]cachedResponse
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// NewIdempotencyCache constructs an empty cache.
func NewIdempotencyCache() *IdempotencyCache {
	return &IdempotencyCache{
		entries: make(map[string]cachedResponse),
	}
}

// Middleware wraps next so that POSTs carrying a previously seen
// Idempotency-Key return the recorded response instead of re-executing the
// handler. Requests without a key pass straight through.
func (c *IdempotencyCache) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if r.Method != http.MethodPost || key == "" {
			next.ServeHTTP(w, r)
			return
		}

		c.mu.Lock()
		cached, hit := c.entries[key]
		c.mu.Unlock()

		if hit {
			w.Header().Set("X-Idempotency-Hit", "true")
			if cached.contentType != "" {
				w.Header().Set("Content-Type", cached.contentType)
			}
			w.WriteHeader(cached.status)
			_, _ = w.Write(cached.body)
			return
		}

		rec := &bufferingRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		c.mu.Lock()
		if _, exists := c.entries[key]; !exists {
			c.entries[key] = cachedResponse{
				status:      rec.status,
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.body.Bytes(),
			}
		}
		c.mu.Unlock()
	})
}

// bufferingRecorder tees the response body so it can be cached after the
// handler finishes.
type bufferingRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *bufferingRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *bufferingRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
