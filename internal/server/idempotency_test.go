package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/natnael/payops/internal/analytics"
	"github.com/natnael/payops/internal/service"
	"github.com/natnael/payops/internal/store"
)

func idempotentRouter(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()

	st := store.New(testSeed()).
		WithClock(func() time.Time { return time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC) })
	svc := service.NewPaymentService(st, analytics.FixedIndicator{Current: 1, Max: 2})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(logger, RouterDependencies{
		API:         NewAPIHandlers(logger, svc),
		Idempotency: NewIdempotencyCache(),
	})
	return router, st
}

func TestIdempotency_ReplaysCreateResponse(t *testing.T) {
	router, st := idempotentRouter(t)
	payload := `{"amount": 100, "currency": "ETB", "recipientName": "Bontu Merga", "recipientAccount": "ACC-00000042"}`

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "key-1")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", first.Code, first.Body.String())
	}
	if first.Header().Get("X-Idempotency-Hit") != "" {
		t.Fatal("first request must not be a cache hit")
	}

	second := send()
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", second.Code)
	}
	if second.Header().Get("X-Idempotency-Hit") != "true" {
		t.Fatal("expected cache hit marker on replay")
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs:\nfirst:  %s\nsecond: %s", first.Body.String(), second.Body.String())
	}
	if st.Len() != 3 {
		t.Fatalf("replay must not insert again, store has %d payments", st.Len())
	}
}

func TestIdempotency_DistinctKeysExecuteSeparately(t *testing.T) {
	router, st := idempotentRouter(t)

	for _, key := range []string{"key-a", "key-b"} {
		req := httptest.NewRequest(http.MethodPost, "/payments",
			strings.NewReader(`{"amount": 100, "currency": "ETB", "recipientName": "Bontu Merga", "recipientAccount": "ACC-00000042"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", key)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 for key %s, got %d", key, rec.Code)
		}
	}

	if st.Len() != 4 {
		t.Fatalf("expected 4 payments after two distinct keys, got %d", st.Len())
	}
}

func TestIdempotency_MissingKeyPassesThrough(t *testing.T) {
	router, st := idempotentRouter(t)
	payload := `{"amount": 100, "currency": "ETB", "recipientName": "Bontu Merga", "recipientAccount": "ACC-00000042"}`

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
	}

	if st.Len() != 4 {
		t.Fatalf("expected both keyless requests to execute, store has %d payments", st.Len())
	}
}
