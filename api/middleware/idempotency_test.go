package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/freshhfarm/storefront-backend/pkg/logger"
)

type fakeIdempotencyStore struct {
	records map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]string{}}
}

func (s *fakeIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.records[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (s *fakeIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	str, ok := value.(string)
	if !ok {
		return false, nil
	}
	s.records[key] = str
	return true, nil
}

func (s *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "idempotency:" + scope + ":" + id
}

func (s *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

func idempotencyHandler(store *fakeIdempotencyStore, hits *atomic.Int64) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"order":"ok"}}`))
	})
	logg := logger.New(logger.Options{ServiceName: "idempotency-test", Output: io.Discard})
	return Idempotency(store, logg)(inner)
}

func TestIdempotencyRequiresKeyOnCheckout(t *testing.T) {
	var hits atomic.Int64
	handler := idempotencyHandler(newFakeIdempotencyStore(), &hits)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"payment_method":"cod"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key, got %d", rr.Code)
	}
	if hits.Load() != 0 {
		t.Fatalf("handler must not run without a key, got %d hits", hits.Load())
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits atomic.Int64
	handler := idempotencyHandler(store, &hits)

	body := `{"payment_method":"cod"}`
	first := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-123")
	firstRR := httptest.NewRecorder()
	handler.ServeHTTP(firstRR, first)

	if firstRR.Code != http.StatusCreated {
		t.Fatalf("expected 201 on first request, got %d", firstRR.Code)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one handler hit, got %d", hits.Load())
	}

	replay := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	replay.Header.Set("Idempotency-Key", "key-123")
	replayRR := httptest.NewRecorder()
	handler.ServeHTTP(replayRR, replay)

	if replayRR.Code != http.StatusCreated {
		t.Fatalf("expected replay to return stored 201, got %d", replayRR.Code)
	}
	if replayRR.Body.String() != firstRR.Body.String() {
		t.Fatalf("replay body mismatch: %s vs %s", replayRR.Body.String(), firstRR.Body.String())
	}
	if got := replayRR.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected stored content type to be replayed, got %q", got)
	}
	if hits.Load() != 1 {
		t.Fatalf("replay must not reach the handler, got %d hits", hits.Load())
	}
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	var hits atomic.Int64
	handler := idempotencyHandler(store, &hits)

	first := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"delivery_notes":"gate A"}`))
	first.Header.Set("Idempotency-Key", "key-456")
	handler.ServeHTTP(httptest.NewRecorder(), first)

	second := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"delivery_notes":"gate B"}`))
	second.Header.Set("Idempotency-Key", "key-456")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, second)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for key reuse with new body, got %d", rr.Code)
	}
	if code := decodeErrorCode(t, rr.Body); code != "IDEMPOTENCY_KEY_REUSED" {
		t.Fatalf("expected IDEMPOTENCY_KEY_REUSED, got %s", code)
	}
	if hits.Load() != 1 {
		t.Fatalf("second request must not reach the handler, got %d hits", hits.Load())
	}
}

func TestIdempotencyCoversCancelRoute(t *testing.T) {
	var hits atomic.Int64
	handler := idempotencyHandler(newFakeIdempotencyStore(), &hits)

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/0b7af8e6-9f0a-4a9e-8cbe-0d20cb2b63f1/cancel", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected cancel route to demand an Idempotency-Key, got %d", rr.Code)
	}
}

func TestIdempotencyIgnoresOtherRoutes(t *testing.T) {
	var hits atomic.Int64
	handler := idempotencyHandler(newFakeIdempotencyStore(), &hits)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/my-orders", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected pass-through on unmatched route, got %d", rr.Code)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected handler hit on unmatched route, got %d", hits.Load())
	}
}
