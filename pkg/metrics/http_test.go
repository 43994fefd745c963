package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestObserveRequestExposesSeries(t *testing.T) {
	m := NewHTTPMetrics()
	m.ObserveRequest(http.MethodGet, "/api/products", 200, 25*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/products", 200, 40*time.Millisecond)
	m.ObserveRequest(http.MethodPost, "", 500, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	if !strings.Contains(body, `http_requests_total{method="GET",route="/api/products",status="200"} 2`) {
		t.Fatalf("expected counter series in scrape output:\n%s", body)
	}
	if !strings.Contains(body, `route="unmatched"`) {
		t.Fatalf("expected unmatched route label in scrape output:\n%s", body)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest(http.MethodGet, "/x", 200, time.Second)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected fallback handler to serve, got %d", rr.Code)
	}
}
