package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"checkin/internal/platform/metrics"
)

func TestLoggerRecordsMetrics(t *testing.T) {
	collector := metrics.New()
	handler := Logger(collector)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status passthrough, got %d", rec.Code)
	}

	snap := collector.Snapshot()
	if snap["requestsTotal"] != uint64(2) {
		t.Fatalf("expected 2 requests, got %v", snap["requestsTotal"])
	}
	if snap["clientErrorsTotal"] != uint64(1) {
		t.Fatalf("expected 1 client error, got %v", snap["clientErrorsTotal"])
	}
}

func TestLoggerWithoutCollector(t *testing.T) {
	handler := Logger(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
