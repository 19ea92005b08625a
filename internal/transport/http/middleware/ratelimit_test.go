package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checkin/internal/domain/auth"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestFixedWindowResetsAfterWindow(t *testing.T) {
	now := time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)
	fw := newFixedWindow(1, time.Minute)
	fw.now = func() time.Time { return now }

	if !fw.hit("k").allowed {
		t.Fatal("expected first hit to pass")
	}
	res := fw.hit("k")
	if res.allowed || res.remaining != 0 {
		t.Fatalf("expected second hit throttled, got %+v", res)
	}
	if !fw.hit("other").allowed {
		t.Fatal("expected separate key to have its own counter")
	}

	now = now.Add(time.Minute)
	if !fw.hit("k").allowed {
		t.Fatal("expected hit after window reset to pass")
	}
}

func TestSaveLimitKeysOnActorBeforeIP(t *testing.T) {
	limited := SensitiveMutationRateLimit(2, time.Minute)(noContent())
	userCtx := WithUser(httptest.NewRequest(http.MethodGet, "/", nil).Context(), auth.UserContext{UserID: "user-1"})

	first := httptest.NewRequest(http.MethodPost, "/api/v1/checkins", nil).WithContext(userCtx)
	first.RemoteAddr = "198.51.100.11:2222"
	firstRec := httptest.NewRecorder()
	limited.ServeHTTP(firstRec, first)
	if firstRec.Code != http.StatusNoContent {
		t.Fatalf("expected first save to pass, got %d", firstRec.Code)
	}

	second := httptest.NewRequest(http.MethodPut, "/api/v1/checkins/abc", nil).WithContext(userCtx)
	second.RemoteAddr = "198.51.100.12:3333"
	secondRec := httptest.NewRecorder()
	limited.ServeHTTP(secondRec, second)
	if secondRec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second save throttled by actor, got %d", secondRec.Code)
	}
	if secondRec.Header().Get("Retry-After") == "" || secondRec.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatalf("expected retry headers, got %v", secondRec.Header())
	}
}

func TestLoginLimitByEmailKeepsBody(t *testing.T) {
	var seen []string
	limited := SensitiveMutationRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body struct {
			Email string `json:"email"`
		}
		_ = json.Unmarshal(raw, &body)
		seen = append(seen, body.Email)
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(`{"email":"Lead@Example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = ip + ":1111"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("192.0.2.20"); code != http.StatusNoContent {
		t.Fatalf("expected first login to pass, got %d", code)
	}
	if code := send("192.0.2.21"); code != http.StatusTooManyRequests {
		t.Fatalf("expected login from new ip throttled by email, got %d", code)
	}
	if len(seen) != 1 || seen[0] != "Lead@Example.com" {
		t.Fatalf("expected handler to read the original body, got %v", seen)
	}
}

func TestReadsBypassRateLimit(t *testing.T) {
	limited := SensitiveMutationRateLimit(4, time.Minute)(noContent())
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/checkins", nil)
		req.RemoteAddr = "198.51.100.40:8888"
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected read request %d to pass, got %d", i+1, rec.Code)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "" {
			t.Fatal("expected no rate limit headers on reads")
		}
	}
}
