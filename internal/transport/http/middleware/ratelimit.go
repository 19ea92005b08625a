package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"checkin/internal/transport/http/api"
	"checkin/internal/transport/http/shared"
)

const loginBodyPeekLimit = 64 * 1024

type limitScope int

const (
	scopeNone limitScope = iota
	scopeLogin
	scopeSave
)

type windowCounter struct {
	count int
	reset time.Time
}

// fixedWindow counts hits per key and resets each key's counter once its window has elapsed.
type fixedWindow struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	now      func() time.Time
	counters map[string]*windowCounter
}

type windowResult struct {
	allowed   bool
	remaining int
	resetIn   time.Duration
}

func newFixedWindow(limit int, window time.Duration) *fixedWindow {
	return &fixedWindow{
		limit:    limit,
		window:   window,
		now:      time.Now,
		counters: map[string]*windowCounter{},
	}
}

func (fw *fixedWindow) hit(key string) windowResult {
	if fw.limit <= 0 {
		return windowResult{allowed: true}
	}
	now := fw.now()

	fw.mu.Lock()
	defer fw.mu.Unlock()
	counter, ok := fw.counters[key]
	if !ok || !now.Before(counter.reset) {
		counter = &windowCounter{reset: now.Add(fw.window)}
		fw.counters[key] = counter
	}
	counter.count++
	return windowResult{
		allowed:   counter.count <= fw.limit,
		remaining: max(fw.limit-counter.count, 0),
		resetIn:   counter.reset.Sub(now),
	}
}

// admit records a hit for key and writes the rate limit headers. It answers
// 429 and returns false when the key is over its limit.
func (fw *fixedWindow) admit(w http.ResponseWriter, r *http.Request, key string) bool {
	res := fw.hit(key)
	if fw.limit <= 0 {
		return true
	}
	resetSec := ceilSeconds(res.resetIn)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(fw.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if res.allowed {
		return true
	}
	w.Header().Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", fw.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

// SensitiveMutationRateLimit throttles logins by client IP and by submitted
// email at a quarter of baseLimit, and check-in saves by actor at half of it.
// Every other request passes through untouched.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	loginLimit := max(baseLimit/4, 1)
	loginByIP := newFixedWindow(loginLimit, window)
	loginByEmail := newFixedWindow(loginLimit, window)
	saveByActor := newFixedWindow(max(baseLimit/2, 1), window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch rateScope(r) {
			case scopeLogin:
				if !loginByIP.admit(w, r, "ip:"+shared.ClientIP(r)) {
					return
				}
				if !loginByEmail.admit(w, r, loginEmailKey(r)) {
					return
				}
			case scopeSave:
				if !saveByActor.admit(w, r, actorKey(r)) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateScope(r *http.Request) limitScope {
	path := strings.TrimPrefix(strings.TrimSpace(r.URL.Path), "/api/v1")
	switch {
	case r.Method == http.MethodPost && path == "/auth/login":
		return scopeLogin
	case r.Method == http.MethodPost && path == "/checkins":
		return scopeSave
	case r.Method == http.MethodPut && strings.HasPrefix(path, "/checkins/"):
		return scopeSave
	default:
		return scopeNone
	}
}

func actorKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return "ip:" + shared.ClientIP(r)
}

// loginEmailKey reads the email from a JSON login body and restores the body for the handler.
func loginEmailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return "ip:" + shared.ClientIP(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, loginBodyPeekLimit))
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return "ip:" + shared.ClientIP(r)
	}
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil || strings.TrimSpace(body.Email) == "" {
		return "ip:" + shared.ClientIP(r)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(body.Email))
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
