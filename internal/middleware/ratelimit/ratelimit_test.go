package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3})
	defer rl.Stop()

	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("fourth request in the window should be refused")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("other clients are limited separately")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("a new window should allow requests again")
	}
	if rl.Rejected() != 1 || rl.ActiveClients() != 2 {
		t.Fatalf("rejected=%d clients=%d", rl.Rejected(), rl.ActiveClients())
	}

	now = now.Add(11 * time.Minute)
	rl.cleanupStaleEntries()
	if rl.ActiveClients() != 0 {
		t.Fatalf("stale clients not removed: %d", rl.ActiveClients())
	}
}

func TestLimiterMiddleware(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	defer rl.Stop()

	h := rl.Middleware(func(*http.Request) string { return "client" }, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/", nil))

	if first.Code != http.StatusNoContent {
		t.Fatalf("first status %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests || second.Header().Get("Retry-After") != "60" {
		t.Fatalf("second status %d, retry-after %q", second.Code, second.Header().Get("Retry-After"))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
