package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHeadersMiddleware(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions", nil))
	for k, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := rec.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Errorf("HSTS must only be sent over TLS")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q", got)
	}
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct public", "203.0.113.7:5555", "", "", "203.0.113.7"},
		{"spoofed header from public peer", "203.0.113.7:5555", "1.2.3.4", "", "203.0.113.7"},
		{"forwarded by local proxy", "127.0.0.1:80", "198.51.100.1, 10.0.0.2", "", "198.51.100.1"},
		{"real ip from private proxy", "192.168.1.2:80", "", "198.51.100.9", "198.51.100.9"},
		{"garbage header", "10.1.1.1:80", "not-an-ip", "", "10.1.1.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectorBlocksProbes(t *testing.T) {
	d := NewDetector()
	reached := 0
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached++ }))

	for _, target := range []string{"/.env", "/api/transactions?plate=../../etc/passwd", "/wp-admin/"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: status %d", target, rec.Code)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/transactions?plate=DK", nil))
	if reached != 1 || d.Blocked() != 3 {
		t.Fatalf("reached=%d blocked=%d", reached, d.Blocked())
	}
}
