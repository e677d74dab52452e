package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"

	applog "arha/internal/log"
)

// Detector resolves client addresses behind trusted proxies and turns away
// requests that are clearly probing rather than using the API.
type Detector struct {
	blocked        int64
	trustedProxies []*net.IPNet
}

var probePatterns = []string{
	"../", "..\\", ".env", ".git", "wp-admin", "phpmyadmin",
	"etc/passwd", "<script", "union select",
}

func NewDetector() *Detector {
	return &Detector{
		trustedProxies: []*net.IPNet{
			parseCIDR("127.0.0.0/8"),
			parseCIDR("10.0.0.0/8"),
			parseCIDR("172.16.0.0/12"),
			parseCIDR("192.168.0.0/16"),
			parseCIDR("::1/128"),
		},
	}
}

func parseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// IsProbe reports whether r looks like a scanner.
func (d *Detector) IsProbe(r *http.Request) bool {
	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		return true
	}
	if len(r.URL.String()) > 2048 {
		return true
	}
	target := strings.ToLower(r.URL.Path + "?" + r.URL.RawQuery)
	for _, p := range probePatterns {
		if strings.Contains(target, p) {
			return true
		}
	}
	return false
}

// Middleware answers probes with 404 and logs them.
func (d *Detector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if d.IsProbe(r) {
			atomic.AddInt64(&d.blocked, 1)
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Blocked suspicious request",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldClientIP, d.ExtractClientIP(r))
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ExtractClientIP returns the caller's address. Forwarded headers are only
// believed when the direct peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil || !d.isTrustedProxy(parsed) {
		return directIP
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	return directIP
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// Blocked returns how many requests were turned away.
func (d *Detector) Blocked() int64 {
	return atomic.LoadInt64(&d.blocked)
}

// AddTrustedProxy adds a trusted proxy network
func (d *Detector) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}
	d.trustedProxies = append(d.trustedProxies, network)
	return nil
}
