package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync/atomic"
	"time"

	applog "arha/internal/log"
)

// HeaderRequestID is read from the request and echoed on the response.
const HeaderRequestID = "X-Request-ID"

type contextKey struct{}

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// Middleware assigns every request an ID, puts a request-scoped logger in
// the context and logs the outcome.
type Middleware struct {
	logger    *applog.Logger
	extractIP func(*http.Request) string
	metrics   Metrics
}

// Metrics tracks request counts.
type Metrics struct {
	TotalRequests int64
	ServerErrors  int64
}

func NewMiddleware(logger *applog.Logger, extractIP func(*http.Request) string) *Middleware {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Middleware{logger: logger.WithComponent(applog.ComponentHTTP), extractIP: extractIP}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if !validRequestID.MatchString(requestID) {
			requestID = GenerateRequestID()
		}
		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		reqLogger := m.logger.With(applog.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), contextKey{}, requestID)
		ctx = applog.NewContext(ctx, reqLogger)
		r = r.WithContext(ctx)

		w.Header().Set(HeaderRequestID, requestID)
		atomic.AddInt64(&m.metrics.TotalRequests, 1)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		level := slog.LevelInfo
		switch {
		case rw.statusCode >= 500:
			level = slog.LevelError
			atomic.AddInt64(&m.metrics.ServerErrors, 1)
		case rw.statusCode >= 400:
			level = slog.LevelWarn
		}

		reqLogger.Log(ctx, level, "HTTP request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldQuery, r.URL.RawQuery,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldDurationHuman, duration.String(),
			applog.FieldClientIP, clientIP,
			applog.FieldUserAgent, r.Header.Get("User-Agent"),
			applog.FieldSuccess, rw.statusCode < 400)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests: atomic.LoadInt64(&m.metrics.TotalRequests),
		ServerErrors:  atomic.LoadInt64(&m.metrics.ServerErrors),
	}
}
