package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"arha/internal/core"
	"arha/internal/insight"
	applog "arha/internal/log"
	"arha/internal/middleware/ratelimit"
	"arha/internal/middleware/security"
	"arha/internal/middleware/trace"
	"arha/internal/projection"
	"arha/internal/services"
)

const maxBodyBytes = 10 << 20

// Ledger is the application service the handlers drive. *services.Ledger
// implements it.
type Ledger interface {
	Refresh(ctx context.Context) error
	Create(ctx context.Context, form core.TransactionForm) (core.Transaction, error)
	Update(ctx context.Context, id string, form core.TransactionForm) (core.Transaction, error)
	Delete(ctx context.Context, id string) error
	Restore(ctx context.Context, records []core.Transaction) (int, error)
	Get(id string) (core.Transaction, bool)
	Records() []core.Transaction
	View(spec core.FilterSpec) projection.View
	Report(spec core.FilterSpec) projection.Report
	Status() services.Status
}

var _ Ledger = (*services.Ledger)(nil)

type Server struct {
	http.Server
	ledger   Ledger
	advisor  insight.Advisor
	logger   *applog.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	now      func() time.Time

	shutdownOnce sync.Once
}

// NewServer wires the routes and middleware and returns a server ready to
// ListenAndServe.
func NewServer(addr string, ledger Ledger, advisor insight.Advisor, logger *applog.Logger) *Server {
	if advisor == nil {
		advisor = insight.Static{}
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	s := &Server{
		ledger:   ledger,
		advisor:  advisor,
		logger:   logger.WithComponent(applog.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: 60}),
		detector: security.NewDetector(),
		now:      time.Now,
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusTooManyRequests, "Terlalu banyak permintaan, coba lagi nanti")
	})

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/service-types", handleServiceTypes)
	mux.HandleFunc("GET /api/greeting", s.handleGreeting)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.Handle("POST /api/transactions", limited(http.HandlerFunc(s.handleCreateTransaction)))
	mux.Handle("PUT /api/transactions/{id}", limited(http.HandlerFunc(s.handleUpdateTransaction)))
	mux.Handle("DELETE /api/transactions/{id}", limited(http.HandlerFunc(s.handleDeleteTransaction)))
	mux.Handle("POST /api/refresh", limited(http.HandlerFunc(s.handleRefresh)))

	mux.HandleFunc("GET /api/report.pdf", s.handleReportPDF)
	mux.HandleFunc("GET /api/report.xlsx", s.handleReportXLSX)
	mux.HandleFunc("GET /api/backup", s.handleBackup)
	mux.Handle("POST /api/restore", limited(http.HandlerFunc(s.handleRestore)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(s.detector.Middleware(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
