package http

import (
	"errors"
	"net/http"
	"time"

	"arha/internal/core"
	"arha/internal/projection"
	"arha/internal/services"
)

const (
	setupBanner = "Setup Firestore Diperlukan"

	modeOffline = "Offline Mode"
	modeSyncing = "Syncing..."
	modeOnline  = "Online"
)

type statusResponse struct {
	Mode          string    `json:"mode"`
	Syncing       bool      `json:"syncing"`
	SetupRequired bool      `json:"setupRequired"`
	Banner        string    `json:"banner,omitempty"`
	Records       int       `json:"records"`
	LastRefresh   time.Time `json:"lastRefresh"`
}

type serviceTypeOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type summaryResponse struct {
	Month          int        `json:"month"`
	Year           int        `json:"year"`
	MonthName      string     `json:"monthName"`
	Count          int        `json:"count"`
	AmountReceived core.Money `json:"amountReceived"`
	ProcessingCost core.Money `json:"processingCost"`
	TotalProfit    core.Money `json:"totalProfit"`
	Insight        string     `json:"insight"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 until the first refresh has completed.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ledger.Status().LastRefresh.IsZero() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusFor(s.ledger.Status()))
}

func statusFor(st services.Status) statusResponse {
	resp := statusResponse{
		Syncing:       st.Syncing,
		SetupRequired: st.SetupRequired,
		Records:       st.Records,
		LastRefresh:   st.LastRefresh,
	}
	switch {
	case st.Syncing:
		resp.Mode = modeSyncing
	case st.SetupRequired:
		resp.Mode = modeOffline
	default:
		resp.Mode = modeOnline
	}
	if st.SetupRequired {
		resp.Banner = setupBanner
	}
	return resp
}

func handleServiceTypes(w http.ResponseWriter, r *http.Request) {
	types := core.ServiceTypes()
	out := make([]serviceTypeOption, len(types))
	for i, t := range types {
		out[i] = serviceTypeOption{Value: t.String(), Label: t.Label()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	name := sanitizeInput(r.URL.Query().Get("name"))
	if name == "" {
		name = "Admin"
	}
	writeJSON(w, http.StatusOK, map[string]string{"greeting": s.advisor.Greeting(r.Context(), name)})
}

// handleSummary returns the month totals plus a short advisory note.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view := s.ledger.View(spec)
	received, cost := projection.Totals(view.Transactions)

	writeJSON(w, http.StatusOK, summaryResponse{
		Month:          int(spec.Month),
		Year:           spec.Year,
		MonthName:      core.MonthName(spec.Month),
		Count:          view.Count(),
		AmountReceived: received,
		ProcessingCost: cost,
		TotalProfit:    view.TotalProfit,
		Insight:        s.advisor.MonthlyInsight(r.Context(), received, cost),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// A setup failure still leaves the local records loaded.
	if err := s.ledger.Refresh(r.Context()); err != nil && !isSetupRequired(err) {
		s.logger.ErrorContext(r.Context(), "Refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal memuat data")
		return
	}
	writeJSON(w, http.StatusOK, statusFor(s.ledger.Status()))
}

func isSetupRequired(err error) bool {
	return errors.Is(err, services.ErrSetupRequired)
}
