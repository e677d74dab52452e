package http

import (
	"errors"
	"net/http"

	"arha/internal/core"
	applog "arha/internal/log"
)

type transactionListResponse struct {
	Month        int                `json:"month"`
	Year         int                `json:"year"`
	MonthName    string             `json:"monthName"`
	Transactions []core.Transaction `json:"transactions"`
	Count        int                `json:"count"`
	TotalProfit  core.Money         `json:"totalProfit"`
}

type transactionResponse struct {
	Transaction   core.Transaction `json:"transaction"`
	SetupRequired bool             `json:"setupRequired"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	view := s.ledger.View(spec)
	txs := view.Transactions
	if txs == nil {
		txs = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactionListResponse{
		Month:        int(spec.Month),
		Year:         spec.Year,
		MonthName:    core.MonthName(spec.Month),
		Transactions: txs,
		Count:        view.Count(),
		TotalProfit:  view.TotalProfit,
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, ok := s.ledger.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Transaksi tidak ditemukan")
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	form, err := decodeForm(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Format data tidak valid")
		return
	}
	tx, err := s.ledger.Create(r.Context(), form)
	s.respondSaved(w, r, http.StatusCreated, tx, err)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.ledger.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Transaksi tidak ditemukan")
		return
	}
	form, err := decodeForm(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Format data tidak valid")
		return
	}
	tx, err := s.ledger.Update(r.Context(), id, form)
	s.respondSaved(w, r, http.StatusOK, tx, err)
}

// respondSaved maps the outcome of a save. A setup failure still means the
// record is stored locally, so it answers with success plus the flag.
func (s *Server) respondSaved(w http.ResponseWriter, r *http.Request, status int, tx core.Transaction, err error) {
	var verr *core.ValidationError
	switch {
	case err == nil, isSetupRequired(err):
		applog.FromContext(r.Context()).InfoContext(r.Context(), "Transaction saved",
			applog.FieldTransactionID, tx.ID,
			applog.FieldServiceType, tx.ServiceType,
			applog.FieldSetupRequired, err != nil)
		writeJSON(w, status, transactionResponse{Transaction: tx, SetupRequired: err != nil})
	case errors.As(err, &verr):
		writeFields(w, verr.Fields)
	default:
		s.logger.ErrorContext(r.Context(), "Failed to save transaction", "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal menyimpan transaksi")
	}
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.Delete(r.Context(), id); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to delete transaction", applog.FieldTransactionID, id, "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal menghapus transaksi")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
