package http

import (
	"bytes"
	"net/http"

	"arha/internal/backup"
	"arha/internal/report"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type restoreResponse struct {
	Restored      int  `json:"restored"`
	SetupRequired bool `json:"setupRequired"`
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep := s.ledger.Report(spec)

	var buf bytes.Buffer
	if err := report.RenderPDF(&buf, rep); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to render PDF report", "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal membuat laporan")
		return
	}
	writeFile(w, contentTypePDF, rep.FileBase+".pdf", buf.Bytes())
}

func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilter(r, s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rep := s.ledger.Report(spec)

	body, err := report.RenderXLSX(rep)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to render spreadsheet report", "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal membuat laporan")
		return
	}
	writeFile(w, contentTypeXLSX, rep.FileBase+".xlsx", body)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := backup.Export(&buf, s.ledger.Records()); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to export backup", "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal membuat backup")
		return
	}
	writeFile(w, "application/json", backup.FileName(s.now()), buf.Bytes())
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	records, err := backup.Import(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := s.ledger.Restore(r.Context(), records)
	if err != nil && !isSetupRequired(err) {
		s.logger.ErrorContext(r.Context(), "Restore failed", "restored", n, "error", err)
		writeError(w, http.StatusInternalServerError, "Gagal memulihkan backup")
		return
	}
	writeJSON(w, http.StatusOK, restoreResponse{Restored: n, SetupRequired: err != nil})
}
