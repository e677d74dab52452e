package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"arha/internal/core"
)

var errBadRequest = errors.New("bad request")

// parseFilter reads month, year, plate and type from the query. Month and
// year default to now; month is 1-12.
func parseFilter(r *http.Request, now time.Time) (core.FilterSpec, error) {
	q := r.URL.Query()
	spec := core.MonthFilter(now)

	if v := strings.TrimSpace(q.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return spec, fmt.Errorf("%w: month %q is not a number", errBadRequest, v)
		}
		spec.Month = time.Month(m)
	}
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return spec, fmt.Errorf("%w: year %q is not a number", errBadRequest, v)
		}
		spec.Year = y
	}
	// Plate matching is a raw substring test, so spaces are significant.
	spec.PlatePattern = stripControl(q.Get("plate"))
	if v := strings.TrimSpace(q.Get("type")); v != "" {
		st, err := core.ParseServiceType(v)
		if err != nil {
			return spec, fmt.Errorf("%w: %w", errBadRequest, err)
		}
		spec.ServiceType = st
	}

	if err := spec.Validate(); err != nil {
		return spec, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return spec, nil
}

// decodeForm reads a transaction form from a JSON body.
func decodeForm(w http.ResponseWriter, r *http.Request) (core.TransactionForm, error) {
	var f core.TransactionForm
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&f); err != nil {
		return f, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	f.Date = sanitizeInput(f.Date)
	f.Plate = sanitizeInput(f.Plate)
	f.OwnerName = sanitizeInput(f.OwnerName)
	f.ServiceType = sanitizeInput(f.ServiceType)
	f.AmountReceived = core.AmountInput(sanitizeInput(string(f.AmountReceived)))
	f.ProcessingCost = core.AmountInput(sanitizeInput(string(f.ProcessingCost)))
	f.Notes = sanitizeInput(f.Notes)
	f.ProcessedBy = sanitizeInput(f.ProcessedBy)
	return f, nil
}

// sanitizeInput removes control characters (keeping tab and newlines) and
// trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(stripControl(s))
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
