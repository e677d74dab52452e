package core

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountInput is a form amount. Clients may send it as a JSON string
// ("Rp 150.000") or as a plain number. A number must be a whole,
// non-negative rupiah value; any other number is kept behind
// rejectedAmountMark so Validate reports it.
type AmountInput string

const rejectedAmountMark = "!"

func (a AmountInput) rejected() bool {
	return strings.HasPrefix(string(a), rejectedAmountMark)
}

func (a *AmountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountInput(s)
		return nil
	}
	if string(b) == "null" {
		*a = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return err
	}
	if d.IsNegative() || !d.IsInteger() {
		*a = AmountInput(rejectedAmountMark + n.String())
		return nil
	}
	*a = AmountInput(d.String())
	return nil
}

// TransactionForm is the user-entered shape of a transaction before it is
// validated and normalized.
type TransactionForm struct {
	Date           string      `json:"date"`
	Plate          string      `json:"plate"`
	OwnerName      string      `json:"ownerName"`
	ServiceType    string      `json:"serviceType"`
	AmountReceived AmountInput `json:"amountReceived"`
	ProcessingCost AmountInput `json:"processingCost"`
	Notes          string      `json:"notes"`
	ProcessedBy    string      `json:"processedBy"`
}

// Validate checks the form and returns a *ValidationError listing every
// offending field, or nil.
func (f TransactionForm) Validate() error {
	verr := &ValidationError{}

	if strings.TrimSpace(f.Date) == "" {
		verr.Add("date", "Tanggal wajib diisi")
	} else if _, err := ParseDate(f.Date); err != nil {
		verr.Add("date", "Format tanggal harus YYYY-MM-DD")
	}
	if strings.TrimSpace(f.Plate) == "" {
		verr.Add("plate", "Nomor polisi wajib diisi")
	}
	if strings.TrimSpace(f.OwnerName) == "" {
		verr.Add("ownerName", "Nama wajib pajak wajib diisi")
	}
	if _, err := ParseServiceType(f.ServiceType); err != nil {
		verr.Add("serviceType", "Jenis layanan tidak valid")
	}
	switch {
	case f.AmountReceived.rejected():
		verr.Add("amountReceived", "Uang diterima harus bilangan bulat")
	case !ParseRupiahInput(string(f.AmountReceived)).IsPositive():
		verr.Add("amountReceived", "Uang diterima harus lebih dari 0")
	}
	switch {
	case strings.TrimSpace(string(f.ProcessingCost)) == "":
		verr.Add("processingCost", "Biaya proses wajib diisi")
	case f.ProcessingCost.rejected():
		verr.Add("processingCost", "Biaya proses harus bilangan bulat tidak negatif")
	}
	if strings.TrimSpace(f.ProcessedBy) == "" {
		verr.Add("processedBy", "Nama petugas wajib diisi")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Build validates the form and produces the record to persist. Plate, owner
// and operator names are trimmed and upper-cased; profit is fixed here as
// received minus cost.
func (f TransactionForm) Build(id string, createdAt int64) (Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return Transaction{}, ErrEmptyID
	}
	if err := f.Validate(); err != nil {
		return Transaction{}, err
	}

	date, _ := ParseDate(f.Date)
	st, _ := ParseServiceType(f.ServiceType)
	received := ParseRupiahInput(string(f.AmountReceived))
	cost := ParseRupiahInput(string(f.ProcessingCost))

	return Transaction{
		ID:             id,
		Date:           date,
		Plate:          normalizeName(f.Plate),
		OwnerName:      normalizeName(f.OwnerName),
		ServiceType:    st,
		AmountReceived: received,
		ProcessingCost: cost,
		Profit:         received.Sub(cost),
		Notes:          strings.TrimSpace(f.Notes),
		ProcessedBy:    normalizeName(f.ProcessedBy),
		CreatedAt:      createdAt,
	}, nil
}

func normalizeName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
