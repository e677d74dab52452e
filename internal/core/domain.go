package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the on-disk and on-wire representation of a transaction date.
const DateLayout = "2006-01-02"

const (
	ServiceValidation        ServiceType = "Pengesahan"
	ServicePlateRenewal      ServiceType = "Ganti STNK"
	ServiceOwnershipTransfer ServiceType = "Balik Nama"
	ServiceRelocation        ServiceType = "Mutasi"
)

type (
	// ServiceType is the kind of vehicle-document service performed.
	ServiceType string

	// Date is a calendar day without time of day.
	Date struct {
		time.Time
	}

	// Transaction is one recorded service job. Profit is stored as it was
	// computed at save time and is never derived again from the amounts.
	Transaction struct {
		ID             string      `json:"id"`
		Date           Date        `json:"date"`
		Plate          string      `json:"plate"`
		OwnerName      string      `json:"ownerName"`
		ServiceType    ServiceType `json:"serviceType"`
		AmountReceived Money       `json:"amountReceived"`
		ProcessingCost Money       `json:"processingCost"`
		Profit         Money       `json:"profit"`
		Notes          string      `json:"notes"`
		ProcessedBy    string      `json:"processedBy"`
		CreatedAt      int64       `json:"createdAt"`
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyID            = errors.New("empty transaction id")
)

// ServiceTypes lists every service type in display order.
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceValidation, ServicePlateRenewal, ServiceOwnershipTransfer, ServiceRelocation}
}

func (s ServiceType) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known service types.
func (s ServiceType) IsValid() bool {
	switch s {
	case ServiceValidation, ServicePlateRenewal, ServiceOwnershipTransfer, ServiceRelocation:
		return true
	default:
		return false
	}
}

// Label is the upper-case form used in exported reports.
func (s ServiceType) Label() string {
	return strings.ToUpper(string(s))
}

// ParseServiceType matches s against the known service types ignoring case
// and surrounding whitespace.
func ParseServiceType(s string) (ServiceType, error) {
	s = strings.TrimSpace(s)
	for _, st := range ServiceTypes() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidServiceType, s)
}

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// InMonth reports whether the date falls in the given calendar month.
func (d Date) InMonth(month time.Month, year int) bool {
	return d.Month() == month && d.Year() == year
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Equal compares every persisted field.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Date.Equal(o.Date.Time) &&
		t.Plate == o.Plate &&
		t.OwnerName == o.OwnerName &&
		t.ServiceType == o.ServiceType &&
		t.AmountReceived.Equal(o.AmountReceived) &&
		t.ProcessingCost.Equal(o.ProcessingCost) &&
		t.Profit.Equal(o.Profit) &&
		t.Notes == o.Notes &&
		t.ProcessedBy == o.ProcessedBy &&
		t.CreatedAt == o.CreatedAt
}

// ValidationError collects per-field problems found in user input.
type ValidationError struct {
	Fields map[string]string
}

// Add records a message for field, keeping the first one reported.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
