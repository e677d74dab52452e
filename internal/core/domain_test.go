package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseServiceType(t *testing.T) {
	cases := []struct {
		in   string
		want ServiceType
		ok   bool
	}{
		{"Pengesahan", ServiceValidation, true},
		{"ganti stnk", ServicePlateRenewal, true},
		{"  Balik Nama ", ServiceOwnershipTransfer, true},
		{"MUTASI", ServiceRelocation, true},
		{"", "", false},
		{"Servis", "", false},
	}
	for i, tc := range cases {
		got, err := ParseServiceType(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok {
			if !errors.Is(err, ErrInvalidServiceType) {
				t.Fatalf("case %d expected ErrInvalidServiceType, got %v", i, err)
			}
			continue
		}
		if got != tc.want {
			t.Fatalf("case %d got %q want %q", i, got, tc.want)
		}
	}
}

func TestServiceTypeLabel(t *testing.T) {
	if got := ServicePlateRenewal.Label(); got != "GANTI STNK" {
		t.Fatalf("Label() = %q", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.March, 5)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-05"` {
		t.Fatalf("marshal got %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip got %v want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"05/03/2024"`), &back); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if err := json.Unmarshal([]byte(`20240305`), &back); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for number, got %v", err)
	}
}

func TestDateInMonth(t *testing.T) {
	d := NewDate(2024, time.March, 31)
	if !d.InMonth(time.March, 2024) {
		t.Fatalf("expected March 2024")
	}
	if d.InMonth(time.March, 2023) || d.InMonth(time.April, 2024) {
		t.Fatalf("unexpected match")
	}
}

func TestTransactionJSONKeepsStoredProfit(t *testing.T) {
	tx := Transaction{
		ID:             "a",
		Date:           NewDate(2024, time.March, 5),
		Plate:          "DK 1 AB",
		OwnerName:      "BUDI",
		ServiceType:    ServiceValidation,
		AmountReceived: NewMoney(100000),
		ProcessingCost: NewMoney(40000),
		Profit:         NewMoney(55000),
		Notes:          "titip",
		ProcessedBy:    "ARHA",
		CreatedAt:      1709600000000,
	}

	b, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"profit":55000`, `"amountReceived":100000`, `"serviceType":"Pengesahan"`, `"createdAt":1709600000000`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("encoded %s missing %s", b, want)
		}
	}

	var back Transaction
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(tx) {
		t.Fatalf("round trip mismatch: got %+v want %+v", back, tx)
	}
	if !back.Profit.Equal(NewMoney(55000)) {
		t.Fatalf("profit recomputed: %s", back.Profit)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &ValidationError{}
	verr.Add("plate", "required")
	verr.Add("date", "required")
	verr.Add("plate", "ignored")
	if got := verr.Error(); got != "validation failed: date: required; plate: required" {
		t.Fatalf("Error() = %q", got)
	}
}
