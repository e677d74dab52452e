package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func validForm() TransactionForm {
	return TransactionForm{
		Date:           "2024-03-05",
		Plate:          " dk 1  ab ",
		OwnerName:      "budi santoso",
		ServiceType:    "pengesahan",
		AmountReceived: "Rp 150.000",
		ProcessingCost: "100000",
		Notes:          " lunas ",
		ProcessedBy:    "arha",
	}
}

func TestTransactionFormBuild(t *testing.T) {
	tx, err := validForm().Build("id-1", 1709600000000)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.Plate != "DK 1 AB" || tx.OwnerName != "BUDI SANTOSO" || tx.ProcessedBy != "ARHA" {
		t.Fatalf("names not normalized: %+v", tx)
	}
	if tx.ServiceType != ServiceValidation {
		t.Fatalf("service type %q", tx.ServiceType)
	}
	if !tx.Date.Equal(NewDate(2024, time.March, 5).Time) {
		t.Fatalf("date %v", tx.Date)
	}
	if !tx.Profit.Equal(NewMoney(50000)) {
		t.Fatalf("profit %s want 50000", tx.Profit)
	}
	if tx.Notes != "lunas" || tx.ID != "id-1" || tx.CreatedAt != 1709600000000 {
		t.Fatalf("unexpected record %+v", tx)
	}
}

func TestTransactionFormBuildAllowsLoss(t *testing.T) {
	f := validForm()
	f.AmountReceived = "90000"
	tx, err := f.Build("id", 1)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !tx.Profit.Equal(NewMoney(-10000)) {
		t.Fatalf("profit %s want -10000", tx.Profit)
	}
}

func TestTransactionFormValidate(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*TransactionForm)
		field string
	}{
		{"missing date", func(f *TransactionForm) { f.Date = "" }, "date"},
		{"bad date", func(f *TransactionForm) { f.Date = "05-03-2024" }, "date"},
		{"blank plate", func(f *TransactionForm) { f.Plate = "   " }, "plate"},
		{"blank owner", func(f *TransactionForm) { f.OwnerName = "" }, "ownerName"},
		{"unknown type", func(f *TransactionForm) { f.ServiceType = "Servis" }, "serviceType"},
		{"zero received", func(f *TransactionForm) { f.AmountReceived = "0" }, "amountReceived"},
		{"non numeric received", func(f *TransactionForm) { f.AmountReceived = "gratis" }, "amountReceived"},
		{"missing cost", func(f *TransactionForm) { f.ProcessingCost = " " }, "processingCost"},
		{"missing operator", func(f *TransactionForm) { f.ProcessedBy = "" }, "processedBy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			tc.edit(&f)
			err := f.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected error on %s, got %v", tc.field, verr.Fields)
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("expected only %s, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestTransactionFormZeroCostAccepted(t *testing.T) {
	f := validForm()
	f.ProcessingCost = "0"
	if err := f.Validate(); err != nil {
		t.Fatalf("zero cost should be accepted, got %v", err)
	}
}

func TestTransactionFormBuildRequiresID(t *testing.T) {
	if _, err := validForm().Build(" ", 1); !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
}

func TestAmountInputJSON(t *testing.T) {
	var f TransactionForm
	body := `{"amountReceived":150000,"processingCost":"Rp 100.000"}`
	if err := json.Unmarshal([]byte(body), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.AmountReceived != "150000" || f.ProcessingCost != "Rp 100.000" {
		t.Fatalf("got %+v", f)
	}
}

func TestAmountInputJSONNumbers(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
		want  int64
	}{
		{"exponent", `{"amountReceived":1.5e5,"processingCost":100000}`, "", 150000},
		{"zero fraction", `{"amountReceived":150000.0,"processingCost":100000}`, "", 150000},
		{"fractional received", `{"amountReceived":150000.5,"processingCost":100000}`, "amountReceived", 0},
		{"negative received", `{"amountReceived":-150000,"processingCost":100000}`, "amountReceived", 0},
		{"negative cost", `{"amountReceived":150000,"processingCost":-5000}`, "processingCost", 0},
		{"fractional cost", `{"amountReceived":150000,"processingCost":0.5}`, "processingCost", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := validForm()
			if err := json.Unmarshal([]byte(tc.body), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			tx, err := f.Build("id", 1)
			if tc.field == "" {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				if !tx.AmountReceived.Equal(NewMoney(tc.want)) {
					t.Fatalf("received %s want %d", tx.AmountReceived, tc.want)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v (record %+v)", err, tx)
			}
			if _, ok := verr.Fields[tc.field]; !ok || len(verr.Fields) != 1 {
				t.Fatalf("expected only %s, got %v", tc.field, verr.Fields)
			}
		})
	}
}
