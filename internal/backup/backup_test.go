package backup

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"arha/internal/core"
)

func records() []core.Transaction {
	return []core.Transaction{
		{
			ID: "b", Date: core.NewDate(2024, time.March, 9), Plate: "DK 2 CD", OwnerName: "SITI",
			ServiceType: core.ServicePlateRenewal, AmountReceived: core.NewMoney(200000),
			ProcessingCost: core.NewMoney(150000), Profit: core.NewMoney(12345),
			Notes: "profit edited by hand", ProcessedBy: "ARHA", CreatedAt: 1710000000000,
		},
		{
			ID: "a", Date: core.NewDate(2024, time.March, 5), Plate: "DK 1 AB", OwnerName: "BUDI",
			ServiceType: core.ServiceValidation, AmountReceived: core.NewMoney(100000),
			ProcessingCost: core.NewMoney(110000), Profit: core.NewMoney(-10000),
			ProcessedBy: "ARHA", CreatedAt: 1709600000000,
		},
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.Date(2026, time.October, 19, 23, 0, 0, 0, time.UTC))
	if got != "backup-jasa-arha-2026-10-19.json" {
		t.Fatalf("got %q", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, records()); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  {\n    \"id\": \"b\"") {
		t.Fatalf("expected two-space indentation, got:\n%s", buf.String())
	}

	got, err := Import(&buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	want := records()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("record %d differs:\n got %+v\nwant %+v", i, got[i], want[i])
		}
	}
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, nil); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("got %q", buf.String())
	}
	got, err := Import(&buf)
	if err != nil || len(got) != 0 {
		t.Fatalf("Import empty = %v, %v", got, err)
	}
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `[{"id":`},
		{"object instead of array", `{"id":"a"}`},
		{"missing profit", `[{"id":"a","date":"2024-03-05","plate":"X","ownerName":"Y","serviceType":"Mutasi","amountReceived":1,"processingCost":1,"processedBy":"Z","createdAt":1}]`},
		{"unknown service", `[{"id":"a","date":"2024-03-05","plate":"X","ownerName":"Y","serviceType":"Servis","amountReceived":1,"processingCost":1,"profit":0,"processedBy":"Z","createdAt":1}]`},
		{"bad date", `[{"id":"a","date":"05/03/2024","plate":"X","ownerName":"Y","serviceType":"Mutasi","amountReceived":1,"processingCost":1,"profit":0,"processedBy":"Z","createdAt":1}]`},
		{"fractional createdAt", `[{"id":"a","date":"2024-03-05","plate":"X","ownerName":"Y","serviceType":"Mutasi","amountReceived":1,"processingCost":1,"profit":0,"processedBy":"Z","createdAt":1.5}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.body))
			if !errors.Is(err, ErrInvalidBackup) {
				t.Fatalf("expected ErrInvalidBackup, got %v", err)
			}
		})
	}
}
