package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"arha/internal/core"
	"arha/internal/projection"
)

func sampleReport() projection.Report {
	records := []core.Transaction{
		{ID: "1", Date: core.NewDate(2024, time.March, 5), Plate: "DK 1 AB", OwnerName: "BUDI",
			ServiceType: core.ServiceValidation, Profit: core.NewMoney(50000)},
		{ID: "2", Date: core.NewDate(2024, time.March, 9), Plate: "DK 2 CD", OwnerName: "SITI NURHALIZA BINTI ABDULLAH RAHMAN",
			ServiceType: core.ServiceOwnershipTransfer, Profit: core.NewMoney(-10000)},
		{ID: "3", Date: core.NewDate(2024, time.March, 20), Plate: "B 3 EF", OwnerName: "ANDI",
			ServiceType: core.ServiceRelocation, Profit: core.NewMoney(30000)},
	}
	return projection.NewReport(projection.Project(records, core.FilterSpec{Month: time.March, Year: 2024}))
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   core.Money
		want string
	}{
		{core.NewMoney(0), "0"},
		{core.NewMoney(950), "950"},
		{core.NewMoney(50000), "50.000"},
		{core.NewMoney(1500000), "1.500.000"},
		{core.NewMoney(-10000), "-10.000"},
	}
	for _, tt := range tests {
		if got := FormatRupiah(tt.in); got != tt.want {
			t.Errorf("FormatRupiah(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, sampleReport()); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
}

func TestRenderPDFEmptyMonth(t *testing.T) {
	r := projection.NewReport(projection.Project(nil, core.FilterSpec{Month: time.June, Year: 2025}))
	var buf bytes.Buffer
	if err := RenderPDF(&buf, r); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("empty output")
	}
}

func TestRenderPDFManyRowsPaginates(t *testing.T) {
	var records []core.Transaction
	for i := 0; i < 120; i++ {
		records = append(records, core.Transaction{
			ID: "x", Date: core.NewDate(2024, time.March, 1), Plate: "DK 1 AB", OwnerName: "BUDI",
			ServiceType: core.ServiceValidation, Profit: core.NewMoney(1000),
		})
	}
	r := projection.NewReport(projection.Project(records, core.FilterSpec{Month: time.March, Year: 2024}))
	var buf bytes.Buffer
	if err := RenderPDF(&buf, r); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	// one "/Type /Pages" plus one "/Type /Page" per page
	if n := bytes.Count(buf.Bytes(), []byte("/Type /Page")); n < 3 {
		t.Fatalf("expected several pages, got %d page markers", n)
	}
}

func TestRenderXLSX(t *testing.T) {
	r := sampleReport()
	b, err := RenderXLSX(r)
	if err != nil {
		t.Fatalf("RenderXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if rows[0][0] != r.Title {
		t.Fatalf("title = %q", rows[0][0])
	}
	if strings.Join(rows[2], "|") != strings.Join(xlsxHeaders, "|") {
		t.Fatalf("header = %v", rows[2])
	}
	// title, blank, header, 3 records, total
	if len(rows) != 7 {
		t.Fatalf("got %d rows: %v", len(rows), rows)
	}
	if rows[4][2] != "DK 2 CD" || rows[4][4] != "BALIK NAMA" {
		t.Fatalf("second record = %v", rows[4])
	}

	total, err := f.GetCellValue(xlsxSheet, "F7", excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if total != "70000" {
		t.Fatalf("total = %q, want 70000", total)
	}
}
