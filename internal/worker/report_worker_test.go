package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arha/internal/amqp"
	"arha/internal/core"
	"arha/internal/services"
)

type stubLoader struct {
	records []core.Transaction
	err     error
	calls   int
}

func (s *stubLoader) LoadAll(context.Context) ([]core.Transaction, error) {
	s.calls++
	return s.records, s.err
}

func tx(id string, date core.Date, profit int64) core.Transaction {
	return core.Transaction{
		ID: id, Date: date, Plate: "DK " + id, OwnerName: "BUDI",
		ServiceType: core.ServiceValidation, Profit: core.NewMoney(profit), ProcessedBy: "ARHA",
	}
}

func newTestWorker(t *testing.T, loader RecordLoader) (*ReportWorker, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "reports")
	w, err := NewReportWorker(loader, dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewReportWorker: %v", err)
	}
	return w, dir
}

func TestHandleEventWritesBothReports(t *testing.T) {
	loader := &stubLoader{records: []core.Transaction{
		tx("1", core.NewDate(2024, time.March, 5), 50000),
		tx("2", core.NewDate(2024, time.April, 1), 99000),
		tx("3", core.NewDate(2024, time.March, 20), -10000),
	}}
	w, dir := newTestWorker(t, loader)

	ev := amqp.NewTransactionEvent(amqp.ActionSaved, "1", core.NewDate(2024, time.March, 5))
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	for _, name := range []string{"Laporan_Arha_MARET_2024.pdf", "Laporan_Arha_MARET_2024.xlsx"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestRenderUsesOnlyTheEventMonth(t *testing.T) {
	loader := &stubLoader{records: []core.Transaction{
		tx("1", core.NewDate(2024, time.March, 5), 50000),
		tx("2", core.NewDate(2024, time.April, 1), 99000),
		tx("3", core.NewDate(2024, time.March, 20), -10000),
	}}
	w, _ := newTestWorker(t, loader)

	rep, err := w.Render(context.Background(), core.FilterSpec{Month: time.March, Year: 2024})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if rep.Count != 2 || !rep.TotalProfit.Equal(core.NewMoney(40000)) {
		t.Fatalf("got %d records, total %s", rep.Count, rep.TotalProfit)
	}
}

func TestHandleEventWithoutDateIsIgnored(t *testing.T) {
	loader := &stubLoader{}
	w, _ := newTestWorker(t, loader)

	ev := &amqp.TransactionEvent{Action: amqp.ActionDeleted, ID: "gone"}
	if err := w.HandleEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if loader.calls != 0 {
		t.Fatalf("nothing should be loaded for an undated event")
	}
}

func TestRenderSetupRequiredUsesLocalRecords(t *testing.T) {
	loader := &stubLoader{
		records: []core.Transaction{tx("1", core.NewDate(2024, time.March, 5), 50000)},
		err:     fmt.Errorf("%w: denied", services.ErrSetupRequired),
	}
	w, _ := newTestWorker(t, loader)

	rep, err := w.Render(context.Background(), core.FilterSpec{Month: time.March, Year: 2024})
	if err != nil {
		t.Fatalf("setup required must not stop rendering: %v", err)
	}
	if rep.Count != 1 {
		t.Fatalf("got %d records", rep.Count)
	}
}

func TestRenderPropagatesLoadFailure(t *testing.T) {
	loader := &stubLoader{err: errors.New("disk on fire")}
	w, _ := newTestWorker(t, loader)

	ev := amqp.NewTransactionEvent(amqp.ActionSaved, "1", core.NewDate(2024, time.March, 5))
	if err := w.HandleEvent(context.Background(), ev); err == nil {
		t.Fatalf("expected error so the event is requeued")
	}
}

func TestStartupCheckRendersCurrentMonth(t *testing.T) {
	w, dir := newTestWorker(t, &stubLoader{})
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)

	if err := w.StartupCheck(context.Background(), now); err != nil {
		t.Fatalf("StartupCheck: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Laporan_Arha_OKTOBER_2026.pdf")); err != nil {
		t.Fatalf("expected current month report: %v", err)
	}
}
