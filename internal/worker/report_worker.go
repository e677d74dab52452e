package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"arha/internal/amqp"
	"arha/internal/core"
	"arha/internal/projection"
	"arha/internal/report"
	"arha/internal/services"
)

// RecordLoader is satisfied by *services.Gateway.
type RecordLoader interface {
	LoadAll(ctx context.Context) ([]core.Transaction, error)
}

// ReportWorker keeps rendered monthly reports on disk up to date. Each
// change event re-renders the month the changed record belongs to.
type ReportWorker struct {
	loader RecordLoader
	dir    string
	logger *slog.Logger
}

func NewReportWorker(loader RecordLoader, dir string, logger *slog.Logger) (*ReportWorker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWorker{loader: loader, dir: dir, logger: logger}, nil
}

// HandleEvent renders the reports for the event's month. Events without a
// date (a delete of a record the publisher never saw) are acknowledged and
// ignored.
func (w *ReportWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	if ev.Date == "" {
		w.logger.InfoContext(ctx, "Event has no date, nothing to render", "action", ev.Action, "id", ev.ID)
		return nil
	}
	month, year, err := ev.Period()
	if err != nil {
		w.logger.WarnContext(ctx, "Event has an unusable date, skipping", "id", ev.ID, "date", ev.Date, "error", err)
		return nil
	}

	w.logger.InfoContext(ctx, "Processing transaction event",
		"action", ev.Action, "id", ev.ID, "month", month, "year", year)
	_, err = w.Render(ctx, core.FilterSpec{Month: month, Year: year})
	return err
}

// StartupCheck renders the current month so a freshly started worker has
// reports even before the first event arrives.
func (w *ReportWorker) StartupCheck(ctx context.Context, now time.Time) error {
	_, err := w.Render(ctx, core.MonthFilter(now))
	return err
}

// Render writes <FileBase>.pdf and <FileBase>.xlsx for spec and returns the
// report it rendered.
func (w *ReportWorker) Render(ctx context.Context, spec core.FilterSpec) (projection.Report, error) {
	records, err := w.loader.LoadAll(ctx)
	if err != nil {
		if !errors.Is(err, services.ErrSetupRequired) {
			return projection.Report{}, fmt.Errorf("load records: %w", err)
		}
		w.logger.WarnContext(ctx, "Remote store requires setup, rendering from local cache", "error", err)
	}

	rep := projection.NewReport(projection.Project(records, spec))

	var pdf bytes.Buffer
	if err := report.RenderPDF(&pdf, rep); err != nil {
		return rep, fmt.Errorf("render pdf: %w", err)
	}
	xlsx, err := report.RenderXLSX(rep)
	if err != nil {
		return rep, fmt.Errorf("render xlsx: %w", err)
	}

	if err := writeFileAtomic(filepath.Join(w.dir, rep.FileBase+".pdf"), pdf.Bytes()); err != nil {
		return rep, err
	}
	if err := writeFileAtomic(filepath.Join(w.dir, rep.FileBase+".xlsx"), xlsx); err != nil {
		return rep, err
	}

	w.logger.InfoContext(ctx, "Reports rendered",
		"file_base", rep.FileBase, "records", rep.Count, "total_profit", rep.TotalProfit.String())
	return rep, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
