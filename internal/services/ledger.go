package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"arha/internal/amqp"
	"arha/internal/core"
	"arha/internal/projection"
)

// EventPublisher announces record changes. *amqp.Client satisfies it.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}

// Status is what the UI shows next to the list.
type Status struct {
	Syncing       bool      `json:"syncing"`
	SetupRequired bool      `json:"setupRequired"`
	Records       int       `json:"records"`
	LastRefresh   time.Time `json:"lastRefresh"`
}

// Ledger is the application service behind the HTTP API. It keeps the last
// loaded record set in memory, feeds it to the projection engine, and
// refreshes it after every write.
type Ledger struct {
	gateway   *Gateway
	engine    *projection.Engine
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string

	mu            sync.RWMutex
	records       []core.Transaction
	setupRequired bool
	lastRefresh   time.Time
}

type LedgerOption func(*Ledger)

func WithPublisher(p EventPublisher) LedgerOption {
	return func(l *Ledger) { l.publisher = p }
}

func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(gen func() string) LedgerOption {
	return func(l *Ledger) { l.newID = gen }
}

func NewLedger(gateway *Gateway, engine *projection.Engine, logger *slog.Logger, opts ...LedgerOption) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = projection.NewEngine(0)
	}
	l := &Ledger{
		gateway: gateway,
		engine:  engine,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Refresh reloads every record through the gateway. On ErrSetupRequired the
// local records are still installed and the banner is raised.
func (l *Ledger) Refresh(ctx context.Context) error {
	records, err := l.gateway.LoadAll(ctx)
	setup := errors.Is(err, ErrSetupRequired)
	if err != nil && !setup {
		return fmt.Errorf("load records: %w", err)
	}

	l.mu.Lock()
	l.records = records
	l.setupRequired = setup
	l.lastRefresh = l.now()
	l.mu.Unlock()
	l.engine.SetRecords(records)

	l.logger.DebugContext(ctx, "Records refreshed", "records", len(records), "setup_required", setup)
	return err
}

// Create validates form and stores it as a new record.
func (l *Ledger) Create(ctx context.Context, form core.TransactionForm) (core.Transaction, error) {
	if err := form.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx, err := form.Build(l.newID(), l.now().UnixMilli())
	if err != nil {
		return core.Transaction{}, err
	}
	return tx, l.save(ctx, tx)
}

// Update replaces the record with the given ID. The original creation time
// is kept so the remote listing order does not change on edit.
func (l *Ledger) Update(ctx context.Context, id string, form core.TransactionForm) (core.Transaction, error) {
	if err := form.Validate(); err != nil {
		return core.Transaction{}, err
	}
	createdAt := l.now().UnixMilli()
	if existing, ok := l.Get(id); ok {
		createdAt = existing.CreatedAt
	}
	tx, err := form.Build(id, createdAt)
	if err != nil {
		return core.Transaction{}, err
	}
	return tx, l.save(ctx, tx)
}

func (l *Ledger) save(ctx context.Context, tx core.Transaction) error {
	saveErr := l.gateway.Save(ctx, tx)
	setup := errors.Is(saveErr, ErrSetupRequired)

	if err := l.Refresh(ctx); err != nil && !errors.Is(err, ErrSetupRequired) {
		l.logger.WarnContext(ctx, "Refresh after save failed", "id", tx.ID, "error", err)
	}
	if saveErr != nil && !setup {
		return fmt.Errorf("save transaction: %w", saveErr)
	}
	if setup {
		l.raiseSetupBanner()
	}

	l.publish(ctx, amqp.NewTransactionEvent(amqp.ActionSaved, tx.ID, tx.Date))
	return saveErr
}

// Delete removes id. Deleting an unknown ID succeeds.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	existing, known := l.Get(id)

	if err := l.gateway.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := l.Refresh(ctx); err != nil && !errors.Is(err, ErrSetupRequired) {
		l.logger.WarnContext(ctx, "Refresh after delete failed", "id", id, "error", err)
	}

	ev := amqp.NewTransactionEvent(amqp.ActionDeleted, id, existing.Date)
	if !known {
		ev.Date = ""
	}
	l.publish(ctx, ev)
	return nil
}

// Restore saves every record of a backup. Records are written oldest first
// so the cache ends up newest first, matching a normal history of creates.
func (l *Ledger) Restore(ctx context.Context, records []core.Transaction) (int, error) {
	var setup error
	restored := 0
	for i := len(records) - 1; i >= 0; i-- {
		err := l.gateway.Save(ctx, records[i])
		switch {
		case err == nil:
		case errors.Is(err, ErrSetupRequired):
			setup = err
		default:
			return restored, fmt.Errorf("restore %s: %w", records[i].ID, err)
		}
		restored++
	}

	if err := l.Refresh(ctx); err != nil && !errors.Is(err, ErrSetupRequired) {
		l.logger.WarnContext(ctx, "Refresh after restore failed", "error", err)
	}
	if setup != nil {
		l.raiseSetupBanner()
	}
	l.logger.InfoContext(ctx, "Backup restored", "records", restored)
	return restored, setup
}

func (l *Ledger) Get(id string) (core.Transaction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return core.Transaction{}, false
}

// Records returns a copy of the loaded records in storage order.
func (l *Ledger) Records() []core.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]core.Transaction(nil), l.records...)
}

func (l *Ledger) View(spec core.FilterSpec) projection.View {
	return l.engine.View(spec)
}

func (l *Ledger) Report(spec core.FilterSpec) projection.Report {
	return l.engine.Report(spec)
}

func (l *Ledger) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Status{
		Syncing:       l.gateway.Syncing(),
		SetupRequired: l.setupRequired,
		Records:       len(l.records),
		LastRefresh:   l.lastRefresh,
	}
}

func (l *Ledger) raiseSetupBanner() {
	l.mu.Lock()
	l.setupRequired = true
	l.mu.Unlock()
}

func (l *Ledger) publish(ctx context.Context, ev *amqp.TransactionEvent) {
	if l.publisher == nil {
		return
	}
	if err := l.publisher.PublishTransactionEvent(ctx, ev); err != nil {
		l.logger.WarnContext(ctx, "Failed to publish transaction event",
			"action", ev.Action, "id", ev.ID, "error", err)
	}
}
