package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"arha/internal/core"
	"arha/internal/local"
	"arha/internal/remote"
)

// ErrSetupRequired is returned when the remote store refuses access because
// it has not been provisioned. It is the only remote failure callers see;
// every other one is logged and absorbed.
var ErrSetupRequired = errors.New("remote store setup required")

// GatewayConfig names the remote collection and how it is listed.
type GatewayConfig struct {
	Collection string
	SortField  string
	ListLimit  int
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Collection: "transactions",
		SortField:  "createdAt",
		ListLimit:  500,
	}
}

// Gateway persists transactions locally first and mirrors them to a remote
// document store on a best-effort basis. The local slot is the source of
// truth; the remote result replaces it only when it returns records.
//
// Save and Delete read, modify and write the whole slot without locking, so
// concurrent writers can overwrite each other's changes (last writer wins).
type Gateway struct {
	slot     local.Slot
	store    remote.DocumentStore
	cfg      GatewayConfig
	logger   *slog.Logger
	inflight atomic.Int32
}

func NewGateway(slot local.Slot, store remote.DocumentStore, cfg GatewayConfig, logger *slog.Logger) *Gateway {
	if store == nil {
		store = remote.Disabled{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultGatewayConfig()
	if cfg.Collection == "" {
		cfg.Collection = def.Collection
	}
	if cfg.SortField == "" {
		cfg.SortField = def.SortField
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = def.ListLimit
	}
	return &Gateway{slot: slot, store: store, cfg: cfg, logger: logger}
}

// Syncing reports whether any gateway operation is in flight.
func (g *Gateway) Syncing() bool {
	return g.inflight.Load() > 0
}

func (g *Gateway) begin() func() {
	g.inflight.Add(1)
	return func() { g.inflight.Add(-1) }
}

// LoadAll returns the full record set. The returned slice is always usable:
// when the error is ErrSetupRequired it holds the local records.
func (g *Gateway) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	defer g.begin()()

	records, err := g.readLocal(ctx)
	if err != nil {
		g.logger.WarnContext(ctx, "Local cache unreadable, continuing with empty set", "error", err)
		records = nil
	}

	remoteRecords, err := g.store.ListRecent(ctx, g.cfg.Collection, g.cfg.SortField, remote.Descending, g.cfg.ListLimit)
	if err != nil {
		if remote.IsNotProvisioned(err) {
			g.logger.WarnContext(ctx, "Remote store requires setup, serving local cache",
				"collection", g.cfg.Collection, "records", len(records), "error", err)
			return records, fmt.Errorf("%w: %w", ErrSetupRequired, err)
		}
		g.logger.WarnContext(ctx, "Remote list failed, serving local cache",
			"collection", g.cfg.Collection, "records", len(records), "error", err)
		return records, nil
	}

	if len(remoteRecords) == 0 {
		return records, nil
	}

	if err := g.writeLocal(ctx, remoteRecords); err != nil {
		g.logger.WarnContext(ctx, "Failed to refresh local cache from remote", "error", err)
	}
	g.logger.DebugContext(ctx, "Loaded records from remote", "collection", g.cfg.Collection, "records", len(remoteRecords))
	return remoteRecords, nil
}

// Save upserts t by ID: an existing record is replaced in place, a new one
// goes to the front. The local write completes before the remote attempt.
func (g *Gateway) Save(ctx context.Context, t core.Transaction) error {
	defer g.begin()()

	if t.ID == "" {
		return core.ErrEmptyID
	}

	records, err := g.readLocal(ctx)
	if err != nil {
		return fmt.Errorf("read local cache: %w", err)
	}
	if err := g.writeLocal(ctx, upsert(records, t)); err != nil {
		return fmt.Errorf("write local cache: %w", err)
	}

	if err := g.store.Upsert(ctx, g.cfg.Collection, t.ID, t); err != nil {
		// Same classifier as LoadAll: permission and not-found both mean setup.
		if remote.IsNotProvisioned(err) {
			g.logger.WarnContext(ctx, "Remote store requires setup, record kept locally", "id", t.ID, "error", err)
			return fmt.Errorf("%w: %w", ErrSetupRequired, err)
		}
		g.logger.WarnContext(ctx, "Remote upsert failed, record kept locally", "id", t.ID, "error", err)
	}
	return nil
}

// Delete removes id locally and then remotely. A missing ID is not an error
// and remote failures are never reported.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	defer g.begin()()

	records, err := g.readLocal(ctx)
	if err != nil {
		return fmt.Errorf("read local cache: %w", err)
	}
	if err := g.writeLocal(ctx, without(records, id)); err != nil {
		return fmt.Errorf("write local cache: %w", err)
	}

	if err := g.store.Delete(ctx, g.cfg.Collection, id); err != nil {
		g.logger.WarnContext(ctx, "Remote delete failed", "id", id, "error", err)
	}
	return nil
}

// readLocal decodes the slot. Missing or corrupt data yields an empty set;
// only slot I/O failures are returned.
func (g *Gateway) readLocal(ctx context.Context) ([]core.Transaction, error) {
	b, err := g.slot.Read(ctx)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	var records []core.Transaction
	if err := json.Unmarshal(b, &records); err != nil {
		g.logger.WarnContext(ctx, "Local cache is corrupt, treating as empty", "bytes", len(b), "error", err)
		return nil, nil
	}
	return records, nil
}

func (g *Gateway) writeLocal(ctx context.Context, records []core.Transaction) error {
	if records == nil {
		records = []core.Transaction{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return g.slot.Write(ctx, b)
}

func upsert(records []core.Transaction, t core.Transaction) []core.Transaction {
	for i := range records {
		if records[i].ID == t.ID {
			records[i] = t
			return records
		}
	}
	return append([]core.Transaction{t}, records...)
}

func without(records []core.Transaction, id string) []core.Transaction {
	out := records[:0]
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
