// Package remote defines the document store used as a best-effort mirror of
// the local cache.
package remote

import (
	"context"
	"errors"
	"strings"

	"arha/internal/core"
)

// SortDirection orders ListRecent results.
type SortDirection int

const (
	Descending SortDirection = iota
	Ascending
)

// ErrNotProvisioned reports that the store rejected the call because the
// collection is missing or the credentials are not allowed to use it. Adapters
// wrap it so callers can tell it apart from transient failures.
var ErrNotProvisioned = errors.New("remote store not provisioned")

// DocumentStore is the remote mirror. Each call is a single attempt.
type DocumentStore interface {
	// ListRecent returns up to limit documents of collection ordered by
	// sortField.
	ListRecent(ctx context.Context, collection, sortField string, dir SortDirection, limit int) ([]core.Transaction, error)
	// Upsert writes t as document id, replacing any existing one.
	Upsert(ctx context.Context, collection, id string, t core.Transaction) error
	Delete(ctx context.Context, collection, id string) error
}

var notProvisionedMarkers = []string{
	"permission-denied",
	"permissiondenied",
	"permission_denied",
	"not-found",
	"notfound",
	"not_found",
}

// IsNotProvisioned classifies err as a setup problem rather than a transient
// failure. Besides ErrNotProvisioned it recognises the status names used by
// gRPC and REST document stores inside the error text.
func IsNotProvisioned(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotProvisioned) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range notProvisionedMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Disabled is the store used when no remote backend is configured. It
// behaves like an empty, always reachable mirror.
type Disabled struct{}

var _ DocumentStore = Disabled{}

func (Disabled) ListRecent(context.Context, string, string, SortDirection, int) ([]core.Transaction, error) {
	return nil, nil
}

func (Disabled) Upsert(context.Context, string, string, core.Transaction) error {
	return nil
}

func (Disabled) Delete(context.Context, string, string) error {
	return nil
}
