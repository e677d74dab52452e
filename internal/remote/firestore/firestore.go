// Package firestore mirrors transactions into a Cloud Firestore collection.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"arha/internal/core"
	"arha/internal/remote"
)

// Config selects the Firestore project and credentials. With neither
// credentials field set the client falls back to application default
// credentials.
type Config struct {
	ProjectID       string
	CredentialsFile string
	CredentialsJSON string
}

type Store struct {
	client *gfs.Client
}

var _ remote.DocumentStore = (*Store)(nil)

// document is the stored shape. Amounts are plain numbers so other clients
// of the collection can read them.
type document struct {
	ID             string  `firestore:"id"`
	Date           string  `firestore:"date"`
	Plate          string  `firestore:"plate"`
	OwnerName      string  `firestore:"ownerName"`
	ServiceType    string  `firestore:"serviceType"`
	AmountReceived float64 `firestore:"amountReceived"`
	ProcessingCost float64 `firestore:"processingCost"`
	Profit         float64 `firestore:"profit"`
	Notes          string  `firestore:"notes"`
	ProcessedBy    string  `firestore:"processedBy"`
	CreatedAt      int64   `firestore:"createdAt"`
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("missing Firestore project ID")
	}

	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := gfs.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", classify(err))
	}

	slog.InfoContext(ctx, "Firestore client created", "project_id", cfg.ProjectID)
	return &Store{client: client}, nil
}

func (s *Store) ListRecent(ctx context.Context, collection, sortField string, dir remote.SortDirection, limit int) ([]core.Transaction, error) {
	order := gfs.Desc
	if dir == remote.Ascending {
		order = gfs.Asc
	}
	q := s.client.Collection(collection).OrderBy(sortField, order)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []core.Transaction
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collection, classify(err))
		}
		var doc document
		if err := snap.DataTo(&doc); err != nil {
			slog.WarnContext(ctx, "Skipping undecodable document", "collection", collection, "doc_id", snap.Ref.ID, "error", err)
			continue
		}
		if doc.ID == "" {
			doc.ID = snap.Ref.ID
		}
		t, err := fromDocument(doc)
		if err != nil {
			slog.WarnContext(ctx, "Skipping invalid document", "collection", collection, "doc_id", snap.Ref.ID, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, collection, id string, t core.Transaction) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, toDocument(t)); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, classify(err))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, classify(err))
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// classify marks permission and missing-database failures as
// remote.ErrNotProvisioned and leaves everything else untouched.
func classify(err error) error {
	switch status.Code(err) {
	case codes.PermissionDenied, codes.NotFound, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", remote.ErrNotProvisioned, err)
	default:
		return err
	}
}

func toDocument(t core.Transaction) document {
	return document{
		ID:             t.ID,
		Date:           t.Date.String(),
		Plate:          t.Plate,
		OwnerName:      t.OwnerName,
		ServiceType:    string(t.ServiceType),
		AmountReceived: t.AmountReceived.InexactFloat64(),
		ProcessingCost: t.ProcessingCost.InexactFloat64(),
		Profit:         t.Profit.InexactFloat64(),
		Notes:          t.Notes,
		ProcessedBy:    t.ProcessedBy,
		CreatedAt:      t.CreatedAt,
	}
}

func fromDocument(d document) (core.Transaction, error) {
	date, err := core.ParseDate(d.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:             d.ID,
		Date:           date,
		Plate:          d.Plate,
		OwnerName:      d.OwnerName,
		ServiceType:    core.ServiceType(d.ServiceType),
		AmountReceived: core.MoneyFromFloat(d.AmountReceived),
		ProcessingCost: core.MoneyFromFloat(d.ProcessingCost),
		Profit:         core.MoneyFromFloat(d.Profit),
		Notes:          d.Notes,
		ProcessedBy:    d.ProcessedBy,
		CreatedAt:      d.CreatedAt,
	}, nil
}
