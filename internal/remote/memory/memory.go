package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"arha/internal/core"
	"arha/internal/remote"
)

// Store is an in-process document store. Failures can be injected per
// operation to exercise the caller's fallback paths.
type Store struct {
	mu          sync.Mutex
	collections map[string]map[string]core.Transaction

	ListErr   error
	UpsertErr error
	DeleteErr error

	listCalls   int
	upsertCalls int
	deleteCalls int
}

var _ remote.DocumentStore = (*Store)(nil)

func New() *Store {
	return &Store{collections: make(map[string]map[string]core.Transaction)}
}

// Seed stores docs in collection without counting as calls.
func (s *Store) Seed(collection string, docs ...core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	for _, d := range docs {
		c[d.ID] = d
	}
}

// SetErrors replaces the injected failures.
func (s *Store) SetErrors(list, upsert, del error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListErr, s.UpsertErr, s.DeleteErr = list, upsert, del
}

func (s *Store) ListRecent(ctx context.Context, collection, sortField string, dir remote.SortDirection, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	less, err := lessFor(sortField)
	if err != nil {
		return nil, err
	}

	out := make([]core.Transaction, 0, len(s.collections[collection]))
	for _, d := range s.collections[collection] {
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if dir == remote.Ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) Upsert(ctx context.Context, collection, id string, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertCalls++
	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.collection(collection)[id] = t
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	delete(s.collection(collection), id)
	return nil
}

// Get returns the stored document.
func (s *Store) Get(collection, id string) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.collections[collection][id]
	return d, ok
}

// Len returns the number of documents in collection.
func (s *Store) Len(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

// Calls returns how many list, upsert and delete calls were made.
func (s *Store) Calls() (list, upsert, del int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listCalls, s.upsertCalls, s.deleteCalls
}

func (s *Store) collection(name string) map[string]core.Transaction {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]core.Transaction)
		s.collections[name] = c
	}
	return c
}

func lessFor(field string) (func(a, b core.Transaction) bool, error) {
	switch field {
	case "createdAt", "timestamp":
		return func(a, b core.Transaction) bool { return a.CreatedAt < b.CreatedAt }, nil
	case "date":
		return func(a, b core.Transaction) bool { return a.Date.Before(b.Date.Time) }, nil
	default:
		return nil, fmt.Errorf("unsupported sort field %q", field)
	}
}
