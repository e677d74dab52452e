package memory

import (
	"context"
	"sync"

	"arha/internal/local"
)

// Slot keeps the cached value in process memory. Used for tests and for
// ephemeral runs without a data directory.
type Slot struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

var _ local.Slot = (*Slot)(nil)

func New() *Slot {
	return &Slot{}
}

// NewWithData seeds the slot, e.g. with a corrupt payload in tests.
func NewWithData(data []byte) *Slot {
	return &Slot{data: append([]byte(nil), data...)}
}

func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

func (s *Slot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.writes++
	return nil
}

// Writes returns how many times the slot has been written.
func (s *Slot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
