package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSlotMissingFileReadsNil(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "nested", "cache.json"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, err := s.Read(context.Background())
	if err != nil || b != nil {
		t.Fatalf("expected nil, nil; got %q, %v", b, err)
	}
}

func TestSlotWriteThenRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jasa-arha-db-v1.json")
	s, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Write(ctx, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Write(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != `[]` {
		t.Fatalf("got %s", b)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestNewRejectsEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatalf("expected error")
	}
}
