package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"arha/internal/local"

	_ "modernc.org/sqlite"
)

// SQLiteSlot keeps cache slots as rows of a SQLite table, one row per key.
// Several processes may share the database file; each write replaces the
// row in a single statement.
type SQLiteSlot struct {
	db  *sql.DB
	key string
}

var _ local.Slot = (*SQLiteSlot)(nil)

// OpenSQLiteSlot opens (creating if needed) the database at dbPath and
// returns the slot stored under key.
func OpenSQLiteSlot(dbPath, key string) (*SQLiteSlot, error) {
	if key == "" {
		key = local.DefaultKey
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	slog.Info("SQLite cache slot ready", "path", dbPath, "key", key, "schema_version", version)

	return &SQLiteSlot{db: db, key: key}, nil
}

func (s *SQLiteSlot) Key() string {
	return s.key
}

func (s *SQLiteSlot) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM cache_slots WHERE slot_key = ?`, s.key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", s.key, err)
	}
	if payload == nil {
		payload = []byte{}
	}
	return payload, nil
}

func (s *SQLiteSlot) Write(ctx context.Context, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_slots (slot_key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slot_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.key, data, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("write slot %q: %w", s.key, err)
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
