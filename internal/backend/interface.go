package backend

import (
	"context"

	"arha/internal/local"
	"arha/internal/remote"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult is the storage pair a Gateway is built from.
type BackendResult struct {
	Slot    local.Slot
	Store   remote.DocumentStore
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Local  LocalType
	Remote RemoteType

	// local
	SQLiteDBPath   string
	LocalCacheFile string
	LocalCacheKey  string

	// remote
	FirestoreProjectID    string
	GoogleSpreadsheetID   string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
}

// LocalType selects where the local cache slot lives.
type LocalType string

const (
	LocalSQLite LocalType = "sqlite"
	LocalFile   LocalType = "file"
	LocalMemory LocalType = "memory"
)

func (t LocalType) String() string { return string(t) }

func (t LocalType) IsValid() bool {
	switch t {
	case LocalSQLite, LocalFile, LocalMemory:
		return true
	default:
		return false
	}
}

// RemoteType selects the remote mirror.
type RemoteType string

const (
	RemoteNone      RemoteType = "none"
	RemoteMemory    RemoteType = "memory"
	RemoteFirestore RemoteType = "firestore"
	RemoteSheets    RemoteType = "sheets"
)

func (t RemoteType) String() string { return string(t) }

func (t RemoteType) IsValid() bool {
	switch t {
	case RemoteNone, RemoteMemory, RemoteFirestore, RemoteSheets:
		return true
	default:
		return false
	}
}
