package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"arha/internal/local"
	"arha/internal/local/file"
	localmem "arha/internal/local/memory"
	"arha/internal/remote"
	"arha/internal/remote/firestore"
	"arha/internal/remote/google"
	remotemem "arha/internal/remote/memory"
	"arha/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the local slot and the remote store. When the remote
// store cannot be created the slot is closed again.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	slot, closeSlot, err := f.createSlot(config)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := f.createStore(ctx, config)
	if err != nil {
		if closeSlot != nil {
			_ = closeSlot()
		}
		return nil, err
	}

	f.logger.Info("Initialized storage backends", "local", config.Local, "remote", config.Remote)

	return &BackendResult{
		Slot:  slot,
		Store: store,
		Cleanup: func() error {
			var errs []error
			if closeStore != nil {
				if err := closeStore(); err != nil {
					errs = append(errs, fmt.Errorf("remote: %w", err))
				}
			}
			if closeSlot != nil {
				if err := closeSlot(); err != nil {
					errs = append(errs, fmt.Errorf("local: %w", err))
				}
			}
			return errors.Join(errs...)
		},
	}, nil
}

func (f *DefaultFactory) createSlot(config Config) (local.Slot, CleanupFunc, error) {
	switch config.Local {
	case LocalSQLite:
		slot, err := storage.OpenSQLiteSlot(config.SQLiteDBPath, config.LocalCacheKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite cache: %w", err)
		}
		return slot, slot.Close, nil
	case LocalFile:
		slot, err := file.New(config.LocalCacheFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open cache file: %w", err)
		}
		f.logger.Info("Using file cache", "path", config.LocalCacheFile)
		return slot, nil, nil
	case LocalMemory:
		f.logger.Warn("Using in-memory cache, records are lost on restart")
		return localmem.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported local backend: %s", config.Local)
	}
}

func (f *DefaultFactory) createStore(ctx context.Context, config Config) (remote.DocumentStore, CleanupFunc, error) {
	switch config.Remote {
	case RemoteNone:
		return remote.Disabled{}, nil, nil
	case RemoteMemory:
		return remotemem.New(), nil, nil
	case RemoteFirestore:
		store, err := firestore.New(ctx, firestore.Config{
			ProjectID:       config.FirestoreProjectID,
			CredentialsFile: config.GoogleCredentialsFile,
			CredentialsJSON: config.GoogleCredentialsJSON,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Firestore client: %w", err)
		}
		f.logger.Info("Initialized Firestore mirror", "project_id", config.FirestoreProjectID)
		return store, store.Close, nil
	case RemoteSheets:
		cli, err := google.New(ctx, google.Config{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			CredentialsFile: config.GoogleCredentialsFile,
			CredentialsJSON: config.GoogleCredentialsJSON,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets mirror", "spreadsheet_id", config.GoogleSpreadsheetID)
		return cli, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported remote backend: %s", config.Remote)
	}
}
