package backend

import (
	"fmt"

	"arha/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	cfg := Config{
		Local:  LocalType(appConfig.LocalBackend),
		Remote: RemoteType(appConfig.RemoteBackend),

		SQLiteDBPath:   appConfig.SQLiteDBPath,
		LocalCacheFile: appConfig.LocalCacheFile,
		LocalCacheKey:  appConfig.LocalCacheKey,

		FirestoreProjectID:    appConfig.FirestoreProjectID,
		GoogleSpreadsheetID:   appConfig.GoogleSpreadsheetID,
		GoogleCredentialsFile: appConfig.GoogleCredentialsFile,
		GoogleCredentialsJSON: appConfig.GoogleCredentialsJSON,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Local.IsValid() {
		return fmt.Errorf("invalid local backend: %s", c.Local)
	}
	if !c.Remote.IsValid() {
		return fmt.Errorf("invalid remote backend: %s", c.Remote)
	}

	switch c.Local {
	case LocalSQLite:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite local backend")
		}
	case LocalFile:
		if c.LocalCacheFile == "" {
			return fmt.Errorf("cache file path is required for file local backend")
		}
	}

	switch c.Remote {
	case RemoteFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("Firestore project ID is required for firestore remote backend")
		}
	case RemoteSheets:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets remote backend")
		}
		if c.GoogleCredentialsFile == "" && c.GoogleCredentialsJSON == "" {
			return fmt.Errorf("either GoogleCredentialsFile or GoogleCredentialsJSON must be provided for sheets remote backend")
		}
	}
	return nil
}
