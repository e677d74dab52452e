package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Local cache backends.
const (
	LocalSQLite = "sqlite"
	LocalFile   = "file"
	LocalMemory = "memory"
)

// Remote mirror backends.
const (
	RemoteNone      = "none"
	RemoteMemory    = "memory"
	RemoteFirestore = "firestore"
	RemoteSheets    = "sheets"
)

type Config struct {
	// HTTP Server
	Port     string
	LogLevel string

	// Local cache
	LocalBackend   string
	SQLiteDBPath   string
	LocalCacheFile string
	LocalCacheKey  string

	// Remote mirror
	RemoteBackend    string
	RemoteCollection string
	RemoteListLimit  int

	FirestoreProjectID    string
	GoogleSpreadsheetID   string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string

	// AMQP, disabled when the URL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Worker
	ReportsDir string

	// Insight, disabled when the key is empty
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8081"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LocalBackend:   strings.ToLower(getEnv("LOCAL_BACKEND", LocalSQLite)),
		SQLiteDBPath:   getEnv("SQLITE_DB_PATH", "./data/arha.db"),
		LocalCacheFile: getEnv("LOCAL_CACHE_FILE", "./data/jasa-arha-db-v1.json"),
		LocalCacheKey:  getEnv("LOCAL_CACHE_KEY", "jasa-arha-db-v1"),

		RemoteBackend:    strings.ToLower(getEnv("REMOTE_BACKEND", RemoteNone)),
		RemoteCollection: getEnv("REMOTE_COLLECTION", "transactions"),
		RemoteListLimit:  getEnvInt("REMOTE_LIST_LIMIT", 500),

		FirestoreProjectID:    getEnv("FIRESTORE_PROJECT_ID", ""),
		GoogleSpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "arha"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		ReportsDir: getEnv("REPORTS_DIR", "./data/reports"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.LocalBackend {
	case LocalSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite local backend")
		} else if msg := ensureDir(c.SQLiteDBPath); msg != "" {
			errors = append(errors, msg)
		}
		if c.LocalCacheKey == "" {
			errors = append(errors, "local cache key cannot be empty")
		}
	case LocalFile:
		if c.LocalCacheFile == "" {
			errors = append(errors, "local cache file cannot be empty when using file local backend")
		}
	case LocalMemory:
	default:
		errors = append(errors, fmt.Sprintf("invalid local backend '%s': must be one of %v",
			c.LocalBackend, []string{LocalSQLite, LocalFile, LocalMemory}))
	}

	switch c.RemoteBackend {
	case RemoteNone, RemoteMemory:
	case RemoteFirestore:
		if c.FirestoreProjectID == "" {
			errors = append(errors, "FIRESTORE_PROJECT_ID is required when using firestore remote backend")
		}
		errors = append(errors, c.credentialErrors(false)...)
	case RemoteSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "GOOGLE_SPREADSHEET_ID is required when using sheets remote backend")
		}
		errors = append(errors, c.credentialErrors(true)...)
	default:
		errors = append(errors, fmt.Sprintf("invalid remote backend '%s': must be one of %v",
			c.RemoteBackend, []string{RemoteNone, RemoteMemory, RemoteFirestore, RemoteSheets}))
	}

	if c.RemoteCollection == "" {
		errors = append(errors, "remote collection cannot be empty")
	}
	if c.RemoteListLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid remote list limit %d: must be at least 1", c.RemoteListLimit))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.OpenAIBaseURL != "" {
		if u, err := url.Parse(c.OpenAIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, fmt.Sprintf("invalid OpenAI base URL '%s'", c.OpenAIBaseURL))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// AMQPEnabled reports whether change events are published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// credentialErrors checks the Google credentials. Firestore may fall back to
// application default credentials, Sheets may not.
func (c *Config) credentialErrors(required bool) []string {
	var errs []string
	if c.GoogleCredentialsFile != "" {
		if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
		}
	} else if required && c.GoogleCredentialsJSON == "" {
		errs = append(errs, "either GOOGLE_CREDENTIALS_FILE or GOOGLE_CREDENTIALS_JSON must be provided for sheets remote backend")
	}
	return errs
}

func ensureDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("cannot create directory '%s': %v", dir, err)
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
