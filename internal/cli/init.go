// Package cli holds the start-up steps shared by cmd/arha and cmd/arha-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"arha/internal/config"
	"arha/internal/log"
)

// SetupLogger builds the root logger for level and installs it as the slog
// default. LOG_FORMAT=json switches to JSON output.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	cfg.Format = os.Getenv("LOG_FORMAT")
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM. After
// the signal, cleanup runs with a context bounded by timeout.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		if cleanup != nil {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
			defer shutdownCancel()
			cleanup(shutdownCtx)
			if shutdownCtx.Err() != nil {
				logger.Warn("Shutdown timeout reached")
			}
		}
	}()

	return ctx
}
