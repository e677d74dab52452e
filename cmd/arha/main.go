package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"arha/internal/amqp"
	"arha/internal/backend"
	"arha/internal/cli"
	apphttp "arha/internal/http"
	"arha/internal/insight"
	applog "arha/internal/log"
	"arha/internal/projection"
	"arha/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	cleanup := cli.NewCleanup(logger)
	defer cleanup.Run()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		return 1
	}
	storage, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Slog()).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err,
			"local", backendCfg.Local, "remote", backendCfg.Remote)
		return 1
	}
	cleanup.Add("storage", storage.Cleanup)

	gateway := services.NewGateway(storage.Slot, storage.Store, services.GatewayConfig{
		Collection: cfg.RemoteCollection,
		ListLimit:  cfg.RemoteListLimit,
	}, logger.WithComponent(applog.ComponentGateway).Slog())

	var opts []services.LedgerOption
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Events only feed the report worker; the ledger runs without them.
			logger.Warn("AMQP unavailable, change events disabled", "error", err)
		} else {
			cleanup.Add("amqp", client.Close)
			opts = append(opts, services.WithPublisher(client))
			logger.Info("Publishing change events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}
	ledger := services.NewLedger(gateway, projection.NewEngine(32),
		logger.WithComponent(applog.ComponentLedger).Slog(), opts...)

	var advisor insight.Advisor = insight.Static{}
	if cfg.OpenAIAPIKey != "" {
		advisor = insight.NewOpenAI(insight.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}, logger.WithComponent(applog.ComponentInsight).Slog())
	}

	srv := apphttp.NewServer(":"+cfg.Port, ledger, advisor, logger)

	ctx := cli.GracefulShutdown(logger, shutdownTimeout, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting arha server", "port", cfg.Port,
			"local", backendCfg.Local, "remote", backendCfg.Remote)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := ledger.Refresh(gctx)
		switch {
		case errors.Is(err, services.ErrSetupRequired):
			logger.Warn("Remote store needs setup, running on local cache", "records", ledger.Status().Records)
		case err != nil:
			logger.Error("Initial load failed", "error", err)
		default:
			logger.Info("Records loaded", "records", ledger.Status().Records)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		return 1
	}
	logger.Info("Server stopped gracefully")
	return 0
}
