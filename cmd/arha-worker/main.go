package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"arha/internal/amqp"
	"arha/internal/backend"
	"arha/internal/cli"
	applog "arha/internal/log"
	"arha/internal/services"
	"arha/internal/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(applog.ComponentWorker)
	logger.Info("Starting arha-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.AMQPEnabled() {
		logger.Error("AMQP_URL is required for the report worker")
		return 1
	}

	cleanup := cli.NewCleanup(logger)
	defer cleanup.Run()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		return 1
	}
	storage, err := backend.NewFactory(logger.Slog()).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		return 1
	}
	cleanup.Add("storage", storage.Cleanup)

	gateway := services.NewGateway(storage.Slot, storage.Store, services.GatewayConfig{
		Collection: cfg.RemoteCollection,
		ListLimit:  cfg.RemoteListLimit,
	}, logger.WithComponent(applog.ComponentGateway).Slog())

	reports, err := worker.NewReportWorker(gateway, cfg.ReportsDir, logger.Slog())
	if err != nil {
		logger.Error("Failed to initialize report worker", "error", err, "dir", cfg.ReportsDir)
		return 1
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		return 1
	}
	cleanup.Add("amqp", client.Close)

	ctx := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Performing startup report check...", "dir", cfg.ReportsDir)
	if err := reports.StartupCheck(ctx, time.Now()); err != nil {
		// Keep consuming; the next event re-renders.
		logger.Error("Startup report check failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeTransactionEvents(gctx, reports.HandleEvent)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		return 1
	}
	logger.Info("Worker shutdown complete")
	return 0
}
