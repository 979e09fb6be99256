package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tripsplit/internal/amqp"
	"tripsplit/internal/config"
	applog "tripsplit/internal/log"
	"tripsplit/internal/metrics"
	"tripsplit/internal/storage"
	"tripsplit/internal/worker"
)

func main() {
	_ = godotenv.Load()

	applog.SetupFromEnv()
	slog.Info("Starting tripsplit-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		slog.Info("AMQP disabled - relying on periodic sweeps only")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var exporter worker.ExpenseExporter
	if cfg.SheetsSpreadsheetID != "" {
		sheetsExporter, err := worker.NewSheetsExporter(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsSheetName)
		if err != nil {
			slog.Error("Failed to initialize Google Sheets exporter", "error", err)
			os.Exit(1)
		}
		exporter = sheetsExporter
	} else {
		slog.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	watcher := worker.NewBudgetWatcher(repo, amqpClient, exporter, metrics.NewCollector(), cfg.SweepInterval)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Worker stopped gracefully")
}
