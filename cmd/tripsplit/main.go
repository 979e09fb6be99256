package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tripsplit/internal/amqp"
	"tripsplit/internal/config"
	apphttp "tripsplit/internal/http"
	applog "tripsplit/internal/log"
	"tripsplit/internal/metrics"
	"tripsplit/internal/narrative"
	"tripsplit/internal/services"
	"tripsplit/internal/storage"
)

func main() {
	// Load .env for local development; absent in production is fine.
	_ = godotenv.Load()

	applog.SetupFromEnv()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var store storage.TripStore
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			slog.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = repo
		slog.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		store = storage.NewMemoryStore()
		slog.Info("Initialized memory backend")
	}
	defer store.Close()

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		slog.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		slog.Info("AMQP disabled - no AMQP_URL provided")
	}

	var narrator narrative.Generator = narrative.Local{}
	if cfg.NarrativeAPIURL != "" {
		narrator = narrative.NewWithFallback(
			narrative.NewRemote(cfg.NarrativeAPIURL, cfg.NarrativeAPIKey, cfg.NarrativeTimeout))
		slog.Info("Remote narrative generator configured", "url", cfg.NarrativeAPIURL)
	}

	svc := services.NewTripService(store, publisher, cfg.Rates, narrator)
	collector := metrics.NewCollector()
	srv := apphttp.NewServer(":"+cfg.Port, svc, collector)
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		slog.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	slog.Info("Starting tripsplit server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}
