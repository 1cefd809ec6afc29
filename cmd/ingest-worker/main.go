package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"stromkosten/internal/amqp"
	"stromkosten/internal/config"
	"stromkosten/internal/export"
	applog "stromkosten/internal/log"
	"stromkosten/internal/meteo"
	"stromkosten/internal/powerfox"
	"stromkosten/internal/services"
	"stromkosten/internal/storage"
	"stromkosten/internal/worker"
)

const amqpDialAttempts = 5

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	slog.SetDefault(logger.Logger)

	logger.Info("Starting ingest-worker")

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	// Initialize SQLite repository
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize AMQP client for publishing summaries and consuming
	// on-demand ingestion triggers. The broker may come up after us.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.DialWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqpDialAttempts)
		if err != nil {
			logger.Warn("Failed to connect to AMQP, continuing without notifications", applog.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - summaries will only be persisted")
	}

	// Provider clients
	reports := powerfox.NewClient(cfg.PowerfoxBaseURL, cfg.PowerfoxUsername, cfg.PowerfoxPassword)
	temps := meteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherLatitude, cfg.WeatherLongitude)

	classifier := services.NewClassifier(reports, cfg.HeatingDeviceName, cfg.GeneralDeviceName)

	// Optional Google Sheets export of ingested days
	var exporter services.DayExporter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := export.NewSheetsExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Warn("Failed to initialize Sheets exporter, continuing without export", applog.FieldError, err)
		} else {
			exporter = sheets
			logger.Info("Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
		}
	}

	var notifier services.Notifier
	var triggers worker.TriggerSource
	if amqpClient != nil {
		notifier = amqpClient
		triggers = amqpClient
	}

	pipeline := services.NewPipeline(repo, classifier, temps, notifier, exporter,
		logger.WithComponent(applog.ComponentPipeline))

	ingestWorker := worker.NewIngestWorker(pipeline, triggers, cfg.IngestHour, logger)

	// Handle shutdown signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Ingest worker configured",
		"ingest_hour", cfg.IngestHour,
		"sqlite_db", cfg.SQLiteDBPath)

	if err := ingestWorker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Ingest worker shutdown complete")
}
