package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stromkosten/internal/amqp"
	"stromkosten/internal/config"
	apphttp "stromkosten/internal/http"
	applog "stromkosten/internal/log"
	"stromkosten/internal/meteo"
	"stromkosten/internal/powerfox"
	"stromkosten/internal/services"
	"stromkosten/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	slog.SetDefault(logger.Logger)

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

	// Initialize AMQP client for publishing summaries and ingestion triggers
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without notifications", applog.FieldError, err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - summaries and on-demand ingestion are unavailable")
	}

	// Provider clients
	reports := powerfox.NewClient(cfg.PowerfoxBaseURL, cfg.PowerfoxUsername, cfg.PowerfoxPassword)
	temps := meteo.NewClient(cfg.WeatherBaseURL, cfg.WeatherLatitude, cfg.WeatherLongitude)

	classifier := services.NewClassifier(reports, cfg.HeatingDeviceName, cfg.GeneralDeviceName)

	var notifier services.Notifier
	var triggers apphttp.TriggerPublisher
	if amqpClient != nil {
		notifier = amqpClient
		triggers = amqpClient
	}

	pipeline := services.NewPipeline(repo, classifier, temps, notifier, nil,
		logger.WithComponent(applog.ComponentPipeline))

	srv := apphttp.NewServer(":"+cfg.Port, pipeline, repo, triggers)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting stromkosten server", "port", cfg.Port, "sqlite_db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
