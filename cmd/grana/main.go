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

	"grana/internal/amqp"
	"grana/internal/assistant"
	"grana/internal/auth"
	"grana/internal/config"
	apphttp "grana/internal/http"
	applog "grana/internal/log"
	"grana/internal/services"
	"grana/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel, "api")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without it the ledger still works, the audit trail
	// just goes dark.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, ledger events will not be published", "error", err)
		} else {
			defer amqpClient.Close()
		}
	}

	var assistantClient *assistant.Client
	if cfg.AssistantURL != "" {
		assistantClient = assistant.NewClient(cfg.AssistantURL, cfg.AssistantAPIKey, cfg.AssistantModel)
		logger.Info("Assistant enabled", "model", cfg.AssistantModel)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	ledger := services.NewLedgerService(repo, amqpClient)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Storage:   repo,
		Auth:      services.NewAuthService(repo, tokens),
		Ledger:    ledger,
		Reports:   services.NewReports(repo),
		Assistant: assistantClient,
		Tokens:    tokens,
	})

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
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting grana server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	slog.Info("Server stopped gracefully")
}
