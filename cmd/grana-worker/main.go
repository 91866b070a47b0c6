package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"grana/internal/amqp"
	"grana/internal/config"
	applog "grana/internal/log"
	"grana/internal/services"
	"grana/internal/storage"
	"grana/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel, "worker")

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

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditWorker := worker.NewAuditWorker(repo)
	ledger := services.NewLedgerService(repo, amqpClient)
	recurring := services.NewRecurringProcessor(repo, ledger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting audit consumer", "queue", cfg.AMQPQueue)
		return auditWorker.Run(ctx, amqpClient)
	})

	g.Go(func() error {
		logger.Info("Starting recurring processor", "interval", cfg.RecurringInterval.String())

		// run once at startup so a restart never skips a month boundary
		if n, err := recurring.ProcessDue(ctx, time.Now()); err != nil {
			logger.Error("Recurring processing failed", "error", err)
		} else if n > 0 {
			logger.Info("Recurring transactions materialized", "count", n)
		}

		ticker := time.NewTicker(cfg.RecurringInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if n, err := recurring.ProcessDue(ctx, time.Now()); err != nil {
					logger.Error("Recurring processing failed", "error", err)
				} else if n > 0 {
					logger.Info("Recurring transactions materialized", "count", n)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
