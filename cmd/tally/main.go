package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tally/internal/advisor"
	"tally/internal/amqp"
	"tally/internal/auth"
	"tally/internal/config"
	apphttp "tally/internal/http"
	applog "tally/internal/log"
	"tally/internal/services"
	"tally/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.ParseLevel(cfg.LogLevel), "tally")
	applog.SetDefault(logger)

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

	// The export queue is best-effort: when the broker is unreachable the
	// API still runs, transactions just stay out of the sheet.
	var publisher services.ExportPublisher
	if amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue); err != nil {
		logger.Warn("AMQP unavailable, sheet export disabled", "error", err)
	} else {
		publisher = amqpClient
		defer amqpClient.Close()
	}

	txSvc := services.NewTransactionService(repo, publisher, cfg.CacheSize, cfg.CacheTTL)
	acctSvc := services.NewAccountService(repo, cfg.CacheSize, cfg.CacheTTL)

	srv := apphttp.NewServer(":"+cfg.Port, auth.NewVerifier(cfg.JWTSecret), apphttp.Services{
		Transactions: txSvc,
		Goals:        services.NewGoalService(repo, cfg.CacheSize, cfg.CacheTTL),
		Insights:     services.NewInsightService(repo, cfg.CacheSize, cfg.CacheTTL),
		Chat:         services.NewChatService(repo, advisor.New(nil), cfg.CacheSize, cfg.CacheTTL),
		Accounts:     acctSvc,
		BankSync:     services.NewBankSyncService(repo, txSvc, acctSvc, nil),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting tally server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
