package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/auth"
	"ledger/internal/cli"
	"ledger/internal/config"
	apphttp "ledger/internal/http"
	applog "ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/services"
	"ledger/internal/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentApp, true)

	ctx, cancel := cli.GracefulShutdown(logger)
	defer cancel()

	db := cli.OpenStorage(ctx, logger, cfg)
	defer db.Close()

	revoker, closeRevoker := openRevoker(ctx, logger, cfg)
	defer closeRevoker()

	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
			os.Exit(1)
		}
		defer client.Close()
		events = client
		logger.Info("Publishing transaction events", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	users := storage.NewUserRepository(db)
	categories := storage.NewCategoryRepository(db)
	transactions := storage.NewTransactionRepository(db)
	budgets := storage.NewBudgetRepository(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit: ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitRPM,
			Burst:             cfg.RateLimitBurst,
		},
		Logger:         logger,
		TrustedProxies: cfg.TrustedProxies,
	}, apphttp.Services{
		Auth:         services.NewAuthService(users, tokens, revoker),
		Categories:   services.NewCategoryService(categories),
		Transactions: services.NewTransactionService(transactions, categories, events),
		Budgets:      services.NewBudgetService(budgets, categories),
		Export:       services.NewExportService(transactions),
		Stats:        services.NewStatsService(transactions),
	}, tokens, revoker, db)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting ledger API", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// openRevoker uses redis when configured so logouts hold across replicas.
func openRevoker(ctx context.Context, logger *applog.Logger, cfg *config.Config) (auth.Revoker, func()) {
	if cfg.RedisURL == "" {
		logger.Info("Using in-memory token revocation list")
		return auth.NewMemoryRevoker(), func() {}
	}

	r, err := auth.NewRedisRevoker(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("Failed to connect to redis", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Using redis token revocation list")
	return r, func() { _ = r.Close() }
}
