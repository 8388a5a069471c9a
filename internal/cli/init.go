// Package cli provides common CLI initialization utilities shared by
// cmd/ledger, cmd/ledger-worker and cmd/ledger-seed.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from the configured level and
// format and installs it as the slog default.
func SetupLogger(cfg *config.Config, component string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: component,
		Output:    os.Stdout,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads .env and the environment, sets up logging
// and validates the configuration. It exits the process on failure.
// requireAuth adds the checks for processes that issue or verify tokens.
func LoadAndValidateConfig(component string, requireAuth bool) (*config.Config, *applog.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg, component)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if requireAuth {
		if err := cfg.ValidateAuth(); err != nil {
			logger.Error("Configuration validation failed", applog.FieldError, err.Error())
			os.Exit(1)
		}
	}
	return cfg, logger
}

// OpenStorage opens the configured database and runs migrations.
// It exits the process on failure.
func OpenStorage(ctx context.Context, logger *applog.Logger, cfg *config.Config) *storage.DB {
	db, err := storage.Open(ctx, storage.Driver(cfg.DBDriver), cfg.DatabaseDSN())
	if err != nil {
		logger.Error("Failed to open database",
			applog.FieldError, err.Error(),
			"driver", cfg.DBDriver)
		os.Exit(1)
	}
	return db
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(logger *applog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
