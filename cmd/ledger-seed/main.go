package main

import (
	"context"
	"os"
	"time"

	"ledger/internal/cli"
	applog "ledger/internal/log"
	"ledger/internal/services"
	"ledger/internal/storage"
)

func main() {
	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentSeed, false)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db := cli.OpenStorage(ctx, logger, cfg)
	defer db.Close()

	seeder := services.NewSeeder(storage.NewUserRepository(db), storage.NewCategoryRepository(db))
	report, err := seeder.Seed(ctx)
	if err != nil {
		logger.Error("Seeding failed", applog.FieldError, err.Error())
		db.Close()
		os.Exit(1)
	}

	logger.Info("Seeding finished",
		"users_created", report.UsersCreated,
		"categories_created", report.CategoriesCreated)
}
