package main

import (
	"context"
	"fmt"
	"os"

	"expensetracker/internal/auth"
	"expensetracker/internal/cache"
	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/menu"
	"expensetracker/internal/services"
)

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(log.New(log.DefaultConfig()))

	logger, closeLog := cli.SetupLogger(cfg)
	defer closeLog()

	ctx := log.NewContext(context.Background(), logger)
	logger.InfoContext(ctx, "Starting expense tracker",
		log.FieldOperation, log.OpStartup,
		log.FieldDriver, cfg.DBDriver,
		log.FieldScheme, cfg.PasswordScheme)

	store := cli.InitStore(ctx, logger, cfg)
	if store.Created() {
		fmt.Println("Database created.")
	}
	fmt.Println("Database and tables are ready.")

	hasher, err := auth.NewHasher(cfg.PasswordScheme)
	if err != nil {
		logger.Error("Failed to initialize password hasher", log.FieldError, err)
		store.Close()
		os.Exit(1)
	}

	categoryCache := cache.NewLRUCache[int64, []core.Category](cfg.CategoryCacheSize, cfg.CategoryCacheTTL)

	m := menu.New(os.Stdin, os.Stdout, menu.Deps{
		Auth:         auth.NewService(store, hasher),
		Categories:   services.NewCategoryService(store, categoryCache),
		Transactions: services.NewTransactionService(store),
		Summaries:    services.NewSummaryService(store),
		ChartDir:     cfg.ChartDir,
		Logger:       logger,
	})

	runErr := m.Run(ctx)

	hits, misses := categoryCache.Stats()
	actions := m.Metrics()
	logger.InfoContext(ctx, "Shutting down",
		log.FieldOperation, log.OpShutdown,
		"actions", actions.TotalActions,
		"failed_actions", actions.FailedActions,
		"last_action_us", actions.LastActionMicros,
		"cache_hits", hits,
		"cache_misses", misses)

	if err := store.Close(); err != nil {
		logger.Warn("Failed to close database", log.FieldError, err)
	}
	if runErr != nil {
		logger.Error("Menu loop failed", log.FieldError, runErr)
		closeLog()
		os.Exit(1)
	}
}
