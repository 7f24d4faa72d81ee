// Package cli provides the startup steps of the expense-tracker binary.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"expensetracker/internal/config"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SetupLogger builds the application logger from cfg and installs it as
// the slog default. Records go to LOG_FILE when set, stderr otherwise.
// The returned func closes the log file, if any.
func SetupLogger(cfg *config.Config) (*log.Logger, func()) {
	logCfg := log.DefaultConfig()
	// Validate already rejected unknown levels
	logCfg.Level, _ = config.ParseLevel(cfg.LogLevel)

	cleanup := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.New(log.DefaultConfig()).Error("Failed to open log file", log.FieldPath, cfg.LogFile, log.FieldError, err)
			os.Exit(1)
		}
		logCfg.Output = f
		cleanup = func() { f.Close() }
	}

	logger := log.New(logCfg)
	log.SetDefault(logger)
	return logger, cleanup
}

// StoreOptions maps the database settings of cfg to storage options.
func StoreOptions(cfg *config.Config, logger *log.Logger) storage.Options {
	opts := storage.Options{
		Driver: cfg.DBDriver,
		Logger: logger,
	}
	switch cfg.DBDriver {
	case config.DriverPostgres:
		opts.DSN = cfg.PostgresDSN(cfg.DBName)
		opts.AdminDSN = cfg.PostgresDSN("postgres")
		opts.DBName = cfg.DBName
	default:
		opts.SQLitePath = cfg.SQLiteDBPath
	}
	return opts
}

// InitStore opens the database, creating it and its tables when missing.
// Returns the store or exits the process on failure.
func InitStore(ctx context.Context, logger *log.Logger, cfg *config.Config) *storage.Store {
	store, err := storage.Open(ctx, StoreOptions(cfg, logger))
	if err != nil {
		logger.Error("Failed to initialize database", log.FieldError, err, log.FieldDriver, cfg.DBDriver)
		os.Exit(1)
	}
	return store
}
