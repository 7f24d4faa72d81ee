package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	SchemeLegacySHA256 = "legacy-sha256"
	SchemeBcrypt       = "bcrypt"
)

type Config struct {
	// Database
	DBDriver     string
	SQLiteDBPath string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string

	// Credentials
	PasswordScheme string

	// Category cache
	CategoryCacheSize int
	CategoryCacheTTL  time.Duration

	// Output
	ChartDir string

	// Logging
	LogLevel string
	LogFile  string
}

func Load() *Config {
	cfg := &Config{
		DBDriver:     getEnv("DB_DRIVER", DriverSQLite),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expense_tracker.db"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "5432"),
		DBUser:       getEnv("DB_USER", "root"),
		DBPassword:   getEnv("DB_PASSWORD", "mysql"),
		DBName:       getEnv("DB_NAME", "expense_tracker"),
		DBSSLMode:    getEnv("DB_SSLMODE", "disable"),

		PasswordScheme: getEnv("PASSWORD_SCHEME", SchemeLegacySHA256),

		CategoryCacheSize: getEnvInt("CATEGORY_CACHE_SIZE", 64),
		CategoryCacheTTL:  getEnvDuration("CATEGORY_CACHE_TTL", 5*time.Minute),

		ChartDir: getEnv("CHART_DIR", "./charts"),

		LogLevel: getEnv("LOG_LEVEL", "warn"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite driver")
		}
	case DriverPostgres:
		if c.DBHost == "" {
			errors = append(errors, "database host cannot be empty when using postgres driver")
		}
		if port, err := strconv.Atoi(c.DBPort); err != nil {
			errors = append(errors, fmt.Sprintf("invalid database port '%s': must be a number", c.DBPort))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid database port %d: must be between 1 and 65535", port))
		}
		if c.DBUser == "" {
			errors = append(errors, "database user cannot be empty when using postgres driver")
		}
		if c.DBName == "" {
			errors = append(errors, "database name cannot be empty when using postgres driver")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid database driver '%s': must be one of [%s %s]", c.DBDriver, DriverSQLite, DriverPostgres))
	}

	if c.PasswordScheme != SchemeLegacySHA256 && c.PasswordScheme != SchemeBcrypt {
		errors = append(errors, fmt.Sprintf("invalid password scheme '%s': must be one of [%s %s]", c.PasswordScheme, SchemeLegacySHA256, SchemeBcrypt))
	}

	if c.CategoryCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid category cache size %d: must be at least 1", c.CategoryCacheSize))
	}
	if c.CategoryCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid category cache ttl %v: must be at least 1 second", c.CategoryCacheTTL))
	}

	if c.ChartDir == "" {
		errors = append(errors, "chart directory cannot be empty")
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if c.LogFile != "" {
		dir := filepath.Dir(c.LogFile)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("log file directory does not exist: %s", dir))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// PostgresDSN returns the lib/pq connection string for dbName.
func (c *Config) PostgresDSN(dbName string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, dbName, c.DBSSLMode)
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level '%s': must be one of [debug info warn error]", s)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
