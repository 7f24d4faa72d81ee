package config

import (
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		DBDriver:          DriverSQLite,
		SQLiteDBPath:      "./test.db",
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "root",
		DBName:            "expense_tracker",
		PasswordScheme:    SchemeLegacySHA256,
		CategoryCacheSize: 64,
		CategoryCacheTTL:  5 * time.Minute,
		ChartDir:          "./charts",
		LogLevel:          "warn",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid sqlite config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid postgres config",
			mutate:  func(c *Config) { c.DBDriver = DriverPostgres },
			wantErr: false,
		},
		{
			name:    "valid bcrypt scheme",
			mutate:  func(c *Config) { c.PasswordScheme = SchemeBcrypt },
			wantErr: false,
		},
		{
			name:        "invalid driver",
			mutate:      func(c *Config) { c.DBDriver = "mysql" },
			wantErr:     true,
			errorString: "invalid database driver 'mysql': must be one of [sqlite postgres]",
		},
		{
			name:        "sqlite missing path",
			mutate:      func(c *Config) { c.SQLiteDBPath = "" },
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "postgres non-numeric port",
			mutate: func(c *Config) {
				c.DBDriver = DriverPostgres
				c.DBPort = "abc"
			},
			wantErr:     true,
			errorString: "invalid database port 'abc': must be a number",
		},
		{
			name: "postgres port out of range",
			mutate: func(c *Config) {
				c.DBDriver = DriverPostgres
				c.DBPort = "70000"
			},
			wantErr:     true,
			errorString: "invalid database port 70000: must be between 1 and 65535",
		},
		{
			name: "postgres missing database name",
			mutate: func(c *Config) {
				c.DBDriver = DriverPostgres
				c.DBName = ""
			},
			wantErr:     true,
			errorString: "database name cannot be empty",
		},
		{
			name:        "invalid password scheme",
			mutate:      func(c *Config) { c.PasswordScheme = "md5" },
			wantErr:     true,
			errorString: "invalid password scheme 'md5'",
		},
		{
			name:        "cache size too small",
			mutate:      func(c *Config) { c.CategoryCacheSize = 0 },
			wantErr:     true,
			errorString: "invalid category cache size 0: must be at least 1",
		},
		{
			name:        "cache ttl too small",
			mutate:      func(c *Config) { c.CategoryCacheTTL = 10 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid category cache ttl 10ms",
		},
		{
			name:        "invalid log level",
			mutate:      func(c *Config) { c.LogLevel = "verbose" },
			wantErr:     true,
			errorString: "invalid log level 'verbose'",
		},
		{
			name:        "log file in missing directory",
			mutate:      func(c *Config) { c.LogFile = "/non/existent/dir/app.log" },
			wantErr:     true,
			errorString: "log file directory does not exist",
		},
		{
			name: "multiple errors are combined",
			mutate: func(c *Config) {
				c.DBDriver = "oracle"
				c.ChartDir = ""
			},
			wantErr:     true,
			errorString: "chart directory cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateLogFileInExistingDir(t *testing.T) {
	cfg := validConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "app.log")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	keys := []string{
		"DB_DRIVER", "SQLITE_DB_PATH", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE", "PASSWORD_SCHEME", "CATEGORY_CACHE_SIZE",
		"CATEGORY_CACHE_TTL", "CHART_DIR", "LOG_LEVEL", "LOG_FILE",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.DBDriver != DriverSQLite {
			t.Errorf("Load() DBDriver = %v, want sqlite", cfg.DBDriver)
		}
		if cfg.SQLiteDBPath != "./data/expense_tracker.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/expense_tracker.db", cfg.SQLiteDBPath)
		}
		if cfg.DBHost != "localhost" || cfg.DBUser != "root" || cfg.DBPassword != "mysql" {
			t.Errorf("Load() connection defaults = %s/%s/%s", cfg.DBHost, cfg.DBUser, cfg.DBPassword)
		}
		if cfg.DBName != "expense_tracker" {
			t.Errorf("Load() DBName = %v, want expense_tracker", cfg.DBName)
		}
		if cfg.PasswordScheme != SchemeLegacySHA256 {
			t.Errorf("Load() PasswordScheme = %v, want %v", cfg.PasswordScheme, SchemeLegacySHA256)
		}
		if cfg.CategoryCacheTTL != 5*time.Minute {
			t.Errorf("Load() CategoryCacheTTL = %v, want 5m", cfg.CategoryCacheTTL)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("defaults should validate: %v", err)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "6543")
		t.Setenv("PASSWORD_SCHEME", "bcrypt")
		t.Setenv("CATEGORY_CACHE_SIZE", "8")
		t.Setenv("CATEGORY_CACHE_TTL", "30s")

		cfg := Load()

		if cfg.DBDriver != DriverPostgres {
			t.Errorf("Load() DBDriver = %v, want postgres", cfg.DBDriver)
		}
		if cfg.DBHost != "db.internal" || cfg.DBPort != "6543" {
			t.Errorf("Load() host/port = %v:%v", cfg.DBHost, cfg.DBPort)
		}
		if cfg.PasswordScheme != SchemeBcrypt {
			t.Errorf("Load() PasswordScheme = %v, want bcrypt", cfg.PasswordScheme)
		}
		if cfg.CategoryCacheSize != 8 {
			t.Errorf("Load() CategoryCacheSize = %v, want 8", cfg.CategoryCacheSize)
		}
		if cfg.CategoryCacheTTL != 30*time.Second {
			t.Errorf("Load() CategoryCacheTTL = %v, want 30s", cfg.CategoryCacheTTL)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		t.Setenv("CATEGORY_CACHE_SIZE", "invalid")
		t.Setenv("CATEGORY_CACHE_TTL", "invalid")

		cfg := Load()

		if cfg.CategoryCacheSize != 64 {
			t.Errorf("Load() CategoryCacheSize = %v, want 64 (default for invalid input)", cfg.CategoryCacheSize)
		}
		if cfg.CategoryCacheTTL != 5*time.Minute {
			t.Errorf("Load() CategoryCacheTTL = %v, want 5m (default for invalid input)", cfg.CategoryCacheTTL)
		}
	})
}

func TestPostgresDSN(t *testing.T) {
	cfg := validConfig()
	cfg.DBPassword = "secret"
	got := cfg.PostgresDSN("postgres")
	want := "host=localhost port=5432 user=root password=secret dbname=postgres sslmode="
	if got != want {
		t.Fatalf("PostgresDSN() = %q, want %q", got, want)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
