package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lib/pq"
)

// sqliteDSN enables foreign keys, which SQLite leaves off by default.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// ensureSQLiteFile creates the parent directory of path. It reports whether
// the database file is new; the driver creates the file on first connect.
func ensureSQLiteFile(path string) (bool, error) {
	if path == "" {
		return false, errors.New("empty sqlite database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("create db directory: %w", err)
	}
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat database file: %w", err)
	}
	return false, nil
}

func ensurePostgresDatabase(ctx context.Context, adminDSN, name string) (bool, error) {
	if name == "" {
		return false, errors.New("empty database name")
	}
	admin, err := sql.Open(DriverPostgres, adminDSN)
	if err != nil {
		return false, fmt.Errorf("open maintenance database: %w", err)
	}
	defer admin.Close()

	if err := admin.PingContext(ctx); err != nil {
		return false, fmt.Errorf("connect to database server: %w", err)
	}
	return createDatabaseIfMissing(ctx, admin, name)
}

// createDatabaseIfMissing issues CREATE DATABASE when name is not listed in
// pg_database. CREATE DATABASE cannot take bind parameters, hence the
// identifier quoting.
func createDatabaseIfMissing(ctx context.Context, admin *sql.DB, name string) (bool, error) {
	var exists int
	err := admin.QueryRowContext(ctx, `SELECT 1 FROM pg_database WHERE datname = $1`, name).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("look up database %s: %w", name, err)
	}

	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return false, fmt.Errorf("create database %s: %w", name, err)
	}
	return true, nil
}
