package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"expensetracker/internal/log"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Options describes how to reach the database.
type Options struct {
	Driver string

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string

	// DSN and AdminDSN are lib/pq connection strings for the postgres
	// driver. AdminDSN points at a maintenance database used to create
	// DBName when it does not exist yet.
	DSN      string
	AdminDSN string
	DBName   string

	Logger *log.Logger
}

// Store is the single database handle shared by every operation of a
// session. All SQL in the application lives on its methods.
type Store struct {
	db      *sqlx.DB
	created bool
	logger  *log.Logger
}

// Open ensures the target database exists, connects to it and brings the
// schema up to date. Any failure here means the application cannot run.
func Open(ctx context.Context, opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(ctx)
	}
	logger = logger.WithComponent(log.ComponentStorage)

	var (
		dsn     string
		created bool
		err     error
	)
	switch opts.Driver {
	case DriverSQLite:
		created, err = ensureSQLiteFile(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		dsn = sqliteDSN(opts.SQLitePath)
	case DriverPostgres:
		created, err = ensurePostgresDatabase(ctx, opts.AdminDSN, opts.DBName)
		if err != nil {
			return nil, err
		}
		dsn = opts.DSN
	default:
		return nil, fmt.Errorf("unsupported driver: %s", opts.Driver)
	}

	db, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	if opts.Driver == DriverSQLite {
		// One session, one connection: keeps pragmas and avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(opts.Driver, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.InfoContext(ctx, "Database and tables are ready",
		log.FieldDriver, opts.Driver,
		"created", created)

	return &Store{
		db:      db,
		created: created,
		logger:  logger,
	}, nil
}

// NewStore wraps an already-open connection. The schema is assumed to exist.
func NewStore(db *sqlx.DB, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// Created reports whether Open had to create the database.
func (s *Store) Created() bool {
	return s.created
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
