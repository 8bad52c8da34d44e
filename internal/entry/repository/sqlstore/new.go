package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	pkgLog "station-ops-bot/pkg/log"
)

// Dialect selects placeholder style and DDL flavour.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Options configures the connection pool.
type Options struct {
	MaxConnections int
	MaxIdle        int
}

// Store persists entries into one SQL table per entry type.
type Store struct {
	l       pkgLog.Logger
	db      *sql.DB
	dialect Dialect
}

// Open opens a pooled connection for dialect.
func Open(dialect Dialect, dsn string, opts Options) (*sql.DB, error) {
	driver := ""
	switch dialect {
	case DialectPostgres:
		driver = "postgres"
	case DialectSQLite:
		driver = "sqlite3"
	default:
		return nil, fmt.Errorf("sqlstore: unknown dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		// sqlite allows one writer at a time.
		db.SetMaxOpenConns(1)
	} else {
		if opts.MaxConnections > 0 {
			db.SetMaxOpenConns(opts.MaxConnections)
		}
		if opts.MaxIdle > 0 {
			db.SetMaxIdleConns(opts.MaxIdle)
		}
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// New wraps an open database.
func New(l pkgLog.Logger, db *sql.DB, dialect Dialect) *Store {
	return &Store{l: l, db: db, dialect: dialect}
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
