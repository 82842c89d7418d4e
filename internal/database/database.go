// Package database opens the project database that importer checks run against.
//
// Two database/sql drivers are supported: pgx for PostgreSQL project
// databases and the pure-Go sqlite driver for project database files.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/JonMunkholm/movesimport/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// Driver names accepted by Open.
const (
	DriverPgx    = "pgx"
	DriverSQLite = "sqlite"
)

// Open opens and verifies a connection pool for the configured project database.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	driver := strings.ToLower(cfg.Driver)
	switch driver {
	case DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	db, err := sql.Open(driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// An in-memory database exists per connection. The single
		// connection is never recycled, so its data lives as long as db.
		db.SetMaxOpenConns(1)
	} else {
		if cfg.MaxConns > 0 {
			db.SetMaxOpenConns(cfg.MaxConns)
		}
		db.SetMaxIdleConns(cfg.MinConns)
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
		db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	return db, nil
}

// Name returns the database name from a connection URL for logging.
// File paths (sqlite) are returned unchanged.
func Name(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		rest := url[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			rest = rest[j+1:]
		} else {
			return ""
		}
		if k := strings.IndexAny(rest, "?#"); k >= 0 {
			rest = rest[:k]
		}
		return rest
	}
	return url
}
