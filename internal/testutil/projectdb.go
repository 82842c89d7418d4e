package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/movesimport/internal/config"
	"github.com/JonMunkholm/movesimport/internal/database"
)

// projectSchema holds the tables the link source type checks read.
var projectSchema = []string{
	`CREATE TABLE sourceUseType (
		sourceTypeID SMALLINT NOT NULL PRIMARY KEY
	)`,
	`CREATE TABLE link (
		linkID     INTEGER  NOT NULL PRIMARY KEY,
		roadTypeID SMALLINT NOT NULL
	)`,
	`CREATE TABLE linkSourceTypeHour (
		linkID                 INTEGER  NOT NULL,
		sourceTypeID           SMALLINT NOT NULL,
		sourceTypeHourFraction DOUBLE,
		PRIMARY KEY (linkID, sourceTypeID)
	)`,
}

// OpenProjectDB returns an empty in-memory project database with the
// project tables created. It is closed when the test ends.
func OpenProjectDB(t testing.TB) *sql.DB {
	t.Helper()
	db := OpenEmptyDB(t)
	createSchema(t, db)
	return db
}

// OpenProjectFile creates a project database file in a temporary directory
// and returns it with its path, for code that opens the database itself.
func OpenProjectFile(t testing.TB) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "project.db")
	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: database.DriverSQLite,
		URL:    path,
	})
	if err != nil {
		t.Fatalf("open project file: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	createSchema(t, db)
	return db, path
}

func createSchema(t testing.TB, db *sql.DB) {
	t.Helper()
	for _, stmt := range projectSchema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
}

// OpenEmptyDB returns an in-memory database with no tables.
func OpenEmptyDB(t testing.TB) *sql.DB {
	t.Helper()

	db, err := database.Open(context.Background(), config.DatabaseConfig{
		Driver: database.DriverSQLite,
		URL:    ":memory:",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// InsertSourceTypes adds source use types.
func InsertSourceTypes(t testing.TB, db *sql.DB, ids ...int) {
	t.Helper()
	for _, id := range ids {
		mustExec(t, db, "INSERT INTO sourceUseType (sourceTypeID) VALUES (?)", id)
	}
}

// InsertLink adds a link with the given road type.
func InsertLink(t testing.TB, db *sql.DB, linkID, roadTypeID int) {
	t.Helper()
	mustExec(t, db, "INSERT INTO link (linkID, roadTypeID) VALUES (?, ?)", linkID, roadTypeID)
}

// InsertFraction adds a linkSourceTypeHour row.
func InsertFraction(t testing.TB, db *sql.DB, linkID, sourceTypeID int, fraction float64) {
	t.Helper()
	mustExec(t, db,
		"INSERT INTO linkSourceTypeHour (linkID, sourceTypeID, sourceTypeHourFraction) VALUES (?, ?, ?)",
		linkID, sourceTypeID, fraction)
}

func mustExec(t testing.TB, db *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
