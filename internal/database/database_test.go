package database

import (
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/movesimport/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{
		Driver:          "sqlite",
		URL:             ":memory:",
		MaxConns:        10,
		MaxConnLifetime: time.Hour,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("CREATE TABLE link (linkID INTEGER, roadTypeID INTEGER)")
	require.NoError(t, err)

	// Single connection: the table is visible to subsequent queries.
	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM link").Scan(&n))
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}

func TestOpen_SQLiteMemoryIgnoresRecycling(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{
		Driver:          "sqlite",
		URL:             ":memory:",
		MaxConnLifetime: time.Millisecond,
		MaxConnIdleTime: time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec("CREATE TABLE link (linkID INTEGER, roadTypeID INTEGER)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO link VALUES (10, 5)")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM link").Scan(&n))
	assert.Equal(t, 1, n)
	assert.Zero(t, db.Stats().MaxLifetimeClosed)
	assert.Zero(t, db.Stats().MaxIdleTimeClosed)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", URL: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"postgres://user:pw@localhost:5432/movesproject?sslmode=disable", "movesproject"},
		{"postgres://localhost/test", "test"},
		{"postgres://localhost", ""},
		{"/data/project.db", "/data/project.db"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Name(tt.url), "Name(%q)", tt.url)
	}
}
