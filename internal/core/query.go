package core

import (
	"context"
	"database/sql"
	"fmt"
)

// ForEachRow runs query and calls fn once per result row.
// The cursor is closed before ForEachRow returns, on every path, so callers
// can run their queries one after another on a single connection.
func ForEachRow(ctx context.Context, db DBTX, query string, fn func(*sql.Rows) error) (err error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", cerr)
		}
	}()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate rows: %w", err)
	}
	return nil
}

// QueryInt64s runs a single-column query and returns its values in order.
func QueryInt64s(ctx context.Context, db DBTX, query string) ([]int64, error) {
	var out []int64
	err := ForEachRow(ctx, db, query, func(rows *sql.Rows) error {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
		return nil
	})
	return out, err
}
