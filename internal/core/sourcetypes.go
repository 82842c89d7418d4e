package core

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// sourceTypeIDsSQL lists the known source use types.
const sourceTypeIDsSQL = "SELECT sourceTypeID FROM sourceUseType ORDER BY sourceTypeID"

// TableHasSourceTypes checks the source types an importer's table references.
//
// query must return one column of distinct sourceTypeID values. Every value
// must exist in sourceUseType. When rs selects source types, every selected
// type must also appear in the result. table names the table in messages.
// A NULL sourceTypeID is reported as unknown.
//
// Returns false with one message per failed rule when the data does not pass.
func TableHasSourceTypes(ctx context.Context, db DBTX, query, table string, rs *RunSpec) (bool, []string, error) {
	var (
		used    []int64
		hasNull bool
	)
	err := ForEachRow(ctx, db, query, func(rows *sql.Rows) error {
		var v sql.NullInt64
		if err := rows.Scan(&v); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if !v.Valid {
			hasNull = true
			return nil
		}
		used = append(used, v.Int64)
		return nil
	})
	if err != nil {
		return false, nil, fmt.Errorf("list %s source types: %w", table, err)
	}

	known, err := QueryInt64s(ctx, db, sourceTypeIDsSQL)
	if err != nil {
		return false, nil, fmt.Errorf("list source use types: %w", err)
	}

	knownSet := make(map[int64]bool, len(known))
	for _, id := range known {
		knownSet[id] = true
	}
	usedSet := make(map[int64]bool, len(used))

	var unknown []int64
	for _, id := range used {
		usedSet[id] = true
		if !knownSet[id] {
			unknown = append(unknown, id)
		}
	}

	var missing []int64
	if rs != nil {
		for _, id := range rs.SourceTypes {
			if !usedSet[int64(id)] {
				missing = append(missing, int64(id))
			}
		}
	}

	var msgs []string
	if hasNull || len(unknown) > 0 {
		list := joinIDs(unknown)
		if hasNull {
			list = strings.TrimSuffix("NULL, "+list, ", ")
		}
		msgs = append(msgs, fmt.Sprintf("ERROR: %s references sourceTypeID(s) not in %s: %s",
			table, SourceTypeTable, list))
	}
	if len(missing) > 0 {
		msgs = append(msgs, fmt.Sprintf("ERROR: %s is missing sourceTypeID(s): %s",
			table, joinIDs(missing)))
	}

	return len(msgs) == 0, msgs, nil
}

// ParseSourceTypes parses a comma-separated list of source type ids.
// Blank input yields nil. Duplicates are dropped, order is kept.
func ParseSourceTypes(s string) ([]int, error) {
	var ids []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid source type %q", part)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
