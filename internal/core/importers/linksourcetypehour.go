package importers

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"

	"github.com/JonMunkholm/movesimport/internal/core"
)

func init() {
	registerLinkSourceTypeHour()
}

// linkSourceTypeHourTable is the primary table, named the way the project
// database names it.
const linkSourceTypeHourTable = "linkSourceTypeHour"

// Road type 1 is the off-network link; it never carries link source type hours.
const (
	countOnNetworkLinksSQL = `SELECT count(linkID) FROM link WHERE roadTypeID <> 1`

	linkSourceTypesSQL = `SELECT DISTINCT sourceTypeID FROM linkSourceTypeHour ORDER BY sourceTypeID`

	fractionTotalsSQL = `SELECT linkID, SUM(sourceTypeHourFraction)
		FROM linkSourceTypeHour
		GROUP BY linkID
		HAVING ROUND(CAST(SUM(sourceTypeHourFraction) AS NUMERIC), 4) <> 1.0000
		ORDER BY linkID`

	offNetworkLinksSQL = `SELECT DISTINCT s.linkID
		FROM linkSourceTypeHour s
		JOIN link l ON l.linkID = s.linkID
		WHERE l.roadTypeID = 1
		ORDER BY s.linkID`

	missingLinksSQL = `SELECT DISTINCT l.linkID
		FROM link l
		LEFT JOIN linkSourceTypeHour s ON s.linkID = l.linkID
		WHERE s.linkID IS NULL AND l.roadTypeID <> 1
		ORDER BY l.linkID`
)

func registerLinkSourceTypeHour() {
	core.Register(core.ImporterDefinition{
		Info: core.ImporterInfo{
			Name:                "Link Source Types",
			NodeName:            "linksourcetypehour",
			PrimaryTable:        linkSourceTypeHourTable,
			RequiredTables:      []string{"LinkSourceTypeHour"},
			ExecutionDataExport: true,
			DefaultDataExport:   false,
		},
		Tables: []core.TableSpec{
			{
				Name: "LinkSourceTypeHour",
				Columns: []core.ColumnSpec{
					{Name: "linkID"},
					{Name: "sourceTypeID", LookupTable: core.SourceTypeTable, Filter: core.FilterSourceType},
					{Name: "sourceTypeHourFraction", Filter: core.FilterNonNegative},
				},
			},
		},
		Check: checkLinkSourceTypeHour,
	})
}

// checkLinkSourceTypeHour verifies link source type hour data against the
// project's links:
//  1. with any on-network link, every source type used must be known
//  2. each link's fractions must sum to 1 (4 decimals)
//  3. the off-network link must not appear
//  4. every on-network link must appear
//
// A failure of 1 returns immediately. 2-4 are collected together.
func checkLinkSourceTypeHour(ctx context.Context, db core.DBTX, rs *core.RunSpec) (core.ProjectStatus, error) {
	if db == nil {
		return core.Ready(), nil
	}

	var onNetworkLinks int64
	err := core.ForEachRow(ctx, db, countOnNetworkLinksSQL, func(rows *sql.Rows) error {
		return rows.Scan(&onNetworkLinks)
	})
	if err != nil {
		return core.ProjectStatus{}, fmt.Errorf("count on-network links: %w", err)
	}

	if onNetworkLinks > 0 {
		ok, msgs, err := core.TableHasSourceTypes(ctx, db, linkSourceTypesSQL, linkSourceTypeHourTable, rs)
		if err != nil {
			return core.ProjectStatus{}, err
		}
		if !ok {
			return core.NotReady(msgs), nil
		}
	}

	var quality core.QualityLog

	err = core.ForEachRow(ctx, db, fractionTotalsSQL, func(rows *sql.Rows) error {
		var linkID int64
		var total sql.NullFloat64
		if err := rows.Scan(&linkID, &total); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		quality.Errorf("sourceTypeHourFraction sums to %s on linkID %d", formatFraction(total.Float64), linkID)
		return nil
	})
	if err != nil {
		return core.ProjectStatus{}, fmt.Errorf("check fraction totals: %w", err)
	}

	offNetwork, err := core.QueryInt64s(ctx, db, offNetworkLinksSQL)
	if err != nil {
		return core.ProjectStatus{}, fmt.Errorf("check off-network links: %w", err)
	}
	for _, linkID := range offNetwork {
		quality.Errorf("linkID %d is the off-network link and should not be included in this table.", linkID)
	}

	missing, err := core.QueryInt64s(ctx, db, missingLinksSQL)
	if err != nil {
		return core.ProjectStatus{}, fmt.Errorf("check missing links: %w", err)
	}
	for _, linkID := range missing {
		quality.Errorf("linkID %d is missing.", linkID)
	}

	return quality.Status(), nil
}

// formatFraction prints a fraction total rounded to 4 decimals in its
// shortest form: 0.9, 1.25, 0.3333.
func formatFraction(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
}
