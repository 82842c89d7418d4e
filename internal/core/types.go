package core

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// DBTX is the interface for database operations.
// Satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// ColumnSpec describes one imported column.
type ColumnSpec struct {
	Name        string `json:"name"`                  // Column name, used for both the file header and the database column
	LookupTable string `json:"lookupTable,omitempty"` // Reference table the value must exist in, if any
	Filter      Filter `json:"filter"`                // Value rule applied by the import framework
}

// TableSpec describes one table handled by an importer.
type TableSpec struct {
	Name    string
	Columns []ColumnSpec
}

// ImporterInfo contains display and export information about an importer.
type ImporterInfo struct {
	Name                string   // Display name: "Link Source Types"
	NodeName            string   // Unique identifier and XML node name: "linksourcetypehour"
	PrimaryTable        string   // Table the importer owns
	RequiredTables      []string // Tables that must be populated for the importer to be complete
	ExecutionDataExport bool     // Export from the execution database
	DefaultDataExport   bool     // Export from the default database
}

// CheckFunc inspects project data and reports whether the run may proceed.
// db is nil when the caller only wants to know whether to show the importer.
// rs is optional.
type CheckFunc func(ctx context.Context, db DBTX, rs *RunSpec) (ProjectStatus, error)

// ImporterDefinition contains everything the framework needs from an importer.
type ImporterDefinition struct {
	Info   ImporterInfo
	Tables []TableSpec
	Check  CheckFunc
}

// Table returns the named table spec (case-insensitive).
func (d ImporterDefinition) Table(name string) (TableSpec, bool) {
	for _, t := range d.Tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return TableSpec{}, false
}

// SectionStatus is the readiness of one importer's data for a run.
type SectionStatus int

const (
	StatusReady SectionStatus = iota
	StatusNotReady
)

// String returns the wire name of the status.
func (s SectionStatus) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusNotReady:
		return "not_ready"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler so statuses encode as names in JSON.
func (s SectionStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ProjectStatus is the outcome of a project data check.
type ProjectStatus struct {
	Status   SectionStatus
	Messages []string // Diagnostics in the order they were found
}

// Ready returns a ready status with no messages.
func Ready() ProjectStatus {
	return ProjectStatus{Status: StatusReady}
}

// NotReady returns a not-ready status carrying msgs.
func NotReady(msgs []string) ProjectStatus {
	return ProjectStatus{Status: StatusNotReady, Messages: msgs}
}

// IsReady reports whether the run may proceed.
func (p ProjectStatus) IsReady() bool {
	return p.Status == StatusReady
}

// RunSpec carries the run selections a check may verify data against.
type RunSpec struct {
	SourceTypes []int // Selected source use types; empty means no selection to verify
}
