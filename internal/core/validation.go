package core

// validation.go applies a table's column rules to values the import
// framework has already read.
//
// Validation happens at two levels:
//  1. Header validation: every declared column must be present
//  2. Cell validation: each value is checked against its column's Filter

import (
	"fmt"
	"strings"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // Column name
	Value   string // The invalid value
	Message string // Human-readable error message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidateCell validates a single cell value against a column specification.
// Returns nil if valid, or a ValidationError describing the problem.
func ValidateCell(value string, spec ColumnSpec) error {
	value = CleanCell(value)
	if err := spec.Filter.Check(value); err != nil {
		return ValidationError{Field: spec.Name, Value: value, Message: err.Error()}
	}
	return nil
}

// ValidateHeaders validates that all declared columns exist in the file headers.
// Returns a mapping from column name to index, or an error listing missing columns.
func ValidateHeaders(headers []string, table TableSpec) (HeaderIndex, error) {
	idx := MakeHeaderIndex(headers)
	var missing []string

	for _, col := range table.Columns {
		if _, ok := idx[strings.ToLower(col.Name)]; !ok {
			missing = append(missing, col.Name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return idx, nil
}
