package core

import (
	"fmt"
	"math"
	"strconv"
)

// Filter is a value rule the import framework applies to a column.
type Filter int

const (
	FilterNone        Filter = iota
	FilterSourceType         // value must reference an existing source use type
	FilterNonNegative        // value must be a number >= 0
)

// SourceTypeTable is the reference table of source use types.
const SourceTypeTable = "SourceUseType"

// String returns the filter's stable name.
func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterSourceType:
		return "source_type"
	case FilterNonNegative:
		return "non_negative"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// It accepts the names produced by String and rejects anything else.
func (f *Filter) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none", "":
		*f = FilterNone
	case "source_type":
		*f = FilterSourceType
	case "non_negative":
		*f = FilterNonNegative
	default:
		return fmt.Errorf("unknown filter %q", string(text))
	}
	return nil
}

// LookupTable returns the reference table implied by the filter, if any.
func (f Filter) LookupTable() string {
	if f == FilterSourceType {
		return SourceTypeTable
	}
	return ""
}

// Check applies the value-only part of the rule to a cleaned cell value.
// Empty values are allowed. Whether a source type exists is a database
// question answered by [TableHasSourceTypes].
func (f Filter) Check(value string) error {
	if value == "" {
		return nil
	}

	switch f {
	case FilterSourceType:
		id, err := strconv.Atoi(value)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid source type id")
		}
	case FilterNonNegative:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("invalid number format")
		}
		if n < 0 {
			return fmt.Errorf("must be non-negative")
		}
	}
	return nil
}
