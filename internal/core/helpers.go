package core

import "strings"

// ColumnMapping returns the file-column to database-column mapping for a table.
// Keys are lowercased header names; values are the database column names.
func ColumnMapping(table TableSpec) map[string]string {
	mapping := make(map[string]string, len(table.Columns))
	for _, col := range table.Columns {
		mapping[strings.ToLower(col.Name)] = col.Name
	}
	return mapping
}

// Headers returns the header row a template for the table starts with.
func Headers(table TableSpec) []string {
	headers := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Name
	}
	return headers
}

// LookupTables returns the distinct reference tables a table's columns depend on,
// in column order.
func LookupTables(table TableSpec) []string {
	var tables []string
	seen := make(map[string]bool)
	for _, col := range table.Columns {
		lookup := col.LookupTable
		if lookup == "" {
			lookup = col.Filter.LookupTable()
		}
		if lookup == "" || seen[strings.ToLower(lookup)] {
			continue
		}
		seen[strings.ToLower(lookup)] = true
		tables = append(tables, lookup)
	}
	return tables
}
