package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/movesimport/internal/core"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered importers",
		Long: `List the registered importers with their tables and export settings.
Use --verbose to include each table's columns and filters.`,
		Example: `  # List importers
  projectcheck list

  # Include column descriptors
  projectcheck list -V

  # Output as JSON
  projectcheck list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defs := core.All()
			w := cmd.OutOrStdout()

			if opts.format == FormatJSON {
				return writeDefinitionsJSON(w, defs)
			}
			renderImporters(w, defs)
			if verbose {
				for _, def := range defs {
					for _, t := range def.Tables {
						renderColumns(w, t)
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "Show table columns")
	return cmd
}

func renderImporters(w io.Writer, defs []core.ImporterDefinition) {
	if len(defs) == 0 {
		_, _ = fmt.Fprintln(w, "(no importers registered)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Node", "Name", "Primary Table", "Required Tables", "Execution Export", "Default Export"})
	for _, def := range defs {
		info := def.Info
		t.AppendRow(table.Row{
			info.NodeName,
			info.Name,
			info.PrimaryTable,
			strings.Join(info.RequiredTables, ", "),
			yesNo(info.ExecutionDataExport),
			yesNo(info.DefaultDataExport),
		})
	}
	t.Render()
}

func renderColumns(w io.Writer, spec core.TableSpec) {
	_, _ = fmt.Fprintf(w, "\n%s\n", spec.Name)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Lookup Table", "Filter"})
	for _, col := range spec.Columns {
		t.AppendRow(table.Row{col.Name, col.LookupTable, col.Filter.String()})
	}
	t.Render()
}

// definitionJSON is the machine-readable form of an importer.
type definitionJSON struct {
	Name                string      `json:"name"`
	NodeName            string      `json:"nodeName"`
	PrimaryTable        string      `json:"primaryTable"`
	RequiredTables      []string    `json:"requiredTables"`
	ExecutionDataExport bool        `json:"executionDataExport"`
	DefaultDataExport   bool        `json:"defaultDataExport"`
	Tables              []tableJSON `json:"tables"`
}

type tableJSON struct {
	Name    string            `json:"name"`
	Columns []core.ColumnSpec `json:"columns"`
	Mapping map[string]string `json:"mapping"`
}

func writeDefinitionsJSON(w io.Writer, defs []core.ImporterDefinition) error {
	out := make([]definitionJSON, len(defs))
	for i, def := range defs {
		tables := make([]tableJSON, len(def.Tables))
		for j, t := range def.Tables {
			tables[j] = tableJSON{Name: t.Name, Columns: t.Columns, Mapping: core.ColumnMapping(t)}
		}
		out[i] = definitionJSON{
			Name:                def.Info.Name,
			NodeName:            def.Info.NodeName,
			PrimaryTable:        def.Info.PrimaryTable,
			RequiredTables:      def.Info.RequiredTables,
			ExecutionDataExport: def.Info.ExecutionDataExport,
			DefaultDataExport:   def.Info.DefaultDataExport,
			Tables:              tables,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
