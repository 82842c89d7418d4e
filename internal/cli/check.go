package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JonMunkholm/movesimport/internal/core"
	"github.com/JonMunkholm/movesimport/internal/database"
	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	sourceTypes string
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [importer...]",
		Short: "Check project data for a run",
		Long: `Run importer checks against the project database.

With no arguments every registered importer is checked. The command exits
with an error when any importer's data is not ready.`,
		Example: `  # Check everything
  projectcheck check

  # Check link source type hours for the selected source types
  projectcheck check linksourcetypehour --source-types 21,31

  # Check a sqlite project file
  projectcheck check --driver sqlite --database ./project.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.sourceTypes, "source-types", "s", "", "Comma-separated source type ids selected for the run")
	return cmd
}

func runCheck(cmd *cobra.Command, root *rootOptions, opts *checkOptions, names []string) error {
	var rs *core.RunSpec
	if opts.sourceTypes != "" {
		ids, err := core.ParseSourceTypes(opts.sourceTypes)
		if err != nil {
			return err
		}
		rs = &core.RunSpec{SourceTypes: ids}
	}

	// Fail on unknown names before touching the database.
	for _, name := range names {
		if _, ok := core.Get(name); !ok {
			return fmt.Errorf("%w: %s", core.ErrUnknownImporter, name)
		}
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Debug("connected to project database",
		"driver", cfg.Database.Driver,
		"name", database.Name(cfg.Database.URL),
	)

	svc := core.NewService(db, cfg.Check)

	var results []core.CheckResult
	if len(names) == 0 {
		results, err = svc.CheckAll(ctx, rs)
		if err != nil {
			return err
		}
	} else {
		for _, name := range names {
			result, err := svc.CheckProject(ctx, name, rs)
			if err != nil {
				return err
			}
			results = append(results, *result)
		}
	}

	w := cmd.OutOrStdout()
	if root.format == FormatJSON {
		if err := writeResultsJSON(w, results); err != nil {
			return err
		}
	} else {
		renderResults(w, results)
	}

	for _, r := range results {
		if r.Status != core.StatusReady {
			return ErrNotReady
		}
	}
	return nil
}

// Status styles. lipgloss drops the colors when stdout is not a terminal.
var (
	readyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	notReadyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	messageStyle  = lipgloss.NewStyle().PaddingLeft(2)
)

func statusLabel(s core.SectionStatus) string {
	if s == core.StatusReady {
		return readyStyle.Render("READY")
	}
	return notReadyStyle.Render("NOT READY")
}

func renderResults(w io.Writer, results []core.CheckResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Importer", "Status", "Messages", "Duration"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Importer, statusLabel(r.Status), len(r.Messages), r.Duration.Round(time.Microsecond).String()})
	}
	t.Render()

	for _, r := range results {
		if len(r.Messages) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(w, "\n%s\n", r.Importer)
		for _, msg := range r.Messages {
			_, _ = fmt.Fprintln(w, messageStyle.Render(msg))
		}
	}
}

func writeResultsJSON(w io.Writer, results []core.CheckResult) error {
	if results == nil {
		results = []core.CheckResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}
