// Package cli provides the projectcheck command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/movesimport/internal/config"
	"github.com/JonMunkholm/movesimport/internal/core"
	"github.com/JonMunkholm/movesimport/internal/logging"
	"github.com/spf13/cobra"
)

// ErrNotReady is returned by check when any importer's data is not ready.
var ErrNotReady = errors.New("project data is not ready")

// Version is set at build time.
var Version = "dev"

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	database string
	driver   string
	format   string
	logLevel string
}

// NewRootCmd creates the projectcheck root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "projectcheck",
		Short: "Check project data before a run",
		Long: `projectcheck runs the importer checks against a project database and
reports whether each importer's data is ready for a run.

The database is read from DATABASE_URL and DB_DRIVER (or a .env file);
--database and --driver override them.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.format != FormatText && opts.format != FormatJSON {
				return fmt.Errorf("invalid --output %q: must be text or json", opts.format)
			}
			// Diagnostics go to stderr so stdout stays parseable.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.database, "database", "", "Project database URL or sqlite file (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.driver, "driver", "", "Database driver: pgx or sqlite (overrides DB_DRIVER)")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "output", "o", FormatText, "Output format: text or json")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{FormatText, FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"pgx", "sqlite"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newListCommand(opts))
	rootCmd.AddCommand(newCheckCommand(opts))

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// ErrorMessage renders a command error for the terminal.
// Known failures get their code and suggested action ahead of the technical cause.
func ErrorMessage(err error) string {
	if core.IsUserFacing(err) {
		return fmt.Sprintf("%s\n  cause: %v", core.FormatUserError(err), err)
	}
	return err.Error()
}

// loadConfig loads the environment configuration with flag overrides applied.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.database != "" {
		if err := os.Setenv("DATABASE_URL", o.database); err != nil {
			return nil, err
		}
	}
	if o.driver != "" {
		if err := os.Setenv("DB_DRIVER", o.driver); err != nil {
			return nil, err
		}
	}
	return config.Load()
}
