// Command projectcheck reports whether a project database is ready for a run.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/movesimport/internal/cli"
	_ "github.com/JonMunkholm/movesimport/internal/core/importers" // Register all importers
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment is used as is.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx)
	switch {
	case err == nil:
	case errors.Is(err, cli.ErrNotReady):
		stop()
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "Error:", cli.ErrorMessage(err))
		stop()
		os.Exit(1)
	}
}
