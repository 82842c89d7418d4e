package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/movesimport/internal/config"
	"github.com/JonMunkholm/movesimport/internal/core"
	_ "github.com/JonMunkholm/movesimport/internal/core/importers" // Register all importers
	"github.com/JonMunkholm/movesimport/internal/database"
	"github.com/JonMunkholm/movesimport/internal/logging"
	"github.com/JonMunkholm/movesimport/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_driver", cfg.Database.Driver,
		"db_max_conns", cfg.Database.MaxConns,
		"check_timeout", cfg.Check.Timeout,
		"check_max_concurrent", cfg.Check.MaxConcurrent,
	)

	// Connect to the project database
	ctx := context.Background()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database", "name", database.Name(cfg.Database.URL))

	service := core.NewService(db, cfg.Check)

	// Log registered importers
	slog.Info("importers registered", "count", core.Count())
	for _, info := range service.ListImporters() {
		slog.Debug("importer", "node", info.NodeName, "primary_table", info.PrimaryTable)
	}

	server := web.NewServer(service, cfg.Server)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stop accepting requests, then let running checks finish
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for checks to complete", "active", status.Active)
			if err := service.WaitForChecks(shutdownCtx); err != nil {
				slog.Warn("checks did not complete in time", "error", err)
			}
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
}
