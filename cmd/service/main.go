// Package main is the entry point for the pictoboard service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen/pictoboard/internal/adapters/http"
	"github.com/jsamuelsen/pictoboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/pictoboard/internal/bootstrap"
	"github.com/jsamuelsen/pictoboard/internal/platform/logging"
	"github.com/jsamuelsen/pictoboard/internal/platform/telemetry"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig(bootstrap.Profile())
	if err != nil {
		return err
	}

	logger := bootstrap.NewLogger(cfg, os.Stdout)
	logging.SetDefault(logger)

	logger.Info("starting pictoboard",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Driver),
	)

	telProvider, err := telemetry.New(ctx, telemetry.ConfigFrom(cfg))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// Storage closes only after the server has drained.
	components, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := components.Close(); closeErr != nil {
			logger.Error("storage close error", slog.Any("error", closeErr))
		}
	}()

	logger.Info("state loaded",
		slog.Int("cached_symbols", components.Cache.Len()),
		slog.Int("saved_boards", components.Library.Len()),
	)

	imageURL := components.SymbolClient.ImageURL
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	api := http.APIHandlers{
		Boards:      handlers.NewBoardHandler(components.Sessions, components.Prefs, imageURL),
		Symbols:     handlers.NewSymbolHandler(components.Resolver, imageURL),
		Library:     handlers.NewLibraryHandler(components.Library),
		Preferences: handlers.NewPreferencesHandler(components.Prefs),
	}
	healthHandler := handlers.NewHealthHandler(components.Health, buildInfo).
		WithSessions(components.Sessions).
		WithMetrics(telProvider.MetricsHandler())

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(logger, &cfg.App, healthHandler, api))

	if err := server.ListenAndServe(ctx); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}
