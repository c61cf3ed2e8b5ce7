// Package bootstrap wires configuration into the running object graph shared
// by the service and the pictoctl command.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jsamuelsen/pictoboard/internal/adapters/clients"
	"github.com/jsamuelsen/pictoboard/internal/adapters/clients/acl"
	"github.com/jsamuelsen/pictoboard/internal/adapters/storage"
	"github.com/jsamuelsen/pictoboard/internal/adapters/tokenize"
	"github.com/jsamuelsen/pictoboard/internal/app"
	"github.com/jsamuelsen/pictoboard/internal/app/library"
	"github.com/jsamuelsen/pictoboard/internal/app/symbols"
	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/platform/config"
	"github.com/jsamuelsen/pictoboard/internal/platform/logging"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// Profile returns the configuration profile from APP_ENVIRONMENT, or "local".
func Profile() string {
	if profile := os.Getenv("APP_ENVIRONMENT"); profile != "" {
		return profile
	}

	return "local"
}

// LoadConfig loads and validates the configuration for profile.
func LoadConfig(profile string) (*config.Config, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the process logger from the log section.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			Level:      cfg.Log.File.Level,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, w)
}

// Components is everything a board session needs, built once per process.
type Components struct {
	Store        storage.Store
	SymbolClient *acl.SymbolClient
	Cache        *symbols.Cache
	Resolver     *symbols.Resolver
	Library      *library.Library
	Prefs        *app.Preferences
	Tokenizer    ports.Tokenizer
	Sessions     *app.Sessions
	Health       *ports.DefaultHealthRegistry
}

// New opens storage, loads the persisted cache and library, and wires the
// symbol pipeline and session registry. A cache or library that cannot be
// read is logged and replaced by an empty one.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	return newWithStore(ctx, cfg, logger, store)
}

func newWithStore(ctx context.Context, cfg *config.Config, logger *slog.Logger, store storage.Store) (*Components, error) {
	c := &Components{Store: store, Health: ports.NewHealthRegistry()}

	if err := c.wire(ctx, cfg, logger); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	return c, nil
}

func (c *Components) wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Symbols.BaseURL,
		ServiceName: cfg.Services.Symbols.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		RateLimit:   cfg.Client.RateLimit,
		RateBurst:   cfg.Client.RateBurst,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating symbol service client: %w", err)
	}

	c.SymbolClient = acl.NewSymbolClient(acl.SymbolClientConfig{Client: httpClient, Logger: logger})

	c.Cache, err = symbols.NewCache(c.Store, logger)
	if err != nil {
		return fmt.Errorf("creating symbol cache: %w", err)
	}

	if err := c.Cache.Load(ctx); err != nil {
		logger.WarnContext(ctx, "starting with an empty symbol cache", slog.String("error", err.Error()))
	}

	c.Resolver = symbols.NewResolver(symbols.ResolverConfig{
		Cache:  c.Cache,
		Lookup: c.SymbolClient,
		Logger: logger,
	})

	c.Library = library.New(library.Config{
		Store:    c.Store,
		Capacity: cfg.Board.LibraryCapacity,
		Logger:   logger,
	})

	if err := c.Library.Load(ctx); err != nil {
		logger.WarnContext(ctx, "starting with an empty library", slog.String("error", err.Error()))
	}

	c.Prefs = app.NewPreferences(app.PreferencesConfig{
		Store:           c.Store,
		DefaultLanguage: cfg.Board.DefaultLanguage,
		Logger:          logger,
	})

	tok, err := tokenize.New()
	if err != nil {
		return err
	}

	c.Tokenizer = tok

	blank := domain.NewBoardSnapshot()
	blank.Columns = cfg.Board.DefaultColumns
	blank.BorderColor = cfg.Board.DefaultBorderColor

	c.Sessions = app.NewSessions(app.SessionsConfig{
		Resolver:    c.Resolver,
		Library:     c.Library,
		Prefs:       c.Prefs,
		Tokenizer:   c.Tokenizer,
		Logger:      logger,
		FanoutLimit: cfg.Board.FanoutLimit,
		Blank:       &blank,
	})

	if err := c.Health.Register(c.Store); err != nil {
		return fmt.Errorf("registering storage health check: %w", err)
	}

	if err := c.Health.Register(c.SymbolClient); err != nil {
		return fmt.Errorf("registering symbol service health check: %w", err)
	}

	return nil
}

// Close releases the store.
func (c *Components) Close() error {
	if closer, ok := c.Store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
	}

	return nil
}
