// Package storage selects the durable blob store backing the symbol cache,
// the saved-board library and the preferences.
package storage

import (
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/pictoboard/internal/adapters/storage/badger"
	"github.com/jsamuelsen/pictoboard/internal/adapters/storage/memory"
	"github.com/jsamuelsen/pictoboard/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/pictoboard/internal/platform/config"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// Driver names accepted in storage.driver.
const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Store is a blob store that can also report its health.
type Store interface {
	ports.BlobStore
	ports.HealthChecker
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case DriverBadger:
		bcfg := badger.DefaultConfig()
		bcfg.Path = cfg.Path
		bcfg.SyncWrites = cfg.SyncWrites
		bcfg.GCInterval = cfg.GCInterval
		bcfg.Logger = logger

		store, err := badger.NewStore(bcfg)
		if err != nil {
			return nil, fmt.Errorf("opening badger store: %w", err)
		}

		return store, nil

	case DriverSQLite:
		store, err := sqlite.NewStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}

		return store, nil

	case DriverMemory:
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
