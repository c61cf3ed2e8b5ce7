// Package badger provides a BadgerDB-backed blob store.
//
// Each namespace is one key under the "blob/" prefix. Values are replaced
// whole on every Put, inside a single update transaction.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

const keyPrefix = "blob/"

// Config configures the BadgerDB store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Ignored when InMemory is true.
	Path string

	// InMemory keeps everything in memory. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every write before Put returns.
	SyncWrites bool

	// Logger receives BadgerDB's own log lines. Nil silences them.
	Logger *slog.Logger

	// GCInterval is how often value log garbage collection runs. Zero disables it.
	GCInterval time.Duration

	// GCDiscardRatio is the minimum discardable fraction of a value log file before it is rewritten.
	GCDiscardRatio float64
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns a config for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// open opens the underlying database.
func open(cfg Config) (*badger.DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}

		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return db, nil
}

// Store implements ports.BlobStore on BadgerDB.
type Store struct {
	db       *badger.DB
	gcRunner *GCRunner
}

// NewStore opens the database and starts the GC runner when configured.
func NewStore(cfg Config) (*Store, error) {
	db, err := open(cfg)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}

	if cfg.GCInterval > 0 && !cfg.InMemory {
		runner, err := NewGCRunner(db, cfg.GCInterval, cfg.GCDiscardRatio, cfg.Logger)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create GC runner: %w", err)
		}

		s.gcRunner = runner
		runner.Start()
	}

	return s, nil
}

// Get returns the blob stored under namespace.
func (s *Store) Get(_ context.Context, namespace string) ([]byte, error) {
	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + namespace))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)

		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ports.ErrBlobNotFound
	}

	if err != nil {
		return nil, domain.NewUnavailableError("storage", fmt.Sprintf("read %s: %v", namespace, err))
	}

	return data, nil
}

// Put replaces the blob stored under namespace.
func (s *Store) Put(_ context.Context, namespace string, data []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+namespace), data)
	})
	if err != nil {
		return domain.NewUnavailableError("storage", fmt.Sprintf("write %s: %v", namespace, err))
	}

	return nil
}

// Name returns the health check name.
func (s *Store) Name() string {
	return "storage"
}

// Check fails once the database is closed.
func (s *Store) Check(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}

	return nil
}

// Close stops the GC runner and closes the database.
func (s *Store) Close() error {
	if s.gcRunner != nil {
		s.gcRunner.Stop()
	}

	return s.db.Close()
}
