// Package sqlite provides a SQLite-backed blob store.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store implements ports.BlobStore on a single SQLite table.
type Store struct {
	db *sql.DB
	sq sq.StatementBuilderType
}

// NewStore opens the database at dbPath and applies migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := Init(dbPath)
	if err != nil {
		return nil, err
	}

	return &Store{db: db, sq: sq.StatementBuilder}, nil
}

// Init opens the SQLite database at dbPath, applies migrations, and returns *sql.DB.
func Init(dbPath string) (*sql.DB, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("make db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// every connection to :memory: is a separate database
	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	}

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL UNIQUE,
        applied_at TEXT NOT NULL
    )`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	var files []string

	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}

	sort.Strings(files)

	for _, name := range files {
		applied, err := isApplied(db, name)
		if err != nil {
			return err
		}

		if applied {
			continue
		}

		b, err := migrationsFS.ReadFile(path.Join("migrations", name))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := db.Exec(string(b)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := db.Exec(`INSERT INTO schema_migrations(name, applied_at) VALUES (?, ?)`,
			name, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

func isApplied(db *sql.DB, name string) (bool, error) {
	var n int

	err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE name = ?`, name).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", name, err)
	}

	return true, nil
}

// Get returns the blob stored under namespace.
func (s *Store) Get(ctx context.Context, namespace string) ([]byte, error) {
	query, args, err := s.sq.Select("data").
		From("blobs").
		Where(sq.Eq{"namespace": namespace}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	var data []byte

	err = s.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrBlobNotFound
	}

	if err != nil {
		return nil, domain.NewUnavailableError("storage", fmt.Sprintf("read %s: %v", namespace, err))
	}

	return data, nil
}

// Put replaces the blob stored under namespace.
func (s *Store) Put(ctx context.Context, namespace string, data []byte) error {
	query, args, err := s.sq.Insert("blobs").
		Columns("namespace", "data", "updated_at").
		Values(namespace, data, time.Now().UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(namespace) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return domain.NewUnavailableError("storage", fmt.Sprintf("write %s: %v", namespace, err))
	}

	return nil
}

// Name returns the health check name.
func (s *Store) Name() string {
	return "storage"
}

// Check pings the database.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
