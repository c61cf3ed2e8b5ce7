// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for anything that may block on I/O
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
package ports

import (
	"context"
	"errors"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// ErrBlobNotFound is returned by BlobStore.Get when a namespace was never written.
var ErrBlobNotFound = errors.New("blob not found")

// Storage namespaces. Each holds one JSON-encoded blob.
const (
	NamespaceSymbolCache = "pictogram_cache"
	NamespaceLibrary     = "pictogram_history"
	NamespaceLanguage    = "pictogram_lang"
	NamespaceTheme       = "theme_mode"
)

// BlobStore is durable local storage for whole namespaced blobs.
// Writes replace the entire blob; there are no partial updates.
type BlobStore interface {
	// Get returns the blob stored under namespace.
	// Returns ErrBlobNotFound if nothing was stored yet.
	Get(ctx context.Context, namespace string) ([]byte, error)

	// Put replaces the blob stored under namespace.
	// Returns domain.ErrUnavailable when the backend cannot persist it.
	Put(ctx context.Context, namespace string, data []byte) error

	// Close releases the underlying storage.
	Close() error
}

// SymbolLookup queries the remote symbol service.
//
// Implementations must:
//   - return an empty, non-nil slice (and no error) for any non-2xx or undecodable answer
//   - return domain.ErrUnavailable only when no answer was received at all
//   - preserve the service's result order
type SymbolLookup interface {
	Search(ctx context.Context, key domain.SymbolKey) ([]domain.SymbolRecord, error)

	// ImageURL returns the address of the raster image for a service symbol ID.
	ImageURL(id int) string
}

// SymbolCache maps symbol keys to previously fetched results.
type SymbolCache interface {
	// Get returns the cached records and true, or nil and false when the key was never stored.
	// An empty slice with true is a cached "no results".
	Get(ctx context.Context, key domain.SymbolKey) ([]domain.SymbolRecord, bool)

	// Put stores records for key and persists the whole cache.
	// On a storage failure the in-memory value is kept and the error returned.
	Put(ctx context.Context, key domain.SymbolKey, records []domain.SymbolRecord) error
}

// Tokenizer splits free text into display words.
type Tokenizer interface {
	Split(lang, text string) []string
}
