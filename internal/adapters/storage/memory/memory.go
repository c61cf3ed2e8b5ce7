// Package memory provides a map-backed blob store.
// Nothing survives the process; it backs the "memory" driver and tests.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// Store implements ports.BlobStore in memory.
type Store struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	failure string
	puts    int
}

// New returns an empty store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under namespace.
func (s *Store) Get(_ context.Context, namespace string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[namespace]
	if !ok {
		return nil, ports.ErrBlobNotFound
	}

	return bytes.Clone(data), nil
}

// Put stores a copy of data under namespace.
func (s *Store) Put(_ context.Context, namespace string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failure != "" {
		return domain.NewUnavailableError("storage", s.failure)
	}

	s.blobs[namespace] = bytes.Clone(data)
	s.puts++

	return nil
}

// FailWrites makes every following Put fail with reason, simulating a full
// or unavailable disk. An empty reason restores normal writes.
func (s *Store) FailWrites(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failure = reason
}

// Puts returns the number of successful writes.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.puts
}

// Name returns the health check name.
func (s *Store) Name() string {
	return "storage"
}

// Check always succeeds.
func (s *Store) Check(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
