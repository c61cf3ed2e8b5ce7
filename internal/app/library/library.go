// Package library keeps the most recently saved boards and converts
// boards to and from the portable board file.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// DefaultCapacity is how many boards the library keeps.
const DefaultCapacity = 10

// untitled names the export of a board without a title.
const untitled = "sem-titulo"

// Export is a saved board as a standalone file.
type Export struct {
	Filename string
	Data     []byte
	Snapshot domain.BoardSnapshot
}

// Config contains the library's dependencies.
type Config struct {
	Store    ports.BlobStore
	Capacity int
	Logger   *slog.Logger

	// Now is the clock used to stamp saves. Defaults to time.Now.
	Now func() time.Time
}

// Library is the saved-board list, most recent first, capped at Capacity.
// The in-memory list is authoritative; every change is written to the
// pictogram_history namespace on a best-effort basis.
type Library struct {
	store    ports.BlobStore
	capacity int
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	entries []domain.BoardSnapshot
}

// New creates an empty library. Call Load to read persisted boards.
// Panics if Store is nil.
func New(cfg Config) *Library {
	if cfg.Store == nil {
		panic("Library: Store is required")
	}

	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Library{
		store:    cfg.Store,
		capacity: capacity,
		logger:   logger,
		now:      now,
	}
}

// Load replaces the in-memory list with the persisted one.
// Entries that cannot be decoded are skipped.
func (l *Library) Load(ctx context.Context) error {
	data, err := l.store.Get(ctx, ports.NamespaceLibrary)
	if errors.Is(err, ports.ErrBlobNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("loading library: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		l.logger.WarnContext(ctx, "discarding corrupt library", slog.String("error", err.Error()))
		raw = nil
	}

	entries := make([]domain.BoardSnapshot, 0, min(len(raw), l.capacity))

	for i, r := range raw {
		s, err := DecodeDocument(r, domain.NewBoardSnapshot())
		if err != nil {
			l.logger.WarnContext(ctx, "skipping unreadable saved board",
				slog.Int("index", i),
				slog.String("error", err.Error()))

			continue
		}

		entries = append(entries, s)
	}

	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()

	return nil
}

// Save stamps s, puts it at the front of the library, evicts the oldest
// boards past capacity and returns it as a standalone file.
// A storage failure is logged; the board stays saved in memory and the
// export is still returned.
func (l *Library) Save(ctx context.Context, s domain.BoardSnapshot) (Export, error) {
	saved := s.Clone()
	saved.CapturedAt = l.now().UTC().Truncate(time.Millisecond)

	data, err := EncodeDocument(saved)
	if err != nil {
		return Export{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]domain.BoardSnapshot, 0, l.capacity)
	entries = append(entries, saved)
	entries = append(entries, l.entries...)

	if len(entries) > l.capacity {
		entries = entries[:l.capacity]
	}

	l.entries = entries

	if err := l.persist(ctx); err != nil {
		l.logger.WarnContext(ctx, "saved board not persisted", slog.String("error", err.Error()))
	}

	return Export{
		Filename: ExportFilename(saved.Title, saved.CapturedAt),
		Data:     data,
		Snapshot: saved.Clone(),
	}, nil
}

// List returns the saved boards, most recent first.
func (l *Library) List(_ context.Context) []domain.BoardSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.BoardSnapshot, len(l.entries))
	for i, s := range l.entries {
		out[i] = s.Clone()
	}

	return out
}

// Get returns the saved board at index, 0 being the most recent.
func (l *Library) Get(_ context.Context, index int) (domain.BoardSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.entries) {
		return domain.BoardSnapshot{}, domain.NewValidationErrorWithValue("index",
			"no saved board at this position", index)
	}

	return l.entries[index].Clone(), nil
}

// Len returns the number of saved boards.
func (l *Library) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// Clear removes every saved board.
func (l *Library) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil

	return l.persist(ctx)
}

// persist writes the list as an array of board files. Callers hold mu.
func (l *Library) persist(ctx context.Context) error {
	docs := make([]json.RawMessage, 0, len(l.entries))

	for _, s := range l.entries {
		doc, err := EncodeDocument(s)
		if err != nil {
			return err
		}

		docs = append(docs, doc)
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("encoding library: %w", err)
	}

	return l.store.Put(ctx, ports.NamespaceLibrary, data)
}

// ExportFilename names a saved board file: prancha-{title}-{unixMillis}.json.
func ExportFilename(title string, at time.Time) string {
	name := domain.SanitizeFilename(title)
	if name == "" {
		name = untitled
	}

	return "prancha-" + name + "-" + strconv.FormatInt(at.UnixMilli(), 10) + ".json"
}
