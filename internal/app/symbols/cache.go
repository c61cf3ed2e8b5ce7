// Package symbols resolves words to pictograms: a persisted per-language
// cache in front of the remote symbol service, plus image uploads that stand
// in for a service pictogram.
package symbols

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/pictoboard/internal/app/symbols"

// Cache implements ports.SymbolCache.
//
// The whole cache is one JSON object in the pictogram_cache namespace,
// keyed by "lang:word". Every Put rewrites that blob while holding the
// lock, so concurrent puts never drop each other's entries.
// There is no eviction and no expiry.
type Cache struct {
	store  ports.BlobStore
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string][]domain.SymbolRecord

	lookups metric.Int64Counter
}

// NewCache creates an empty cache over store. Call Load to warm it.
func NewCache(store ports.BlobStore, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Cache{
		store:   store,
		logger:  logger,
		entries: make(map[string][]domain.SymbolRecord),
	}

	meter := otel.Meter(instrumentationName)

	var err error

	c.lookups, err = meter.Int64Counter(
		"symbol_cache.lookups",
		metric.WithDescription("Symbol cache lookups by result (hit or miss)"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating lookups metric: %w", err)
	}

	_, err = meter.Int64ObservableGauge(
		"symbol_cache.entries",
		metric.WithDescription("Number of cached symbol keys"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(c.Len()))
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating entries metric: %w", err)
	}

	return c, nil
}

// Load replaces the in-memory entries with the persisted blob.
// A missing blob leaves the cache empty. A corrupt blob is logged and
// ignored so that lookups simply start over.
func (c *Cache) Load(ctx context.Context) error {
	data, err := c.store.Get(ctx, ports.NamespaceSymbolCache)
	if errors.Is(err, ports.ErrBlobNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("loading symbol cache: %w", err)
	}

	entries := make(map[string][]domain.SymbolRecord)
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.WarnContext(ctx, "discarding corrupt symbol cache", slog.String("error", err.Error()))
		entries = make(map[string][]domain.SymbolRecord)
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "symbol cache loaded", slog.Int("entries", len(entries)))

	return nil
}

// Get returns a copy of the records cached for key.
// Implements ports.SymbolCache.
func (c *Cache) Get(ctx context.Context, key domain.SymbolKey) ([]domain.SymbolRecord, bool) {
	records, ok := c.peek(key)

	result := "miss"
	if ok {
		result = "hit"
	}

	c.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("result", result),
		attribute.String("language", key.Language),
	))

	return records, ok
}

// peek is Get without the lookups metric.
func (c *Cache) peek(key domain.SymbolKey) ([]domain.SymbolRecord, bool) {
	c.mu.Lock()
	records, ok := c.entries[key.String()]
	c.mu.Unlock()

	if !ok {
		return nil, false
	}

	return cloneRecords(records), true
}

// Put stores records for key and persists the whole cache.
// When persisting fails the entry stays in memory and an unavailable
// error is returned.
// Implements ports.SymbolCache.
func (c *Cache) Put(ctx context.Context, key domain.SymbolKey, records []domain.SymbolRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key.String()] = cloneRecords(records)

	data, err := json.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("encoding symbol cache: %w", err)
	}

	if err := c.store.Put(ctx, ports.NamespaceSymbolCache, data); err != nil {
		c.logger.WarnContext(ctx, "symbol cache not persisted",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))

		if domain.IsUnavailable(err) {
			return err
		}

		return domain.NewUnavailableError("storage", err.Error())
	}

	return nil
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// cloneRecords deep-copies records. The result is never nil so that an
// empty result stays distinguishable from "not cached" after a JSON round trip.
func cloneRecords(records []domain.SymbolRecord) []domain.SymbolRecord {
	out := make([]domain.SymbolRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}

	return out
}
