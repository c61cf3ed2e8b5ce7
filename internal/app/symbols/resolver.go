package symbols

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// ResolverConfig contains the resolver's dependencies.
type ResolverConfig struct {
	Cache  ports.SymbolCache
	Lookup ports.SymbolLookup
	Logger *slog.Logger
}

// Resolver maps a word to pictograms, consulting the cache before the
// symbol service.
//
// Outcomes per lookup:
//   - service answered (even with nothing): cached and returned
//   - service unreachable after retries: empty result, not cached, so a
//     later call goes back to the network
//   - empty normalized word: empty result, no cache or network traffic
//
// Concurrent misses on one key share a single lookup.
type Resolver struct {
	cache  ports.SymbolCache
	lookup ports.SymbolLookup
	logger *slog.Logger
	flight singleflight.Group
}

// cachePeeker reads a cache without counting the read as a lookup.
type cachePeeker interface {
	peek(key domain.SymbolKey) ([]domain.SymbolRecord, bool)
}

// NewResolver creates a resolver.
// Panics if Cache or Lookup is nil. Defaults logger to slog.Default() if nil.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.Cache == nil || cfg.Lookup == nil {
		panic("Resolver: Cache and Lookup are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		cache:  cfg.Cache,
		lookup: cfg.Lookup,
		logger: logger,
	}
}

// Resolve returns the best match for word, the first candidate in service
// order, or nil when there is none.
// The error is non-nil only when ctx ended before an answer was available.
func (r *Resolver) Resolve(ctx context.Context, word, lang string) (*domain.SymbolRecord, error) {
	records, err := r.ResolveAll(ctx, word, lang)
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	best := records[0]

	return &best, nil
}

// ResolveAll returns every candidate for word in service order.
// The slice is never nil and belongs to the caller.
// The error is non-nil only when ctx ended before an answer was available.
func (r *Resolver) ResolveAll(ctx context.Context, word, lang string) ([]domain.SymbolRecord, error) {
	key := domain.NewSymbolKey(lang, word)
	if key.Empty() {
		return []domain.SymbolRecord{}, nil
	}

	if records, ok := r.cache.Get(ctx, key); ok {
		return records, nil
	}

	// The lookup runs detached from any single caller so that one caller
	// going away does not fail the others waiting on the same key.
	ch := r.flight.DoChan(key.String(), func() (any, error) {
		return r.fetch(context.WithoutCancel(ctx), key), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		records, _ := res.Val.([]domain.SymbolRecord)

		return cloneRecords(records), nil
	}
}

// fetch performs the network lookup for a cache miss and caches any answer.
func (r *Resolver) fetch(ctx context.Context, key domain.SymbolKey) []domain.SymbolRecord {
	// another flight may have filled the key between our miss and now
	if p, ok := r.cache.(cachePeeker); ok {
		if records, ok := p.peek(key); ok {
			return records
		}
	}

	records, err := r.lookup.Search(ctx, key)
	if err != nil {
		r.logger.WarnContext(ctx, "symbol lookup failed, returning no results",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))

		return []domain.SymbolRecord{}
	}

	if records == nil {
		records = []domain.SymbolRecord{}
	}

	// A storage failure keeps the entry in memory; the lookup still succeeds.
	if err := r.cache.Put(ctx, key, records); err != nil {
		r.logger.DebugContext(ctx, "continuing without persisted cache entry",
			slog.String("key", key.String()))
	}

	return records
}
