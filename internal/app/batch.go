package app

import (
	"context"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// SymbolResolver maps words to pictograms.
type SymbolResolver interface {
	// Resolve returns the best match for word, or nil when there is none.
	Resolve(ctx context.Context, word, lang string) (*domain.SymbolRecord, error)

	// ResolveAll returns every candidate for word in service order.
	ResolveAll(ctx context.Context, word, lang string) ([]domain.SymbolRecord, error)
}

// ResolveBatch resolves all words concurrently and returns one entry per
// word, in input order. An entry is nil when its word has no pictogram or its
// lookup did not finish; the other entries are unaffected.
// A positive limit bounds the number of lookups in flight.
func ResolveBatch(
	ctx context.Context,
	resolver SymbolResolver,
	words []string,
	lang string,
	limit int,
) []*domain.SymbolRecord {
	outcomes := MapPartial(ctx, limit, words, func(ctx context.Context, word string) (*domain.SymbolRecord, error) {
		return resolver.Resolve(ctx, word, lang)
	})

	symbols := make([]*domain.SymbolRecord, len(outcomes))
	for i, o := range outcomes {
		if o.Err == nil {
			symbols[i] = o.Value
		}
	}

	return symbols
}
