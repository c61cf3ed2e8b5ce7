package app

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jsamuelsen/pictoboard/internal/adapters/storage/memory"
	"github.com/jsamuelsen/pictoboard/internal/app/library"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubResolver answers from a fixed table keyed by normalized word.
type stubResolver struct {
	symbols map[string][]domain.SymbolRecord

	// gate, when set, blocks every lookup until it is closed or ctx ends.
	gate    chan struct{}
	entered chan struct{}

	calls    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu    sync.Mutex
	langs []string
}

func newStubResolver(symbols map[string][]domain.SymbolRecord) *stubResolver {
	return &stubResolver{symbols: symbols}
}

func (r *stubResolver) Resolve(ctx context.Context, word, lang string) (*domain.SymbolRecord, error) {
	records, err := r.ResolveAll(ctx, word, lang)
	if err != nil || len(records) == 0 {
		return nil, err
	}

	return &records[0], nil
}

func (r *stubResolver) ResolveAll(ctx context.Context, word, lang string) ([]domain.SymbolRecord, error) {
	r.calls.Add(1)

	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)

	for {
		seen := r.maxSeen.Load()
		if n <= seen || r.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	r.mu.Lock()
	r.langs = append(r.langs, lang)
	r.mu.Unlock()

	if r.gate != nil {
		if r.entered != nil {
			select {
			case r.entered <- struct{}{}:
			default:
			}
		}

		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := r.symbols[domain.NormalizeWord(word)]

	return append([]domain.SymbolRecord{}, records...), nil
}

func (r *stubResolver) languages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.langs...)
}

// fieldsTokenizer splits on whitespace.
type fieldsTokenizer struct{}

func (fieldsTokenizer) Split(_, text string) []string {
	return strings.Fields(text)
}

func sampleSymbols() map[string][]domain.SymbolRecord {
	return map[string][]domain.SymbolRecord{
		"eu":    {{ID: 6632, Keywords: []string{"eu"}}},
		"quero": {{ID: 5441, Keywords: []string{"querer"}}, {ID: 31141, Keywords: []string{"quero"}}},
		"agua":  {{ID: 2248, Keywords: []string{"água"}}},
	}
}

func newTestLibrary(t *testing.T) *library.Library {
	t.Helper()

	return library.New(library.Config{Store: memory.New(), Logger: discardLogger()})
}

func newTestSession(t *testing.T, resolver SymbolResolver) *Session {
	t.Helper()

	return NewSession(SessionConfig{
		ID:        "test-session",
		Resolver:  resolver,
		Library:   newTestLibrary(t),
		Prefs:     NewPreferences(PreferencesConfig{Store: memory.New(), Logger: discardLogger()}),
		Tokenizer: fieldsTokenizer{},
		Logger:    discardLogger(),
		Language:  "pt",
	})
}
