package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jsamuelsen/pictoboard/internal/app/board"
	"github.com/jsamuelsen/pictoboard/internal/app/library"
	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// State is a session's board as presented to a client.
type State struct {
	ID        string               `json:"id"`
	Board     domain.BoardSnapshot `json:"board"`
	Layout    board.Layout         `json:"layout"`
	UndoDepth int                  `json:"undoDepth"`
	RedoDepth int                  `json:"redoDepth"`
	Language  string               `json:"language"`
}

// GenerateResult summarizes a board generation.
type GenerateResult struct {
	State      State `json:"state"`
	Found      int   `json:"found"`
	NotFound   int   `json:"notFound"`
	AllMissing bool  `json:"allMissing"`
}

// SessionConfig contains a session's dependencies.
type SessionConfig struct {
	ID        string
	Resolver  SymbolResolver
	Library   *library.Library
	Prefs     *Preferences
	Tokenizer ports.Tokenizer
	Executor  *Executor
	Logger    *slog.Logger

	// Language is the initial search language.
	Language string

	// FanoutLimit bounds concurrent lookups during generation. Zero means no bound.
	FanoutLimit int

	// Blank is the board a new session starts from. Nil means the domain defaults.
	Blank *domain.BoardSnapshot
}

// Session is one open board: its engine, undo history and search language.
// Every board change goes through History.Apply, so each user action is one
// undo step and a failed action leaves no trace.
// Session is safe for concurrent use.
type Session struct {
	id        string
	resolver  SymbolResolver
	library   *library.Library
	prefs     *Preferences
	tokenizer ports.Tokenizer
	exec      *Executor
	logger    *slog.Logger
	fanout    int

	generating atomic.Bool

	mu      sync.Mutex
	history *board.History
	lang    string
}

// NewSession creates a session with an empty board.
// Panics if Resolver, Library or Tokenizer is nil.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Resolver == nil || cfg.Library == nil || cfg.Tokenizer == nil {
		panic("Session: Resolver, Library and Tokenizer are required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	exec := cfg.Executor
	if exec == nil {
		exec = NewExecutor(logger)
	}

	lang := cfg.Language
	if !domain.IsSupportedLanguage(lang) {
		lang = domain.DefaultLanguage
	}

	engine := board.NewEngine()
	if cfg.Blank != nil {
		engine.Restore(*cfg.Blank)
	}

	return &Session{
		id:        cfg.ID,
		resolver:  cfg.Resolver,
		library:   cfg.Library,
		prefs:     cfg.Prefs,
		tokenizer: cfg.Tokenizer,
		exec:      exec,
		logger:    logger.With(slog.String("session_id", cfg.ID)),
		fanout:    cfg.FanoutLimit,
		history:   board.NewHistory(engine),
		lang:      lang,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current board, undo depths and language.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.stateLocked()
}

// generation is the outcome of the lookup phase of Generate.
type generation struct {
	words   []string
	symbols []*domain.SymbolRecord
}

// Generate replaces the board with one card per word of text.
// Words keep their typed form; a word without a pictogram gets a
// placeholder card. Only one generation runs per session at a time; a
// second call while one is in flight returns a ConflictError.
func (s *Session) Generate(ctx context.Context, text string) (GenerateResult, error) {
	if !s.generating.CompareAndSwap(false, true) {
		return GenerateResult{}, domain.NewConflictError("board", "generation in progress")
	}
	defer s.generating.Store(false)

	s.mu.Lock()
	lang := s.lang
	s.mu.Unlock()

	op := Operation[string, generation, []domain.Card, GenerateResult]{
		Name: "generate",
		Validate: func(_ context.Context, text string) error {
			if strings.TrimSpace(text) == "" {
				return domain.NewValidationError("text", "cannot be empty")
			}

			return nil
		},
		Perform: func(ctx context.Context, text string) (generation, error) {
			words := s.tokenizer.Split(lang, strings.TrimSpace(text))
			symbols := ResolveBatch(ctx, s.resolver, words, lang, s.fanout)

			if err := ctx.Err(); err != nil {
				return generation{}, err
			}

			return generation{words: words, symbols: symbols}, nil
		},
		Verify: func(_ context.Context, _ string, g generation) ([]domain.Card, error) {
			if len(g.words) == 0 {
				return nil, domain.NewValidationError("text", "contains no words")
			}

			if len(g.symbols) != len(g.words) {
				return nil, fmt.Errorf("resolved %d of %d words", len(g.symbols), len(g.words))
			}

			s.mu.Lock()
			color := s.history.Snapshot().BorderColor
			s.mu.Unlock()

			cards := make([]domain.Card, len(g.words))
			for i, word := range g.words {
				cards[i] = domain.Card{Word: word, Symbol: g.symbols[i], BorderColor: color}
			}

			return cards, nil
		},
		Archive: func(_ context.Context, _ string, cards []domain.Card) error {
			s.mu.Lock()
			defer s.mu.Unlock()

			return s.history.Apply("generate", func(e *board.Engine) error {
				e.SetCards(cards)
				return nil
			})
		},
		Respond: func(_ context.Context, _ string, cards []domain.Card) (GenerateResult, error) {
			var found int

			for _, c := range cards {
				if c.Found() {
					found++
				}
			}

			return GenerateResult{
				State:      s.State(),
				Found:      found,
				NotFound:   len(cards) - found,
				AllMissing: found == 0,
			}, nil
		},
	}

	return Execute(ctx, s.exec, op, text)
}

// Duplicate inserts a copy of card i right after it.
func (s *Session) Duplicate(i int) (State, error) {
	return s.apply("duplicate", func(e *board.Engine) error {
		card, err := e.Card(i)
		if err != nil {
			return err
		}

		return e.InsertCardAfter(i, card)
	})
}

// Delete removes card i.
func (s *Session) Delete(i int) (State, error) {
	return s.apply("delete", func(e *board.Engine) error {
		return e.RemoveCard(i)
	})
}

// ReplaceSymbol swaps the pictogram of card i, keeping its word.
// An upload is a record carrying a DataURL.
func (s *Session) ReplaceSymbol(i int, symbol domain.SymbolRecord) (State, error) {
	if symbol.ID <= 0 && !symbol.IsUpload() {
		return State{}, domain.NewValidationError("symbol", "requires an id or a data URL")
	}

	return s.apply("replace symbol", func(e *board.Engine) error {
		return e.ReplaceCardSymbol(i, symbol)
	})
}

// RecolorCard paints card i in the board's current border color.
func (s *Session) RecolorCard(i int) (State, error) {
	return s.apply("recolor card", func(e *board.Engine) error {
		return e.SetCardBorderColor(i, e.BorderColor())
	})
}

// SetBorderColor paints every card, and cards added later, in color.
func (s *Session) SetBorderColor(color string) (State, error) {
	return s.apply("border color", func(e *board.Engine) error {
		return e.SetBorderColorAll(color)
	})
}

// Reorder arranges the cards so that position i holds the card previously at order[i].
func (s *Session) Reorder(order []int) (State, error) {
	return s.apply("reorder", func(e *board.Engine) error {
		return e.Reorder(order)
	})
}

// SetTitle renames the board.
func (s *Session) SetTitle(title string) (State, error) {
	return s.apply("title", func(e *board.Engine) error {
		e.SetTitle(title)
		return nil
	})
}

// SetColumns changes the grid width.
func (s *Session) SetColumns(n int) (State, error) {
	return s.apply("columns", func(e *board.Engine) error {
		return e.SetColumnCount(n)
	})
}

// SetLegends shows or hides the word under each pictogram.
func (s *Session) SetLegends(show bool) (State, error) {
	return s.apply("legends", func(e *board.Engine) error {
		e.SetLegendVisibility(show)
		return nil
	})
}

// Undo reverts the last action. It reports false when there was nothing to undo.
func (s *Session) Undo() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.history.Undo()

	return s.stateLocked(), ok
}

// Redo reapplies the last undone action. It reports false when there was nothing to redo.
func (s *Session) Redo() (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok := s.history.Redo()

	return s.stateLocked(), ok
}

// Save adds the board to the library and returns it as a standalone file.
// The board itself is unchanged.
func (s *Session) Save(ctx context.Context) (library.Export, error) {
	s.mu.Lock()
	snapshot := s.history.Snapshot()
	s.mu.Unlock()

	exp, err := s.library.Save(ctx, snapshot)
	if err != nil {
		return library.Export{}, fmt.Errorf("saving board: %w", err)
	}

	s.logger.InfoContext(ctx, "board saved",
		slog.String("filename", exp.Filename),
		slog.Int("cards", len(snapshot.Cards)))

	return exp, nil
}

// LoadSaved replaces the board with library entry index, 0 being the most recent.
func (s *Session) LoadSaved(ctx context.Context, index int) (State, error) {
	saved, err := s.library.Get(ctx, index)
	if err != nil {
		return State{}, fmt.Errorf("loading saved board: %w", err)
	}

	return s.apply("load", func(e *board.Engine) error {
		e.Restore(saved)
		return nil
	})
}

// Import replaces the board with a board file. Fields the file lacks keep
// their current value. A malformed file leaves the board untouched.
func (s *Session) Import(ctx context.Context, data []byte) (State, error) {
	state, err := s.apply("import", func(e *board.Engine) error {
		imported, err := library.DecodeDocument(data, e.Snapshot())
		if err != nil {
			return err
		}

		e.Restore(imported)

		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "board import rejected", slog.String("error", err.Error()))
		return State{}, err
	}

	return state, nil
}

// Search returns every pictogram candidate for word in the session language.
func (s *Session) Search(ctx context.Context, word string) ([]domain.SymbolRecord, error) {
	s.mu.Lock()
	lang := s.lang
	s.mu.Unlock()

	return s.resolver.ResolveAll(ctx, word, lang)
}

// Language returns the session's search language.
func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lang
}

// SetLanguage changes the search language for later generations and
// remembers it as the preferred language. The current board is unchanged.
func (s *Session) SetLanguage(ctx context.Context, lang string) (State, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if !domain.IsSupportedLanguage(lang) {
		return State{}, domain.NewValidationErrorWithValue("language", "unsupported language", lang)
	}

	s.mu.Lock()
	s.lang = lang
	state := s.stateLocked()
	s.mu.Unlock()

	if s.prefs != nil {
		if err := s.prefs.SetLanguage(ctx, lang); err != nil {
			s.logger.WarnContext(ctx, "language preference not stored", slog.String("error", err.Error()))
		}
	}

	return state, nil
}

func (s *Session) apply(name string, fn func(*board.Engine) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.history.Apply(name, fn); err != nil {
		return State{}, err
	}

	return s.stateLocked(), nil
}

func (s *Session) stateLocked() State {
	undo, redo := s.history.Depths()

	return State{
		ID:        s.id,
		Board:     s.history.Snapshot(),
		Layout:    s.history.Layout(),
		UndoDepth: undo,
		RedoDepth: redo,
		Language:  s.lang,
	}
}

// Shortcut is a keyboard-triggered session action.
type Shortcut string

// Keyboard shortcuts, each bound to ctrl (or cmd) plus a key.
const (
	ShortcutUndo Shortcut = "undo"
	ShortcutRedo Shortcut = "redo"
	ShortcutSave Shortcut = "save"
	ShortcutLoad Shortcut = "load"
)

// ErrNoShortcut is returned for a key combination with no binding.
var ErrNoShortcut = errors.New("no shortcut bound")

// ShortcutAction maps a key press to its action: ctrl+z undoes
// (ctrl+shift+z redoes), ctrl+y redoes, ctrl+s saves and ctrl+o loads.
func ShortcutAction(key string, ctrl, shift bool) (Shortcut, error) {
	if !ctrl {
		return "", ErrNoShortcut
	}

	switch strings.ToLower(key) {
	case "z":
		if shift {
			return ShortcutRedo, nil
		}

		return ShortcutUndo, nil
	case "y":
		return ShortcutRedo, nil
	case "s":
		return ShortcutSave, nil
	case "o":
		return ShortcutLoad, nil
	default:
		return "", ErrNoShortcut
	}
}
