package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pictoboard/internal/adapters/storage/memory"
	"github.com/jsamuelsen/pictoboard/internal/app/library"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

func words(s State) []string {
	out := make([]string, len(s.Board.Cards))
	for i, c := range s.Board.Cards {
		out[i] = c.Word
	}

	return out
}

func generated(t *testing.T, s *Session, text string) State {
	t.Helper()

	res, err := s.Generate(context.Background(), text)
	require.NoError(t, err)

	return res.State
}

func TestNewSession_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { NewSession(SessionConfig{}) })
	assert.Panics(t, func() {
		NewSession(SessionConfig{Resolver: newStubResolver(nil), Tokenizer: fieldsTokenizer{}})
	})
}

func TestNewSession_EmptyBoard(t *testing.T) {
	s := newTestSession(t, newStubResolver(nil))

	state := s.State()

	assert.Equal(t, "test-session", state.ID)
	assert.Empty(t, state.Board.Cards)
	assert.Equal(t, domain.DefaultColumns, state.Board.Columns)
	assert.Equal(t, "pt", state.Language)
	assert.Zero(t, state.UndoDepth)
	assert.Zero(t, state.RedoDepth)
}

func TestSession_Generate(t *testing.T) {
	s := newTestSession(t, newStubResolver(sampleSymbols()))

	res, err := s.Generate(context.Background(), "  Eu quero água xyzzy ")

	require.NoError(t, err)
	assert.Equal(t, []string{"Eu", "quero", "água", "xyzzy"}, words(res.State))
	assert.Equal(t, 3, res.Found)
	assert.Equal(t, 1, res.NotFound)
	assert.False(t, res.AllMissing)

	cards := res.State.Board.Cards
	assert.Equal(t, 6632, cards[0].Symbol.ID)
	assert.Equal(t, 5441, cards[1].Symbol.ID)
	assert.Nil(t, cards[3].Symbol)

	for _, c := range cards {
		assert.Equal(t, domain.DefaultBorderColor, c.BorderColor)
	}

	assert.Equal(t, 1, res.State.UndoDepth)
}

func TestSession_GenerateAllMissing(t *testing.T) {
	s := newTestSession(t, newStubResolver(nil))

	res, err := s.Generate(context.Background(), "foo bar")

	require.NoError(t, err)
	assert.True(t, res.AllMissing)
	assert.Zero(t, res.Found)
	assert.Equal(t, 2, res.NotFound)
	assert.Len(t, res.State.Board.Cards, 2, "placeholders are kept")
}

func TestSession_GenerateEmptyText(t *testing.T) {
	r := newStubResolver(sampleSymbols())
	s := newTestSession(t, r)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := s.Generate(context.Background(), text)

		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))

		step, _ := GetExecutionStep(err)
		assert.Equal(t, StepValidate, step)
	}

	assert.Zero(t, r.calls.Load())
	assert.Zero(t, s.State().UndoDepth)
}

func TestSession_GenerateUsesBoardBorderColor(t *testing.T) {
	s := newTestSession(t, newStubResolver(sampleSymbols()))

	_, err := s.SetBorderColor("#ff0000")
	require.NoError(t, err)

	state := generated(t, s, "Eu quero")

	for _, c := range state.Board.Cards {
		assert.Equal(t, "#ff0000", c.BorderColor)
	}
}

func TestSession_GenerateThenUndo(t *testing.T) {
	s := newTestSession(t, newStubResolver(sampleSymbols()))
	generated(t, s, "Eu quero")
	generated(t, s, "água")

	state, ok := s.Undo()

	require.True(t, ok)
	assert.Equal(t, []string{"Eu", "quero"}, words(state))
	assert.Equal(t, 1, state.RedoDepth)
}

func TestSession_GenerateInFlightRejected(t *testing.T) {
	r := newStubResolver(sampleSymbols())
	r.gate = make(chan struct{})
	r.entered = make(chan struct{}, 1)
	s := newTestSession(t, r)

	first := make(chan error, 1)

	go func() {
		_, err := s.Generate(context.Background(), "Eu")
		first <- err
	}()

	select {
	case <-r.entered:
	case <-time.After(time.Second):
		t.Fatal("first generation never started")
	}

	_, err := s.Generate(context.Background(), "quero")
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))

	close(r.gate)
	require.NoError(t, <-first)

	assert.Equal(t, []string{"Eu"}, words(s.State()))

	_, err = s.Generate(context.Background(), "quero")
	assert.NoError(t, err, "guard released after completion")
}

func TestSession_GenerateCancelledLeavesBoard(t *testing.T) {
	r := newStubResolver(sampleSymbols())
	r.gate = make(chan struct{})
	s := newTestSession(t, r)
	before := generatedWithoutGate(t, s, r, "Eu")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Generate(ctx, "quero água")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, before.Board.Cards, s.State().Board.Cards)
	assert.Equal(t, 1, s.State().UndoDepth)
}

// generatedWithoutGate runs one generation with r's gate temporarily open.
func generatedWithoutGate(t *testing.T, s *Session, r *stubResolver, text string) State {
	t.Helper()

	gate := r.gate
	r.gate = nil
	state := generated(t, s, text)
	r.gate = gate

	return state
}

func TestSession_CardOperations(t *testing.T) {
	tests := []struct {
		name  string
		op    func(*Session) (State, error)
		check func(*testing.T, State)
	}{
		{
			name: "duplicate",
			op:   func(s *Session) (State, error) { return s.Duplicate(0) },
			check: func(t *testing.T, st State) {
				assert.Equal(t, []string{"Eu", "Eu", "quero", "água"}, words(st))
			},
		},
		{
			name: "delete",
			op:   func(s *Session) (State, error) { return s.Delete(1) },
			check: func(t *testing.T, st State) {
				assert.Equal(t, []string{"Eu", "água"}, words(st))
			},
		},
		{
			name: "replace symbol",
			op: func(s *Session) (State, error) {
				return s.ReplaceSymbol(1, domain.SymbolRecord{ID: 31141})
			},
			check: func(t *testing.T, st State) {
				assert.Equal(t, "quero", st.Board.Cards[1].Word)
				assert.Equal(t, 31141, st.Board.Cards[1].Symbol.ID)
			},
		},
		{
			name: "upload",
			op: func(s *Session) (State, error) {
				return s.ReplaceSymbol(2, domain.SymbolRecord{DataURL: "data:image/png;base64,AAAA"})
			},
			check: func(t *testing.T, st State) {
				assert.True(t, st.Board.Cards[2].Symbol.IsUpload())
			},
		},
		{
			name: "reorder",
			op:   func(s *Session) (State, error) { return s.Reorder([]int{2, 0, 1}) },
			check: func(t *testing.T, st State) {
				assert.Equal(t, []string{"água", "Eu", "quero"}, words(st))
			},
		},
		{
			name: "title",
			op:   func(s *Session) (State, error) { return s.SetTitle("Rotina") },
			check: func(t *testing.T, st State) {
				assert.Equal(t, "Rotina", st.Board.Title)
			},
		},
		{
			name: "columns",
			op:   func(s *Session) (State, error) { return s.SetColumns(2) },
			check: func(t *testing.T, st State) {
				assert.Equal(t, 2, st.Board.Columns)
				assert.Equal(t, 2, st.Layout.Rows)
			},
		},
		{
			name: "legends",
			op:   func(s *Session) (State, error) { return s.SetLegends(false) },
			check: func(t *testing.T, st State) {
				assert.False(t, st.Board.ShowLegends)
			},
		},
		{
			name: "border color",
			op:   func(s *Session) (State, error) { return s.SetBorderColor("#00ff00") },
			check: func(t *testing.T, st State) {
				for _, c := range st.Board.Cards {
					assert.Equal(t, "#00ff00", c.BorderColor)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t, newStubResolver(sampleSymbols()))
			before := generated(t, s, "Eu quero água")

			after, err := tt.op(s)

			require.NoError(t, err)
			tt.check(t, after)
			assert.Equal(t, 2, after.UndoDepth, "one undo step per action")

			undone, ok := s.Undo()
			require.True(t, ok)
			assert.True(t, before.Board.Equal(undone.Board))
		})
	}
}

func TestSession_RecolorCard(t *testing.T) {
	s := newTestSession(t, newStubResolver(sampleSymbols()))
	generated(t, s, "Eu quero")

	_, err := s.SetBorderColor("#0000ff")
	require.NoError(t, err)

	// Paint card 0 differently through an import so only recolor can restore it.
	_, err = s.Import(context.Background(), []byte(`{"cards":[{"word":"Eu","borderColor":"#111111"},{"word":"quero","borderColor":"#0000ff"}]}`))
	require.NoError(t, err)

	state, err := s.RecolorCard(0)

	require.NoError(t, err)
	assert.Equal(t, "#0000ff", state.Board.Cards[0].BorderColor)
}

func TestSession_InvalidOperationsLeaveNoTrace(t *testing.T) {
	tests := map[string]func(*Session) (State, error){
		"duplicate out of range": func(s *Session) (State, error) { return s.Duplicate(5) },
		"delete negative":        func(s *Session) (State, error) { return s.Delete(-1) },
		"replace missing card":   func(s *Session) (State, error) { return s.ReplaceSymbol(9, domain.SymbolRecord{ID: 1}) },
		"replace with nothing":   func(s *Session) (State, error) { return s.ReplaceSymbol(0, domain.SymbolRecord{}) },
		"recolor out of range":   func(s *Session) (State, error) { return s.RecolorCard(3) },
		"bad color":              func(s *Session) (State, error) { return s.SetBorderColor("not-a-color") },
		"bad order":              func(s *Session) (State, error) { return s.Reorder([]int{0, 0}) },
		"too many columns":       func(s *Session) (State, error) { return s.SetColumns(9) },
	}

	for name, op := range tests {
		t.Run(name, func(t *testing.T) {
			s := newTestSession(t, newStubResolver(sampleSymbols()))
			before := generated(t, s, "Eu quero")

			_, err := op(s)

			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "got %v", err)

			after := s.State()
			assert.True(t, before.Board.Equal(after.Board))
			assert.Equal(t, before.UndoDepth, after.UndoDepth)
		})
	}
}

func TestSession_UndoRedoEmpty(t *testing.T) {
	s := newTestSession(t, newStubResolver(nil))

	_, ok := s.Undo()
	assert.False(t, ok)

	_, ok = s.Redo()
	assert.False(t, ok)
}

func TestSession_SaveAndLoadSaved(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newStubResolver(sampleSymbols()))
	generated(t, s, "Eu quero água")

	_, err := s.SetTitle("Rotina")
	require.NoError(t, err)

	exp, err := s.Save(ctx)
	require.NoError(t, err)
	assert.Contains(t, exp.Filename, "prancha-Rotina-")
	assert.Equal(t, 2, s.State().UndoDepth, "saving is not an edit")

	generated(t, s, "outra coisa")

	state, err := s.LoadSaved(ctx, 0)

	require.NoError(t, err)
	assert.Equal(t, "Rotina", state.Board.Title)
	assert.Equal(t, []string{"Eu", "quero", "água"}, words(state))
	assert.Equal(t, 4, state.UndoDepth, "loading is one undo step")

	_, err = s.LoadSaved(ctx, 3)
	assert.True(t, domain.IsValidation(err))
}

func TestSession_Import(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, newStubResolver(sampleSymbols()))
	generated(t, s, "Eu")

	state, err := s.Import(ctx, []byte(`{"title":"Importado","columns":"3","cards":[{"word":"casa","symbol":{"id":2317}}]}`))

	require.NoError(t, err)
	assert.Equal(t, "Importado", state.Board.Title)
	assert.Equal(t, 3, state.Board.Columns)
	assert.Equal(t, []string{"casa"}, words(state))

	undone, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, []string{"Eu"}, words(undone))
}

func TestSession_ImportMalformed(t *testing.T) {
	s := newTestSession(t, newStubResolver(sampleSymbols()))
	before := generated(t, s, "Eu quero")

	for _, doc := range []string{"", "null", "{", `{"cards":"x"}`} {
		_, err := s.Import(context.Background(), []byte(doc))

		require.Error(t, err, doc)
		assert.True(t, domain.IsMalformedImport(err), doc)
	}

	after := s.State()
	assert.True(t, before.Board.Equal(after.Board))
	assert.Equal(t, before.UndoDepth, after.UndoDepth)
	assert.Zero(t, after.RedoDepth)
}

func TestSession_SearchUsesLanguage(t *testing.T) {
	ctx := context.Background()
	r := newStubResolver(sampleSymbols())
	s := newTestSession(t, r)

	got, err := s.Search(ctx, "quero")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = s.SetLanguage(ctx, "es")
	require.NoError(t, err)

	_, err = s.Search(ctx, "quero")
	require.NoError(t, err)

	assert.Equal(t, []string{"pt", "es"}, r.languages())
}

func TestSession_SetLanguage(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	prefs := NewPreferences(PreferencesConfig{Store: store, Logger: discardLogger()})
	s := NewSession(SessionConfig{
		Resolver:  newStubResolver(sampleSymbols()),
		Library:   library.New(library.Config{Store: memory.New()}),
		Prefs:     prefs,
		Tokenizer: fieldsTokenizer{},
		Logger:    discardLogger(),
	})
	generated(t, s, "Eu")

	state, err := s.SetLanguage(ctx, "EN")

	require.NoError(t, err)
	assert.Equal(t, "en", state.Language)
	assert.Equal(t, []string{"Eu"}, words(state), "board is not regenerated")
	assert.Equal(t, 1, state.UndoDepth)
	assert.Equal(t, "en", prefs.Language(ctx))

	_, err = s.SetLanguage(ctx, "xx")
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "en", s.Language())
}

func TestSession_SetLanguageStorageFailure(t *testing.T) {
	store := memory.New()
	store.FailWrites("read-only")
	s := NewSession(SessionConfig{
		Resolver:  newStubResolver(nil),
		Library:   newTestLibrary(t),
		Prefs:     NewPreferences(PreferencesConfig{Store: store, Logger: discardLogger()}),
		Tokenizer: fieldsTokenizer{},
		Logger:    discardLogger(),
	})

	state, err := s.SetLanguage(context.Background(), "fr")

	require.NoError(t, err)
	assert.Equal(t, "fr", state.Language)
}

func TestShortcutAction(t *testing.T) {
	tests := []struct {
		key   string
		ctrl  bool
		shift bool
		want  Shortcut
	}{
		{"z", true, false, ShortcutUndo},
		{"Z", true, true, ShortcutRedo},
		{"y", true, false, ShortcutRedo},
		{"s", true, false, ShortcutSave},
		{"O", true, false, ShortcutLoad},
	}

	for _, tt := range tests {
		got, err := ShortcutAction(tt.key, tt.ctrl, tt.shift)
		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}

	for _, combo := range []struct {
		key  string
		ctrl bool
	}{{"z", false}, {"x", true}, {"", true}} {
		_, err := ShortcutAction(combo.key, combo.ctrl, false)
		assert.ErrorIs(t, err, ErrNoShortcut)
	}
}
