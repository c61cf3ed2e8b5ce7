package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pictoboard/internal/adapters/storage/memory"
	"github.com/jsamuelsen/pictoboard/internal/adapters/tokenize"
	"github.com/jsamuelsen/pictoboard/internal/app"
	"github.com/jsamuelsen/pictoboard/internal/app/library"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

// stubResolver answers lookups from a fixed table keyed by normalized word.
// With hang set, every lookup waits for its context to end.
type stubResolver struct {
	symbols map[string][]domain.SymbolRecord
	err     error
	hang    bool
}

func (s *stubResolver) Resolve(ctx context.Context, word, lang string) (*domain.SymbolRecord, error) {
	records, err := s.ResolveAll(ctx, word, lang)
	if err != nil || len(records) == 0 {
		return nil, err
	}

	r := records[0]

	return &r, nil
}

func (s *stubResolver) ResolveAll(ctx context.Context, word, _ string) ([]domain.SymbolRecord, error) {
	if s.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if s.err != nil {
		return nil, s.err
	}

	return s.symbols[domain.NormalizeWord(word)], nil
}

func sampleResolver() *stubResolver {
	return &stubResolver{symbols: map[string][]domain.SymbolRecord{
		"eu":    {{ID: 6632, Keywords: []string{"eu"}}},
		"quero": {{ID: 5441, Keywords: []string{"querer"}}, {ID: 31141, Keywords: []string{"quero"}}, {ID: 7000}},
		"agua":  {{ID: 2248, Keywords: []string{"água"}}},
	}}
}

func testImageURL(id int) string {
	return fmt.Sprintf("https://img.test/%d", id)
}

type testAPI struct {
	router   *gin.Engine
	sessions *app.Sessions
	library  *library.Library
	prefs    *app.Preferences
}

func newTestAPI(t *testing.T, resolver app.SymbolResolver, mw ...gin.HandlerFunc) *testAPI {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	lib := library.New(library.Config{Store: memory.New(), Logger: logger})
	prefs := app.NewPreferences(app.PreferencesConfig{Store: memory.New(), Logger: logger})
	sessions := app.NewSessions(app.SessionsConfig{
		Resolver:  resolver,
		Library:   lib,
		Prefs:     prefs,
		Tokenizer: tokenize.Whitespace{},
		Logger:    logger,
	})

	router := gin.New()
	api := router.Group("/api/v1", mw...)
	NewBoardHandler(sessions, prefs, testImageURL).RegisterBoardRoutes(api)
	NewSymbolHandler(resolver, testImageURL).RegisterSymbolRoutes(api)
	NewLibraryHandler(lib).RegisterLibraryRoutes(api)
	NewPreferencesHandler(prefs).RegisterPreferenceRoutes(api)

	return &testAPI{router: router, sessions: sessions, library: lib, prefs: prefs}
}

// do sends a request. A string or []byte body is sent as is, anything else as JSON.
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	case []byte:
		r = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)

		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

// newBoard opens a board and returns its id.
func (a *testAPI) newBoard(t *testing.T) string {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/boards", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode[boardBody](t, w).ID
}

// generate fills a board from text and returns the new state.
func (a *testAPI) generate(t *testing.T, id, text string) boardBody {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/boards/"+id+"/generate", map[string]string{"text": text})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	return decode[generateBody](t, w).State
}

type symbolBody struct {
	ID       int    `json:"id"`
	ImageURL string `json:"imageUrl"`
	Upload   bool   `json:"upload"`
}

type cardBody struct {
	Word        string      `json:"word"`
	Symbol      *symbolBody `json:"symbol"`
	BorderColor string      `json:"borderColor"`
}

type boardBody struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Columns     int        `json:"columns"`
	Rows        int        `json:"rows"`
	BorderColor string     `json:"borderColor"`
	ShowText    bool       `json:"showText"`
	Cards       []cardBody `json:"cards"`
	Language    string     `json:"language"`
	UndoDepth   int        `json:"undoDepth"`
	RedoDepth   int        `json:"redoDepth"`
	CanUndo     bool       `json:"canUndo"`
	CanRedo     bool       `json:"canRedo"`
}

func (b boardBody) words() []string {
	words := make([]string, len(b.Cards))
	for i, c := range b.Cards {
		words[i] = c.Word
	}

	return words
}

type generateBody struct {
	State      boardBody `json:"state"`
	Found      int       `json:"found"`
	NotFound   int       `json:"notFound"`
	AllMissing bool      `json:"allMissing"`
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}
