package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pictoboard/internal/adapters/http/handlers"
	"github.com/jsamuelsen/pictoboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/pictoboard/internal/adapters/storage/memory"
	"github.com/jsamuelsen/pictoboard/internal/adapters/tokenize"
	"github.com/jsamuelsen/pictoboard/internal/app"
	"github.com/jsamuelsen/pictoboard/internal/app/library"
	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/platform/config"
	"github.com/jsamuelsen/pictoboard/internal/ports"
)

type tableResolver map[string]domain.SymbolRecord

func (r tableResolver) Resolve(_ context.Context, word, _ string) (*domain.SymbolRecord, error) {
	rec, ok := r[domain.NormalizeWord(word)]
	if !ok {
		return nil, nil
	}

	return &rec, nil
}

func (r tableResolver) ResolveAll(ctx context.Context, word, lang string) ([]domain.SymbolRecord, error) {
	rec, err := r.Resolve(ctx, word, lang)
	if rec == nil || err != nil {
		return nil, err
	}

	return []domain.SymbolRecord{*rec}, nil
}

func testAppConfig() *config.AppConfig {
	return &config.AppConfig{Name: "pictoboard-test", Environment: "test", Version: "1.0.0"}
}

func imageURL(id int) string {
	return fmt.Sprintf("https://img.test/%d.png", id)
}

func newTestAPIHandlers() (APIHandlers, *app.Sessions) {
	logger := slog.New(slog.DiscardHandler)
	resolver := tableResolver{
		"eu":    {ID: 6632, Keywords: []string{"eu"}},
		"quero": {ID: 5441, Keywords: []string{"querer"}},
	}

	lib := library.New(library.Config{Store: memory.New(), Logger: logger})
	prefs := app.NewPreferences(app.PreferencesConfig{Store: memory.New(), Logger: logger})
	sessions := app.NewSessions(app.SessionsConfig{
		Resolver:  resolver,
		Library:   lib,
		Prefs:     prefs,
		Tokenizer: tokenize.Whitespace{},
		Logger:    logger,
	})

	return APIHandlers{
		Boards:      handlers.NewBoardHandler(sessions, prefs, imageURL),
		Symbols:     handlers.NewSymbolHandler(resolver, imageURL),
		Library:     handlers.NewLibraryHandler(lib),
		Preferences: handlers.NewPreferencesHandler(prefs),
	}, sessions
}

func TestNewDefaultRouterConfig(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	appCfg := testAppConfig()
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{})
	api, _ := newTestAPIHandlers()

	cfg := NewDefaultRouterConfig(logger, appCfg, healthHandler, api)

	assert.Equal(t, logger, cfg.Logger)
	assert.Equal(t, appCfg, cfg.AppConfig)
	assert.Equal(t, healthHandler, cfg.HealthHandler)
	assert.Equal(t, api, cfg.API)
	assert.Equal(t, DefaultRequestTimeout, cfg.Timeout)
}

func TestSetupMinimalRouter(t *testing.T) {
	engine := gin.New()
	healthHandler := handlers.NewHealthHandler(nil, handlers.BuildInfo{Version: "1.0.0"})

	SetupMinimalRouter(engine, slog.New(slog.DiscardHandler), healthHandler)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestSetupMinimalRouterWithNilHandler(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupMinimalRouter(engine, slog.New(slog.DiscardHandler), nil)
	})
	assert.Empty(t, engine.Routes())
}

func TestSetupRouter_Routes(t *testing.T) {
	api, _ := newTestAPIHandlers()
	engine := gin.New()

	SetupRouter(engine, RouterConfig{
		Logger:        slog.New(slog.DiscardHandler),
		AppConfig:     testAppConfig(),
		HealthHandler: handlers.NewHealthHandler(nil, handlers.BuildInfo{}),
		API:           api,
		Timeout:       time.Second,
	})

	routes := make(map[string]bool)
	for _, r := range engine.Routes() {
		routes[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /-/live",
		"GET /-/ready",
		"POST /api/v1/boards",
		"POST /api/v1/boards/:id/generate",
		"PUT /api/v1/boards/:id/cards/:index/symbol",
		"GET /api/v1/symbols/:lang/search/:word",
		"GET /api/v1/library",
		"PUT /api/v1/preferences",
	} {
		assert.True(t, routes[want], "missing route: %s", want)
	}
}

func TestSetupRouter_NilHandlers(t *testing.T) {
	engine := gin.New()

	require.NotPanics(t, func() {
		SetupRouter(engine, RouterConfig{
			Logger:    slog.New(slog.DiscardHandler),
			AppConfig: testAppConfig(),
		})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/boards", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRouter_EndToEnd(t *testing.T) {
	api, sessions := newTestAPIHandlers()
	registry := ports.NewHealthRegistry()

	engine := gin.New()
	engine.Use(middleware.BodyLimit(512))
	SetupRouter(engine, RouterConfig{
		Logger:        slog.New(slog.DiscardHandler),
		AppConfig:     testAppConfig(),
		HealthHandler: handlers.NewHealthHandler(registry, handlers.BuildInfo{}).WithSessions(sessions),
		API:           api,
		Timeout:       5 * time.Second,
	})

	send := func(method, path, body string, header http.Header) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range header {
			req.Header[k] = v
		}

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		return w
	}

	t.Run("request id is echoed", func(t *testing.T) {
		h := http.Header{}
		h.Set(middleware.HeaderRequestID, "req-123")

		w := send(http.MethodGet, "/-/live", "", h)

		assert.Equal(t, "req-123", w.Header().Get(middleware.HeaderRequestID))
	})

	var boardID string

	t.Run("create and generate", func(t *testing.T) {
		w := send(http.MethodPost, "/api/v1/boards", `{"language":"pt"}`, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		boardID = created.ID

		w = send(http.MethodPost, "/api/v1/boards/"+boardID+"/generate", `{"text":"Eu quero água"}`, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var gen struct {
			Found    int `json:"found"`
			NotFound int `json:"notFound"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &gen))
		assert.Equal(t, 2, gen.Found)
		assert.Equal(t, 1, gen.NotFound)
	})

	t.Run("readiness counts sessions", func(t *testing.T) {
		w := send(http.MethodGet, "/-/ready", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","sessions":1}`, w.Body.String())
	})

	t.Run("oversized import", func(t *testing.T) {
		body := `{"cards":[],"title":"` + strings.Repeat("a", 1024) + `"}`

		w := send(http.MethodPost, "/api/v1/boards/"+boardID+"/import", body, nil)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "PAYLOAD_TOO_LARGE")
	})

	t.Run("unknown board", func(t *testing.T) {
		w := send(http.MethodGet, "/api/v1/boards/missing", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	})
}
