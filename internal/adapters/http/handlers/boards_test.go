package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pictoboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/pictoboard/internal/adapters/http/middleware"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

func TestBoardHandler_Create(t *testing.T) {
	api := newTestAPI(t, sampleResolver())

	w := api.do(t, http.MethodPost, "/api/v1/boards", nil)

	require.Equal(t, http.StatusCreated, w.Code)

	b := decode[boardBody](t, w)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "/api/v1/boards/"+b.ID, w.Header().Get("Location"))
	assert.Equal(t, domain.DefaultLanguage, b.Language)
	assert.Equal(t, domain.DefaultColumns, b.Columns)
	assert.Equal(t, domain.DefaultBorderColor, b.BorderColor)
	assert.True(t, b.ShowText)
	assert.Empty(t, b.Cards)
	assert.False(t, b.CanUndo)
	assert.Equal(t, 1, api.sessions.Len())
}

func TestBoardHandler_Create_Language(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		body     any
		wantCode int
		wantLang string
	}{
		{name: "explicit", body: map[string]string{"language": "es"}, wantCode: http.StatusCreated, wantLang: "es"},
		{name: "stored preference", stored: "en", wantCode: http.StatusCreated, wantLang: "en"},
		{name: "explicit beats stored", stored: "en", body: map[string]string{"language": "fr"}, wantCode: http.StatusCreated, wantLang: "fr"},
		{name: "unsupported", body: map[string]string{"language": "xx"}, wantCode: http.StatusBadRequest},
		{name: "not json", body: "{", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, sampleResolver())
			if tt.stored != "" {
				require.NoError(t, api.prefs.SetLanguage(context.Background(), tt.stored))
			}

			w := api.do(t, http.MethodPost, "/api/v1/boards", tt.body)

			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			if tt.wantCode == http.StatusCreated {
				assert.Equal(t, tt.wantLang, decode[boardBody](t, w).Language)
			}
		})
	}
}

func TestBoardHandler_GetAndClose(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)

	w := api.do(t, http.MethodGet, "/api/v1/boards/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, decode[boardBody](t, w).ID)

	w = api.do(t, http.MethodDelete, "/api/v1/boards/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/boards/"+id, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrorCodeNotFound, decode[errorBody](t, w).Error.Code)

	w = api.do(t, http.MethodDelete, "/api/v1/boards/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBoardHandler_Generate(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)

	w := api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/generate",
		map[string]string{"text": "Eu quero água bolo"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	res := decode[generateBody](t, w)
	assert.Equal(t, 3, res.Found)
	assert.Equal(t, 1, res.NotFound)
	assert.False(t, res.AllMissing)
	assert.Equal(t, []string{"Eu", "quero", "água", "bolo"}, res.State.words())

	require.NotNil(t, res.State.Cards[0].Symbol)
	assert.Equal(t, 6632, res.State.Cards[0].Symbol.ID)
	assert.Equal(t, "https://img.test/6632", res.State.Cards[0].Symbol.ImageURL)
	assert.Equal(t, 5441, res.State.Cards[1].Symbol.ID)
	assert.Nil(t, res.State.Cards[3].Symbol)
	assert.Equal(t, 1, res.State.Rows)
	assert.True(t, res.State.CanUndo)
}

func TestBoardHandler_Generate_AllMissing(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)

	w := api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/generate", map[string]string{"text": "bolo pão"})

	require.Equal(t, http.StatusOK, w.Code)

	res := decode[generateBody](t, w)
	assert.True(t, res.AllMissing)
	assert.Len(t, res.State.Cards, 2)
}

func TestBoardHandler_Generate_DeadlineExceeded(t *testing.T) {
	resolver := sampleResolver()
	api := newTestAPI(t, resolver, middleware.Timeout(50*time.Millisecond))
	id := api.newBoard(t)
	before := api.generate(t, id, "Eu")

	resolver.hang = true
	w := api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/generate", map[string]string{"text": "quero água"})

	require.Equal(t, http.StatusGatewayTimeout, w.Code, w.Body.String())
	assert.Equal(t, dto.ErrorCodeTimeout, decode[errorBody](t, w).Error.Code)

	resolver.hang = false
	w = api.do(t, http.MethodGet, "/api/v1/boards/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before.words(), decode[boardBody](t, w).words())
}

func TestBoardHandler_Generate_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{name: "no body", body: nil, wantCode: dto.ErrorCodeBadRequest},
		{name: "missing text", body: map[string]string{}, wantCode: dto.ErrorCodeValidation},
		{name: "blank text", body: map[string]string{"text": "   "}, wantCode: dto.ErrorCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, sampleResolver())
			id := api.newBoard(t)

			w := api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/generate", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decode[errorBody](t, w).Error.Code)
		})
	}
}

func TestBoardHandler_Update(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)
	api.generate(t, id, "eu quero")

	w := api.do(t, http.MethodPatch, "/api/v1/boards/"+id, map[string]any{
		"title":       "Rotina",
		"columns":     2,
		"borderColor": "#ff0000",
		"showText":    false,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	b := decode[boardBody](t, w)
	assert.Equal(t, "Rotina", b.Title)
	assert.Equal(t, 2, b.Columns)
	assert.Equal(t, 1, b.Rows)
	assert.Equal(t, "#ff0000", b.BorderColor)
	assert.False(t, b.ShowText)
	assert.Equal(t, "#ff0000", b.Cards[0].BorderColor)
	assert.Equal(t, 5, b.UndoDepth, "generate plus one step per field")
}

func TestBoardHandler_Update_Invalid(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)

	w := api.do(t, http.MethodPatch, "/api/v1/boards/"+id, map[string]any{"columns": 9})

	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errorBody](t, w)
	assert.Equal(t, dto.ErrorCodeValidation, body.Error.Code)
	assert.Contains(t, body.Error.Details, "columns")

	w = api.do(t, http.MethodGet, "/api/v1/boards/"+id, nil)
	assert.Equal(t, domain.DefaultColumns, decode[boardBody](t, w).Columns)
}

func TestBoardHandler_UndoRedo(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)

	w := api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/undo", nil)
	require.Equal(t, http.StatusOK, w.Code, "undo with empty history is a no-op")
	assert.Empty(t, decode[boardBody](t, w).Cards)

	api.generate(t, id, "eu quero")

	w = api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)

	b := decode[boardBody](t, w)
	assert.Empty(t, b.Cards)
	assert.True(t, b.CanRedo)

	w = api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/redo", nil)
	require.Equal(t, http.StatusOK, w.Code)

	b = decode[boardBody](t, w)
	assert.Equal(t, []string{"eu", "quero"}, b.words())
	assert.False(t, b.CanRedo)
}

func TestBoardHandler_CardActions(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		wantCode  int
		wantWords []string
	}{
		{name: "duplicate", method: http.MethodPost, path: "/cards/0/duplicate", wantCode: http.StatusOK, wantWords: []string{"eu", "eu", "quero", "agua"}},
		{name: "delete", method: http.MethodDelete, path: "/cards/1", wantCode: http.StatusOK, wantWords: []string{"eu", "agua"}},
		{name: "recolor", method: http.MethodPost, path: "/cards/2/recolor", wantCode: http.StatusOK, wantWords: []string{"eu", "quero", "agua"}},
		{name: "out of range", method: http.MethodPost, path: "/cards/3/duplicate", wantCode: http.StatusBadRequest},
		{name: "negative", method: http.MethodDelete, path: "/cards/-1", wantCode: http.StatusBadRequest},
		{name: "not a number", method: http.MethodDelete, path: "/cards/first", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, sampleResolver())
			id := api.newBoard(t)
			api.generate(t, id, "eu quero agua")

			w := api.do(t, tt.method, "/api/v1/boards/"+id+tt.path, nil)

			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			if tt.wantCode == http.StatusOK {
				b := decode[boardBody](t, w)
				assert.Equal(t, tt.wantWords, b.words())
				assert.Equal(t, 2, b.UndoDepth)
			}
		})
	}
}

func TestBoardHandler_ReplaceSymbol(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)
	api.generate(t, id, "quero bolo")

	w := api.do(t, http.MethodPut, "/api/v1/boards/"+id+"/cards/0/symbol", map[string]int{"id": 31141})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 31141, decode[boardBody](t, w).Cards[0].Symbol.ID)

	w = api.do(t, http.MethodPut, "/api/v1/boards/"+id+"/cards/1/symbol", map[string]string{"dataUrl": pngDataURL(t, 200, 100)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	symbol := decode[boardBody](t, w).Cards[1].Symbol
	require.NotNil(t, symbol)
	assert.True(t, symbol.Upload)
	assert.Contains(t, symbol.ImageURL, "data:image/png;base64,")
}

func TestBoardHandler_ReplaceSymbol_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "neither", body: map[string]any{}},
		{name: "both", body: map[string]any{"id": 1, "dataUrl": "data:image/png;base64,AAAA"}},
		{name: "not an image", body: map[string]any{"dataUrl": "data:text/plain;base64,AAAA"}},
		{name: "corrupt image", body: map[string]any{"dataUrl": "data:image/png;base64,AAAA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, sampleResolver())
			id := api.newBoard(t)
			api.generate(t, id, "quero")

			w := api.do(t, http.MethodPut, "/api/v1/boards/"+id+"/cards/0/symbol", tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, dto.ErrorCodeValidation, decode[errorBody](t, w).Error.Code)
		})
	}
}

func TestBoardHandler_Reorder(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)
	api.generate(t, id, "eu quero agua")

	w := api.do(t, http.MethodPut, "/api/v1/boards/"+id+"/order", map[string][]int{"order": {2, 0, 1}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"agua", "eu", "quero"}, decode[boardBody](t, w).words())

	w = api.do(t, http.MethodPut, "/api/v1/boards/"+id+"/order", map[string][]int{"order": {0, 0, 1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBoardHandler_SaveAndLoad(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	id := api.newBoard(t)
	api.generate(t, id, "eu quero")
	api.do(t, http.MethodPatch, "/api/v1/boards/"+id, map[string]string{"title": "Rotina da Manhã"})

	w := api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/save", nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="prancha-Rotina-da-Manha-`)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), `"title": "Rotina da Manhã"`)
	assert.Equal(t, 1, api.library.Len())

	api.generate(t, id, "agua")

	w = api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/load/0", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	b := decode[boardBody](t, w)
	assert.Equal(t, []string{"eu", "quero"}, b.words())
	assert.Equal(t, "Rotina da Manhã", b.Title)

	w = api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/load/5", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBoardHandler_Import(t *testing.T) {
	api := newTestAPI(t, sampleResolver())
	source := api.newBoard(t)
	api.generate(t, source, "eu quero agua")

	w := api.do(t, http.MethodPost, "/api/v1/boards/"+source+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code)

	exported := w.Body.Bytes()
	target := api.newBoard(t)

	w = api.do(t, http.MethodPost, "/api/v1/boards/"+target+"/import", exported)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	b := decode[boardBody](t, w)
	assert.Equal(t, []string{"eu", "quero", "agua"}, b.words())
	assert.Equal(t, 2248, b.Cards[2].Symbol.ID)
	assert.True(t, b.CanUndo)
}

func TestBoardHandler_Import_Malformed(t *testing.T) {
	for _, body := range []string{"", "not json", `{"cards": 3}`} {
		t.Run(body, func(t *testing.T) {
			api := newTestAPI(t, sampleResolver())
			id := api.newBoard(t)

			w := api.do(t, http.MethodPost, "/api/v1/boards/"+id+"/import", body)

			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
			assert.Equal(t, dto.ErrorCodeMalformedImport, decode[errorBody](t, w).Error.Code)
		})
	}
}

func TestBoardHandler_UnknownBoard(t *testing.T) {
	api := newTestAPI(t, sampleResolver())

	paths := []struct{ method, path string }{
		{http.MethodPost, "/generate"},
		{http.MethodPost, "/undo"},
		{http.MethodPost, "/cards/0/duplicate"},
		{http.MethodPost, "/save"},
		{http.MethodPost, "/import"},
	}

	for _, p := range paths {
		w := api.do(t, p.method, "/api/v1/boards/missing"+p.path, map[string]string{"text": "eu"})
		assert.Equal(t, http.StatusNotFound, w.Code, p.path)
	}
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
