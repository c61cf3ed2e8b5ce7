package dto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pictoboard/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want int
	}{
		{
			name: "not found",
			code: ErrorCodeNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "conflict",
			code: ErrorCodeConflict,
			want: http.StatusConflict,
		},
		{
			name: "validation error",
			code: ErrorCodeValidation,
			want: http.StatusBadRequest,
		},
		{
			name: "bad request",
			code: ErrorCodeBadRequest,
			want: http.StatusBadRequest,
		},
		{
			name: "malformed import",
			code: ErrorCodeMalformedImport,
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "too large",
			code: ErrorCodeTooLarge,
			want: http.StatusRequestEntityTooLarge,
		},
		{
			name: "unavailable",
			code: ErrorCodeUnavailable,
			want: http.StatusServiceUnavailable,
		},
		{
			name: "timeout",
			code: ErrorCodeTimeout,
			want: http.StatusGatewayTimeout,
		},
		{
			name: "internal error",
			code: ErrorCodeInternal,
			want: http.StatusInternalServerError,
		},
		{
			name: "unknown code defaults to internal error",
			code: "UNKNOWN_CODE",
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HTTPStatusFromCode(tt.code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name         string
		setupContext func(*gin.Context)
		want         string
	}{
		{
			name: "trace ID in context",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")
			},
			want: "context-trace-123",
		},
		{
			name: "trace ID in header",
			setupContext: func(c *gin.Context) {
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "header-trace-456",
		},
		{
			name: "trace ID in context takes precedence",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "context-trace-123",
		},
		{
			name: "no trace ID",
			setupContext: func(*gin.Context) {},
			want: "",
		},
		{
			name: "trace ID in context but wrong type",
			setupContext: func(c *gin.Context) {
				c.Set("trace_id", 12345)
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			tt.setupContext(c)

			got := GetTraceID(c)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		traceID        string
		wantStatus     int
		wantCode       string
		wantMessageKey string
	}{
		{
			name:           "not found error",
			err:            domain.NewNotFoundError("board", "123"),
			traceID:        "trace-123",
			wantStatus:     http.StatusNotFound,
			wantCode:       ErrorCodeNotFound,
			wantMessageKey: "board",
		},
		{
			name:           "conflict error",
			err:            domain.NewConflictError("board", "generation in progress"),
			traceID:        "trace-456",
			wantStatus:     http.StatusConflict,
			wantCode:       ErrorCodeConflict,
			wantMessageKey: "generation in progress",
		},
		{
			name:           "validation error",
			err:            domain.NewValidationError("text", "must not be empty"),
			traceID:        "trace-789",
			wantStatus:     http.StatusBadRequest,
			wantCode:       ErrorCodeValidation,
			wantMessageKey: "text",
		},
		{
			name:           "malformed import",
			err:            domain.NewMalformedImportError("invalid JSON", errors.New("unexpected EOF")),
			traceID:        "trace-abc",
			wantStatus:     http.StatusUnprocessableEntity,
			wantCode:       ErrorCodeMalformedImport,
			wantMessageKey: "invalid JSON",
		},
		{
			name:           "unavailable error",
			err:            domain.NewUnavailableError("storage", "disk full"),
			traceID:        "trace-def",
			wantStatus:     http.StatusServiceUnavailable,
			wantCode:       ErrorCodeUnavailable,
			wantMessageKey: "temporarily unavailable",
		},
		{
			name:           "deadline exceeded",
			err:            fmt.Errorf("generate: %w", context.DeadlineExceeded),
			traceID:        "trace-jkl",
			wantStatus:     http.StatusGatewayTimeout,
			wantCode:       ErrorCodeTimeout,
			wantMessageKey: "timed out",
		},
		{
			name:           "cancelled request",
			err:            context.Canceled,
			traceID:        "trace-mno",
			wantStatus:     http.StatusInternalServerError,
			wantCode:       ErrorCodeInternal,
			wantMessageKey: "internal error occurred",
		},
		{
			name:           "internal error",
			err:            errors.New("unexpected error"),
			traceID:        "trace-ghi",
			wantStatus:     http.StatusInternalServerError,
			wantCode:       ErrorCodeInternal,
			wantMessageKey: "internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Set("trace_id", tt.traceID)

			HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			err := json.Unmarshal(w.Body.Bytes(), &response)
			require.NoError(t, err)

			assert.Equal(t, tt.wantCode, response.Error.Code)
			assert.Contains(t, response.Error.Message, tt.wantMessageKey)
			assert.Equal(t, tt.traceID, response.TraceID)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, fmt.Errorf("columns: %w", domain.NewValidationError("columns", "must be between 1 and 8")))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, map[string]string{"columns": "must be between 1 and 8"}, response.Error.Details)
}

func TestHandleBindingError(t *testing.T) {
	type body struct {
		Text string `json:"text" validate:"required"`
	}

	tests := []struct {
		name       string
		err        func() error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation",
			err:        func() error { return Validate(&body{}) },
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeValidation,
		},
		{
			name:       "binding",
			err:        func() error { return fmt.Errorf("%w: %w", ErrBinding, errors.New("unexpected EOF")) },
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrorCodeBadRequest,
		},
		{
			name:       "too large",
			err:        func() error { return fmt.Errorf("%w: %w", ErrBinding, &http.MaxBytesError{Limit: 10}) },
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   ErrorCodeTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			HandleBindingError(c, tt.err())

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantCode, response.Error.Code)
		})
	}
}
