// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/pictoboard/internal/domain"
	"github.com/jsamuelsen/pictoboard/internal/platform/logging"
)

// ErrorResponse is the standard error envelope for all error responses.
// It provides a consistent structure for API error handling.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details provides additional context about the error.
	// For validation errors, this contains field-level error messages.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	// ErrorCodeNotFound indicates the requested resource was not found.
	ErrorCodeNotFound = "NOT_FOUND"

	// ErrorCodeConflict indicates a state conflict (duplicate, version mismatch).
	ErrorCodeConflict = "CONFLICT"

	// ErrorCodeValidation indicates request validation failed.
	ErrorCodeValidation = "VALIDATION_ERROR"

	// ErrorCodeMalformedImport indicates an uploaded board document could not be read.
	ErrorCodeMalformedImport = "MALFORMED_IMPORT"

	// ErrorCodeTooLarge indicates the request body exceeded the size limit.
	ErrorCodeTooLarge = "PAYLOAD_TOO_LARGE"

	// ErrorCodeUnavailable indicates a dependency is unavailable.
	ErrorCodeUnavailable = "SERVICE_UNAVAILABLE"

	// ErrorCodeInternal indicates an internal server error.
	ErrorCodeInternal = "INTERNAL_ERROR"

	// ErrorCodeTimeout indicates the request timed out.
	ErrorCodeTimeout = "TIMEOUT"

	// ErrorCodeBadRequest indicates the request was malformed.
	ErrorCodeBadRequest = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeMalformedImport:
		return http.StatusUnprocessableEntity
	case ErrorCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// traceIDKey is the gin context key holding an explicit trace ID.
const traceIDKey = "trace_id"

// GetTraceID returns the ID that ties an error response to its logs: an
// explicit trace_id set on the context, the active span's trace ID, or the
// request ID header, in that order.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(traceIDKey); ok {
		id, _ := v.(string)
		return id
	}

	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return c.GetHeader("X-Request-ID")
}

// FromError maps a domain error to a status code and error response.
// Unknown errors become 500 with a generic message so internals do not leak.
// A request whose deadline expired becomes 504.
func FromError(err error) (int, *ErrorResponse) {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "request timed out")
	}

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.KindConflict:
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())

	case domain.KindValidation:
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) && validationErr.Field != "" {
			resp.Error.Details = map[string]string{
				validationErr.Field: validationErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case domain.KindMalformedImport:
		return http.StatusUnprocessableEntity, NewErrorResponse(ErrorCodeMalformedImport, err.Error())

	case domain.KindUnavailable:
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"a dependency is temporarily unavailable",
		)

	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleError writes the error response for err and logs server-side failures.
func HandleError(c *gin.Context, err error) {
	status, resp := FromError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			"error", err.Error(),
			"status", status,
			"trace_id", resp.TraceID,
		)
	}

	c.JSON(status, resp)
}

// HandleErrorCode writes an error response for an adapter-level failure
// that has no domain error behind it.
func HandleErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// HandleBindingError answers a request whose body or query could not be
// bound or validated: field errors for validation, a plain 400 otherwise.
// Domain validation errors from a Validatable request go through HandleError.
func HandleBindingError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		HandleErrorCode(c, ErrorCodeTooLarge, "request body too large")
		return
	}

	if domain.IsValidation(err) {
		HandleError(c, err)
		return
	}

	if IsValidationError(err) {
		resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", ValidationErrors(err))
		c.JSON(http.StatusBadRequest, resp.WithTraceID(GetTraceID(c)))

		return
	}

	HandleErrorCode(c, ErrorCodeBadRequest, "malformed request body")
}
