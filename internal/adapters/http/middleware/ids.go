// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/pictoboard/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID tracks a whole transaction across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin context key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin context key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	correlationIDKey
)

// RequestID returns middleware that takes the X-Request-ID header, or a new
// UUID when absent, and stores it in the gin context, the request context,
// the response headers and the context logger.
func RequestID() gin.HandlerFunc {
	return identify(HeaderRequestID, ContextKeyRequestID, requestIDKey, logging.WithRequestID)
}

// CorrelationID is RequestID for the X-Correlation-ID header.
// An incoming value is kept so calls to the symbol service carry it onward.
func CorrelationID() gin.HandlerFunc {
	return identify(HeaderCorrelationID, ContextKeyCorrelationID, correlationIDKey, logging.WithCorrelationID)
}

func identify(
	header, ginKey string,
	key ctxKey,
	enrich func(context.Context, string) context.Context,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ginKey, id)
		c.Header(header, id)

		ctx := context.WithValue(c.Request.Context(), key, id)
		c.Request = c.Request.WithContext(enrich(ctx, id))

		c.Next()
	}
}

// GetRequestID returns the request ID stored by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GetCorrelationID returns the correlation ID stored by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(ContextKeyCorrelationID)
}

// RequestIDFromContext returns the request ID carried by ctx, or "".
// Outbound clients use it to propagate the ID.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, requestIDKey)
}

// CorrelationIDFromContext returns the correlation ID carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, correlationIDKey)
}

// ContextWithRequestID returns ctx carrying a request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID returns ctx carrying a correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
