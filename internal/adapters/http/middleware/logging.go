package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pictoboard/internal/platform/logging"
)

// sessionParam is the route parameter naming a board session.
const sessionParam = "id"

// ContextLogger returns middleware that puts logger in the request context.
// It goes before RequestID and CorrelationID so the IDs they add end up on it.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

// Logging returns middleware that logs each request's start and completion.
// Requests on a board route get the session ID in every log line the
// handler writes. Paths under /-/ and the given prefixes are not logged.
func Logging(logger *slog.Logger, skipPrefixes ...string) gin.HandlerFunc {
	skip := append([]string{"/-/"}, skipPrefixes...)

	return func(c *gin.Context) {
		for _, prefix := range skip {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		ctx := logging.WithContext(c.Request.Context(), logging.FromContextOr(c.Request.Context(), logger))

		if id := c.Param(sessionParam); id != "" && strings.HasPrefix(c.FullPath(), "/api/v1/boards/") {
			ctx = logging.WithSessionID(ctx, id)
		}

		c.Request = c.Request.WithContext(ctx)
		ctxLogger := logging.FromContext(ctx)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		start := time.Now()

		ctxLogger.Debug("request started",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.String("client_ip", c.ClientIP()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo

		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		ctxLogger.Log(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}
