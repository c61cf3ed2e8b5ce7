package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/pictoboard/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/pictoboard/telemetry"

	// HeaderTraceID carries the request's trace ID back to the caller.
	HeaderTraceID = "X-Trace-ID"

	unmatchedRoute = "unmatched"
)

type httpMetrics struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	duration, errDuration := meter.Float64Histogram(
		"pictoboard.http.request.duration",
		metric.WithDescription("Board API request duration"),
		metric.WithUnit("s"),
	)
	requests, errRequests := meter.Int64Counter(
		"pictoboard.http.requests",
		metric.WithDescription("Board API requests by route and status"),
	)
	inFlight, errInFlight := meter.Int64UpDownCounter(
		"pictoboard.http.in_flight",
		metric.WithDescription("Board API requests being served"),
	)

	if err := errors.Join(errDuration, errRequests, errInFlight); err != nil {
		return nil, err
	}

	return &httpMetrics{duration: duration, requests: requests, inFlight: inFlight}, nil
}

// begin counts a request in flight and returns the func that records its
// outcome.
func (m *httpMetrics) begin(ctx context.Context, method, route string) func(status int) {
	base := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	}
	start := time.Now()

	m.inFlight.Add(ctx, 1, metric.WithAttributes(base...))

	return func(status int) {
		m.inFlight.Add(ctx, -1, metric.WithAttributes(base...))

		done := metric.WithAttributes(append(base, attribute.Int("http.status_code", status))...)
		m.duration.Record(ctx, time.Since(start).Seconds(), done)
		m.requests.Add(ctx, 1, done)
	}
}

// Middleware returns the otelgin tracing handler followed by a handler that
// records request metrics, echoes the trace ID in X-Trace-ID and adds it to
// the context logger. Register both, in order.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{otelgin.Middleware(serviceName), instrument()}
}

func instrument() gin.HandlerFunc {
	// Requests are still traced when the instruments cannot be built.
	metrics, err := newHTTPMetrics(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, traceID))
		}

		if metrics == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		finish := metrics.begin(ctx, c.Request.Method, route)
		c.Next()
		finish(c.Writer.Status())
	}
}
