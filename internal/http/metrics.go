package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const httpInstrumentationName = "github.com/fyrsmithlabs/personad/internal/http"

// endpointUnmatched labels requests that matched no route.
const endpointUnmatched = "unmatched"

// HTTPMetrics records otel metrics for the REST surface.
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	size     metric.Int64Histogram
	inFlight metric.Int64UpDownCounter
	rejected metric.Int64Counter
}

// NewHTTPMetrics creates the instruments on the global meter provider.
func NewHTTPMetrics(logger *zap.Logger) *HTTPMetrics {
	return newHTTPMetrics(otel.Meter(httpInstrumentationName), logger)
}

// newHTTPMetrics creates the instruments on meter. Creation errors are
// logged; the API still hands back usable no-op instruments.
func newHTTPMetrics(meter metric.Meter, logger *zap.Logger) *HTTPMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}

	var m HTTPMetrics
	var err, errs error

	m.requests, err = meter.Int64Counter(
		"personad.http.server.request.count",
		metric.WithDescription("Requests by method, route and final status, including requests rejected before reaching a handler."),
		metric.WithUnit("{request}"),
	)
	errs = errors.Join(errs, err)

	// Rule-based transforms finish in microseconds; generative ones wait on
	// the backend for up to the generator timeout, once per style on /compare.
	m.duration, err = meter.Float64Histogram(
		"personad.http.server.request.duration",
		metric.WithDescription("Request latency. /transform and /compare include generative backend calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 90),
	)
	errs = errors.Join(errs, err)

	m.size, err = meter.Int64Histogram(
		"personad.http.server.response.size",
		metric.WithDescription("Response body size. Grows with the memory record echoed back by /transform and /compare."),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(256, 1024, 4096, 16384, 65536, 262144, 1048576),
	)
	errs = errors.Join(errs, err)

	m.inFlight, err = meter.Int64UpDownCounter(
		"personad.http.server.active_requests",
		metric.WithDescription("Requests currently being served, by route."),
		metric.WithUnit("{request}"),
	)
	errs = errors.Join(errs, err)

	m.rejected, err = meter.Int64Counter(
		"personad.http.server.rejected",
		metric.WithDescription("Requests answered with an error status, by route and reason (malformed_body, body_too_large, unknown_route, ...)."),
		metric.WithUnit("{request}"),
	)
	errs = errors.Join(errs, err)

	if errs != nil {
		logger.Warn("failed to create http instruments", zap.Error(errs))
	}
	return &m
}

// MetricsMiddleware returns an Echo middleware that records HTTP metrics.
// It must run outside BodyLimit so oversized bodies are counted.
func (m *HTTPMetrics) MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			start := time.Now()

			route := attribute.String("endpoint", normalizePath(c.Path()))
			m.inFlight.Add(ctx, 1, metric.WithAttributes(route))

			err := next(c)

			status := responseStatus(c, err)
			attrs := metric.WithAttributes(
				attribute.String("method", c.Request().Method),
				route,
				attribute.Int("status", status),
			)
			m.requests.Add(ctx, 1, attrs)
			m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
			m.size.Record(ctx, c.Response().Size, attrs)
			m.inFlight.Add(ctx, -1, metric.WithAttributes(route))

			if status >= http.StatusBadRequest {
				m.rejected.Add(ctx, 1, metric.WithAttributes(
					route,
					attribute.String("reason", rejectionReason(status)),
				))
			}
			return err
		}
	}
}

// responseStatus returns the status the client will see. A handler error
// is only written by echo's error handler after the middleware chain
// unwinds, so Response().Status is still 200 at that point.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// rejectionReason maps an error status to the failure it means here.
func rejectionReason(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "malformed_body"
	case http.StatusNotFound:
		return "unknown_route"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusRequestEntityTooLarge:
		return "body_too_large"
	case http.StatusUnsupportedMediaType:
		return "unsupported_media_type"
	}
	if status >= http.StatusInternalServerError {
		return "server_error"
	}
	return "client_error"
}

// normalizePath labels unmatched requests as "unmatched". Every registered
// route is static, so route templates are already low cardinality.
func normalizePath(path string) string {
	if path == "" {
		return endpointUnmatched
	}
	return path
}
