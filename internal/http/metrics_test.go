package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

// newMeteredEcho returns an echo instance wired like NewServer, recording
// into a manual reader.
func newMeteredEcho(t *testing.T) (*echo.Echo, *metric.ManualReader) {
	t.Helper()
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	e := echo.New()
	e.Use(newHTTPMetrics(mp.Meter(httpInstrumentationName), zap.NewNop()).MetricsMiddleware())
	e.Use(middleware.BodyLimit("64B"))
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.POST("/transform", func(c echo.Context) error {
		var req TransformRequest
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		return c.JSON(http.StatusOK, map[string]string{"transformed_reply": "Hey!"})
	})
	e.POST("/compare", func(c echo.Context) error {
		return errors.New("engine exploded")
	})
	return e, reader
}

func serve(e *echo.Echo, method, path, body string) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	e.ServeHTTP(httptest.NewRecorder(), req)
}

func collect(t *testing.T, reader *metric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			out[md.Name] = md
		}
	}
	return out
}

func attr(set attribute.Set, key string) attribute.Value {
	v, _ := set.Value(attribute.Key(key))
	return v
}

func TestHTTPMetrics_MetricsMiddleware(t *testing.T) {
	e, reader := newMeteredEcho(t)

	serve(e, http.MethodGet, "/health", "")
	serve(e, http.MethodPost, "/transform", `{"style": "therapist"}`)
	serve(e, http.MethodPost, "/transform", `{}`)
	serve(e, http.MethodGet, "/missing", "")

	metrics := collect(t, reader)
	for _, name := range []string{
		"personad.http.server.request.count",
		"personad.http.server.request.duration",
		"personad.http.server.response.size",
		"personad.http.server.active_requests",
	} {
		assert.Contains(t, metrics, name)
	}

	sum, ok := metrics["personad.http.server.request.count"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	perEndpoint := map[string]int64{}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
		perEndpoint[attr(dp.Attributes, "endpoint").AsString()] += dp.Value
	}
	assert.Equal(t, int64(4), total)
	assert.Equal(t, int64(2), perEndpoint["/transform"])
	assert.Equal(t, int64(1), perEndpoint["/health"])

	hist, ok := metrics["personad.http.server.request.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(4), count)

	active, ok := metrics["personad.http.server.active_requests"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	for _, dp := range active.DataPoints {
		assert.Zero(t, dp.Value, "every request finished")
	}
}

func TestHTTPMetrics_RecordsErrorStatus(t *testing.T) {
	e, reader := newMeteredEcho(t)

	serve(e, http.MethodPost, "/transform", `{"messages": [`)
	serve(e, http.MethodPost, "/transform", `{"sample_reply": "`+strings.Repeat("x", 128)+`"}`)
	serve(e, http.MethodPost, "/compare", `{}`)
	serve(e, http.MethodGet, "/missing", "")

	metrics := collect(t, reader)

	sum, ok := metrics["personad.http.server.request.count"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	statuses := map[int64]int64{}
	for _, dp := range sum.DataPoints {
		statuses[attr(dp.Attributes, "status").AsInt64()] += dp.Value
	}
	assert.Equal(t, map[int64]int64{400: 1, 413: 1, 500: 1, 404: 1}, statuses)

	rejected, ok := metrics["personad.http.server.rejected"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	reasons := map[string]int64{}
	for _, dp := range rejected.DataPoints {
		reasons[attr(dp.Attributes, "reason").AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{
		"malformed_body": 1,
		"body_too_large": 1,
		"server_error":   1,
		"unknown_route":  1,
	}, reasons)
}

func TestRejectionReason(t *testing.T) {
	tests := map[int]string{
		http.StatusBadRequest:            "malformed_body",
		http.StatusNotFound:              "unknown_route",
		http.StatusMethodNotAllowed:      "method_not_allowed",
		http.StatusRequestEntityTooLarge: "body_too_large",
		http.StatusUnsupportedMediaType:  "unsupported_media_type",
		http.StatusTooManyRequests:       "client_error",
		http.StatusBadGateway:            "server_error",
	}
	for status, want := range tests {
		assert.Equal(t, want, rejectionReason(status), "status %d", status)
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, endpointUnmatched, normalizePath(""))
	assert.Equal(t, "/compare", normalizePath("/compare"))
	assert.Equal(t, "/api/v1/scrub", normalizePath("/api/v1/scrub"))
}
