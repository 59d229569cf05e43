package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/fyrsmithlabs/personad/internal/mcp"

// Tool input errors. Tool handlers wrap these so error metrics can tell
// caller mistakes from failures on our side.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrTooManyMessages = fmt.Errorf("%w: too many messages", ErrInvalidInput)
	ErrEmptyContent    = fmt.Errorf("%w: content is required", ErrInvalidInput)
)

// Metrics records otel metrics for tool calls.
type Metrics struct {
	invocations metric.Int64Counter
	duration    metric.Float64Histogram
	errors      metric.Int64Counter
	inFlight    metric.Int64UpDownCounter
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics(logger *zap.Logger) *Metrics {
	return newMetrics(otel.Meter(instrumentationName), logger)
}

func newMetrics(meter metric.Meter, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}

	var m Metrics
	var err, errs error

	m.invocations, err = meter.Int64Counter(
		"personad.mcp.tool.invocations",
		metric.WithDescription("Tool calls by tool name and outcome (ok or error)."),
		metric.WithUnit("{invocation}"),
	)
	errs = errors.Join(errs, err)

	m.duration, err = meter.Float64Histogram(
		"personad.mcp.tool.duration",
		metric.WithDescription("Tool call latency. personality_* tools include generative backend calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10, 30, 90),
	)
	errs = errors.Join(errs, err)

	m.errors, err = meter.Int64Counter(
		"personad.mcp.tool.errors",
		metric.WithDescription("Failed tool calls by tool and reason (too_many_messages, empty_content, canceled, ...)."),
		metric.WithUnit("{error}"),
	)
	errs = errors.Join(errs, err)

	m.inFlight, err = meter.Int64UpDownCounter(
		"personad.mcp.tool.active_requests",
		metric.WithDescription("Tool calls currently running, by tool."),
		metric.WithUnit("{request}"),
	)
	errs = errors.Join(errs, err)

	if errs != nil {
		logger.Warn("failed to create mcp instruments", zap.Error(errs))
	}
	return &m
}

// RecordInvocation records a finished tool call.
func (m *Metrics) RecordInvocation(ctx context.Context, toolName string, duration time.Duration, err error) {
	tool := attribute.String("tool", toolName)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	m.invocations.Add(ctx, 1, metric.WithAttributes(tool, attribute.String("outcome", outcome)))
	m.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(tool))

	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(tool, attribute.String("reason", categorizeError(err))))
	}
}

// IncrementActive marks a tool call as started.
func (m *Metrics) IncrementActive(ctx context.Context, toolName string) {
	m.inFlight.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", toolName)))
}

// DecrementActive marks a tool call as finished.
func (m *Metrics) DecrementActive(ctx context.Context, toolName string) {
	m.inFlight.Add(ctx, -1, metric.WithAttributes(attribute.String("tool", toolName)))
}

// categorizeError maps a tool error to a low-cardinality reason.
func categorizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTooManyMessages):
		return "too_many_messages"
	case errors.Is(err, ErrEmptyContent):
		return "empty_content"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal_error"
	}
}
