// Package telemetry installs the OpenTelemetry providers for personad.
//
// The MeterProvider is read by the OpenTelemetry Prometheus exporter, so
// every otel instrument (personad.http.server.*, personad.mcp.tool.*) is
// served next to the native Prometheus collectors on /metrics. The
// TracerProvider samples spans so that trace and span IDs exist for log
// correlation; spans are only exported when a SpanExporter is supplied.
//
// Both providers are installed globally:
//
//	tel, err := telemetry.New(ctx, cfg.Telemetry)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
// Instruments created through otel.Meter or otel.Tracer before New is
// called are forwarded to the installed providers.
package telemetry
