// Package logging provides structured logging on top of zap.
//
// The Logger wrapper adds:
//   - A Trace level (-2, below Debug)
//   - Context field injection (trace_id, span_id, request_id)
//   - Secret redaction by field name and value pattern
//   - Level-aware sampling (errors are never sampled)
//
// # Usage
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	logger.Info(ctx, "transform complete", zap.String("style", "calm_mentor"))
//
// Components that only need a *zap.Logger receive Underlying().
//
// Logs go to stdout by default. The MCP stdio server writes protocol frames
// to stdout, so it runs with Output.Writer set to "stderr".
package logging
