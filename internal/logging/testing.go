package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// ObservedLogger records every entry for assertions in other packages'
// tests. Pass Zap() wherever a *zap.Logger is expected.
type ObservedLogger struct {
	*Logger
	logs *observer.ObservedLogs
}

// NewObservedLogger returns a logger that keeps entries at TraceLevel and up.
func NewObservedLogger() *ObservedLogger {
	core, logs := observer.New(TraceLevel)
	return &ObservedLogger{
		Logger: &Logger{zap: zap.New(core), config: NewDefaultConfig()},
		logs:   logs,
	}
}

// Zap returns the underlying zap logger.
func (o *ObservedLogger) Zap() *zap.Logger {
	return o.zap
}

// Entries returns the entries logged with msg.
func (o *ObservedLogger) Entries(msg string) []observer.LoggedEntry {
	return o.logs.FilterMessage(msg).All()
}

// RequireEntry fails tb unless exactly one entry with msg was logged at
// level, and returns its fields.
func (o *ObservedLogger) RequireEntry(tb testing.TB, level zapcore.Level, msg string) map[string]any {
	tb.Helper()
	entries := o.Entries(msg)
	if len(entries) != 1 {
		tb.Fatalf("want one %q entry, got %d", msg, len(entries))
	}
	if entries[0].Level != level {
		tb.Fatalf("entry %q logged at %v, want %v", msg, entries[0].Level, level)
	}
	return entries[0].ContextMap()
}
