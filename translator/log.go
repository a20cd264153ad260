package translator

import (
	"context"
	"log/slog"
)

// LevelTrace is the log level of lowering decisions.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a lowering decision at LevelTrace.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
