package api

import (
	"context"
	"log/slog"
)

// LevelTrace matches the trace level of the core package.
const LevelTrace slog.Level = slog.LevelInfo + 1

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
