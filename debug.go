package amqp

import (
	"context"
	"log/slog"

	"github.com/coreamqp/amqp-link/internal/debug"
)

// RegisterLogger installs h as the destination for the link state
// machine's structured log output. Until called, logging is a no-op.
func RegisterLogger(h slog.Handler) {
	debug.RegisterLogger(h)
}

func logDebug(ctx context.Context, msg string, args ...any) {
	debug.Log(ctx, slog.LevelDebug, msg, args...)
}

func logInfo(ctx context.Context, msg string, args ...any) {
	debug.Log(ctx, slog.LevelInfo, msg, args...)
}
