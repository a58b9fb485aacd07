// Package debug provides the structured logging hook used by the link
// state machine's state transitions; the codec does not log. Consumers that want to observe protocol
// activity call RegisterLogger with a real slog.Handler; until then every
// call is a no-op.
package debug

import (
	"context"
	"log/slog"
)

var logger = slog.New(noOp{})

// RegisterLogger installs h as the destination for all package logging.
// It is not safe to call concurrently with Log/Assert.
func RegisterLogger(h slog.Handler) {
	logger = slog.New(h)
}

// Log records msg at level with args, in the standard slog key/value form.
func Log(ctx context.Context, level slog.Level, msg string, args ...any) {
	logger.Log(ctx, level, msg, args...)
}

// Assert logs a warning if condition is false. It never panics; invariant
// violations in protocol code should be surfaced, not crash the process.
func Assert(ctx context.Context, condition bool, args ...any) {
	if !condition {
		logger.Log(ctx, slog.LevelWarn, "assertion failed", args...)
	}
}
