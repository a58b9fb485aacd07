package debug

import (
	"context"
	"log/slog"
)

// noOp discards every record. It is the default handler so that library
// consumers who never call RegisterLogger pay no logging cost.
type noOp struct{}

func (noOp) Enabled(context.Context, slog.Level) bool  { return false }
func (noOp) Handle(context.Context, slog.Record) error { return nil }
func (n noOp) WithAttrs([]slog.Attr) slog.Handler       { return n }
func (n noOp) WithGroup(string) slog.Handler            { return n }
