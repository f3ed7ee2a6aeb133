// Package logging defines the structured logger the server and CLI log
// through, plus slog and zap implementations of it.
package logging

import "context"

// Logger takes a context so implementations can pull request-scoped fields
// out of it. The variadic args alternate keys and values:
//
//	log.Info(ctx, "server started", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given key-value pairs on
	// every entry.
	With(args ...any) Logger
}
