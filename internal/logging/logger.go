// Package logging defines the structured-logging interface used across
// TriVision. The only implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "history saved", "id", entry.ID, "entries", n)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn is for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)
	// Error is for failures that an operator should see, including ones
	// that are swallowed before they reach the user.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
