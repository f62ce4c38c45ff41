package filterq

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger and adds helpers with consistent field names for
// the operations this package logs.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps the given slog handler. A nil handler falls back to a text
// handler on stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger returns a Logger that discards everything. It is the default
// when no WithLogger option is given.
func NoopLogger() *Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // above every level slog emits
	})
	return &Logger{Logger: slog.New(h)}
}

// LogDroppedTerm logs a query token that contained no recognized operator
// and was dropped from the compiled filter.
func (l *Logger) LogDroppedTerm(ctx context.Context, token string) {
	l.DebugContext(ctx, "query term dropped",
		"token", token,
	)
}

// LogCompile logs a compile operation.
func (l *Logger) LogCompile(ctx context.Context, fields int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compile failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compile completed",
			"fields", fields,
		)
	}
}

// LogFind logs a find/count operation.
func (l *Logger) LogFind(ctx context.Context, collection string, fields int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "find failed",
			"collection", collection,
			"fields", fields,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "find completed",
			"collection", collection,
			"fields", fields,
		)
	}
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, version uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"version", version,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"version", version,
		)
	}
}
