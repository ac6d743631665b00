// Package logging builds the process-wide structured logger and carries a
// request-scoped logger through context.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey struct{}

// New builds the JSON logger. The level string is parsed the way slog
// itself does ("debug", "INFO", "warn+2", ...); anything unrecognized
// falls back to info.
func New(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}

func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or the default logger when
// none was attached.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
