package folio

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

var (
	slogCtxKey = ctxKey{}

	discard = slog.New(noopHandler{})
)

// logger returns the *slog.Logger stored in ctx by LoggingContext, or one
// that discards everything.
func logger(ctx context.Context) *slog.Logger {
	val := ctx.Value(slogCtxKey)
	if val == nil {
		return discard
	}
	logger, ok := val.(*slog.Logger)
	if !ok || logger == nil {
		return discard
	}
	return logger
}

// LoggingContext returns a copy of ctx carrying logger. Renders started
// with the returned context log template loads, layout resolution, and
// failures to it. Without it, the Engine logs nothing.
func LoggingContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, slogCtxKey, logger)
}

type noopHandler struct{}

func (noopHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (noopHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (n noopHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return n
}

func (n noopHandler) WithGroup(_ string) slog.Handler {
	return n
}
