package http

import (
	"context"
	"log/slog"

	"github.com/example/resource-planner/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// handlerLogger resolves the request-scoped logger, preferring the one the
// middleware attached to the context, and tags it with the handler name plus
// any extra attrs.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	base := logging.FromContext(ctx)
	if base == nil {
		base = defaultLogger(fallback)
	}

	tagged := append([]any{"handler", handlerName}, attrs...)
	if operation != "" {
		tagged = append(tagged, "operation", operation)
	}
	return base.With(tagged...)
}
