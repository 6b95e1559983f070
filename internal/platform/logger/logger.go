// Package logger configures the process-wide slog logger. The handler stamps
// the request id from the context onto every record so domain code can log
// with plain slog calls.
package logger

import (
	"context"
	"log/slog"
	"os"

	"customercare/internal/requestctx"
)

type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if reqID := requestctx.GetRequestID(ctx); reqID != "" {
		record.Add("requestId", reqID)
	}
	return h.Handler.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

func New(environment string) *slog.Logger {
	level := slog.LevelInfo
	if environment == "development" {
		level = slog.LevelDebug
	}

	log := slog.New(&contextHandler{Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})})
	slog.SetDefault(log)
	return log
}
