package log

import (
	"context"
	"log/slog"
	"net/http"

	"banca/internal/core"
)

type contextKey struct{}

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a logger from ctx, falling back to the slog default.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}

// LogHTTPStart logs the start of an HTTP request
func LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithClientIP(clientIP)

	FromContext(ctx).DebugContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd logs a completed request at a level derived from its status.
func LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "").
		WithHTTPResponse(statusCode, durationMs).
		WithClientIP(clientIP)

	FromContext(ctx).Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogWagerCreated logs a newly stored wager.
func LogWagerCreated(ctx context.Context, w core.Wager) {
	fields := NewFields().
		WithWager(w.ID, string(w.Category), w.GameTitle, w.EventName, w.Stake, w.Odds).
		WithOperation(OpCreate)

	FromContext(ctx).InfoContext(ctx, "Wager created", fields.ToSlice()...)
}

// LogWagerSettled logs a settlement.
func LogWagerSettled(ctx context.Context, w core.Wager) {
	FromContext(ctx).InfoContext(ctx, "Wager settled",
		FieldWagerID, w.ID,
		FieldOutcome, w.Outcome,
		"return", w.SettledReturn,
		FieldOperation, OpSettle)
}
