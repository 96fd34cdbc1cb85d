package slogx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Logger is a thin context-aware wrapper over a slog.Handler.
type Logger struct {
	h slog.Handler
}

func New(h slog.Handler) *Logger {
	return &Logger{h: h}
}

func (l *Logger) With(attrs ...slog.Attr) *Logger {
	if l == nil {
		return nil
	}

	return &Logger{h: l.h.WithAttrs(attrs)}
}

func (l *Logger) Log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if l == nil || !l.h.Enabled(ctx, level) {
		return
	}

	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(attrs...)

	_ = l.h.Handle(ctx, r)
}

func (l *Logger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, slog.LevelDebug, msg, attrs...)
}

func (l *Logger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, slog.LevelInfo, msg, attrs...)
}

func (l *Logger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, slog.LevelWarn, msg, attrs...)
}

func (l *Logger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.Log(ctx, slog.LevelError, msg, attrs...)
}

// ParseLevel converts a config string into a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("unknown log level %q", s)
}
