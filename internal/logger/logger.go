// Package logger configures the process-wide slog logger.
//
// Console output goes to stderr in text or JSON form. When a file path is
// configured, records are also written as JSON to a size-rotated file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	lj "gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
)

// Options controls logger initialization.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // "text" or "json"
	File   string // optional path for rotated JSON logs
}

// New builds a logger from opts writing console output to w.
func New(w io.Writer, opts Options) *slog.Logger {
	lvl := ParseLevel(opts.Level)

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		console = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}

	if strings.TrimSpace(opts.File) == "" {
		return slog.New(console)
	}

	rotated := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
	file := slog.NewJSONHandler(rotated, &slog.HandlerOptions{Level: lvl})
	return slog.New(&fanout{handlers: []slog.Handler{console, file}})
}

// Init configures the default logger and returns it.
func Init(opts Options) *slog.Logger {
	l := New(os.Stderr, opts).With(slog.String("app", "gong"))
	slog.SetDefault(l)
	return l
}

// WithComponent returns the default logger annotated with a component name.
func WithComponent(name string) *slog.Logger {
	return slog.Default().With(slog.String("component", name))
}

// ParseLevel converts a level name to slog.Level; unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type fanout struct{ handlers []slog.Handler }

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		res[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: res}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		res[i] = h.WithGroup(name)
	}
	return &fanout{handlers: res}
}

// Gorm returns a gorm logger that writes through l at the given level
// (silent, error, warn, info).
func Gorm(l *slog.Logger, level string) gormlogger.Interface {
	return gormlogger.New(printfWriter{l: l.With(slog.String("component", "gorm"))}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func gormLevel(s string) gormlogger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

type printfWriter struct{ l *slog.Logger }

func (w printfWriter) Printf(format string, args ...interface{}) {
	w.l.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
