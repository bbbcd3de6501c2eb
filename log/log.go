// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	LevelTrace slog.Level = -8
	LevelDebug            = slog.LevelDebug
	LevelInfo             = slog.LevelInfo
	LevelWarn             = slog.LevelWarn
	LevelError            = slog.LevelError
	LevelCrit  slog.Level = 12
)

// Logger writes key/value pairs to a slog handler.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	Log(level slog.Level, msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
	Handler() slog.Handler
}

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

// SetDefault replaces the root logger. Loggers obtained through WithContext follow the change.
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext returns a logger carrying ctx that resolves the root logger on every call,
// so package level loggers declared before SetDefault still reach the configured handler.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// NewLogger returns a logger with the given handler.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) Handler() slog.Handler {
	return l.inner.Handler()
}

func (l *logger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.inner.Enabled(ctx, level)
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...)}
}

func (l *logger) Log(level slog.Level, msg string, ctx ...any) {
	l.write(level, msg, ctx...)
}

func (l *logger) write(level slog.Level, msg string, attrs ...any) {
	if !l.inner.Enabled(context.Background(), level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.Add(attrs...)
	_ = l.inner.Handler().Handle(context.Background(), r)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)  { l.write(LevelCrit, msg, ctx...) }

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() Logger {
	return Root().With(l.ctx...)
}

func (l *lazyLogger) Handler() slog.Handler { return l.resolve().Handler() }

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &lazyLogger{ctx: append(merged, ctx...)}
}

func (l *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	if Root().Enabled(context.Background(), level) {
		l.resolve().Log(level, msg, ctx...)
	}
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.Log(LevelTrace, msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.Log(LevelDebug, msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.Log(LevelInfo, msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.Log(LevelWarn, msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.Log(LevelError, msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.Log(LevelCrit, msg, ctx...) }

// Package level helpers on the root logger.

func Trace(msg string, ctx ...any) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { Root().Crit(msg, ctx...) }
