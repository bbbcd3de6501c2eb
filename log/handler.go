// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const termTimeFormat = "01-02|15:04:05.000"

type discardHandler struct{}

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	return h
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}

// NewTerminalHandler returns a handler optimized for human readability on a terminal:
//
//	01-02|15:04:05.000 INF message key=value key=value ...
func NewTerminalHandler(wr io.Writer, useColor bool, level slog.Leveler) slog.Handler {
	return tint.NewHandler(wr, &tint.Options{
		Level:       level,
		TimeFormat:  termTimeFormat,
		NoColor:     !useColor,
		ReplaceAttr: replaceLevelNames,
	})
}

// NewStderrHandler writes to stderr, with colours when stderr is a terminal.
func NewStderrHandler(level slog.Leveler) slog.Handler {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return NewTerminalHandler(os.Stderr, useColor, level)
}

func replaceLevelNames(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	switch {
	case level <= LevelTrace:
		a.Value = slog.StringValue("TRC")
	case level >= LevelCrit:
		a.Value = slog.StringValue("CRT")
	}
	return a
}

// FromLegacyLevel maps a verbosity (0 crit .. 5 trace) to a slog level.
func FromLegacyLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return LevelCrit
	case verbosity == 1:
		return LevelError
	case verbosity == 2:
		return LevelWarn
	case verbosity == 3:
		return LevelInfo
	case verbosity == 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}
