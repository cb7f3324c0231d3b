// Copyright 2024 The storagejournal Authors
// This file is part of the storagejournal library.
//
// The storagejournal library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The storagejournal library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the storagejournal library. If not, see <http://www.gnu.org/licenses/>.

// Package log is the ambient structured logger used throughout this
// module, following the same shape as go-ethereum's log package: a small
// Logger interface over Go's log/slog, leveled convenience methods, and a
// pluggable Handler, with a colorized terminal handler as the default.
package log

import (
	"context"
	"log/slog"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Level mirrors slog.Level with ethereum's familiar names and ordering.
type Level int

const (
	LevelTrace Level = -8
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
	LevelCrit  Level = 12
)

func (l Level) slog() slog.Level { return slog.Level(l) }

// Logger is the interface every call site in this module logs through.
type Logger interface {
	With(ctx ...any) Logger
	New(ctx ...any) Logger

	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	Log(level Level, msg string, ctx ...any)

	Handler() slog.Handler
}

type logger struct {
	inner *slog.Logger
}

// NewLogger wraps an slog.Handler with the ethereum-style Logger API.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) With(ctx ...any) Logger { return l.New(ctx...) }

func (l *logger) New(ctx ...any) Logger {
	return &logger{inner: slog.New(l.inner.Handler()).With(ctx...)}
}

func (l *logger) write(level Level, msg string, ctx []any) {
	l.inner.Log(context.Background(), level.slog(), msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.write(LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.write(LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.write(LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.write(LevelError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...any) {
	l.write(LevelCrit, msg, ctx)
	os.Exit(1)
}

func (l *logger) Log(level Level, msg string, ctx ...any) { l.write(level, msg, ctx) }

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

// stderrIsTerminal reports whether os.Stderr is attached to an interactive
// terminal, the same check go-ethereum's own CLI entry points use to decide
// whether to colorize their log output.
func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

var root Logger = NewLogger(NewTerminalHandler(colorable.NewColorableStderr(), stderrIsTerminal()))

// Root returns the module's default logger.
func Root() Logger { return root }

// SetDefault installs l as the module's default logger; subsequent calls
// to the package-level Trace/Debug/Info/Warn/Error/Crit go through it.
func SetDefault(l Logger) { root = l }

func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { root.Crit(msg, ctx...) }
