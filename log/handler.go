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

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
)

var levelColor = map[slog.Level]*color.Color{
	LevelTrace.slog(): color.New(color.FgHiBlack),
	LevelDebug.slog(): color.New(color.FgBlue),
	LevelInfo.slog():  color.New(color.FgGreen),
	LevelWarn.slog():  color.New(color.FgYellow),
	LevelError.slog(): color.New(color.FgRed),
	LevelCrit.slog():  color.New(color.FgHiRed, color.Bold),
}

var levelName = map[slog.Level]string{
	LevelTrace.slog(): "TRACE",
	LevelDebug.slog(): "DEBUG",
	LevelInfo.slog():  "INFO",
	LevelWarn.slog():  "WARN",
	LevelError.slog(): "ERROR",
	LevelCrit.slog():  "CRIT",
}

// terminalHandler formats records for a human terminal: a colorized level
// tag, a timestamp, the message, and space-padded key=value attributes —
// the same layout go-ethereum's log package produces.
type terminalHandler struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
	attrs []slog.Attr
	level slog.Leveler
}

// NewTerminalHandler returns a handler writing LevelInfo and above to w,
// colorized if useColor is set.
func NewTerminalHandler(w io.Writer, useColor bool) slog.Handler {
	return NewTerminalHandlerWithLevel(w, LevelInfo, useColor)
}

// NewTerminalHandlerWithLevel is NewTerminalHandler with an explicit
// minimum level.
func NewTerminalHandlerWithLevel(w io.Writer, lvl Level, useColor bool) slog.Handler {
	return &terminalHandler{out: w, color: useColor, level: lvl.slog()}
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := levelName[r.Level]
	if name == "" {
		name = r.Level.String()
	}
	if h.color {
		if c, ok := levelColor[r.Level]; ok {
			name = c.Sprint(name)
		}
	}
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%-5s [%s] %s", name, ts.Format("01-02|15:04:05.000"), r.Message)
	if r.Level <= LevelDebug.slog() {
		line += fmt.Sprintf(" caller=%s", callerInfo(4))
	}

	var pairs []string
	for _, a := range h.attrs {
		pairs = append(pairs, formatAttr(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		pairs = append(pairs, formatAttr(a))
		return true
	})
	if len(pairs) > 0 {
		line += " " + strings.Join(pairs, " ")
	}
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func formatAttr(a slog.Attr) string {
	return fmt.Sprintf("%s=%v", a.Key, a.Value.Any())
}

func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cpy := *h
	cpy.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &cpy
}

func (h *terminalHandler) WithGroup(name string) slog.Handler {
	return h
}

// LogfmtHandler returns a handler writing logfmt-style lines, uncolorized,
// passing records at every level from LevelTrace up.
func LogfmtHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: LevelTrace.slog()})
}

// JSONHandler returns a handler writing one JSON object per record,
// including debug-level records.
func JSONHandler(w io.Writer) slog.Handler {
	return JSONHandlerWithLevel(w, LevelDebug.slog())
}

// JSONHandlerWithLevel is JSONHandler with an explicit minimum level.
func JSONHandlerWithLevel(w io.Writer, lvl slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
}

// callerInfo returns the path-qualified file:line of the caller skip frames up the
// stack, for handlers that want to annotate records with their origin.
func callerInfo(skip int) string {
	call := stack.Caller(skip)
	return fmt.Sprintf("%+v", call)
}

