// Copyright 2024 The walletkit Authors
// This file is part of the walletkit library.
//
// The walletkit library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The walletkit library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the walletkit library. If not, see <http://www.gnu.org/licenses/>.

// Package log is a thin structured-logging wrapper around log/slog, in the
// shape of the teacher's own github.com/probeum/go-probeum/log: leveled
// methods taking alternating key/value pairs, a package-level root logger,
// and per-component loggers created with New.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/status-im/keycard-go/hexutils"
)

// Logger is the interface satisfied by both the root logger and every
// component logger returned by New.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	With(ctx ...any) Logger
}

type logger struct {
	inner     *slog.Logger
	withCaller bool
}

var root Logger = newLogger(defaultHandler(), false)

func defaultHandler() slog.Handler {
	var w io.Writer = os.Stderr
	useColor := false
	if f, ok := w.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
	}
	if useColor {
		w = colorable.NewColorable(os.Stderr)
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
}

func newLogger(h slog.Handler, withCaller bool) *logger {
	return &logger{inner: slog.New(h), withCaller: withCaller}
}

// New creates a component logger carrying the given static key/value pairs,
// e.g. log.New("component", "syncmanager").
func New(ctx ...any) Logger {
	return &logger{inner: slog.Default().With(ctx...)}
}

// Root returns the package-level default logger.
func Root() Logger { return root }

// SetDefault installs l as the package-level default logger.
func SetDefault(l Logger) { root = l }

// WithCaller returns a derived logger that prefixes every message with the
// call site, mirroring the wider pack's log.WithCaller(true) idiom.
func (l *logger) WithCaller(on bool) Logger {
	return &logger{inner: l.inner, withCaller: on}
}

func (l *logger) log(level slog.Level, msg string, ctx []any) {
	if l.withCaller {
		if c := stack.Caller(2); c != nil {
			ctx = append(ctx, "caller", fmt.Sprintf("%+v", c))
		}
	}
	l.inner.Log(nil, level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...any) { l.log(slog.LevelDebug-4, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...any) { l.log(slog.LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.log(slog.LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.log(slog.LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.log(slog.LevelError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...any)  { l.log(slog.LevelError+4, msg, ctx); os.Exit(1) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{inner: l.inner.With(ctx...), withCaller: l.withCaller}
}

// ArgsFromMap builds a flat key/value slice from a map for callers that prefer to
// assemble log fields before emitting, as the wider example pack does with
// log.ArgsFromMap.
func ArgsFromMap(m map[string]any) []any {
	out := make([]any, 0, len(m)*2)
	for k, v := range m {
		out = append(out, k, v)
	}
	return out
}

// Args is a convenience constructor for inline key/value pairs.
func Args(kv ...any) []any { return kv }

// Hex renders b as a hex string for log fields carrying raw wire bytes
// (serialized transactions, block/peer digests), matching the teacher's own
// hexutils.BytesToHex("...") usage in its probe/handler.go logging calls.
func Hex(b []byte) string { return hexutils.BytesToHex(b) }

// Package-level convenience wrappers delegating to Root().
func Trace(msg string, ctx ...any) { root.Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { root.Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { root.Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { root.Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { root.Error(msg, ctx...) }
func Crit(msg string, ctx ...any)  { root.Crit(msg, ctx...) }
