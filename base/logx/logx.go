// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx configures the default [slog] logger used by the scene
// graph and renderer, with terminal colored level names.
package logx

import (
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity level that the user has selected for
// which log messages should be shown. Messages at levels at or above
// this level are shown. The default is [slog.LevelWarn].
var UserLevel = &slog.LevelVar{}

func init() {
	UserLevel.Set(slog.LevelWarn)
}

// LevelFromFlags returns the [slog.Level] corresponding to the given
// user flag options:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// The flags are evaluated in that order, so if both vv and q are
// specified, it still returns [slog.LevelDebug].
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// LevelFromString returns the level named by s ("debug", "info",
// "warn", "error"), and [slog.LevelWarn] for anything else.
func LevelFromString(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// NewHandler returns a text handler writing to w at [UserLevel], with
// level names colored when w is a terminal that supports color.
func NewHandler(w io.Writer) slog.Handler {
	out := termenv.NewOutput(w)
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: UserLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key != slog.LevelKey || len(groups) > 0 {
				return a
			}
			level, ok := a.Value.Any().(slog.Level)
			if !ok {
				return a
			}
			a.Value = slog.StringValue(colorLevel(out, level))
			return a
		},
	})
}

// colorLevel returns the name of the level in its terminal color.
func colorLevel(out *termenv.Output, level slog.Level) string {
	name := level.String()
	if out.Profile == termenv.Ascii {
		return name
	}
	var c termenv.Color
	switch {
	case level >= slog.LevelError:
		c = out.Color("#ff5555")
	case level >= slog.LevelWarn:
		c = out.Color("#f1fa8c")
	case level >= slog.LevelInfo:
		c = out.Color("#8be9fd")
	default:
		c = out.Color("#bd93f9")
	}
	return out.String(name).Foreground(c).Bold().String()
}

// SetDefaultLogger sets the default [slog] logger to one writing
// to stderr through [NewHandler].
func SetDefaultLogger() {
	slog.SetDefault(slog.New(NewHandler(os.Stderr)))
}
