// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromFlags(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromFlags(true, false, false))
	assert.Equal(t, slog.LevelInfo, LevelFromFlags(false, true, true))
	assert.Equal(t, slog.LevelError, LevelFromFlags(false, false, true))
	assert.Equal(t, slog.LevelWarn, LevelFromFlags(false, false, false))
}

func TestLevelFromString(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelFromString("debug"))
	assert.Equal(t, slog.LevelError, LevelFromString("ERROR"))
	assert.Equal(t, slog.LevelWarn, LevelFromString("nonsense"))
}

func TestHandler(t *testing.T) {
	defer UserLevel.Set(UserLevel.Level())
	UserLevel.Set(slog.LevelInfo)

	var buf bytes.Buffer
	lg := slog.New(NewHandler(&buf))
	lg.Debug("hidden")
	lg.Info("shown", "pass", "selection")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "pass=selection")
}
