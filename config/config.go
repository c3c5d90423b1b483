// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the settings file of the renderer and the
// preference store that shaders and cameras read their options from.
package config

import (
	"bytes"
	"fmt"
	"image/color"
	"log/slog"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"cogentcore.org/scene/base/errors"
	"cogentcore.org/scene/base/logx"
)

// Version is the version of the settings format. Files with another
// major version are rejected.
const Version = "1.0.0"

// Settings is the main settings struct, read from a TOML file.
type Settings struct {

	// the version of the settings format the file was written for
	Version string `toml:"version"`

	// the size of the rendered viewport
	Viewport Viewport `toml:"viewport"`

	// the options of the render passes
	Render Render `toml:"render"`

	// the options of the background job queue
	Jobs Jobs `toml:"jobs"`

	// the logging options
	Log Log `toml:"log"`
}

type Viewport struct {

	// [def: 800] the width in pixels
	Width int `toml:"width"`

	// [def: 600] the height in pixels
	Height int `toml:"height"`
}

type Render struct {

	// [def: #202020] the clear color of the default pass, as a hex color
	Background string `toml:"background"`

	// [def: #3d8dff] the color of the selection outline, as a hex color
	OutlineColor string `toml:"outline_color"`

	// [def: 2] the width of the selection outline in pixels; 0 turns it off
	OutlineWidth int `toml:"outline_width"`

	// [def: 8192] the largest width or height of a render target
	MaxTargetSize int `toml:"max_target_size"`

	// the seed of the picking colors; 0 uses the global random source
	SelectionSeed int64 `toml:"selection_seed"`
}

type Jobs struct {

	// [def: 2] the number of background workers computing bounding boxes
	Workers int `toml:"workers"`
}

type Log struct {

	// [def: warn] the lowest level that is logged: debug, info, warn or error
	Level string `toml:"level"`
}

// Defaults returns the default settings.
func Defaults() *Settings {
	return &Settings{
		Version:  Version,
		Viewport: Viewport{Width: 800, Height: 600},
		Render: Render{
			Background:    "#202020",
			OutlineColor:  "#3d8dff",
			OutlineWidth:  2,
			MaxTargetSize: 8192,
		},
		Jobs: Jobs{Workers: 2},
		Log:  Log{Level: "warn"},
	}
}

// Open reads the settings file at the given path, which may start
// with ~, on top of the defaults, and validates the result.
func Open(path string) (*Settings, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config.Open: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Open: %w", err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config.Open: %s: %w", path, err)
	}
	slog.Debug("config: opened settings", "path", path)
	return s, nil
}

// Parse reads settings in TOML on top of the defaults. Unknown keys are
// an error.
func Parse(b []byte) (*Settings, error) {
	s := Defaults()
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the settings to the given path, which may start with ~.
func (s *Settings) Save(path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	b, err := toml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// Validate checks the version and the values of the settings.
func (s *Settings) Validate() error {
	v, err := semver.NewVersion(s.Version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", s.Version, err)
	}
	cur := errors.Must1(semver.NewVersion(Version))
	if v.Major() != cur.Major() {
		return fmt.Errorf("settings version %s is not compatible with %s", v, cur)
	}
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return fmt.Errorf("invalid viewport size %dx%d", s.Viewport.Width, s.Viewport.Height)
	}
	if s.Render.MaxTargetSize <= 0 {
		return fmt.Errorf("invalid max target size %d", s.Render.MaxTargetSize)
	}
	if s.Jobs.Workers <= 0 {
		return fmt.Errorf("invalid number of workers %d", s.Jobs.Workers)
	}
	if _, err := ParseColor(s.Render.Background); err != nil {
		return err
	}
	if _, err := ParseColor(s.Render.OutlineColor); err != nil {
		return err
	}
	return nil
}

// BackgroundColor returns the parsed background color.
func (s *Settings) BackgroundColor() color.NRGBA {
	c, _ := ParseColor(s.Render.Background)
	return c
}

// OutlineColor returns the parsed outline color.
func (s *Settings) OutlineColor() color.NRGBA {
	c, _ := ParseColor(s.Render.OutlineColor)
	return c
}

// LogLevel returns the parsed log level.
func (s *Settings) LogLevel() slog.Level {
	return logx.LevelFromString(s.Log.Level)
}

// ParseColor parses an opaque hex color of the form #rrggbb or #rgb.
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{r, g, b, 255}, nil
}
