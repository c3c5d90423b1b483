// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Preferences is a key/value store of options owned by the application,
// read from a TOML file. Nested tables are flattened into keys of the
// form "section/key". It is safe for concurrent use.
type Preferences struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewPreferences returns a new empty preference store.
func NewPreferences() *Preferences {
	return &Preferences{values: map[string]any{}}
}

// OpenPreferences reads the preferences file at the given path, which
// may start with ~.
func OpenPreferences(path string) (*Preferences, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config.OpenPreferences: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.OpenPreferences: %w", err)
	}
	p, err := ParsePreferences(b)
	if err != nil {
		return nil, fmt.Errorf("config.OpenPreferences: %s: %w", path, err)
	}
	return p, nil
}

// ParsePreferences reads preferences in TOML.
func ParsePreferences(b []byte) (*Preferences, error) {
	var tree map[string]any
	if err := toml.Unmarshal(b, &tree); err != nil {
		return nil, err
	}
	p := NewPreferences()
	flatten("", tree, p.values)
	return p, nil
}

func flatten(prefix string, tree map[string]any, out map[string]any) {
	for k, v := range tree {
		if prefix != "" {
			k = prefix + "/" + k
		}
		if sub, ok := v.(map[string]any); ok {
			flatten(k, sub, out)
			continue
		}
		out[k] = v
	}
}

// Keys returns the sorted keys of all preferences.
func (p *Preferences) Keys() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Sorted(maps.Keys(p.values))
}

// Value returns the value of the preference and whether it is set.
func (p *Preferences) Value(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

// Set sets the value of the preference.
func (p *Preferences) Set(key string, value any) {
	p.mu.Lock()
	p.values[key] = value
	p.mu.Unlock()
}

// String returns the string preference, or def if it is not set or
// not a string.
func (p *Preferences) String(key, def string) string {
	if s, ok := valueAs[string](p, key); ok {
		return s
	}
	return def
}

// Bool returns the bool preference, or def if it is not set or not a
// bool.
func (p *Preferences) Bool(key string, def bool) bool {
	if b, ok := valueAs[bool](p, key); ok {
		return b
	}
	return def
}

// Float returns the numeric preference, or def if it is not set or not
// a number.
func (p *Preferences) Float(key string, def float64) float64 {
	v, _ := p.Value(key)
	switch v := v.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

func valueAs[T any](p *Preferences, key string) (T, bool) {
	v, _ := p.Value(key)
	t, ok := v.(T)
	return t, ok
}

// WatchPreferences calls fn with the newly read preferences every time
// the file at path is written, until ctx is done. Files that fail to
// parse are logged and skipped. It blocks, and returns nil when ctx is
// done.
func WatchPreferences(ctx context.Context, path string, fn func(p *Preferences)) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("config.WatchPreferences: %w", err)
	}
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config.WatchPreferences: %w", err)
	}
	defer w.Close()
	// editors often replace the file, so the directory is watched
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config.WatchPreferences: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			p, err := OpenPreferences(path)
			if err != nil {
				slog.Warn("config: ignoring preferences", "err", err)
				continue
			}
			fn(p)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("config: watching preferences", "path", path, "err", err)
		}
	}
}
