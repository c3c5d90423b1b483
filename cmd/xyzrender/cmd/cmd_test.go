// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"cogentcore.org/scene/config"
	"cogentcore.org/scene/render"
	"cogentcore.org/scene/xyz"
)

func smallSettings(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "settings.toml")
	s := config.Defaults()
	s.Viewport = config.Viewport{Width: 96, Height: 64}
	s.Render.SelectionSeed = 3
	require.NoError(t, s.Save(path))
	return path
}

func run(t *testing.T, args ...string) string {
	var out bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	run(t, "render", "-q", "-c", smallSettings(t), "-o", dir)
	for _, name := range []string{"default", "selection", "composite"} {
		info, err := os.Stat(filepath.Join(dir, name+".png"))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Size())
	}
}

func TestPick(t *testing.T) {
	cfg := smallSettings(t)
	assert.Equal(t, "nothing\n", run(t, "pick", "-q", "-c", cfg, "2", "0"))
	assert.Equal(t, "nothing\n", run(t, "pick", "-q", "-c", cfg, "--faces", "0", "0.99"))

	s, err := config.Open(cfg)
	require.NoError(t, err)
	d := newDemo(s, config.NewPreferences())
	defer d.close()
	tower := d.scene.FindNodeByName("tower").AsNodeBase()
	p := d.scene.ActiveCamera().Project(tower.GlobalTransform().Mul4x1(mgl32.Vec4{0, 3, 1, 1}).Vec3())
	require.NoError(t, d.frame())
	sp := d.renderer.RenderPass(render.SelectionPassName).(*render.SelectionPass)
	id, ok := sp.IDAtPosition(p.X(), p.Y())
	require.True(t, ok)
	assert.Equal(t, tower.ID(), id)
}

func TestDump(t *testing.T) {
	out := run(t, "dump", "-q", "-c", smallSettings(t))
	var tree map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "root", tree["name"])
	assert.Contains(t, out, "tower")
	assert.Contains(t, out, "toolhandle/"+xyz.XAxis.String())
}
