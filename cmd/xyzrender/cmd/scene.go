// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/base/randx"
	"cogentcore.org/scene/config"
	"cogentcore.org/scene/gpu"
	"cogentcore.org/scene/jobs"
	"cogentcore.org/scene/math32"
	"cogentcore.org/scene/mesh"
	"cogentcore.org/scene/render"
	"cogentcore.org/scene/xyz"
)

// demo is the demo scene with its renderer.
type demo struct {
	queue    *jobs.Queue
	scene    *xyz.Scene
	renderer *render.Renderer
}

// newDemo builds the demo scene: a build plate, a group of two cubes
// that is selected, a tall box leaning over and a move handle, seen
// from above the front of the plate.
func newDemo(s *config.Settings, prefs *config.Preferences) *demo {
	d := &demo{queue: jobs.NewQueue(s.Jobs.Workers)}
	d.scene = xyz.NewScene(d.queue)
	root := d.scene.Root()

	cam := xyz.NewCamera(root, "camera")
	cam.SetPosition(mgl32.Vec3{0, 12, 24})
	cam.LookAt(mgl32.Vec3{}, math32.Vec3Y)
	cam.ConfigureFromPreferences(prefs)
	d.scene.SetActiveCamera("camera")

	plate := xyz.NewNode(root, "plate")
	plate.SetMesh(mesh.NewBox("plate", mgl32.Vec3{-10, -0.2, -10}, mgl32.Vec3{10, 0, 10}))
	plate.AddDecorator(&xyz.BuildPlateDecorator{})

	group := xyz.NewNode(root, "group")
	group.AddDecorator(&xyz.GroupDecorator{})
	group.SetSelectable(true)
	cube := mesh.NewCube("cube", 2)
	for i, x := range []float32{-6, -3} {
		n := xyz.NewNode(group, fmt.Sprintf("cube%d", i))
		n.SetMesh(cube)
		n.SetPosition(mgl32.Vec3{x, 0, 0})
		n.SetSelectable(true)
	}

	tower := xyz.NewNode(root, "tower")
	tower.SetMesh(mesh.NewBox("tower", mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{1, 6, 1}))
	tower.SetPosition(mgl32.Vec3{4, 0, 0})
	tower.RotateAxis(math32.Vec3Z, math32.DegToRad(30))
	tower.SetSelectable(true)

	handle := xyz.NewToolHandle(root, "move_x", xyz.XAxis)
	handle.SetMesh(mesh.NewBox("arrow", mgl32.Vec3{0, -0.1, -0.1}, mgl32.Vec3{3, 0.1, 0.1}))
	handle.SetSelectionMesh(mesh.NewBox("arrow_pick", mgl32.Vec3{0, -0.4, -0.4}, mgl32.Vec3{3, 0.4, 0.4}))
	handle.SetPosition(mgl32.Vec3{-5, 3, 0})

	sel := &xyz.Selection{}
	sel.Add(group)

	dev := gpu.NewSoftDevice()
	dev.MaxTargetSize = s.Render.MaxTargetSize
	var rnd randx.Rand
	if s.Render.SelectionSeed != 0 {
		rnd = randx.NewSysRand(s.Render.SelectionSeed)
	}
	d.renderer = render.NewRenderer(dev, d.scene, render.Options{
		Width:        s.Viewport.Width,
		Height:       s.Viewport.Height,
		Background:   s.BackgroundColor(),
		Selection:    sel,
		Rand:         rnd,
		OutlineColor: s.OutlineColor(),
		OutlineWidth: s.Render.OutlineWidth,
	})
	render.ApplyPreferences(d.renderer.DefaultShader, prefs)
	return d
}

// frame renders one frame of the whole scene, after the bounding boxes
// of the scene are up to date.
func (d *demo) frame() error {
	d.queue.Wait()
	r := d.renderer
	r.BeginRendering()
	defer r.EndRendering()
	r.QueueScene()
	if err := r.Render(); err != nil {
		return err
	}
	slog.Info("rendered frame", "batches", len(r.Batches()), "stats", r.Device().Stats())
	r.Device().ResetStats()
	return nil
}

func (d *demo) close() {
	d.queue.Close()
}

// writeOutputs writes the output of every pass to dir as <pass>.png.
func (d *demo) writeOutputs(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, p := range d.renderer.RenderPasses() {
		name := p.AsPassBase().Name()
		path := filepath.Join(dir, name+".png")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		err = png.Encode(f, p.Output())
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		slog.Info("wrote pass output", "pass", name, "path", path)
	}
	return nil
}
