// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render draws an [xyz.Scene] in passes: nodes are queued into
// batches each frame, and the registered render passes then draw the
// batches into their own targets in priority order. A selection pass
// draws picking colors and a composite pass combines the outputs into
// the presented image.
//
// A Renderer and its passes are only used from the goroutine that
// renders.
package render

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"slices"

	"cogentcore.org/scene/base/errors"
	"cogentcore.org/scene/base/ordmap"
	"cogentcore.org/scene/base/randx"
	"cogentcore.org/scene/gpu"
	"cogentcore.org/scene/xyz"
)

// Priorities of the built-in passes.
const (
	DefaultPriority   = 0
	SelectionPriority = 10
	CompositePriority = math.MaxInt32
)

var (
	// ErrPassExists is returned when adding a pass with a name that
	// is already used.
	ErrPassExists = errors.New("render pass already exists")

	// ErrCompositePriority is returned when adding a pass would put a
	// pass at or above the priority of the composite pass.
	ErrCompositePriority = errors.New("the composite pass must have the highest priority")

	// ErrNoDevice is returned when binding a pass that does not belong
	// to a renderer with a device.
	ErrNoDevice = errors.New("render pass has no device")
)

// Options configure a [Renderer].
type Options struct {
	// Width and Height are the viewport size in pixels.
	Width, Height int

	// Background is the clear color of the default pass.
	Background color.NRGBA

	// Selection is the selection the selection pass marks and the
	// composite pass outlines. A new empty one is used if nil.
	Selection *xyz.Selection

	// Rand generates the picking colors. The global source is used
	// if nil.
	Rand randx.Rand

	// OutlineColor and OutlineWidth set the selection outline of
	// the composite pass. A zero width draws no outline.
	OutlineColor color.NRGBA
	OutlineWidth int

	// NoBuiltinPasses skips adding the default, selection and
	// composite passes.
	NoBuiltinPasses bool
}

// Renderer collects the batches of a frame and runs the render passes.
type Renderer struct {
	// DefaultShader is used for nodes queued without a shader.
	DefaultShader *gpu.Shader

	device    gpu.Device
	scene     *xyz.Scene
	selection *xyz.Selection
	width     int
	height    int

	passes    *ordmap.Map[string, RenderPass]
	composite *CompositePass

	batches   []*Batch
	rendering bool
}

// NewRenderer returns a new renderer drawing the scene with the device.
// Unless opts.NoBuiltinPasses is set, it has a [DefaultPass], a
// [SelectionPass] and a [CompositePass].
func NewRenderer(dev gpu.Device, sc *xyz.Scene, opts Options) *Renderer {
	r := &Renderer{
		DefaultShader: NewDefaultShader(),
		device:        dev,
		scene:         sc,
		selection:     opts.Selection,
		width:         max(opts.Width, 1),
		height:        max(opts.Height, 1),
		passes:        ordmap.New[string, RenderPass](),
	}
	if r.selection == nil {
		r.selection = &xyz.Selection{}
	}
	if opts.NoBuiltinPasses {
		return r
	}
	dp := NewDefaultPass(r)
	dp.ClearColor = opts.Background
	errors.Log(r.AddRenderPass(dp))
	sp := NewSelectionPass(r, opts.Rand)
	errors.Log(r.AddRenderPass(sp))
	cp := NewCompositePass(r)
	cp.SetOutline(opts.OutlineColor, opts.OutlineWidth)
	errors.Log(r.AddRenderPass(cp))
	return r
}

// Device returns the device of the renderer.
func (r *Renderer) Device() gpu.Device { return r.device }

// Scene returns the scene the renderer draws.
func (r *Renderer) Scene() *xyz.Scene { return r.scene }

// Selection returns the selection the renderer marks.
func (r *Renderer) Selection() *xyz.Selection { return r.selection }

// Camera returns the active camera of the scene, or nil.
func (r *Renderer) Camera() *xyz.Camera { return r.scene.ActiveCamera() }

// ViewportSize returns the size of the viewport in pixels.
func (r *Renderer) ViewportSize() (width, height int) {
	return r.width, r.height
}

// SetViewportSize resizes the viewport. Pass targets are recreated at
// the new size on their next Bind.
func (r *Renderer) SetViewportSize(width, height int) {
	r.width, r.height = max(width, 1), max(height, 1)
	for _, p := range r.passes.Values() {
		p.AsPassBase().SetSize(r.width, r.height)
	}
}

// AddRenderPass adds the pass, which must have a unique name, and makes
// the renderer its owner. Only the [CompositePass] may have the highest
// priority.
func (r *Renderer) AddRenderPass(p RenderPass) error {
	pb := p.AsPassBase()
	if r.passes.Has(pb.Name()) {
		return fmt.Errorf("render.Renderer: %q: %w", pb.Name(), ErrPassExists)
	}
	if cp, ok := p.(*CompositePass); ok {
		if r.composite != nil {
			return fmt.Errorf("render.Renderer: second composite pass %q: %w", pb.Name(), ErrCompositePriority)
		}
		for _, o := range r.passes.Values() {
			if o.AsPassBase().Priority() >= pb.Priority() {
				return fmt.Errorf("render.Renderer: composite pass %q below %q: %w", pb.Name(), o.AsPassBase().Name(), ErrCompositePriority)
			}
		}
		r.composite = cp
	} else if r.composite != nil && pb.Priority() >= r.composite.Priority() {
		return fmt.Errorf("render.Renderer: pass %q priority %d: %w", pb.Name(), pb.Priority(), ErrCompositePriority)
	}
	pb.renderer = r
	pb.SetSize(r.width, r.height)
	r.passes.Add(pb.Name(), p)
	r.passes.SortStableFunc(func(a, b ordmap.KeyValue[string, RenderPass]) int {
		return cmp.Compare(a.Value.AsPassBase().Priority(), b.Value.AsPassBase().Priority())
	})
	return nil
}

// RemoveRenderPass removes the pass with the given name.
// It returns false if there is none.
func (r *Renderer) RemoveRenderPass(name string) bool {
	p, ok := r.passes.ValueByKeyTry(name)
	if !ok {
		return false
	}
	if p == RenderPass(r.composite) {
		r.composite = nil
	}
	return r.passes.DeleteKey(name)
}

// RenderPass returns the pass with the given name, or nil.
func (r *Renderer) RenderPass(name string) RenderPass {
	p, _ := r.passes.ValueByKeyTry(name)
	return p
}

// RenderPasses returns the passes in the order they render.
func (r *Renderer) RenderPasses() []RenderPass {
	return r.passes.Values()
}

// BeginRendering starts a new frame with no batches.
func (r *Renderer) BeginRendering() {
	r.batches = nil
	r.rendering = true
	for _, p := range r.passes.Values() {
		p.AsPassBase().reset()
	}
}

// QueueNode adds a draw item for the mesh of the node, at its global
// transform, to the batch of this frame that matches the options,
// creating the batch if needed. Nodes without a mesh are ignored.
func (r *Renderer) QueueNode(n xyz.Node, opts ...BatchOption) {
	nb := n.AsNodeBase()
	ms := nb.Mesh()
	if ms == nil {
		return
	}
	tmpl := NewBatch(r.DefaultShader, opts...)
	key := tmpl.key()
	var b *Batch
	for _, cur := range r.batches {
		if cur.key() == key {
			b = cur
			break
		}
	}
	if b == nil {
		b = tmpl
		r.batches = append(r.batches, b)
		slog.Debug("render: new batch", "batch", b)
	}
	nm := nb.NormalMatrix()
	b.AddItem(nb.GlobalTransform(), ms, tmpl.pending, &nm)
}

// Batches returns the batches of the current frame, sorted for drawing
// once Render has been called.
func (r *Renderer) Batches() []*Batch {
	return r.batches
}

// Render sorts the batches and runs every pass in priority order. Each
// pass is released even if its Render panics; the panic is logged.
// Errors binding passes are returned, and the passes are skipped.
func (r *Renderer) Render() error {
	if cam := r.Camera(); cam != nil {
		if w, h := cam.ViewportSize(); w != r.width || h != r.height {
			cam.SetViewportSize(r.width, r.height)
		}
		SortBatches(r.batches, cam.WorldPosition())
	}
	var errs []error
	for _, p := range r.passes.Values() {
		if err := r.runPass(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Renderer) runPass(p RenderPass) error {
	defer p.Release()
	defer errors.Recover("render.Renderer: render pass panicked", "pass", p.AsPassBase().Name())
	if err := p.Bind(); err != nil {
		return err
	}
	p.Render()
	return nil
}

// EndRendering drops the batches of the frame.
func (r *Renderer) EndRendering() {
	r.batches = nil
	r.rendering = false
}

// IsRendering returns whether a frame has begun and not ended.
func (r *Renderer) IsRendering() bool {
	return r.rendering
}

// Output returns the output of the composite pass, which is the
// presented frame, or an empty image without a composite pass.
func (r *Renderer) Output() *image.NRGBA {
	if r.composite == nil {
		return image.NewNRGBA(image.Rectangle{})
	}
	return r.composite.Output()
}

// QueueScene queues every visible node with a mesh in the scene with
// the given options. Tool handles are queued as [Overlay] so that they
// are drawn on top.
func (r *Renderer) QueueScene(opts ...BatchOption) {
	for n := range xyz.DepthFirst(r.scene.Root()) {
		if !n.AsNodeBase().IsVisible() {
			continue
		}
		if _, ok := n.(*xyz.ToolHandle); ok {
			r.QueueNode(n, append(slices.Clone(opts), WithType(Overlay))...)
			continue
		}
		r.QueueNode(n, opts...)
	}
}
