// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"image/color"
	"log/slog"
	"maps"

	"cogentcore.org/scene/base/randx"
	"cogentcore.org/scene/gpu"
	"cogentcore.org/scene/math32"
	"cogentcore.org/scene/xyz"
)

// SelectionPassName is the name of the [SelectionPass].
const SelectionPassName = "selection"

// maxFaceModels is the number of selected nodes that can be told apart
// in [SelectFaces] mode, since alpha zero means no geometry.
const maxFaceModels = 255

// SelectionModes are the modes of a [SelectionPass].
type SelectionModes int32

const (
	// SelectObjects draws every selectable node in its own picking color.
	SelectObjects SelectionModes = iota

	// SelectFaces draws the triangles of the selected nodes with their
	// index encoded in the color.
	SelectFaces
)

func (m SelectionModes) String() string {
	if m == SelectFaces {
		return "faces"
	}
	return "objects"
}

// SelectionPass draws the scene into a picking buffer, from which the
// node, tool handle axis or face under a position is looked up after
// the frame was rendered.
//
// In [SelectObjects] mode each selectable node gets a random opaque
// color, unique within the frame, with alpha 255 if the node is
// selected and 0 otherwise. Tool handles are drawn last, on top, in the
// reserved color of their axis.
type SelectionPass struct {
	PassBase

	mode       SelectionModes
	frameMode  SelectionModes
	rand       randx.Rand
	shader     *gpu.Shader
	faceShader *gpu.Shader

	// colors maps picking colors, with alpha 255, to nodes.
	colors map[color.NRGBA]xyz.Node

	// models are the nodes drawn in faces mode, by model index.
	models []xyz.Node
}

// NewSelectionPass returns a new selection pass for the renderer.
// The picking colors come from rnd, or the global source if nil.
func NewSelectionPass(r *Renderer, rnd randx.Rand) *SelectionPass {
	if rnd == nil {
		rnd = randx.NewGlobalRand()
	}
	p := &SelectionPass{
		rand:       rnd,
		shader:     newSelectionShader(),
		faceShader: newFaceShader(),
		colors:     map[color.NRGBA]xyz.Node{},
	}
	p.InitPass(r, SelectionPassName, SelectionPriority)
	return p
}

// Mode returns the current mode.
func (p *SelectionPass) Mode() SelectionModes { return p.mode }

// SetMode sets the mode used from the next frame on.
func (p *SelectionPass) SetMode(m SelectionModes) {
	p.mode = m
}

// SelectionMap returns a copy of the picking colors of the last frame
// in objects mode and the nodes they stand for.
func (p *SelectionPass) SelectionMap() map[color.NRGBA]xyz.Node {
	return maps.Clone(p.colors)
}

func (p *SelectionPass) Render() {
	p.MustBeBound()
	clear(p.colors)
	p.models = p.models[:0]
	p.frameMode = p.mode
	cam := p.renderer.Camera()
	if cam == nil {
		slog.Debug("render: no active camera", "pass", p.name)
		return
	}
	var batches []*Batch
	if p.mode == SelectFaces {
		batches = p.faceBatches()
	} else {
		batches = p.objectBatches()
	}
	for _, b := range batches {
		if err := b.Render(p.renderer.device, p.target, cam); err != nil {
			slog.Error("render: drawing selection batch failed", "pass", p.name, "batch", b, "err", err)
		}
	}
}

func (p *SelectionPass) objectBatches() []*Batch {
	sel := p.renderer.Selection()
	objects := NewBatch(p.shader)
	handles := NewBatch(p.shader, WithType(Overlay), WithDepthTest(false))
	for n := range xyz.DepthFirst(p.renderer.Scene().Root()) {
		nb := n.AsNodeBase()
		if !nb.IsVisible() {
			continue
		}
		if th, ok := n.(*xyz.ToolHandle); ok {
			handles.AddItem(nb.GlobalTransform(), th.SelectionMesh(), gpu.Uniforms{"selection_color": color.NRGBA(th.SelectionColor())}, nil)
			continue
		}
		if !nb.IsSelectable() || nb.Mesh() == nil {
			continue
		}
		c := p.newColor()
		p.colors[c] = n
		if !sel.IsSelected(n) {
			c.A = 0
		}
		nm := nb.NormalMatrix()
		objects.AddItem(nb.GlobalTransform(), nb.Mesh(), gpu.Uniforms{"selection_color": c}, &nm)
	}
	return []*Batch{objects, handles}
}

// newColor returns a random opaque color that is not black, not
// reserved for tool handles and not used yet in this frame.
func (p *SelectionPass) newColor() color.NRGBA {
	for {
		v := p.rand.Uint32()
		c := color.NRGBA{uint8(v), uint8(v >> 8), uint8(v >> 16), 255}
		if c.R == 0 && c.G == 0 && c.B == 0 {
			continue
		}
		if xyz.IsReservedColor(color.RGBA(c)) {
			continue
		}
		if _, used := p.colors[c]; used {
			continue
		}
		return c
	}
}

func (p *SelectionPass) faceBatches() []*Batch {
	b := NewBatch(p.faceShader)
	for _, n := range p.renderer.Selection().Nodes() {
		nb := n.AsNodeBase()
		if !nb.IsVisible() || nb.Mesh() == nil {
			continue
		}
		if len(p.models) == maxFaceModels {
			slog.Debug("render: too many selected nodes for face picking", "dropped", n)
			break
		}
		b.AddItem(nb.GlobalTransform(), nb.Mesh(), gpu.Uniforms{"model_id": len(p.models)}, nil)
		p.models = append(p.models, n)
	}
	return []*Batch{b}
}

// pixelAt returns the output color at the normalized device
// coordinates, which have y up, and false outside of the output.
func (p *SelectionPass) pixelAt(x, y float32) (color.NRGBA, bool) {
	out := p.Output()
	sz := out.Bounds().Size()
	px := int(math32.Floor((0.5 + x/2) * float32(sz.X)))
	py := int(math32.Floor((0.5 - y/2) * float32(sz.Y)))
	if !(image.Point{px, py}).In(image.Rectangle{Max: sz}) {
		return color.NRGBA{}, false
	}
	return out.NRGBAAt(out.Bounds().Min.X+px, out.Bounds().Min.Y+py), true
}

// NodeAtPosition returns the node drawn at the normalized device
// coordinates in the last frame, or nil.
func (p *SelectionPass) NodeAtPosition(x, y float32) xyz.Node {
	if p.frameMode != SelectObjects {
		return nil
	}
	c, ok := p.pixelAt(x, y)
	if !ok {
		return nil
	}
	c.A = 255
	return p.colors[c]
}

// IDAtPosition returns the id of the node drawn at the normalized
// device coordinates in the last frame, and false if there is none.
func (p *SelectionPass) IDAtPosition(x, y float32) (uint64, bool) {
	n := p.NodeAtPosition(x, y)
	if n == nil {
		return 0, false
	}
	return n.AsNodeBase().ID(), true
}

// ToolHandleAxisAtPosition returns the axis of the tool handle drawn
// at the normalized device coordinates in the last frame, or
// [xyz.NoAxis].
func (p *SelectionPass) ToolHandleAxisAtPosition(x, y float32) xyz.Axis {
	if p.frameMode != SelectObjects {
		return xyz.NoAxis
	}
	c, ok := p.pixelAt(x, y)
	if !ok {
		return xyz.NoAxis
	}
	return xyz.AxisFromColor(color.RGBA{c.R, c.G, c.B, 255})
}

// FaceIDAtPosition returns the index of the triangle drawn at the
// normalized device coordinates in the last frame in faces mode, and
// false if no selected geometry is there.
func (p *SelectionPass) FaceIDAtPosition(x, y float32) (int, bool) {
	_, face, ok := p.FaceAtPosition(x, y)
	return face, ok
}

// FaceAtPosition is like [SelectionPass.FaceIDAtPosition] and also
// returns the node the triangle belongs to.
func (p *SelectionPass) FaceAtPosition(x, y float32) (xyz.Node, int, bool) {
	if p.frameMode != SelectFaces {
		return nil, -1, false
	}
	c, ok := p.pixelAt(x, y)
	if !ok || c.A == 0 || int(c.A) > len(p.models) {
		return nil, -1, false
	}
	face := int(c.R) | int(c.G)<<8 | int(c.B)<<16
	return p.models[c.A-1], face, true
}
