// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/gpu"
	"cogentcore.org/scene/math32"
	"cogentcore.org/scene/mesh"
	"cogentcore.org/scene/xyz"
)

// RenderTypes order batches within a frame.
type RenderTypes int32

const (
	// Solid batches are opaque and drawn first.
	Solid RenderTypes = iota

	// Transparent batches are blended, drawn after all solid batches,
	// back to front, without writing depth.
	Transparent

	// Overlay batches are drawn last, on top of everything: the depth
	// buffer is cleared before the first of them.
	Overlay
)

var renderTypeNames = [...]string{"solid", "transparent", "overlay"}

func (rt RenderTypes) String() string {
	if rt < 0 || int(rt) >= len(renderTypeNames) {
		return "RenderTypes(?)"
	}
	return renderTypeNames[rt]
}

// Item is one mesh drawn by a [Batch].
type Item struct {
	// Transform is the model to world transform.
	Transform mgl32.Mat4

	Mesh *mesh.Mesh

	// Uniforms override the shader uniforms for this item only.
	Uniforms gpu.Uniforms

	// Normal is the normal transform, or nil to derive it from Transform.
	Normal *mgl32.Mat3
}

// center returns the world space center of the mesh bounds.
func (it *Item) center() mgl32.Vec3 {
	return math32.TransformPoint(it.Transform, it.Mesh.Bounds().Center())
}

// BatchOption configures a [Batch] or the batch a node is queued into.
type BatchOption func(b *Batch)

// WithShader sets the shader of the batch.
func WithShader(s *gpu.Shader) BatchOption {
	return func(b *Batch) { b.shader = s }
}

// WithType sets the render type.
func WithType(t RenderTypes) BatchOption {
	return func(b *Batch) { b.typ = t }
}

// WithMode sets the primitives drawn from the mesh indices.
func WithMode(m gpu.Topologies) BatchOption {
	return func(b *Batch) { b.mode = m }
}

// WithBlend sets the blend mode. Transparent batches default to
// [gpu.AlphaBlend].
func WithBlend(m gpu.BlendModes) BatchOption {
	return func(b *Batch) { b.blend = m }
}

// WithSort sets the order of the batch among batches of the same type.
// Lower values are drawn first.
func WithSort(sort int) BatchOption {
	return func(b *Batch) { b.sort = sort }
}

// WithBackfaceCull sets whether back faces are discarded.
func WithBackfaceCull(cull bool) BatchOption {
	return func(b *Batch) { b.backfaceCull = cull }
}

// WithDepthTest sets whether fragments are tested against the depth
// buffer. Batches drawn without the test do not write depth either.
func WithDepthTest(on bool) BatchOption {
	return func(b *Batch) { b.noDepthTest = !on }
}

// WithUniforms sets the uniform overrides of the queued item.
// It does not affect which batch the item goes into.
func WithUniforms(u gpu.Uniforms) BatchOption {
	return func(b *Batch) { b.pending = u }
}

// Batch is a list of draw items that share one shader and one render
// state. Batches live for one frame.
type Batch struct {
	shader       *gpu.Shader
	typ          RenderTypes
	mode         gpu.Topologies
	blend        gpu.BlendModes
	sort         int
	backfaceCull bool
	noDepthTest  bool

	items []Item

	// pending holds the uniforms given with WithUniforms while queueing.
	pending gpu.Uniforms
}

// batchKey identifies the batches that items can share.
type batchKey struct {
	shader       *gpu.Shader
	typ          RenderTypes
	mode         gpu.Topologies
	blend        gpu.BlendModes
	sort         int
	backfaceCull bool
	noDepthTest  bool
}

// NewBatch returns a new empty batch drawing with the given shader.
func NewBatch(shader *gpu.Shader, opts ...BatchOption) *Batch {
	b := &Batch{shader: shader}
	for _, opt := range opts {
		opt(b)
	}
	if b.typ == Transparent && b.blend == gpu.NoBlend {
		b.blend = gpu.AlphaBlend
	}
	return b
}

func (b *Batch) key() batchKey {
	return batchKey{b.shader, b.typ, b.mode, b.blend, b.sort, b.backfaceCull, b.noDepthTest}
}

func (b *Batch) String() string {
	name := "<nil>"
	if b.shader != nil {
		name = b.shader.Name
	}
	return fmt.Sprintf("Batch(%s %v %v sort=%d items=%d)", name, b.typ, b.mode, b.sort, len(b.items))
}

// Shader returns the shader of the batch.
func (b *Batch) Shader() *gpu.Shader { return b.shader }

// Type returns the render type of the batch.
func (b *Batch) Type() RenderTypes { return b.typ }

// Sort returns the sort value of the batch.
func (b *Batch) Sort() int { return b.sort }

// AddItem appends an item. Items are not deduplicated.
func (b *Batch) AddItem(transform mgl32.Mat4, ms *mesh.Mesh, uniforms gpu.Uniforms, normal *mgl32.Mat3) {
	if ms == nil {
		return
	}
	b.items = append(b.items, Item{Transform: transform, Mesh: ms, Uniforms: uniforms, Normal: normal})
}

// Items returns the items of the batch in draw order.
func (b *Batch) Items() []Item {
	return b.items
}

// Less returns whether the batch is drawn before the other one:
// by render type, then by sort value.
func (b *Batch) Less(other *Batch) bool {
	return b.compare(other) < 0
}

func (b *Batch) compare(other *Batch) int {
	if c := cmp.Compare(b.typ, other.typ); c != 0 {
		return c
	}
	return cmp.Compare(b.sort, other.sort)
}

// State returns the render state of the batch.
func (b *Batch) State() gpu.State {
	st := gpu.DefaultState()
	st.Blend = b.blend
	if !b.backfaceCull {
		st.Cull = gpu.CullNone
	}
	if b.typ == Transparent || b.noDepthTest {
		st.DepthWrite = false
	}
	if b.noDepthTest {
		st.DepthTest = false
	}
	return st
}

// sortBackToFront orders the items by decreasing distance of their
// centers from eye.
func (b *Batch) sortBackToFront(eye mgl32.Vec3) {
	slices.SortStableFunc(b.items, func(x, y Item) int {
		return cmp.Compare(y.center().Sub(eye).Len(), x.center().Sub(eye).Len())
	})
}

// farthest returns the largest distance of an item center from eye.
func (b *Batch) farthest(eye mgl32.Vec3) float32 {
	var d float32
	for i := range b.items {
		d = max(d, b.items[i].center().Sub(eye).Len())
	}
	return d
}

// SortBatches sorts the batches for drawing: by [Batch.Less], and
// transparent batches of the same sort value back to front by the
// farthest of their items from eye. The items of transparent batches
// are sorted back to front as well. Equal batches keep their order.
func SortBatches(batches []*Batch, eye mgl32.Vec3) {
	for _, b := range batches {
		if b.typ == Transparent {
			b.sortBackToFront(eye)
		}
	}
	slices.SortStableFunc(batches, func(x, y *Batch) int {
		if c := x.compare(y); c != 0 || x.typ != Transparent {
			return c
		}
		return cmp.Compare(y.farthest(eye), x.farthest(eye))
	})
}

// Render draws every item with the shader of the batch, which is bound
// once. The camera position is available to the shader as the
// "view_position" uniform.
func (b *Batch) Render(dev gpu.Device, t *gpu.Target, cam *xyz.Camera) error {
	if len(b.items) == 0 {
		return nil
	}
	dev.UseShader(b.shader)
	vp := cam.ViewProjection()
	frame := gpu.Uniforms{"view_position": cam.WorldPosition()}
	st := b.State()
	for i := range b.items {
		it := &b.items[i]
		bufs, err := dev.Buffers(it.Mesh)
		if err != nil {
			return fmt.Errorf("render.Batch: buffers of mesh %q: %w", it.Mesh.Name, err)
		}
		call := gpu.DrawCall{
			Model:          it.Transform,
			ViewProjection: vp,
			Buffers:        bufs,
			Mode:           b.mode,
			State:          st,
			Uniforms:       frame.Merge(it.Uniforms),
		}
		if it.Normal != nil {
			call.Normal = *it.Normal
		}
		if err := dev.Draw(t, call); err != nil {
			return fmt.Errorf("render.Batch: %w", err)
		}
	}
	return nil
}
