// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/math32"
	"cogentcore.org/scene/mesh"
)

// DefaultMaxTargetSize is the default largest width or height of
// a [SoftDevice] target.
const DefaultMaxTargetSize = 8192

// SoftDevice is a [Device] that rasterizes on the CPU. Fragments are not
// antialiased, so a flat color drawn by a shader comes out exactly in
// every covered pixel, which picking buffers depend on.
//
// Triangles with a vertex behind the camera are dropped rather than
// clipped.
type SoftDevice struct {
	// MaxTargetSize is the largest width or height of a target.
	MaxTargetSize int

	shader *Shader
	stats  Stats
}

// NewSoftDevice returns a new software device.
func NewSoftDevice() *SoftDevice {
	return &SoftDevice{MaxTargetSize: DefaultMaxTargetSize}
}

func (d *SoftDevice) NewTarget(width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gpu.SoftDevice: target %dx%d: %w", width, height, ErrInvalidTargetSize)
	}
	if width > d.MaxTargetSize || height > d.MaxTargetSize {
		return nil, fmt.Errorf("gpu.SoftDevice: target %dx%d exceeds %d: %w", width, height, d.MaxTargetSize, ErrTargetTooLarge)
	}
	return newTarget(width, height), nil
}

func (d *SoftDevice) Buffers(ms *mesh.Mesh) (*MeshBuffers, error) {
	b, err := ms.Buffers(d, func(data *mesh.Data) (mesh.Buffers, error) {
		d.stats.BufferUploads++
		return NewMeshBuffers(data), nil
	})
	if err != nil {
		return nil, err
	}
	return b.(*MeshBuffers), nil
}

func (d *SoftDevice) UseShader(s *Shader) {
	if d.shader == s {
		return
	}
	d.shader = s
	if s != nil {
		d.stats.ShaderBinds++
	}
}

func (d *SoftDevice) Shader() *Shader {
	return d.shader
}

func (d *SoftDevice) Stats() Stats {
	return d.stats
}

func (d *SoftDevice) ResetStats() {
	d.stats = Stats{}
}

func (d *SoftDevice) Draw(t *Target, call DrawCall) error {
	if d.shader == nil || d.shader.Fragment == nil {
		return fmt.Errorf("gpu.SoftDevice.Draw: %w", ErrNoShader)
	}
	b := call.Buffers
	if b == nil || b.Released() {
		return nil
	}
	d.stats.DrawCalls++
	sz := t.Size()
	r := &raster{
		t:        t,
		w:        sz.X,
		h:        sz.Y,
		frag:     d.shader.Fragment,
		state:    call.State,
		uniforms: d.shader.Uniforms.Merge(call.Uniforms),
		buf:      b,
		normal:   call.Normal,
		stats:    &d.stats,
	}
	if r.normal == (mgl32.Mat3{}) {
		r.normal = math32.NormalMatrix(call.Model)
	}
	mvp := call.ViewProjection.Mul4(call.Model)
	r.clip = make([]mgl32.Vec4, len(b.Vertices))
	for i, v := range b.Vertices {
		r.clip[i] = mvp.Mul4x1(v.Vec4(1))
	}
	idx := b.Indices
	switch call.Mode {
	case TriangleList:
		for i := 0; i+2 < len(idx); i += 3 {
			r.triangle(i/3, idx[i], idx[i+1], idx[i+2])
		}
	case LineList:
		for i := 0; i+1 < len(idx); i += 2 {
			r.line(i/2, idx[i], idx[i+1])
		}
	case PointList:
		for i, vi := range idx {
			r.point(i, vi)
		}
	}
	return nil
}

// raster holds the state of one draw call.
type raster struct {
	t        *Target
	w, h     int
	frag     FragmentFunc
	state    State
	uniforms Uniforms
	buf      *MeshBuffers
	normal   mgl32.Mat3
	clip     []mgl32.Vec4
	stats    *Stats
}

// screenVertex is a vertex in pixel coordinates with its device depth.
type screenVertex struct {
	x, y, z float32
	ok      bool
}

func (r *raster) screen(i uint32) screenVertex {
	c := r.clip[i]
	if c[3] <= 0 {
		return screenVertex{}
	}
	inv := 1 / c[3]
	return screenVertex{
		x:  (c[0]*inv + 1) * 0.5 * float32(r.w),
		y:  (1 - c[1]*inv) * 0.5 * float32(r.h),
		z:  c[2] * inv,
		ok: true,
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func (r *raster) triangle(prim int, i0, i1, i2 uint32) {
	a, b, c := r.screen(i0), r.screen(i1), r.screen(i2)
	if !a.ok || !b.ok || !c.ok {
		return
	}
	area := edge(a.x, a.y, b.x, b.y, c.x, c.y)
	if area == 0 {
		return
	}
	// counter-clockwise in device space is negative on screen, as y is flipped
	if r.state.Cull == CullBack && area > 0 {
		return
	}
	r.stats.Primitives++

	v := r.buf.Vertices
	n := r.normal.Mul3x1(v[i1].Sub(v[i0]).Cross(v[i2].Sub(v[i0])))
	if n.Len() > 0 {
		n = n.Normalize()
	}
	c0, c1, c2 := r.buf.color(i0), r.buf.color(i1), r.buf.color(i2)

	minX := max(0, int(math32.Floor(min(a.x, b.x, c.x))))
	maxX := min(r.w-1, int(math32.Ceil(max(a.x, b.x, c.x))))
	minY := max(0, int(math32.Floor(min(a.y, b.y, c.y))))
	maxY := min(r.h-1, int(math32.Ceil(max(a.y, b.y, c.y))))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			w0 := edge(b.x, b.y, c.x, c.y, px, py) / area
			w1 := edge(c.x, c.y, a.x, a.y, px, py) / area
			w2 := edge(a.x, a.y, b.x, b.y, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			col := c0.Mul(w0).Add(c1.Mul(w1)).Add(c2.Mul(w2))
			r.fragment(x, y, z, prim, n, col)
		}
	}
}

func (r *raster) line(prim int, i0, i1 uint32) {
	a, b := r.screen(i0), r.screen(i1)
	if !a.ok || !b.ok {
		return
	}
	r.stats.Primitives++
	c0, c1 := r.buf.color(i0), r.buf.color(i1)
	steps := int(math32.Ceil(max(math32.Abs(b.x-a.x), math32.Abs(b.y-a.y))))
	for s := 0; s <= steps; s++ {
		f := float32(0)
		if steps > 0 {
			f = float32(s) / float32(steps)
		}
		x := int(math32.Floor(a.x + (b.x-a.x)*f))
		y := int(math32.Floor(a.y + (b.y-a.y)*f))
		if x < 0 || y < 0 || x >= r.w || y >= r.h {
			continue
		}
		r.fragment(x, y, a.z+(b.z-a.z)*f, prim, mgl32.Vec3{}, c0.Mul(1-f).Add(c1.Mul(f)))
	}
}

func (r *raster) point(prim int, i uint32) {
	a := r.screen(i)
	if !a.ok {
		return
	}
	x, y := int(math32.Floor(a.x)), int(math32.Floor(a.y))
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return
	}
	r.stats.Primitives++
	r.fragment(x, y, a.z, prim, mgl32.Vec3{}, r.buf.color(i))
}

func (r *raster) fragment(x, y int, z float32, prim int, n mgl32.Vec3, col mgl32.Vec4) {
	if z < -1 || z > 1 {
		return
	}
	idx := y*r.w + x
	if r.state.DepthTest && z >= r.t.depth[idx] {
		return
	}
	f := Fragment{X: x, Y: y, Depth: z, Primitive: prim, Normal: n, Color: col, Uniforms: r.uniforms}
	out, ok := r.frag(&f)
	if !ok {
		return
	}
	r.stats.Fragments++
	if r.state.ColorWrite {
		r.t.color.SetNRGBA(x, y, blend(r.state.Blend, out, r.t.color.NRGBAAt(x, y)))
	}
	if r.state.DepthWrite {
		r.t.depth[idx] = z
	}
}

func blend(mode BlendModes, src, dst color.NRGBA) color.NRGBA {
	a := uint32(src.A)
	switch mode {
	case AlphaBlend:
		ia := 255 - a
		mix := func(s, d uint8) uint8 { return uint8((uint32(s)*a + uint32(d)*ia) / 255) }
		return color.NRGBA{mix(src.R, dst.R), mix(src.G, dst.G), mix(src.B, dst.B), uint8(a + uint32(dst.A)*ia/255)}
	case AdditiveBlend:
		add := func(s, d uint8) uint8 { return uint8(min(uint32(d)+uint32(s)*a/255, 255)) }
		return color.NRGBA{add(src.R, dst.R), add(src.G, dst.G), add(src.B, dst.B), max(src.A, dst.A)}
	}
	return src
}
