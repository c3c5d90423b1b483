// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Builder accumulates vertices and faces for a new [Data].
type Builder struct {
	vertices []mgl32.Vec3
	normals  []mgl32.Vec3
	colors   []mgl32.Vec4
	indices  []uint32
}

// AddVertex adds a vertex with the given normal and returns its index.
func (b *Builder) AddVertex(pos, normal mgl32.Vec3) uint32 {
	b.vertices = append(b.vertices, pos)
	b.normals = append(b.normals, normal)
	return uint32(len(b.vertices) - 1)
}

// AddColoredVertex adds a vertex with a color and returns its index.
// Colors are only kept if every vertex has one.
func (b *Builder) AddColoredVertex(pos, normal mgl32.Vec3, color mgl32.Vec4) uint32 {
	b.colors = append(b.colors, color)
	return b.AddVertex(pos, normal)
}

// AddFace adds a triangle of three vertex indices in
// counter-clockwise winding order.
func (b *Builder) AddFace(i0, i1, i2 uint32) {
	b.indices = append(b.indices, i0, i1, i2)
}

// AddQuad adds two triangles for the quad with the given corners in
// counter-clockwise order, all sharing the given normal.
func (b *Builder) AddQuad(p0, p1, p2, p3, normal mgl32.Vec3) {
	i0 := b.AddVertex(p0, normal)
	i1 := b.AddVertex(p1, normal)
	i2 := b.AddVertex(p2, normal)
	i3 := b.AddVertex(p3, normal)
	b.AddFace(i0, i1, i2)
	b.AddFace(i0, i2, i3)
}

// Build returns the accumulated [Data]. The builder must not be used
// afterwards.
func (b *Builder) Build() *Data {
	d := &Data{
		Vertices: b.vertices,
		Normals:  b.normals,
		Indices:  b.indices,
	}
	if len(b.colors) == len(b.vertices) {
		d.Colors = b.colors
	}
	return d
}

// NewBoxData returns the data for an axis-aligned box
// spanning min to max, with outward facing triangles.
func NewBoxData(min, max mgl32.Vec3) *Data {
	b := &Builder{}
	x0, y0, z0 := min[0], min[1], min[2]
	x1, y1, z1 := max[0], max[1], max[2]
	// +Z, -Z
	b.AddQuad(mgl32.Vec3{x0, y0, z1}, mgl32.Vec3{x1, y0, z1}, mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{x0, y1, z1}, mgl32.Vec3{0, 0, 1})
	b.AddQuad(mgl32.Vec3{x1, y0, z0}, mgl32.Vec3{x0, y0, z0}, mgl32.Vec3{x0, y1, z0}, mgl32.Vec3{x1, y1, z0}, mgl32.Vec3{0, 0, -1})
	// +X, -X
	b.AddQuad(mgl32.Vec3{x1, y0, z1}, mgl32.Vec3{x1, y0, z0}, mgl32.Vec3{x1, y1, z0}, mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{1, 0, 0})
	b.AddQuad(mgl32.Vec3{x0, y0, z0}, mgl32.Vec3{x0, y0, z1}, mgl32.Vec3{x0, y1, z1}, mgl32.Vec3{x0, y1, z0}, mgl32.Vec3{-1, 0, 0})
	// +Y, -Y
	b.AddQuad(mgl32.Vec3{x0, y1, z1}, mgl32.Vec3{x1, y1, z1}, mgl32.Vec3{x1, y1, z0}, mgl32.Vec3{x0, y1, z0}, mgl32.Vec3{0, 1, 0})
	b.AddQuad(mgl32.Vec3{x0, y0, z0}, mgl32.Vec3{x1, y0, z0}, mgl32.Vec3{x1, y0, z1}, mgl32.Vec3{x0, y0, z1}, mgl32.Vec3{0, -1, 0})
	return b.Build()
}

// NewBox returns a new box mesh spanning min to max.
func NewBox(name string, min, max mgl32.Vec3) *Mesh {
	return New(name, NewBoxData(min, max))
}

// NewCube returns a new cube mesh with the given edge size,
// with its minimum corner at the origin.
func NewCube(name string, size float32) *Mesh {
	return NewBox(name, mgl32.Vec3{}, mgl32.Vec3{size, size, size})
}

// NewQuad returns a new quad mesh of the given width and height in
// the XY plane, centered on the origin and facing +Z.
func NewQuad(name string, width, height float32) *Mesh {
	b := &Builder{}
	hw, hh := width/2, height/2
	b.AddQuad(mgl32.Vec3{-hw, -hh, 0}, mgl32.Vec3{hw, -hh, 0}, mgl32.Vec3{hw, hh, 0}, mgl32.Vec3{-hw, hh, 0}, mgl32.Vec3{0, 0, 1})
	return New(name, b.Build())
}
