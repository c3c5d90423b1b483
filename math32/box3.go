// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Initially copied from G3N: github.com/g3n/engine/math32
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
// with modifications needed to suit Cogent Core functionality.

package math32

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Box3 represents a 3D axis-aligned bounding box defined by two points:
// the point with minimum coordinates and the point with maximum coordinates.
// A box with Max < Min on any axis is empty, which is the "invalid" state
// that merges as an identity under [Box3.Union].
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// B3 returns a new [Box3] from the given minimum and maximum x, y, and z coordinates.
func B3(x0, y0, z0, x1, y1, z1 float32) Box3 {
	return Box3{mgl32.Vec3{x0, y0, z0}, mgl32.Vec3{x1, y1, z1}}
}

// B3Empty returns a new [Box3] with empty minimum and maximum values.
func B3Empty() Box3 {
	bx := Box3{}
	bx.SetEmpty()
	return bx
}

// B3FromPoints returns the smallest box containing all of the given points.
func B3FromPoints(points ...mgl32.Vec3) Box3 {
	bx := B3Empty()
	for _, p := range points {
		bx.ExpandByPoint(p)
	}
	return bx
}

// String implements [fmt.Stringer].
func (b Box3) String() string {
	if b.IsEmpty() {
		return "Box3(empty)"
	}
	return fmt.Sprintf("Box3(%v, %v)", b.Min, b.Max)
}

// SetEmpty set this bounding box to empty (min / max +/- Infinity)
func (b *Box3) SetEmpty() {
	b.Min = mgl32.Vec3{Infinity, Infinity, Infinity}
	b.Max = mgl32.Vec3{-Infinity, -Infinity, -Infinity}
}

// IsEmpty returns true if this bounding box is empty (max < min on any coord).
func (b Box3) IsEmpty() bool {
	return (b.Max[0] < b.Min[0]) || (b.Max[1] < b.Min[1]) || (b.Max[2] < b.Min[2])
}

// ExpandByPoint may expand this bounding box to include the specified point.
func (b *Box3) ExpandByPoint(point mgl32.Vec3) {
	b.Min = MinVec3(b.Min, point)
	b.Max = MaxVec3(b.Max, point)
}

// ExpandByBox may expand this bounding box to include the specified box.
// Empty boxes are ignored.
func (b *Box3) ExpandByBox(box Box3) {
	if box.IsEmpty() {
		return
	}
	b.ExpandByPoint(box.Min)
	b.ExpandByPoint(box.Max)
}

// Union returns the union with other box.
func (b Box3) Union(other Box3) Box3 {
	switch {
	case b.IsEmpty():
		return other
	case other.IsEmpty():
		return b
	}
	return Box3{MinVec3(b.Min, other.Min), MaxVec3(b.Max, other.Max)}
}

// Intersect returns the intersection with other box,
// which is empty if the boxes do not overlap.
func (b Box3) Intersect(other Box3) Box3 {
	return Box3{MaxVec3(b.Min, other.Min), MinVec3(b.Max, other.Max)}
}

// Center returns the center of the bounding box.
func (b Box3) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size calculates the size of this bounding box: the vector from
// its minimum point to its maximum point.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// ContainsPoint returns if this bounding box contains the specified point.
func (b Box3) ContainsPoint(point mgl32.Vec3) bool {
	for i := range 3 {
		if point[i] < b.Min[i] || point[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// IntersectsBox returns if other box intersects this one.
func (b Box3) IntersectsBox(other Box3) bool {
	// using 6 splitting planes to rule out intersections.
	for i := range 3 {
		if other.Max[i] < b.Min[i] || other.Min[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Corners returns the eight corner points of the box.
func (b Box3) Corners() [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{b.Min[0], b.Min[1], b.Min[2]},
		{b.Min[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Min[2]},
		{b.Max[0], b.Max[1], b.Max[2]},
		{b.Max[0], b.Max[1], b.Min[2]},
		{b.Max[0], b.Min[1], b.Max[2]},
		{b.Min[0], b.Max[1], b.Max[2]},
	}
}

// MulMatrix4 multiplies the specified matrix to the vertices of this bounding box
// and computes the resulting spanning Box3 of the transformed points.
// An empty box stays empty.
func (b Box3) MulMatrix4(m mgl32.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	nb := B3Empty()
	for _, c := range b.Corners() {
		nb.ExpandByPoint(TransformPoint(m, c))
	}
	return nb
}

// Translate returns translated position of this box by offset.
func (b Box3) Translate(offset mgl32.Vec3) Box3 {
	if b.IsEmpty() {
		return b
	}
	return Box3{b.Min.Add(offset), b.Max.Add(offset)}
}

// ApproxEqual returns whether both boxes are empty, or their
// corners are equal within the given tolerance.
func (b Box3) ApproxEqual(other Box3, eps float32) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return b.IsEmpty() == other.IsEmpty()
	}
	return b.Min.ApproxEqualThreshold(other.Min, eps) && b.Max.ApproxEqualThreshold(other.Max, eps)
}
