// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestBox3Empty(t *testing.T) {
	b := B3Empty()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, mgl32.Vec3{}, b.Size())

	u := b.Union(B3(0, 0, 0, 1, 1, 1))
	assert.Equal(t, B3(0, 0, 0, 1, 1, 1), u)
	assert.True(t, b.MulMatrix4(Translation(mgl32.Vec3{1, 2, 3})).IsEmpty())
}

func TestBox3Union(t *testing.T) {
	a := B3(0, 0, 0, 1, 1, 1)
	b := B3(5, 0, 0, 6, 1, 1)
	u := a.Union(b)
	assert.Equal(t, B3(0, 0, 0, 6, 1, 1), u)
	assert.True(t, u.ContainsPoint(mgl32.Vec3{3, 0.5, 0.5}))
	assert.False(t, a.IntersectsBox(b))
	assert.True(t, a.Intersect(b).IsEmpty())
}

func TestBox3MulMatrix4(t *testing.T) {
	b := B3(-1, -1, -1, 1, 1, 1)
	r := b.MulMatrix4(AxisAngle(Vec3Z, Pi/4))
	s := Sqrt(2)
	assert.True(t, r.ApproxEqual(B3(-s, -s, -1, s, s, 1), 1e-5), "%v", r)

	tr := b.MulMatrix4(Translation(mgl32.Vec3{10, 0, 0}))
	assert.True(t, tr.ApproxEqual(B3(9, -1, -1, 11, 1, 1), 1e-6))
}

func TestComposeDecompose(t *testing.T) {
	pos := mgl32.Vec3{1, 2, 3}
	rot := mgl32.QuatRotate(0.7, mgl32.Vec3{0, 1, 0})
	scl := mgl32.Vec3{2, 3, 4}
	m := Compose(pos, rot, scl)
	p, r, s := Decompose(m)
	assert.True(t, p.ApproxEqual(pos))
	assert.True(t, s.ApproxEqualThreshold(scl, 1e-5))
	assert.True(t, r.ApproxEqualThreshold(rot, 1e-5) || r.ApproxEqualThreshold(rot.Scale(-1), 1e-5))
}

func TestLookAt(t *testing.T) {
	m := LookAt(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, Vec3Y)
	// the object looks down its -Z axis
	fwd := TransformDirection(m, mgl32.Vec3{0, 0, -1})
	assert.True(t, fwd.ApproxEqual(mgl32.Vec3{0, 0, -1}))
	assert.True(t, TransformPoint(m, mgl32.Vec3{}).ApproxEqual(mgl32.Vec3{0, 0, 10}))

	m = LookAt(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{}, Vec3Y)
	fwd = TransformDirection(m, mgl32.Vec3{0, 0, -1})
	assert.True(t, fwd.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-6), "%v", fwd)
}

func TestRayIntersectBox(t *testing.T) {
	b := B3(-1, -1, -1, 1, 1, 1)
	r := NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, -1})
	pt, ok := r.IntersectBox(b)
	assert.True(t, ok)
	assert.True(t, pt.ApproxEqual(mgl32.Vec3{0, 0, 1}))

	r = NewRay(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{0, 0, -1})
	_, ok = r.IntersectBox(b)
	assert.False(t, ok)

	r = NewRay(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 1})
	_, ok = r.IntersectBox(b)
	assert.False(t, ok)
}

func TestNormalMatrix(t *testing.T) {
	n := NormalMatrix(Scaling(mgl32.Vec3{2, 1, 1}))
	v := n.Mul3x1(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0.5, v[0], 1e-6)
	assert.Equal(t, mgl32.Ident3(), NormalMatrix(Scaling(mgl32.Vec3{0, 1, 1})))
}
