// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transforms are 4x4 homogeneous [mgl32.Mat4] matrices in column-major
// order operating on column vectors, so a parent transform P applied
// after a local transform L is P.Mul4(L).

// Identity returns the identity transform.
func Identity() mgl32.Mat4 {
	return mgl32.Ident4()
}

// Translation returns a transform that translates by v.
func Translation(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// Rotation returns a transform that rotates by the given quaternion.
func Rotation(q mgl32.Quat) mgl32.Mat4 {
	return q.Normalize().Mat4()
}

// AxisAngle returns a transform rotating by angle radians around axis.
func AxisAngle(axis mgl32.Vec3, angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3D(angle, axis.Normalize())
}

// Scaling returns a transform that scales by v.
func Scaling(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Scale3D(v[0], v[1], v[2])
}

// Compose returns the transform that scales by s, then rotates by r,
// then translates by t.
func Compose(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return Translation(t).Mul4(Rotation(r)).Mul4(Scaling(s))
}

// Decompose splits an affine transform without shear into its
// translation, rotation and scale, so that Compose(Decompose(m)) == m.
// A negative determinant is attributed to a mirrored x scale.
func Decompose(m mgl32.Mat4) (translate mgl32.Vec3, rotate mgl32.Quat, scale mgl32.Vec3) {
	translate = m.Col(3).Vec3()
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	scale = mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}
	rot := mgl32.Ident4()
	for i, c := range [3]mgl32.Vec3{c0, c1, c2} {
		if scale[i] == 0 {
			continue
		}
		c = c.Mul(1 / scale[i])
		rot.SetCol(i, c.Vec4(0))
	}
	rotate = mgl32.Mat4ToQuat(rot).Normalize()
	return
}

// TransformPoint transforms the point p by m, including the
// homogeneous divide.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, m)
}

// TransformDirection transforms the direction d by m,
// ignoring translation.
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformNormal(d, m)
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of m,
// which transforms surface normals. A singular matrix yields identity.
func NormalMatrix(m mgl32.Mat4) mgl32.Mat3 {
	m3 := m.Mat3()
	if m3.Det() == 0 {
		return mgl32.Ident3()
	}
	return m3.Inv().Transpose()
}

// LookAt returns the object (not view) transform of something positioned
// at eye and oriented so that its -Z axis points at center, with the
// right-handed basis forward = normalize(center - eye),
// right = forward x up, up' = right x forward.
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	forward := center.Sub(eye).Normalize()
	right := forward.Cross(up).Normalize()
	newUp := right.Cross(forward)
	m := mgl32.Ident4()
	m.SetCol(0, right.Vec4(0))
	m.SetCol(1, newUp.Vec4(0))
	m.SetCol(2, forward.Mul(-1).Vec4(0))
	m.SetCol(3, eye.Vec4(1))
	return m
}
