// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents an oriented 3D line segment defined by an origin point
// and a normalized direction vector.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// NewRay returns a Ray with
// the specified origin and direction vectors.
// The direction is normalized.
func NewRay(origin, dir mgl32.Vec3) Ray {
	return Ray{Origin: origin, Dir: dir.Normalize()}
}

// At returns the point along the ray at distance t from the origin.
func (ray Ray) At(t float32) mgl32.Vec3 {
	return ray.Origin.Add(ray.Dir.Mul(t))
}

// IntersectBox returns the first point where the ray enters the box
// (or the origin if it starts inside), using the slab method.
// It returns false if there is no intersection in front of the origin.
func (ray Ray) IntersectBox(box Box3) (mgl32.Vec3, bool) {
	if box.IsEmpty() {
		return mgl32.Vec3{}, false
	}
	tmin := -Infinity
	tmax := Infinity
	for i := range 3 {
		if ray.Dir[i] == 0 {
			if ray.Origin[i] < box.Min[i] || ray.Origin[i] > box.Max[i] {
				return mgl32.Vec3{}, false
			}
			continue
		}
		inv := 1 / ray.Dir[i]
		t0 := (box.Min[i] - ray.Origin[i]) * inv
		t1 := (box.Max[i] - ray.Origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tmin = Max(tmin, t0)
		tmax = Min(tmax, t1)
		if tmax < tmin {
			return mgl32.Vec3{}, false
		}
	}
	if tmax < 0 {
		return mgl32.Vec3{}, false
	}
	if tmin < 0 {
		tmin = 0
	}
	return ray.At(tmin), true
}
