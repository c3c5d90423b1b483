// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image/color"
	"maps"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms are the named parameters of a shader.
type Uniforms map[string]any

// Merge returns a new map with the values of over on top of u.
func (u Uniforms) Merge(over Uniforms) Uniforms {
	if len(over) == 0 {
		return u
	}
	res := make(Uniforms, len(u)+len(over))
	maps.Copy(res, u)
	maps.Copy(res, over)
	return res
}

// Color returns the color uniform with the given name, or def.
// It accepts color.NRGBA, color.RGBA and mgl32.Vec4 values in [0, 1].
func (u Uniforms) Color(name string, def color.NRGBA) color.NRGBA {
	switch v := u[name].(type) {
	case color.NRGBA:
		return v
	case color.RGBA:
		return color.NRGBA(v)
	case mgl32.Vec4:
		return Vec4ToNRGBA(v)
	}
	return def
}

// Float returns the float uniform with the given name, or def.
func (u Uniforms) Float(name string, def float32) float32 {
	switch v := u[name].(type) {
	case float32:
		return v
	case float64:
		return float32(v)
	case int:
		return float32(v)
	}
	return def
}

// Int returns the int uniform with the given name, or def.
func (u Uniforms) Int(name string, def int) int {
	if v, ok := u[name].(int); ok {
		return v
	}
	return def
}

// Fragment is the input of a fragment function: one covered pixel.
type Fragment struct {
	X, Y int

	// Depth is the normalized device depth in [-1, 1].
	Depth float32

	// Primitive is the index of the triangle, line or point
	// in the draw call.
	Primitive int

	// Normal is the world space normal of the triangle, or zero
	// for lines and points.
	Normal mgl32.Vec3

	// Color is the interpolated vertex color, white without colors.
	Color mgl32.Vec4

	Uniforms Uniforms
}

// FragmentFunc computes the color of a fragment. It returns false to
// discard the fragment.
type FragmentFunc func(f *Fragment) (color.NRGBA, bool)

// Shader is a named fragment program with default uniform values.
type Shader struct {
	Name string

	// Uniforms are the defaults, overridden per draw call.
	Uniforms Uniforms

	Fragment FragmentFunc
}

// NewShader returns a new shader.
func NewShader(name string, fn FragmentFunc) *Shader {
	return &Shader{Name: name, Uniforms: Uniforms{}, Fragment: fn}
}

// Vec4ToNRGBA converts a color with components in [0, 1].
func Vec4ToNRGBA(v mgl32.Vec4) color.NRGBA {
	c := func(f float32) uint8 {
		return uint8(min(max(f, 0), 1)*255 + 0.5)
	}
	return color.NRGBA{c(v[0]), c(v[1]), c(v[2]), c(v[3])}
}
