// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/gpu"
	"cogentcore.org/scene/math32"
)

// SupportAngleKey is the preference with the largest overhang angle in
// degrees that prints without support. Faces that hang over further are
// shown with the overhang color.
const SupportAngleKey = "support/support_angle"

// Preferences is the key/value lookup that shader uniforms are read from.
type Preferences interface {
	Float(key string, def float64) float64
}

// Uniforms of the default shader.
var (
	DefaultDiffuseColor  = color.NRGBA{200, 200, 200, 255}
	DefaultOverhangColor = color.NRGBA{255, 0, 0, 255}
	DefaultLightDir      = mgl32.Vec3{0.3, 1, 0.6}.Normalize()
)

const ambient = 0.3

// NewDefaultShader returns the shader of the default pass: Lambert
// shading of "diffuse_color" times the vertex color, lit from
// "light_direction". When "overhang_angle" is set, faces that lean out
// from the vertical by more than that many degrees, facing down, use
// "overhang_color". Lines and points are not lit.
func NewDefaultShader() *gpu.Shader {
	sh := gpu.NewShader("default", func(f *gpu.Fragment) (color.NRGBA, bool) {
		diffuse := f.Uniforms.Color("diffuse_color", DefaultDiffuseColor)
		if f.Normal == (mgl32.Vec3{}) {
			return diffuse, true
		}
		n := f.Normal.Normalize()
		if angle := f.Uniforms.Float("overhang_angle", 0); angle > 0 {
			if -n.Y() > math32.Sin(math32.DegToRad(angle)) {
				diffuse = f.Uniforms.Color("overhang_color", DefaultOverhangColor)
			}
		}
		light := DefaultLightDir
		if v, ok := f.Uniforms["light_direction"].(mgl32.Vec3); ok {
			light = v.Normalize()
		}
		k := ambient + (1-ambient)*max(n.Dot(light), 0)
		c := mgl32.Vec4{
			float32(diffuse.R) / 255 * f.Color[0] * k,
			float32(diffuse.G) / 255 * f.Color[1] * k,
			float32(diffuse.B) / 255 * f.Color[2] * k,
			float32(diffuse.A) / 255 * f.Color[3],
		}
		return gpu.Vec4ToNRGBA(c), true
	})
	sh.Uniforms["diffuse_color"] = DefaultDiffuseColor
	sh.Uniforms["light_direction"] = DefaultLightDir
	return sh
}

// ApplyPreferences sets the uniforms of the shader that are driven by
// preferences. A support angle of zero or less turns off overhang
// shading.
func ApplyPreferences(sh *gpu.Shader, prefs Preferences) {
	angle := prefs.Float(SupportAngleKey, 0)
	if angle <= 0 {
		delete(sh.Uniforms, "overhang_angle")
		return
	}
	sh.Uniforms["overhang_angle"] = float32(angle)
	if _, ok := sh.Uniforms["overhang_color"]; !ok {
		sh.Uniforms["overhang_color"] = DefaultOverhangColor
	}
}

// newSelectionShader returns the flat shader of object picking, which
// draws "selection_color" as is, alpha included.
func newSelectionShader() *gpu.Shader {
	return gpu.NewShader("selection", func(f *gpu.Fragment) (color.NRGBA, bool) {
		return f.Uniforms.Color("selection_color", color.NRGBA{}), true
	})
}

// newFaceShader returns the shader of face picking: the low, middle and
// high bytes of the triangle index go to red, green and blue, and
// alpha is "model_id" plus one.
func newFaceShader() *gpu.Shader {
	return gpu.NewShader("selection_faces", func(f *gpu.Fragment) (color.NRGBA, bool) {
		id := f.Primitive
		model := f.Uniforms.Int("model_id", 0)
		return color.NRGBA{uint8(id), uint8(id >> 8), uint8(id >> 16), uint8(model + 1)}, true
	})
}
