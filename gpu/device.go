// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu is the device layer the renderer draws with: offscreen
// targets, shader binding, per-mesh buffers and draw calls. [SoftDevice]
// implements it with a software rasterizer, so that frames and picking
// buffers can be produced without a window or a graphics driver.
//
// A Device is only used from the goroutine that renders.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/mesh"
)

var (
	// ErrTargetTooLarge is returned when a target larger than the
	// device supports is requested.
	ErrTargetTooLarge = errors.New("target too large")

	// ErrInvalidTargetSize is returned for targets without pixels.
	ErrInvalidTargetSize = errors.New("invalid target size")

	// ErrNoShader is returned when drawing without a bound shader.
	ErrNoShader = errors.New("no shader bound")
)

// Device creates render targets and draws meshes into them.
type Device interface {
	// NewTarget returns a new color and depth target of the given size.
	NewTarget(width, height int) (*Target, error)

	// Buffers returns the device buffers of the mesh, which are cached
	// on the mesh and shared by every node that references it.
	Buffers(ms *mesh.Mesh) (*MeshBuffers, error)

	// UseShader binds the shader for the following draw calls.
	UseShader(s *Shader)

	// Shader returns the bound shader.
	Shader() *Shader

	// Draw draws the call into the target with the bound shader.
	Draw(t *Target, call DrawCall) error

	// Stats returns the counters since the last ResetStats.
	Stats() Stats

	// ResetStats zeroes the counters.
	ResetStats()
}

// DrawCall is one mesh drawn with one transform.
type DrawCall struct {
	// Model is the model to world transform.
	Model mgl32.Mat4

	// ViewProjection maps world space to clip space.
	ViewProjection mgl32.Mat4

	// Normal transforms face normals to world space.
	// A zero matrix means the normal matrix of Model.
	Normal mgl32.Mat3

	Buffers *MeshBuffers

	Mode Topologies

	State State

	// Uniforms override the defaults of the shader for this call.
	Uniforms Uniforms
}

// Stats counts the work done by a device.
type Stats struct {
	ShaderBinds   int
	DrawCalls     int
	Primitives    int
	Fragments     int
	BufferUploads int
}

func (s Stats) String() string {
	return fmt.Sprintf("binds=%d draws=%d primitives=%d fragments=%d uploads=%d",
		s.ShaderBinds, s.DrawCalls, s.Primitives, s.Fragments, s.BufferUploads)
}
