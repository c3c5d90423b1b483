// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

// Topologies are the kinds of primitives a draw call assembles
// from the mesh indices.
type Topologies int32

const (
	// TriangleList draws every three indices as a triangle.
	TriangleList Topologies = iota

	// LineList draws every two indices as a line segment.
	LineList

	// PointList draws every index as a single pixel.
	PointList
)

var topologyNames = [...]string{"triangles", "lines", "points"}

func (tp Topologies) String() string {
	if tp < 0 || int(tp) >= len(topologyNames) {
		return "Topologies(?)"
	}
	return topologyNames[tp]
}

// BlendModes are the ways fragment colors combine with the target.
type BlendModes int32

const (
	// NoBlend replaces the target color.
	NoBlend BlendModes = iota

	// AlphaBlend mixes by the fragment alpha (source-over).
	AlphaBlend

	// AdditiveBlend adds the fragment color, weighted by its alpha.
	AdditiveBlend
)

// CullModes select which triangles are discarded by their winding.
type CullModes int32

const (
	CullNone CullModes = iota

	// CullBack discards triangles that are clockwise on screen.
	CullBack
)

// State is the fixed function state of a draw call.
type State struct {
	DepthTest  bool
	DepthWrite bool
	ColorWrite bool
	Blend      BlendModes
	Cull       CullModes
}

// DefaultState returns the state for opaque geometry: depth tested and
// written, colors written without blending, back faces culled.
func DefaultState() State {
	return State{DepthTest: true, DepthWrite: true, ColorWrite: true, Cull: CullBack}
}
