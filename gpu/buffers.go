// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/mesh"
)

// MeshBuffers are the vertex and index buffers of a mesh on a device.
// Indices are always present.
type MeshBuffers struct {
	Vertices []mgl32.Vec3
	Colors   []mgl32.Vec4
	Indices  []uint32

	released atomic.Bool
}

// NewMeshBuffers uploads the mesh data.
func NewMeshBuffers(d *mesh.Data) *MeshBuffers {
	b := &MeshBuffers{
		Vertices: append([]mgl32.Vec3(nil), d.Vertices...),
	}
	if d.HasColors() {
		b.Colors = append([]mgl32.Vec4(nil), d.Colors...)
	}
	if d.HasIndices() {
		b.Indices = append([]uint32(nil), d.Indices...)
	} else {
		b.Indices = make([]uint32, len(d.Vertices)/3*3)
		for i := range b.Indices {
			b.Indices[i] = uint32(i)
		}
	}
	return b
}

// Release frees the buffers.
func (b *MeshBuffers) Release() {
	b.released.Store(true)
	b.Vertices, b.Colors, b.Indices = nil, nil, nil
}

// Released returns whether Release was called.
func (b *MeshBuffers) Released() bool {
	return b.released.Load()
}

func (b *MeshBuffers) color(i uint32) mgl32.Vec4 {
	if b.Colors == nil {
		return mgl32.Vec4{1, 1, 1, 1}
	}
	return b.Colors[i]
}
