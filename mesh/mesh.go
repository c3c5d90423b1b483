// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh provides the shared, immutable triangle mesh resource
// referenced by scene nodes, along with the per-mesh cache of
// device buffers derived from it.
package mesh

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/math32"
)

// Data is the vertex data of a mesh. It must not be modified once it
// has been given to a [Mesh]; use [Mesh.Replace] to change the data.
// Indices are optional; without them every three consecutive
// vertices form a triangle.
type Data struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	Colors   []mgl32.Vec4
	UVs      []mgl32.Vec2
	Indices  []uint32

	bounds     math32.Box3
	boundsOnce sync.Once
}

// HasIndices returns whether the triangles are given by Indices.
func (d *Data) HasIndices() bool {
	return len(d.Indices) > 0
}

// HasColors returns whether there is a color for every vertex.
func (d *Data) HasColors() bool {
	return len(d.Colors) == len(d.Vertices) && len(d.Colors) > 0
}

// FaceCount returns the number of triangles.
func (d *Data) FaceCount() int {
	if d.HasIndices() {
		return len(d.Indices) / 3
	}
	return len(d.Vertices) / 3
}

// FaceIndices returns the vertex indices of the given triangle.
func (d *Data) FaceIndices(face int) (a, b, c int) {
	if d.HasIndices() {
		i := face * 3
		return int(d.Indices[i]), int(d.Indices[i+1]), int(d.Indices[i+2])
	}
	return face * 3, face*3 + 1, face*3 + 2
}

// Face returns the three vertex positions of the given triangle.
func (d *Data) Face(face int) [3]mgl32.Vec3 {
	a, b, c := d.FaceIndices(face)
	return [3]mgl32.Vec3{d.Vertices[a], d.Vertices[b], d.Vertices[c]}
}

// Bounds returns the local-space bounding box of the vertices.
// It is computed once.
func (d *Data) Bounds() math32.Box3 {
	d.boundsOnce.Do(func() {
		d.bounds = math32.B3FromPoints(d.Vertices...)
	})
	return d.bounds
}

// Extents returns the bounding box of all of the vertices transformed by m.
// This is tighter than transforming [Data.Bounds] under rotation.
func (d *Data) Extents(m mgl32.Mat4) math32.Box3 {
	if m == mgl32.Ident4() {
		return d.Bounds()
	}
	bb := math32.B3Empty()
	for _, v := range d.Vertices {
		bb.ExpandByPoint(math32.TransformPoint(m, v))
	}
	return bb
}

// Buffers is something derived from mesh [Data] on a device,
// such as vertex and index buffers, that is cached on the [Mesh].
type Buffers interface {
	// Release frees the device resources of the buffers.
	Release()
}

type cachedBuffers struct {
	buffers Buffers
	version uint64
}

// Mesh is a shared, reference-counted-by-GC handle to mesh [Data].
// Many nodes may reference one Mesh; the data itself is immutable and
// is swapped wholesale by [Mesh.Replace].
type Mesh struct {
	// Name is an optional name, used for debugging output.
	Name string

	data    atomic.Pointer[Data]
	version atomic.Uint64

	mu        sync.Mutex
	listeners map[int]func(*Mesh)
	nextID    int
	cache     map[any]cachedBuffers
}

// New returns a new Mesh with the given data.
func New(name string, data *Data) *Mesh {
	ms := &Mesh{Name: name}
	if data == nil {
		data = &Data{}
	}
	ms.data.Store(data)
	return ms
}

// Data returns the current data of the mesh.
func (ms *Mesh) Data() *Data {
	return ms.data.Load()
}

// Version returns the number of times the data has been replaced.
func (ms *Mesh) Version() uint64 {
	return ms.version.Load()
}

// Bounds returns the local-space bounding box of the current data.
func (ms *Mesh) Bounds() math32.Box3 {
	return ms.Data().Bounds()
}

// Extents returns the bounding box of the current data transformed by m.
func (ms *Mesh) Extents(m mgl32.Mat4) math32.Box3 {
	return ms.Data().Extents(m)
}

// Replace replaces the data of the mesh and notifies all listeners
// registered with [Mesh.OnChanged]. Cached buffers are recreated on
// their next use.
func (ms *Mesh) Replace(data *Data) {
	if data == nil {
		data = &Data{}
	}
	ms.data.Store(data)
	ms.version.Add(1)
	ms.mu.Lock()
	fns := make([]func(*Mesh), 0, len(ms.listeners))
	for _, fn := range ms.listeners {
		fns = append(fns, fn)
	}
	ms.mu.Unlock()
	for _, fn := range fns {
		fn(ms)
	}
}

// OnChanged adds a function that is called after the data is replaced.
// It returns an id that can be passed to [Mesh.Disconnect].
func (ms *Mesh) OnChanged(fn func(ms *Mesh)) int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.listeners == nil {
		ms.listeners = map[int]func(*Mesh){}
	}
	ms.nextID++
	ms.listeners[ms.nextID] = fn
	return ms.nextID
}

// Disconnect removes the listener with the given id.
func (ms *Mesh) Disconnect(id int) {
	ms.mu.Lock()
	delete(ms.listeners, id)
	ms.mu.Unlock()
}

// Buffers returns the buffers cached for the given device key,
// calling create to make them if there are none yet, if the data has
// been replaced since they were made, or after [Mesh.InvalidateBuffers].
func (ms *Mesh) Buffers(key any, create func(d *Data) (Buffers, error)) (Buffers, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ver := ms.Version()
	if cb, ok := ms.cache[key]; ok {
		if cb.version == ver {
			return cb.buffers, nil
		}
		cb.buffers.Release()
		delete(ms.cache, key)
	}
	bufs, err := create(ms.Data())
	if err != nil {
		return nil, err
	}
	if ms.cache == nil {
		ms.cache = map[any]cachedBuffers{}
	}
	ms.cache[key] = cachedBuffers{buffers: bufs, version: ver}
	return bufs, nil
}

// InvalidateBuffers releases all cached buffers so that they are
// recreated on their next use.
func (ms *Mesh) InvalidateBuffers() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, cb := range ms.cache {
		cb.buffers.Release()
	}
	ms.cache = nil
}
