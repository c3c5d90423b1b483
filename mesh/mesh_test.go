// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/scene/math32"
)

type testBuffers struct {
	released bool
}

func (tb *testBuffers) Release() { tb.released = true }

func TestCubeData(t *testing.T) {
	ms := NewCube("cube", 1)
	d := ms.Data()
	assert.Equal(t, 12, d.FaceCount())
	assert.Equal(t, math32.B3(0, 0, 0, 1, 1, 1), ms.Bounds())

	ext := ms.Extents(math32.Translation(mgl32.Vec3{5, 0, 0}))
	assert.True(t, ext.ApproxEqual(math32.B3(5, 0, 0, 6, 1, 1), 1e-6))

	for f := range d.FaceCount() {
		fc := d.Face(f)
		n := fc[1].Sub(fc[0]).Cross(fc[2].Sub(fc[0]))
		assert.Greater(t, n.Len(), float32(0))
	}
}

func TestExtentsRotated(t *testing.T) {
	ms := NewBox("box", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	ext := ms.Extents(math32.AxisAngle(math32.Vec3Z, math32.Pi/2))
	assert.True(t, ext.ApproxEqual(math32.B3(-1, -1, -1, 1, 1, 1), 1e-5))
}

func TestReplaceNotifies(t *testing.T) {
	ms := NewCube("cube", 1)
	calls := 0
	id := ms.OnChanged(func(m *Mesh) {
		calls++
		assert.Equal(t, ms, m)
	})
	ms.Replace(NewBoxData(mgl32.Vec3{}, mgl32.Vec3{2, 2, 2}))
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint64(1), ms.Version())
	assert.Equal(t, math32.B3(0, 0, 0, 2, 2, 2), ms.Bounds())

	ms.Disconnect(id)
	ms.Replace(nil)
	assert.Equal(t, 1, calls)
	assert.True(t, ms.Bounds().IsEmpty())
}

func TestBuffersCache(t *testing.T) {
	ms := NewCube("cube", 1)
	created := 0
	create := func(d *Data) (Buffers, error) {
		created++
		return &testBuffers{}, nil
	}
	b1, err := ms.Buffers("dev", create)
	require.NoError(t, err)
	b2, err := ms.Buffers("dev", create)
	require.NoError(t, err)
	assert.Same(t, b1, b2)
	assert.Equal(t, 1, created)

	ms.Replace(NewBoxData(mgl32.Vec3{}, mgl32.Vec3{1, 2, 3}))
	b3, err := ms.Buffers("dev", create)
	require.NoError(t, err)
	assert.NotSame(t, b1, b3)
	assert.True(t, b1.(*testBuffers).released)

	ms.InvalidateBuffers()
	assert.True(t, b3.(*testBuffers).released)
	_, err = ms.Buffers("dev", create)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	_, err = ms.Buffers("other", func(d *Data) (Buffers, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
}
