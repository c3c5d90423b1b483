// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz_test

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"cogentcore.org/scene/math32"
	. "cogentcore.org/scene/xyz"
)

func newTestCamera() *Camera {
	c := NewCamera(nil, "cam")
	c.SetPosition(mgl32.Vec3{0, 0, 10})
	c.LookAt(mgl32.Vec3{}, math32.Vec3Y)
	return c
}

func TestCameraLookAt(t *testing.T) {
	c := newTestCamera()
	assert.True(t, c.ViewMatrix().ApproxEqualThreshold(math32.Translation(mgl32.Vec3{0, 0, -10}), 1e-5))
	p := c.Project(mgl32.Vec3{})
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.True(t, p[2] > -1 && p[2] < 1)
}

func TestCameraRay(t *testing.T) {
	c := newTestCamera()
	r := c.Ray(0, 0)
	assert.True(t, r.Origin.ApproxEqualThreshold(mgl32.Vec3{0, 0, 10}, 1e-4))
	assert.True(t, r.Dir.Normalize().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4))

	r = c.Ray(0.5, -0.25)
	p := c.Project(r.At(5))
	assert.InDelta(t, 0.5, p[0], 1e-3)
	assert.InDelta(t, -0.25, p[1], 1e-3)

	c.SetPerspective(false)
	assert.False(t, c.IsPerspective())
	r = c.Ray(0.5, 0.5)
	assert.True(t, r.Dir.Normalize().ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-4))
	p = c.Project(r.At(3))
	assert.InDelta(t, 0.5, p[0], 1e-3)
	assert.InDelta(t, 0.5, p[1], 1e-3)
}

func TestCameraZoom(t *testing.T) {
	c := newTestCamera()
	before := c.Project(mgl32.Vec3{1, 0, 0})
	c.SetZoomFactor(2)
	after := c.Project(mgl32.Vec3{1, 0, 0})
	assert.Greater(t, after[0], before[0])
	c.SetZoomFactor(0)
	assert.Equal(t, float32(0.01), c.ZoomFactor())
}

func TestCameraProjectionEvents(t *testing.T) {
	c := newTestCamera()
	var kinds []EventKind
	c.OnChange(func(e Event) { kinds = append(kinds, e.Kind) })
	c.SetViewportSize(1024, 0)
	w, h := c.ViewportSize()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 1, h)
	c.SetFOV(60)
	c.SetNearFar(1, 100)
	assert.Equal(t, []EventKind{ProjectionChanged, ProjectionChanged, ProjectionChanged}, kinds)
}

type mapPrefs map[string]string

func (m mapPrefs) String(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

func TestCameraPreferences(t *testing.T) {
	c := newTestCamera()
	c.ConfigureFromPreferences(mapPrefs{PerspectiveModeKey: "orthographic"})
	assert.False(t, c.IsPerspective())
	c.ConfigureFromPreferences(mapPrefs{PerspectiveModeKey: "bogus"})
	assert.False(t, c.IsPerspective())
	c.ConfigureFromPreferences(mapPrefs{})
	assert.True(t, c.IsPerspective())
}

func TestSelection(t *testing.T) {
	root := NewNode(nil, "root")
	group := NewNode(root, "group")
	group.AddDecorator(&GroupDecorator{})
	member := NewNode(group, "member")
	plain := NewNode(root, "plain")
	plainKid := NewNode(plain, "kid")
	disabled := NewNode(root, "disabled")
	disabled.SetEnabled(false)

	var s Selection
	events := 0
	s.OnChanged(func(e Event) {
		events++
		assert.Equal(t, SelectionChanged, e.Kind)
	})
	s.Add(group)
	s.Add(group)
	s.Add(plain)
	s.Add(disabled)
	s.Add(nil)
	assert.Equal(t, []Node{group, plain}, s.Nodes())
	assert.Equal(t, 2, events)

	assert.True(t, s.IsSelected(member))
	assert.True(t, s.IsSelected(plain))
	assert.False(t, s.IsSelected(plainKid))
	assert.False(t, s.IsSelected(disabled))

	s.Remove(plainKid)
	s.Remove(group)
	assert.False(t, s.IsSelected(member))
	assert.Equal(t, 1, s.Len())
	s.Clear()
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 4, events)
}

func TestToolHandleColors(t *testing.T) {
	for _, axis := range []Axis{XAxis, YAxis, ZAxis, AllAxis} {
		c := ToolHandleColor(axis)
		assert.Equal(t, axis, AxisFromColor(c))
		c.A = 7
		assert.Equal(t, axis, AxisFromColor(c))
		assert.True(t, IsReservedColor(c))
	}
	assert.Equal(t, NoAxis, AxisFromColor(color.RGBA{1, 2, 3, 255}))
	assert.True(t, IsReservedColor(DisabledSelectionColor))
	assert.False(t, IsReservedColor(color.RGBA{1, 2, 3, 255}))

	th := NewToolHandle(nil, "ty", YAxis)
	assert.Equal(t, YAxisSelectionColor, th.SelectionColor())
	th.SetEnabled(false)
	assert.Equal(t, DisabledSelectionColor, th.SelectionColor())
	assert.Equal(t, "y", th.Axis.String())
}
