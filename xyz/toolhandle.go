// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"image/color"

	"cogentcore.org/scene/mesh"
)

// Axis is the manipulation axis of a [ToolHandle].
type Axis int32

const (
	NoAxis Axis = iota
	XAxis
	YAxis
	ZAxis
	AllAxis
)

var axisNames = [...]string{"none", "x", "y", "z", "all"}

func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return "Axis(?)"
	}
	return axisNames[a]
}

// Reserved picking colors of tool handles. Object picking colors never
// use them.
var (
	XAxisSelectionColor    = color.RGBA{255, 0, 0, 255}
	YAxisSelectionColor    = color.RGBA{0, 0, 255, 255}
	ZAxisSelectionColor    = color.RGBA{0, 255, 0, 255}
	AllAxisSelectionColor  = color.RGBA{255, 255, 255, 255}
	DisabledSelectionColor = color.RGBA{128, 128, 128, 255}
)

// ToolHandleColor returns the reserved picking color of the axis.
func ToolHandleColor(axis Axis) color.RGBA {
	switch axis {
	case XAxis:
		return XAxisSelectionColor
	case YAxis:
		return YAxisSelectionColor
	case ZAxis:
		return ZAxisSelectionColor
	case AllAxis:
		return AllAxisSelectionColor
	}
	return DisabledSelectionColor
}

// AxisFromColor returns the axis whose reserved picking color has the
// RGB of c, ignoring alpha, or [NoAxis].
func AxisFromColor(c color.RGBA) Axis {
	c.A = 255
	for _, a := range []Axis{XAxis, YAxis, ZAxis, AllAxis} {
		if ToolHandleColor(a) == c {
			return a
		}
	}
	return NoAxis
}

// IsReservedColor returns whether the RGB of c is one of the reserved
// tool handle colors.
func IsReservedColor(c color.RGBA) bool {
	c.A = 255
	return AxisFromColor(c) != NoAxis || c == DisabledSelectionColor
}

// ToolHandle is a node drawn on top of the scene to manipulate the
// selection along one axis. In the picking buffer it is drawn with the
// reserved color of its axis, or the disabled color when disabled.
type ToolHandle struct {
	NodeBase

	// Axis is the axis the handle manipulates.
	Axis Axis

	selectionMesh *mesh.Mesh
}

// NewToolHandle returns a new tool handle for the given axis,
// added to the given parent if it is non-nil.
func NewToolHandle(parent Node, name string, axis Axis) *ToolHandle {
	th := &ToolHandle{Axis: axis}
	InitNode(th, name)
	if parent != nil {
		parent.AsNodeBase().AddChild(th)
	}
	return th
}

// AsToolHandle returns the tool handle.
func (th *ToolHandle) AsToolHandle() *ToolHandle {
	return th
}

// SelectionMesh returns the mesh drawn into the picking buffer, which
// is the regular mesh unless another one was set.
func (th *ToolHandle) SelectionMesh() *mesh.Mesh {
	th.mu.RLock()
	defer th.mu.RUnlock()
	if th.selectionMesh != nil {
		return th.selectionMesh
	}
	return th.mesh
}

// SetSelectionMesh sets a separate, usually larger, mesh that is
// drawn into the picking buffer to make the handle easier to hit.
func (th *ToolHandle) SetSelectionMesh(ms *mesh.Mesh) {
	th.mu.Lock()
	th.selectionMesh = ms
	th.mu.Unlock()
}

// SelectionColor returns the picking color of the handle.
func (th *ToolHandle) SelectionColor() color.RGBA {
	if !th.IsEnabled() {
		return DisabledSelectionColor
	}
	return ToolHandleColor(th.Axis)
}

// CopyFieldsFrom copies the axis and selection mesh of the given handle.
func (th *ToolHandle) CopyFieldsFrom(from Node) {
	th.NodeBase.CopyFieldsFrom(from)
	fh := from.(*ToolHandle)
	fh.mu.RLock()
	th.selectionMesh = fh.selectionMesh
	fh.mu.RUnlock()
}
