// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/math32"
)

// LocalTransform returns the transform of the node relative to its parent.
func (n *NodeBase) LocalTransform() mgl32.Mat4 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.local
}

// GlobalTransform returns the local transform pre-multiplied by the
// global transform of the parent, recursively up to the root. It is
// not cached, so it costs O(depth) per call.
func (n *NodeBase) GlobalTransform() mgl32.Mat4 {
	m := n.LocalTransform()
	for p := n.parentBase(); p != nil; p = p.parentBase() {
		m = p.LocalTransform().Mul4(m)
	}
	return m
}

// NormalMatrix returns the matrix that transforms the normals of the
// mesh of the node into world space.
func (n *NodeBase) NormalMatrix() mgl32.Mat3 {
	return math32.NormalMatrix(n.GlobalTransform())
}

// updateLocal applies fn to the local transform. It does nothing if the
// node is disabled. Otherwise the bounding boxes of the subtree and the
// parents are invalidated and a [TransformChanged] event is emitted.
func (n *NodeBase) updateLocal(fn func(m mgl32.Mat4) mgl32.Mat4) {
	n.mu.Lock()
	if !n.flags.Has(Enabled) {
		n.mu.Unlock()
		return
	}
	n.local = fn(n.local)
	n.mu.Unlock()
	n.invalidateBBox(true)
	n.emit(Event{Kind: TransformChanged, Source: n.This})
}

// SetLocalTransform replaces the local transform.
func (n *NodeBase) SetLocalTransform(m mgl32.Mat4) {
	n.updateLocal(func(mgl32.Mat4) mgl32.Mat4 { return m })
}

// Translate moves the node by v in the coordinates of its parent.
func (n *NodeBase) Translate(v mgl32.Vec3) {
	n.updateLocal(func(m mgl32.Mat4) mgl32.Mat4 {
		return math32.Translation(v).Mul4(m)
	})
}

// Rotate rotates the node by q around its own origin.
func (n *NodeBase) Rotate(q mgl32.Quat) {
	n.updateLocal(func(m mgl32.Mat4) mgl32.Mat4 {
		return m.Mul4(math32.Rotation(q))
	})
}

// RotateAxis rotates the node by angle radians around the given axis
// through its own origin.
func (n *NodeBase) RotateAxis(axis mgl32.Vec3, angle float32) {
	n.updateLocal(func(m mgl32.Mat4) mgl32.Mat4 {
		return m.Mul4(math32.AxisAngle(axis, angle))
	})
}

// Scale scales the node by v along its own axes.
func (n *NodeBase) Scale(v mgl32.Vec3) {
	n.updateLocal(func(m mgl32.Mat4) mgl32.Mat4 {
		return m.Mul4(math32.Scaling(v))
	})
}

// Position returns the translation part of the local transform.
func (n *NodeBase) Position() mgl32.Vec3 {
	return n.LocalTransform().Col(3).Vec3()
}

// SetPosition sets the translation part of the local transform.
func (n *NodeBase) SetPosition(p mgl32.Vec3) {
	n.updateLocal(func(m mgl32.Mat4) mgl32.Mat4 {
		m.SetCol(3, p.Vec4(1))
		return m
	})
}

// WorldPosition returns the position of the node in world space.
func (n *NodeBase) WorldPosition() mgl32.Vec3 {
	return n.GlobalTransform().Col(3).Vec3()
}

// Orientation returns the rotation part of the local transform.
func (n *NodeBase) Orientation() mgl32.Quat {
	_, r, _ := math32.Decompose(n.LocalTransform())
	return r
}

// SetOrientation replaces the rotation part of the local transform.
func (n *NodeBase) SetOrientation(q mgl32.Quat) {
	n.updateLocal(func(m mgl32.Mat4) mgl32.Mat4 {
		t, _, s := math32.Decompose(m)
		return math32.Compose(t, q, s)
	})
}

// ScaleVector returns the scale part of the local transform.
func (n *NodeBase) ScaleVector() mgl32.Vec3 {
	_, _, s := math32.Decompose(n.LocalTransform())
	return s
}

// SetScale replaces the scale part of the local transform.
func (n *NodeBase) SetScale(s mgl32.Vec3) {
	n.updateLocal(func(m mgl32.Mat4) mgl32.Mat4 {
		t, r, _ := math32.Decompose(m)
		return math32.Compose(t, r, s)
	})
}

// LookAt orients the node at its current position so that its -Z axis
// points at center, with both in the coordinates of the parent. Any
// scale is reset. up must not be parallel to the view direction.
func (n *NodeBase) LookAt(center, up mgl32.Vec3) {
	n.updateLocal(func(m mgl32.Mat4) mgl32.Mat4 {
		return math32.LookAt(m.Col(3).Vec3(), center, up)
	})
}
