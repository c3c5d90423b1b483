// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/math32"
)

// PerspectiveModeKey is the preference that selects the projection of
// cameras configured with [Camera.ConfigureFromPreferences]. Its value
// is "perspective" or "orthographic".
const PerspectiveModeKey = "general/camera_perspective_mode"

// Preferences is the key/value lookup a camera reads its
// configuration from.
type Preferences interface {
	String(key, def string) string
}

// Camera is a node that views the scene through a perspective or
// orthographic projection. It looks down its local -Z axis with +Y up,
// so its view matrix is the inverse of its global transform.
type Camera struct {
	NodeBase

	perspective bool

	// fov is the vertical field of view in degrees.
	fov       float32
	near, far float32
	zoom      float32
	width     int
	height    int

	// target is the point set by the last LookAt, which sets the size
	// of the orthographic view volume.
	target mgl32.Vec3

	projection mgl32.Mat4
}

// NewCamera returns a new perspective camera with the given name,
// added to the given parent if it is non-nil. It has a field of view
// of 30 degrees and a viewport of 800x600.
func NewCamera(parent Node, name string) *Camera {
	c := &Camera{
		perspective: true,
		fov:         30,
		near:        0.1,
		far:         1000,
		zoom:        1,
		width:       800,
		height:      600,
	}
	InitNode(c, name)
	c.updateProjection()
	if parent != nil {
		parent.AsNodeBase().AddChild(c)
	}
	return c
}

// AsCamera returns the camera.
func (c *Camera) AsCamera() *Camera {
	return c
}

// CopyFieldsFrom copies the projection settings of the given camera.
func (c *Camera) CopyFieldsFrom(from Node) {
	c.NodeBase.CopyFieldsFrom(from)
	fc := from.(*Camera)
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perspective, c.fov, c.near, c.far, c.zoom = fc.perspective, fc.fov, fc.near, fc.far, fc.zoom
	c.width, c.height, c.target, c.projection = fc.width, fc.height, fc.target, fc.projection
}

// IsPerspective returns whether the camera uses a perspective projection.
func (c *Camera) IsPerspective() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.perspective
}

// SetPerspective selects a perspective (true) or orthographic (false)
// projection.
func (c *Camera) SetPerspective(on bool) {
	c.mu.Lock()
	c.perspective = on
	c.mu.Unlock()
	c.UpdateProjection()
}

// ViewportSize returns the size of the viewport in pixels.
func (c *Camera) ViewportSize() (width, height int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}

// SetViewportSize sets the size of the viewport in pixels, which sets
// the aspect ratio of the projection.
func (c *Camera) SetViewportSize(width, height int) {
	c.mu.Lock()
	c.width, c.height = max(width, 1), max(height, 1)
	c.mu.Unlock()
	c.UpdateProjection()
}

// SetFOV sets the vertical field of view in degrees.
func (c *Camera) SetFOV(degrees float32) {
	c.mu.Lock()
	c.fov = math32.Clamp(degrees, 1, 179)
	c.mu.Unlock()
	c.UpdateProjection()
}

// SetNearFar sets the distances of the near and far clipping planes.
func (c *Camera) SetNearFar(near, far float32) {
	c.mu.Lock()
	c.near, c.far = near, far
	c.mu.Unlock()
	c.UpdateProjection()
}

// ZoomFactor returns the zoom factor, where 1 is no zoom.
func (c *Camera) ZoomFactor() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.zoom
}

// SetZoomFactor sets the zoom factor, which divides the field of view
// and the orthographic view volume. It is at least 0.01.
func (c *Camera) SetZoomFactor(zoom float32) {
	c.mu.Lock()
	c.zoom = math32.Max(zoom, 0.01)
	c.mu.Unlock()
	c.UpdateProjection()
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.projection
}

// SetProjectionMatrix replaces the projection matrix until the next
// change of the projection settings.
func (c *Camera) SetProjectionMatrix(m mgl32.Mat4) {
	c.mu.Lock()
	c.projection = m
	c.mu.Unlock()
	c.emit(Event{Kind: ProjectionChanged, Source: c.This})
}

// UpdateProjection recomputes the projection matrix from the projection
// settings and emits a [ProjectionChanged] event.
func (c *Camera) UpdateProjection() {
	c.updateProjection()
	c.emit(Event{Kind: ProjectionChanged, Source: c.This})
}

func (c *Camera) updateProjection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	aspect := float32(c.width) / float32(c.height)
	fov := math32.DegToRad(c.fov) / c.zoom
	if c.perspective {
		c.projection = mgl32.Perspective(math32.Min(fov, math32.Pi*0.99), aspect, c.near, c.far)
		return
	}
	dist := c.local.Col(3).Vec3().Sub(c.target).Len()
	if dist == 0 {
		dist = 1
	}
	hh := dist * math32.Tan(math32.DegToRad(c.fov)/2) / c.zoom
	hw := hh * aspect
	c.projection = mgl32.Ortho(-hw, hw, -hh, hh, c.near, c.far)
}

// ViewMatrix returns the view matrix, which is the inverse of the
// global transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.GlobalTransform().Inv()
}

// ViewProjection returns the projection matrix times the view matrix,
// which maps world space to clip space.
func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// LookAt orients the camera at its current position to look at center,
// with the given up direction. up must not be parallel to the view
// direction.
func (c *Camera) LookAt(center, up mgl32.Vec3) {
	c.mu.Lock()
	c.target = center
	c.mu.Unlock()
	c.NodeBase.LookAt(center, up)
	if !c.IsPerspective() {
		c.UpdateProjection()
	}
}

// Ray returns the world space ray through the given normalized device
// coordinates, which are in [-1, 1] inside the viewport with +Y up.
// The near (z = -1) and far (z = +1) points are unprojected through the
// inverse projection and then the global transform, which is the inverse
// view. A perspective ray starts at the camera position; an orthographic
// one starts at the near point, so that all rays are parallel.
func (c *Camera) Ray(ndcX, ndcY float32) math32.Ray {
	invProj := c.ProjectionMatrix().Inv()
	global := c.GlobalTransform()
	unproject := func(z float32) mgl32.Vec3 {
		p := global.Mul4x1(invProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, z, 1}))
		return p.Vec3().Mul(1 / p[3])
	}
	near, far := unproject(-1), unproject(1)
	origin := near
	if c.IsPerspective() {
		origin = global.Col(3).Vec3()
	}
	return math32.NewRay(origin, far.Sub(origin))
}

// Project returns the normalized device coordinates of the world
// space point p.
func (c *Camera) Project(p mgl32.Vec3) mgl32.Vec3 {
	clip := c.ViewProjection().Mul4x1(p.Vec4(1))
	return clip.Vec3().Mul(1 / clip[3])
}

// ConfigureFromPreferences sets the projection from the
// [PerspectiveModeKey] preference.
func (c *Camera) ConfigureFromPreferences(prefs Preferences) {
	switch prefs.String(PerspectiveModeKey, "perspective") {
	case "orthographic":
		c.SetPerspective(false)
	case "perspective":
		c.SetPerspective(true)
	}
}
