// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/math32"
)

// Capabilities of the built-in decorators.
const (
	// IsGroup reports true for nodes that are selected as a whole.
	IsGroup Capability = "isGroup"

	// GetConvexHull returns the []mgl32.Vec2 footprint of the node on
	// the XZ build plane in counter-clockwise order.
	GetConvexHull Capability = "getConvexHull"

	// GetBuildPlateNumber returns the int build plate of the node.
	GetBuildPlateNumber Capability = "getBuildPlateNumber"

	// SetBuildPlateNumber sets the build plate of the node to its int argument.
	SetBuildPlateNumber Capability = "setBuildPlateNumber"
)

// GroupDecorator marks a node as a group: selecting it selects all of
// its descendants.
type GroupDecorator struct {
	DecoratorBase
}

func (d *GroupDecorator) Capabilities() map[Capability]Handler {
	return map[Capability]Handler{
		IsGroup: func(args ...any) any { return true },
	}
}

func (d *GroupDecorator) Clear() {}

// ConvexHullDecorator provides the convex hull of the world space
// vertices of a node and its descendants, projected on the XZ plane.
type ConvexHullDecorator struct {
	DecoratorBase
}

func (d *ConvexHullDecorator) Capabilities() map[Capability]Handler {
	return map[Capability]Handler{
		GetConvexHull: func(args ...any) any { return d.Hull() },
	}
}

func (d *ConvexHullDecorator) Clear() {}

// Hull returns the convex hull, or nil if the decorator is not attached
// or there is no geometry.
func (d *ConvexHullDecorator) Hull() []mgl32.Vec2 {
	if d.Node() == nil {
		return nil
	}
	var points []mgl32.Vec2
	for nd := range DepthFirst(d.Node()) {
		nb := nd.AsNodeBase()
		ms := nb.Mesh()
		if ms == nil || ms.Data() == nil {
			continue
		}
		m := nb.GlobalTransform()
		for _, v := range ms.Data().Vertices {
			p := math32.TransformPoint(m, v)
			points = append(points, mgl32.Vec2{p[0], p[2]})
		}
	}
	return ConvexHull(points)
}

// ConvexHull returns the convex hull of the points in counter-clockwise
// order, without collinear points, using the monotone chain algorithm.
func ConvexHull(points []mgl32.Vec2) []mgl32.Vec2 {
	pts := slices.Clone(points)
	slices.SortFunc(pts, func(a, b mgl32.Vec2) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	pts = slices.Compact(pts)
	if len(pts) < 3 {
		return pts
	}
	cross := func(o, a, b mgl32.Vec2) float32 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}
	hull := make([]mgl32.Vec2, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// BuildPlateDecorator stores which build plate a node is on.
type BuildPlateDecorator struct {
	DecoratorBase

	// Plate is the build plate number.
	Plate int
}

func (d *BuildPlateDecorator) Capabilities() map[Capability]Handler {
	return map[Capability]Handler{
		GetBuildPlateNumber: func(args ...any) any { return d.Plate },
		SetBuildPlateNumber: func(args ...any) any {
			if len(args) > 0 {
				if p, ok := args[0].(int); ok {
					d.Plate = p
				}
			}
			return nil
		},
	}
}

func (d *BuildPlateDecorator) Clear() {
	d.Plate = 0
}
