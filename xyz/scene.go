// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"sync"
	"sync/atomic"

	"cogentcore.org/scene/jobs"
)

// Scene owns the root node of the scene graph and the active camera, and
// forwards every change in the current tree as one stream of events.
//
// The root can be swapped wholesale, for example when a workspace is
// loaded. The scene also carries a lock that background I/O jobs take
// while they read or build parts of the tree.
type Scene struct {
	sync.RWMutex

	sched jobs.Scheduler

	mu       sync.Mutex
	root     Node
	rootConn HandlerID
	camera   *Camera

	handlersMu sync.Mutex
	handlers   handlerList

	ignoreChanges atomic.Bool
}

// NewScene returns a new scene with an empty root node named "root".
// Bounding box jobs of the tree run on the given scheduler, which may
// be nil to compute them immediately.
func NewScene(sched jobs.Scheduler) *Scene {
	sc := &Scene{sched: sched}
	sc.SetRoot(NewNode(nil, "root"))
	return sc
}

// Scheduler returns the scheduler of the scene.
func (sc *Scene) Scheduler() jobs.Scheduler {
	return sc.sched
}

// Root returns the root node, which is never nil.
func (sc *Scene) Root() Node {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.root
}

// SetRoot replaces the root node. Change forwarding moves from the old
// root to the new one, which also takes over the scheduler, and a
// [RootChanged] event is emitted. A nil root or the current root is
// ignored.
func (sc *Scene) SetRoot(root Node) {
	if root == nil {
		return
	}
	InitNode(root, "root")
	sc.mu.Lock()
	old, oldConn := sc.root, sc.rootConn
	if old == root {
		sc.mu.Unlock()
		return
	}
	sc.root = root
	sc.mu.Unlock()
	if old != nil {
		ob := old.AsNodeBase()
		ob.Disconnect(oldConn)
		ob.mu.Lock()
		if ob.scheduler == sc.sched {
			ob.scheduler = nil
		}
		ob.mu.Unlock()
	}
	rb := root.AsNodeBase()
	rb.SetScheduler(sc.sched)
	conn := rb.OnChange(sc.forward)
	sc.mu.Lock()
	sc.rootConn = conn
	sc.mu.Unlock()
	rb.invalidateBBox(true)
	sc.emit(Event{Kind: RootChanged, Source: root})
}

// forward passes an event from the tree on to the scene handlers.
func (sc *Scene) forward(e Event) {
	sc.emit(e)
}

// OnChanged adds a function that is called for every change anywhere in
// the current tree, and when the root is replaced.
func (sc *Scene) OnChanged(fn func(e Event)) HandlerID {
	sc.handlersMu.Lock()
	defer sc.handlersMu.Unlock()
	return sc.handlers.add(fn)
}

// Disconnect removes the handler with the given id.
func (sc *Scene) Disconnect(id HandlerID) {
	sc.handlersMu.Lock()
	defer sc.handlersMu.Unlock()
	sc.handlers.remove(id)
}

// SetIgnoreChanges sets whether scene change events are suppressed,
// for bulk updates after which the caller re-renders anyway.
func (sc *Scene) SetIgnoreChanges(ignore bool) {
	sc.ignoreChanges.Store(ignore)
}

func (sc *Scene) emit(e Event) {
	if sc.ignoreChanges.Load() {
		return
	}
	sc.handlersMu.Lock()
	fns := sc.handlers.snapshot()
	sc.handlersMu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

// ActiveCamera returns the active camera, or nil if none was set.
func (sc *Scene) ActiveCamera() *Camera {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.camera
}

// SetActiveCamera makes the first camera with the given name in a
// breadth-first search of the tree the active one. The active camera
// stays unchanged if there is no such camera.
func (sc *Scene) SetActiveCamera(name string) {
	for _, c := range sc.AllCameras() {
		if c.Name() == name {
			sc.mu.Lock()
			sc.camera = c
			sc.mu.Unlock()
			return
		}
	}
}

// AllCameras returns all cameras in the tree in breadth-first order.
func (sc *Scene) AllCameras() []*Camera {
	var cams []*Camera
	for n := range BreadthFirst(sc.Root()) {
		if c, ok := n.(interface{ AsCamera() *Camera }); ok {
			cams = append(cams, c.AsCamera())
		}
	}
	return cams
}

// FindNode returns the node with the given id, or nil.
func (sc *Scene) FindNode(id uint64) Node {
	for n := range BreadthFirst(sc.Root()) {
		if n.AsNodeBase().ID() == id {
			return n
		}
	}
	return nil
}

// FindNodeByName returns the first node with the given name
// in breadth-first order, or nil.
func (sc *Scene) FindNodeByName(name string) Node {
	for n := range BreadthFirst(sc.Root()) {
		if n.AsNodeBase().Name() == name {
			return n
		}
	}
	return nil
}
