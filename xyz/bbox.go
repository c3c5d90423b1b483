// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"context"
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/jobs"
	"cogentcore.org/scene/math32"
)

// SetScheduler sets the scheduler that runs the bounding box jobs of the
// node and of all descendants without their own scheduler. Without any
// scheduler, bounding boxes are computed immediately on the calling
// goroutine.
func (n *NodeBase) SetScheduler(s jobs.Scheduler) {
	n.mu.Lock()
	n.scheduler = s
	n.mu.Unlock()
}

// Scheduler returns the scheduler for the bounding box jobs of the node,
// which is the closest one set on the node or one of its parents.
func (n *NodeBase) Scheduler() jobs.Scheduler {
	for cur := n; cur != nil; cur = cur.parentBase() {
		cur.mu.RLock()
		s := cur.scheduler
		cur.mu.RUnlock()
		if s != nil {
			return s
		}
	}
	return nil
}

// BoundingBox returns the last published world space bounding box of the
// node and all of its descendants. It never blocks: while no box has been
// published yet it returns an empty box.
func (n *NodeBase) BoundingBox() math32.Box3 {
	if b := n.bbox.Load(); b != nil {
		return *b
	}
	if n.bboxGen.Load() == 0 {
		n.scheduleBBox()
		if b := n.bbox.Load(); b != nil {
			return *b
		}
	}
	return math32.B3Empty()
}

// BoundingBoxPending returns whether a bounding box job for the node
// is queued or running.
func (n *NodeBase) BoundingBoxPending() bool {
	n.bboxMu.Lock()
	defer n.bboxMu.Unlock()
	return n.bboxTask != nil && !n.bboxTask.Finished()
}

// invalidateBBox schedules new bounding box jobs for the node, for all
// of its descendants if subtree is set, and for all of its parents.
func (n *NodeBase) invalidateBBox(subtree bool) {
	if subtree {
		for d := range DepthFirst(n.This) {
			d.AsNodeBase().scheduleBBox()
		}
	} else {
		n.scheduleBBox()
	}
	for p := n.parentBase(); p != nil; p = p.parentBase() {
		p.scheduleBBox()
	}
}

// scheduleBBox starts a new generation of the bounding box of the node,
// cancels the job of the previous generation and submits a new job.
// Only the job of the latest generation can publish its result.
func (n *NodeBase) scheduleBBox() {
	sched := n.Scheduler()

	n.bboxMu.Lock()
	gen := n.bboxGen.Add(1)
	old := n.bboxTask
	n.bboxTask = nil
	var task *jobs.Task
	if sched != nil {
		task = jobs.NewTask("xyz.bbox "+n.Name(), func(ctx context.Context) (any, error) {
			return n.computeBBox(ctx)
		})
		task.OnFinished(func(t *jobs.Task) {
			res, err := t.Result()
			if err == nil {
				n.publishBBox(gen, res.(math32.Box3))
			}
			n.bboxMu.Lock()
			if n.bboxTask == t {
				n.bboxTask = nil
			}
			n.bboxMu.Unlock()
		})
		n.bboxTask = task
	}
	n.bboxMu.Unlock()

	if old != nil && !old.Finished() {
		old.Cancel()
		slog.Debug("xyz: canceled bounding box job", "node", n.Name(), "generation", gen-1)
	}
	if task != nil {
		err := sched.Add(task)
		if err == nil {
			return
		}
		slog.Debug("xyz: computing bounding box inline", "node", n.Name(), "err", err)
		n.bboxMu.Lock()
		if n.bboxTask == task {
			n.bboxTask = nil
		}
		n.bboxMu.Unlock()
	}
	if box, err := n.computeBBox(context.Background()); err == nil {
		n.publishBBox(gen, box)
	}
}

// publishBBox stores the box if gen is still the latest generation.
func (n *NodeBase) publishBBox(gen uint64, box math32.Box3) {
	n.bboxMu.Lock()
	defer n.bboxMu.Unlock()
	if gen != n.bboxGen.Load() {
		return
	}
	n.bbox.Store(&box)
}

// computeBBox returns the union of the world space mesh extents of the
// node and all of its descendants, walking the live subtree. It stops
// early with the context error if ctx is canceled.
func (n *NodeBase) computeBBox(ctx context.Context) (math32.Box3, error) {
	box := math32.B3Empty()
	var parent mgl32.Mat4
	if p := n.parentBase(); p != nil {
		parent = p.GlobalTransform()
	} else {
		parent = mgl32.Ident4()
	}
	var walk func(nb *NodeBase, parent mgl32.Mat4) error
	walk = func(nb *NodeBase, parent mgl32.Mat4) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		nb.mu.RLock()
		global := parent.Mul4(nb.local)
		ms := nb.mesh
		kids := slices.Clone(nb.children)
		nb.mu.RUnlock()
		if ms != nil {
			box.ExpandByBox(ms.Extents(global))
		}
		for _, kid := range kids {
			if err := walk(kid.AsNodeBase(), global); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(n, parent); err != nil {
		return math32.B3Empty(), err
	}
	return box, nil
}
