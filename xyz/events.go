// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"cogentcore.org/scene/base/ordmap"
)

// EventKind is the kind of change an [Event] reports.
type EventKind int32

const (
	// TransformChanged is emitted after the local transform of the
	// source node changed.
	TransformChanged EventKind = iota

	// ChildrenChanged is emitted after children were added to or
	// removed from the source node.
	ChildrenChanged

	// MeshChanged is emitted after the mesh of the source node was
	// replaced, or its data changed.
	MeshChanged

	// ProjectionChanged is emitted after the projection of the source
	// camera changed.
	ProjectionChanged

	// RootChanged is emitted by a [Scene] after its root was replaced.
	// The source is the new root.
	RootChanged

	// SelectionChanged is emitted by a [Selection] after a node was
	// added or removed.
	SelectionChanged
)

var eventKindNames = [...]string{"TransformChanged", "ChildrenChanged", "MeshChanged", "ProjectionChanged", "RootChanged", "SelectionChanged"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "EventKind(?)"
	}
	return eventKindNames[k]
}

// Event is a change notification. Events are emitted after the change
// has been applied, first to the handlers of the source node and then,
// in the same call, to the handlers of each of its parents in turn.
type Event struct {
	Kind EventKind

	// Source is the node that changed.
	Source Node
}

// HandlerID identifies a registered event handler.
type HandlerID uint64

// handlerList is an ordered list of event handlers.
type handlerList struct {
	fns    *ordmap.Map[HandlerID, func(e Event)]
	nextID HandlerID
}

func (h *handlerList) add(fn func(e Event)) HandlerID {
	if h.fns == nil {
		h.fns = ordmap.New[HandlerID, func(e Event)]()
	}
	h.nextID++
	h.fns.Add(h.nextID, fn)
	return h.nextID
}

func (h *handlerList) remove(id HandlerID) {
	if h.fns != nil {
		h.fns.DeleteKey(id)
	}
}

func (h *handlerList) snapshot() []func(e Event) {
	if h.fns.Len() == 0 {
		return nil
	}
	return h.fns.Values()
}

// OnChange adds a function that is called for every change of this
// node and of any of its descendants.
func (n *NodeBase) OnChange(fn func(e Event)) HandlerID {
	n.handlersMu.Lock()
	defer n.handlersMu.Unlock()
	return n.handlers.add(fn)
}

// Disconnect removes the handler with the given id.
func (n *NodeBase) Disconnect(id HandlerID) {
	n.handlersMu.Lock()
	defer n.handlersMu.Unlock()
	n.handlers.remove(id)
}

// emit calls the handlers of the node and then those of every parent.
func (n *NodeBase) emit(e Event) {
	for cur := n; cur != nil; cur = cur.parentBase() {
		cur.handlersMu.Lock()
		fns := cur.handlers.snapshot()
		cur.handlersMu.Unlock()
		for _, fn := range fns {
			fn(e)
		}
	}
}
