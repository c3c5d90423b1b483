// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"log/slog"
	"reflect"
	"slices"
)

// Capability names a behavior that a [Decorator] can provide.
type Capability string

// Handler is the function a decorator provides for a [Capability].
type Handler func(args ...any) any

// Decorator is an extension object attached to at most one node at a
// time. Its behaviors are looked up by capability name, so that callers
// can ask whether any attached decorator handles something without
// knowing its type. A node has at most one decorator of each concrete
// type.
//
// Clear is the mandatory teardown, called when the decorator is removed
// from its node or the node is destroyed. [DecoratorBase] deliberately
// does not implement it.
type Decorator interface {
	// SetNode sets the node the decorator is attached to.
	SetNode(n Node)

	// Node returns the node the decorator is attached to, or nil.
	Node() Node

	// Capabilities returns the handlers of the decorator by capability.
	Capabilities() map[Capability]Handler

	// Clear releases everything the decorator holds.
	Clear()
}

// DecoratorBase provides the node link of a [Decorator].
// Decorator types embed it.
type DecoratorBase struct {
	node Node
}

func (d *DecoratorBase) SetNode(n Node) { d.node = n }

func (d *DecoratorBase) Node() Node { return d.node }

// AddDecorator attaches the decorator to the node. It does nothing if
// the node already has a decorator of the same concrete type.
func (n *NodeBase) AddDecorator(d Decorator) {
	if d == nil {
		return
	}
	typ := reflect.TypeOf(d)
	n.mu.Lock()
	for _, cur := range n.decorators {
		if reflect.TypeOf(cur) == typ {
			n.mu.Unlock()
			return
		}
	}
	n.decorators = append(n.decorators, d)
	n.mu.Unlock()
	d.SetNode(n.This)
}

// Decorators returns a copy of the list of decorators.
func (n *NodeBase) Decorators() []Decorator {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.decorators)
}

// DecoratorByType returns the decorator with the given concrete type,
// or nil if there is none.
func (n *NodeBase) DecoratorByType(typ reflect.Type) Decorator {
	for _, d := range n.Decorators() {
		if reflect.TypeOf(d) == typ {
			return d
		}
	}
	return nil
}

// DecoratorOf returns the decorator of type T of the given node.
func DecoratorOf[T Decorator](n Node) (T, bool) {
	for _, d := range n.AsNodeBase().Decorators() {
		if t, ok := d.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// RemoveDecorator removes the decorator with the given concrete type,
// calling its Clear teardown. It returns false if there is none.
func (n *NodeBase) RemoveDecorator(typ reflect.Type) bool {
	n.mu.Lock()
	idx := slices.IndexFunc(n.decorators, func(d Decorator) bool { return reflect.TypeOf(d) == typ })
	if idx < 0 {
		n.mu.Unlock()
		return false
	}
	d := n.decorators[idx]
	n.decorators = slices.Delete(n.decorators, idx, idx+1)
	n.mu.Unlock()
	d.Clear()
	d.SetNode(nil)
	return true
}

// RemoveDecoratorOf removes the decorator of type T from the given node.
func RemoveDecoratorOf[T Decorator](n Node) bool {
	return n.AsNodeBase().RemoveDecorator(reflect.TypeFor[T]())
}

// RemoveDecorators removes all decorators, calling their Clear teardown.
func (n *NodeBase) RemoveDecorators() {
	n.mu.Lock()
	ds := n.decorators
	n.decorators = nil
	n.mu.Unlock()
	for _, d := range ds {
		d.Clear()
		d.SetNode(nil)
	}
}

// HasDecoration returns whether any decorator provides the capability.
func (n *NodeBase) HasDecoration(c Capability) bool {
	for _, d := range n.Decorators() {
		if _, ok := d.Capabilities()[c]; ok {
			return true
		}
	}
	return false
}

// CallDecoration calls the handler of the first decorator providing the
// capability. It returns false if no decorator provides it, which is a
// normal way to ask whether anything handles the capability. A panic in
// the handler is logged and reported as a nil result.
func (n *NodeBase) CallDecoration(c Capability, args ...any) (any, bool) {
	for _, d := range n.Decorators() {
		if h, ok := d.Capabilities()[c]; ok {
			return callHandler(n, c, h, args), true
		}
	}
	return nil, false
}

// CallDecorationAll calls the handlers of every decorator providing
// the capability, in the order the decorators were added.
func (n *NodeBase) CallDecorationAll(c Capability, args ...any) []any {
	var res []any
	for _, d := range n.Decorators() {
		if h, ok := d.Capabilities()[c]; ok {
			res = append(res, callHandler(n, c, h, args))
		}
	}
	return res
}

func callHandler(n *NodeBase, c Capability, h Handler, args []any) (res any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("xyz: decoration handler panicked", "node", n.Path(), "capability", c, "panic", r)
			res = nil
		}
	}()
	return h(args...)
}
