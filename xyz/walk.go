// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import "iter"

const (
	// Continue can be returned from walk functions to continue
	// processing down the tree, as compared to Break which stops
	// this branch.
	Continue = true

	// Break can be returned from walk functions to stop processing
	// this branch of the tree.
	Break = false
)

// DepthFirst returns the node and all of its descendants in depth-first
// pre-order: each node comes before its children, and children in order.
// The children of each node are read when the node is reached.
func DepthFirst(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if n == nil {
			return
		}
		stack := []Node{n}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			kids := cur.AsNodeBase().Children()
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// BreadthFirst returns the node and all of its descendants level by level.
func BreadthFirst(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if n == nil {
			return
		}
		queue := []Node{n}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if !yield(cur) {
				return
			}
			queue = append(queue, cur.AsNodeBase().Children()...)
		}
	}
}

// PostOrder returns the descendants of the node before the node itself:
// each node comes after all of its children.
func PostOrder(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if n == nil {
			return
		}
		var walk func(cur Node) bool
		walk = func(cur Node) bool {
			for _, kid := range cur.AsNodeBase().Children() {
				if !walk(kid) {
					return false
				}
			}
			return yield(cur)
		}
		walk(n)
	}
}

// WalkDown calls fun on the node and all of its descendants in
// depth-first order. It does not descend below a node for which fun
// returns [Break].
func (n *NodeBase) WalkDown(fun func(n Node) bool) {
	var walk func(cur Node)
	walk = func(cur Node) {
		if !fun(cur) {
			return
		}
		for _, kid := range cur.AsNodeBase().Children() {
			walk(kid)
		}
	}
	walk(n.This)
}

// WalkDownPost calls shouldContinue on each node in depth-first order to
// test whether its branch is processed, and calls fun on each processed
// node after all of its children.
func (n *NodeBase) WalkDownPost(shouldContinue func(n Node) bool, fun func(n Node) bool) {
	var walk func(cur Node)
	walk = func(cur Node) {
		if !shouldContinue(cur) {
			return
		}
		for _, kid := range cur.AsNodeBase().Children() {
			walk(kid)
		}
		fun(cur)
	}
	walk(n.This)
}

// WalkDownBreadth calls fun on the node and all of its descendants in
// breadth-first order. The children of a node for which fun returns
// [Break] are skipped.
func (n *NodeBase) WalkDownBreadth(fun func(n Node) bool) {
	queue := []Node{n.This}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if fun(cur) {
			queue = append(queue, cur.AsNodeBase().Children()...)
		}
	}
}

// WalkUp calls fun on the node and all of its parents. It stops if fun
// returns [Break], and returns whether the walk finished.
func (n *NodeBase) WalkUp(fun func(n Node) bool) bool {
	for cur := n; cur != nil; cur = cur.parentBase() {
		if !fun(cur.This) {
			return false
		}
	}
	return true
}
