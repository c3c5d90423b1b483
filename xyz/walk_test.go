// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"

	. "cogentcore.org/scene/xyz"
)

// testTree returns the tree
//
//	r
//	├── a
//	│   ├── a1
//	│   └── a2
//	└── b
//	    └── b1
func testTree() *NodeBase {
	r := NewNode(nil, "r")
	a := NewNode(r, "a")
	NewNode(a, "a1")
	NewNode(a, "a2")
	b := NewNode(r, "b")
	NewNode(b, "b1")
	return r
}

func names(seq iter.Seq[Node]) []string {
	var res []string
	for n := range seq {
		res = append(res, n.AsNodeBase().Name())
	}
	return res
}

func TestIterators(t *testing.T) {
	r := testTree()
	assert.Equal(t, []string{"r", "a", "a1", "a2", "b", "b1"}, names(DepthFirst(r)))
	assert.Equal(t, []string{"r", "a", "b", "a1", "a2", "b1"}, names(BreadthFirst(r)))
	assert.Equal(t, []string{"a1", "a2", "a", "b1", "b", "r"}, names(PostOrder(r)))
	assert.Empty(t, names(DepthFirst(nil)))

	var first []string
	for n := range DepthFirst(r) {
		first = append(first, n.AsNodeBase().Name())
		if len(first) == 3 {
			break
		}
	}
	assert.Equal(t, []string{"r", "a", "a1"}, first)
}

func TestWalkFuncs(t *testing.T) {
	r := testTree()
	var got []string
	r.WalkDown(func(n Node) bool {
		got = append(got, n.AsNodeBase().Name())
		return n.AsNodeBase().Name() != "a"
	})
	assert.Equal(t, []string{"r", "a", "b", "b1"}, got)

	got = nil
	r.WalkDownPost(func(n Node) bool { return n.AsNodeBase().Name() != "b" }, func(n Node) bool {
		got = append(got, n.AsNodeBase().Name())
		return Continue
	})
	assert.Equal(t, []string{"a1", "a2", "a", "r"}, got)

	got = nil
	r.WalkDownBreadth(func(n Node) bool {
		got = append(got, n.AsNodeBase().Name())
		return Continue
	})
	assert.Equal(t, []string{"r", "a", "b", "a1", "a2", "b1"}, got)

	a2 := r.Child(0).AsNodeBase().Child(1).AsNodeBase()
	got = nil
	done := a2.WalkUp(func(n Node) bool {
		got = append(got, n.AsNodeBase().Name())
		return n.AsNodeBase().Name() != "a"
	})
	assert.False(t, done)
	assert.Equal(t, []string{"a2", "a"}, got)
}
