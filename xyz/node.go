// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"cogentcore.org/scene/jobs"
	"cogentcore.org/scene/math32"
	"cogentcore.org/scene/mesh"
)

// Node is the interface that all scene graph nodes satisfy.
// Every node type embeds [NodeBase], which implements it.
type Node interface {
	// AsNodeBase returns the embedded [NodeBase].
	AsNodeBase() *NodeBase

	// OnAdd is called after the node has been added to a parent.
	OnAdd()

	// CopyFieldsFrom copies the type-specific fields of the given node,
	// which has the same type, for [NodeBase.Clone].
	CopyFieldsFrom(from Node)
}

// Flags are the state flags of a node.
type Flags int64

const (
	// Enabled nodes accept transform changes and can be selected.
	Enabled Flags = 1 << iota

	// Visible nodes are drawn if all of their parents are visible too.
	Visible

	// Selectable nodes are drawn into the picking buffer.
	Selectable
)

// Has returns whether the flags contain all of the given flag.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// String returns the names of the set flags separated by "|".
func (f Flags) String() string {
	var s []string
	if f.Has(Enabled) {
		s = append(s, "enabled")
	}
	if f.Has(Visible) {
		s = append(s, "visible")
	}
	if f.Has(Selectable) {
		s = append(s, "selectable")
	}
	return strings.Join(s, "|")
}

var lastNodeID atomic.Uint64

// NodeBase implements the [Node] interface and provides the core
// scene graph functionality: the parent and children links, the local
// transform, the mesh reference, flags, decorators, change events and
// the asynchronously computed bounding box.
//
// All nodes must be initialized with [InitNode], which the constructors
// and [NodeBase.AddChild] do. The fields read by bounding box jobs are
// guarded by a per-node lock; everything else is owned by the thread
// that mutates the scene graph.
type NodeBase struct {

	// This is the value of this Node as its true underlying type.
	// It allows methods defined on NodeBase to refer to the full node.
	This Node `copier:"-" yaml:"-"`

	id uint64

	mu         sync.RWMutex
	name       string
	parent     Node
	children   []Node
	local      mgl32.Mat4
	flags      Flags
	mesh       *mesh.Mesh
	meshConn   int
	decorators []Decorator

	handlersMu sync.Mutex
	handlers   handlerList

	// scheduler runs bounding box jobs for this node and every
	// descendant that does not have its own.
	scheduler jobs.Scheduler

	bbox     atomic.Pointer[math32.Box3]
	bboxGen  atomic.Uint64
	bboxMu   sync.Mutex
	bboxTask *jobs.Task
}

// InitNode initializes the given node with the given name, keeping any
// existing name if the given one is empty. It is a no-op for a node
// that is already initialized.
func InitNode(this Node, name string) {
	n := this.AsNodeBase()
	if n.This != nil {
		return
	}
	n.This = this
	n.id = lastNodeID.Add(1)
	if name != "" {
		n.name = name
	}
	n.local = mgl32.Ident4()
	n.flags = Enabled | Visible
}

// NewNode returns a new plain node with the given name, added to
// the given parent if it is non-nil.
func NewNode(parent Node, name string) *NodeBase {
	n := &NodeBase{}
	InitNode(n, name)
	if parent != nil {
		parent.AsNodeBase().AddChild(n)
	}
	return n
}

// AsNodeBase returns the node itself.
func (n *NodeBase) AsNodeBase() *NodeBase {
	return n
}

// OnAdd is a placeholder implementation of [Node.OnAdd]
// that does nothing.
func (n *NodeBase) OnAdd() {}

// String returns the path of the node.
func (n *NodeBase) String() string {
	if n == nil || n.This == nil {
		return "nil"
	}
	return n.Path()
}

// ID returns the process-unique id of the node, assigned by [InitNode].
func (n *NodeBase) ID() uint64 {
	return n.id
}

// Name returns the display name of the node.
func (n *NodeBase) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

// SetName sets the display name of the node.
func (n *NodeBase) SetName(name string) {
	n.mu.Lock()
	n.name = name
	n.mu.Unlock()
}

// Path returns the names of the node and all of its parents,
// starting from the root and separated by "/".
func (n *NodeBase) Path() string {
	var names []string
	for cur := n; cur != nil; cur = cur.parentBase() {
		names = append(names, cur.Name())
	}
	slices.Reverse(names)
	return "/" + strings.Join(names, "/")
}

////////  Tree

// Parent returns the parent of the node, or nil for a root.
func (n *NodeBase) Parent() Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.parent
}

func (n *NodeBase) parentBase() *NodeBase {
	p := n.Parent()
	if p == nil {
		return nil
	}
	return p.AsNodeBase()
}

// Root returns the topmost parent of the node, which is the node
// itself if it has no parent.
func (n *NodeBase) Root() Node {
	cur := n
	for p := cur.parentBase(); p != nil; p = cur.parentBase() {
		cur = p
	}
	return cur.This
}

// Children returns a copy of the list of children.
func (n *NodeBase) Children() []Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.children)
}

// NumChildren returns the number of children.
func (n *NodeBase) NumChildren() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.children)
}

// Child returns the child at the given index, or nil if out of range.
func (n *NodeBase) Child(i int) Node {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// HasChild returns whether the given node is a direct child.
func (n *NodeBase) HasChild(kid Node) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Contains(n.children, kid)
}

// AllChildren returns all of the descendants of the node
// in depth-first order, not including the node itself.
func (n *NodeBase) AllChildren() []Node {
	var all []Node
	for d := range DepthFirst(n.This) {
		if d != n.This {
			all = append(all, d)
		}
	}
	return all
}

// AddChild adds the given node at the end of the children. If the node
// has another parent, it is removed from there first. Adding a node that
// is already a child does nothing. Adding the node itself or one of its
// parents panics, since that would create a cycle.
func (n *NodeBase) AddChild(kid Node) {
	if kid == nil {
		return
	}
	kb := kid.AsNodeBase()
	InitNode(kid, "")
	for cur := n; cur != nil; cur = cur.parentBase() {
		if cur == kb {
			panic(fmt.Sprintf("xyz.NodeBase.AddChild: adding %s to %s would create a cycle", kb.Path(), n.Path()))
		}
	}
	if n.HasChild(kid) {
		kb.mu.Lock()
		kb.parent = n.This
		kb.mu.Unlock()
		return
	}
	if old := kb.parentBase(); old != nil {
		old.RemoveChild(kid)
	}
	n.mu.Lock()
	n.children = append(n.children, kid)
	n.mu.Unlock()
	kb.mu.Lock()
	kb.parent = n.This
	kb.mu.Unlock()
	kid.OnAdd()

	kb.invalidateBBox(true)
	n.emit(Event{Kind: ChildrenChanged, Source: n.This})
}

// RemoveChild removes the given child, which keeps its own children.
// It does nothing if the node is not a child.
func (n *NodeBase) RemoveChild(kid Node) {
	if kid == nil {
		return
	}
	n.mu.Lock()
	idx := slices.Index(n.children, kid)
	if idx < 0 {
		n.mu.Unlock()
		return
	}
	n.children = slices.Delete(n.children, idx, idx+1)
	n.mu.Unlock()
	kb := kid.AsNodeBase()
	kb.mu.Lock()
	kb.parent = nil
	kb.mu.Unlock()

	kb.invalidateBBox(true)
	n.invalidateBBox(false)
	n.emit(Event{Kind: ChildrenChanged, Source: n.This})
}

// RemoveAllChildren empties the whole subtree below the node, removing
// the children of each child before the child itself. It emits a single
// [ChildrenChanged] event.
func (n *NodeBase) RemoveAllChildren() {
	if n.NumChildren() == 0 {
		return
	}
	n.removeAllChildren()
	n.invalidateBBox(false)
	n.emit(Event{Kind: ChildrenChanged, Source: n.This})
}

func (n *NodeBase) removeAllChildren() {
	for _, kid := range n.Children() {
		kb := kid.AsNodeBase()
		kb.removeAllChildren()
		kb.mu.Lock()
		kb.parent = nil
		kb.mu.Unlock()
		kb.invalidateBBox(false)
	}
	n.mu.Lock()
	n.children = nil
	n.mu.Unlock()
}

// SetParent removes the node from its current parent, if any, and adds
// it to the given parent. A nil parent leaves the node detached.
func (n *NodeBase) SetParent(parent Node) {
	if parent == nil {
		if old := n.parentBase(); old != nil {
			old.RemoveChild(n.This)
		}
		return
	}
	parent.AsNodeBase().AddChild(n.This)
}

// Destroy detaches the node from its parent and tears it down along with
// its whole subtree: decorators are cleared, mesh change forwarding is
// disconnected, and pending bounding box jobs are canceled.
func (n *NodeBase) Destroy() {
	n.SetParent(nil)
	n.destroy()
}

func (n *NodeBase) destroy() {
	for _, kid := range n.Children() {
		kid.AsNodeBase().destroy()
	}
	n.RemoveDecorators()
	n.mu.Lock()
	n.children = nil
	n.parent = nil
	ms, conn := n.mesh, n.meshConn
	n.mesh = nil
	n.mu.Unlock()
	if ms != nil {
		ms.Disconnect(conn)
	}
	n.bboxMu.Lock()
	task := n.bboxTask
	n.bboxTask = nil
	n.bboxMu.Unlock()
	if task != nil {
		task.Cancel()
	}
}

////////  Flags

// Flags returns the state flags of the node.
func (n *NodeBase) Flags() Flags {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.flags
}

func (n *NodeBase) setFlag(on bool, flag Flags) {
	n.mu.Lock()
	if on {
		n.flags |= flag
	} else {
		n.flags &^= flag
	}
	n.mu.Unlock()
}

// IsEnabled returns whether the node is enabled.
func (n *NodeBase) IsEnabled() bool {
	return n.Flags().Has(Enabled)
}

// SetEnabled sets whether the node is enabled. Transform changes
// to a disabled node are ignored.
func (n *NodeBase) SetEnabled(on bool) {
	n.setFlag(on, Enabled)
}

// SetVisible sets the visible flag of the node itself.
func (n *NodeBase) SetVisible(on bool) {
	n.setFlag(on, Visible)
}

// IsVisible returns whether the node and all of its parents are visible.
func (n *NodeBase) IsVisible() bool {
	for cur := n; cur != nil; cur = cur.parentBase() {
		if !cur.Flags().Has(Visible) {
			return false
		}
	}
	return true
}

// SetSelectable sets the selectable flag of the node.
func (n *NodeBase) SetSelectable(on bool) {
	n.setFlag(on, Selectable)
}

// IsSelectable returns whether the node is both enabled and selectable.
func (n *NodeBase) IsSelectable() bool {
	return n.Flags().Has(Enabled | Selectable)
}

////////  Mesh

// Mesh returns the mesh of the node, which may be nil.
func (n *NodeBase) Mesh() *mesh.Mesh {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.mesh
}

// SetMesh replaces the mesh of the node, moving the forwarding of mesh
// data changes from the old mesh to the new one. The mesh is shared
// and may be referenced by other nodes.
func (n *NodeBase) SetMesh(ms *mesh.Mesh) {
	n.mu.Lock()
	old, oldConn := n.mesh, n.meshConn
	if old == ms {
		n.mu.Unlock()
		return
	}
	n.mesh = ms
	n.meshConn = 0
	n.mu.Unlock()
	if old != nil {
		old.Disconnect(oldConn)
	}
	if ms != nil {
		conn := ms.OnChanged(func(*mesh.Mesh) { n.meshDataChanged() })
		n.mu.Lock()
		n.meshConn = conn
		n.mu.Unlock()
	}
	n.meshDataChanged()
}

func (n *NodeBase) meshDataChanged() {
	n.invalidateBBox(false)
	n.emit(Event{Kind: MeshChanged, Source: n.This})
}
