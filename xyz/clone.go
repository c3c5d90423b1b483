// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"log/slog"
	"reflect"

	"github.com/jinzhu/copier"
)

// Clone returns a detached deep copy of the node and its subtree, with
// new ids. The local transforms, flags and names are copied, meshes are
// shared, decorators are copied into new instances of the same types,
// and event handlers are not copied.
func (n *NodeBase) Clone() Node {
	nc := reflect.New(reflect.TypeOf(n.This).Elem()).Interface().(Node)
	InitNode(nc, n.Name())
	nc.CopyFieldsFrom(n.This)

	cb := nc.AsNodeBase()
	n.mu.RLock()
	cb.local = n.local
	cb.flags = n.flags
	ms := n.mesh
	n.mu.RUnlock()
	if ms != nil {
		cb.SetMesh(ms)
	}
	for _, d := range n.Decorators() {
		dc := reflect.New(reflect.TypeOf(d).Elem()).Interface().(Decorator)
		if err := copier.CopyWithOption(dc, d, copier.Option{DeepCopy: true}); err != nil {
			slog.Error("xyz.NodeBase.Clone: copying decorator", "node", n.Path(), "err", err)
			continue
		}
		cb.AddDecorator(dc)
	}
	for _, kid := range n.Children() {
		cb.AddChild(kid.AsNodeBase().Clone())
	}
	return nc
}

// CopyFieldsFrom deep copies the exported fields that the concrete type
// of the given node adds to [NodeBase]. The NodeBase itself, with the id,
// the tree links, the decorators and the handlers, is left unchanged.
// Node types with unexported state define their own CopyFieldsFrom that
// calls this one first.
func (n *NodeBase) CopyFieldsFrom(from Node) {
	dst := reflect.ValueOf(n.This).Elem()
	src := reflect.ValueOf(from.AsNodeBase().This).Elem()
	if dst.Type() != src.Type() {
		slog.Error("xyz.NodeBase.CopyFieldsFrom: different node types", "to", dst.Type(), "from", src.Type())
		return
	}
	copyNodeFields(dst, src)
}

var (
	nodeBaseType = reflect.TypeFor[NodeBase]()
	nodeType     = reflect.TypeFor[Node]()
)

// copyNodeFields copies the exported fields of the node struct src to dst,
// descending into embedded node types and skipping the embedded NodeBase.
func copyNodeFields(dst, src reflect.Value) {
	typ := dst.Type()
	for i := range typ.NumField() {
		f := typ.Field(i)
		switch {
		case !f.IsExported() || f.Tag.Get("copier") == "-" || f.Type == nodeBaseType:
			continue
		case f.Anonymous && f.Type.Kind() == reflect.Struct && reflect.PointerTo(f.Type).Implements(nodeType):
			copyNodeFields(dst.Field(i), src.Field(i))
			continue
		}
		err := copier.CopyWithOption(dst.Field(i).Addr().Interface(), src.Field(i).Addr().Interface(), copier.Option{DeepCopy: true})
		if err != nil {
			slog.Error("xyz.NodeBase.CopyFieldsFrom", "field", f.Name, "err", err)
		}
	}
}
