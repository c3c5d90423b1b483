// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// nodeDump is the YAML form of a node written by [DumpYAML].
type nodeDump struct {
	Name        string         `yaml:"name"`
	ID          uint64         `yaml:"id"`
	Type        string         `yaml:"type,omitempty"`
	Flags       string         `yaml:"flags"`
	Position    [3]float32     `yaml:"position,flow"`
	Mesh        string         `yaml:"mesh,omitempty"`
	BoundingBox *[2][3]float32 `yaml:"bbox,omitempty,flow"`
	Decorations []string       `yaml:"decorations,omitempty,flow"`
	Children    []*nodeDump    `yaml:"children,omitempty"`
}

// DumpYAML writes a YAML description of the node and its subtree to w,
// with the name, id, flags, position, mesh, last published bounding box
// and capabilities of each node. It is meant for debugging.
func DumpYAML(w io.Writer, n Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(dumpNode(n)); err != nil {
		return err
	}
	return enc.Close()
}

func dumpNode(n Node) *nodeDump {
	nb := n.AsNodeBase()
	d := &nodeDump{
		Name:  nb.Name(),
		ID:    nb.ID(),
		Flags: nb.Flags().String(),
	}
	switch t := n.(type) {
	case *Camera:
		d.Type = "camera"
	case *ToolHandle:
		d.Type = "toolhandle/" + t.Axis.String()
	}
	p := nb.Position()
	d.Position = [3]float32{p[0], p[1], p[2]}
	if ms := nb.Mesh(); ms != nil {
		d.Mesh = ms.Name
	}
	if b := nb.bbox.Load(); b != nil && !b.IsEmpty() {
		d.BoundingBox = &[2][3]float32{{b.Min[0], b.Min[1], b.Min[2]}, {b.Max[0], b.Max[1], b.Max[2]}}
	}
	for _, dec := range nb.Decorators() {
		for c := range dec.Capabilities() {
			d.Decorations = append(d.Decorations, string(c))
		}
	}
	slices.Sort(d.Decorations)
	for _, kid := range nb.Children() {
		d.Children = append(d.Children, dumpNode(kid))
	}
	return d
}
