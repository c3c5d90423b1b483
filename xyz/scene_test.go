// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz_test

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"cogentcore.org/scene/jobs"
	"cogentcore.org/scene/math32"
	"cogentcore.org/scene/mesh"
	. "cogentcore.org/scene/xyz"
)

func TestSceneRoot(t *testing.T) {
	sc := NewScene(nil)
	require.NotNil(t, sc.Root())
	assert.Equal(t, "root", sc.Root().AsNodeBase().Name())

	var kinds []EventKind
	sc.OnChanged(func(e Event) { kinds = append(kinds, e.Kind) })

	old := sc.Root().AsNodeBase()
	NewNode(old, "kid")
	assert.Equal(t, []EventKind{ChildrenChanged}, kinds)

	newRoot := NewNode(nil, "workspace")
	sc.SetRoot(newRoot)
	assert.Equal(t, []EventKind{ChildrenChanged, RootChanged}, kinds)
	assert.Equal(t, Node(newRoot), sc.Root())

	kinds = nil
	old.Translate(mgl32.Vec3{1, 0, 0})
	assert.Empty(t, kinds)
	newRoot.Translate(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, []EventKind{TransformChanged}, kinds)

	kinds = nil
	sc.SetRoot(nil)
	sc.SetRoot(newRoot)
	assert.Empty(t, kinds)

	sc.SetIgnoreChanges(true)
	newRoot.Translate(mgl32.Vec3{1, 0, 0})
	assert.Empty(t, kinds)
}

func TestSceneScheduler(t *testing.T) {
	q := jobs.NewQueue(1)
	defer q.Close()
	sc := NewScene(q)
	root := NewNode(nil, "root")
	kid := NewNode(root, "kid")
	kid.SetMesh(mesh.NewCube("cube", 2))
	sc.SetRoot(root)
	assert.Equal(t, jobs.Scheduler(q), kid.Scheduler())
	q.Wait()
	assert.True(t, root.BoundingBox().ApproxEqual(math32.B3(0, 0, 0, 2, 2, 2), 1e-6))

	sc.SetRoot(NewNode(nil, "other"))
	assert.Nil(t, kid.Scheduler())

	own := jobs.NewQueue(1)
	defer own.Close()
	mine := NewNode(nil, "mine")
	sc.SetRoot(mine)
	assert.Equal(t, jobs.Scheduler(q), mine.Scheduler())
	mine.SetScheduler(own)
	sc.SetRoot(root)
	assert.Equal(t, jobs.Scheduler(own), mine.Scheduler())
	assert.Equal(t, jobs.Scheduler(q), kid.Scheduler())
}

func TestSceneCameras(t *testing.T) {
	sc := NewScene(nil)
	root := sc.Root()
	group := NewNode(root, "group")
	deep := NewCamera(group, "main")
	top := NewCamera(root, "main")
	side := NewCamera(root, "side")
	assert.Nil(t, sc.ActiveCamera())

	assert.Equal(t, []*Camera{top, side, deep}, sc.AllCameras())
	sc.SetActiveCamera("main")
	assert.Same(t, top, sc.ActiveCamera())
	sc.SetActiveCamera("missing")
	assert.Same(t, top, sc.ActiveCamera())
	sc.SetActiveCamera("side")
	assert.Same(t, side, sc.ActiveCamera())

	assert.Equal(t, Node(group), sc.FindNodeByName("group"))
	assert.Equal(t, Node(deep), sc.FindNode(deep.ID()))
	assert.Nil(t, sc.FindNode(0))
	assert.Nil(t, sc.FindNodeByName("nope"))
}

func TestDumpYAML(t *testing.T) {
	root := NewNode(nil, "root")
	a := NewNode(root, "a")
	a.SetMesh(mesh.NewCube("cube", 1))
	a.SetPosition(mgl32.Vec3{1, 2, 3})
	a.AddDecorator(&GroupDecorator{})
	NewToolHandle(root, "tx", XAxis)
	root.BoundingBox()

	var buf bytes.Buffer
	require.NoError(t, DumpYAML(&buf, root))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "root", doc["name"])
	kids := doc["children"].([]any)
	require.Len(t, kids, 2)
	ka := kids[0].(map[string]any)
	assert.Equal(t, "a", ka["name"])
	assert.Equal(t, "cube", ka["mesh"])
	assert.Equal(t, []any{1, 2, 3}, ka["position"])
	assert.Equal(t, []any{"isGroup"}, ka["decorations"])
	assert.Equal(t, "toolhandle/x", kids[1].(map[string]any)["type"])
}
