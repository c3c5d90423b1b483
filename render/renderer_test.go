// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cogentcore.org/scene/base/randx"
	"cogentcore.org/scene/gpu"
	"cogentcore.org/scene/math32"
	"cogentcore.org/scene/mesh"
	"cogentcore.org/scene/xyz"
)

var background = color.NRGBA{10, 20, 30, 255}

type testScene struct {
	sc      *xyz.Scene
	cam     *xyz.Camera
	a, b, c *xyz.NodeBase
}

// newTestScene returns a scene with three unit cubes in a row along X,
// centered on x = -2, 0 and 2, seen from a camera at z = 10.
func newTestScene() *testScene {
	ts := &testScene{sc: xyz.NewScene(nil)}
	root := ts.sc.Root()
	ts.cam = xyz.NewCamera(root, "cam")
	ts.cam.SetPosition(mgl32.Vec3{0, 0, 10})
	ts.cam.LookAt(mgl32.Vec3{}, math32.Vec3Y)
	ts.sc.SetActiveCamera("cam")
	cube := mesh.NewCube("cube", 1)
	add := func(name string, x float32) *xyz.NodeBase {
		n := xyz.NewNode(root, name)
		n.SetMesh(cube)
		n.SetPosition(mgl32.Vec3{x - 0.5, -0.5, -0.5})
		n.SetSelectable(true)
		return n
	}
	ts.a, ts.b, ts.c = add("a", -2), add("b", 0), add("c", 2)
	return ts
}

// front returns the normalized device coordinates of a point on the
// front face of the cube centered at x, a little off its diagonal.
func (ts *testScene) front(x float32) (float32, float32) {
	p := ts.cam.Project(mgl32.Vec3{x + 0.1, -0.2, 0.5})
	return p.X(), p.Y()
}

func newTestRenderer(ts *testScene, sel *xyz.Selection) *Renderer {
	return NewRenderer(gpu.NewSoftDevice(), ts.sc, Options{
		Width:        64,
		Height:       48,
		Background:   background,
		Selection:    sel,
		Rand:         randx.NewSysRand(1),
		OutlineColor: color.NRGBA{255, 0, 255, 255},
		OutlineWidth: 2,
	})
}

func renderFrame(t *testing.T, r *Renderer, opts ...BatchOption) {
	r.BeginRendering()
	r.QueueScene(opts...)
	require.NoError(t, r.Render())
	r.EndRendering()
}

func TestBuiltinPasses(t *testing.T) {
	r := newTestRenderer(newTestScene(), nil)
	var names []string
	for _, p := range r.RenderPasses() {
		names = append(names, p.AsPassBase().Name())
	}
	assert.Equal(t, []string{DefaultPassName, SelectionPassName, CompositePassName}, names)

	custom := &DefaultPass{}
	custom.InitPass(r, "custom", 20)
	require.NoError(t, r.AddRenderPass(custom))
	assert.Equal(t, "custom", r.RenderPasses()[2].AsPassBase().Name())
	assert.Same(t, custom, r.RenderPass("custom"))

	dup := &DefaultPass{}
	dup.InitPass(r, "custom", 30)
	assert.ErrorIs(t, r.AddRenderPass(dup), ErrPassExists)

	top := &DefaultPass{}
	top.InitPass(r, "top", math.MaxInt32)
	assert.ErrorIs(t, r.AddRenderPass(top), ErrCompositePriority)

	assert.True(t, r.RemoveRenderPass("custom"))
	assert.False(t, r.RemoveRenderPass("custom"))
	assert.Nil(t, r.RenderPass("custom"))
}

func TestQueueNodeBatches(t *testing.T) {
	ts := newTestScene()
	r := newTestRenderer(ts, nil)
	r.BeginRendering()
	r.QueueNode(ts.a, WithType(Transparent))
	r.QueueNode(ts.b)
	r.QueueNode(ts.c)
	r.QueueNode(ts.cam)
	require.Len(t, r.Batches(), 2)
	require.NoError(t, r.Render())

	bs := r.Batches()
	assert.Equal(t, Solid, bs[0].Type())
	assert.Len(t, bs[0].Items(), 2)
	assert.Equal(t, Transparent, bs[1].Type())
	assert.Equal(t, gpu.AlphaBlend, bs[1].State().Blend)
	assert.False(t, bs[1].State().DepthWrite)

	r.EndRendering()
	assert.Empty(t, r.Batches())
}

func TestSortBatches(t *testing.T) {
	ms := mesh.NewCube("cube", 1)
	near := NewBatch(nil, WithType(Transparent))
	near.AddItem(math32.Translation(mgl32.Vec3{0, 0, 5}), ms, nil, nil)
	far := NewBatch(nil, WithType(Transparent))
	far.AddItem(math32.Translation(mgl32.Vec3{0, 0, -5}), ms, nil, nil)
	overlay := NewBatch(nil, WithType(Overlay))
	late := NewBatch(nil, WithSort(2))
	early := NewBatch(nil, WithSort(1))

	bs := []*Batch{overlay, near, late, far, early}
	SortBatches(bs, mgl32.Vec3{0, 0, 10})
	assert.Equal(t, []*Batch{early, late, far, near, overlay}, bs)
	assert.True(t, early.Less(near))
	assert.False(t, overlay.Less(near))
}

type panicPass struct {
	PassBase
	renders int
}

func (p *panicPass) Render() {
	p.MustBeBound()
	p.renders++
	panic("plugin failure")
}

func TestPassStates(t *testing.T) {
	r := newTestRenderer(newTestScene(), nil)
	p := &panicPass{}
	p.InitPass(r, "panic", 5)
	assert.Equal(t, Unbound, p.State())
	assert.True(t, p.Output().Bounds().Empty())
	assert.Panics(t, func() { p.Render() })

	p.Release()
	assert.Equal(t, Unbound, p.State())

	require.NoError(t, r.AddRenderPass(p))
	r.BeginRendering()
	require.NoError(t, r.Render())
	assert.Equal(t, 1, p.renders)
	assert.Equal(t, Released, p.State())
	assert.Equal(t, 64, p.Output().Bounds().Dx())

	r.BeginRendering()
	assert.Equal(t, Unbound, p.State())
	r.SetViewportSize(32, 16)
	require.NoError(t, r.Render())
	assert.Equal(t, 2, p.renders)
	assert.Equal(t, 32, p.Output().Bounds().Dx())
	assert.Equal(t, 16, r.Output().Bounds().Dy())
}

type bindPanicPass struct {
	PassBase
}

func (p *bindPanicPass) Bind() error {
	panic("bind failure")
}

func (p *bindPanicPass) Render() {}

func TestPassWithoutRenderer(t *testing.T) {
	orphan := &DefaultPass{}
	orphan.InitPass(nil, "orphan", 20)
	assert.ErrorIs(t, orphan.Bind(), ErrNoDevice)
	assert.Equal(t, Unbound, orphan.State())

	ts := newTestScene()
	r := newTestRenderer(ts, nil)
	require.NoError(t, r.AddRenderPass(orphan))
	assert.Same(t, r, orphan.Renderer())
	assert.Equal(t, image.Pt(64, 48), orphan.Size())

	broken := &bindPanicPass{}
	broken.InitPass(nil, "broken", 15)
	require.NoError(t, r.AddRenderPass(broken))

	r.BeginRendering()
	r.QueueScene()
	require.NotPanics(t, func() { assert.NoError(t, r.Render()) })
	r.EndRendering()
	assert.Equal(t, Released, orphan.State())
	assert.Equal(t, 64, orphan.Output().Bounds().Dx())
	assert.Equal(t, Unbound, broken.State())
	assert.Equal(t, Released, r.RenderPass(CompositePassName).AsPassBase().State())
	assert.Equal(t, 64, r.Output().Bounds().Dx())
}

func TestTargetTooLarge(t *testing.T) {
	dev := gpu.NewSoftDevice()
	dev.MaxTargetSize = 32
	r := NewRenderer(dev, newTestScene().sc, Options{Width: 64, Height: 48})
	r.BeginRendering()
	err := r.Render()
	assert.ErrorIs(t, err, gpu.ErrTargetTooLarge)
	for _, p := range r.RenderPasses() {
		assert.Equal(t, Unbound, p.AsPassBase().State())
	}
}

func TestDefaultPass(t *testing.T) {
	ts := newTestScene()
	r := newTestRenderer(ts, nil)
	renderFrame(t, r)
	out := r.RenderPass(DefaultPassName).Output()
	assert.Equal(t, background, out.NRGBAAt(0, 0))
	assert.NotEqual(t, background, out.NRGBAAt(32, 24))

	// an overlay behind a cube is still drawn on top
	th := xyz.NewToolHandle(ts.sc.Root(), "handle", xyz.XAxis)
	th.SetMesh(mesh.NewCube("handle", 1))
	th.SetPosition(mgl32.Vec3{-0.5, -0.5, -3})
	flat := gpu.NewShader("flat", func(f *gpu.Fragment) (color.NRGBA, bool) {
		return color.NRGBA{0, 255, 0, 255}, true
	})
	r.BeginRendering()
	r.QueueNode(ts.b)
	r.QueueNode(th, WithType(Overlay), WithShader(flat))
	require.NoError(t, r.Render())
	out = r.RenderPass(DefaultPassName).Output()
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, out.NRGBAAt(32, 24))
}

func TestObjectPicking(t *testing.T) {
	ts := newTestScene()
	sel := &xyz.Selection{}
	sel.Add(ts.b)
	r := newTestRenderer(ts, sel)
	renderFrame(t, r)
	sp := r.RenderPass(SelectionPassName).(*SelectionPass)

	for _, n := range []*xyz.NodeBase{ts.a, ts.b, ts.c} {
		x, y := ts.front(n.WorldPosition().X() + 0.5)
		id, ok := sp.IDAtPosition(x, y)
		assert.True(t, ok, n.Name())
		assert.Equal(t, n.ID(), id, n.Name())
	}
	assert.Len(t, sp.SelectionMap(), 3)

	_, ok := sp.IDAtPosition(0, 0.9)
	assert.False(t, ok)
	_, ok = sp.IDAtPosition(1.5, 0)
	assert.False(t, ok)
	_, ok = sp.IDAtPosition(-1.01, 0)
	assert.False(t, ok)

	out := sp.Output()
	bx, by := ts.front(0)
	ax, ay := ts.front(-2)
	pix := func(x, y float32) color.NRGBA {
		return out.NRGBAAt(int((0.5+x/2)*64), int((0.5-y/2)*48))
	}
	assert.Equal(t, uint8(255), pix(bx, by).A)
	assert.Equal(t, uint8(0), pix(ax, ay).A)
	assert.Equal(t, color.NRGBA{}, pix(0, 0.9))
}

func TestToolHandlePicking(t *testing.T) {
	ts := newTestScene()
	th := xyz.NewToolHandle(ts.sc.Root(), "x", xyz.XAxis)
	th.SetMesh(mesh.NewCube("handle", 0.8))
	// behind cube a, drawn on top anyway
	th.SetPosition(mgl32.Vec3{-2.4, -0.4, -2.4})
	r := newTestRenderer(ts, nil)
	renderFrame(t, r)
	sp := r.RenderPass(SelectionPassName).(*SelectionPass)

	p := ts.cam.Project(mgl32.Vec3{-2, 0, -2})
	assert.Equal(t, xyz.XAxis, sp.ToolHandleAxisAtPosition(p.X(), p.Y()))
	_, ok := sp.IDAtPosition(p.X(), p.Y())
	assert.False(t, ok)

	bx, by := ts.front(0)
	assert.Equal(t, xyz.NoAxis, sp.ToolHandleAxisAtPosition(bx, by))

	th.SetEnabled(false)
	renderFrame(t, r)
	assert.Equal(t, xyz.NoAxis, sp.ToolHandleAxisAtPosition(p.X(), p.Y()))
}

func TestFacePicking(t *testing.T) {
	ts := newTestScene()
	sel := &xyz.Selection{}
	sel.Add(ts.c)
	sel.Add(ts.b)
	r := newTestRenderer(ts, sel)
	sp := r.RenderPass(SelectionPassName).(*SelectionPass)
	sp.SetMode(SelectFaces)
	renderFrame(t, r)

	x, y := ts.front(0)
	n, face, ok := sp.FaceAtPosition(x, y)
	require.True(t, ok)
	assert.Equal(t, xyz.Node(ts.b), n)
	for _, v := range ts.b.Mesh().Data().Face(face) {
		assert.Equal(t, float32(1), v.Z())
	}
	id, ok := sp.FaceIDAtPosition(x, y)
	assert.True(t, ok)
	assert.Equal(t, face, id)

	x, y = ts.front(-2)
	_, ok = sp.FaceIDAtPosition(x, y)
	assert.False(t, ok)
	assert.Nil(t, sp.NodeAtPosition(x, y))
}

func TestCompositeOutline(t *testing.T) {
	ts := newTestScene()
	sel := &xyz.Selection{}
	sel.Add(ts.b)
	r := newTestRenderer(ts, sel)
	renderFrame(t, r)

	selOut := r.RenderPass(SelectionPassName).Output()
	def := r.RenderPass(DefaultPassName).Output()
	out := r.Output()
	require.Equal(t, def.Bounds(), out.Bounds())

	y := 24
	edge := 32
	for selOut.NRGBAAt(edge, y).A == 255 {
		edge++
	}
	outline := color.NRGBA{255, 0, 255, 255}
	assert.Equal(t, outline, out.NRGBAAt(edge, y))
	assert.Equal(t, def.NRGBAAt(32, y), out.NRGBAAt(32, y))
	assert.Equal(t, background, out.NRGBAAt(0, 0))

	cp := r.RenderPass(CompositePassName).(*CompositePass)
	cp.SetOutline(outline, 0)
	renderFrame(t, r)
	assert.Equal(t, r.RenderPass(DefaultPassName).Output().Pix, r.Output().Pix)

	cp.SetLayerBindings(SelectionPassName)
	renderFrame(t, r)
	assert.Equal(t, r.RenderPass(SelectionPassName).Output().Pix, r.Output().Pix)
}

type floatPrefs map[string]float64

func (p floatPrefs) Float(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

func TestOverhangShading(t *testing.T) {
	sh := NewDefaultShader()
	down := &gpu.Fragment{Normal: mgl32.Vec3{0, -1, 0}, Color: mgl32.Vec4{1, 1, 1, 1}}
	down.Uniforms = sh.Uniforms
	c, ok := sh.Fragment(down)
	require.True(t, ok)
	assert.NotEqual(t, DefaultOverhangColor.R, c.R)

	ApplyPreferences(sh, floatPrefs{SupportAngleKey: 50})
	down.Uniforms = sh.Uniforms
	c, _ = sh.Fragment(down)
	assert.Greater(t, c.R, c.G)
	assert.Zero(t, c.B)

	side := &gpu.Fragment{Normal: mgl32.Vec3{1, 0, 0}, Color: mgl32.Vec4{1, 1, 1, 1}, Uniforms: sh.Uniforms}
	c, _ = sh.Fragment(side)
	assert.Equal(t, c.R, c.G)

	ApplyPreferences(sh, floatPrefs{})
	assert.NotContains(t, sh.Uniforms, "overhang_angle")
}
