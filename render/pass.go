// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"cogentcore.org/scene/gpu"
)

// PassStates are the states of a render pass within a frame.
type PassStates int32

const (
	// Unbound is the state before the pass is bound in a frame.
	Unbound PassStates = iota

	// Bound means the target is cleared and draws go to it.
	Bound

	// Released means the output of the frame is final.
	Released
)

var passStateNames = [...]string{"unbound", "bound", "released"}

func (s PassStates) String() string {
	if s < 0 || int(s) >= len(passStateNames) {
		return "PassStates(?)"
	}
	return passStateNames[s]
}

// RenderPass is one stage of a frame that draws into its own target.
// Passes run in increasing order of priority; the composite pass has
// the highest priority and its output is what the renderer presents.
type RenderPass interface {
	// AsPassBase returns the [PassBase] of the pass.
	AsPassBase() *PassBase

	// Bind makes the target the size of the pass, clears it and moves
	// the pass to [Bound].
	Bind() error

	// Render draws the pass. It must only be called while [Bound].
	Render()

	// Release finalizes the output and moves the pass to [Released].
	// It does nothing unless the pass is [Bound].
	Release()

	// Output returns the last finalized image.
	Output() *image.NRGBA
}

// PassBase implements the target and state handling of a [RenderPass].
// Pass types embed it and implement Render.
type PassBase struct {
	// ClearColor is the color the target is cleared to on Bind.
	ClearColor color.NRGBA

	name     string
	priority int
	renderer *Renderer
	size     image.Point
	state    PassStates
	target   *gpu.Target
	output   *image.NRGBA
}

// InitPass sets the name, priority and renderer of the pass.
func (p *PassBase) InitPass(r *Renderer, name string, priority int) {
	p.renderer = r
	p.name = name
	p.priority = priority
	if r != nil {
		p.size = image.Pt(r.ViewportSize())
	}
}

func (p *PassBase) AsPassBase() *PassBase { return p }

// Name returns the unique name of the pass.
func (p *PassBase) Name() string { return p.name }

// Priority returns the priority; lower priorities render first.
func (p *PassBase) Priority() int { return p.priority }

// Renderer returns the renderer the pass belongs to.
func (p *PassBase) Renderer() *Renderer { return p.renderer }

// Target returns the target the pass draws into, which is nil before
// the first Bind.
func (p *PassBase) Target() *gpu.Target { return p.target }

// State returns the current state.
func (p *PassBase) State() PassStates { return p.state }

// Size returns the size the target has after the next Bind.
func (p *PassBase) Size() image.Point { return p.size }

// SetSize sets the size of the target, which is recreated on the
// next Bind if it changed.
func (p *PassBase) SetSize(width, height int) {
	p.size = image.Pt(width, height)
}

// Bind creates the target on the first call or after a resize, clears
// it and moves the pass to [Bound].
func (p *PassBase) Bind() error {
	if p.renderer == nil || p.renderer.device == nil {
		return fmt.Errorf("render.PassBase: pass %q: %w", p.name, ErrNoDevice)
	}
	if p.target == nil || p.target.Size() != p.size {
		t, err := p.renderer.device.NewTarget(p.size.X, p.size.Y)
		if err != nil {
			return fmt.Errorf("render.PassBase: target of pass %q: %w", p.name, err)
		}
		slog.Debug("render: created pass target", "pass", p.name, "size", p.size)
		p.target = t
	}
	p.state = Bound
	p.target.Clear(p.ClearColor)
	p.target.ClearDepth()
	return nil
}

func (p *PassBase) Release() {
	if p.state != Bound {
		return
	}
	p.output = p.target.Snapshot()
	p.state = Released
}

// reset moves a released pass back to [Unbound] for the next frame.
func (p *PassBase) reset() {
	if p.state == Released {
		p.state = Unbound
	}
}

// Output returns the last finalized image, or an empty image if the
// pass never completed a frame.
func (p *PassBase) Output() *image.NRGBA {
	if p.output == nil {
		return image.NewNRGBA(image.Rectangle{})
	}
	return p.output
}

// MustBeBound panics unless the pass is [Bound]. Render
// implementations call it first.
func (p *PassBase) MustBeBound() {
	if p.state != Bound {
		panic(fmt.Sprintf("render: Render called on pass %q in state %v", p.name, p.state))
	}
}
