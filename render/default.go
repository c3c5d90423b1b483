// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import "log/slog"

// DefaultPassName is the name of the [DefaultPass].
const DefaultPassName = "default"

// DefaultPass draws the queued batches of the frame as seen from the
// active camera.
type DefaultPass struct {
	PassBase
}

// NewDefaultPass returns a new default pass for the renderer.
func NewDefaultPass(r *Renderer) *DefaultPass {
	p := &DefaultPass{}
	p.InitPass(r, DefaultPassName, DefaultPriority)
	return p
}

func (p *DefaultPass) Render() {
	p.MustBeBound()
	cam := p.renderer.Camera()
	if cam == nil {
		slog.Debug("render: no active camera", "pass", p.name)
		return
	}
	overlay := false
	for _, b := range p.renderer.Batches() {
		if b.Type() == Overlay && !overlay {
			p.target.ClearDepth()
			overlay = true
		}
		if err := b.Render(p.renderer.device, p.target, cam); err != nil {
			slog.Error("render: drawing batch failed", "pass", p.name, "batch", b, "err", err)
		}
	}
}
