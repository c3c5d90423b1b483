// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"image/color"
	"log/slog"
	"slices"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"

	"cogentcore.org/scene/xyz"
)

// CompositePassName is the name of the [CompositePass].
const CompositePassName = "composite"

// CompositePass combines the outputs of the other passes into the
// presented image. The first layer is the base image, copied as is, or
// scaled if it does not have the size of the pass. The second layer, if any, is a selection pass
// output, and the selected pixels in it, those with alpha 255, are
// outlined.
type CompositePass struct {
	PassBase

	layers       []string
	outlineColor color.NRGBA
	outlineWidth int
}

// NewCompositePass returns a new composite pass for the renderer with
// the layers "default" and "selection" and no outline.
func NewCompositePass(r *Renderer) *CompositePass {
	p := &CompositePass{
		layers: []string{DefaultPassName, SelectionPassName},
	}
	p.InitPass(r, CompositePassName, CompositePriority)
	return p
}

// Layers returns the names of the passes the composite reads.
func (p *CompositePass) Layers() []string {
	return slices.Clone(p.layers)
}

// SetLayerBindings sets the names of the passes the composite reads:
// the base image first, then the selection.
func (p *CompositePass) SetLayerBindings(names ...string) {
	p.layers = slices.Clone(names)
}

// SetOutline sets the color and width in pixels of the selection
// outline. A width of zero or less draws no outline.
func (p *CompositePass) SetOutline(c color.NRGBA, width int) {
	p.outlineColor = c
	p.outlineWidth = width
}

func (p *CompositePass) Render() {
	p.MustBeBound()
	if len(p.layers) == 0 {
		return
	}
	dst := p.target.Image()
	if base := p.layer(p.layers[0]); base != nil {
		if base.Bounds().Size() == dst.Bounds().Size() {
			copyNRGBA(dst, base)
		} else {
			draw.ApproxBiLinear.Scale(dst, dst.Bounds(), base, base.Bounds(), draw.Src, nil)
		}
	}
	if p.outlineWidth <= 0 || len(p.layers) < 2 {
		return
	}
	sel := p.layer(p.layers[1])
	if sel == nil {
		return
	}
	p.drawOutline(dst, sel)
}

// copyNRGBA copies src to dst, which have the same size. Unlike
// draw.Src it keeps the color of transparent pixels.
func copyNRGBA(dst, src *image.NRGBA) {
	w := src.Rect.Dx() * 4
	for y := range src.Rect.Dy() {
		si := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		di := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		copy(dst.Pix[di:di+w], src.Pix[si:si+w])
	}
}

// layer returns the output of the named pass, or nil if there is no
// such pass or it has no output yet.
func (p *CompositePass) layer(name string) *image.NRGBA {
	if name == p.name {
		return nil
	}
	rp := p.renderer.RenderPass(name)
	if rp == nil {
		slog.Debug("render: composite layer has no pass", "layer", name)
		return nil
	}
	out := rp.Output()
	if out.Bounds().Empty() {
		return nil
	}
	return out
}

// drawOutline paints the pixels around the selected pixels of sel,
// within the outline width, with the outline color.
func (p *CompositePass) drawOutline(dst *image.NRGBA, sel *image.NRGBA) {
	mask, found := selectedMask(sel)
	if !found {
		return
	}
	sz := dst.Bounds().Size()
	var scaled image.Image = mask
	if mask.Bounds().Size() != sz {
		scaled = transform.Resize(mask, sz.X, sz.Y, transform.NearestNeighbor)
	}
	grown := effect.Dilate(scaled, float64(p.outlineWidth))
	for y := range sz.Y {
		for x := range sz.X {
			if isSet(grown, x, y) && !isSet(scaled, x, y) {
				dst.SetNRGBA(dst.Rect.Min.X+x, dst.Rect.Min.Y+y, p.outlineColor)
			}
		}
	}
}

// selectedMask returns a mask of the pixels of sel that belong to a
// selected node: alpha 255 and not a tool handle color. It also returns
// whether any pixel is set.
func selectedMask(sel *image.NRGBA) (*image.Gray, bool) {
	b := sel.Bounds()
	mask := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := sel.NRGBAAt(x, y)
			if c.A != 255 || xyz.IsReservedColor(color.RGBA(c)) {
				continue
			}
			mask.Pix[mask.PixOffset(x-b.Min.X, y-b.Min.Y)] = 255
			found = true
		}
	}
	return mask, found
}

func isSet(img image.Image, x, y int) bool {
	b := img.Bounds()
	r, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return r > 0x7fff
}
