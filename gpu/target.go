// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"image"
	"image/color"
)

// Target is an offscreen color and depth buffer. Colors are stored with
// straight (not premultiplied) alpha, so that the alpha channel can
// carry data independently of the color channels. Row 0 of the color
// image is the top of the viewport.
type Target struct {
	color *image.NRGBA
	depth []float32
}

func newTarget(width, height int) *Target {
	t := &Target{
		color: image.NewNRGBA(image.Rect(0, 0, width, height)),
		depth: make([]float32, width*height),
	}
	t.ClearDepth()
	return t
}

// Size returns the size in pixels.
func (t *Target) Size() image.Point {
	return t.color.Rect.Size()
}

// Clear fills the color buffer.
func (t *Target) Clear(c color.NRGBA) {
	pix := t.color.Pix
	if len(pix) == 0 {
		return
	}
	pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, c.A
	for i := 4; i < len(pix); i *= 2 {
		copy(pix[i:], pix[:i])
	}
}

// ClearDepth resets the depth buffer to the far plane.
func (t *Target) ClearDepth() {
	n := len(t.depth)
	if n == 0 {
		return
	}
	t.depth[0] = 1
	for i := 1; i < n; i *= 2 {
		copy(t.depth[i:], t.depth[:i])
	}
}

// Image returns the color buffer itself.
func (t *Target) Image() *image.NRGBA {
	return t.color
}

// Snapshot returns a copy of the color buffer.
func (t *Target) Snapshot() *image.NRGBA {
	img := image.NewNRGBA(t.color.Rect)
	copy(img.Pix, t.color.Pix)
	return img
}

// NRGBAAt returns the color of the pixel.
func (t *Target) NRGBAAt(x, y int) color.NRGBA {
	return t.color.NRGBAAt(x, y)
}

// DepthAt returns the depth of the pixel, or 1 outside the target.
func (t *Target) DepthAt(x, y int) float32 {
	if !(image.Point{x, y}.In(t.color.Rect)) {
		return 1
	}
	return t.depth[y*t.color.Rect.Dx()+x]
}
