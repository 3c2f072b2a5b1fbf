// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// premultiply returns c's channels as premultiplied-alpha floats in [0, 1],
// the encoding the display surface composites in. color.Color.RGBA already
// yields premultiplied 16-bit channels, so straight-alpha types such as
// color.NRGBA arrive here correctly scaled.
func premultiply(c color.Color) (r, g, b, a float32) {
	if c == nil {
		return 0, 0, 0, 1
	}
	cr, cg, cb, ca := c.RGBA()
	return float32(cr) / 0xffff, float32(cg) / 0xffff, float32(cb) / 0xffff, float32(ca) / 0xffff
}

// isOpaque reports whether c is fully opaque. Opaque solid sources allow
// blend factors reading source alpha to be simplified away.
func isOpaque(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0xffff
}

// colorScaleFor builds the native color scale for a solid source: the
// premultiplied channels of c times an extra opacity factor. Applied to an
// opaque white source pixel this produces exactly the premultiplied color.
func colorScaleFor(c color.Color, alpha float32) ebiten.ColorScale {
	r, g, b, a := premultiply(c)
	var cs ebiten.ColorScale
	cs.Scale(r*alpha, g*alpha, b*alpha, a*alpha)
	return cs
}

// premulRGBA returns c as a premultiplied 8-bit color.RGBA, the mirror
// image's pixel encoding.
func premulRGBA(c color.Color) color.RGBA {
	if c == nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b, a := c.RGBA()
	//nolint:gosec // G115: safe - r>>8 is always in [0, 255]
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
