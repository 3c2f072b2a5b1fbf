// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"image"
	"image/color"

	"github.com/gogpu/gg/surface"
)

// Extend specifies how an image pattern behaves outside its bounds.
type Extend uint8

const (
	// ExtendNone yields transparent pixels outside the image.
	ExtendNone Extend = iota

	// ExtendRepeat tiles the image in both directions.
	ExtendRepeat

	// ExtendReflect tiles the image, mirroring every other tile.
	ExtendReflect

	// ExtendPad repeats the nearest edge pixel.
	ExtendPad
)

// String returns a human-readable name for the extend mode.
func (e Extend) String() string {
	switch e {
	case ExtendNone:
		return "None"
	case ExtendRepeat:
		return "Repeat"
	case ExtendReflect:
		return "Reflect"
	case ExtendPad:
		return "Pad"
	default:
		return "Unknown"
	}
}

// extendSupported reports whether the mode has a native blit strategy.
// None draws a single blit, Repeat a tile blit; Reflect and Pad have no
// display-side equivalent and render through the software fallback.
func extendSupported(e Extend) bool {
	return e == ExtendNone || e == ExtendRepeat
}

// extendCoord maps a device coordinate into [0, n) under the extend mode.
// ok reports false when the coordinate falls outside the pattern (ExtendNone
// only).
func extendCoord(i, n int, e Extend) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	switch e {
	case ExtendRepeat:
		m := i % n
		if m < 0 {
			m += n
		}
		return m, true
	case ExtendReflect:
		period := 2 * n
		m := i % period
		if m < 0 {
			m += period
		}
		if m >= n {
			m = period - 1 - m
		}
		return m, true
	case ExtendPad:
		if i < 0 {
			return 0, true
		}
		if i >= n {
			return n - 1, true
		}
		return i, true
	default:
		if i < 0 || i >= n {
			return 0, false
		}
		return i, true
	}
}

// ImagePattern is an image-backed fill pattern with an extend mode.
//
// Set it as FillStyle.Pattern to fill with image content. Rectangular fills
// with ExtendNone or ExtendRepeat execute as native blits; everything else
// samples through ColorAt on the software path.
type ImagePattern struct {
	// Image is the source image, sampled in device coordinates with its
	// Min corner at the surface origin.
	Image image.Image

	// Extend controls sampling outside the image bounds.
	Extend Extend
}

// NewImagePattern creates an image pattern with the given extend mode.
func NewImagePattern(img image.Image, extend Extend) *ImagePattern {
	return &ImagePattern{Image: img, Extend: extend}
}

// ColorAt implements surface.Pattern.
func (p *ImagePattern) ColorAt(x, y float64) color.Color {
	if p.Image == nil {
		return color.Transparent
	}
	b := p.Image.Bounds()
	ix, okX := extendCoord(int(x), b.Dx(), p.Extend)
	iy, okY := extendCoord(int(y), b.Dy(), p.Extend)
	if !okX || !okY {
		return color.Transparent
	}
	return p.Image.At(b.Min.X+ix, b.Min.Y+iy)
}

// Verify ImagePattern implements surface.Pattern.
var _ surface.Pattern = (*ImagePattern)(nil)
