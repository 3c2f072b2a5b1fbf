// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggebiten provides an Ebitengine surface backend for gg.
//
// The backend lets gg drawing operations render onto *ebiten.Image targets,
// so vector content can be composed directly into an Ebitengine frame. The
// data flow is:
//
//	gg path/style -> native GPU draw (fast path)
//	              -> gg software rasterizer -> CPU mirror -> WritePixels (fallback)
//
// # Fast path and fallback
//
// Operations the display side can express directly execute natively:
// whole-surface clears, axis-aligned rectangle fills and image blits under
// the classical Porter-Duff operators, with rectangular clipping via
// SubImage. Everything else (curved paths, strokes, gradients, separable
// blend modes, non-rectangular clips) renders through gg's software
// ImageSurface into a CPU mirror of the pixels, which is uploaded back
// before the next native operation. The surface tracks both directions, so
// mixed native and software drawing stays consistent.
//
// # Usage
//
// The package registers itself as backend "ebiten" in gg's surface
// registry:
//
//	import _ "github.com/gogpu/ggebiten"
//
//	s, err := surface.NewSurfaceByName("ebiten", 800, 600)
//
// Or create surfaces directly and composite them inside an Ebitengine Draw
// callback:
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//		g.canvas.Fill(path, surface.FillStyle{Color: color.RGBA{255, 0, 0, 255}})
//		_ = g.canvas.Flush()
//		screen.DrawImage(g.canvas.Image(), nil)
//	}
//
// FromImage wraps an existing *ebiten.Image instead of creating one;
// rendering on a wrapped image may read its pixels back, so the screen
// image passed to Draw (which is write-only) cannot be wrapped.
//
// Surfaces are not safe for concurrent use.
package ggebiten
