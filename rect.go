// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"image"
	"math"

	"github.com/gogpu/gg/scene"
	"github.com/gogpu/gg/surface"
)

// isIntegral reports whether v lies exactly on the pixel grid.
func isIntegral(v float32) bool {
	f := float64(v)
	return f == math.Floor(f)
}

// rectFromPath extracts an axis-aligned, pixel-aligned rectangle from a
// path, when the path is exactly one. Accepted shapes are a single subpath
// of a MoveTo and three or four LineTos, optionally closed, whose segments
// alternate horizontal and vertical and return to the start point. Anything
// else (curves, extra subpaths, diagonal edges, fractional coordinates,
// empty extents) reports ok=false and takes the general fill path.
func rectFromPath(p *surface.Path) (r image.Rectangle, ok bool) {
	if p == nil || p.IsEmpty() {
		return image.Rectangle{}, false
	}

	verbs := p.Verbs()
	points := p.Points()

	// The path verb encoding is shared with the scene package.
	var xs, ys []float32
	pi := 0
	closed := false
	for i := range verbs {
		v := scene.PathVerb(verbs[i])
		switch v {
		case scene.MoveTo:
			if i != 0 {
				return image.Rectangle{}, false
			}
			xs = append(xs, points[pi])
			ys = append(ys, points[pi+1])
		case scene.LineTo:
			if closed || len(xs) >= 5 {
				return image.Rectangle{}, false
			}
			xs = append(xs, points[pi])
			ys = append(ys, points[pi+1])
		case scene.Close:
			if i != len(verbs)-1 {
				return image.Rectangle{}, false
			}
			closed = true
		default:
			return image.Rectangle{}, false
		}
		pi += v.PointCount()
	}

	switch len(xs) {
	case 4:
		// Three lines: the closing edge must be supplied by a Close.
		if !closed {
			return image.Rectangle{}, false
		}
	case 5:
		// Four lines: the last point must return to the start.
		if xs[4] != xs[0] || ys[4] != ys[0] {
			return image.Rectangle{}, false
		}
		xs, ys = xs[:4], ys[:4]
	default:
		return image.Rectangle{}, false
	}

	// Edges must alternate vertical/horizontal in either order.
	hvhv := ys[0] == ys[1] && xs[1] == xs[2] && ys[2] == ys[3] && xs[3] == xs[0]
	vhvh := xs[0] == xs[1] && ys[1] == ys[2] && xs[2] == xs[3] && ys[3] == ys[0]
	if !hvhv && !vhvh {
		return image.Rectangle{}, false
	}

	for i := 0; i < 4; i++ {
		if !isIntegral(xs[i]) || !isIntegral(ys[i]) {
			return image.Rectangle{}, false
		}
	}

	r = image.Rect(int(xs[0]), int(ys[0]), int(xs[2]), int(ys[2]))
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return image.Rectangle{}, false
	}
	return r, true
}

// pathBounds returns conservative integer device bounds of a path,
// including curve control points.
func pathBounds(p *surface.Path) image.Rectangle {
	if p == nil || p.IsEmpty() {
		return image.Rectangle{}
	}
	points := p.Points()
	if len(points) < 2 {
		return image.Rectangle{}
	}
	minX, minY := points[0], points[1]
	maxX, maxY := minX, minY
	for i := 2; i+1 < len(points); i += 2 {
		x, y := points[i], points[i+1]
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return image.Rect(
		int(math.Floor(float64(minX))),
		int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))),
		int(math.Ceil(float64(maxY))),
	)
}
