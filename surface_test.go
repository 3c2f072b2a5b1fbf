// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/scene"
	"github.com/gogpu/gg/surface"
)

// newSoftwareOnly builds a surface that exercises only the software mirror,
// for tests that must not touch the graphics driver. Native fast paths are
// avoided by drawing paths the rectangle extractor rejects.
func newSoftwareOnly(width, height int) *Surface {
	return &Surface{
		width:  width,
		height: height,
		op:     scene.BlendSourceOver,
	}
}

// fractionalRect builds a fill path covering the given area that the native
// rectangle fast path rejects (fractional coordinates).
func fractionalRect(x, y, w, h float64) *surface.Path {
	p := surface.NewPath()
	p.Rectangle(x+0.25, y, w-0.25, h)
	return p
}

// TestNewInvalidDimensions tests creation size validation.
func TestNewInvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}, {0, 0}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("New(%d, %d) error = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

// TestFromImageNil tests wrapping a nil native image.
func TestFromImageNil(t *testing.T) {
	if _, err := FromImage(nil); !errors.Is(err, ErrNilImage) {
		t.Errorf("FromImage(nil) error = %v, want ErrNilImage", err)
	}
}

// TestClosedSurface tests that a closed surface rejects or ignores
// operations.
func TestClosedSurface(t *testing.T) {
	s := &Surface{closed: true}

	if err := s.Flush(); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("Flush error = %v, want ErrSurfaceClosed", err)
	}
	if err := s.WritePixels(nil, FormatRGBA8Premul, 0); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("WritePixels error = %v, want ErrSurfaceClosed", err)
	}
	if err := s.ReadPixelsInto(nil, FormatRGBA8Premul, 0); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("ReadPixelsInto error = %v, want ErrSurfaceClosed", err)
	}
	if _, err := s.CreateSubSurface(image.Rect(0, 0, 1, 1)); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("CreateSubSurface error = %v, want ErrSurfaceClosed", err)
	}
	if got := s.Snapshot(); got != nil {
		t.Error("Snapshot on closed surface should be nil")
	}

	// Draw operations are silent no-ops.
	p := surface.NewPath()
	p.Rectangle(0, 0, 4, 4)
	s.Fill(p, surface.DefaultFillStyle())
	s.Stroke(p, surface.DefaultStrokeStyle())
	s.Clear(color.White)
	s.SetClip(p)

	// Close is idempotent.
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

// TestPrepareNativeParentChain walks the upload ordering without a native
// image: flushing must visit the outermost ancestor first and must never
// touch a closed surface, even with a pending mirror.
func TestPrepareNativeParentChain(t *testing.T) {
	root := newSoftwareOnly(8, 8)
	mid := newSoftwareOnly(4, 4)
	mid.parent = root
	leaf := newSoftwareOnly(2, 2)
	leaf.parent = mid

	// Clean mirrors make the walk a no-op.
	leaf.prepareNative()
	if root.mappedDirty || mid.mappedDirty || leaf.mappedDirty {
		t.Error("prepareNative dirtied a clean chain")
	}

	// A closed ancestor's stale mirror must be skipped, not uploaded.
	mid.closed = true
	mid.mappedDirty = true
	leaf.prepareNative()
	if !mid.mappedDirty {
		t.Error("flushMapped consumed the dirty bit of a closed surface")
	}

	// And on the surface itself.
	leaf.closed = true
	leaf.mappedDirty = true
	leaf.flushMapped()
	if !leaf.mappedDirty {
		t.Error("flushMapped consumed the dirty bit after Close")
	}
}

// TestFallbackOperatorLogged checks that compositing an unsupported
// operator through the software path leaves a record in the library log.
func TestFallbackOperatorLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := gg.Logger()
	gg.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	defer gg.SetLogger(prev)

	s := newSoftwareOnly(4, 4)
	s.SetOperator(scene.BlendMultiply)
	s.Fill(fractionalRect(0, 0, 4, 4), surface.FillStyle{Color: color.White})

	if !strings.Contains(buf.String(), "software fallback") {
		t.Errorf("log output %q, want a software fallback record", buf.String())
	}
}

// TestOperatorState tests operator and blend mode accessors.
func TestOperatorState(t *testing.T) {
	s := newSoftwareOnly(4, 4)

	if s.Operator() != scene.BlendSourceOver {
		t.Errorf("default operator = %v, want SourceOver", s.Operator())
	}

	s.SetOperator(scene.BlendXor)
	if s.Operator() != scene.BlendXor {
		t.Errorf("operator = %v, want Xor", s.Operator())
	}
	// Xor has no surface enum equivalent; BlendMode reports source-over.
	if s.BlendMode() != surface.BlendModeSourceOver {
		t.Errorf("BlendMode = %v, want SourceOver", s.BlendMode())
	}

	s.SetBlendMode(surface.BlendModeMultiply)
	if s.Operator() != scene.BlendMultiply {
		t.Errorf("operator after SetBlendMode = %v, want Multiply", s.Operator())
	}
	if s.BlendMode() != surface.BlendModeMultiply {
		t.Errorf("BlendMode = %v, want Multiply", s.BlendMode())
	}
}

// TestClipStack tests clip state tracking and the save stack.
func TestClipStack(t *testing.T) {
	s := newSoftwareOnly(8, 8)

	rectPath := surface.NewPath()
	rectPath.Rectangle(2, 2, 100, 4)
	s.SetClip(rectPath)
	if s.clip == nil || !s.clip.isRect {
		t.Fatal("integral rectangle clip should be rect-expressible")
	}
	// Clip rectangles clamp to the surface bounds.
	if want := image.Rect(2, 2, 8, 6); s.clip.rect != want {
		t.Errorf("clip rect = %v, want %v", s.clip.rect, want)
	}

	s.PushClip()
	curved := surface.NewPath()
	curved.Circle(4, 4, 3)
	s.SetClip(curved)
	if s.clip == nil || s.clip.isRect {
		t.Error("curved clip should not be rect-expressible")
	}

	s.PopClip()
	if s.clip == nil || !s.clip.isRect {
		t.Error("PopClip should restore the rectangle clip")
	}

	s.ClearClip()
	if s.clip != nil {
		t.Error("ClearClip should remove the clip")
	}

	// Empty path also clears; pop on an empty stack is a no-op.
	s.SetClip(surface.NewPath())
	if s.clip != nil {
		t.Error("empty clip path should clear the clip")
	}
	s.PopClip()
}

// TestFallbackFill tests software-path fill rendering into the mirror.
func TestFallbackFill(t *testing.T) {
	s := newSoftwareOnly(8, 8)
	red := color.RGBA{255, 0, 0, 255}

	s.Fill(fractionalRect(0, 0, 8, 8), surface.FillStyle{Color: red})

	img := s.Snapshot()
	if img == nil {
		t.Fatal("Snapshot returned nil")
	}
	if got := img.RGBAAt(4, 4); got != red {
		t.Errorf("center pixel = %v, want %v", got, red)
	}
}

// TestFallbackFillUnsupportedOperator tests that non-Porter-Duff operators
// route rectangle fills through the software path.
func TestFallbackFillUnsupportedOperator(t *testing.T) {
	s := newSoftwareOnly(8, 8)
	s.SetOperator(scene.BlendMultiply)

	p := surface.NewPath()
	p.Rectangle(0, 0, 8, 8)
	s.Fill(p, surface.FillStyle{Color: color.RGBA{0, 255, 0, 255}})

	img := s.Snapshot()
	if got := img.RGBAAt(4, 4); got.G != 255 {
		t.Errorf("center pixel = %v, want green", got)
	}
}

// TestFallbackFillRectClip tests that rectangular clips restrict the
// software copy-back region.
func TestFallbackFillRectClip(t *testing.T) {
	s := newSoftwareOnly(8, 8)
	red := color.RGBA{255, 0, 0, 255}

	clipPath := surface.NewPath()
	clipPath.Rectangle(0, 0, 4, 8)
	s.SetClip(clipPath)

	s.Fill(fractionalRect(0, 0, 8, 8), surface.FillStyle{Color: red})

	img := s.Snapshot()
	if got := img.RGBAAt(2, 4); got != red {
		t.Errorf("inside clip = %v, want %v", got, red)
	}
	if got := img.RGBAAt(6, 4); got.A != 0 {
		t.Errorf("outside clip = %v, want untouched", got)
	}
}

// TestFallbackFillMaskClip tests that non-rectangular clips mask the
// software copy-back through rasterized coverage.
func TestFallbackFillMaskClip(t *testing.T) {
	s := newSoftwareOnly(8, 8)
	red := color.RGBA{255, 0, 0, 255}

	tri := surface.NewPath()
	tri.MoveTo(0, 0)
	tri.LineTo(8, 0)
	tri.LineTo(0, 8)
	tri.Close()
	s.SetClip(tri)

	s.Fill(fractionalRect(0, 0, 8, 8), surface.FillStyle{Color: red})

	img := s.Snapshot()
	if got := img.RGBAAt(1, 1); got != red {
		t.Errorf("inside triangle = %v, want %v", got, red)
	}
	if got := img.RGBAAt(7, 7); got.A != 0 {
		t.Errorf("outside triangle = %v, want untouched", got)
	}
}

// TestStrokeFallback tests software-path stroke rendering.
func TestStrokeFallback(t *testing.T) {
	s := newSoftwareOnly(8, 8)

	p := surface.NewPath()
	p.MoveTo(0, 4)
	p.LineTo(8, 4)
	s.Stroke(p, surface.StrokeStyle{Color: color.RGBA{0, 0, 255, 255}, Width: 3})

	img := s.Snapshot()
	if got := img.RGBAAt(4, 4); got.B < 200 || got.A < 200 {
		t.Errorf("pixel on stroke = %v, want blue", got)
	}
	if got := img.RGBAAt(4, 0); got.A != 0 {
		t.Errorf("pixel off stroke = %v, want untouched", got)
	}
}

// TestDrawImageFallback tests the delegated blit path, including pre-scaling
// for destination rectangles.
func TestDrawImageFallback(t *testing.T) {
	s := newSoftwareOnly(8, 8)
	// Separable blend mode forces the software path.
	s.SetOperator(scene.BlendMultiply)

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.SetRGBA(x, y, red)
		}
	}

	dst := image.Rect(0, 0, 4, 4)
	s.DrawImage(src, surface.Pt(0, 0), &surface.DrawImageOptions{
		DstRect: &dst,
		Alpha:   1,
		Filter:  surface.FilterNearest,
	})

	img := s.Snapshot()
	if got := img.RGBAAt(3, 3); got != red {
		t.Errorf("scaled pixel = %v, want %v", got, red)
	}
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Errorf("pixel outside dst = %v, want untouched", got)
	}
}

// TestSnapshotIsCopy tests that Snapshot returns an independent image.
func TestSnapshotIsCopy(t *testing.T) {
	s := newSoftwareOnly(4, 4)
	s.Fill(fractionalRect(0, 0, 4, 4), surface.FillStyle{Color: color.RGBA{255, 0, 0, 255}})

	a := s.Snapshot()
	a.SetRGBA(2, 2, color.RGBA{})
	b := s.Snapshot()
	if got := b.RGBAAt(2, 2); got.A == 0 {
		t.Error("mutating a snapshot should not affect the surface")
	}
}

// TestFloorDiv tests division rounding toward negative infinity.
func TestFloorDiv(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{7, 4, 1},
		{8, 4, 2},
		{-1, 4, -1},
		{-4, 4, -1},
		{-5, 4, -2},
		{0, 4, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestClamp01 tests opacity clamping.
func TestClamp01(t *testing.T) {
	if clamp01(-0.5) != 0 || clamp01(1.5) != 1 || clamp01(0.25) != 0.25 {
		t.Error("clamp01 should clamp to [0, 1]")
	}
}
