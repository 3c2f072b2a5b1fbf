// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/scene"
	"github.com/gogpu/gg/surface"
	"github.com/hajimehoshi/ebiten/v2"
)

// Surface renders gg drawing operations onto an Ebitengine image.
//
// Operations the display side can express directly run natively on the GPU
// image: whole-surface clears, axis-aligned rectangle fills and image blits
// under the classical Porter-Duff operators, with rectangular clipping.
// Everything else renders through gg's software rasterizer into a CPU
// mirror of the pixels, which is uploaded back before the next native
// operation. The two directions are tracked so that a Snapshot after any
// mix of native and software operations reflects all of them in order.
//
// At most one of the two dirty flags is set at a time: native work is
// read back before the software path renders, and software work is
// uploaded before native work draws.
//
// Surfaces are NOT thread-safe. Each surface should be used from a single
// goroutine, or external synchronization must be used.
//
// Example:
//
//	s, err := ggebiten.New(800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	s.Fill(path, surface.FillStyle{Color: color.RGBA{255, 0, 0, 255}})
//	s.Flush()
//	screen.DrawImage(s.Image(), nil)
type Surface struct {
	native *ebiten.Image
	owned  bool

	// origin is the surface's position inside the root native image.
	// Non-zero for sub-surfaces and wrapped sub-images.
	origin image.Point
	parent *Surface

	width  int
	height int

	// op is the compositing operator for Fill, Stroke and DrawImage.
	op scene.BlendMode

	clip      *clipState
	clipStack []*clipState

	// mirror is the CPU copy of the native pixels; mapped wraps it with
	// the software rasterizer.
	mirror *image.RGBA
	mapped *surface.ImageSurface

	// nativeDirty: native ops the mirror has not seen.
	// mappedDirty: mirror ops not yet uploaded.
	nativeDirty bool
	mappedDirty bool

	closed bool
}

// clipState is one entry of the clip stack.
type clipState struct {
	path *surface.Path

	// rect and isRect are set when the clip path is an axis-aligned,
	// pixel-aligned rectangle, which native operations can honor.
	rect   image.Rectangle
	isRect bool

	// mask is the lazily rasterized coverage of a non-rectangular clip.
	mask *image.RGBA
}

// New creates a surface backed by a new Ebitengine image of the given size.
func New(width, height int) (*Surface, error) {
	if width < 1 || height < 1 {
		return nil, ErrInvalidDimensions
	}
	return &Surface{
		native: ebiten.NewImage(width, height),
		owned:  true,
		width:  width,
		height: height,
		op:     scene.BlendSourceOver,
	}, nil
}

// FromImage wraps an existing Ebitengine image, including sub-images.
//
// Ownership of the image stays with the caller: Close never deallocates a
// wrapped image. The image's current contents are preserved and read back
// on demand.
func FromImage(img *ebiten.Image) (*Surface, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	b := img.Bounds()
	return &Surface{
		native:      img,
		owned:       false,
		origin:      b.Min,
		width:       b.Dx(),
		height:      b.Dy(),
		op:          scene.BlendSourceOver,
		nativeDirty: true,
	}, nil
}

// Image returns the underlying Ebitengine image. Call Flush first so that
// software-rendered content is visible on it.
func (s *Surface) Image() *ebiten.Image {
	return s.native
}

// Width returns the surface width.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the surface height.
func (s *Surface) Height() int {
	return s.height
}

// SetOperator sets the compositing operator for subsequent Fill, Stroke and
// DrawImage calls. Operators outside the classical Porter-Duff set render
// through the software path.
func (s *Surface) SetOperator(op scene.BlendMode) {
	s.op = op
}

// Operator returns the current compositing operator.
func (s *Surface) Operator() scene.BlendMode {
	return s.op
}

// SetBlendMode implements surface.BlendableSurface.
func (s *Surface) SetBlendMode(mode surface.BlendMode) {
	s.op = modeToOperator(mode)
}

// BlendMode implements surface.BlendableSurface. Operators the surface
// enum cannot express report as source-over.
func (s *Surface) BlendMode() surface.BlendMode {
	mode, _ := operatorToMode(s.op)
	return mode
}

// Clear fills the entire surface with the given color, ignoring clip and
// operator. Clear synchronizes the mirror exactly, so it never forces a
// readback.
func (s *Surface) Clear(c color.Color) {
	if s.closed {
		return
	}
	if c == nil {
		c = color.Transparent
	}
	if s.parent != nil {
		s.parent.prepareNative()
	}
	s.native.Fill(c)
	s.allocMirror()
	draw.Draw(s.mirror, s.mirror.Bounds(), &image.Uniform{premulRGBA(c)}, image.Point{}, draw.Src)
	s.nativeDirty = false
	s.mappedDirty = false
	s.markParents()
}

// Fill fills the given path using the specified style.
func (s *Surface) Fill(path *surface.Path, style surface.FillStyle) {
	if s.closed || path == nil || path.IsEmpty() {
		return
	}
	if s.fillNative(path, style) {
		return
	}
	s.runFallback(func(dst *surface.ImageSurface) {
		dst.Fill(path, style)
	})
}

// Stroke strokes the given path using the specified style. Strokes always
// render through the software path.
func (s *Surface) Stroke(path *surface.Path, style surface.StrokeStyle) {
	if s.closed || path == nil || path.IsEmpty() {
		return
	}
	s.runFallback(func(dst *surface.ImageSurface) {
		dst.Stroke(path, style)
	})
}

// DrawImage draws an image at the specified position.
func (s *Surface) DrawImage(img image.Image, at surface.Point, opts *surface.DrawImageOptions) {
	if s.closed || img == nil {
		return
	}
	if opts == nil {
		opts = surface.DefaultDrawImageOptions()
	}
	if s.drawImageNative(img, at, opts) {
		return
	}
	s.drawImageFallback(img, at, opts)
}

// Flush uploads software-rendered pixels to the native image.
func (s *Surface) Flush() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	s.flushMapped()
	return nil
}

// Snapshot returns the current surface contents as an RGBA image.
// This reads back the native pixels when they are newer than the mirror.
func (s *Surface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}
	s.ensureMirror()
	out := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	copy(out.Pix, s.mirror.Pix)
	return out
}

// Close releases the surface. Owned native images are deallocated; wrapped
// images are left to their owner. Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.owned {
		s.native.Deallocate()
	}
	s.native = nil
	s.mirror = nil
	s.mapped = nil
	s.clip = nil
	s.clipStack = nil
	return nil
}

// SetClip sets the clipping region from a path. A nil or empty path clears
// the clip. Rectangular, pixel-aligned clip paths are honored natively;
// any other path routes drawing through the software path with a coverage
// mask.
func (s *Surface) SetClip(path *surface.Path) {
	if s.closed {
		return
	}
	if path == nil || path.IsEmpty() {
		s.clip = nil
		return
	}
	c := &clipState{path: path}
	if r, ok := rectFromPath(path); ok {
		c.rect = r.Intersect(image.Rect(0, 0, s.width, s.height))
		c.isRect = true
	}
	s.clip = c
}

// ClearClip removes the clipping region.
func (s *Surface) ClearClip() {
	if s.closed {
		return
	}
	s.clip = nil
}

// PushClip saves the current clip state.
func (s *Surface) PushClip() {
	if s.closed {
		return
	}
	s.clipStack = append(s.clipStack, s.clip)
}

// PopClip restores the previously pushed clip state.
func (s *Surface) PopClip() {
	if s.closed || len(s.clipStack) == 0 {
		return
	}
	s.clip = s.clipStack[len(s.clipStack)-1]
	s.clipStack = s.clipStack[:len(s.clipStack)-1]
}

// CreateSubSurface creates a surface backed by a region of this surface.
// Drawing to the child draws into the parent's native image. Parent and
// child keep separate software mirrors; native draws flush pending software
// work along the parent chain first, so interleaving parent and child is
// safe. Sibling sub-surfaces over overlapping regions still need an
// explicit Flush between uses.
func (s *Surface) CreateSubSurface(bounds image.Rectangle) (surface.Surface, error) {
	if s.closed {
		return nil, ErrSurfaceClosed
	}
	if bounds.Empty() || !bounds.In(image.Rect(0, 0, s.width, s.height)) {
		return nil, ErrInvalidBounds
	}
	s.prepareNative()
	nb := bounds.Add(s.origin)
	sub, ok := s.native.SubImage(nb).(*ebiten.Image)
	if !ok {
		gg.Logger().Warn("ggebiten: SubImage for sub-surface failed", "bounds", nb)
		return nil, ErrInvalidBounds
	}
	return &Surface{
		native:      sub,
		owned:       false,
		origin:      nb.Min,
		parent:      s,
		width:       bounds.Dx(),
		height:      bounds.Dy(),
		op:          scene.BlendSourceOver,
		nativeDirty: true,
	}, nil
}

// Capabilities implements surface.CapableSurface.
func (s *Surface) Capabilities() surface.Capabilities {
	return surface.Capabilities{
		SupportsSubSurface: true,
		SupportsResize:     false,
		SupportsClipping:   true,
		SupportsBlendModes: true,
		SupportsAntialias:  true,
	}
}

// WritePixels replaces the whole surface contents with pixels in the given
// format, converting to the native layout. Stride 0 means packed rows.
// A full write synchronizes the mirror without a readback.
func (s *Surface) WritePixels(data []byte, f Format, stride int) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	buf := make([]byte, 4*s.width*s.height)
	if err := convertToNative(buf, data, f, s.width, s.height, stride); err != nil {
		return err
	}
	if s.parent != nil {
		s.parent.prepareNative()
	}
	s.native.WritePixels(buf)
	s.allocMirror()
	copy(s.mirror.Pix, buf)
	s.nativeDirty = false
	s.mappedDirty = false
	s.markParents()
	return nil
}

// ReadPixelsInto reads the whole surface contents into data in the given
// format. Stride 0 means packed rows.
func (s *Surface) ReadPixelsInto(data []byte, f Format, stride int) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	s.ensureMirror()
	return convertFromNative(data, f, stride, s.mirror.Pix, s.width, s.height)
}

// allocMirror allocates the CPU mirror without synchronizing it.
func (s *Surface) allocMirror() {
	if s.mirror == nil {
		s.mirror = image.NewRGBA(image.Rect(0, 0, s.width, s.height))
		s.mapped = surface.NewImageSurfaceFromImage(s.mirror)
	}
}

// ensureMirror returns the software surface over an up-to-date mirror,
// reading back native pixels when they are newer.
func (s *Surface) ensureMirror() *surface.ImageSurface {
	s.allocMirror()
	if s.nativeDirty {
		if s.parent != nil {
			s.parent.prepareNative()
		}
		s.native.ReadPixels(s.mirror.Pix)
		s.nativeDirty = false
	}
	return s.mapped
}

// flushMapped uploads software-rendered pixels before native work.
func (s *Surface) flushMapped() {
	if !s.mappedDirty || s.closed {
		return
	}
	s.native.WritePixels(s.mirror.Pix)
	s.mappedDirty = false
	s.markParents()
}

// prepareNative uploads pending software work along the parent chain,
// outermost ancestor first, then this surface. Drawing natively without
// this would let a later ancestor flush overwrite the draw with a stale
// mirror, or a readback drop the ancestor's software work.
func (s *Surface) prepareNative() {
	if s.parent != nil {
		s.parent.prepareNative()
	}
	s.flushMapped()
}

// markNative records a native draw: the mirror is stale, as are the
// mirrors of any ancestors sharing the pixels.
func (s *Surface) markNative() {
	s.nativeDirty = true
	s.markParents()
}

func (s *Surface) markParents() {
	for p := s.parent; p != nil; p = p.parent {
		p.nativeDirty = true
	}
}

// clipTarget returns the native draw target restricted to the current
// rectangular clip.
func (s *Surface) clipTarget() *ebiten.Image {
	if s.clip == nil || !s.clip.isRect {
		return s.native
	}
	sub, ok := s.native.SubImage(s.clip.rect.Add(s.origin)).(*ebiten.Image)
	if !ok {
		gg.Logger().Warn("ggebiten: SubImage for clip rect failed, drawing unclipped",
			"rect", s.clip.rect)
		return s.native
	}
	return sub
}

// fillNative attempts the native fast path for Fill. It reports true when
// the operation was handled (including clipped-to-nothing no-ops).
func (s *Surface) fillNative(path *surface.Path, style surface.FillStyle) bool {
	pair, ok := blendPairFor(s.op)
	if !ok {
		return false
	}
	if s.clip != nil && !s.clip.isRect {
		return false
	}
	r, ok := rectFromPath(path)
	if !ok {
		return false
	}
	r = r.Intersect(image.Rect(0, 0, s.width, s.height))
	if s.clip != nil {
		r = r.Intersect(s.clip.rect)
	}

	switch pat := style.Pattern.(type) {
	case nil:
		if r.Empty() {
			return true
		}
		s.fillRectSolid(r, style.Color, pair)
		return true
	case *ImagePattern:
		if pat.Image == nil || !extendSupported(pat.Extend) {
			return false
		}
		if pat.Extend == ExtendNone {
			// A single blit covers the rectangle only when the
			// pattern does; partial coverage needs the fallback.
			b := pat.Image.Bounds()
			if !r.In(image.Rect(0, 0, b.Dx(), b.Dy())) {
				return false
			}
		}
		if r.Empty() {
			return true
		}
		s.fillRectPattern(r, pat, pair)
		return true
	default:
		// Gradients and unknown pattern types.
		return false
	}
}

// fillRectSolid draws a solid rectangle with the operator's blend pair.
func (s *Surface) fillRectSolid(r image.Rectangle, c color.Color, pair blendFuncPair) {
	s.prepareNative()
	if isOpaque(c) {
		pair = pair.simplifyOpaqueSource()
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(s.origin.X+r.Min.X), float64(s.origin.Y+r.Min.Y))
	op.ColorScale = colorScaleFor(c, 1)
	op.Blend = pair.blend()
	s.clipTarget().DrawImage(fillSource(), op)
	s.markNative()
}

// fillRectPattern draws an image-pattern rectangle as a blit (ExtendNone)
// or a tile blit (ExtendRepeat). The pattern is anchored at the surface
// origin.
func (s *Surface) fillRectPattern(r image.Rectangle, pat *ImagePattern, pair blendFuncPair) {
	s.prepareNative()
	if f := formatFromImage(pat.Image); f.IsValid() && !f.HasAlpha() {
		// Alpha-less source: source alpha is constant one.
		pair = pair.simplifyOpaqueSource()
	}
	src := uploadImage(pat.Image)
	defer src.Deallocate()

	nr := r.Add(s.origin)
	if s.clip != nil && s.clip.isRect {
		nr = nr.Intersect(s.clip.rect.Add(s.origin))
	}
	target, ok := s.native.SubImage(nr).(*ebiten.Image)
	if !ok {
		gg.Logger().Warn("ggebiten: SubImage for pattern rect failed, rect dropped",
			"rect", nr)
		return
	}
	blend := pair.blend()

	b := pat.Image.Bounds()
	w, h := b.Dx(), b.Dy()
	if pat.Extend == ExtendNone {
		op := &ebiten.DrawImageOptions{}
		op.Blend = blend
		op.GeoM.Translate(float64(s.origin.X), float64(s.origin.Y))
		target.DrawImage(src, op)
		s.markNative()
		return
	}

	// Tile blit: cover the rectangle with grid-aligned copies.
	startX := floorDiv(r.Min.X, w) * w
	startY := floorDiv(r.Min.Y, h) * h
	for ty := startY; ty < r.Max.Y; ty += h {
		for tx := startX; tx < r.Max.X; tx += w {
			op := &ebiten.DrawImageOptions{}
			op.Blend = blend
			op.GeoM.Translate(float64(s.origin.X+tx), float64(s.origin.Y+ty))
			target.DrawImage(src, op)
		}
	}
	s.markNative()
}

// drawImageNative attempts the native blit path for DrawImage. It reports
// true when the operation was handled.
func (s *Surface) drawImageNative(img image.Image, at surface.Point, opts *surface.DrawImageOptions) bool {
	pair, ok := blendPairFor(s.op)
	if !ok {
		return false
	}
	if s.clip != nil && !s.clip.isRect {
		return false
	}

	srcB := img.Bounds()
	if opts.SrcRect != nil {
		srcB = opts.SrcRect.Intersect(srcB)
	}
	if srcB.Empty() {
		return true
	}

	alpha := clamp01(opts.Alpha)
	if f := formatFromImage(img); f.IsValid() && !f.HasAlpha() && alpha == 1 {
		pair = pair.simplifyOpaqueSource()
	}

	s.prepareNative()
	tmp := uploadImage(img)
	defer tmp.Deallocate()

	// The upload normalizes the origin to (0, 0).
	rel := srcB.Sub(img.Bounds().Min)
	src, ok := tmp.SubImage(rel).(*ebiten.Image)
	if !ok {
		gg.Logger().Warn("ggebiten: SubImage for source rect failed, using software path",
			"rect", rel)
		return false
	}

	op := &ebiten.DrawImageOptions{}
	if opts.DstRect != nil {
		d := *opts.DstRect
		if d.Empty() {
			return true
		}
		op.GeoM.Scale(float64(d.Dx())/float64(srcB.Dx()), float64(d.Dy())/float64(srcB.Dy()))
		op.GeoM.Translate(float64(s.origin.X+d.Min.X), float64(s.origin.Y+d.Min.Y))
	} else {
		op.GeoM.Translate(float64(s.origin.X)+at.X, float64(s.origin.Y)+at.Y)
	}
	op.ColorScale.ScaleAlpha(float32(alpha))
	if opts.Filter == surface.FilterBilinear {
		op.Filter = ebiten.FilterLinear
	}
	op.Blend = pair.blend()
	s.clipTarget().DrawImage(src, op)
	s.markNative()
	return true
}

// drawImageFallback delegates a blit to the software surface, pre-scaling
// when the destination rectangle implies scaling the software path cannot
// do itself.
func (s *Surface) drawImageFallback(img image.Image, at surface.Point, opts *surface.DrawImageOptions) {
	srcB := img.Bounds()
	if opts.SrcRect != nil {
		srcB = opts.SrcRect.Intersect(srcB)
	}
	if srcB.Empty() {
		return
	}

	work := img
	workSrc := srcB
	if opts.DstRect != nil {
		d := *opts.DstRect
		if d.Empty() {
			return
		}
		if d.Dx() != srcB.Dx() || d.Dy() != srcB.Dy() {
			scaled := scaleForFallback(img, srcB, d.Dx(), d.Dy(), opts.Filter)
			work = scaled
			workSrc = scaled.Bounds()
		}
		at = surface.Pt(float64(d.Min.X), float64(d.Min.Y))
	}

	s.runFallback(func(dst *surface.ImageSurface) {
		dst.DrawImage(work, at, &surface.DrawImageOptions{
			SrcRect: &workSrc,
			Alpha:   clamp01(opts.Alpha),
		})
	})
}

// runFallback renders through the software surface, applying the clip the
// software path has no notion of. Rectangular clips restrict the copy-back
// region; path clips mask the copy-back through the rasterized coverage.
func (s *Surface) runFallback(render func(dst *surface.ImageSurface)) {
	if !operatorSupported(s.op) || (s.op != scene.BlendSourceOver && s.op != scene.BlendNormal) {
		gg.Logger().Debug("ggebiten: software fallback composites source-over",
			"operator", s.op.String())
	}

	mapped := s.ensureMirror()
	if s.clip == nil {
		render(mapped)
		s.mappedDirty = true
		return
	}

	scratch := image.NewRGBA(s.mirror.Rect)
	copy(scratch.Pix, s.mirror.Pix)
	render(surface.NewImageSurfaceFromImage(scratch))

	if s.clip.isRect {
		s.mergeRect(scratch, s.clip.rect)
	} else {
		s.mergeMask(scratch, s.clip)
	}
	s.mappedDirty = true
}

// mergeRect copies the clip rectangle from scratch into the mirror.
func (s *Surface) mergeRect(scratch *image.RGBA, r image.Rectangle) {
	r = r.Intersect(s.mirror.Rect)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := s.mirror.PixOffset(r.Min.X, y)
		j := i + 4*r.Dx()
		copy(s.mirror.Pix[i:j], scratch.Pix[i:j])
	}
}

// mergeMask blends scratch into the mirror weighted by the clip coverage,
// so anti-aliased clip edges stay smooth.
func (s *Surface) mergeMask(scratch *image.RGBA, c *clipState) {
	mask := s.clipMask(c)
	bounds := pathBounds(c.path).Intersect(s.mirror.Rect)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		off := s.mirror.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			m := mask.Pix[off+3]
			switch m {
			case 0:
				// Outside the clip.
			case 0xff:
				copy(s.mirror.Pix[off:off+4], scratch.Pix[off:off+4])
			default:
				inv := 0xff - m
				for i := 0; i < 4; i++ {
					s.mirror.Pix[off+i] = byte(uint16(mulDiv255(s.mirror.Pix[off+i], inv)) +
						uint16(mulDiv255(scratch.Pix[off+i], m)))
				}
			}
			off += 4
		}
	}
}

// clipMask rasterizes the clip path coverage once per clip state.
func (s *Surface) clipMask(c *clipState) *image.RGBA {
	if c.mask == nil {
		m := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
		ms := surface.NewImageSurfaceFromImage(m)
		ms.Fill(c.path, surface.FillStyle{
			Color: color.White,
			Rule:  surface.FillRuleNonZero,
		})
		c.mask = m
	}
	return c.mask
}

// uploadImage copies a CPU image into a temporary native image. Packed
// premultiplied RGBA uploads directly; everything else converts first.
func uploadImage(img image.Image) *ebiten.Image {
	rgba := toNativeRGBA(img)
	b := rgba.Bounds()
	tmp := ebiten.NewImage(b.Dx(), b.Dy())
	tmp.WritePixels(rgba.Pix)
	return tmp
}

var (
	fillSrcOnce sync.Once
	fillSrc     *ebiten.Image
)

// fillSource returns the 1x1 white source for solid rectangle draws.
// The center pixel of a 3x3 image avoids sampling bleed at the edges.
func fillSource() *ebiten.Image {
	fillSrcOnce.Do(func() {
		base := ebiten.NewImage(3, 3)
		base.Fill(color.White)
		fillSrc = base.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return fillSrc
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// clamp01 clamps an opacity value to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Interface checks.
var (
	_ surface.Surface          = (*Surface)(nil)
	_ surface.ClippableSurface = (*Surface)(nil)
	_ surface.BlendableSurface = (*Surface)(nil)
	_ surface.SubSurface       = (*Surface)(nil)
	_ surface.CapableSurface   = (*Surface)(nil)
)
