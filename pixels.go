// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"image"
	"image/draw"

	"github.com/gogpu/gg/surface"
	xdraw "golang.org/x/image/draw"
)

// mulDiv255 multiplies two byte values and divides by 255 with proper rounding.
// Formula: (a * b + 127) / 255
func mulDiv255(a, b byte) byte {
	return byte((uint16(a)*uint16(b) + 127) / 255)
}

// unmul255 reverses premultiplication: c*255/a with rounding.
// Zero alpha yields zero.
func unmul255(c, a byte) byte {
	if a == 0 {
		return 0
	}
	v := (uint16(c)*255 + uint16(a)/2) / uint16(a)
	if v > 255 {
		v = 255
	}
	return byte(v)
}

// expand5 replicates a 5-bit channel value to 8 bits.
func expand5(v byte) byte { return v<<3 | v>>2 }

// expand6 replicates a 6-bit channel value to 8 bits.
func expand6(v byte) byte { return v<<2 | v>>4 }

// expand4 replicates a 4-bit channel value to 8 bits.
func expand4(v byte) byte { return v<<4 | v }

// convertToNative converts src pixels in format f into the native packed
// RGBA8-premultiplied layout in dst.
//
// dst must hold 4*w*h bytes. src rows are stride bytes apart; stride 0 means
// packed rows, and any other stride below one row's bytes is rejected.
// The converters follow the layouts documented on Format.
func convertToNative(dst, src []byte, f Format, w, h, stride int) error {
	if !f.IsValid() {
		return &UnsupportedFormatError{Format: f}
	}
	if stride == 0 {
		stride = f.RowBytes(w)
	}
	if stride < f.RowBytes(w) {
		return &InvalidStrideError{Stride: stride, Min: f.RowBytes(w)}
	}
	if need := stride*(h-1) + f.RowBytes(w); h > 0 && len(src) < need {
		return &ShortBufferError{Need: need, Got: len(src)}
	}
	if need := 4 * w * h; len(dst) < need {
		return &ShortBufferError{Need: need, Got: len(dst)}
	}

	for y := 0; y < h; y++ {
		row := src[y*stride:]
		out := dst[y*4*w:]
		for x := 0; x < w; x++ {
			d := out[x*4 : x*4+4 : x*4+4]
			switch f {
			case FormatRGBA8Premul:
				s := row[x*4 : x*4+4]
				copy(d, s)
			case FormatRGBA8:
				s := row[x*4 : x*4+4]
				a := s[3]
				d[0] = mulDiv255(s[0], a)
				d[1] = mulDiv255(s[1], a)
				d[2] = mulDiv255(s[2], a)
				d[3] = a
			case FormatBGRA8Premul:
				s := row[x*4 : x*4+4]
				d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
			case FormatBGRA8:
				s := row[x*4 : x*4+4]
				a := s[3]
				d[0] = mulDiv255(s[2], a)
				d[1] = mulDiv255(s[1], a)
				d[2] = mulDiv255(s[0], a)
				d[3] = a
			case FormatRGB8:
				s := row[x*3 : x*3+3]
				d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
			case FormatGray8:
				v := row[x]
				d[0], d[1], d[2], d[3] = v, v, v, 0xff
			case FormatAlpha8:
				d[0], d[1], d[2], d[3] = 0, 0, 0, row[x]
			case FormatRGB565:
				p := uint16(row[x*2]) | uint16(row[x*2+1])<<8
				d[0] = expand5(byte(p >> 11 & 0x1f))
				d[1] = expand6(byte(p >> 5 & 0x3f))
				d[2] = expand5(byte(p & 0x1f))
				d[3] = 0xff
			case FormatRGB555:
				p := uint16(row[x*2]) | uint16(row[x*2+1])<<8
				d[0] = expand5(byte(p >> 10 & 0x1f))
				d[1] = expand5(byte(p >> 5 & 0x1f))
				d[2] = expand5(byte(p & 0x1f))
				d[3] = 0xff
			case FormatRGBA4444:
				p := uint16(row[x*2]) | uint16(row[x*2+1])<<8
				a := expand4(byte(p & 0xf))
				d[0] = mulDiv255(expand4(byte(p>>12&0xf)), a)
				d[1] = mulDiv255(expand4(byte(p>>8&0xf)), a)
				d[2] = mulDiv255(expand4(byte(p>>4&0xf)), a)
				d[3] = a
			}
		}
	}
	return nil
}

// convertFromNative converts native packed RGBA8-premultiplied pixels in src
// into format f in dst. The inverse of convertToNative; lossy for formats
// with fewer bits per channel or no alpha.
func convertFromNative(dst []byte, f Format, stride int, src []byte, w, h int) error {
	if !f.IsValid() {
		return &UnsupportedFormatError{Format: f}
	}
	if stride == 0 {
		stride = f.RowBytes(w)
	}
	if stride < f.RowBytes(w) {
		return &InvalidStrideError{Stride: stride, Min: f.RowBytes(w)}
	}
	if need := stride*(h-1) + f.RowBytes(w); h > 0 && len(dst) < need {
		return &ShortBufferError{Need: need, Got: len(dst)}
	}
	if need := 4 * w * h; len(src) < need {
		return &ShortBufferError{Need: need, Got: len(src)}
	}

	for y := 0; y < h; y++ {
		row := src[y*4*w:]
		out := dst[y*stride:]
		for x := 0; x < w; x++ {
			s := row[x*4 : x*4+4]
			r, g, b, a := s[0], s[1], s[2], s[3]
			switch f {
			case FormatRGBA8Premul:
				copy(out[x*4:x*4+4], s)
			case FormatRGBA8:
				out[x*4+0] = unmul255(r, a)
				out[x*4+1] = unmul255(g, a)
				out[x*4+2] = unmul255(b, a)
				out[x*4+3] = a
			case FormatBGRA8Premul:
				out[x*4+0], out[x*4+1], out[x*4+2], out[x*4+3] = b, g, r, a
			case FormatBGRA8:
				out[x*4+0] = unmul255(b, a)
				out[x*4+1] = unmul255(g, a)
				out[x*4+2] = unmul255(r, a)
				out[x*4+3] = a
			case FormatRGB8:
				out[x*3+0], out[x*3+1], out[x*3+2] = r, g, b
			case FormatGray8:
				// ITU-R BT.601 luma weights, integer form.
				out[x] = byte((299*uint32(r) + 587*uint32(g) + 114*uint32(b)) / 1000)
			case FormatAlpha8:
				out[x] = a
			case FormatRGB565:
				p := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
				out[x*2], out[x*2+1] = byte(p), byte(p>>8)
			case FormatRGB555:
				p := uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(b>>3)
				out[x*2], out[x*2+1] = byte(p), byte(p>>8)
			case FormatRGBA4444:
				sr := unmul255(r, a)
				sg := unmul255(g, a)
				sb := unmul255(b, a)
				p := uint16(sr>>4)<<12 | uint16(sg>>4)<<8 | uint16(sb>>4)<<4 | uint16(a>>4)
				out[x*2], out[x*2+1] = byte(p), byte(p>>8)
			}
		}
	}
	return nil
}

// toNativeRGBA returns img as a packed, premultiplied *image.RGBA with
// origin at (0,0).
//
// When img is already such an image it is returned directly, so the result
// must be treated as read-only. Everything else converts through image/draw,
// which premultiplies straight-alpha sources.
func toNativeRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok {
		if b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
			return rgba
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// scaleForFallback resamples a source region to dstW x dstH for delegation
// to the software surface, which blits 1:1 only.
func scaleForFallback(img image.Image, srcRect image.Rectangle, dstW, dstH int, filter surface.Filter) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	var scaler xdraw.Scaler
	switch filter {
	case surface.FilterBilinear:
		scaler = xdraw.ApproxBiLinear
	default:
		scaler = xdraw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), img, srcRect, xdraw.Src, nil)
	return dst
}
