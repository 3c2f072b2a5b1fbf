// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import "image"

// Format represents a CPU-side pixel storage format the transfer paths can
// convert to and from the display surface's native layout.
//
// Ebitengine surfaces store pixels as 32-bit RGBA with premultiplied alpha;
// every other format here is converted on upload and readback. Formats are
// little-endian within each pixel; the packed 16-bit formats store the pixel
// as one little-endian uint16.
type Format uint8

const (
	// FormatInvalid is the zero value, reported for images with no direct
	// byte-level representation (paletted, YCbCr, 16-bit-per-channel, ...).
	FormatInvalid Format = iota

	// FormatRGBA8Premul is 32-bit RGBA with premultiplied alpha.
	// This is the native layout; transfers are straight copies.
	FormatRGBA8Premul

	// FormatRGBA8 is 32-bit RGBA with straight (non-premultiplied) alpha.
	FormatRGBA8

	// FormatBGRA8Premul is 32-bit BGRA with premultiplied alpha.
	// Common for window-system framebuffers.
	FormatBGRA8Premul

	// FormatBGRA8 is 32-bit BGRA with straight alpha.
	FormatBGRA8

	// FormatRGB8 is 24-bit RGB with no alpha channel.
	FormatRGB8

	// FormatGray8 is 8-bit grayscale, broadcast to RGB on upload.
	FormatGray8

	// FormatAlpha8 is 8-bit alpha only; color channels are zero in
	// premultiplied terms.
	FormatAlpha8

	// FormatRGB565 is 16-bit RGB packed 5-6-5.
	FormatRGB565

	// FormatRGB555 is 16-bit RGB packed 5-5-5; the top bit is ignored.
	FormatRGB555

	// FormatRGBA4444 is 16-bit RGBA packed 4-4-4-4 with straight alpha.
	FormatRGBA4444

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// HasAlpha indicates if the format carries an alpha channel.
	HasAlpha bool

	// Premultiplied indicates if color channels are pre-scaled by alpha.
	Premultiplied bool

	// Packed indicates a sub-byte channel layout (16-bit packed formats).
	Packed bool
}

// formatInfoTable contains metadata for each format.
var formatInfoTable = [formatCount]FormatInfo{
	FormatInvalid: {},
	FormatRGBA8Premul: {
		BytesPerPixel: 4,
		HasAlpha:      true,
		Premultiplied: true,
	},
	FormatRGBA8: {
		BytesPerPixel: 4,
		HasAlpha:      true,
	},
	FormatBGRA8Premul: {
		BytesPerPixel: 4,
		HasAlpha:      true,
		Premultiplied: true,
	},
	FormatBGRA8: {
		BytesPerPixel: 4,
		HasAlpha:      true,
	},
	FormatRGB8: {
		BytesPerPixel: 3,
	},
	FormatGray8: {
		BytesPerPixel: 1,
	},
	FormatAlpha8: {
		BytesPerPixel: 1,
		HasAlpha:      true,
		Premultiplied: true,
	},
	FormatRGB565: {
		BytesPerPixel: 2,
		Packed:        true,
	},
	FormatRGB555: {
		BytesPerPixel: 2,
		Packed:        true,
	},
	FormatRGBA4444: {
		BytesPerPixel: 2,
		HasAlpha:      true,
		Packed:        true,
	},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// HasAlpha returns true if this format carries an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// Premultiplied returns true if color channels are pre-scaled by alpha.
func (f Format) Premultiplied() bool {
	return f.Info().Premultiplied
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8Premul:
		return "RGBA8Premul"
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8Premul:
		return "BGRA8Premul"
	case FormatBGRA8:
		return "BGRA8"
	case FormatRGB8:
		return "RGB8"
	case FormatGray8:
		return "Gray8"
	case FormatAlpha8:
		return "Alpha8"
	case FormatRGB565:
		return "RGB565"
	case FormatRGB555:
		return "RGB555"
	case FormatRGBA4444:
		return "RGBA4444"
	default:
		return "Invalid"
	}
}

// IsValid returns true if the format is a known transferable format.
func (f Format) IsValid() bool {
	return f > FormatInvalid && f < formatCount
}

// RowBytes calculates the number of bytes needed for a packed row of the
// given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}

// formatFromImage classifies a standard library image by its storage format.
//
// Only types whose pixel data maps directly onto a Format are classified;
// everything else reports FormatInvalid and takes the general conversion
// path through image/draw.
func formatFromImage(img image.Image) Format {
	switch img.(type) {
	case *image.RGBA:
		return FormatRGBA8Premul
	case *image.NRGBA:
		return FormatRGBA8
	case *image.Gray:
		return FormatGray8
	case *image.Alpha:
		return FormatAlpha8
	default:
		return FormatInvalid
	}
}
