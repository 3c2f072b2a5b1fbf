// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"image"
	"testing"
)

// TestFormatInfo tests the pixel format descriptor table.
func TestFormatInfo(t *testing.T) {
	tests := []struct {
		f    Format
		want FormatInfo
	}{
		{FormatRGBA8Premul, FormatInfo{BytesPerPixel: 4, HasAlpha: true, Premultiplied: true}},
		{FormatRGBA8, FormatInfo{BytesPerPixel: 4, HasAlpha: true}},
		{FormatBGRA8Premul, FormatInfo{BytesPerPixel: 4, HasAlpha: true, Premultiplied: true}},
		{FormatBGRA8, FormatInfo{BytesPerPixel: 4, HasAlpha: true}},
		{FormatRGB8, FormatInfo{BytesPerPixel: 3}},
		{FormatGray8, FormatInfo{BytesPerPixel: 1}},
		{FormatAlpha8, FormatInfo{BytesPerPixel: 1, HasAlpha: true, Premultiplied: true}},
		{FormatRGB565, FormatInfo{BytesPerPixel: 2, Packed: true}},
		{FormatRGB555, FormatInfo{BytesPerPixel: 2, Packed: true}},
		{FormatRGBA4444, FormatInfo{BytesPerPixel: 2, HasAlpha: true, Packed: true}},
		{FormatInvalid, FormatInfo{}},
		{Format(200), FormatInfo{}},
	}

	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			if got := tt.f.Info(); got != tt.want {
				t.Errorf("Info() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestFormatIsValid tests validity bounds of the format enum.
func TestFormatIsValid(t *testing.T) {
	if FormatInvalid.IsValid() {
		t.Error("FormatInvalid should not be valid")
	}
	if !FormatRGBA8Premul.IsValid() || !FormatRGBA4444.IsValid() {
		t.Error("known formats should be valid")
	}
	if formatCount.IsValid() || Format(200).IsValid() {
		t.Error("out-of-range values should not be valid")
	}
}

// TestFormatString tests format names.
func TestFormatString(t *testing.T) {
	if got := FormatRGBA8Premul.String(); got != "RGBA8Premul" {
		t.Errorf("String() = %q, want %q", got, "RGBA8Premul")
	}
	if got := FormatInvalid.String(); got != "Invalid" {
		t.Errorf("String() = %q, want %q", got, "Invalid")
	}
	if got := Format(200).String(); got != "Invalid" {
		t.Errorf("String() = %q, want %q", got, "Invalid")
	}
}

// TestFormatRowBytes tests row and image size computation.
func TestFormatRowBytes(t *testing.T) {
	if got := FormatRGBA8Premul.RowBytes(10); got != 40 {
		t.Errorf("RGBA8Premul.RowBytes(10) = %d, want 40", got)
	}
	if got := FormatRGB565.RowBytes(10); got != 20 {
		t.Errorf("RGB565.RowBytes(10) = %d, want 20", got)
	}
	if got := FormatRGB8.ImageBytes(10, 5); got != 150 {
		t.Errorf("RGB8.ImageBytes(10, 5) = %d, want 150", got)
	}
	if got := FormatInvalid.RowBytes(10); got != 0 {
		t.Errorf("Invalid.RowBytes(10) = %d, want 0", got)
	}
}

// TestFormatFromImage tests standard library image classification.
func TestFormatFromImage(t *testing.T) {
	r := image.Rect(0, 0, 2, 2)
	tests := []struct {
		name string
		img  image.Image
		want Format
	}{
		{"RGBA", image.NewRGBA(r), FormatRGBA8Premul},
		{"NRGBA", image.NewNRGBA(r), FormatRGBA8},
		{"Gray", image.NewGray(r), FormatGray8},
		{"Alpha", image.NewAlpha(r), FormatAlpha8},
		// No direct byte-level representation: general conversion path.
		{"Gray16", image.NewGray16(r), FormatInvalid},
		{"NRGBA64", image.NewNRGBA64(r), FormatInvalid},
		{"Paletted", image.NewPaletted(r, nil), FormatInvalid},
		{"YCbCr", image.NewYCbCr(r, image.YCbCrSubsampleRatio420), FormatInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatFromImage(tt.img); got != tt.want {
				t.Errorf("formatFromImage = %v, want %v", got, tt.want)
			}
		})
	}
}
