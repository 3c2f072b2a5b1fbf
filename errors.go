// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"errors"
	"fmt"
)

// Common errors returned by surface operations.
var (
	// ErrSurfaceClosed is returned when operations are attempted on a closed surface.
	ErrSurfaceClosed = errors.New("ggebiten: surface is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("ggebiten: invalid dimensions")

	// ErrNilImage is returned when a nil *ebiten.Image is passed to FromImage.
	ErrNilImage = errors.New("ggebiten: nil ebiten image")

	// ErrInvalidBounds is returned when a sub-surface rectangle does not fit
	// inside the parent surface.
	ErrInvalidBounds = errors.New("ggebiten: bounds outside surface")
)

// UnsupportedFormatError indicates a pixel format the transfer paths cannot
// handle.
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return "ggebiten: unsupported pixel format: " + e.Format.String()
}

// InvalidStrideError indicates a row stride smaller than one row of pixels.
type InvalidStrideError struct {
	Stride int
	Min    int
}

func (e *InvalidStrideError) Error() string {
	return fmt.Sprintf("ggebiten: invalid row stride %d: need at least %d bytes", e.Stride, e.Min)
}

// ShortBufferError indicates a pixel buffer smaller than the transfer
// requires.
type ShortBufferError struct {
	Need int
	Got  int
}

func (e *ShortBufferError) Error() string {
	return fmt.Sprintf("ggebiten: pixel buffer too short: need %d bytes, got %d", e.Need, e.Got)
}

// InvalidOptionError indicates a backend option with an unusable value.
type InvalidOptionError struct {
	Key   string
	Value any
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("ggebiten: invalid option %q: %T", e.Key, e.Value)
}
