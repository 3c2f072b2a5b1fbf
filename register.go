// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"github.com/gogpu/gg/surface"
	"github.com/hajimehoshi/ebiten/v2"
)

// BackendName is the name this backend registers under in gg's surface
// registry.
const BackendName = "ebiten"

// OptionImage is the surface.Options.Custom key carrying an *ebiten.Image
// to wrap instead of creating a new one. Width and Height are taken from
// the image and ignored in the options.
const OptionImage = "ebiten.image"

func init() {
	surface.Register(BackendName, 50, newFromOptions, Available)
}

// Available reports whether the backend can create surfaces. Ebitengine
// initializes its graphics driver lazily, so creation is always possible;
// rendering still requires the application to run an Ebitengine game loop.
func Available() bool {
	return true
}

// newFromOptions is the surface.SurfaceFactory for this backend.
func newFromOptions(opts surface.Options) (surface.Surface, error) {
	var s *Surface
	if v, ok := opts.Custom[OptionImage]; ok {
		img, ok := v.(*ebiten.Image)
		if !ok {
			return nil, &InvalidOptionError{Key: OptionImage, Value: v}
		}
		var err error
		s, err = FromImage(img)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		s, err = New(opts.Width, opts.Height)
		if err != nil {
			return nil, err
		}
	}
	if opts.BackgroundColor != nil {
		s.Clear(opts.BackgroundColor)
	}
	return s, nil
}
