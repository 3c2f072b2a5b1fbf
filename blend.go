// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggebiten

import (
	"github.com/gogpu/gg/scene"
	"github.com/gogpu/gg/surface"
	"github.com/hajimehoshi/ebiten/v2"
)

// blendFuncPair is a source/destination blend factor pair in Ebitengine's
// vocabulary. Pixels composite as src*Src + dst*Dst in premultiplied-alpha
// space, which is how all Porter-Duff operators short of the separable
// blend modes decompose.
type blendFuncPair struct {
	Src ebiten.BlendFactor
	Dst ebiten.BlendFactor
}

// blendPairFor maps a compositing operator to its blend factor pair.
//
// The thirteen classical Porter-Duff operators all decompose into factor
// pairs; ok reports false for the separable and HSL blend modes, which have
// no fixed-function equivalent and must render through the software
// fallback.
func blendPairFor(op scene.BlendMode) (pair blendFuncPair, ok bool) {
	switch op {
	// Porter-Duff modes
	case scene.BlendClear:
		return blendFuncPair{ebiten.BlendFactorZero, ebiten.BlendFactorZero}, true
	case scene.BlendCopy:
		return blendFuncPair{ebiten.BlendFactorOne, ebiten.BlendFactorZero}, true
	case scene.BlendSourceOver, scene.BlendNormal: // BlendNormal is SourceOver
		return blendFuncPair{ebiten.BlendFactorOne, ebiten.BlendFactorOneMinusSourceAlpha}, true
	case scene.BlendSourceIn:
		return blendFuncPair{ebiten.BlendFactorDestinationAlpha, ebiten.BlendFactorZero}, true
	case scene.BlendSourceOut:
		return blendFuncPair{ebiten.BlendFactorOneMinusDestinationAlpha, ebiten.BlendFactorZero}, true
	case scene.BlendSourceAtop:
		return blendFuncPair{ebiten.BlendFactorDestinationAlpha, ebiten.BlendFactorOneMinusSourceAlpha}, true
	case scene.BlendDestination:
		return blendFuncPair{ebiten.BlendFactorZero, ebiten.BlendFactorOne}, true
	case scene.BlendDestinationOver:
		return blendFuncPair{ebiten.BlendFactorOneMinusDestinationAlpha, ebiten.BlendFactorOne}, true
	case scene.BlendDestinationIn:
		return blendFuncPair{ebiten.BlendFactorZero, ebiten.BlendFactorSourceAlpha}, true
	case scene.BlendDestinationOut:
		return blendFuncPair{ebiten.BlendFactorZero, ebiten.BlendFactorOneMinusSourceAlpha}, true
	case scene.BlendDestinationAtop:
		return blendFuncPair{ebiten.BlendFactorOneMinusDestinationAlpha, ebiten.BlendFactorSourceAlpha}, true
	case scene.BlendXor:
		return blendFuncPair{ebiten.BlendFactorOneMinusDestinationAlpha, ebiten.BlendFactorOneMinusSourceAlpha}, true
	case scene.BlendPlus:
		return blendFuncPair{ebiten.BlendFactorOne, ebiten.BlendFactorOne}, true
	default:
		// Separable and HSL blend modes: software fallback only.
		return blendFuncPair{}, false
	}
}

// operatorSupported reports whether the operator has a native blend pair.
func operatorSupported(op scene.BlendMode) bool {
	_, ok := blendPairFor(op)
	return ok
}

// simplifyOpaqueSource rewrites factors that read source alpha for the case
// of a solid, fully opaque source: SourceAlpha is one, so
// BlendFactorSourceAlpha becomes One and BlendFactorOneMinusSourceAlpha
// becomes Zero. Other factors are untouched.
func (p blendFuncPair) simplifyOpaqueSource() blendFuncPair {
	switch p.Src {
	case ebiten.BlendFactorSourceAlpha:
		p.Src = ebiten.BlendFactorOne
	case ebiten.BlendFactorOneMinusSourceAlpha:
		p.Src = ebiten.BlendFactorZero
	}
	switch p.Dst {
	case ebiten.BlendFactorSourceAlpha:
		p.Dst = ebiten.BlendFactorOne
	case ebiten.BlendFactorOneMinusSourceAlpha:
		p.Dst = ebiten.BlendFactorZero
	}
	return p
}

// isOpaqueCopy reports whether the pair is a plain source write with no
// blending, the case where the draw needs no read of the destination.
func (p blendFuncPair) isOpaqueCopy() bool {
	return p.Src == ebiten.BlendFactorOne && p.Dst == ebiten.BlendFactorZero
}

// blend expands the pair into Ebitengine's full blend descriptor. The same
// factors apply to the color and alpha channels, with an additive blend
// operation, matching how a source/destination function pair is specified
// on a display surface.
func (p blendFuncPair) blend() ebiten.Blend {
	return ebiten.Blend{
		BlendFactorSourceRGB:        p.Src,
		BlendFactorSourceAlpha:      p.Src,
		BlendFactorDestinationRGB:   p.Dst,
		BlendFactorDestinationAlpha: p.Dst,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}

// modeToOperator maps the surface package's blend mode enum onto the scene
// operator enumeration used internally.
func modeToOperator(mode surface.BlendMode) scene.BlendMode {
	switch mode {
	case surface.BlendModeMultiply:
		return scene.BlendMultiply
	case surface.BlendModeScreen:
		return scene.BlendScreen
	case surface.BlendModeOverlay:
		return scene.BlendOverlay
	case surface.BlendModeClear:
		return scene.BlendClear
	case surface.BlendModeCopy:
		return scene.BlendCopy
	default:
		return scene.BlendSourceOver
	}
}

// operatorToMode is the reverse mapping. ok reports false for operators the
// surface package's enum cannot express.
func operatorToMode(op scene.BlendMode) (surface.BlendMode, bool) {
	switch op {
	case scene.BlendSourceOver, scene.BlendNormal:
		return surface.BlendModeSourceOver, true
	case scene.BlendMultiply:
		return surface.BlendModeMultiply, true
	case scene.BlendScreen:
		return surface.BlendModeScreen, true
	case scene.BlendOverlay:
		return surface.BlendModeOverlay, true
	case scene.BlendClear:
		return surface.BlendModeClear, true
	case scene.BlendCopy:
		return surface.BlendModeCopy, true
	default:
		return surface.BlendModeSourceOver, false
	}
}
