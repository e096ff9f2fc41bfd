// Package fragment implements the per-pixel shader contract of spec.md
// §4.5 as a pure Go reference path: invert, premultiply, levels, CSB,
// chroma key with spill suppression, key masks, opacity and blend.
// Sampling, decode and color-space conversion happen before Apply, in the
// root package's sample.go. Both the CPU fallback compositor and the
// GPU accelerator's readback verification path call into this package, so
// the pixel math is defined exactly once.
package fragment

import (
	"math"

	"github.com/fieldcast/mixer/internal/colorspace"
	"github.com/fieldcast/mixer/internal/wide"
)

// RGBA is a premultiplied-alpha pixel in [0,1] float space.
type RGBA struct{ R, G, B, A float32 }

func (c RGBA) clamp01() RGBA {
	lanes := wide.F32x8{c.R, c.G, c.B, c.A}.Clamp(0, 1)
	return RGBA{lanes[0], lanes[1], lanes[2], lanes[3]}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Levels mirrors the image_transform levels record (spec.md §3).
type Levels struct {
	Enabled                                       bool
	MinInput, MaxInput, MinOutput, MaxOutput, Gamma float64
}

// CSB is contrast/saturation/brightness, identity = 1 for each.
type CSB struct {
	Brightness, Saturation, Contrast float64
}

// Chroma mirrors the image_transform chroma record (spec.md §3/§4.5 step 7).
type Chroma struct {
	Enable                  bool
	ShowMask                bool
	TargetHue               float64
	HueWidth                float64
	MinSaturation           float64
	MinBrightness           float64
	Softness                float64
	SpillSuppress           float64
	SpillSuppressSaturation float64
}

// Keyer selects how foreground and background combine after blending
// (spec.md §4.5 step 10).
type Keyer int

const (
	KeyerLinear Keyer = iota
	KeyerAdditive
)

// Params bundles the per-draw uniform_block fields that steps 3-10 read.
type Params struct {
	Invert          bool
	StraightAlpha   bool
	Levels          Levels
	CSBEnabled      bool
	CSB             CSB
	Chroma          Chroma
	HasLocalKey     bool
	LocalKeyR       float32
	HasLayerKey     bool
	LayerKeyR       float32
	Opacity         float64
	Space           colorspace.Space
}

// Apply runs steps 3-9 of spec.md §4.5 on one decoded (already-assembled
// RGBA) sample, leaving blend (step 10) to the caller, which has access to
// the background sample.
func Apply(c RGBA, p Params) RGBA {
	if p.Invert {
		c.R, c.G, c.B = 1-c.R, 1-c.G, 1-c.B
	}
	if p.StraightAlpha {
		c.R *= c.A
		c.G *= c.A
		c.B *= c.A
	}
	if p.Levels.Enabled {
		c = applyLevels(c, p.Levels)
	}
	if p.CSBEnabled {
		c = applyCSB(c, p.CSB, p.Space)
	}
	if p.Chroma.Enable {
		c = applyChroma(c, p.Chroma)
	}
	if p.HasLocalKey {
		c = scaleRGBA(c, p.LocalKeyR)
	}
	if p.HasLayerKey {
		c = scaleRGBA(c, p.LayerKeyR)
	}
	c = scaleRGBA(c, float32(p.Opacity))
	return c.clamp01()
}

func scaleRGBA(c RGBA, s float32) RGBA {
	return RGBA{c.R * s, c.G * s, c.B * s, c.A * s}
}

func applyLevels(c RGBA, l Levels) RGBA {
	span := l.MaxInput - l.MinInput
	if span == 0 {
		span = 1
	}
	invGamma := 1.0
	if l.Gamma != 0 {
		invGamma = 1.0 / l.Gamma
	}
	remap := func(v float32) float32 {
		x := (float64(v) - l.MinInput) / span
		if x < 0 {
			x = 0
		}
		if x > 1 {
			x = 1
		}
		x = math.Pow(x, invGamma)
		return float32(l.MinOutput + x*(l.MaxOutput-l.MinOutput))
	}
	return RGBA{remap(c.R), remap(c.G), remap(c.B), c.A}
}

// applyCSB applies contrast, saturation and brightness using the
// color-space's own luma coefficients (spec.md §4.5 step 6: "luminance
// coefficients depend on HD/SD flag").
func applyCSB(c RGBA, csb CSB, space colorspace.Space) RGBA {
	kr, kg, kb := colorspace.MatrixFor(space).LumaCoefficients()

	rgb := wide.F32x8{c.R, c.G, c.B}.Mul(wide.Splat(float32(csb.Brightness)))

	luma := kr*rgb[0] + kg*rgb[1] + kb*rgb[2]
	rgb = wide.Splat(luma).Lerp(rgb, wide.Splat(float32(csb.Saturation)))

	const pivot = 0.5
	rgb = wide.Splat(pivot).Lerp(rgb, wide.Splat(float32(csb.Contrast)))

	return RGBA{rgb[0], rgb[1], rgb[2], c.A}
}
