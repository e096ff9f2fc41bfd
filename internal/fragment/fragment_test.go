package fragment

import (
	"testing"

	"github.com/fieldcast/mixer/internal/colorspace"
)

func TestApplyIdentityParamsIsNoop(t *testing.T) {
	c := RGBA{R: 0.3, G: 0.5, B: 0.7, A: 0.8}
	p := Params{
		Levels: Levels{Enabled: false},
		CSB:    CSB{Brightness: 1, Saturation: 1, Contrast: 1},
		Opacity: 1,
	}
	got := Apply(c, p)
	approxRGBA(t, got, c, 1e-5)
}

func TestApplyOpacityScalesEveryChannel(t *testing.T) {
	c := RGBA{R: 0.4, G: 0.4, B: 0.4, A: 1}
	p := Params{Opacity: 0.5}
	got := Apply(c, p)
	want := RGBA{R: 0.2, G: 0.2, B: 0.2, A: 0.5}
	approxRGBA(t, got, want, 1e-5)
}

func TestApplyInvertFlipsRGBBeforePremultiply(t *testing.T) {
	// Invert then premultiply: (1-0.2)*0.5 = 0.4. The other order would
	// give 1-0.2*0.5 = 0.9.
	c := RGBA{R: 0.2, G: 0.2, B: 0.2, A: 0.5}
	p := Params{Invert: true, StraightAlpha: true, Opacity: 1}
	got := Apply(c, p)
	want := RGBA{R: 0.4, G: 0.4, B: 0.4, A: 0.5}
	approxRGBA(t, got, want, 1e-5)
}

func TestApplyStraightAlphaPremultiplies(t *testing.T) {
	c := RGBA{R: 1, G: 1, B: 1, A: 0.25}
	p := Params{StraightAlpha: true, Opacity: 1}
	got := Apply(c, p)
	want := RGBA{R: 0.25, G: 0.25, B: 0.25, A: 0.25}
	approxRGBA(t, got, want, 1e-5)
}

func TestApplyCSBIdentityIsNoop(t *testing.T) {
	c := RGBA{R: 0.6, G: 0.3, B: 0.1, A: 1}
	got := applyCSB(c, CSB{Brightness: 1, Saturation: 1, Contrast: 1}, colorspace.BT601)
	approxRGBA(t, got, c, 1e-5)
}

func TestApplyCSBZeroSaturationIsGray(t *testing.T) {
	c := RGBA{R: 0.9, G: 0.1, B: 0.1, A: 1}
	got := applyCSB(c, CSB{Brightness: 1, Saturation: 0, Contrast: 1}, colorspace.BT601)
	if got.R != got.G || got.G != got.B {
		t.Fatalf("zero saturation should collapse to gray, got %+v", got)
	}
}

func TestApplyLevelsClampsToOutputRange(t *testing.T) {
	c := RGBA{R: 2, G: -1, B: 0.5, A: 1}
	l := Levels{Enabled: true, MinInput: 0, MaxInput: 1, MinOutput: 0, MaxOutput: 1, Gamma: 1}
	got := applyLevels(c, l)
	if got.R > 1 || got.G < 0 {
		t.Fatalf("levels remap must clamp to [min,max]output, got %+v", got)
	}
}

func TestApplyChromaShowMaskReturnsAlphaGray(t *testing.T) {
	green := RGBA{R: 0, G: 1, B: 0, A: 1}
	ch := Chroma{
		Enable:        true,
		ShowMask:      true,
		TargetHue:     120,
		HueWidth:      0.1,
		MinSaturation: 0.2,
		MinBrightness: 0.2,
		Softness:      0.05,
	}
	got := applyChroma(green, ch)
	if got.R != got.G || got.G != got.B {
		t.Fatalf("show_mask output must be achromatic, got %+v", got)
	}
}

func TestApplyChromaKeysOutTargetHue(t *testing.T) {
	green := RGBA{R: 0, G: 1, B: 0, A: 1}
	ch := Chroma{
		Enable:        true,
		TargetHue:     120,
		HueWidth:      0.1,
		MinSaturation: 0.2,
		MinBrightness: 0.2,
		Softness:      0.05,
	}
	got := applyChroma(green, ch)
	if got.A > 0.1 {
		t.Fatalf("a pure target-hue pixel should key out near-transparent, got alpha %v", got.A)
	}
}

func TestApplyChromaLeavesUnrelatedHueOpaque(t *testing.T) {
	red := RGBA{R: 1, G: 0, B: 0, A: 1}
	ch := Chroma{
		Enable:        true,
		TargetHue:     120,
		HueWidth:      0.1,
		MinSaturation: 0.2,
		MinBrightness: 0.2,
		Softness:      0.05,
	}
	got := applyChroma(red, ch)
	if got.A < 0.9 {
		t.Fatalf("a pixel far from the target hue should stay opaque, got alpha %v", got.A)
	}
}
