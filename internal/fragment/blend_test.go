package fragment

import "testing"

func approxRGBA(t *testing.T, got, want RGBA, eps float32) {
	t.Helper()
	diff := func(a, b float32) float32 {
		if a > b {
			return a - b
		}
		return b - a
	}
	if diff(got.R, want.R) > eps || diff(got.G, want.G) > eps ||
		diff(got.B, want.B) > eps || diff(got.A, want.A) > eps {
		t.Fatalf("got %+v, want %+v (eps %v)", got, want, eps)
	}
}

func TestBlendNormalIsSrcOver(t *testing.T) {
	back := RGBA{R: 0.2, G: 0.2, B: 0.2, A: 1}
	fore := RGBA{R: 1, G: 0, B: 0, A: 0.5}
	got := Blend(back, fore, BlendNormal, KeyerLinear)
	want := RGBA{
		R: fore.R + (1-fore.A)*back.R,
		G: fore.G + (1-fore.A)*back.G,
		B: fore.B + (1-fore.A)*back.B,
		A: fore.A + (1-fore.A)*back.A,
	}
	approxRGBA(t, got, want, 1e-5)
}

func TestBlendMultiplyOpaqueOverOpaque(t *testing.T) {
	back := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	fore := RGBA{R: 0.4, G: 0.6, B: 1, A: 1}
	got := Blend(back, fore, BlendMultiply, KeyerLinear)
	want := RGBA{R: 0.2, G: 0.3, B: 0.5, A: 1}
	approxRGBA(t, got, want, 1e-5)
}

func TestBlendScreenIdentityOnBlack(t *testing.T) {
	back := RGBA{}
	fore := RGBA{R: 0.3, G: 0.6, B: 0.9, A: 1}
	got := Blend(back, fore, BlendScreen, KeyerLinear)
	approxRGBA(t, got, fore, 1e-5)
}

func TestBlendDifferenceIsCommutative(t *testing.T) {
	a := RGBA{R: 0.9, G: 0.2, B: 0.4, A: 1}
	b := RGBA{R: 0.1, G: 0.8, B: 0.4, A: 1}
	got1 := Blend(a, b, BlendDifference, KeyerLinear)
	got2 := Blend(b, a, BlendDifference, KeyerLinear)
	approxRGBA(t, got1, got2, 1e-5)
}

func TestBlendLuminosityPreservesBackdropChroma(t *testing.T) {
	back := RGBA{R: 0.8, G: 0.2, B: 0.2, A: 1}
	fore := RGBA{R: 0.1, G: 0.1, B: 0.9, A: 1}
	got := Blend(back, fore, BlendLuminosity, KeyerLinear)
	// Luminosity keeps the backdrop's hue/saturation and takes the
	// foreground's luma: the result must not equal either pure input.
	if got == back || got == fore {
		t.Fatalf("expected a genuinely blended result, got %+v", got)
	}
}

func TestKeyerAdditiveClamps(t *testing.T) {
	back := RGBA{R: 0.9, G: 0.9, B: 0.9, A: 0.9}
	fore := RGBA{R: 0.9, G: 0.9, B: 0.9, A: 0.9}
	got := Blend(back, fore, BlendNormal, KeyerAdditive)
	if got.R > 1 || got.G > 1 || got.B > 1 || got.A > 1 {
		t.Fatalf("additive keyer must clamp to [0,1], got %+v", got)
	}
}

func TestSetSatZeroCollapsesToGray(t *testing.T) {
	c := setSat(straight{r: 0.9, g: 0.3, b: 0.1}, 0)
	if c.r != 0 || c.g != 0 || c.b != 0 {
		t.Fatalf("setSat(_, 0) should zero every channel, got %+v", c)
	}
}

func TestClipColorKeepsInRangeInput(t *testing.T) {
	in := straight{r: 0.5, g: 0.6, b: 0.4}
	got := clipColor(in)
	approxRGBA(t, RGBA{R: got.r, G: got.g, B: got.b}, RGBA{R: in.r, G: in.g, B: in.b}, 1e-5)
}
