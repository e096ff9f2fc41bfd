// Package cpufallback implements the CPU compositing path of spec.md
// §4.7: a pooled software scaler, a work-stealing rasterizer over
// resolved item polygons, and the 8-bit premultiplied BGRA src-over
// integer blend used whenever normal blend suffices.
package cpufallback

import "github.com/fieldcast/mixer/internal/fragment"

// blendNormal8 performs 8-bit premultiplied src-over using the exact
// integer formula of spec.md §4.7: for each lane, T = D*S.a + 0x80; C =
// S + D - ((T>>8 + T)>>8); with S first clamped to S.a (guards against a
// foreground whose color channels exceed its own alpha from prior
// rounding error).
func blendNormal8(dst *Surface, x, y int, src [4]uint8) {
	i := (y*dst.Width + x) * 4
	sa := src[3]
	s := [4]uint8{
		minU8(src[0], sa),
		minU8(src[1], sa),
		minU8(src[2], sa),
		sa,
	}
	for lane := 0; lane < 4; lane++ {
		ss := uint32(s[lane])
		dd := uint32(dst.Pix[i+lane])
		t := dd*uint32(sa) + 0x80
		c := ss + dd - ((t>>8 + t) >> 8)
		if c > 255 {
			c = 255
		}
		dst.Pix[i+lane] = uint8(c)
	}
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

// quantize converts a float premultiplied RGBA sample to 8-bit BGRA lane
// order for Surface storage.
func quantize(c fragment.RGBA) [4]uint8 {
	return [4]uint8{to8(c.B), to8(c.G), to8(c.R), to8(c.A)}
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func dequantize(dst *Surface, x, y int) fragment.RGBA {
	i := (y*dst.Width + x) * 4
	return fragment.RGBA{
		R: float32(dst.Pix[i+2]) / 255,
		G: float32(dst.Pix[i+1]) / 255,
		B: float32(dst.Pix[i+0]) / 255,
		A: float32(dst.Pix[i+3]) / 255,
	}
}
