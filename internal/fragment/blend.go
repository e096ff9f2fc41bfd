package fragment

import "math"

// BlendMode mirrors the root package's BlendMode enum and ordering so
// callers can pass mixer.BlendMode values through an int conversion
// without this package importing the root package (which would create an
// import cycle).
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendLighten
	BlendDarken
	BlendMultiply
	BlendAverage
	BlendAdd
	BlendSubtract
	BlendDifference
	BlendNegation
	BlendExclusion
	BlendScreen
	BlendOverlay
	BlendHardLight
	BlendColorDodge
	BlendColorBurn
	BlendLinearDodge
	BlendLinearBurn
	BlendLinearLight
	BlendVividLight
	BlendPinLight
	BlendHardMix
	BlendReflect
	BlendGlow
	BlendPhoenix
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

// straight is an unpremultiplied RGB triple, the domain the W3C
// Compositing and Blending separable/non-separable formulas operate on.
type straight struct{ r, g, b float32 }

func unpremultiply(c RGBA) straight {
	if c.A <= 0 {
		return straight{}
	}
	return straight{c.R / c.A, c.G / c.A, c.B / c.A}
}

// Blend computes BlendX(back, fore) per spec.md §4.5 step 10, then
// combines with the keyer rule, operating throughout on premultiplied
// RGBA as the pipeline requires.
func Blend(back, fore RGBA, mode BlendMode, keyer Keyer) RGBA {
	bs := unpremultiply(back)
	fs := unpremultiply(fore)
	blended := blendSeparableOrHSL(bs, fs, mode)

	// W3C compositing: mix the blended result with the unblended source
	// proportional to the backdrop's coverage, then re-premultiply by the
	// foreground's own alpha before combining with the backdrop.
	mix := straight{
		r: (1-back.A)*fs.r + back.A*blended.r,
		g: (1-back.A)*fs.g + back.A*blended.g,
		b: (1-back.A)*fs.b + back.A*blended.b,
	}
	blendedFore := RGBA{mix.r * fore.A, mix.g * fore.A, mix.b * fore.A, fore.A}

	switch keyer {
	case KeyerAdditive:
		return RGBA{
			clamp(blendedFore.R+back.R, 0, 1),
			clamp(blendedFore.G+back.G, 0, 1),
			clamp(blendedFore.B+back.B, 0, 1),
			clamp(blendedFore.A+back.A, 0, 1),
		}
	default: // KeyerLinear
		inv := 1 - blendedFore.A
		return RGBA{
			blendedFore.R + inv*back.R,
			blendedFore.G + inv*back.G,
			blendedFore.B + inv*back.B,
			blendedFore.A + inv*back.A,
		}
	}
}

func blendSeparableOrHSL(cb, cs straight, mode BlendMode) straight {
	switch mode {
	case BlendHue, BlendSaturation, BlendColor, BlendLuminosity:
		return blendNonSeparable(cb, cs, mode)
	default:
		return straight{
			r: blendChannel(cb.r, cs.r, mode),
			g: blendChannel(cb.g, cs.g, mode),
			b: blendChannel(cb.b, cs.b, mode),
		}
	}
}

func blendChannel(cb, cs float32, mode BlendMode) float32 {
	switch mode {
	case BlendNormal:
		return cs
	case BlendLighten:
		return max32(cb, cs)
	case BlendDarken:
		return min32(cb, cs)
	case BlendMultiply:
		return cb * cs
	case BlendAverage:
		return (cb + cs) / 2
	case BlendAdd:
		return clamp(cb+cs, 0, 1)
	case BlendSubtract:
		return clamp(cb-cs, 0, 1)
	case BlendDifference:
		return abs32(cb - cs)
	case BlendNegation:
		return 1 - abs32(1-cb-cs)
	case BlendExclusion:
		return cb + cs - 2*cb*cs
	case BlendScreen:
		return 1 - (1-cb)*(1-cs)
	case BlendOverlay:
		return blendChannel(cs, cb, BlendHardLight)
	case BlendHardLight:
		if cs <= 0.5 {
			return 2 * cb * cs
		}
		return 1 - 2*(1-cb)*(1-cs)
	case BlendColorDodge:
		if cb == 0 {
			return 0
		}
		if cs >= 1 {
			return 1
		}
		return min32(1, cb/(1-cs))
	case BlendColorBurn:
		if cb >= 1 {
			return 1
		}
		if cs <= 0 {
			return 0
		}
		return 1 - min32(1, (1-cb)/cs)
	case BlendLinearDodge:
		return clamp(cb+cs, 0, 1)
	case BlendLinearBurn:
		return clamp(cb+cs-1, 0, 1)
	case BlendLinearLight:
		return clamp(cb+2*cs-1, 0, 1)
	case BlendVividLight:
		if cs <= 0.5 {
			return blendChannel(cb, clamp(2*cs, 0, 1), BlendColorBurn)
		}
		return blendChannel(cb, clamp(2*(cs-0.5), 0, 1), BlendColorDodge)
	case BlendPinLight:
		if cs <= 0.5 {
			return min32(cb, 2*cs)
		}
		return max32(cb, 2*(cs-0.5))
	case BlendHardMix:
		if blendChannel(cb, cs, BlendVividLight) < 0.5 {
			return 0
		}
		return 1
	case BlendReflect:
		if cs >= 1 {
			return 1
		}
		return min32(1, cb*cb/(1-cs))
	case BlendGlow:
		return blendChannel(cs, cb, BlendReflect)
	case BlendPhoenix:
		return min32(cb, cs) - max32(cb, cs) + 1
	default:
		return cs
	}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}

// blendNonSeparable implements the HSL-based non-separable modes (hue,
// saturation, color, luminosity), per the W3C Compositing and Blending
// Level 1 definitions of Lum/Sat/SetLum/SetSat/ClipColor.
func blendNonSeparable(cb, cs straight, mode BlendMode) straight {
	switch mode {
	case BlendHue:
		return setLum(setSat(cs, sat(cb)), lum(cb))
	case BlendSaturation:
		return setLum(setSat(cb, sat(cs)), lum(cb))
	case BlendColor:
		return setLum(cs, lum(cb))
	case BlendLuminosity:
		return setLum(cb, lum(cs))
	default:
		return cs
	}
}

func lum(c straight) float32 {
	return 0.3*c.r + 0.59*c.g + 0.11*c.b
}

func sat(c straight) float32 {
	return max32(max32(c.r, c.g), c.b) - min32(min32(c.r, c.g), c.b)
}

func setLum(c straight, l float32) straight {
	d := l - lum(c)
	out := straight{c.r + d, c.g + d, c.b + d}
	return clipColor(out)
}

func clipColor(c straight) straight {
	l := lum(c)
	n := min32(min32(c.r, c.g), c.b)
	x := max32(max32(c.r, c.g), c.b)
	if n < 0 {
		c.r = l + (c.r-l)*l/(l-n)
		c.g = l + (c.g-l)*l/(l-n)
		c.b = l + (c.b-l)*l/(l-n)
	}
	if x > 1 {
		c.r = l + (c.r-l)*(1-l)/(x-l)
		c.g = l + (c.g-l)*(1-l)/(x-l)
		c.b = l + (c.b-l)*(1-l)/(x-l)
	}
	return c
}

func setSat(c straight, s float32) straight {
	ptrs := []*float32{&c.r, &c.g, &c.b}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if *ptrs[i] > *ptrs[j] {
				ptrs[i], ptrs[j] = ptrs[j], ptrs[i]
			}
		}
	}
	lo, mid, hi := ptrs[0], ptrs[1], ptrs[2]
	if *hi > *lo {
		*mid = (*mid - *lo) * s / (*hi - *lo)
		*hi = s
	} else {
		*mid, *hi = 0, 0
	}
	*lo = 0
	return c
}
