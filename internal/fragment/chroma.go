package fragment

import "math"

// applyChroma implements spec.md §4.5 step 7: chroma key with spill
// suppression. Hue is carried in turns (a fraction of a full revolution,
// [0,1)) rather than degrees throughout, so target_hue and hue_width
// combine directly without a unit conversion at the call site.
func applyChroma(c RGBA, ch Chroma) RGBA {
	un := unpremultiply(c)
	h, s, v := rgbToHSV(un.r, un.g, un.b)

	targetTurns := ch.TargetHue / 360
	hueDiff := turnDiff(float64(h), targetTurns)
	hueScore := math.Abs(hueDiff*2) - ch.HueWidth
	satBrightScore := math.Max(ch.MinBrightness-float64(v), ch.MinSaturation-float64(s))
	distance := -hueScore * satBrightScore
	alpha := 1 - smoothstep(1, 1+ch.Softness, -2*distance+1)
	alpha = clampF(alpha, 0, 1)

	if ch.ShowMask {
		a := float32(alpha)
		return RGBA{a, a, a, 1}
	}

	spill := ch.SpillSuppress / 360
	if spill > 0 && math.Abs(hueDiff) < spill {
		if hueDiff >= 0 {
			h = float32(wrapTurn(targetTurns + spill))
		} else {
			h = float32(wrapTurn(targetTurns - spill))
		}
		s *= float32(1 - ch.SpillSuppressSaturation)
	}

	r2, g2, b2 := hsvToRGB(h, s, v)
	newA := float32(alpha) * c.A
	return RGBA{r2 * newA, g2 * newA, b2 * newA, newA}
}

// turnDiff returns the signed shortest distance from b to a, in turns,
// within [-0.5, 0.5).
func turnDiff(a, b float64) float64 {
	d := a - b
	d -= math.Floor(d+0.5)
	return d
}

func wrapTurn(t float64) float64 {
	t -= math.Floor(t)
	return t
}

func smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	t = clampF(t, 0, 1)
	return t * t * (3 - 2*t)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// rgbToHSV converts straight (unpremultiplied) RGB to HSV with hue in
// turns ([0,1)) rather than degrees.
func rgbToHSV(r, g, b float32) (h, s, v float32) {
	maxC := max32(max32(r, g), b)
	minC := min32(min32(r, g), b)
	v = maxC
	d := maxC - minC
	if maxC <= 0 {
		return 0, 0, v
	}
	s = d / maxC
	if d == 0 {
		return 0, s, v
	}
	switch maxC {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6
	if h < 0 {
		h += 1
	}
	return h, s, v
}

func hsvToRGB(h, s, v float32) (r, g, b float32) {
	if s <= 0 {
		return v, v, v
	}
	h = float32(wrapTurn(float64(h))) * 6
	i := int(math.Floor(float64(h)))
	f := h - float32(i)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch i % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
