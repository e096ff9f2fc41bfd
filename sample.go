package mixer

import (
	"github.com/fieldcast/mixer/internal/colorspace"
	"github.com/fieldcast/mixer/internal/fragment"
)

// keyMasks carries the per-pixel local_key/layer_key multipliers an item
// consumes in shader step 8 (spec.md §4.3/§4.5 step 8). An item that does
// not consume one leaves the corresponding has* flag false, so Apply
// skips the multiply rather than relying on a sentinel value.
type keyMasks struct {
	hasLocal bool
	localR   float32
	hasLayer bool
	layerR   float32
}

// sampleItem decodes one item's source at normalized texture coordinate
// (tx,ty) and runs the shader contract of spec.md §4.5 steps 1-9,
// returning false when the coordinate falls outside every plane (q<=0 or
// a degenerate plane size).
func sampleItem(it item, tx, ty float64, q float64, km keyMasks) (fragment.RGBA, bool) {
	if q <= 0 {
		return fragment.RGBA{}, false
	}
	tx, ty = tx/q, ty/q
	if tx < 0 || tx >= 1 || ty < 0 || ty >= 1 {
		return fragment.RGBA{}, false
	}
	raw, ok := decodePlanes(it.desc, it.planes, tx, ty)
	if !ok {
		return fragment.RGBA{}, false
	}
	p := fragmentParams(it.attrs, it.desc.ResolveColorSpace(), km)
	return fragment.Apply(raw, p), true
}

// decodePlanes implements spec.md §4.5 step 2 (sample) and step 1
// (assemble RGBA): permute packed channels directly, or decode planar
// YCbCr(A)/luma through the color space's own matrix. Each plane is
// addressed at its own (possibly subsampled) resolution, so a 4:2:0-style
// descriptor with half-resolution chroma planes samples correctly
// without special-casing the subsampling ratio.
func decodePlanes(desc PixelFormatDesc, planes [][]byte, tx, ty float64) (fragment.RGBA, bool) {
	switch desc.Format {
	case FormatGray, FormatLuma:
		y, ok := samplePlane1(planes, desc.Planes, 0, tx, ty)
		if !ok {
			return fragment.RGBA{}, false
		}
		v := y
		if desc.Format == FormatLuma {
			v = colorspace.LumaExpand(y)
		}
		return fragment.RGBA{R: v, G: v, B: v, A: 1}, true
	case FormatBGRA, FormatRGBA, FormatARGB, FormatABGR:
		c, ok := samplePacked4(planes, desc.Planes, tx, ty)
		if !ok {
			return fragment.RGBA{}, false
		}
		out := permutePacked(c, desc.Format)
		if desc.Alpha == AlphaStraight {
			out.R, out.G, out.B = out.R*out.A, out.G*out.A, out.B*out.A
		}
		return out, true
	case FormatBGR, FormatRGB:
		c, ok := samplePacked3(planes, desc.Planes, tx, ty)
		if !ok {
			return fragment.RGBA{}, false
		}
		if desc.Format == FormatBGR {
			c[0], c[2] = c[2], c[0]
		}
		return fragment.RGBA{R: c[0], G: c[1], B: c[2], A: 1}, true
	case FormatYCbCr, FormatYCbCrA:
		y, ok := samplePlane1(planes, desc.Planes, 0, tx, ty)
		if !ok {
			return fragment.RGBA{}, false
		}
		cb, ok := samplePlane1(planes, desc.Planes, 1, tx, ty)
		if !ok {
			return fragment.RGBA{}, false
		}
		cr, ok := samplePlane1(planes, desc.Planes, 2, tx, ty)
		if !ok {
			return fragment.RGBA{}, false
		}
		r, g, b := colorspace.MatrixFor(desc.ResolveColorSpace()).Decode(y, cb, cr)
		a := float32(1)
		if desc.Format == FormatYCbCrA {
			a, ok = samplePlane1(planes, desc.Planes, 3, tx, ty)
			if !ok {
				return fragment.RGBA{}, false
			}
		}
		if desc.Alpha == AlphaStraight {
			r, g, b = r*a, g*a, b*a
		}
		return fragment.RGBA{R: r, G: g, B: b, A: a}, true
	default:
		return fragment.RGBA{}, false
	}
}

func planeCoord(p Plane, tx, ty float64) (x, y int, ok bool) {
	if p.Width <= 0 || p.Height <= 0 {
		return 0, 0, false
	}
	x = int(tx * float64(p.Width))
	y = int(ty * float64(p.Height))
	if x < 0 {
		x = 0
	}
	if x >= p.Width {
		x = p.Width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= p.Height {
		y = p.Height - 1
	}
	return x, y, true
}

func samplePlane1(planes [][]byte, descs []Plane, idx int, tx, ty float64) (float32, bool) {
	if idx >= len(planes) || idx >= len(descs) {
		return 0, false
	}
	p := descs[idx]
	x, y, ok := planeCoord(p, tx, ty)
	if !ok {
		return 0, false
	}
	off := y*p.LineStride + x*p.StrideBytesPerPixel
	if off < 0 || off >= len(planes[idx]) {
		return 0, false
	}
	return float32(planes[idx][off]) / 255, true
}

func samplePacked4(planes [][]byte, descs []Plane, tx, ty float64) ([4]float32, bool) {
	if len(planes) == 0 || len(descs) == 0 {
		return [4]float32{}, false
	}
	p := descs[0]
	x, y, ok := planeCoord(p, tx, ty)
	if !ok {
		return [4]float32{}, false
	}
	off := y*p.LineStride + x*p.StrideBytesPerPixel
	if off < 0 || off+4 > len(planes[0]) {
		return [4]float32{}, false
	}
	buf := planes[0]
	return [4]float32{
		float32(buf[off]) / 255, float32(buf[off+1]) / 255,
		float32(buf[off+2]) / 255, float32(buf[off+3]) / 255,
	}, true
}

func samplePacked3(planes [][]byte, descs []Plane, tx, ty float64) ([3]float32, bool) {
	if len(planes) == 0 || len(descs) == 0 {
		return [3]float32{}, false
	}
	p := descs[0]
	x, y, ok := planeCoord(p, tx, ty)
	if !ok {
		return [3]float32{}, false
	}
	off := y*p.LineStride + x*p.StrideBytesPerPixel
	if off < 0 || off+3 > len(planes[0]) {
		return [3]float32{}, false
	}
	buf := planes[0]
	return [3]float32{
		float32(buf[off]) / 255, float32(buf[off+1]) / 255, float32(buf[off+2]) / 255,
	}, true
}

// permutePacked reorders a 4-channel packed sample into RGBA. It does not
// premultiply; decodePlanes does that for straight-alpha descriptors.
func permutePacked(c [4]float32, format PixelFormat) fragment.RGBA {
	var r, g, b, a float32
	switch format {
	case FormatBGRA:
		b, g, r, a = c[0], c[1], c[2], c[3]
	case FormatRGBA:
		r, g, b, a = c[0], c[1], c[2], c[3]
	case FormatARGB:
		a, r, g, b = c[0], c[1], c[2], c[3]
	case FormatABGR:
		a, b, g, r = c[0], c[1], c[2], c[3]
	}
	return fragment.RGBA{R: r, G: g, B: b, A: a}
}

// fragmentParams projects an ImageTransform into the fragment package's
// Params, which mirrors the uniform_block fields of spec.md §4.5.
func fragmentParams(t ImageTransform, space colorspace.Space, km keyMasks) fragment.Params {
	return fragment.Params{
		Invert:        t.Invert,
		StraightAlpha: false,
		Levels: fragment.Levels{
			Enabled:   t.Levels.Enabled,
			MinInput:  t.Levels.MinInput,
			MaxInput:  t.Levels.MaxInput,
			MinOutput: t.Levels.MinOutput,
			MaxOutput: t.Levels.MaxOutput,
			Gamma:     t.Levels.Gamma,
		},
		CSBEnabled: t.Brightness != 1 || t.Saturation != 1 || t.Contrast != 1,
		CSB: fragment.CSB{
			Brightness: t.Brightness,
			Saturation: t.Saturation,
			Contrast:   t.Contrast,
		},
		Chroma: fragment.Chroma{
			Enable:                  t.Chroma.Enable,
			ShowMask:                t.Chroma.ShowMask,
			TargetHue:               t.Chroma.TargetHue,
			HueWidth:                t.Chroma.HueWidth,
			MinSaturation:           t.Chroma.MinSaturation,
			MinBrightness:           t.Chroma.MinBrightness,
			Softness:                t.Chroma.Softness,
			SpillSuppress:           t.Chroma.SpillSuppress,
			SpillSuppressSaturation: t.Chroma.SpillSuppressSaturation,
		},
		HasLocalKey: km.hasLocal,
		LocalKeyR:   km.localR,
		HasLayerKey: km.hasLayer,
		LayerKeyR:   km.layerR,
		Opacity:     t.Opacity,
		Space:       space,
	}
}
