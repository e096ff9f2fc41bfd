package cpufallback

import (
	"github.com/fieldcast/mixer/internal/fragment"
	"github.com/fieldcast/mixer/internal/geom"
	"github.com/fieldcast/mixer/internal/parallel"
)

// Surface is a premultiplied 8-bit BGRA output buffer (spec.md §6: the
// legacy-sink pixel format is "8-bit premultiplied BGRA").
type Surface struct {
	Width, Height int
	Pix           []byte // len == Width*Height*4, B,G,R,A per pixel
}

// NewSurface allocates a cleared Surface.
func NewSurface(w, h int) *Surface {
	return &Surface{Width: w, Height: h, Pix: make([]byte, w*h*4)}
}

// Clear zeroes the surface (transparent black, matching frame-start
// clear-once-per-pass of spec.md §4.3).
func (s *Surface) Clear() {
	for i := range s.Pix {
		s.Pix[i] = 0
	}
}

// Sampler resolves one destination pixel (in integer output coordinates)
// to the item's own shaded, premultiplied color (fragment.Apply already
// run), or reports no coverage at that pixel.
type Sampler func(px, py int) (fragment.RGBA, bool)

// Field selects which output rows a Draw call may touch, for the
// interlaced two-pass render of spec.md §4.6: Start is the first row
// index, Step the row stride (1/0 for progressive, 2/{0,1} per field).
type Field struct {
	Start, Step int
}

// ProgressiveField draws every row.
var ProgressiveField = Field{Start: 0, Step: 1}

// Draw rasterizes a resolved, convex item polygon (vertices in normalized
// [0,1]x[0,1] output space) onto dst, running row blocks across pool.
// mode/keyer select the blend combine; Normal+Linear uses the 8-bit
// integer fast path directly, every other combination composites in
// float via fragment.Blend before quantizing back down. field restricts
// the rows actually written, so a lower-field pass never touches upper
// rows and vice versa.
func Draw(pool *parallel.Pool, dst *Surface, verts []geom.Vertex, sample Sampler, mode fragment.BlendMode, keyer fragment.Keyer, field Field) {
	if len(verts) < 3 {
		return
	}
	if field.Step <= 0 {
		field = ProgressiveField
	}
	minY, maxY := boundsY(verts, dst.Height)
	if minY >= maxY {
		return
	}
	const blockRows = 16
	var tasks []func()
	for y0 := minY; y0 < maxY; y0 += blockRows {
		y1 := y0 + blockRows
		if y1 > maxY {
			y1 = maxY
		}
		y0, y1 := y0, y1
		tasks = append(tasks, func() {
			for y := y0; y < y1; y++ {
				if (y-field.Start)%field.Step != 0 {
					continue
				}
				compositeRow(dst, verts, y, sample, mode, keyer)
			}
		})
	}
	pool.ExecuteAll(tasks)
}

func compositeRow(dst *Surface, verts []geom.Vertex, y int, sample Sampler, mode fragment.BlendMode, keyer fragment.Keyer) {
	minX, maxX := scanlineX(verts, y, dst.Width, dst.Height)
	for x := minX; x < maxX; x++ {
		c, ok := sample(x, y)
		if !ok {
			continue
		}
		if mode == fragment.BlendNormal && keyer == fragment.KeyerLinear {
			blendNormal8(dst, x, y, quantize(c))
			continue
		}
		back := dequantize(dst, x, y)
		out := fragment.Blend(back, c, mode, keyer)
		i := (y*dst.Width + x) * 4
		q := quantize(out)
		dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = q[0], q[1], q[2], q[3]
	}
}

// boundsY returns the [minY,maxY) row range the polygon can cover.
func boundsY(verts []geom.Vertex, h int) (int, int) {
	minV, maxV := 1.0, 0.0
	for _, v := range verts {
		if v.VY < minV {
			minV = v.VY
		}
		if v.VY > maxV {
			maxV = v.VY
		}
	}
	minY := int(minV * float64(h))
	maxY := int(maxV*float64(h)) + 1
	if minY < 0 {
		minY = 0
	}
	if maxY > h {
		maxY = h
	}
	return minY, maxY
}

// scanlineX finds the horizontal span of a convex polygon at row y by
// intersecting every edge with the scanline and taking the outer
// envelope; correct because clipConvex only ever produces convex
// polygons (spec.md §4.2.4).
func scanlineX(verts []geom.Vertex, y, w, h int) (int, int) {
	fy := (float64(y) + 0.5) / float64(h)
	minX, maxX := 2.0, -1.0
	n := len(verts)
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		if (a.VY <= fy) != (b.VY <= fy) {
			t := (fy - a.VY) / (b.VY - a.VY)
			x := a.VX + t*(b.VX-a.VX)
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
		}
	}
	if maxX < minX {
		return 0, 0
	}
	xi0 := int(minX * float64(w))
	xi1 := int(maxX*float64(w)) + 1
	if xi0 < 0 {
		xi0 = 0
	}
	if xi1 > w {
		xi1 = w
	}
	return xi0, xi1
}
