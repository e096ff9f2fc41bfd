package cpufallback

import (
	"github.com/fieldcast/mixer/internal/geom"
	"github.com/fieldcast/mixer/internal/parallel"
)

// KeyMask is a single-channel accumulator attachment for the local_key /
// layer_key routing of spec.md §4.3: items with is_key draw their own
// alpha into it with normal src-over compositing (treating the scalar
// value as both its own color and coverage), and items downstream sample
// it as a per-pixel multiplier.
type KeyMask struct {
	Width, Height int
	R             []byte
}

// NewKeyMask allocates a cleared (all-zero) mask.
func NewKeyMask(width, height int) *KeyMask {
	return &KeyMask{Width: width, Height: height, R: make([]byte, width*height)}
}

// At returns the accumulated value at (x,y) as [0,1]. A nil mask reads as
// 1 everywhere, the no-op multiplier for when no local_key/layer_key
// attachment exists yet.
func (k *KeyMask) At(x, y int) float32 {
	if k == nil {
		return 1
	}
	return float32(k.R[y*k.Width+x]) / 255
}

// MaskSampler resolves one destination pixel to the is_key item's own
// alpha, or reports no coverage.
type MaskSampler func(px, py int) (float32, bool)

// DrawMask rasterizes verts onto mask, compositing each covered pixel's
// sampled value with normal src-over: new = s + d*(1-s).
func DrawMask(pool *parallel.Pool, mask *KeyMask, verts []geom.Vertex, sample MaskSampler, field Field) {
	if len(verts) < 3 {
		return
	}
	if field.Step <= 0 {
		field = ProgressiveField
	}
	minY, maxY := boundsY(verts, mask.Height)
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
				compositeMaskRow(mask, verts, y, sample)
			}
		})
	}
	pool.ExecuteAll(tasks)
}

func compositeMaskRow(mask *KeyMask, verts []geom.Vertex, y int, sample MaskSampler) {
	minX, maxX := scanlineX(verts, y, mask.Width, mask.Height)
	for x := minX; x < maxX; x++ {
		s, ok := sample(x, y)
		if !ok {
			continue
		}
		i := y*mask.Width + x
		d := float32(mask.R[i]) / 255
		mask.R[i] = to8(s + d*(1-s))
	}
}

// CompositeAdditive combines src onto dst in place using the additive
// keyer's combine rule (fore+back, clamped), the step an accumulated
// local_mix attachment undergoes once a layer finishes draining it
// (spec.md §4.3).
func CompositeAdditive(dst, src *Surface) {
	for i := 0; i < len(dst.Pix); i++ {
		sum := uint16(dst.Pix[i]) + uint16(src.Pix[i])
		if sum > 255 {
			sum = 255
		}
		dst.Pix[i] = uint8(sum)
	}
}
