package cpufallback

import (
	"testing"

	"github.com/fieldcast/mixer/internal/fragment"
	"github.com/fieldcast/mixer/internal/geom"
	"github.com/fieldcast/mixer/internal/parallel"
)

func unitSquareVerts() []geom.Vertex {
	return []geom.Vertex{
		{VX: 0, VY: 0, TQ: 1},
		{VX: 1, VY: 0, TQ: 1},
		{VX: 1, VY: 1, TQ: 1},
		{VX: 0, VY: 1, TQ: 1},
	}
}

func solidRed() Sampler {
	return func(px, py int) (fragment.RGBA, bool) {
		return fragment.RGBA{R: 1, G: 0, B: 0, A: 1}, true
	}
}

func TestDrawFillsWholeSurfaceForUnitSquare(t *testing.T) {
	pool := parallel.New(2)
	defer pool.Close()
	surf := NewSurface(4, 4)
	Draw(pool, surf, unitSquareVerts(), solidRed(), fragment.BlendNormal, fragment.KeyerLinear, ProgressiveField)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i := (y*4 + x) * 4
			if surf.Pix[i+2] != 255 || surf.Pix[i+3] != 255 {
				t.Fatalf("pixel (%d,%d) not filled red: %v", x, y, surf.Pix[i:i+4])
			}
		}
	}
}

func TestDrawHalfSquareOnlyFillsHalf(t *testing.T) {
	pool := parallel.New(2)
	defer pool.Close()
	surf := NewSurface(4, 4)
	verts := []geom.Vertex{
		{VX: 0, VY: 0, TQ: 1},
		{VX: 0.5, VY: 0, TQ: 1},
		{VX: 0.5, VY: 1, TQ: 1},
		{VX: 0, VY: 1, TQ: 1},
	}
	Draw(pool, surf, verts, solidRed(), fragment.BlendNormal, fragment.KeyerLinear, ProgressiveField)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			i := (y*4 + x) * 4
			filled := surf.Pix[i+3] == 255
			wantFilled := x < 2
			if filled != wantFilled {
				t.Fatalf("pixel (%d,%d) filled=%v, want %v", x, y, filled, wantFilled)
			}
		}
	}
}

func TestDrawFieldMaskSkipsOtherFieldRows(t *testing.T) {
	pool := parallel.New(2)
	defer pool.Close()
	surf := NewSurface(2, 4)
	Draw(pool, surf, unitSquareVerts(), solidRed(), fragment.BlendNormal, fragment.KeyerLinear, Field{Start: 0, Step: 2})

	for y := 0; y < 4; y++ {
		i := (y*2 + 0) * 4
		filled := surf.Pix[i+3] == 255
		wantFilled := y%2 == 0
		if filled != wantFilled {
			t.Fatalf("row %d filled=%v, want %v (upper-field-only draw)", y, filled, wantFilled)
		}
	}
}

func TestDrawDegenerateVertsIsNoop(t *testing.T) {
	pool := parallel.New(1)
	defer pool.Close()
	surf := NewSurface(2, 2)
	Draw(pool, surf, unitSquareVerts()[:2], solidRed(), fragment.BlendNormal, fragment.KeyerLinear, ProgressiveField)
	for _, b := range surf.Pix {
		if b != 0 {
			t.Fatalf("a two-vertex polygon should draw nothing, surface is non-zero")
		}
	}
}
