package cpufallback

import (
	"image"
	"image/color"
	"testing"
)

func solidSrc(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestScalersScaleUpPreservesSolidColor(t *testing.T) {
	s := NewScalers(4)
	defer s.Close()
	src := solidSrc(2, 2, color.RGBA{R: 200, G: 50, B: 10, A: 255})
	out, err := s.Scale(ScalerKey{SrcW: 2, SrcH: 2}, src, 8, 8)
	if err != nil {
		t.Fatalf("Scale returned error: %v", err)
	}
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
		t.Fatalf("scaled bounds = %v, want 8x8", out.Bounds())
	}
	got := out.RGBAAt(4, 4)
	if got.R < 190 || got.G < 40 || got.G > 60 || got.B < 1 {
		t.Fatalf("bilinear-scaled solid color drifted too far: %+v", got)
	}
}

func TestScalersReusesScratchForSameKey(t *testing.T) {
	s := NewScalers(4)
	defer s.Close()
	key := ScalerKey{SrcW: 2, SrcH: 2}
	src := solidSrc(2, 2, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	first, err := s.Scale(key, src, 4, 4)
	if err != nil {
		t.Fatalf("Scale returned error: %v", err)
	}
	second, err := s.Scale(key, src, 4, 4)
	if err != nil {
		t.Fatalf("Scale returned error: %v", err)
	}
	if first != second {
		t.Fatalf("same key/size should reuse the pooled scratch buffer")
	}
}

func TestScalersReallocatesOnSizeChange(t *testing.T) {
	s := NewScalers(4)
	defer s.Close()
	key := ScalerKey{SrcW: 2, SrcH: 2}
	src := solidSrc(2, 2, color.RGBA{A: 255})
	small, err := s.Scale(key, src, 4, 4)
	if err != nil {
		t.Fatalf("Scale returned error: %v", err)
	}
	big, err := s.Scale(key, src, 16, 16)
	if err != nil {
		t.Fatalf("Scale returned error: %v", err)
	}
	if small == big {
		t.Fatalf("a different destination size should not reuse the old scratch buffer")
	}
	if big.Bounds().Dx() != 16 {
		t.Fatalf("rescaled buffer bounds = %v, want 16x16", big.Bounds())
	}
}
