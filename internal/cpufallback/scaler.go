package cpufallback

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/fieldcast/mixer/internal/gpucache"
)

// ScalerKey identifies a pooled software scaler by the source shape it
// was built for (spec.md §4.7: "pooled software scaler keyed by (src_w,
// src_h, src_format)").
type ScalerKey struct {
	SrcW, SrcH int
	SrcFormat  int
}

// Scalers pools *scaler instances so repeated frames of the same source
// shape reuse one scratch buffer instead of reallocating every draw.
type Scalers struct {
	cache *gpucache.Cache[ScalerKey, *scaler]
}

// NewScalers creates a scaler pool with the given soft entry limit.
func NewScalers(softLimit int) *Scalers {
	return &Scalers{cache: gpucache.New[ScalerKey, *scaler](softLimit)}
}

type scaler struct {
	scratch *image.RGBA
}

// Scale resizes src (already decoded to straight RGBA) into an image of
// size (dstW, dstH) using a pooled scratch buffer and the bilinear
// resampler, matching the quality of the GPU path's linear texture
// filter.
func (s *Scalers) Scale(key ScalerKey, src *image.RGBA, dstW, dstH int) (*image.RGBA, error) {
	sc, err := s.cache.GetOrCreate(key, func() (*scaler, error) {
		return &scaler{}, nil
	})
	if err != nil {
		return nil, err
	}
	if sc.scratch == nil || sc.scratch.Bounds().Dx() != dstW || sc.scratch.Bounds().Dy() != dstH {
		sc.scratch = image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	}
	xdraw.BiLinear.Scale(sc.scratch, sc.scratch.Bounds(), src, src.Bounds(), draw.Src, nil)
	return sc.scratch, nil
}

// Close drops every pooled scaler.
func (s *Scalers) Close() {
	s.cache.Drain(nil)
}
