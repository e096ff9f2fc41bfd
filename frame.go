package mixer

import "github.com/fieldcast/mixer/internal/geom"

// FrameGeometry is the triangle-fan coordinate list a frame carries,
// interpreted as (vertex_x, vertex_y, texture_x, texture_y, texture_r,
// texture_q) per vertex, plus the scale mode applied before the resolver
// composes the final matrix (spec.md §3, §4.2.1).
type FrameGeometry struct {
	Coords    []geom.Vertex
	ScaleMode ScaleMode
}

// DefaultGeometry returns the full-screen textured quad, expressed as a
// 4-vertex triangle fan in normalized [0,1]x[0,1] output space.
func DefaultGeometry() FrameGeometry {
	return FrameGeometry{
		ScaleMode: ScaleStretch,
		Coords: []geom.Vertex{
			{VX: 0, VY: 0, TX: 0, TY: 0, TQ: 1},
			{VX: 1, VY: 0, TX: 1, TY: 0, TQ: 1},
			{VX: 1, VY: 1, TX: 1, TY: 1, TQ: 1},
			{VX: 0, VY: 1, TX: 0, TY: 1, TQ: 1},
		},
	}
}

// Frame is the container a frame source hands to Mixer.Visit: plane-level
// byte arrays plus the pixel format descriptor and geometry of spec.md
// §3/§6.
type Frame struct {
	PixelFormatDesc PixelFormatDesc
	BitDepth        BitDepth
	Planes          [][]byte
	Geometry        FrameGeometry
	FieldMode       FieldMode

	// NaturalWidth/NaturalHeight, when > 0, are the frame's intrinsic
	// pixel size, used by scale-mode rewriting (spec.md §4.2.1). Zero
	// means "unknown": scale-mode rewriting is skipped and ScaleStretch
	// semantics apply regardless of the requested ScaleMode.
	NaturalWidth, NaturalHeight int
}

// HasNaturalSize reports whether scale-mode rewriting can run for this
// frame.
func (f Frame) HasNaturalSize() bool {
	return f.NaturalWidth > 0 && f.NaturalHeight > 0
}

// Validate rejects frames per the visit() contract of spec.md §4.1:
// invalid format, empty planes, planes smaller than 16 bytes, or an
// effective empty field mode.
func (f Frame) Validate() error {
	if err := f.PixelFormatDesc.Validate(); err != nil {
		return err
	}
	if len(f.Planes) != len(f.PixelFormatDesc.Planes) {
		return newError(KindInvalidArgument, "visit", ErrEmptyPlanes)
	}
	for i, plane := range f.Planes {
		want := f.PixelFormatDesc.Planes[i].ByteSize
		if len(plane) < want || len(plane) < 16 {
			return newError(KindInvalidArgument, "visit", ErrPlaneTooSmall)
		}
	}
	if f.FieldMode == FieldEmpty {
		return newError(KindInvalidArgument, "visit", ErrEmptyFieldMode)
	}
	return nil
}
