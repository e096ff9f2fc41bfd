package mixer

import "github.com/fieldcast/mixer/internal/colorspace"

// PixelFormat enumerates the supported source pixel formats.
type PixelFormat int

const (
	FormatInvalid PixelFormat = iota
	FormatGray
	FormatBGRA
	FormatRGBA
	FormatARGB
	FormatABGR
	FormatYCbCr
	FormatYCbCrA
	FormatLuma
	FormatBGR
	FormatRGB
)

// planeCount returns the number of planes a conformant descriptor must
// carry for this format, per spec.md §3's "plane count matches the
// format (e.g., ycbcra -> 4 planes)" invariant.
func (f PixelFormat) planeCount() int {
	switch f {
	case FormatGray, FormatLuma:
		return 1
	case FormatBGRA, FormatRGBA, FormatARGB, FormatABGR:
		return 1 // packed, one interleaved plane
	case FormatYCbCr:
		return 3
	case FormatYCbCrA:
		return 4
	case FormatBGR, FormatRGB:
		return 1
	default:
		return 0
	}
}

// Packed reports whether the format stores all components interleaved in
// a single plane, as opposed to planar YCbCr(A).
func (f PixelFormat) Packed() bool {
	switch f {
	case FormatBGRA, FormatRGBA, FormatARGB, FormatABGR, FormatBGR, FormatRGB, FormatGray, FormatLuma:
		return true
	default:
		return false
	}
}

// BytesPerPixel returns the packed stride for formats where it is
// constant; planar YCbCr(A) plane strides are carried per-plane in Plane
// instead.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatBGRA, FormatRGBA, FormatARGB, FormatABGR:
		return 4
	case FormatBGR, FormatRGB:
		return 3
	case FormatGray, FormatLuma:
		return 1
	default:
		return 0
	}
}

// Plane describes one plane of a frame.
type Plane struct {
	Width, Height   int
	StrideBytesPerPixel int
	LineStride      int // bytes per row, including any padding
	ByteSize        int
}

// AlphaKind distinguishes whether a format's alpha channel, when present,
// is stored straight or already premultiplied.
type AlphaKind int

const (
	AlphaPremultiplied AlphaKind = iota
	AlphaStraight
)

// PixelFormatDesc fully describes the layout of a frame's pixel data.
type PixelFormatDesc struct {
	Format     PixelFormat
	Planes     []Plane
	ColorSpace colorspace.Space
	// HasColorSpace is false when the producer did not attach an explicit
	// color space; in that case the resolver falls back to the
	// height-derived heuristic (spec.md §9).
	HasColorSpace bool
	Alpha         AlphaKind
}

// Validate checks the invariants of spec.md §3/§4.1's visit() rejection
// rules: a known, non-invalid format, a plane count matching the format,
// and no plane smaller than 16 bytes.
func (d PixelFormatDesc) Validate() error {
	if d.Format == FormatInvalid || d.Format.planeCount() == 0 {
		return newError(KindInvalidArgument, "visit", ErrInvalidPixelFormat)
	}
	if len(d.Planes) == 0 {
		return newError(KindInvalidArgument, "visit", ErrEmptyPlanes)
	}
	if want := d.Format.planeCount(); len(d.Planes) != want {
		return newError(KindInvalidArgument, "visit", ErrInvalidPixelFormat)
	}
	for _, p := range d.Planes {
		if p.Width <= 0 || p.Height <= 0 {
			return newError(KindInvalidArgument, "visit", ErrNonPositiveSize)
		}
		if p.ByteSize < 16 {
			return newError(KindInvalidArgument, "visit", ErrPlaneTooSmall)
		}
	}
	return nil
}

// ResolveColorSpace returns the descriptor's explicit color space, or the
// height-derived heuristic when none was attached.
func (d PixelFormatDesc) ResolveColorSpace() colorspace.Space {
	if d.HasColorSpace {
		return d.ColorSpace
	}
	if len(d.Planes) > 0 {
		return colorspace.ForHeight(d.Planes[0].Height)
	}
	return colorspace.BT601
}

// BitDepth is re-exported from the top-level config surface; see
// options.go. Kept together here so PixelFormatDesc-adjacent code reads
// naturally: a frame's BitDepth together with its PixelFormatDesc fully
// determines plane decoding.
