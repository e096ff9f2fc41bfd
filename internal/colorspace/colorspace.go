// Package colorspace holds the static color-space tables of the
// image-mixer core: the BT.601/709/2020 YCbCr-to-RGB decode matrices and
// luma coefficients. Plane counts and strides per format live in the root
// package's pixelformat.go.
package colorspace

// Space identifies a YCbCr color space / decode matrix.
type Space int

const (
	BT601 Space = iota
	BT709
	BT2020
)

// String returns the conventional short name.
func (s Space) String() string {
	switch s {
	case BT601:
		return "bt601"
	case BT709:
		return "bt709"
	case BT2020:
		return "bt2020"
	default:
		return "bt601"
	}
}

// Matrix is a YCbCr-to-RGB decode matrix given by its luma coefficients.
// The 0.5 centre of Cb/Cr is not stored here; Decode subtracts it.
type Matrix struct {
	// Kr, Kb are the luma coefficients; Kg is derived as 1 - Kr - Kb.
	Kr, Kb float32
}

// matrices holds the luma coefficients for each color space. Derived
// from ITU-R BT.601-7, BT.709-6 and BT.2020-2.
var matrices = [3]Matrix{
	BT601:  {Kr: 0.299, Kb: 0.114},
	BT709:  {Kr: 0.2126, Kb: 0.0722},
	BT2020: {Kr: 0.2627, Kb: 0.0593},
}

// MatrixFor returns the decode matrix for a color space.
func MatrixFor(s Space) Matrix { return matrices[clampSpace(s)] }

// LumaCoefficients returns (Kr, Kg, Kb) for a color space, for use in
// CSB (contrast/saturation/brightness) luminance computations.
func (m Matrix) LumaCoefficients() (kr, kg, kb float32) {
	return m.Kr, 1 - m.Kr - m.Kb, m.Kb
}

// Decode converts a YCbCr triple (Y, Cb, Cr each in [0,1], Cb/Cr centered
// at 0.5) to RGB in [0,1] using the full-range BT.601/709/2020 formula.
func (m Matrix) Decode(y, cb, cr float32) (r, g, b float32) {
	cb -= 0.5
	cr -= 0.5
	r = y + 2*(1-m.Kr)*cr
	b = y + 2*(1-m.Kb)*cb
	kg := 1 - m.Kr - m.Kb
	g = (y - m.Kr*r - m.Kb*b) / kg
	return
}

func clampSpace(s Space) Space {
	if s < BT601 || s > BT2020 {
		return BT601
	}
	return s
}

// ForHeight selects a color space from the classic "is_hd" heuristic used
// when a frame's descriptor does not carry an explicit color space: a
// frame taller than 700 lines is treated as BT.709, SD as BT.601.
// spec.md §9 requires the explicit descriptor value to take priority and
// this heuristic to apply only when it is absent.
func ForHeight(height int) Space {
	if height > 700 {
		return BT709
	}
	return BT601
}

// LumaExpand applies the luma-only expansion used for the `luma` pixel
// format: Y' = (Y - 0.065) / 0.859, per spec.md §4.5 step 2.
func LumaExpand(y float32) float32 {
	return (y - 0.065) / 0.859
}
