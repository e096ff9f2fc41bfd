// Package geom implements the geometry primitives of the image-mixer
// core: a 3x3 affine matrix, a homogeneous point, a vertex record and a
// crop-region polygon.
package geom

import "math"

// Matrix is a 2D affine transformation expressed in row-major order as
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
//
// representing x' = a*x + b*y + c, y' = d*x + e*y + f. The core never
// needs a full projective 3x3 (perspective is applied separately as a
// per-corner bilinear perturbation, §4.2.6), so the bottom row is never
// stored.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation.
func Identity() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 0, E: 1, F: 0}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, B: 0, C: x, D: 0, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, B: 0, C: 0, D: 0, E: y, F: 0}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return Matrix{A: cos, B: -sin, C: 0, D: sin, E: cos, F: 0}
}

// Multiply returns m composed with other as m * other: applying the
// result to a point is equivalent to applying other first, then m.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
		W: p.W,
	}
}

// TransformVector applies the transformation to a direction (no
// translation component).
func (m Matrix) TransformVector(p Point) Point {
	return Point{X: m.A*p.X + m.B*p.Y, Y: m.D*p.X + m.E*p.Y, W: p.W}
}

// Invert returns the inverse matrix, or the identity if m is singular
// (|det| < 1e-10).
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 {
		return Identity()
	}
	invDet := 1.0 / det
	return Matrix{
		A: m.E * invDet,
		B: -m.B * invDet,
		C: (m.B*m.F - m.C*m.E) * invDet,
		D: -m.D * invDet,
		E: m.A * invDet,
		F: (m.C*m.D - m.A*m.F) * invDet,
	}
}

// IsIdentity reports whether m is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.A == 1 && m.B == 0 && m.C == 0 && m.D == 0 && m.E == 1 && m.F == 0
}

// ApproxEqual reports whether m and other are equal within eps per
// component. Used by the "transform then inverse" round-trip property.
func (m Matrix) ApproxEqual(other Matrix, eps float64) bool {
	return math.Abs(m.A-other.A) < eps && math.Abs(m.B-other.B) < eps &&
		math.Abs(m.C-other.C) < eps && math.Abs(m.D-other.D) < eps &&
		math.Abs(m.E-other.E) < eps && math.Abs(m.F-other.F) < eps
}

// Point is a homogeneous 2D point (X, Y, W). W is 1 for an affine point
// and 0 for a direction vector. Crop and clip quads are expressed as four
// homogeneous Points so they can be carried through enclosing transform
// steps with TransformPoint.
type Point struct {
	X, Y, W float64
}

// Pt creates an affine point (W=1).
func Pt(x, y float64) Point { return Point{X: x, Y: y, W: 1} }

// Cartesian divides through by W, returning the 2D point. W=0 returns
// (X, Y) unchanged (a direction has no cartesian projection).
func (p Point) Cartesian() (x, y float64) {
	if p.W == 0 || p.W == 1 {
		return p.X, p.Y
	}
	return p.X / p.W, p.Y / p.W
}

// Sub returns p - q (component-wise, ignoring W).
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y, W: 0} }

// Add returns p + q (component-wise, ignoring W).
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y, W: p.W} }

// Scale returns p scaled by s (ignoring W).
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s, W: p.W} }

// Lerp linearly interpolates between p and q at parameter t in [0,1].
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
		W: p.W + (q.W-p.W)*t,
	}
}

// Cross returns the 2D cross product (z-component) of the vectors p and
// q, used to classify a vertex as inside/outside a clip edge.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
