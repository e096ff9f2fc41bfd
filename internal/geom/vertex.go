package geom

// Vertex is the per-vertex record carried through the resolver: output
// position, base texture coordinate, and the perspective-correction
// factors r and q (spec.md §3 frame_geometry, §4.2.5b).
type Vertex struct {
	VX, VY float64 // vertex position, normalized output space
	TX, TY float64 // texture coordinate
	TR, TQ float64 // perspective-correction terms; TQ multiplies TX/TY
}

// MulQ returns v's texture coordinate scaled by q, as step 4.2.5b
// requires ("multiply (texture_x, texture_y) by q").
func (v Vertex) MulQ() Vertex {
	v.TX *= v.TQ
	v.TY *= v.TQ
	return v
}

// Rect is an axis-aligned rectangle expressed by its upper-left and
// lower-right corners, used for both the pre-transform `clip` and the
// post-transform `crop` accumulation of spec.md §4.2.4.
type Rect struct {
	ULx, ULy, LRx, LRy float64
}

// Quad returns the rectangle's four corners as homogeneous points in
// winding order (ul, ur, lr, ll), ready to be carried through enclosing
// transform steps.
func (r Rect) Quad() [4]Point {
	return [4]Point{
		Pt(r.ULx, r.ULy),
		Pt(r.LRx, r.ULy),
		Pt(r.LRx, r.LRy),
		Pt(r.ULx, r.LRy),
	}
}

// Empty reports whether the rectangle has zero or negative area.
func (r Rect) Empty() bool {
	return r.LRx <= r.ULx || r.LRy <= r.ULy
}

// Corners is a four-corner pin, one 2-vector offset per corner, used for
// the `perspective` field of image_transform. Clip/crop accumulation
// carries its quads as [4]Point instead.
type Corners struct {
	UL, UR, LL, LR Point
}

// IsIdentity reports whether all four corner offsets are zero, i.e. no
// perspective perturbation should be applied.
func (c Corners) IsIdentity() bool {
	return c.UL == (Point{}) && c.UR == (Point{}) && c.LL == (Point{}) && c.LR == (Point{})
}
