package geom

import "testing"

func TestMultiplyIdentityIsNoop(t *testing.T) {
	m := Matrix{A: 2, B: 0, C: 3, D: 0, E: 2, F: -1}
	got := m.Multiply(Identity())
	if !got.ApproxEqual(m, 1e-12) {
		t.Fatalf("m * identity = %+v, want %+v", got, m)
	}
}

func TestMultiplyAppliesOtherFirst(t *testing.T) {
	translate := Translate(10, 0)
	scale := Scale(2, 2)
	combined := translate.Multiply(scale)

	p := combined.TransformPoint(Pt(1, 1))
	want := translate.TransformPoint(scale.TransformPoint(Pt(1, 1)))
	if p != want {
		t.Fatalf("combined transform = %+v, want %+v (scale-then-translate)", p, want)
	}
	if x, y := p.Cartesian(); x != 12 || y != 2 {
		t.Fatalf("scale(2)+translate(10,0) of (1,1) = (%v,%v), want (12,2)", x, y)
	}
}

func TestInvertRoundTrips(t *testing.T) {
	m := Translate(5, -3).Multiply(Rotate(0.7)).Multiply(Scale(1.5, 0.5))
	inv := m.Invert()
	got := m.Multiply(inv)
	if !got.ApproxEqual(Identity(), 1e-9) {
		t.Fatalf("m * m^-1 = %+v, want identity", got)
	}
}

func TestInvertSingularReturnsIdentity(t *testing.T) {
	singular := Matrix{A: 1, B: 2, C: 0, D: 2, E: 4, F: 0}
	got := singular.Invert()
	if !got.IsIdentity() {
		t.Fatalf("singular matrix should invert to identity, got %+v", got)
	}
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(100, 100).Multiply(Scale(2, 2))
	v := m.TransformVector(Point{X: 1, Y: 1, W: 0})
	if v.X != 2 || v.Y != 2 {
		t.Fatalf("TransformVector should ignore translation, got %+v", v)
	}
}

func TestCartesianDividesByW(t *testing.T) {
	p := Point{X: 4, Y: 8, W: 2}
	x, y := p.Cartesian()
	if x != 2 || y != 4 {
		t.Fatalf("Cartesian() = (%v,%v), want (2,4)", x, y)
	}
}

func TestLerpAtEndpoints(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 20)
	if got := a.Lerp(b, 0); got != a {
		t.Fatalf("Lerp(t=0) = %+v, want %+v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Fatalf("Lerp(t=1) = %+v, want %+v", got, b)
	}
}

func TestCrossOfParallelVectorsIsZero(t *testing.T) {
	a := Point{X: 2, Y: 2}
	b := Point{X: 4, Y: 4}
	if got := a.Cross(b); got != 0 {
		t.Fatalf("cross of parallel vectors = %v, want 0", got)
	}
}

func TestRectQuadWindingOrder(t *testing.T) {
	r := Rect{ULx: 0, ULy: 0, LRx: 10, LRy: 5}
	q := r.Quad()
	want := [4]Point{Pt(0, 0), Pt(10, 0), Pt(10, 5), Pt(0, 5)}
	if q != want {
		t.Fatalf("Quad() = %+v, want %+v", q, want)
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{ULx: 5, ULy: 5, LRx: 5, LRy: 10}).Empty() {
		t.Fatalf("zero-width rect should be empty")
	}
	if (Rect{ULx: 0, ULy: 0, LRx: 1, LRy: 1}).Empty() {
		t.Fatalf("unit rect should not be empty")
	}
}

func TestCornersIsIdentity(t *testing.T) {
	if !(Corners{}).IsIdentity() {
		t.Fatalf("zero Corners should be identity")
	}
	c := Corners{UL: Point{X: 0.1}}
	if c.IsIdentity() {
		t.Fatalf("non-zero corner offset should not be identity")
	}
}

func TestVertexMulQScalesTextureCoord(t *testing.T) {
	v := Vertex{TX: 2, TY: 4, TQ: 0.5}
	got := v.MulQ()
	if got.TX != 1 || got.TY != 2 {
		t.Fatalf("MulQ() = %+v, want TX=1 TY=2", got)
	}
}
