package resolve

import (
	"math"

	"github.com/fieldcast/mixer/internal/geom"
)

// perspectivePerturb applies the four-corner pin perturbation of
// spec.md §4.2.6 to the unit-square point (x, y). The per-vertex
// perturbation accumulates four bilinear terms, one per corner, weighted
// by (1-x)(1-y), x(1-y), (1-x)y and xy respectively — algebraically
// identical to the spec's literal "x' += (1-y)*a + (1 - a + a*y)*x - x"
// form for the ul corner (which reduces to a*(1-x)(1-y)), just without
// the fixed evaluation order that only matters to floating-point
// rounding, not semantics.
func perspectivePerturb(c geom.Corners, x, y float64) (nx, ny float64) {
	w00 := (1 - x) * (1 - y) // ul
	w10 := x * (1 - y)       // ur
	w01 := (1 - x) * y       // ll
	w11 := x * y             // lr

	dx := c.UL.X*w00 + c.UR.X*w10 + c.LL.X*w01 + c.LR.X*w11
	dy := c.UL.Y*w00 + c.UR.Y*w10 + c.LL.Y*w01 + c.LR.Y*w11
	return x + dx, y + dy
}

// perspectiveQ computes the per-vertex q factor of spec.md §4.2.5b: the
// diagonal-intersection formula evaluated at the unit square's four
// actual corners (after the same bilinear perturbation), then
// bilinearly interpolated to the interior point (x, y) using the same
// basis as the perturbation — exact at the corners, and a well-behaved
// continuous field in between.
//
// When the quad's diagonals are parallel or nearly coincident (a
// degenerate or self-intersecting polygon, per the Open Question in
// spec.md §9), q defaults to 1 uniformly: the perspective-correction
// term is skipped rather than producing an undefined value.
func perspectiveQ(c geom.Corners, x, y float64) float64 {
	pulX, pulY := perspectivePerturb(c, 0, 0)
	purX, purY := perspectivePerturb(c, 1, 0)
	pllX, pllY := perspectivePerturb(c, 0, 1)
	plrX, plrY := perspectivePerturb(c, 1, 1)

	pul := xy{pulX, pulY}
	pur := xy{purX, purY}
	pll := xy{pllX, pllY}
	plr := xy{plrX, plrY}

	q00, ok1 := cornerQ(pul, plr, pur, pll)
	q10, ok2 := cornerQ(pur, pll, pul, plr)
	q01, ok3 := cornerQ(pll, pur, plr, pul)
	q11, ok4 := cornerQ(plr, pul, pll, pur)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 1
	}

	w00 := (1 - x) * (1 - y)
	w10 := x * (1 - y)
	w01 := (1 - x) * y
	w11 := x * y
	return q00*w00 + q10*w10 + q01*w01 + q11*w11
}

type xy struct{ x, y float64 }

// cornerQ computes q = (d_close + d_far) / d_far for one corner: the
// intersection of the two diagonals (self, diagonalOpposite) and
// (adjA, adjB), d_close = dist(intersection, self), d_far =
// dist(intersection, diagonalOpposite).
func cornerQ(self, diagonalOpposite, adjA, adjB xy) (float64, bool) {
	ix, iy, ok := lineIntersect(self, diagonalOpposite, adjA, adjB)
	if !ok {
		return 1, false
	}
	dFar := math.Hypot(diagonalOpposite.x-ix, diagonalOpposite.y-iy)
	if dFar < 1e-9 {
		return 1, false
	}
	dClose := math.Hypot(self.x-ix, self.y-iy)
	return (dClose + dFar) / dFar, true
}

// lineIntersect finds the intersection of line (p1,p2) with line (p3,p4).
func lineIntersect(p1, p2, p3, p4 xy) (x, y float64, ok bool) {
	d := (p1.x-p2.x)*(p3.y-p4.y) - (p1.y-p2.y)*(p3.x-p4.x)
	if math.Abs(d) < 1e-12 {
		return 0, 0, false
	}
	a := p1.x*p2.y - p1.y*p2.x
	b := p3.x*p4.y - p3.y*p4.x
	x = (a*(p3.x-p4.x) - (p1.x-p2.x)*b) / d
	y = (a*(p3.y-p4.y) - (p1.y-p2.y)*b) / d
	return x, y, true
}
