// Package resolve implements the transform-and-crop resolver of spec.md
// §4.2: given a nested transform tree and a frame's geometry, it folds
// nested transforms, applies perspective, clips against accumulated crop
// rectangles, and computes perspective-correct texture coordinates.
package resolve

import (
	"math"

	"github.com/fieldcast/mixer/internal/geom"
)

// ScaleMode mirrors the root package's ScaleMode so this package does not
// need to import it (which would create an import cycle).
type ScaleMode int

const (
	ScaleStretch ScaleMode = iota
	ScaleFit
	ScaleFill
	ScaleOriginal
	ScaleHFill
	ScaleVFill
)

// ChainNode is one node of the nested transform tree, outer (root) to
// inner (the node the item was visited under). It mirrors the root
// package's unexported chainNode.
type ChainNode struct {
	Anchor          geom.Point
	FillScale       geom.Point
	FillTranslation geom.Point
	Angle           float64

	ClipTranslation geom.Point
	ClipScale       geom.Point
	HasClip         bool

	Crop    geom.Rect
	HasCrop bool

	Perspective    geom.Corners
	HasPerspective bool
}

// Geometry is the frame_geometry input: a triangle fan plus scale mode.
type Geometry struct {
	Coords    []geom.Vertex
	ScaleMode ScaleMode
}

// Item bundles one item's nested transform chain with its geometry and,
// when known, its natural pixel size (for scale-mode rewriting).
type Item struct {
	Chain              []ChainNode
	Geometry           Geometry
	NaturalW, NaturalH int
}

const dedupEpsilon = 0.0001

// step is a contiguous run of chain nodes between perspective boundaries
// (spec.md §4.2.3): within one step, transforms compose into a single
// affine matrix; its accumulated clip/crop rectangles are expressed
// relative to the step's own coordinate frame.
type step struct {
	matrix geom.Matrix
	crops  [][4]geom.Point // each a post-transform crop quad, in step space
	persp  geom.Corners
	hasP   bool
}

// Resolve runs the full per-item algorithm of spec.md §4.2 and returns
// the final cropped, perspective-mapped vertex list. ok is false when the
// item produced fewer than 3 vertices or falls wholly outside
// [0,1]x[0,1] — such items contribute no pixels (spec.md §8 invariants).
func Resolve(it Item) (verts []geom.Vertex, ok bool) {
	coords := it.Geometry.Coords
	if len(coords) == 0 {
		coords = []geom.Vertex{}
	}

	steps := buildSteps(it)

	out := make([]geom.Vertex, 0, len(coords))
	for _, v := range coords {
		p := geom.Pt(v.VX, v.VY)
		t := geom.Pt(v.TX, v.TY)
		q := v.TQ
		if q == 0 {
			q = 1
		}

		// Walk steps outer-to-inner applying the step's vertex matrix
		// and then its perspective perturbation (§4.2.5a).
		for _, st := range steps {
			p = st.matrix.TransformPoint(p)
			if st.hasP {
				px, py := p.Cartesian()
				qq := perspectiveQ(st.persp, px, py)
				nx, ny := perspectivePerturb(st.persp, px, py)
				p = geom.Pt(nx, ny)
				q *= qq
			}
		}

		// Texture coordinates carry q multiplied in (§4.2.5b); the
		// sampler divides the interpolated value by the interpolated q.
		out = append(out, geom.Vertex{VX: p.X, VY: p.Y, TX: t.X, TY: t.Y, TQ: q}.MulQ())
	}

	out = applyScaleMode(out, it)

	// Clip against every accumulated crop region, walking steps
	// outer-to-inner so a crop recorded deeper in the chain clips last
	// (spec.md §4.2.4/§4.2.5c). Crops are expressed in step space; since
	// by this point vertices are in final output space, transform each
	// crop quad forward through the remaining (more-inner) steps before
	// clipping against it would invert the walk order, so instead we
	// transform crop quads into final space up front, in buildSteps.
	for _, st := range steps {
		for _, quad := range st.crops {
			out = clipConvex(out, quad)
			if len(out) == 0 {
				return nil, false
			}
		}
	}

	out = dedup(out, dedupEpsilon)

	if len(out) < 3 {
		return nil, false
	}
	if offscreen(out) {
		return nil, false
	}
	return out, true
}

// buildSteps walks the chain and groups it into transform steps split at
// perspective boundaries (spec.md §4.2.2/§4.2.3), composing each node's
// vertex matrix as anchor*aspect*scale*rotation*aspect^-1*translation and
// right-multiplying nested transforms into the parent's.
func buildSteps(it Item) []step {
	var steps []step
	cur := step{matrix: geom.Identity()}
	haveCur := false

	flushCrops := func(s *step, node ChainNode) {
		if node.HasClip {
			quad := rectQuad(node.ClipTranslation, node.ClipScale)
			s.crops = append(s.crops, transformQuad(quad, s.matrix))
		}
		if node.HasCrop {
			quad := node.Crop.Quad()
			s.crops = append(s.crops, transformQuad(quad, s.matrix))
		}
	}

	for _, node := range it.Chain {
		m := vertexMatrix(node)
		if node.HasPerspective {
			// Start a new step: perspective of inner and outer
			// transforms must not mix into one affine (§4.2.3).
			if haveCur {
				steps = append(steps, cur)
			}
			cur = step{matrix: m, persp: node.Perspective, hasP: true}
			haveCur = true
			flushCrops(&cur, node)
			steps = append(steps, cur)
			cur = step{matrix: geom.Identity()}
			haveCur = false
			continue
		}
		if haveCur {
			cur.matrix = cur.matrix.Multiply(m)
		} else {
			cur.matrix = m
			haveCur = true
		}
		flushCrops(&cur, node)
	}
	if haveCur || len(steps) == 0 {
		steps = append(steps, cur)
	}
	return steps
}

// vertexMatrix builds anchor . aspect . scale . rotation . aspect^-1 .
// translation for one chain node (spec.md §4.2.2). Aspect correction is
// folded into FillScale by the caller supplying an already aspect-
// corrected scale (the resolver has no independent aspect source beyond
// the node's own FillScale/FillTranslation in this core).
func vertexMatrix(n ChainNode) geom.Matrix {
	sx, sy := n.FillScale.X, n.FillScale.Y
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	scale := geom.Scale(sx, sy)
	rot := geom.Rotate(n.Angle)
	anchor := geom.Translate(n.Anchor.X, n.Anchor.Y)
	unanchor := geom.Translate(-n.Anchor.X, -n.Anchor.Y)
	translate := geom.Translate(n.FillTranslation.X, n.FillTranslation.Y)

	m := anchor.Multiply(scale).Multiply(rot).Multiply(unanchor)
	return translate.Multiply(m)
}

func rectQuad(translation, scale geom.Point) [4]geom.Point {
	r := geom.Rect{ULx: translation.X, ULy: translation.Y,
		LRx: translation.X + scale.X, LRy: translation.Y + scale.Y}
	return r.Quad()
}

func transformQuad(q [4]geom.Point, m geom.Matrix) [4]geom.Point {
	var out [4]geom.Point
	for i, p := range q {
		out[i] = m.TransformPoint(p)
	}
	return out
}

// applyScaleMode rewrites vertex output position per spec.md §4.2.1 when
// the frame has a known natural size and a non-stretch scale mode was
// requested.
func applyScaleMode(verts []geom.Vertex, it Item) []geom.Vertex {
	if it.Geometry.ScaleMode == ScaleStretch || it.NaturalW <= 0 || it.NaturalH <= 0 {
		return verts
	}
	// The geometry is defined over [0,1]x[0,1] output space; the natural
	// aspect is compared against that unit square.
	wScale := 1.0
	hScale := float64(it.NaturalW) / float64(it.NaturalH)
	var scaleX, scaleY float64
	switch it.Geometry.ScaleMode {
	case ScaleFit:
		s := math.Min(wScale, hScale)
		scaleX, scaleY = s/wScale, s/hScale
	case ScaleFill:
		s := math.Max(wScale, hScale)
		scaleX, scaleY = s/wScale, s/hScale
	case ScaleOriginal:
		scaleX, scaleY = 1/wScale, 1/hScale
	case ScaleHFill:
		scaleX, scaleY = 1, hScale/wScale
	case ScaleVFill:
		scaleX, scaleY = wScale/hScale, 1
	default:
		return verts
	}
	cx, cy := 0.5, 0.5
	out := make([]geom.Vertex, len(verts))
	for i, v := range verts {
		out[i] = v
		out[i].VX = cx + (v.VX-cx)*scaleX
		out[i].VY = cy + (v.VY-cy)*scaleY
	}
	return out
}

func offscreen(verts []geom.Vertex) bool {
	allLeft, allRight, allAbove, allBelow := true, true, true, true
	for _, v := range verts {
		if v.VX >= 0 {
			allLeft = false
		}
		if v.VX <= 1 {
			allRight = false
		}
		if v.VY >= 0 {
			allAbove = false
		}
		if v.VY <= 1 {
			allBelow = false
		}
	}
	return allLeft || allRight || allAbove || allBelow
}

func dedup(verts []geom.Vertex, eps float64) []geom.Vertex {
	if len(verts) == 0 {
		return verts
	}
	out := make([]geom.Vertex, 0, len(verts))
	out = append(out, verts[0])
	for i := 1; i < len(verts); i++ {
		prev := out[len(out)-1]
		v := verts[i]
		if math.Abs(v.VX-prev.VX) < eps && math.Abs(v.VY-prev.VY) < eps {
			continue
		}
		out = append(out, v)
	}
	if len(out) > 1 {
		first, last := out[0], out[len(out)-1]
		if math.Abs(first.VX-last.VX) < eps && math.Abs(first.VY-last.VY) < eps {
			out = out[:len(out)-1]
		}
	}
	return out
}
