package resolve

import "github.com/fieldcast/mixer/internal/geom"

// clipConvex clips the vertex polygon against the convex quad using
// Sutherland-Hodgman, walking one clip edge at a time (spec.md §4.2.5c).
// Each clip edge's inside half-plane is determined relative to the
// quad's own centroid, so the result is correct regardless of the quad's
// winding direction. New vertices introduced at an edge crossing have
// their (TX, TY, TQ, TR) linearly interpolated along the clipped edge.
func clipConvex(verts []geom.Vertex, quad [4]geom.Point) []geom.Vertex {
	if len(verts) == 0 {
		return verts
	}
	cx, cy := centroid(quad)
	out := verts
	for i := 0; i < len(quad); i++ {
		if len(out) == 0 {
			break
		}
		a := quad[i]
		b := quad[(i+1)%len(quad)]
		out = clipEdge(out, a, b, cx, cy)
	}
	return out
}

func centroid(quad [4]geom.Point) (x, y float64) {
	var sx, sy float64
	for _, p := range quad {
		px, py := p.Cartesian()
		sx += px
		sy += py
	}
	n := float64(len(quad))
	return sx / n, sy / n
}

// clipEdge clips verts against the half-plane bounded by line (a, b) that
// contains (cx, cy).
func clipEdge(verts []geom.Vertex, a, b geom.Point, cx, cy float64) []geom.Vertex {
	ax, ay := a.Cartesian()
	bx, by := b.Cartesian()
	ex, ey := bx-ax, by-ay

	side := func(x, y float64) float64 { return ex*(y-ay) - ey*(x-ax) }
	ref := side(cx, cy)

	inside := func(s float64) bool {
		if ref >= 0 {
			return s >= -1e-9
		}
		return s <= 1e-9
	}

	n := len(verts)
	out := make([]geom.Vertex, 0, n+1)
	for i := 0; i < n; i++ {
		cur := verts[i]
		prev := verts[(i-1+n)%n]
		curSide := side(cur.VX, cur.VY)
		prevSide := side(prev.VX, prev.VY)
		curIn := inside(curSide)
		prevIn := inside(prevSide)

		if curIn {
			if !prevIn {
				out = append(out, edgeIntersect(prev, cur, prevSide, curSide))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, edgeIntersect(prev, cur, prevSide, curSide))
		}
	}
	return out
}

// edgeIntersect finds the point where segment (prev, cur) crosses the
// clip line (prevSide and curSide are their signed distances to it), and
// linearly interpolates the vertex's texture fields there.
func edgeIntersect(prev, cur geom.Vertex, prevSide, curSide float64) geom.Vertex {
	denom := prevSide - curSide
	t := 0.5
	if denom != 0 {
		t = prevSide / denom
	}
	return geom.Vertex{
		VX: prev.VX + (cur.VX-prev.VX)*t,
		VY: prev.VY + (cur.VY-prev.VY)*t,
		TX: prev.TX + (cur.TX-prev.TX)*t,
		TY: prev.TY + (cur.TY-prev.TY)*t,
		TR: prev.TR + (cur.TR-prev.TR)*t,
		TQ: prev.TQ + (cur.TQ-prev.TQ)*t,
	}
}
