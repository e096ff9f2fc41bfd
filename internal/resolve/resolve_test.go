package resolve

import (
	"math"
	"testing"

	"github.com/fieldcast/mixer/internal/geom"
)

func unitSquare() []geom.Vertex {
	return []geom.Vertex{
		{VX: 0, VY: 0, TX: 0, TY: 0, TQ: 1},
		{VX: 1, VY: 0, TX: 1, TY: 0, TQ: 1},
		{VX: 1, VY: 1, TX: 1, TY: 1, TQ: 1},
		{VX: 0, VY: 1, TX: 0, TY: 1, TQ: 1},
	}
}

func TestResolveIdentityChainPassesThrough(t *testing.T) {
	verts, ok := Resolve(Item{Geometry: Geometry{Coords: unitSquare(), ScaleMode: ScaleStretch}})
	if !ok {
		t.Fatalf("identity unit square should resolve")
	}
	if len(verts) != 4 {
		t.Fatalf("expected 4 vertices, got %d: %+v", len(verts), verts)
	}
	for i, v := range verts {
		want := unitSquare()[i]
		if math.Abs(v.VX-want.VX) > 1e-9 || math.Abs(v.VY-want.VY) > 1e-9 {
			t.Fatalf("vertex %d = %+v, want %+v", i, v, want)
		}
	}
}

func TestResolveOffscreenItemIsRejected(t *testing.T) {
	item := Item{
		Chain: []ChainNode{{
			FillScale:       geom.Point{X: 1, Y: 1},
			FillTranslation: geom.Point{X: 2, Y: 2},
		}},
		Geometry: Geometry{Coords: unitSquare()},
	}
	_, ok := Resolve(item)
	if ok {
		t.Fatalf("an item translated fully outside [0,1]x[0,1] should not resolve")
	}
}

func TestResolveCropClipsToAccumulatedRect(t *testing.T) {
	item := Item{
		Chain: []ChainNode{{
			Crop:    geom.Rect{ULx: 0.25, ULy: 0.25, LRx: 0.75, LRy: 0.75},
			HasCrop: true,
		}},
		Geometry: Geometry{Coords: unitSquare()},
	}
	verts, ok := Resolve(item)
	if !ok {
		t.Fatalf("crop should leave a non-empty polygon")
	}
	var minX, minY, maxX, maxY = 1.0, 1.0, 0.0, 0.0
	for _, v := range verts {
		minX, maxX = math.Min(minX, v.VX), math.Max(maxX, v.VX)
		minY, maxY = math.Min(minY, v.VY), math.Max(maxY, v.VY)
	}
	const eps = 1e-6
	if math.Abs(minX-0.25) > eps || math.Abs(maxX-0.75) > eps ||
		math.Abs(minY-0.25) > eps || math.Abs(maxY-0.75) > eps {
		t.Fatalf("clipped bounds = [%v,%v]x[%v,%v], want [0.25,0.75]x[0.25,0.75]", minX, maxX, minY, maxY)
	}
}

func TestResolveScaleFitPreservesAspect(t *testing.T) {
	item := Item{
		Geometry: Geometry{Coords: unitSquare(), ScaleMode: ScaleFit},
		NaturalW: 200,
		NaturalH: 100,
	}
	verts, ok := Resolve(item)
	if !ok {
		t.Fatalf("scale-fit square should resolve")
	}
	v0 := verts[0]
	if math.Abs(v0.VX-0) > 1e-9 || math.Abs(v0.VY-0.25) > 1e-9 {
		t.Fatalf("first vertex after 2:1 fit = %+v, want (0, 0.25)", v0)
	}
}

func TestResolveTranslationMovesVertices(t *testing.T) {
	item := Item{
		Chain: []ChainNode{{
			FillScale:       geom.Point{X: 0.5, Y: 0.5},
			FillTranslation: geom.Point{X: 0.1, Y: 0.1},
		}},
		Geometry: Geometry{Coords: unitSquare()},
	}
	verts, ok := Resolve(item)
	if !ok {
		t.Fatalf("half-scaled-and-shifted square should still resolve")
	}
	v2 := verts[2] // originally (1,1)
	if math.Abs(v2.VX-0.6) > 1e-9 || math.Abs(v2.VY-0.6) > 1e-9 {
		t.Fatalf("scaled+translated corner = %+v, want (0.6, 0.6)", v2)
	}
}

func TestResolveEmptyCoordsFails(t *testing.T) {
	_, ok := Resolve(Item{})
	if ok {
		t.Fatalf("an item with no geometry coords should not resolve")
	}
}
