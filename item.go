package mixer

// item is created in Visit and consumed when Render drains the layer
// list (spec.md §3 "item (mixer stack record)"). chain is the nested
// transform tree from the root identity node to the node the item was
// visited under, retained so the resolver can perform step splitting and
// clip/crop accumulation (spec.md §4.2); attrs holds the innermost
// node's non-geometric fields (opacity, CSB, levels, chroma, flags,
// blend mode, field mode).
type item struct {
	desc     PixelFormatDesc
	planes   [][]byte
	bitDepth BitDepth
	chain    []chainNode
	attrs    ImageTransform
	geometry FrameGeometry
	natW     int
	natH     int
}

// layer is an ordered sequence of items sharing one blend mode, created
// by BeginLayer and drained by Render.
type layer struct {
	blendMode BlendMode
	items     []item
}
