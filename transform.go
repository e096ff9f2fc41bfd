package mixer

import "github.com/fieldcast/mixer/internal/geom"

// FieldMode is a bitset: progressive | upper | lower | empty, with the
// invariant upper & lower == empty; upper | lower is progressive.
type FieldMode uint8

const (
	FieldEmpty FieldMode = 0
	FieldUpper FieldMode = 1 << iota
	FieldLower
)

// FieldProgressive denotes a full, non-interlaced frame.
const FieldProgressive FieldMode = FieldUpper | FieldLower

// Mask returns f AND'd with pass, used by the render driver to drop
// items whose field does not intersect the field currently being drawn.
func (f FieldMode) Mask(pass FieldMode) FieldMode { return f & pass }

// Levels describes a standard levels/gamma remap.
type Levels struct {
	Enabled   bool
	MinInput  float64
	MaxInput  float64
	MinOutput float64
	MaxOutput float64
	Gamma     float64 // > 0
}

// DefaultLevels returns the identity levels configuration.
func DefaultLevels() Levels {
	return Levels{MinInput: 0, MaxInput: 1, MinOutput: 0, MaxOutput: 1, Gamma: 1}
}

// Chroma describes chroma-key gating and spill suppression.
type Chroma struct {
	Enable                  bool
	ShowMask                bool
	TargetHue               float64 // [0,360)
	HueWidth                float64 // [0,1]
	MinSaturation           float64 // [0,1]
	MinBrightness           float64 // [0,1]
	Softness                float64 // [0,inf)
	SpillSuppress           float64 // [0,360)
	SpillSuppressSaturation float64 // [0,1]
}

// ScaleMode selects how a frame with a known natural size is fit into
// its geometry (spec.md §4.2.1).
type ScaleMode int

const (
	ScaleStretch ScaleMode = iota
	ScaleFit
	ScaleFill
	ScaleOriginal
	ScaleHFill
	ScaleVFill
)

// ImageTransform is the composite per-item transform of spec.md §3.
type ImageTransform struct {
	Opacity                float64
	Brightness             float64 // identity = 1
	Saturation             float64
	Contrast               float64
	Levels                 Levels
	Chroma                 Chroma

	Anchor          geom.Point // ℝ²
	FillScale       geom.Point // ℝ²
	FillTranslation geom.Point // ℝ²
	Angle           float64    // radians

	ClipTranslation geom.Point
	ClipScale       geom.Point

	Crop geom.Rect // normalized [0,1] post-transform crop

	Perspective geom.Corners // four-corner pin

	FieldMode FieldMode

	IsKey                   bool
	IsMix                   bool
	IsStill                 bool
	Invert                  bool
	EnableGeometryModifiers bool

	BlendMode  BlendMode
	LayerDepth int
}

// Identity returns the neutral image transform: opaque, unit CSB,
// disabled levels/chroma, identity geometry, progressive field.
func Identity() ImageTransform {
	return ImageTransform{
		Opacity:    1,
		Brightness: 1,
		Saturation: 1,
		Contrast:   1,
		Levels:     DefaultLevels(),
		FillScale:  geom.Pt(1, 1),
		FieldMode:  FieldProgressive,
		BlendMode:  BlendNormal,
	}
}

// FrameTransform is what Push accepts: one node of the nested transform
// tree of spec.md §4.2. Its geometric fields (anchor/scale/rotation,
// clip, crop, perspective) are composed by the resolver walking the
// chain of pushed nodes outer-to-inner; its non-geometric fields
// (opacity, CSB, levels, chroma, flags, blend mode) describe this node
// and are carried forward as the item's effective attributes, since the
// innermost Visit call's node is the one that "owns" the drawn frame.
type FrameTransform struct {
	Transform ImageTransform

	// GateClip/GateCrop/GatePerspective gate this node's own
	// clip/crop/perspective: when false, they are not accumulated into the
	// resolver's step list (spec.md §4.1: "a frame_transform additionally
	// carries the geometry modifiers that gate clip/crop/perspective").
	// Transform.EnableGeometryModifiers is not consulted.
	GateClip        bool
	GateCrop        bool
	GatePerspective bool
}

// chainNode is the resolver-facing projection of one pushed
// FrameTransform: just the geometric fields needed by step splitting and
// clip/crop accumulation (spec.md §4.2 steps 1-4).
type chainNode struct {
	anchor          geom.Point
	fillScale       geom.Point
	fillTranslation geom.Point
	angle           float64

	clipTranslation geom.Point
	clipScale       geom.Point
	hasClip         bool

	crop    geom.Rect
	hasCrop bool

	perspective    geom.Corners
	hasPerspective bool
}

// toChainNode projects a FrameTransform into the resolver-facing node,
// applying the geometry-modifier gates.
func (t FrameTransform) toChainNode() chainNode {
	n := chainNode{
		anchor:          t.Transform.Anchor,
		fillScale:       t.Transform.FillScale,
		fillTranslation: t.Transform.FillTranslation,
		angle:           t.Transform.Angle,
	}
	if t.GateClip && (t.Transform.ClipScale != geom.Point{} || t.Transform.ClipTranslation != geom.Point{}) {
		n.clipTranslation = t.Transform.ClipTranslation
		n.clipScale = t.Transform.ClipScale
		n.hasClip = true
	}
	if t.GateCrop && !t.Transform.Crop.Empty() {
		n.crop = t.Transform.Crop
		n.hasCrop = true
	}
	if t.GatePerspective && !t.Transform.Perspective.IsIdentity() {
		n.perspective = t.Transform.Perspective
		n.hasPerspective = true
	}
	return n
}
