package mixer

import "github.com/fieldcast/mixer/internal/async"

// Mixer implements the visitor-style API of spec.md §4.1: upstream
// producers push transforms and frames onto it across a sequence of
// BeginLayer/Push/Visit/Pop/EndLayer calls, and Render drains the
// recorded layers into a composited raster.
//
// Mixer is not safe for concurrent use: a single frame source drives one
// Mixer from one goroutine, matching the "exclusively owns items and
// layers for the current tick" ownership rule of spec.md §3.
type Mixer struct {
	cfg config

	// transform stack; never empty, initialized with the identity
	// node (spec.md §4.1 invariant). attrs runs in parallel, carrying
	// each node's non-geometric ImageTransform so Visit can read the
	// innermost node's effective attributes without re-walking nodes.
	xstack []chainNode
	attrs  []ImageTransform

	// open layers, LIFO; committed holds closed layers in the order
	// EndLayer was called, which is also render order.
	openStack []*layer
	committed []layer

	accel      accelerator
	dispatcher *async.Dispatcher
	width      int
	height     int
}

// New constructs a Mixer, opening the accelerator selected by
// WithAcceleratorPath (default: auto).
func New(width, height int, opts ...Option) (*Mixer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	accel, err := openAccelerator(width, height, cfg)
	if err != nil {
		return nil, err
	}
	return &Mixer{
		cfg:        cfg,
		xstack:     []chainNode{{fillScale: Identity().FillScale}},
		attrs:      []ImageTransform{Identity()},
		accel:      accel,
		dispatcher: async.NewDispatcher(cfg.inboxCapacity),
		width:      width,
		height:     height,
	}, nil
}

// BeginLayer pushes a fresh layer with the given blend mode onto the
// layer list.
func (m *Mixer) BeginLayer(blendMode BlendMode) {
	m.openStack = append(m.openStack, &layer{blendMode: blendMode})
}

// Push records one node of the nested transform tree, per spec.md §4.1.
// The node's own geometry (anchor/scale/rotation, gated clip/crop/
// perspective) is retained for the resolver to walk outer-to-inner at
// Render time (spec.md §4.2); its non-geometric attributes (opacity,
// CSB, levels, chroma, flags, blend mode) become the new top-of-stack
// effective attributes, since the innermost pushed node is the one a
// subsequent Visit draws under.
func (m *Mixer) Push(t FrameTransform) {
	m.xstack = append(m.xstack, t.toChainNode())
	m.attrs = append(m.attrs, t.Transform)
}

// Pop pops the transform stack. Popping past the initial identity node
// is a no-op: the stack is never left empty.
func (m *Mixer) Pop() {
	if len(m.xstack) <= 1 {
		return
	}
	m.xstack = m.xstack[:len(m.xstack)-1]
	m.attrs = m.attrs[:len(m.attrs)-1]
}

// Visit appends an item carrying the current top-of-stack transform.
// Invalid frames (bad pixel format, empty planes, planes smaller than 16
// bytes, or an effective empty field mode) are silently dropped, matching
// the real-time best-effort contract of spec.md §7 — Visit never returns
// an error.
func (m *Mixer) Visit(f Frame) {
	topAttrs := m.attrs[len(m.attrs)-1]
	eff := f.FieldMode.Mask(effectiveFieldGate(topAttrs))
	f.FieldMode = eff
	if err := f.Validate(); err != nil {
		Logger().Debug("visit: dropped invalid frame", "err", err)
		return
	}
	if len(m.openStack) == 0 {
		// No open layer: implicitly open a normal-blend layer so a
		// bare Visit still records. That layer stays open until
		// EndLayer; Render reports invalid_state while it is open.
		m.BeginLayer(BlendNormal)
	}
	cur := m.openStack[len(m.openStack)-1]
	chain := make([]chainNode, len(m.xstack))
	copy(chain, m.xstack)
	attrs := topAttrs
	attrs.FieldMode = eff
	cur.items = append(cur.items, item{
		desc:     f.PixelFormatDesc,
		planes:   f.Planes,
		bitDepth: f.BitDepth,
		chain:    chain,
		attrs:    attrs,
		geometry: f.Geometry,
		natW:     f.NaturalWidth,
		natH:     f.NaturalHeight,
	})
}

// effectiveFieldGate returns the field mask implied by a transform's
// own FieldMode, defaulting to progressive when unset.
func effectiveFieldGate(t ImageTransform) FieldMode {
	if t.FieldMode == FieldEmpty {
		return FieldProgressive
	}
	return t.FieldMode
}

// EndLayer closes the current layer, appending it to the committed list
// in call order (which is also render order).
func (m *Mixer) EndLayer() {
	if len(m.openStack) == 0 {
		return
	}
	n := len(m.openStack) - 1
	l := m.openStack[n]
	m.openStack = m.openStack[:n]
	m.committed = append(m.committed, *l)
}

// balanced reports whether the transform and layer stacks are in the
// state Render requires: exactly the initial identity transform left on
// xstack, and no open layers.
func (m *Mixer) balanced() bool {
	return len(m.xstack) == 1 && len(m.attrs) == 1 && len(m.openStack) == 0
}

// reset clears the committed layer list after a render, leaving the
// transform stack at its initial identity state.
func (m *Mixer) reset() {
	m.committed = nil
	m.xstack = m.xstack[:1]
	m.attrs = m.attrs[:1]
	m.openStack = nil
}

// Close releases the accelerator's resources. The Mixer must not be used
// afterwards.
func (m *Mixer) Close() {
	if m.dispatcher != nil {
		m.dispatcher.Close()
	}
	if m.accel != nil {
		m.accel.close()
	}
}
