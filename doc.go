// Package mixer implements the core of a real-time broadcast video
// compositor: a layer/transform stack that upstream producers push frames
// and transforms onto, a geometry resolver, a render-pass planner, a GPU
// resource cache and shader contract, and a CPU fallback renderer.
//
// The wire-level producer protocols, container/codec decoders, audio
// mixing, output device drivers, configuration file parsing and the
// command interface are external collaborators; this package only defines
// the frame source and frame sink contracts they must satisfy.
package mixer
