package mixer

import (
	"context"
	"fmt"

	"github.com/fieldcast/mixer/internal/cpufallback"
	"github.com/fieldcast/mixer/internal/fragment"
	"github.com/fieldcast/mixer/internal/geom"
	"github.com/fieldcast/mixer/internal/parallel"
	"github.com/fieldcast/mixer/internal/planner"
	"github.com/fieldcast/mixer/internal/resolve"
)

// accelerator is the render backend a Mixer dispatches to: either the
// cpuAccelerator software path or the gpuAccelerator hardware path. Both
// resolve the same item geometry and run the same fragment contract, so
// the two paths only differ in where the per-pixel math actually runs
// (spec.md §4.6/§4.7).
type accelerator interface {
	name() string
	render(ctx context.Context, committed []layer, width, height int, field cpufallback.Field) (*cpufallback.Surface, error)
	close()
}

// openAccelerator selects and constructs the accelerator per
// WithAcceleratorPath: AcceleratorAuto tries GPU first and silently
// drops to CPU on initialization failure (spec.md §4.6: "GPU unavailable
// ⇒ software fallback").
func openAccelerator(width, height int, cfg config) (accelerator, error) {
	switch cfg.acceleratorPath {
	case AcceleratorCPU:
		return newCPUAccelerator(width, height, cfg), nil
	case AcceleratorGPU:
		a, err := newGPUAccelerator(width, height, cfg)
		if err != nil {
			return nil, newError(KindDeviceLost, "open_accelerator", err)
		}
		return a, nil
	default:
		a, err := newGPUAccelerator(width, height, cfg)
		if err != nil {
			Logger().Warn("gpu accelerator unavailable, using CPU fallback", "err", err)
			cpu := newCPUAccelerator(width, height, cfg)
			cpu.restricted = true
			return cpu, nil
		}
		return a, nil
	}
}

// cpuAccelerator is the pure-Go render path: a work-stealing pool
// rasterizes each resolved item polygon directly onto an 8-bit
// premultiplied BGRA surface. It also serves as the reference compositor
// the GPU accelerator's resource-bound pipeline executes against while
// its own per-pixel dispatch is deferred (see accelerator_gpu.go).
//
// restricted marks the true software-fallback case of spec.md §4.7: the
// GPU path was preferred (AcceleratorAuto) but unavailable. In that mode
// perspective, chroma key and non-normal blend modes degrade to identity
// rather than rendering (§7: "unsupported features degrade to
// identity"), since the fallback path's contract never promised them.
// When this accelerator instead backs an explicitly-forced CPU path or
// the GPU accelerator's own execution, restricted stays false and every
// feature renders in full.
type cpuAccelerator struct {
	pool       *parallel.Pool
	scalers    *cpufallback.Scalers
	stills     *planner.StillCache
	width      int
	height     int
	restricted bool

	// blendModesEnable/chromaEnabled mirror the `mixer.blend-modes` and
	// `mixer.chroma.enabled` config keys of spec.md §6: independent of the
	// §4.7 fallback restriction, a caller can globally disable either
	// feature for every accelerator.
	blendModesEnable bool
	chromaEnabled    bool
}

func newCPUAccelerator(width, height int, cfg config) *cpuAccelerator {
	return &cpuAccelerator{
		pool:             parallel.New(0),
		scalers:          cpufallback.NewScalers(cfg.descriptorSetPool),
		stills:           planner.NewStillCache(cfg.descriptorSetPool * 4),
		width:            width,
		height:           height,
		blendModesEnable: cfg.blendModesEnable,
		chromaEnabled:    cfg.chromaEnabled,
	}
}

func (a *cpuAccelerator) name() string { return "cpu" }

// render drains every committed layer (spec.md §4.3): within a layer,
// is_key items build a local_key mask, is_mix items accumulate into a
// local_mix attachment against that mask, ordinary items draw to the
// output consuming both the finished local_key and the previous layer's
// layer_key, and the accumulated local_mix is finally composited onto the
// output with the additive keyer. The finished local_key becomes
// layer_key for the next layer.
func (a *cpuAccelerator) render(_ context.Context, committed []layer, width, height int, field cpufallback.Field) (*cpufallback.Surface, error) {
	surf := cpufallback.NewSurface(width, height)
	var layerKey *cpufallback.KeyMask
	for _, l := range committed {
		mode, keyer := blendAndKeyerOf(l.blendMode)
		if (a.restricted || !a.blendModesEnable) && mode != fragment.BlendNormal {
			mode = fragment.BlendNormal
		}

		var keyItems, mixItems, ordinary []item
		for _, it := range l.items {
			if a.restricted {
				it = degradeToFallback(it)
			}
			if !a.chromaEnabled {
				it.attrs.Chroma.Enable = false
			}
			switch {
			case it.attrs.IsKey:
				keyItems = append(keyItems, it)
			case it.attrs.IsMix:
				mixItems = append(mixItems, it)
			default:
				ordinary = append(ordinary, it)
			}
		}

		var localKey *cpufallback.KeyMask
		if len(keyItems) > 0 {
			localKey = cpufallback.NewKeyMask(width, height)
			for _, it := range keyItems {
				verts, ok := a.resolveCached(it)
				if !ok {
					continue
				}
				a.drawKeyItem(localKey, it, verts, width, height, field)
			}
		}

		var localMix *cpufallback.Surface
		if len(mixItems) > 0 {
			localMix = cpufallback.NewSurface(width, height)
			for _, it := range mixItems {
				verts, ok := a.resolveCached(it)
				if !ok {
					continue
				}
				sample := a.itemSampler(it, verts, localKey, layerKey, width, height)
				cpufallback.Draw(a.pool, localMix, verts, sample, fragment.BlendNormal, fragment.KeyerAdditive, field)
			}
		}

		for _, it := range ordinary {
			verts, ok := a.resolveCached(it)
			if !ok {
				continue
			}
			sample := a.itemSampler(it, verts, localKey, layerKey, width, height)
			cpufallback.Draw(a.pool, surf, verts, sample, mode, keyer, field)
		}

		if localMix != nil {
			cpufallback.CompositeAdditive(surf, localMix)
		}
		if localKey != nil {
			layerKey = localKey
		}
	}
	a.stills.Sweep()
	return surf, nil
}

// drawKeyItem renders one is_key item's own alpha into mask. A key item
// builds the mask from scratch rather than consuming one itself.
func (a *cpuAccelerator) drawKeyItem(mask *cpufallback.KeyMask, it item, verts []geom.Vertex, width, height int, field cpufallback.Field) {
	sample := func(px, py int) (float32, bool) {
		tx, ty, q, ok := textureCoordAt(verts, px, py, width, height)
		if !ok {
			return 0, false
		}
		c, ok := sampleItem(it, tx, ty, q, keyMasks{})
		if !ok {
			return 0, false
		}
		return c.A, true
	}
	cpufallback.DrawMask(a.pool, mask, verts, sample, field)
}

// itemSampler builds the per-pixel sampler for an is_mix or ordinary
// item, feeding it the layer's finished local_key (if any) and the
// previous layer's layer_key (if any) as the key masks of spec.md §4.5
// step 8.
func (a *cpuAccelerator) itemSampler(it item, verts []geom.Vertex, localKey, layerKey *cpufallback.KeyMask, width, height int) cpufallback.Sampler {
	return func(px, py int) (fragment.RGBA, bool) {
		tx, ty, q, ok := textureCoordAt(verts, px, py, width, height)
		if !ok {
			return fragment.RGBA{}, false
		}
		km := keyMasks{
			hasLocal: localKey != nil,
			localR:   localKey.At(px, py),
			hasLayer: layerKey != nil,
			layerR:   layerKey.At(px, py),
		}
		return sampleItem(it, tx, ty, q, km)
	}
}

// resolveCached resolves an item's geometry, consulting the still-item
// cache first: a still's resolved polygon depends only on its transform
// chain and geometry, never its pixel data, so an unchanged still across
// renders skips the resolver entirely (SPEC_FULL.md §C.4).
func (a *cpuAccelerator) resolveCached(it item) ([]geom.Vertex, bool) {
	if !it.attrs.IsStill {
		return resolve.Resolve(resolveItem(it))
	}
	key := stillFingerprint(it)
	if verts, hit := a.stills.Get(key); hit {
		return verts, true
	}
	verts, ok := resolve.Resolve(resolveItem(it))
	if ok {
		a.stills.Put(key, verts)
	}
	return verts, ok
}

// stillFingerprint identifies a still item's resolver inputs: its
// transform chain, geometry and natural size. Anything else about the
// item (pixel data, opacity, chroma) does not affect the resolved
// polygon.
func stillFingerprint(it item) string {
	return fmt.Sprintf("%+v|%+v|%dx%d", it.chain, it.geometry, it.natW, it.natH)
}

// degradeToFallback strips the features spec.md §4.7 excludes from the
// CPU fallback: perspective pins flatten to their identity plane, and
// chroma key evaluation is skipped.
func degradeToFallback(it item) item {
	it.attrs.Chroma.Enable = false
	chain := make([]chainNode, len(it.chain))
	copy(chain, it.chain)
	for i := range chain {
		chain[i].hasPerspective = false
	}
	it.chain = chain
	return it
}

func (a *cpuAccelerator) close() {
	a.pool.Close()
	a.scalers.Close()
}

// blendAndKeyerOf maps a layer's root BlendMode to the fragment
// package's mirrored enum and picks the keyer: non-normal blend modes
// always use the linear keyer (spec.md §4.5 step 10 only special-cases
// additive for normal-mode key/mix items, handled upstream of blend).
func blendAndKeyerOf(m BlendMode) (fragment.BlendMode, fragment.Keyer) {
	return fragment.BlendMode(m), fragment.KeyerLinear
}

// resolveItem projects a root item into resolve.Item.
func resolveItem(it item) resolve.Item {
	chain := make([]resolve.ChainNode, len(it.chain))
	for i, n := range it.chain {
		chain[i] = resolve.ChainNode{
			Anchor:          n.anchor,
			FillScale:       n.fillScale,
			FillTranslation: n.fillTranslation,
			Angle:           n.angle,
			ClipTranslation: n.clipTranslation,
			ClipScale:       n.clipScale,
			HasClip:         n.hasClip,
			Crop:            n.crop,
			HasCrop:         n.hasCrop,
			Perspective:     n.perspective,
			HasPerspective:  n.hasPerspective,
		}
	}
	return resolve.Item{
		Chain: chain,
		Geometry: resolve.Geometry{
			Coords:    it.geometry.Coords,
			ScaleMode: resolve.ScaleMode(it.geometry.ScaleMode),
		},
		NaturalW: it.natW,
		NaturalH: it.natH,
	}
}

// textureCoordAt finds the barycentric texture coordinate at output
// pixel (px,py) within the resolved convex polygon verts, using a
// triangle fan from vertex 0 (spec.md §4.2.5: perspective-correct
// interpolation divides by the interpolated q before sampling).
func textureCoordAt(verts []geom.Vertex, px, py, width, height int) (tx, ty, q float64, ok bool) {
	if len(verts) < 3 {
		return 0, 0, 0, false
	}
	fx := (float64(px) + 0.5) / float64(width)
	fy := (float64(py) + 0.5) / float64(height)
	for i := 1; i < len(verts)-1; i++ {
		a, b, c := verts[0], verts[i], verts[i+1]
		if u, v, w, inside := barycentric(a, b, c, fx, fy); inside {
			tx = u*a.TX + v*b.TX + w*c.TX
			ty = u*a.TY + v*b.TY + w*c.TY
			qa, qb, qc := a.TQ, b.TQ, c.TQ
			if qa == 0 {
				qa = 1
			}
			if qb == 0 {
				qb = 1
			}
			if qc == 0 {
				qc = 1
			}
			q = u*qa + v*qb + w*qc
			return tx, ty, q, true
		}
	}
	return 0, 0, 0, false
}

func barycentric(a, b, c geom.Vertex, px, py float64) (u, v, w float64, inside bool) {
	d := (b.VY-c.VY)*(a.VX-c.VX) + (c.VX-b.VX)*(a.VY-c.VY)
	if d == 0 {
		return 0, 0, 0, false
	}
	u = ((b.VY-c.VY)*(px-c.VX) + (c.VX-b.VX)*(py-c.VY)) / d
	v = ((c.VY-a.VY)*(px-c.VX) + (a.VX-c.VX)*(py-c.VY)) / d
	w = 1 - u - v
	const eps = -1e-9
	return u, v, w, u >= eps && v >= eps && w >= eps
}
