package mixer

import (
	"context"

	"github.com/fieldcast/mixer/internal/async"
	"github.com/fieldcast/mixer/internal/cpufallback"
)

// VideoFormat describes the output raster Render produces (spec.md §3
// "format (video_format)").
type VideoFormat struct {
	Width, Height int
	FieldMode     FieldMode
}

// RenderedFrame is the contiguous BGRA buffer handed to the frame sink
// (spec.md §6): "a contiguous BGRA byte array of length output_width *
// output_height * 4 (8-bit)... Row stride equals width * bytes-per-pixel.
// Data is premultiplied alpha."
type RenderedFrame struct {
	Width, Height int
	Pix           []byte
}

// Render drains every committed layer into one composited raster,
// running on the Mixer's dedicated render thread (spec.md §5). It fails
// with invalid_state if the transform/layer stacks are not balanced
// (§4.1: "Fails with invalid_state if stack is non-empty"). A device_lost
// error from the accelerator triggers one automatic re-initialization
// attempt; persistent failure surfaces as operation_failed on the
// returned future (§7).
func (m *Mixer) Render(ctx context.Context, format VideoFormat) (*async.Future[RenderedFrame], error) {
	if !m.balanced() {
		return nil, newError(KindInvalidState, "render", ErrUnbalancedStack)
	}
	committed := m.committed
	m.reset()

	future := async.Do(m.dispatcher, func() (RenderedFrame, error) {
		return m.runPasses(ctx, committed, format)
	})
	return future, nil
}

// runPasses implements spec.md §4.6: one progressive pass, or an upper
// pass followed by a lower pass with field masking and still de-jitter.
func (m *Mixer) runPasses(ctx context.Context, committed []layer, format VideoFormat) (RenderedFrame, error) {
	surf, err := m.renderWithRetry(ctx, committed, format)
	if err != nil {
		return RenderedFrame{}, err
	}
	return RenderedFrame{Width: surf.Width, Height: surf.Height, Pix: surf.Pix}, nil
}

func (m *Mixer) renderWithRetry(ctx context.Context, committed []layer, format VideoFormat) (*cpufallback.Surface, error) {
	surf, err := m.renderOnce(ctx, committed, format)
	if err == nil {
		return surf, nil
	}
	if !IsKind(err, KindDeviceLost) {
		return nil, err
	}
	Logger().Warn("device lost, attempting one re-initialization", "err", err)
	newAccel, reinitErr := openAccelerator(m.width, m.height, m.cfg)
	if reinitErr != nil {
		return nil, newError(KindOperationFailed, "render", err)
	}
	m.accel.close()
	m.accel = newAccel
	surf, err = m.renderOnce(ctx, committed, format)
	if err != nil {
		return nil, newError(KindOperationFailed, "render", err)
	}
	return surf, nil
}

func (m *Mixer) renderOnce(ctx context.Context, committed []layer, format VideoFormat) (*cpufallback.Surface, error) {
	if format.FieldMode == FieldProgressive || format.FieldMode == FieldEmpty {
		return m.accel.render(ctx, maskLayers(committed, FieldProgressive, FieldProgressive), format.Width, format.Height, cpufallback.ProgressiveField)
	}

	upper := maskLayers(committed, FieldUpper, format.FieldMode)
	lower := maskLayers(committed, FieldLower, format.FieldMode)

	surf := cpufallback.NewSurface(format.Width, format.Height)
	if err := m.renderFieldInto(ctx, surf, upper, format, cpufallback.Field{Start: 0, Step: 2}); err != nil {
		return nil, err
	}
	if err := m.renderFieldInto(ctx, surf, lower, format, cpufallback.Field{Start: 1, Step: 2}); err != nil {
		return nil, err
	}
	return surf, nil
}

// renderFieldInto renders one field pass and copies only the rows that
// pass actually belongs to into dst, so the other field's rows (already
// written by the other call into the same shared surface) survive.
func (m *Mixer) renderFieldInto(ctx context.Context, dst *cpufallback.Surface, committed []layer, format VideoFormat, field cpufallback.Field) error {
	pass, err := m.accel.render(ctx, committed, format.Width, format.Height, field)
	if err != nil {
		return err
	}
	stride := dst.Width * 4
	for y := field.Start; y < dst.Height; y += field.Step {
		off := y * stride
		copy(dst.Pix[off:off+stride], pass.Pix[off:off+stride])
	}
	return nil
}

// maskLayers implements the per-pass item filtering of spec.md §4.6:
// each item's field_mode is AND'd with pass; items masking to empty are
// dropped. A still's field mode is forced to progressive; in an
// interlaced render it is also dropped on the pass that matches
// targetFieldMode (de-jitter), per §9's resolution of
// the source's CPU/GPU inconsistency: "treat CPU behavior as
// authoritative."
func maskLayers(committed []layer, pass, targetFieldMode FieldMode) []layer {
	out := make([]layer, 0, len(committed))
	for _, l := range committed {
		items := make([]item, 0, len(l.items))
		for _, it := range l.items {
			fm := it.attrs.FieldMode
			if it.attrs.IsStill {
				fm = FieldProgressive
				if pass == targetFieldMode && pass != FieldProgressive {
					continue
				}
			}
			masked := fm.Mask(pass)
			if masked == FieldEmpty {
				continue
			}
			it.attrs.FieldMode = masked
			items = append(items, it)
		}
		if len(items) > 0 {
			out = append(out, layer{blendMode: l.blendMode, items: items})
		}
	}
	return out
}
