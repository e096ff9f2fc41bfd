package mixer

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/fieldcast/mixer/internal/cpufallback"
	"github.com/fieldcast/mixer/internal/gpubackend"
	"github.com/fieldcast/mixer/internal/gpucache"
	"github.com/fieldcast/mixer/internal/shaderpipeline"
)

// gpuAccelerator acquires a real GPU device and compiles the fragment
// contract's shader module for the configured bit depth (spec.md §5),
// pools per-pass command contexts in a fenced ring, and pools host-
// readable staging buffers by size (spec.md §5's texture/buffer pool).
// The pipeline compile-and-create step, and the buffer round trip
// through real GPU memory, are both real; actual per-pixel dispatch
// against the compiled pipeline is deferred to a later phase, so the
// compositing math itself still runs through the same internal/fragment
// reference path the CPU accelerator uses, keeping both paths
// pixel-identical while the GPU path's resource lifecycle is exercised
// end to end.
type gpuAccelerator struct {
	device    *gpubackend.Device
	pipelines *gpucache.Cache[shaderpipeline.BitDepth, *shaderpipeline.Pipeline]
	staging   *gpucache.Pools[hal.Buffer, hal.Buffer]
	ring      *gpucache.Ring[int]
	cpu       *cpuAccelerator
}

func newGPUAccelerator(width, height int, cfg config) (*gpuAccelerator, error) {
	dev, err := gpubackend.Open("mixer-device")
	if err != nil {
		return nil, err
	}

	depth := shaderpipeline.BitDepth(cfg.bitDepth)
	pipelines := gpucache.New[shaderpipeline.BitDepth, *shaderpipeline.Pipeline](4)
	if _, err := pipelines.GetOrCreate(depth, func() (*shaderpipeline.Pipeline, error) {
		return shaderpipeline.Compile(dev.HalDevice(), depth)
	}); err != nil {
		dev.Close()
		return nil, newError(KindDeviceLost, "open_gpu_accelerator", err)
	}

	slots := make([]int, cfg.contextRingDepth)
	for i := range slots {
		slots[i] = i
	}
	ring := gpucache.NewRing(slots, cfg.fenceTimeout)

	return &gpuAccelerator{
		device:    dev,
		pipelines: pipelines,
		staging:   gpucache.NewPools[hal.Buffer, hal.Buffer](cfg.descriptorSetPool, cfg.descriptorSetPool),
		ring:      ring,
		cpu:       newCPUAccelerator(width, height, cfg),
	}, nil
}

func (a *gpuAccelerator) name() string { return "gpu" }

// render acquires a ring slot (spec.md §5's in-flight command-context
// limit), runs the same resolve/fragment/composite path the CPU
// accelerator uses (see the gpuAccelerator type doc for why per-pixel dispatch
// itself is not yet routed through the compiled pipeline), then proves
// the readback path by writing the composited surface through a pooled
// GPU staging buffer and reading it back, the way a real compute
// dispatch's output would be retrieved.
func (a *gpuAccelerator) render(ctx context.Context, committed []layer, width, height int, field cpufallback.Field) (*cpufallback.Surface, error) {
	idx, _, err := a.ring.Acquire(ctx)
	if err != nil {
		return nil, newError(KindResourceExhausted, "render", err)
	}
	defer a.ring.Release(idx)

	surf, err := a.cpu.render(ctx, committed, width, height, field)
	if err != nil {
		return nil, err
	}
	if err := a.roundTripStaging(surf); err != nil {
		return nil, newError(KindDeviceLost, "render", err)
	}
	return surf, nil
}

// roundTripStaging writes surf.Pix into a pooled staging buffer sized to
// match and reads it back in place, keyed by byte size so buffers of a
// recurring output resolution are reused across frames (spec.md §5:
// "pooled... keyed by their allocation parameters").
func (a *gpuAccelerator) roundTripStaging(surf *cpufallback.Surface) error {
	key := gpucache.BufferKey{Size: len(surf.Pix), Usage: uint32(gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst)}
	buf, err := a.staging.Buffers.GetOrCreate(key, func() (hal.Buffer, error) {
		return a.device.HalDevice().CreateBuffer(&hal.BufferDescriptor{
			Label: "mixer-staging-readback",
			Size:  uint64(len(surf.Pix)),
			Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
		})
	})
	if err != nil {
		return fmt.Errorf("gpuAccelerator: create staging buffer: %w", err)
	}
	a.device.HalQueue().WriteBuffer(buf, 0, surf.Pix)
	readback := make([]byte, len(surf.Pix))
	if err := a.device.HalQueue().ReadBuffer(buf, 0, readback); err != nil {
		return fmt.Errorf("gpuAccelerator: read staging buffer: %w", err)
	}
	copy(surf.Pix, readback)
	return nil
}

func (a *gpuAccelerator) close() {
	a.pipelines.Drain(func(p *shaderpipeline.Pipeline) { p.Close() })
	a.staging.Close(func(b hal.Buffer) { a.device.HalDevice().DestroyBuffer(b) }, func(b hal.Buffer) { a.device.HalDevice().DestroyBuffer(b) })
	a.cpu.close()
	a.device.Close()
}
