// Package gpubackend acquires the real GPU instance, adapter, device and
// queue spec.md §5 names on top of gogpu/wgpu's hal layer. The pooled
// textures/buffers and the fenced ring of per-pass command contexts live
// in internal/gpucache.
// Actual per-pixel dispatch is out of scope for this phase: the
// accelerator built on it executes the shader contract on the CPU
// reference path (internal/fragment) while still exercising real
// device/resource acquisition, mirroring the staged GPU-path rollout of
// a hybrid pipeline that defers kernel dispatch to a later phase.
package gpubackend

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device bundles the GPU resources one accelerator instance owns.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     *GPUInfo
}

// GPUInfo describes the selected adapter.
type GPUInfo struct {
	Name       string
	DeviceType gputypes.DeviceType
}

// Open enumerates adapters on the primary backend and opens the first
// discrete or integrated GPU it finds, falling back to whatever adapter
// is first in the list.
func Open(label string) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("gpubackend: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpubackend: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("gpubackend: no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	opened, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("gpubackend: open device %q: %w", label, err)
	}

	return &Device{
		instance: instance,
		device:   opened.Device,
		queue:    opened.Queue,
		info:     &GPUInfo{Name: selected.Info.Name, DeviceType: selected.Info.DeviceType},
	}, nil
}

// Info returns the selected adapter's description, or nil if unavailable.
func (d *Device) Info() *GPUInfo { return d.info }

// HalDevice exposes the raw handle to the shader pipeline and resource
// pool, which must live in the same hal device context to create shader
// modules and textures against it.
func (d *Device) HalDevice() hal.Device { return d.device }
func (d *Device) HalQueue() hal.Queue   { return d.queue }

// Close releases the device. The instance and adapter handles do not
// require explicit teardown in the current hal surface.
func (d *Device) Close() {
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
	d.queue = nil
}
