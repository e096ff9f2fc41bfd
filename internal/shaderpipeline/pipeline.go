// Package shaderpipeline compiles the WGSL fragment shader contract of
// spec.md §4.5/§6 to SPIR-V and creates the device-scoped shader module,
// selected per output attachment bit depth (spec.md
// §5: "device-scoped lazy pipeline selected by attachment bit depth").
// Actual pipeline dispatch is left to a later phase; this package only
// performs the real compile-and-create step so the GPU accelerator path
// exercises naga/hal rather than stubbing them out.
package shaderpipeline

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// BitDepth mirrors the root package's BitDepth so this package does not
// import it (which would create an import cycle back through
// internal/gpubackend).
type BitDepth int

// Pipeline bundles the compiled shader module for one bit depth variant
// of the compositor's fragment contract; it holds no pipeline layout.
type Pipeline struct {
	device   hal.Device
	Module   hal.ShaderModule
	BitDepth BitDepth
}

// wgslSource returns the fragment shader contract source for a given bit
// depth, selecting the precision rescale constant baked into the shader
// (spec.md §6: "precision_factor applied to raw texture samples").
func wgslSource(depth BitDepth) string {
	factor := "1.0"
	switch depth {
	case 10:
		factor = "(1023.0 / 65535.0)"
	case 12:
		factor = "(4095.0 / 65535.0)"
	}
	return fmt.Sprintf(`
struct FragmentParams {
    opacity: f32,
    invert: f32,
};
@group(0) @binding(0) var src_tex: texture_2d<f32>;
@group(0) @binding(1) var src_sampler: sampler;
@group(0) @binding(2) var<uniform> params: FragmentParams;

const precision_factor: f32 = %s;

@fragment
fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
    var c = textureSample(src_tex, src_sampler, uv) * precision_factor;
    if (params.invert > 0.5) {
        c = vec4<f32>(1.0 - c.rgb, c.a);
    }
    return c * params.opacity;
}
`, factor)
}

// Compile compiles the fragment contract for depth and creates a shader
// module on device. The caller owns the returned Pipeline and must call
// Close to release the shader module.
func Compile(device hal.Device, depth BitDepth) (*Pipeline, error) {
	spirv, err := compileToSPIRV(wgslSource(depth))
	if err != nil {
		return nil, fmt.Errorf("shaderpipeline: compile: %w", err)
	}
	mod, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  fmt.Sprintf("mixer-fragment-%dbit", depth),
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("shaderpipeline: create shader module: %w", err)
	}
	return &Pipeline{device: device, Module: mod, BitDepth: depth}, nil
}

// compileToSPIRV compiles WGSL to a SPIR-V uint32 word stream via naga.
func compileToSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// Close destroys the compiled shader module.
func (p *Pipeline) Close() {
	if p.Module != nil {
		p.device.DestroyShaderModule(p.Module)
	}
}
