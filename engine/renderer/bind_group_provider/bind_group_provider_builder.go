package bind_group_provider

import (
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithPassGroup sets the group 0 bind group and the buffers it references.
//
// Parameters:
//   - bg: bind group over the pass constants (dynamic) and SSAO constants
//   - pass: buffer receiving the pass constants region, one aligned block per pass slot
//   - ssao: buffer receiving the SSAO constants, may be nil
//
// Returns:
//   - BindGroupProviderOption: a function that sets the pass group
func WithPassGroup(bg *wgpu.BindGroup, pass, ssao *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.passGroup = bg
		p.passBuffer = pass
		p.ssaoBuffer = ssao
	}
}

// WithObjectGroup sets the group 1 bind group and the buffers it references.
//
// Parameters:
//   - bg: bind group over the instance constants (dynamic) and the material table
//   - instances: buffer receiving the instance region, one aligned block per slot
//   - materials: storage buffer receiving the material region as packed
//
// Returns:
//   - BindGroupProviderOption: a function that sets the object group
func WithObjectGroup(bg *wgpu.BindGroup, instances, materials *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.objectGroup = bg
		p.instanceBuffer = instances
		p.materialBuffer = materials
	}
}

// WithSkinnedGroup sets the group 2 bind group of skinned draws and its buffer.
func WithSkinnedGroup(bg *wgpu.BindGroup, skinned *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.skinnedGroup = bg
		p.skinnedBuffer = skinned
	}
}

// WithConstant registers the group 2 bind group serving root constant name. The group's buffer
// should hold ConstantData.
func WithConstant(name string, bg *wgpu.BindGroup) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.constants[name] = bg
	}
}

// WithReadGroupFactory sets the function creating group 3 for each distinct set of reads.
// Created groups are cached for the provider's lifetime.
func WithReadGroupFactory(fn ReadGroupFactory) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.readFactory = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.logger = logger
	}
}
