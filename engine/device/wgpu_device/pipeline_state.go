package wgpu_device

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrPipelineMismatch is returned when a pipeline is set in a pass whose attachments it cannot
// render to.
var ErrPipelineMismatch = errors.New("wgpu_device: pipeline does not match pass attachments")

// PipelineStates holds the fixed-function parts of a wgpu.RenderPipelineDescriptor derived from
// a pipeline variant. The application adds the shader stages and layout, compiles the pipeline
// and attaches it with SetHandle.
type PipelineStates struct {
	Primitive    wgpu.PrimitiveState
	DepthStencil *wgpu.DepthStencilState
	Targets      []wgpu.ColorTargetState
}

// NewPipelineStates derives the fixed-function state of p.
//
// Parameters:
//   - p: the pipeline variant
//   - color: the color attachment format, ignored for depth-only pipelines
//   - depth: the depth attachment format, or wgpu.TextureFormatUndefined for passes without one
//
// Returns:
//   - PipelineStates: the primitive, depth-stencil and color target state
func NewPipelineStates(p pipeline.Pipeline, color, depth wgpu.TextureFormat) PipelineStates {
	s := PipelineStates{
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
	}
	if p.HasColorTarget() {
		s.Targets = []wgpu.ColorTargetState{{Format: color, WriteMask: p.WriteMask()}}
	}
	if depth != wgpu.TextureFormatUndefined {
		compare := wgpu.CompareFunctionLess
		if !p.DepthTestEnabled() {
			compare = wgpu.CompareFunctionAlways
		}
		bias, slope := p.DepthBias()
		s.DepthStencil = &wgpu.DepthStencilState{
			Format:              depth,
			DepthWriteEnabled:   p.DepthWriteEnabled(),
			DepthCompare:        compare,
			DepthBias:           bias,
			DepthBiasSlopeScale: slope,
			StencilFront:        wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:         wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}
	return s
}

// checkPipeline reports whether p can draw into the attachments of desc. Color attachments must
// be present exactly when p has a color target. Depth testing or writing needs a depth attachment.
func checkPipeline(p pipeline.Pipeline, desc *wgpu.RenderPassDescriptor) error {
	if desc == nil {
		return fmt.Errorf("%w: %q set outside a pass", ErrPipelineMismatch, p.Name())
	}
	hasColor := len(desc.ColorAttachments) > 0
	switch {
	case p.HasColorTarget() && !hasColor:
		return fmt.Errorf("%w: %q writes color but pass %q has no color attachment", ErrPipelineMismatch, p.Name(), desc.Label)
	case !p.HasColorTarget() && hasColor:
		return fmt.Errorf("%w: depth-only %q in pass %q with color attachments", ErrPipelineMismatch, p.Name(), desc.Label)
	case (p.DepthTestEnabled() || p.DepthWriteEnabled()) && desc.DepthStencilAttachment == nil:
		return fmt.Errorf("%w: %q uses depth but pass %q has no depth attachment", ErrPipelineMismatch, p.Name(), desc.Label)
	}
	return nil
}
