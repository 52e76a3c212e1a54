package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Names of the pipeline variants selected by the render graph.
const (
	Opaque        = "opaque"
	SkinnedOpaque = "skinnedOpaque"
	Sky           = "sky"
	Shadow        = "shadow"
	Debug         = "debug"
	Ssao          = "ssao"
	SsaoBlur      = "ssaoBlur"
	DrawNormals   = "drawNormals"
)

// Names lists every pipeline variant the render graph may look up.
var Names = []string{Opaque, SkinnedOpaque, Sky, Shadow, Debug, Ssao, SsaoBlur, DrawNormals}

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	// name is the variant name used for lookups
	name string

	// handle is the compiled device object, e.g. *wgpu.RenderPipeline; nil for headless devices
	handle any

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	colorTarget         bool
}

// Pipeline is a named render pipeline variant together with the fixed-function state it was
// compiled with. Compilation itself happens outside the frame core; the compiled object is
// attached with SetHandle.
type Pipeline interface {
	// Name returns the variant name this pipeline is registered under.
	//
	// Returns:
	//   - string: the pipeline name
	Name() string

	// Handle returns the compiled device object.
	// Note: the caller is responsible for type asserting the returned value, e.g. to *wgpu.RenderPipeline.
	//
	// Returns:
	//   - any: the compiled pipeline, or nil if none was attached
	Handle() any

	// SetHandle attaches the compiled device object.
	//
	// Parameters:
	//   - h: the compiled pipeline
	SetHandle(h any)

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	DepthWriteEnabled() bool

	// DepthBias returns the constant and slope-scaled depth bias.
	//
	// Returns:
	//   - int32: the constant depth bias
	//   - float32: the slope scale
	DepthBias() (int32, float32)

	// CullMode returns the cull mode configured for this pipeline.
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	WriteMask() wgpu.ColorWriteMask

	// HasColorTarget reports whether the pipeline writes a color attachment. Depth-only
	// pipelines such as the shadow pass return false.
	HasColorTarget() bool
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a pipeline variant with the default state: depth test and write on,
// back-face culling, triangle lists, counter-clockwise front faces and a color target.
//
// Parameters:
//   - name: the variant name
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the configured pipeline
func NewPipeline(name string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		name:              name,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeBack,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		colorTarget:       true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Name() string {
	return p.name
}

func (p *pipeline) Handle() any {
	return p.handle
}

func (p *pipeline) SetHandle(h any) {
	p.handle = h
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthBias() (int32, float32) {
	return p.depthBias, p.depthBiasSlopeScale
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) HasColorTarget() bool {
	return p.colorTarget
}
