// package renderer records the frame's render graph: a fixed sequence of passes (shadow depth,
// environment cube, optional ambient occlusion, composite) into a ring slot's command list.
package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/ssao"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
	"github.com/charmbracelet/log"
)

var (
	// ErrFrameAborted wraps any failure while recording a frame. The slot's commands must not be
	// submitted.
	ErrFrameAborted = errors.New("renderer: frame aborted")
	// ErrMissingGeometry is returned for a visible instance whose geometry does not resolve.
	ErrMissingGeometry = errors.New("renderer: visible instance has no geometry")
	// ErrMissingSkin is returned for a visible skinned instance whose skin was never written to
	// the slot's skinned region.
	ErrMissingSkin = errors.New("renderer: skinned instance has no skin")
	// ErrMissingMaterial is returned for a visible instance whose material index is outside the
	// material table.
	ErrMissingMaterial = errors.New("renderer: visible instance has no material")
)

// HorizontalBlur is the root constant selecting the blur direction: 1 horizontal, 0 vertical.
const HorizontalBlur = "horizontalBlur"

// Pass labels as recorded in the command list.
const (
	PassShadow      = "shadow"
	PassEnvironment = "environment"
	PassNormals     = "drawNormals"
	PassSsao        = "ssao"
	PassBlurH       = "ssaoBlur/horizontal"
	PassBlurV       = "ssaoBlur/vertical"
	PassComposite   = "composite"
)

const cubeFaces = 6

// EnvironmentPass returns the label of the environment pass rendering cube face f.
func EnvironmentPass(f int) string {
	return fmt.Sprintf("%s[%d]", PassEnvironment, f)
}

// orchestrator is the implementation of the Orchestrator interface.
type orchestrator struct {
	mu sync.Mutex

	pipelines pipeline.Registry
	resources resource.Registry
	meshes    model.Registry

	ssao        ssao.Ssao
	ssaoEnabled bool

	size       common.Size
	shadowSize common.Size
	cubeSize   common.Size

	// skinCount and materialCount report how many skins and materials the frame uploads; nil
	// bounds them by the slot's region capacity only
	skinCount     func() int
	materialCount func() int

	// layers[l] holds the indices of the visible instances of layer l, rebuilt every Record
	layers [scene.LayerCount][]int

	logger *log.Logger
}

// Orchestrator records one frame's passes in dependency order.
type Orchestrator interface {
	// Record appends the frame's passes to slot.Commands and closes the list.
	// The instances must already be culled: only Visible instances are drawn, each from its Slot.
	//
	// Parameters:
	//   - slot: the ring slot being prepared
	//   - instances: the culled scene instances
	//
	// Returns:
	//   - error: ErrFrameAborted wrapping the first recording failure
	Record(slot *frame.Slot, instances []scene.Instance) error

	// SsaoEnabled reports whether the ambient occlusion passes are recorded.
	SsaoEnabled() bool

	// SetSsaoEnabled turns the ambient occlusion passes on or off. Turning them on without an
	// Ssao component has no effect.
	SetSsaoEnabled(enabled bool)

	// Ssao returns the ambient occlusion component, nil if none was configured.
	Ssao() ssao.Ssao

	// Resize sets the output size used for the main and ambient viewports.
	//
	// Parameters:
	//   - size: the new back buffer size
	Resize(size common.Size)

	// Size returns the output size.
	Size() common.Size
}

var _ Orchestrator = &orchestrator{}

// NewOrchestrator creates an orchestrator drawing through the given registries.
//
// Parameters:
//   - pipelines: resolves pipeline variant names
//   - resources: hands out views of the frame's targets
//   - meshes: resolves instance geometry to draw ranges
//   - size: the back buffer size
//   - options: a variadic list of OrchestratorBuilderOption functions
//
// Returns:
//   - Orchestrator: the orchestrator
func NewOrchestrator(pipelines pipeline.Registry, resources resource.Registry, meshes model.Registry, size common.Size, options ...OrchestratorBuilderOption) Orchestrator {
	o := &orchestrator{
		pipelines:  pipelines,
		resources:  resources,
		meshes:     meshes,
		size:       size,
		shadowSize: common.Size{Width: 2048, Height: 2048},
		cubeSize:   common.Size{Width: 512, Height: 512},
	}
	for _, opt := range options {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.With("graph")
	}
	if o.ssao == nil {
		o.ssaoEnabled = false
	}
	return o
}

func (o *orchestrator) Record(slot *frame.Slot, instances []scene.Instance) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if slot == nil || slot.Commands == nil {
		return fmt.Errorf("%w: no command list", ErrFrameAborted)
	}
	for l := range o.layers {
		o.layers[l] = scene.AppendVisible(o.layers[l][:0], instances, scene.Layer(l))
	}

	r := &recorder{
		o:         o,
		cmd:       slot.Commands,
		instances: instances,
		skins:     limit(slot.Skinned.Cap(), o.skinCount),
		materials: limit(slot.Materials.Cap(), o.materialCount),
	}
	o.recordShadow(r)
	o.recordEnvironment(r)
	if o.ssaoEnabled {
		o.recordSsao(r)
	}
	o.recordComposite(r)
	if r.err == nil {
		if err := r.cmd.Close(); err != nil {
			r.err = fmt.Errorf("close: %w", err)
		}
	}
	if r.err != nil {
		o.logger.Error("frame aborted", "slot", slot.Index(), "err", r.err)
		return fmt.Errorf("%w: %w", ErrFrameAborted, r.err)
	}
	return nil
}

// limit returns capacity, lowered to count() when count is set.
func limit(capacity int, count func() int) int {
	if count == nil {
		return capacity
	}
	return min(capacity, count())
}

func (o *orchestrator) recordShadow(r *recorder) {
	r.transition(resource.ShadowMap, resource.StateRead, resource.StateDepthWrite)
	sm := r.writeView(resource.ShadowMap, -1)
	r.begin(PassShadow, sm)
	r.viewport(common.FullViewport(o.shadowSize))
	r.clear(sm)
	r.pipeline(pipeline.Shadow)
	r.passConstants(frame.PassShadow)
	r.draw(scene.LayerOpaque, false)
	r.draw(scene.LayerDynamicReflector, false)
	r.end()
	r.transition(resource.ShadowMap, resource.StateDepthWrite, resource.StateRead)
}

func (o *orchestrator) recordEnvironment(r *recorder) {
	r.transition(resource.EnvironmentCube, resource.StateRead, resource.StateRenderTarget)
	depth := r.writeView(resource.EnvironmentDepth, -1)
	for f := 0; f < cubeFaces; f++ {
		face := r.writeView(resource.EnvironmentCube, f)
		r.begin(EnvironmentPass(f), face, depth)
		r.viewport(common.FullViewport(o.cubeSize))
		r.clear(face)
		r.clear(depth)
		r.passConstants(frame.PassCubeFace0 + f)
		r.read(resource.ShadowMap)
		r.read(resource.SkyCube)

		r.pipeline(pipeline.Opaque)
		r.draw(scene.LayerOpaque, false)
		r.pipeline(pipeline.SkinnedOpaque)
		r.draw(scene.LayerSkinned, true)
		r.pipeline(pipeline.Sky)
		r.draw(scene.LayerSky, false)
		r.end()
	}
	r.transition(resource.EnvironmentCube, resource.StateRenderTarget, resource.StateRead)
}

func (o *orchestrator) recordSsao(r *recorder) {
	full := common.FullViewport(o.size)
	ambient := o.ssao.Viewport()

	// view space normals and depth
	r.transition(resource.NormalMap, resource.StateRead, resource.StateRenderTarget)
	normals := r.writeView(resource.NormalMap, -1)
	depth := r.writeView(resource.DepthBuffer, -1)
	r.begin(PassNormals, normals, depth)
	r.viewport(full)
	r.clear(normals)
	r.clear(depth)
	r.passConstants(frame.PassMain)
	r.pipeline(pipeline.DrawNormals)
	r.draw(scene.LayerOpaque, false)
	r.draw(scene.LayerDynamicReflector, false)
	r.end()
	r.transition(resource.NormalMap, resource.StateRenderTarget, resource.StateRead)
	r.transition(resource.DepthBuffer, resource.StateDepthWrite, resource.StateRead)

	r.transition(resource.AmbientMap0, resource.StateRead, resource.StateRenderTarget)
	a0 := r.writeView(resource.AmbientMap0, -1)
	r.begin(PassSsao, a0)
	r.viewport(ambient)
	r.clear(a0)
	r.pipeline(pipeline.Ssao)
	r.passConstants(frame.PassMain)
	r.read(resource.NormalMap)
	r.read(resource.DepthBuffer)
	r.read(resource.RandomVectorMap)
	r.fullscreen()
	r.end()
	r.transition(resource.AmbientMap0, resource.StateRenderTarget, resource.StateRead)

	for i := 0; i < o.ssao.BlurCount(); i++ {
		o.recordBlur(r, ambient, resource.AmbientMap0, resource.AmbientMap1, true)
		o.recordBlur(r, ambient, resource.AmbientMap1, resource.AmbientMap0, false)
	}

	r.transition(resource.DepthBuffer, resource.StateRead, resource.StateDepthWrite)
}

func (o *orchestrator) recordBlur(r *recorder, vp common.Viewport, in, out resource.ID, horizontal bool) {
	name, dir := PassBlurV, uint32(0)
	if horizontal {
		name, dir = PassBlurH, 1
	}
	r.transition(out, resource.StateRead, resource.StateRenderTarget)
	target := r.writeView(out, -1)
	r.begin(name, target)
	r.viewport(vp)
	r.clear(target)
	r.pipeline(pipeline.SsaoBlur)
	r.read(resource.NormalMap)
	r.read(resource.DepthBuffer)
	r.read(in)
	r.constant(HorizontalBlur, dir)
	r.fullscreen()
	r.end()
	r.transition(out, resource.StateRenderTarget, resource.StateRead)
}

func (o *orchestrator) recordComposite(r *recorder) {
	r.transition(resource.BackBuffer, resource.StatePresent, resource.StateRenderTarget)
	bb := r.writeView(resource.BackBuffer, -1)
	depth := r.writeView(resource.DepthBuffer, -1)
	r.begin(PassComposite, bb, depth)
	r.viewport(common.FullViewport(o.size))
	r.clear(bb)
	r.clear(depth)
	r.passConstants(frame.PassMain)
	r.read(resource.ShadowMap)
	if o.ssaoEnabled {
		r.read(resource.AmbientMap0)
	}

	r.pipeline(pipeline.Opaque)
	r.read(resource.EnvironmentCube)
	r.draw(scene.LayerDynamicReflector, false)
	r.read(resource.SkyCube)
	r.draw(scene.LayerOpaque, false)

	r.pipeline(pipeline.SkinnedOpaque)
	r.draw(scene.LayerSkinned, true)
	r.pipeline(pipeline.Sky)
	r.draw(scene.LayerSky, false)
	r.pipeline(pipeline.Debug)
	r.draw(scene.LayerDebug, false)
	r.end()
	r.transition(resource.BackBuffer, resource.StateRenderTarget, resource.StatePresent)
}

func (o *orchestrator) SsaoEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ssaoEnabled
}

func (o *orchestrator) SetSsaoEnabled(enabled bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ssaoEnabled = enabled && o.ssao != nil
}

func (o *orchestrator) Ssao() ssao.Ssao {
	return o.ssao
}

func (o *orchestrator) Resize(size common.Size) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.size = size
}

func (o *orchestrator) Size() common.Size {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.size
}
