package renderer

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/ssao"
	"github.com/charmbracelet/log"
)

// OrchestratorBuilderOption is a functional option for configuring an Orchestrator via NewOrchestrator.
type OrchestratorBuilderOption func(*orchestrator)

// WithSsao enables the ambient occlusion passes using s for the blur count and ambient viewport.
// A nil s leaves them disabled.
//
// Parameters:
//   - s: the ambient occlusion component
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithSsao(s ssao.Ssao) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.ssao = s
		o.ssaoEnabled = s != nil
	}
}

// WithShadowSize sets the edge length of the shadow map viewport.
func WithShadowSize(n int) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.shadowSize = common.Size{Width: n, Height: n}
	}
}

// WithCubeSize sets the edge length of each environment cube face viewport.
func WithCubeSize(n int) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.cubeSize = common.Size{Width: n, Height: n}
	}
}

// WithSkinCount bounds the skin indices a skinned draw may use by the number of skins written each
// frame, typically the animator's InstanceCount.
//
// Parameters:
//   - count: returns the number of skins written to the slot's skinned region
//
// Returns:
//   - OrchestratorBuilderOption: option function to apply
func WithSkinCount(count func() int) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.skinCount = count
	}
}

// WithMaterialCount bounds instance material indices by the material table length.
func WithMaterialCount(count func() int) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.materialCount = count
	}
}

// WithLogger sets the logger used to report aborted frames.
func WithLogger(logger *log.Logger) OrchestratorBuilderOption {
	return func(o *orchestrator) {
		o.logger = logger
	}
}
