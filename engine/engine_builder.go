package engine

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/camera"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/Carmen-Shannon/oxy-frame/engine/culling"
	"github.com/Carmen-Shannon/oxy-frame/engine/light"
	"github.com/Carmen-Shannon/oxy-frame/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/picker"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
	"github.com/charmbracelet/log"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig sets the configuration the engine's components are built from.
//
// Parameters:
//   - cfg: the configuration, validated by NewEngine
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.cfg = cfg
	}
}

// WithWatcher attaches a config watcher whose updates Run applies between ticks.
// The engine does not close the watcher.
func WithWatcher(w *config.Watcher) EngineBuilderOption {
	return func(e *engine) {
		e.watcher = w
	}
}

// WithScene sets the scene to draw.
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithMaterials sets the material table.
func WithMaterials(t *material.Table) EngineBuilderOption {
	return func(e *engine) {
		e.materials = t
	}
}

// WithCamera sets the main camera. Its aspect ratio is overwritten to match the frame size.
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithRig sets the light rig.
func WithRig(r *light.Rig) EngineBuilderOption {
	return func(e *engine) {
		e.rig = r
	}
}

// WithAnimator sets the bone animation evaluator.
func WithAnimator(a animator.Animator) EngineBuilderOption {
	return func(e *engine) {
		e.animator = a
	}
}

// WithCuller sets the visibility culler.
func WithCuller(c culling.Culler) EngineBuilderOption {
	return func(e *engine) {
		e.culler = c
	}
}

// WithPicker sets the pick probe.
func WithPicker(p picker.Picker) EngineBuilderOption {
	return func(e *engine) {
		e.picker = p
	}
}

// WithPresenter sets what presents each submitted frame. By default the device is used when it
// implements Presenter.
func WithPresenter(p Presenter) EngineBuilderOption {
	return func(e *engine) {
		e.presenter = p
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler used when profiling is enabled.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithTickRate sets the Run tick rate in ticks per second, overriding the configured rate.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.tickRate = tickInterval(fps)
	}
}

// WithTickCallback registers the function Run calls before each tick.
func WithTickCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}

// WithLogger sets the engine's logger. The session ID is added to it.
func WithLogger(logger *log.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}
