package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/camera"
	"github.com/Carmen-Shannon/oxy-frame/engine/config"
	"github.com/Carmen-Shannon/oxy-frame/engine/culling"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/light"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/profiler"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/animator"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/picker"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/ssao"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrStopped is returned by every Tick after a device-fatal error. It wraps that error.
	ErrStopped = errors.New("engine: stopped after device-fatal error")
	// ErrInvalidSize is returned by Resize for a non-positive width or height.
	ErrInvalidSize = errors.New("engine: invalid size")
)

// Ambient terms of the main and cube face passes.
var (
	MainAmbient = [4]float32{0.25, 0.25, 0.25, 1}
	CubeAmbient = [4]float32{0.25, 0.25, 0.35, 1}
)

// Presenter shows the frame just submitted. Devices that can present implement it.
type Presenter interface {
	Present() error
}

// engine implements the Engine interface.
// One goroutine drives ticks; the device executes submissions on its own timeline.
type engine struct {
	mu sync.Mutex
	id uuid.UUID

	cfg config.Config

	device    frame.Device
	presenter Presenter
	ring      frame.Ring

	meshes    model.Registry
	resources resource.Registry
	pipelines pipeline.Registry

	scene     scene.Scene
	materials *material.Table
	camera    camera.Camera
	cubes     [camera.CubeFaceCount]camera.Camera
	rig       *light.Rig
	animator  animator.Animator
	culler    culling.Culler
	ssao      ssao.Ssao
	graph     renderer.Orchestrator
	picker    picker.Picker

	size      common.Size
	totalTime float32
	stats     culling.Result
	stopped   error

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate        time.Duration
	tickRateChannel chan time.Duration
	tickCallback    func(deltaTime float32)
	running         bool
	quitChannel     chan struct{}
	quitOnce        sync.Once

	watcher *config.Watcher
	logger  *log.Logger
}

// Engine is the frame driver. Each Tick advances the frame ring, updates animation and lights,
// culls the scene, writes the slot's constants, records the render graph and submits it.
type Engine interface {
	// ID returns the session ID attached to the engine's log lines.
	ID() uuid.UUID

	// Tick prepares and submits one frame.
	//
	// Parameters:
	//   - ctx: bounds the wait for a free ring slot
	//   - dt: elapsed time since the previous tick in seconds
	//
	// Returns:
	//   - error: a data error abandons only this frame; a device-fatal error stops the engine and
	//     every later call returns ErrStopped
	Tick(ctx context.Context, dt float32) error

	// Resize waits for the device to drain, then resizes the size-dependent targets and the
	// camera lens.
	//
	// Parameters:
	//   - w, h: new back buffer size in pixels
	//
	// Returns:
	//   - error: ErrInvalidSize, ErrStopped or the failure of the flush or registry resize
	Resize(w, h int) error

	// Pick returns the closest visible instance under pixel (x, y) as of the last tick.
	Pick(x, y float32) (picker.Hit, bool)

	// Run ticks at the configured rate until ctx ends, Quit is called or the engine stops.
	// Config updates from an attached watcher are applied between ticks.
	//
	// Returns:
	//   - error: nil after Quit, ctx.Err() when ctx ends, the stopping error otherwise
	Run(ctx context.Context) error

	// Quit stops Run. Safe to call multiple times.
	Quit()

	// ApplyConfig applies the hot-reloadable fields of cfg: the SSAO toggle, the blur count and
	// the log level.
	ApplyConfig(cfg config.Config) error

	// Config returns the configuration in effect.
	Config() config.Config

	// SetTickRate sets the Run tick rate in ticks per second. Values <= 0 select 60.
	SetTickRate(fps float64)

	// SetTickCallback registers a function Run calls before each tick, e.g. for game logic.
	SetTickCallback(callback func(deltaTime float32))

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// Scene returns the scene being drawn.
	Scene() scene.Scene

	// Camera returns the main camera.
	Camera() camera.Camera

	// Animator returns the bone animation evaluator.
	Animator() animator.Animator

	// Materials returns the material table.
	Materials() *material.Table

	// Rig returns the light rig.
	Rig() *light.Rig

	// Graph returns the render graph orchestrator.
	Graph() renderer.Orchestrator

	// Ring returns the frame ring.
	Ring() frame.Ring

	// Stats returns the culling result of the last completed tick.
	Stats() culling.Result

	// Err returns the error that stopped the engine, nil while it runs.
	Err() error
}

var _ Engine = &engine{}

// NewEngine creates a frame driver over device. Components not supplied through options are
// created from the configuration.
//
// Parameters:
//   - device: the command submission device
//   - meshes: geometry registry
//   - resources: off-screen target registry
//   - pipelines: pipeline variant registry
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the frame driver
//   - error: an invalid configuration, a ring construction error or a failed random vector upload
func NewEngine(device frame.Device, meshes model.Registry, resources resource.Registry, pipelines pipeline.Registry, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		id:              uuid.New(),
		cfg:             config.Default(),
		device:          device,
		meshes:          meshes,
		resources:       resources,
		pipelines:       pipelines,
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if e.logger == nil {
		e.logger = logging.With("engine")
	}
	e.logger = e.logger.With("session", e.id.String())
	if err := logging.SetLevel(e.cfg.Log.Level); err != nil {
		e.logger.Warn("unknown log level", "level", e.cfg.Log.Level, "err", err)
	}

	fc, sc := e.cfg.Frame, e.cfg.Scene
	e.size = common.Size{Width: fc.Width, Height: fc.Height}
	if e.tickRate == 0 {
		e.tickRate = tickInterval(float64(fc.TickRate))
	}
	if e.presenter == nil {
		e.presenter, _ = device.(Presenter)
	}

	ring, err := frame.NewRing(device,
		frame.WithDepth(fc.RingDepth),
		frame.WithWaitTimeout(time.Duration(fc.WaitTimeout)),
		frame.WithCapacities(fc.MaxInstances, fc.MaxMaterials, fc.MaxSkinned),
	)
	if err != nil {
		return nil, err
	}
	e.ring = ring

	if e.scene == nil {
		e.scene = scene.NewScene("main")
	}
	if e.materials == nil {
		e.materials = material.NewTable(material.NewMaterial("default"))
	}
	if e.camera == nil {
		e.camera = camera.NewCamera(camera.WithLens(math.Pi/4, e.size.Aspect(), sc.NearZ, sc.FarZ))
	} else {
		e.camera.SetAspect(e.size.Aspect())
	}
	e.cubes = camera.NewCubeCameras(sc.CubeCenter, sc.NearZ, sc.FarZ)
	if e.rig == nil {
		e.rig = light.NewDefaultRig(sc.LightSpin)
	}
	if e.animator == nil {
		e.animator = animator.NewAnimator()
	}
	if e.culler == nil {
		e.culler = culling.NewCuller()
	}
	if e.picker == nil {
		e.picker = picker.NewPicker()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	sa := e.cfg.Ssao
	e.ssao = ssao.NewSsao(e.size,
		ssao.WithBlurCount(sa.BlurCount),
		ssao.WithOcclusion(sa.OcclusionRadius, sa.FadeStart, sa.FadeEnd, sa.SurfaceEpsilon),
	)
	if err := e.ssao.UploadRandomVectors(resources); err != nil {
		return nil, fmt.Errorf("engine: random vector map: %w", err)
	}
	e.graph = renderer.NewOrchestrator(pipelines, resources, meshes, e.size,
		renderer.WithSsao(e.ssao),
		renderer.WithShadowSize(sc.ShadowMapSize),
		renderer.WithCubeSize(sc.CubeMapSize),
		renderer.WithSkinCount(e.animator.InstanceCount),
		renderer.WithMaterialCount(e.materials.Len),
	)
	e.graph.SetSsaoEnabled(sa.Enabled)

	e.logger.Info("engine ready", "size", fmt.Sprintf("%dx%d", e.size.Width, e.size.Height), "ring", ring.Depth(), "ssao", sa.Enabled)
	return e, nil
}

func (e *engine) ID() uuid.UUID {
	return e.id
}

func (e *engine) Tick(ctx context.Context, dt float32) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped != nil {
		return fmt.Errorf("%w: %w", ErrStopped, e.stopped)
	}
	err := e.tick(ctx, dt)
	if err != nil && frame.IsDeviceFatal(err) {
		e.stopped = err
		e.logger.Error("device fatal, engine stopped", "err", err)
	}
	return err
}

func (e *engine) tick(ctx context.Context, dt float32) error {
	slot, err := e.ring.AdvanceSlot(ctx)
	if err != nil {
		return err
	}
	e.totalTime += dt
	e.rig.Rotate(dt)

	if err := e.animator.Update(dt); err != nil {
		return err
	}
	if err := e.animator.Write(slot.Skinned); err != nil {
		return err
	}

	e.scene.Lock()
	defer e.scene.Unlock()
	var instances []scene.Instance
	if e.scene.Active() {
		instances = e.scene.Instances()
	}

	e.camera.Update()
	res, err := e.culler.Cull(instances, e.meshes, e.camera.LocalFrustum(), e.camera.InverseViewMatrix(), slot.Instances)
	if err != nil {
		return err
	}
	if _, err := e.materials.Sync(slot); err != nil {
		return err
	}
	if err := e.writePassConstants(slot, dt); err != nil {
		return err
	}
	if e.graph.SsaoEnabled() {
		var sc frame.SsaoConstants
		e.ssao.Fill(&sc, e.camera.ProjectionMatrix())
		if err := slot.Ssao.CopyData(0, &sc); err != nil {
			return err
		}
	}

	if err := e.graph.Record(slot, instances); err != nil {
		return err
	}
	token, err := e.device.Submit(slot.Commands)
	if err != nil {
		if !frame.IsDeviceFatal(err) {
			err = frame.Fatal("submit", err)
		}
		return err
	}
	if err := e.ring.Stamp(token); err != nil {
		return frame.Fatal("stamp", err)
	}
	if e.presenter != nil {
		if err := e.presenter.Present(); err != nil {
			if !frame.IsDeviceFatal(err) {
				err = frame.Fatal("present", err)
			}
			return err
		}
	}

	e.stats = res
	if e.profilingEnabled {
		e.profiler.Tick(profiler.FrameStats{Visible: res.Visible, Total: res.Total(), RingWaits: e.ring.Waits()})
	}
	return nil
}

// writePassConstants fills the main, shadow and cube face pass constants of slot.
func (e *engine) writePassConstants(slot *frame.Slot, dt float32) error {
	sc := e.cfg.Scene

	main := frame.DefaultPassConstants()
	e.camera.FillPassConstants(&main)
	setTarget(&main, e.size)
	main.TotalTime = e.totalTime
	main.DeltaTime = dt
	main.AmbientLight = MainAmbient
	e.rig.Fill(&main)

	shadow := frame.DefaultPassConstants()
	if caster, ok := e.rig.ShadowCaster(); ok {
		s := light.ComputeShadow(caster.Direction(), common.Sphere{Center: sc.BoundCenter, Radius: sc.BoundRadius})
		main.ShadowTransform = common.Transposed(s.Transform)
		s.FillPassConstants(&shadow, sc.ShadowMapSize)
	}
	shadow.TotalTime = e.totalTime
	shadow.DeltaTime = dt

	if err := slot.Pass.CopyData(frame.PassMain, &main); err != nil {
		return err
	}
	if err := slot.Pass.CopyData(frame.PassShadow, &shadow); err != nil {
		return err
	}

	cube := common.Size{Width: sc.CubeMapSize, Height: sc.CubeMapSize}
	for f, cam := range e.cubes {
		pc := main
		cam.FillPassConstants(&pc)
		setTarget(&pc, cube)
		pc.AmbientLight = CubeAmbient
		if err := slot.Pass.CopyData(frame.PassCubeFace0+f, &pc); err != nil {
			return err
		}
	}
	return nil
}

func setTarget(pc *frame.PassConstants, size common.Size) {
	pc.RenderTargetSize = [2]float32{float32(size.Width), float32(size.Height)}
	pc.InvRenderTargetSize = [2]float32{1 / float32(size.Width), 1 / float32(size.Height)}
}

func (e *engine) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stopped != nil {
		return fmt.Errorf("%w: %w", ErrStopped, e.stopped)
	}
	if err := e.ring.Flush(context.Background()); err != nil {
		if frame.IsDeviceFatal(err) {
			e.stopped = err
		}
		return err
	}
	if err := e.resources.Resize(w, h); err != nil {
		return err
	}

	e.size = common.Size{Width: w, Height: h}
	e.cfg.Frame.Width, e.cfg.Frame.Height = w, h
	e.camera.SetAspect(e.size.Aspect())
	e.graph.Resize(e.size)
	e.ssao.Resize(e.size)
	e.logger.Debug("resized", "width", w, "height", h)
	return nil
}

func (e *engine) Pick(x, y float32) (picker.Hit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scene.Lock()
	defer e.scene.Unlock()
	return e.picker.Pick(e.camera, e.size, x, y, e.scene.Instances(), e.meshes)
}

func (e *engine) Run(ctx context.Context) error {
	e.mu.Lock()
	e.running = true
	rate := e.tickRate
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	var updates <-chan config.Config
	var watchErrs <-chan error
	if e.watcher != nil {
		updates = e.watcher.Updates()
		watchErrs = e.watcher.Errors()
	}

	lastTick := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		case cfg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if err := e.ApplyConfig(cfg); err != nil {
				e.logger.Warn("config reload rejected", "err", err)
			}
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			e.logger.Warn("config watch", "err", err)
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
			if err := e.Tick(ctx, dt); err != nil {
				if errors.Is(err, ErrStopped) || frame.IsDeviceFatal(err) {
					return err
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				e.logger.Warn("frame dropped", "err", err)
			}
		}
	}
}

// Quit signals Run to return. Uses sync.Once so the channel is only closed once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) ApplyConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg.HotReloadable(cfg)
	if err := logging.SetLevel(e.cfg.Log.Level); err != nil {
		e.logger.Warn("unknown log level", "level", e.cfg.Log.Level, "err", err)
	}
	e.ssao.SetBlurCount(e.cfg.Ssao.BlurCount)
	e.graph.SetSsaoEnabled(e.cfg.Ssao.Enabled)
	e.logger.Info("config applied", "ssao", e.cfg.Ssao.Enabled, "blur", e.cfg.Ssao.BlurCount, "level", e.cfg.Log.Level)
	return nil
}

func (e *engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// SetTickRate sets the Run tick rate. If Run is active the change takes effect immediately.
func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	e.mu.Lock()
	e.tickRate = newRate
	running := e.running
	e.mu.Unlock()
	if !running {
		return
	}
	// keep only the newest pending rate
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func tickInterval(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	return e.camera
}

func (e *engine) Animator() animator.Animator {
	return e.animator
}

func (e *engine) Materials() *material.Table {
	return e.materials
}

func (e *engine) Rig() *light.Rig {
	return e.rig
}

func (e *engine) Graph() renderer.Orchestrator {
	return e.graph
}

func (e *engine) Ring() frame.Ring {
	return e.ring
}

func (e *engine) Stats() culling.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}
