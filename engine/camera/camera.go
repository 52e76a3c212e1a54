package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

type cameraImpl struct {
	mu *sync.Mutex

	up       [3]float32
	position [3]float32
	target   [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix               [16]float32
	inverseViewMatrix        [16]float32
	projectionMatrix         [16]float32
	inverseProjectionMatrix  [16]float32
	viewProjectionMatrix     [16]float32
	inverseViewProjectionMat [16]float32
	localFrustum             common.Frustum

	controller Controller
}

// Camera holds a perspective lens and an eye/target pair and derives the view and projection
// matrices from them. The eye comes from an attached Controller when there is one, otherwise
// from the last LookAt. All matrices are column-major.
type Camera interface {
	// Up returns the camera's up vector.
	//
	// Returns:
	//   - x, y, z: up vector components
	Up() (x, y, z float32)

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Position returns the world-space eye position.
	Position() [3]float32

	// Target returns the world-space look-at point.
	Target() [3]float32

	// SetLens replaces all perspective parameters at once.
	//
	// Parameters:
	//   - fov: vertical field of view in radians
	//   - aspect: width / height
	//   - near: near plane distance (must be > 0)
	//   - far: far plane distance (must be > near)
	SetLens(fov, aspect, near, far float32)

	// SetAspect changes only the aspect ratio, as on a resize.
	SetAspect(aspect float32)

	// LookAt places the eye and aims it at target. An attached controller is moved to match.
	//
	// Parameters:
	//   - eye: world-space eye position
	//   - target: world-space look-at point
	//   - up: world-space up hint
	LookAt(eye, target, up [3]float32)

	// ViewMatrix returns the world-to-view transform.
	ViewMatrix() [16]float32

	// InverseViewMatrix returns the view-to-world transform.
	InverseViewMatrix() [16]float32

	// ProjectionMatrix returns the view-to-clip transform with a [0, 1] depth range.
	ProjectionMatrix() [16]float32

	// InverseProjectionMatrix returns the clip-to-view transform.
	InverseProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns Projection * View.
	ViewProjectionMatrix() [16]float32

	// LocalFrustum returns the view-space frustum of the projection.
	LocalFrustum() common.Frustum

	// Controller returns the attached controller, or nil.
	Controller() Controller

	// SetController attaches ctrl as the source of the eye and target.
	SetController(ctrl Controller)

	// Update re-reads the controller and recomputes the matrices.
	Update()

	// FillPassConstants writes the camera's matrices, eye and clip distances into pc.
	// Matrices are transposed for upload.
	//
	// Parameters:
	//   - pc: the pass constants to fill
	FillPassConstants(pc *frame.PassConstants)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at (0, 0, 5) looking at the origin with a 45 degree lens.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		up:       [3]float32{0, 1, 0},
		position: [3]float32{0, 0, 5},
		fov:      45.0 * (math.Pi / 180.0),
		aspect:   1.0,
		near:     1.0,
		far:      1000.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Up() (x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up[0], c.up[1], c.up[2]
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) SetLens(fov, aspect, near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov, c.aspect, c.near, c.far = fov, aspect, near, far
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) LookAt(eye, target, up [3]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position, c.target, c.up = eye, target, up
	if c.controller != nil {
		c.controller.SetTarget(target)
		c.controller.SetPosition(eye)
	}
	c.updateMatrices()
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) InverseViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseViewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) InverseProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseProjectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) LocalFrustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.localFrustum
}

func (c *cameraImpl) Controller() Controller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl Controller) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateMatrices()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) FillPassConstants(pc *frame.PassConstants) {
	c.mu.Lock()
	defer c.mu.Unlock()
	pc.View = common.Transposed(c.viewMatrix)
	pc.InvView = common.Transposed(c.inverseViewMatrix)
	pc.Proj = common.Transposed(c.projectionMatrix)
	pc.InvProj = common.Transposed(c.inverseProjectionMatrix)
	pc.ViewProj = common.Transposed(c.viewProjectionMatrix)
	pc.InvViewProj = common.Transposed(c.inverseViewProjectionMat)
	pc.ViewProjTex = common.Transposed(common.Mul4x(common.TextureSpace, c.viewProjectionMatrix))
	pc.EyePosW = c.position
	pc.NearZ = c.near
	pc.FarZ = c.far
}

// updateMatrices recalculates every derived matrix and the local frustum.
// The eye and target are refreshed from the controller when one is attached.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	if c.controller != nil {
		c.position = c.controller.Position()
		c.target = c.controller.Target()
	}

	common.LookAt(c.viewMatrix[:],
		c.position[0], c.position[1], c.position[2],
		c.target[0], c.target[1], c.target[2],
		c.up[0], c.up[1], c.up[2],
	)
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)

	c.viewProjectionMatrix = common.Mul4x(c.projectionMatrix, c.viewMatrix)
	common.Invert4(c.inverseViewMatrix[:], c.viewMatrix[:])
	common.Invert4(c.inverseProjectionMatrix[:], c.projectionMatrix[:])
	common.Invert4(c.inverseViewProjectionMat[:], c.viewProjectionMatrix[:])
	c.localFrustum = common.ExtractFrustumFromMatrix(c.projectionMatrix[:])
}
