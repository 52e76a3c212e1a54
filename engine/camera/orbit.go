package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

// Controller supplies a camera's eye and target.
type Controller interface {
	// Position returns the world-space eye position.
	Position() [3]float32

	// Target returns the world-space look-at point.
	Target() [3]float32

	// SetPosition moves the eye, keeping the target.
	SetPosition(p [3]float32)

	// SetTarget moves the look-at point, keeping the offset to the eye.
	SetTarget(t [3]float32)
}

// OrbitController keeps the eye on a sphere around the target using spherical coordinates
// (radius, azimuth about +Y, elevation above the XZ plane).
type OrbitController interface {
	Controller

	// Orbit rotates the eye around the target. Elevation is clamped to its bounds.
	//
	// Parameters:
	//   - dAzimuth: azimuth change in radians
	//   - dElevation: elevation change in radians
	Orbit(dAzimuth, dElevation float32)

	// Zoom moves the eye toward the target by delta world units, clamped to the radius bounds.
	Zoom(delta float32)

	// Radius returns the eye's distance to the target.
	Radius() float32

	// Azimuth returns the horizontal angle in radians.
	Azimuth() float32

	// Elevation returns the vertical angle in radians.
	Elevation() float32
}

type orbitController struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32

	radius    float32
	azimuth   float32
	elevation float32

	minRadius, maxRadius       float32
	minElevation, maxElevation float32
}

var _ OrbitController = &orbitController{}

// NewOrbitController creates an orbit controller 15 units from the origin at 30 degrees
// elevation.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - OrbitController: the newly created controller
func NewOrbitController(options ...OrbitControllerOption) OrbitController {
	oc := &orbitController{
		mu:           &sync.Mutex{},
		radius:       15,
		elevation:    math.Pi / 6,
		minRadius:    2,
		maxRadius:    500,
		minElevation: -math.Pi/2 + 0.1,
		maxElevation: math.Pi/2 - 0.1,
	}
	for _, option := range options {
		option(oc)
	}
	oc.radius = common.Clamp(oc.radius, oc.minRadius, oc.maxRadius)
	oc.elevation = common.Clamp(oc.elevation, oc.minElevation, oc.maxElevation)
	oc.place()
	return oc
}

// place recomputes the eye from the spherical coordinates. Caller must hold the mutex.
func (oc *orbitController) place() {
	sinEl, cosEl := math.Sincos(float64(oc.elevation))
	sinAz, cosAz := math.Sincos(float64(oc.azimuth))
	oc.position = [3]float32{
		oc.target[0] + oc.radius*float32(cosEl*sinAz),
		oc.target[1] + oc.radius*float32(sinEl),
		oc.target[2] + oc.radius*float32(cosEl*cosAz),
	}
}

func (oc *orbitController) Position() [3]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.position
}

func (oc *orbitController) Target() [3]float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.target
}

func (oc *orbitController) SetPosition(p [3]float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	d := common.Sub3(p, oc.target)
	r := common.Length3(d)
	if r < 1e-6 {
		return
	}
	oc.radius = common.Clamp(r, oc.minRadius, oc.maxRadius)
	oc.elevation = common.Clamp(float32(math.Asin(float64(d[1]/r))), oc.minElevation, oc.maxElevation)
	oc.azimuth = float32(math.Atan2(float64(d[0]), float64(d[2])))
	oc.place()
}

func (oc *orbitController) SetTarget(t [3]float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.target = t
	oc.place()
}

func (oc *orbitController) Orbit(dAzimuth, dElevation float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.azimuth += dAzimuth
	oc.elevation = common.Clamp(oc.elevation+dElevation, oc.minElevation, oc.maxElevation)
	oc.place()
}

func (oc *orbitController) Zoom(delta float32) {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	oc.radius = common.Clamp(oc.radius-delta, oc.minRadius, oc.maxRadius)
	oc.place()
}

func (oc *orbitController) Radius() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.radius
}

func (oc *orbitController) Azimuth() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.azimuth
}

func (oc *orbitController) Elevation() float32 {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.elevation
}
