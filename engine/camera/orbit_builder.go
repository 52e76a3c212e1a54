package camera

// OrbitControllerOption is a functional option for configuring an OrbitController.
type OrbitControllerOption func(*orbitController)

// WithRadius sets the initial distance between eye and target.
func WithRadius(radius float32) OrbitControllerOption {
	return func(oc *orbitController) {
		oc.radius = radius
	}
}

// WithAngles sets the initial azimuth and elevation in radians.
//
// Parameters:
//   - azimuth: horizontal angle about +Y, zero looking down -Z
//   - elevation: vertical angle above the XZ plane
//
// Returns:
//   - OrbitControllerOption: option function to apply
func WithAngles(azimuth, elevation float32) OrbitControllerOption {
	return func(oc *orbitController) {
		oc.azimuth = azimuth
		oc.elevation = elevation
	}
}

// WithTarget sets the orbit pivot.
func WithTarget(x, y, z float32) OrbitControllerOption {
	return func(oc *orbitController) {
		oc.target = [3]float32{x, y, z}
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - min: closest allowed distance
//   - max: farthest allowed distance
//
// Returns:
//   - OrbitControllerOption: option function to apply
func WithRadiusBounds(min, max float32) OrbitControllerOption {
	return func(oc *orbitController) {
		oc.minRadius = min
		oc.maxRadius = max
	}
}

// WithElevationBounds sets the vertical angle limits in radians.
func WithElevationBounds(min, max float32) OrbitControllerOption {
	return func(oc *orbitController) {
		oc.minElevation = min
		oc.maxElevation = max
	}
}
