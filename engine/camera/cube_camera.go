package camera

import "math"

// CubeFaceCount is the number of faces of a cube map.
const CubeFaceCount = 6

// cubeFaces lists the look direction and up vector of each cube map face in the order
// +X, -X, +Y, -Y, +Z, -Z.
var cubeFaces = [CubeFaceCount]struct {
	dir [3]float32
	up  [3]float32
}{
	{[3]float32{1, 0, 0}, [3]float32{0, 1, 0}},
	{[3]float32{-1, 0, 0}, [3]float32{0, 1, 0}},
	{[3]float32{0, 1, 0}, [3]float32{0, 0, -1}},
	{[3]float32{0, -1, 0}, [3]float32{0, 0, 1}},
	{[3]float32{0, 0, 1}, [3]float32{0, 1, 0}},
	{[3]float32{0, 0, -1}, [3]float32{0, 1, 0}},
}

// NewCubeCameras builds the six cameras that render a cube map around center. Each has a
// 90 degree square lens so together they cover every direction exactly once.
//
// Parameters:
//   - center: world-space position of the cube map
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - [CubeFaceCount]Camera: one camera per face, in +X, -X, +Y, -Y, +Z, -Z order
func NewCubeCameras(center [3]float32, near, far float32) [CubeFaceCount]Camera {
	var cams [CubeFaceCount]Camera
	for i, f := range cubeFaces {
		target := [3]float32{center[0] + f.dir[0], center[1] + f.dir[1], center[2] + f.dir[2]}
		cams[i] = NewCamera(
			WithLens(math.Pi/2, 1, near, far),
			WithUp(f.up[0], f.up[1], f.up[2]),
			WithEye(center, target),
		)
	}
	return cams
}
