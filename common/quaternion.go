package common

import "math"

// Quaternions are stored as [4]float32 in (x, y, z, w) order.

// QuatIdentity returns the identity rotation.
func QuatIdentity() [4]float32 {
	return [4]float32{0, 0, 0, 1}
}

// QuatNormalize returns q scaled to unit length. A zero quaternion yields the identity.
//
// Parameters:
//   - q: the quaternion to normalize
//
// Returns:
//   - [4]float32: the unit quaternion
func QuatNormalize(q [4]float32) [4]float32 {
	l := float32(math.Sqrt(float64(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])))
	if l == 0 {
		return QuatIdentity()
	}
	inv := 1 / l
	return [4]float32{q[0] * inv, q[1] * inv, q[2] * inv, q[3] * inv}
}

// QuatFromAxisAngle builds a rotation of angle radians about axis.
//
// Parameters:
//   - axis: rotation axis (normalized internally)
//   - angle: rotation angle in radians
//
// Returns:
//   - [4]float32: the rotation quaternion
func QuatFromAxisAngle(axis [3]float32, angle float32) [4]float32 {
	n := Normalize3(axis)
	s := float32(math.Sin(float64(angle) / 2))
	c := float32(math.Cos(float64(angle) / 2))
	return [4]float32{n[0] * s, n[1] * s, n[2] * s, c}
}

// QuatSlerp spherically interpolates from a to b by t along the shortest arc.
// t == 0 returns a and t == 1 returns b without rounding drift.
//
// Parameters:
//   - a: start rotation
//   - b: end rotation
//   - t: interpolation factor in [0, 1]
//
// Returns:
//   - [4]float32: the interpolated unit quaternion
func QuatSlerp(a, b [4]float32, t float32) [4]float32 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}

	cosTheta := float64(a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3])
	sign := float32(1)
	if cosTheta < 0 {
		cosTheta = -cosTheta
		sign = -1
	}

	var s0, s1 float32
	if cosTheta > 0.9995 {
		// nearly parallel, fall back to normalized lerp
		s0 = 1 - t
		s1 = t
	} else {
		theta := math.Acos(cosTheta)
		sinTheta := math.Sin(theta)
		s0 = float32(math.Sin((1-float64(t))*theta) / sinTheta)
		s1 = float32(math.Sin(float64(t)*theta) / sinTheta)
	}
	s1 *= sign

	return QuatNormalize([4]float32{
		a[0]*s0 + b[0]*s1,
		a[1]*s0 + b[1]*s1,
		a[2]*s0 + b[2]*s1,
		a[3]*s0 + b[3]*s1,
	})
}

// QuatToMatrix converts a unit quaternion to a column-major rotation matrix.
func QuatToMatrix(q [4]float32) [16]float32 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return [16]float32{
		1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0,
		2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0,
		2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// AffineTransform composes scale, then rotation, then translation into one column-major
// matrix (T * R * S). The rotation pivot is the origin.
//
// Parameters:
//   - scale: per-axis scale
//   - rotation: unit quaternion (x, y, z, w)
//   - translation: translation applied last
//
// Returns:
//   - [16]float32: the composed affine transform
func AffineTransform(scale [3]float32, rotation [4]float32, translation [3]float32) [16]float32 {
	m := QuatToMatrix(rotation)
	for col := 0; col < 3; col++ {
		m[col*4+0] *= scale[col]
		m[col*4+1] *= scale[col]
		m[col*4+2] *= scale[col]
	}
	m[12], m[13], m[14] = translation[0], translation[1], translation[2]
	return m
}
