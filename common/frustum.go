package common

import (
	"math"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// SignedDistance returns the signed distance of p to the plane; positive is the inside half-space.
func (p Plane) SignedDistance(pt [3]float32) float32 {
	return p.Normal[0]*pt[0] + p.Normal[1]*pt[1] + p.Normal[2]*pt[2] + p.Distance
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// Containment is the outcome of a volume vs. frustum test.
type Containment int

const (
	// Outside means the volume lies entirely in the outer half-space of at least one plane.
	Outside Containment = iota
	// Intersects means the volume straddles at least one plane.
	Intersects
	// Inside means the volume is inside every plane.
	Inside
)

// String implements fmt.Stringer.
func (c Containment) String() string {
	switch c {
	case Inside:
		return "inside"
	case Intersects:
		return "intersects"
	default:
		return "outside"
	}
}

// ExtractFrustumFromMatrix extracts frustum planes from a projection or view-projection matrix.
// Passing only the projection yields the camera-local (view space) frustum; passing
// Projection * View yields it in world space.
// Uses the Gribb/Hartmann method for plane extraction, adjusted for a [0, 1] clip depth range.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - m: 16 float32 values representing the matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(m []float32) Frustum {
	var f Frustum

	// For column-major matrix M, element M[row][col] is at index col*4 + row.
	row := func(r int) [4]float32 {
		return [4]float32{m[r], m[4+r], m[8+r], m[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	set := func(i int, v [4]float32) {
		f.Planes[i] = Plane{Normal: [3]float32{v[0], v[1], v[2]}, Distance: v[3]}
	}
	add := func(a, b [4]float32) [4]float32 {
		return [4]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
	}
	sub := func(a, b [4]float32) [4]float32 {
		return [4]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
	}

	set(FrustumLeft, add(r3, r0))
	set(FrustumRight, sub(r3, r0))
	set(FrustumBottom, add(r3, r1))
	set(FrustumTop, sub(r3, r1))
	// z_ndc >= 0 in a [0, 1] depth range, so the near plane is row 2 alone.
	set(FrustumNear, r2)
	set(FrustumFar, sub(r3, r2))

	for i := range f.Planes {
		f.normalizePlane(i)
	}

	return f
}

// Transform returns the frustum carried into another space by m, where m maps points from the
// frustum's current space into the target space (e.g. the inverse view matrix takes a
// camera-local frustum to world space). Planes transform by the inverse transpose of m.
//
// Parameters:
//   - m: column-major transform from the frustum's space into the target space
//
// Returns:
//   - Frustum: the transformed frustum with normalized planes
func (f Frustum) Transform(m [16]float32) Frustum {
	inv, ok := Inverted(m)
	if !ok {
		return f
	}

	var out Frustum
	for i, p := range f.Planes {
		v := [4]float32{p.Normal[0], p.Normal[1], p.Normal[2], p.Distance}
		var r [4]float32
		for j := 0; j < 4; j++ {
			// (inv^T * v)_j = sum_k inv[k][j] * v_k, inv[k][j] lives at j*4+k
			r[j] = inv[j*4+0]*v[0] + inv[j*4+1]*v[1] + inv[j*4+2]*v[2] + inv[j*4+3]*v[3]
		}
		out.Planes[i] = Plane{Normal: [3]float32{r[0], r[1], r[2]}, Distance: r[3]}
		out.normalizePlane(i)
	}
	return out
}

// ContainsAABB classifies an axis-aligned box against the frustum. The test is conservative:
// a box near a frustum corner may report Intersects while lying just outside.
//
// Parameters:
//   - box: the box, in the same space as the frustum planes
//
// Returns:
//   - Containment: Outside, Intersects or Inside
func (f Frustum) ContainsAABB(box AABB) Containment {
	center := box.Center()
	extents := box.Extents()

	result := Inside
	for _, p := range f.Planes {
		r := extents[0]*abs32(p.Normal[0]) + extents[1]*abs32(p.Normal[1]) + extents[2]*abs32(p.Normal[2])
		s := p.SignedDistance(center)
		if s < -r {
			return Outside
		}
		if s < r {
			result = Intersects
		}
	}
	return result
}

// ContainsPoint reports whether pt lies inside or on every plane.
func (f Frustum) ContainsPoint(pt [3]float32) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(pt) < 0 {
			return false
		}
	}
	return true
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := float32(math.Sqrt(float64(
		p.Normal[0]*p.Normal[0] +
			p.Normal[1]*p.Normal[1] +
			p.Normal[2]*p.Normal[2],
	)))

	if length > 0 {
		invLen := 1.0 / length
		p.Normal[0] *= invLen
		p.Normal[1] *= invLen
		p.Normal[2] *= invLen
		p.Distance *= invLen
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
