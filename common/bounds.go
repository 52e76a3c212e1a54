package common

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// NewAABBFromPoints returns the smallest box enclosing every point. An empty input yields the zero box.
//
// Parameters:
//   - points: the points to enclose
//
// Returns:
//   - AABB: the enclosing box
func NewAABBFromPoints(points [][3]float32) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			box.Min[i] = min(box.Min[i], p[i])
			box.Max[i] = max(box.Max[i], p[i])
		}
	}
	return box
}

// Center returns the midpoint of the box.
func (b AABB) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) * 0.5,
		(b.Min[1] + b.Max[1]) * 0.5,
		(b.Min[2] + b.Max[2]) * 0.5,
	}
}

// Extents returns the half-size of the box along each axis.
func (b AABB) Extents() [3]float32 {
	return [3]float32{
		(b.Max[0] - b.Min[0]) * 0.5,
		(b.Max[1] - b.Min[1]) * 0.5,
		(b.Max[2] - b.Min[2]) * 0.5,
	}
}

// Transform returns the axis-aligned box enclosing b after the affine transform m.
// The center is transformed directly and the extents by the absolute upper 3x3 of m.
//
// Parameters:
//   - m: column-major affine transform
//
// Returns:
//   - AABB: the enclosing box in the target space
func (b AABB) Transform(m [16]float32) AABB {
	c := TransformPoint(m, b.Center())
	e := b.Extents()

	var ne [3]float32
	for row := 0; row < 3; row++ {
		ne[row] = abs32(m[row])*e[0] + abs32(m[4+row])*e[1] + abs32(m[8+row])*e[2]
	}

	return AABB{
		Min: [3]float32{c[0] - ne[0], c[1] - ne[1], c[2] - ne[2]},
		Max: [3]float32{c[0] + ne[0], c[1] + ne[1], c[2] + ne[2]},
	}
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center [3]float32
	Radius float32
}

// Ray is a half-line from Origin along Direction. Direction is expected to be unit length.
type Ray struct {
	Origin    [3]float32
	Direction [3]float32
}

// Transform carries the ray into another space. The direction is renormalized.
func (r Ray) Transform(m [16]float32) Ray {
	return Ray{
		Origin:    TransformPoint(m, r.Origin),
		Direction: Normalize3(TransformDirection(m, r.Direction)),
	}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) [3]float32 {
	return [3]float32{
		r.Origin[0] + r.Direction[0]*t,
		r.Origin[1] + r.Direction[1]*t,
		r.Origin[2] + r.Direction[2]*t,
	}
}

// IntersectAABB tests the ray against box using the slab method.
//
// Parameters:
//   - box: the box to test
//
// Returns:
//   - float32: distance along the ray to the entry point (0 if the origin is inside)
//   - bool: true if the ray hits the box
func (r Ray) IntersectAABB(box AABB) (float32, bool) {
	tMin := float32(0)
	tMax := float32(math.MaxFloat32)

	for i := 0; i < 3; i++ {
		if abs32(r.Direction[i]) < 1e-8 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / r.Direction[i]
		t0 := (box.Min[i] - r.Origin[i]) * inv
		t1 := (box.Max[i] - r.Origin[i]) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = max(tMin, t0)
		tMax = min(tMax, t1)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// IntersectTriangle tests the ray against triangle (v0, v1, v2) using the Moller-Trumbore
// algorithm. Both faces are considered.
//
// Parameters:
//   - v0, v1, v2: triangle vertices
//
// Returns:
//   - float32: distance along the ray to the hit
//   - bool: true if the ray hits the triangle in front of its origin
func (r Ray) IntersectTriangle(v0, v1, v2 [3]float32) (float32, bool) {
	const epsilon = 1e-7

	e1 := Sub3(v1, v0)
	e2 := Sub3(v2, v0)
	p := Cross3(r.Direction, e2)
	det := Dot3(e1, p)
	if abs32(det) < epsilon {
		return 0, false
	}
	invDet := 1 / det

	s := Sub3(r.Origin, v0)
	u := Dot3(s, p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := Cross3(s, e1)
	v := Dot3(r.Direction, q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := Dot3(e2, q) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}
