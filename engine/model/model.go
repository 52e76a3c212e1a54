// package model describes the geometry the frame core draws: meshes split into submeshes, each
// with an index range and a local bounding box. Meshes are referenced by index, never by pointer.
package model

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
)

// Vertex is one mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Tangent  [3]float32
}

// Submesh is a drawable index range of a mesh.
type Submesh struct {
	// Name identifies the submesh within its mesh.
	Name string

	// IndexCount is the number of indices drawn.
	IndexCount uint32

	// StartIndex is the first index in the mesh's index buffer.
	StartIndex uint32

	// BaseVertex is added to every index before fetching a vertex.
	BaseVertex int32

	// Bounds is the local-space box enclosing every vertex the range references.
	Bounds common.AABB
}

// Mesh is a vertex and index buffer pair with its submeshes.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Indices   []uint32
	Submeshes []Submesh
	// Skinned marks meshes drawn with the skinned pipeline.
	Skinned bool
}

// DrawRef selects one submesh of one mesh in a Registry. Mesh < 0 means no geometry.
type DrawRef struct {
	Mesh    int
	Submesh int
}

// NoGeometry is the DrawRef of an instance without geometry.
var NoGeometry = DrawRef{Mesh: -1}

// Valid reports whether r refers to geometry at all.
func (r DrawRef) Valid() bool {
	return r.Mesh >= 0 && r.Submesh >= 0
}

// Triangle returns the local-space vertex positions of triangle tri of submesh sub.
//
// Parameters:
//   - sub: submesh index
//   - tri: triangle index within the submesh
//
// Returns:
//   - [3][3]float32: the triangle's three positions
//   - bool: false if sub or tri is out of range
func (m *Mesh) Triangle(sub, tri int) ([3][3]float32, bool) {
	var out [3][3]float32
	if sub < 0 || sub >= len(m.Submeshes) || tri < 0 {
		return out, false
	}
	s := m.Submeshes[sub]
	first := int(s.StartIndex) + tri*3
	if tri*3+3 > int(s.IndexCount) || first+3 > len(m.Indices) {
		return out, false
	}
	for k := 0; k < 3; k++ {
		v := int(m.Indices[first+k]) + int(s.BaseVertex)
		if v < 0 || v >= len(m.Vertices) {
			return out, false
		}
		out[k] = m.Vertices[v].Position
	}
	return out, true
}

// TriangleCount returns the number of triangles in submesh sub.
func (m *Mesh) TriangleCount(sub int) int {
	if sub < 0 || sub >= len(m.Submeshes) {
		return 0
	}
	return int(m.Submeshes[sub].IndexCount) / 3
}

// computeBounds fills in the bounds of submesh i from the vertices its indices reference.
func (m *Mesh) computeBounds(i int) {
	s := &m.Submeshes[i]
	end := min(int(s.StartIndex+s.IndexCount), len(m.Indices))
	points := make([][3]float32, 0, s.IndexCount)
	for _, idx := range m.Indices[min(int(s.StartIndex), end):end] {
		v := int(idx) + int(s.BaseVertex)
		if v >= 0 && v < len(m.Vertices) {
			points = append(points, m.Vertices[v].Position)
		}
	}
	s.Bounds = common.NewAABBFromPoints(points)
}
