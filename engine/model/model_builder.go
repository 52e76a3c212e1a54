package model

import "github.com/Carmen-Shannon/oxy-frame/common"

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*Mesh)

// NewMesh creates a mesh from vertices and indices. Without a WithSubmesh option the whole index
// buffer becomes one submesh. Submesh bounds not set explicitly are computed from the vertices.
//
// Parameters:
//   - name: the mesh identifier
//   - vertices: the vertex buffer
//   - indices: the index buffer
//   - options: a variadic list of MeshBuilderOption functions
//
// Returns:
//   - *Mesh: the mesh
func NewMesh(name string, vertices []Vertex, indices []uint32, options ...MeshBuilderOption) *Mesh {
	m := &Mesh{Name: name, Vertices: vertices, Indices: indices}
	for _, opt := range options {
		opt(m)
	}
	if len(m.Submeshes) == 0 {
		m.Submeshes = []Submesh{{Name: name, IndexCount: uint32(len(indices))}}
	}
	for i := range m.Submeshes {
		if m.Submeshes[i].Bounds == (common.AABB{}) {
			m.computeBounds(i)
		}
	}
	return m
}

// WithSubmesh is an option builder that appends a submesh.
//
// Parameters:
//   - name: the submesh identifier
//   - indexCount: number of indices in the range
//   - startIndex: first index of the range
//   - baseVertex: value added to each index
//
// Returns:
//   - MeshBuilderOption: a function that appends the submesh
func WithSubmesh(name string, indexCount, startIndex uint32, baseVertex int32) MeshBuilderOption {
	return func(m *Mesh) {
		m.Submeshes = append(m.Submeshes, Submesh{
			Name:       name,
			IndexCount: indexCount,
			StartIndex: startIndex,
			BaseVertex: baseVertex,
		})
	}
}

// WithBounds is an option builder that overrides the bounds of the most recently added submesh.
func WithBounds(bounds common.AABB) MeshBuilderOption {
	return func(m *Mesh) {
		if n := len(m.Submeshes); n > 0 {
			m.Submeshes[n-1].Bounds = bounds
		}
	}
}

// WithSkinned is an option builder that marks the mesh as skinned.
func WithSkinned() MeshBuilderOption {
	return func(m *Mesh) {
		m.Skinned = true
	}
}

// NewBox builds an axis-aligned box centered on the origin with the given half extents.
// Faces wind counter-clockwise seen from outside.
func NewBox(name string, hx, hy, hz float32, options ...MeshBuilderOption) *Mesh {
	type face struct {
		normal  [3]float32
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		tangent := common.Normalize3(common.Sub3(f.corners[1], f.corners[0]))
		for k, c := range f.corners {
			vertices = append(vertices, Vertex{Position: c, Normal: f.normal, TexCoord: uvs[k], Tangent: tangent})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh(name, vertices, indices, options...)
}
