package model

import "sync"

// Registry resolves mesh indices to geometry.
type Registry interface {
	// Mesh returns mesh i.
	//
	// Parameters:
	//   - i: mesh index
	//
	// Returns:
	//   - *Mesh: the mesh
	//   - bool: false if no mesh has index i
	Mesh(i int) (*Mesh, bool)
}

// Resolve looks up the submesh ref points at.
//
// Parameters:
//   - r: the registry
//   - ref: the draw reference
//
// Returns:
//   - *Mesh: the mesh
//   - Submesh: the referenced submesh
//   - bool: false if ref has no geometry or points outside the registry
func Resolve(r Registry, ref DrawRef) (*Mesh, Submesh, bool) {
	if !ref.Valid() {
		return nil, Submesh{}, false
	}
	m, ok := r.Mesh(ref.Mesh)
	if !ok || ref.Submesh >= len(m.Submeshes) {
		return nil, Submesh{}, false
	}
	return m, m.Submeshes[ref.Submesh], true
}

// Table is an in-memory Registry.
type Table struct {
	mu     sync.RWMutex
	meshes []*Mesh
}

var _ Registry = &Table{}

// NewTable creates a registry holding meshes at indices 0..len-1.
func NewTable(meshes ...*Mesh) *Table {
	return &Table{meshes: meshes}
}

// Add appends m and returns its index.
func (t *Table) Add(m *Mesh) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.meshes = append(t.meshes, m)
	return len(t.meshes) - 1
}

func (t *Table) Mesh(i int) (*Mesh, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.meshes) {
		return nil, false
	}
	return t.meshes[i], true
}

// Len returns the number of meshes.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.meshes)
}
