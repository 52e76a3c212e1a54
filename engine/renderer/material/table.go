package material

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

// ErrNoMaterial is returned for a material index outside the table.
var ErrNoMaterial = errors.New("material: index out of range")

// Table holds the scene's materials by index together with a generation per entry. Every Set
// bumps the entry's generation; a ring slot re-uploads an entry whenever the generation it last
// wrote differs from the table's.
type Table struct {
	mu          sync.RWMutex
	materials   []Material
	generations []uint64
}

// NewTable creates a table with the given materials at indices 0..len-1, all at generation 1.
func NewTable(materials ...Material) *Table {
	t := &Table{
		materials:   append([]Material(nil), materials...),
		generations: make([]uint64, len(materials)),
	}
	for i := range t.generations {
		t.generations[i] = 1
	}
	return t
}

// Add appends m and returns its index.
func (t *Table) Add(m Material) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.materials = append(t.materials, m)
	t.generations = append(t.generations, 1)
	return len(t.materials) - 1
}

// Set replaces material i and bumps its generation.
//
// Parameters:
//   - i: material index
//   - m: the new material
//
// Returns:
//   - error: ErrNoMaterial if i is out of range
func (t *Table) Set(i int, m Material) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.materials) {
		return fmt.Errorf("%w: %d", ErrNoMaterial, i)
	}
	t.materials[i] = m
	t.generations[i]++
	return nil
}

// Get returns material i.
func (t *Table) Get(i int) (Material, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.materials) {
		return nil, false
	}
	return t.materials[i], true
}

// Generation returns the current generation of material i, zero if i is out of range.
func (t *Table) Generation(i int) uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.generations) {
		return 0
	}
	return t.generations[i]
}

// Len returns the number of materials.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.materials)
}

// Sync writes every material whose generation differs from the one last written into slot,
// then records the new generations on the slot.
//
// Parameters:
//   - slot: the ring slot being prepared
//
// Returns:
//   - int: the number of materials uploaded
//   - error: frame.ErrRegionOverflow if the table outgrew the slot's material region
func (t *Table) Sync(slot *frame.Slot) (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	uploaded := 0
	for i, m := range t.materials {
		gen := t.generations[i]
		if slot.MaterialGeneration(i) == gen {
			continue
		}
		c := m.Constants()
		if err := slot.Materials.CopyData(i, &c); err != nil {
			return uploaded, err
		}
		slot.SetMaterialGeneration(i, gen)
		uploaded++
	}
	return uploaded, nil
}
