package resource

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

// Table is an in-memory Registry. It tracks each resource's size and uploaded bytes and hands
// out views whose Handle is the resource's generation, so a view taken before a Resize can be
// told apart from one taken after.
type Table struct {
	mu      sync.RWMutex
	entries [resourceCount]entry
}

type entry struct {
	size       common.Size
	generation int
	data       []byte
}

var _ Registry = &Table{}

// NewTable creates a table for a w x h output with square shadow and cube targets.
//
// Parameters:
//   - w, h: output size in pixels
//   - shadowSize: edge length of the shadow map
//   - cubeSize: edge length of each environment cube face
//
// Returns:
//   - *Table: the registry
func NewTable(w, h, shadowSize, cubeSize int) *Table {
	t := &Table{}
	t.entries[ShadowMap].size = common.Size{Width: shadowSize, Height: shadowSize}
	t.entries[EnvironmentCube].size = common.Size{Width: cubeSize, Height: cubeSize}
	t.entries[EnvironmentDepth].size = common.Size{Width: cubeSize, Height: cubeSize}
	t.entries[RandomVectorMap].size = common.Size{Width: 256, Height: 256}
	t.entries[SkyCube].size = common.Size{Width: cubeSize, Height: cubeSize}
	t.resize(w, h)
	return t
}

func (t *Table) ReadView(id ID) (View, error) {
	if id < 0 || id >= resourceCount {
		return View{}, fmt.Errorf("%w: %d", ErrUnknownResource, int(id))
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return View{ID: id, Face: -1, Handle: t.entries[id].generation}, nil
}

func (t *Table) WriteView(id ID, face int) (View, error) {
	if id < 0 || id >= resourceCount {
		return View{}, fmt.Errorf("%w: %d", ErrUnknownResource, int(id))
	}
	if IsCube(id) {
		if face < 0 || face > 5 {
			return View{}, fmt.Errorf("%w: %s face %d", ErrInvalidFace, id, face)
		}
	} else if face != -1 {
		return View{}, fmt.Errorf("%w: %s is not a cube", ErrInvalidFace, id)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return View{ID: id, Face: face, Write: true, Handle: t.entries[id].generation}, nil
}

func (t *Table) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resize(w, h)
	return nil
}

func (t *Table) resize(w, h int) {
	full := common.Size{Width: w, Height: h}
	for _, id := range []ID{DepthBuffer, NormalMap, BackBuffer} {
		t.entries[id].size = full
		t.entries[id].generation++
	}
	// ambient occlusion runs at half resolution
	for _, id := range []ID{AmbientMap0, AmbientMap1} {
		t.entries[id].size = full.Half()
		t.entries[id].generation++
	}
}

func (t *Table) Upload(id ID, data []byte) error {
	if id < 0 || id >= resourceCount {
		return fmt.Errorf("%w: %d", ErrUnknownResource, int(id))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[id].data = append(t.entries[id].data[:0], data...)
	return nil
}

// Size returns the current size of id.
func (t *Table) Size(id ID) common.Size {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.entries[id].size
}

// Data returns a copy of the last bytes uploaded to id.
func (t *Table) Data(id ID) []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]byte(nil), t.entries[id].data...)
}
