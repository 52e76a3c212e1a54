package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrUnknownPipeline is returned by Lookup for a name nothing was registered under.
var ErrUnknownPipeline = errors.New("pipeline: unknown variant")

// Registry resolves pipeline variant names to compiled pipelines.
type Registry interface {
	// Lookup returns the pipeline registered under name.
	//
	// Parameters:
	//   - name: the variant name, e.g. Opaque
	//
	// Returns:
	//   - Pipeline: the registered pipeline
	//   - error: ErrUnknownPipeline if nothing is registered under name
	Lookup(name string) (Pipeline, error)
}

// Table is an in-memory Registry.
type Table struct {
	mu        sync.RWMutex
	pipelines map[string]Pipeline
}

var _ Registry = &Table{}

// NewTable creates a registry holding the given pipelines, keyed by their names.
func NewTable(pipelines ...Pipeline) *Table {
	t := &Table{pipelines: make(map[string]Pipeline, len(pipelines))}
	for _, p := range pipelines {
		t.pipelines[p.Name()] = p
	}
	return t
}

// NewDefaultTable creates a registry with every variant in Names, configured with the
// fixed-function state each pass expects. Handles are left empty.
func NewDefaultTable() *Table {
	return NewTable(
		NewPipeline(Opaque),
		NewPipeline(SkinnedOpaque),
		// the camera sits inside the sky sphere
		NewPipeline(Sky, WithCullMode(wgpu.CullModeNone), WithDepthWriteEnabled(false)),
		NewPipeline(Shadow, WithDepthOnly(), WithDepthBias(100000, 1.0)),
		NewPipeline(Debug, WithDepthTestEnabled(false), WithDepthWriteEnabled(false)),
		NewPipeline(DrawNormals),
		NewPipeline(Ssao, WithDepthTestEnabled(false), WithDepthWriteEnabled(false), WithCullMode(wgpu.CullModeNone)),
		NewPipeline(SsaoBlur, WithDepthTestEnabled(false), WithDepthWriteEnabled(false), WithCullMode(wgpu.CullModeNone)),
	)
}

// Register adds or replaces p under its name.
func (t *Table) Register(p Pipeline) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pipelines[p.Name()] = p
}

func (t *Table) Lookup(name string) (Pipeline, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.pipelines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPipeline, name)
	}
	return p, nil
}
