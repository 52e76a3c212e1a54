package pipeline

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestDefaultTableHasEveryVariant(t *testing.T) {
	table := NewDefaultTable()
	for _, name := range Names {
		p, err := table.Lookup(name)
		if err != nil {
			t.Errorf("Lookup(%q) error = %v", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, p.Name())
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := NewTable().Lookup("wireframe")
	if !errors.Is(err, ErrUnknownPipeline) {
		t.Errorf("Lookup(wireframe) error = %v, want ErrUnknownPipeline", err)
	}
}

func TestShadowPipelineState(t *testing.T) {
	p, err := NewDefaultTable().Lookup(Shadow)
	if err != nil {
		t.Fatal(err)
	}
	if p.HasColorTarget() {
		t.Error("shadow pipeline should be depth only")
	}
	if bias, slope := p.DepthBias(); bias != 100000 || slope != 1.0 {
		t.Errorf("DepthBias() = (%d, %v), want (100000, 1)", bias, slope)
	}
	if p.WriteMask() != wgpu.ColorWriteMaskNone {
		t.Errorf("WriteMask() = %v, want none", p.WriteMask())
	}
}

func TestRegisterReplaces(t *testing.T) {
	table := NewDefaultTable()
	handle := "compiled"
	table.Register(NewPipeline(Opaque, WithHandle(handle)))

	p, err := table.Lookup(Opaque)
	if err != nil {
		t.Fatal(err)
	}
	if p.Handle() != handle {
		t.Errorf("Handle() = %v, want %v", p.Handle(), handle)
	}
}
