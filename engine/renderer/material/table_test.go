package material

import (
	"context"
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

type idleDevice struct{ next frame.Token }

func (d *idleDevice) Submit(*frame.CommandList) (frame.Token, error) { d.next++; return d.next, nil }
func (d *idleDevice) HasCompleted(frame.Token) bool                  { return true }
func (d *idleDevice) WaitFor(context.Context, frame.Token) error     { return nil }

func TestSyncUploadsEachGenerationOncePerSlot(t *testing.T) {
	table := NewTable(NewMaterial("grass"), NewMaterial("brick"))
	ring, err := frame.NewRing(&idleDevice{}, frame.WithCapacities(4, 4, 1))
	if err != nil {
		t.Fatal(err)
	}

	// first lap: every slot sees both materials once
	for i := 0; i < ring.Depth(); i++ {
		n, err := table.Sync(ring.Slot(i))
		if err != nil {
			t.Fatal(err)
		}
		if n != 2 {
			t.Errorf("slot %d first sync uploaded %d, want 2", i, n)
		}
	}
	for i := 0; i < ring.Depth(); i++ {
		if n, _ := table.Sync(ring.Slot(i)); n != 0 {
			t.Errorf("slot %d resync uploaded %d, want 0", i, n)
		}
	}

	if err := table.Set(1, NewMaterial("brick", WithRoughness(0.9))); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < ring.Depth(); i++ {
		s := ring.Slot(i)
		if n, _ := table.Sync(s); n != 1 {
			t.Errorf("slot %d after Set uploaded %d, want 1", i, n)
		}
		if got := s.Materials.At(1).Roughness; got != 0.9 {
			t.Errorf("slot %d roughness = %v, want 0.9", i, got)
		}
		if s.MaterialGeneration(1) != table.Generation(1) {
			t.Errorf("slot %d generation %d, table %d", i, s.MaterialGeneration(1), table.Generation(1))
		}
	}
}

func TestSyncOverflow(t *testing.T) {
	table := NewTable(NewMaterial("a"), NewMaterial("b"), NewMaterial("c"))
	ring, err := frame.NewRing(&idleDevice{}, frame.WithCapacities(1, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := table.Sync(ring.Slot(0)); !errors.Is(err, frame.ErrRegionOverflow) {
		t.Errorf("Sync() error = %v, want ErrRegionOverflow", err)
	}
}

func TestSetOutOfRange(t *testing.T) {
	table := NewTable()
	if err := table.Set(0, NewMaterial("x")); !errors.Is(err, ErrNoMaterial) {
		t.Errorf("Set(0) error = %v, want ErrNoMaterial", err)
	}
	if idx := table.Add(NewMaterial("x")); idx != 0 || table.Generation(0) != 1 {
		t.Errorf("Add() = %d, generation %d", idx, table.Generation(0))
	}
}

func TestConstantsTransposeMatTransform(t *testing.T) {
	var m [16]float32
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	m[12] = 0.5 // column-major translation
	c := NewMaterial("tiled", WithMatTransform(m), WithTextures(3, 4)).Constants()
	if c.MatTransform[3] != 0.5 {
		t.Errorf("MatTransform not transposed: %v", c.MatTransform)
	}
	if c.DiffuseMapIndex != 3 || c.NormalMapIndex != 4 {
		t.Errorf("texture indices = %d/%d", c.DiffuseMapIndex, c.NormalMapIndex)
	}
	if d := NewMaterial("plain").Constants(); d.DiffuseMapIndex != frame.NoTexture {
		t.Errorf("default DiffuseMapIndex = %d, want NoTexture", d.DiffuseMapIndex)
	}
}
