package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

func TestNewBoxBounds(t *testing.T) {
	box := NewBox("crate", 1, 2, 3)
	if len(box.Submeshes) != 1 {
		t.Fatalf("submeshes = %d, want 1", len(box.Submeshes))
	}
	want := common.AABB{Min: [3]float32{-1, -2, -3}, Max: [3]float32{1, 2, 3}}
	if got := box.Submeshes[0].Bounds; got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
	if got := box.TriangleCount(0); got != 12 {
		t.Errorf("TriangleCount = %d, want 12", got)
	}
}

func TestSubmeshBoundsUseOwnRange(t *testing.T) {
	vertices := []Vertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
		{Position: [3]float32{10, 10, 10}},
		{Position: [3]float32{11, 10, 10}},
		{Position: [3]float32{10, 11, 10}},
	}
	indices := []uint32{0, 1, 2, 0, 1, 2}
	m := NewMesh("pair", vertices, indices,
		WithSubmesh("near", 3, 0, 0),
		WithSubmesh("far", 3, 3, 3),
	)

	if got := m.Submeshes[0].Bounds.Max; got != [3]float32{1, 1, 0} {
		t.Errorf("near bounds max = %v", got)
	}
	if got := m.Submeshes[1].Bounds.Min; got != [3]float32{10, 10, 10} {
		t.Errorf("far bounds min = %v", got)
	}

	tri, ok := m.Triangle(1, 0)
	if !ok || tri[1] != [3]float32{11, 10, 10} {
		t.Errorf("Triangle(1, 0) = %v, %v", tri, ok)
	}
	if _, ok := m.Triangle(1, 1); ok {
		t.Error("Triangle past the submesh range should fail")
	}
}

func TestWithBoundsOverrides(t *testing.T) {
	custom := common.AABB{Min: [3]float32{-5, -5, -5}, Max: [3]float32{5, 5, 5}}
	m := NewBox("big", 1, 1, 1, WithSubmesh("all", 36, 0, 0), WithBounds(custom))
	if m.Submeshes[0].Bounds != custom {
		t.Errorf("Bounds = %+v, want override", m.Submeshes[0].Bounds)
	}
}

func TestResolve(t *testing.T) {
	table := NewTable()
	idx := table.Add(NewBox("a", 1, 1, 1))

	tests := []struct {
		name string
		ref  DrawRef
		ok   bool
	}{
		{"valid", DrawRef{Mesh: idx}, true},
		{"no geometry", NoGeometry, false},
		{"missing mesh", DrawRef{Mesh: 4}, false},
		{"missing submesh", DrawRef{Mesh: idx, Submesh: 2}, false},
	}
	for _, tt := range tests {
		if _, _, ok := Resolve(table, tt.ref); ok != tt.ok {
			t.Errorf("%s: Resolve ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
