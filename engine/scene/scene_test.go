package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/google/uuid"
)

func TestRemovePreservesOrder(t *testing.T) {
	s := NewScene("test")
	var ids []uuid.UUID
	for _, name := range []string{"a", "b", "c", "d"} {
		idx := s.Add(NewInstance(name, model.DrawRef{}))
		ids = append(ids, s.Instance(idx).ID)
	}

	if !s.Remove(ids[1]) {
		t.Fatal("Remove(b) = false")
	}
	if s.Remove(ids[1]) {
		t.Error("second Remove(b) = true")
	}

	want := []string{"a", "c", "d"}
	for i, inst := range s.Instances() {
		if inst.Name != want[i] {
			t.Errorf("instance %d = %q, want %q", i, inst.Name, want[i])
		}
	}
	if idx, ok := s.Find(ids[3]); !ok || idx != 2 {
		t.Errorf("Find(d) = %d, %v, want 2, true", idx, ok)
	}
}

func TestAddAssignsIDAndClearsVisibility(t *testing.T) {
	inst := Instance{Name: "bare", Visible: true}
	s := NewScene("test", WithInstances(inst))
	got := s.Instance(0)
	if got.ID == uuid.Nil {
		t.Error("Add kept a nil ID")
	}
	if got.Visible {
		t.Error("Add kept Visible set")
	}
	if s.Instance(1) != nil || s.SetWorld(5, common.IdentityMatrix()) {
		t.Error("out of range access succeeded")
	}
}

func TestNewInstanceDefaults(t *testing.T) {
	inst := NewInstance("crate", model.DrawRef{Mesh: 2}, WithMaterial(3))
	if inst.Skin != NoSkin || inst.Layer != LayerOpaque || inst.MaterialIndex != 3 {
		t.Errorf("unexpected defaults: %+v", inst)
	}
	skinned := NewInstance("walker", model.DrawRef{}, WithSkin(0))
	if skinned.Layer != LayerSkinned || skinned.Skin != 0 {
		t.Errorf("WithSkin: layer %v skin %d", skinned.Layer, skinned.Skin)
	}
}

func TestConstantsTranspose(t *testing.T) {
	inst := NewInstance("moved", model.DrawRef{}, WithWorld(common.Translation(1, 2, 3)), WithMaterial(7))
	c := inst.Constants()
	if c.World[3] != 1 || c.World[7] != 2 || c.World[11] != 3 {
		t.Errorf("World not transposed: %v", c.World)
	}
	if c.MaterialIndex != 7 {
		t.Errorf("MaterialIndex = %d", c.MaterialIndex)
	}
}

func TestAppendVisible(t *testing.T) {
	instances := []Instance{
		{Layer: LayerOpaque, Visible: true},
		{Layer: LayerSky, Visible: true},
		{Layer: LayerOpaque, Visible: false},
		{Layer: LayerDynamicReflector, Visible: true},
		{Layer: LayerOpaque, Visible: true},
	}
	tests := []struct {
		name   string
		layers []Layer
		want   []int
	}{
		{"opaque", []Layer{LayerOpaque}, []int{0, 4}},
		{"shadow casters", []Layer{LayerOpaque, LayerDynamicReflector}, []int{0, 3, 4}},
		{"none", []Layer{LayerDebug}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendVisible(nil, instances, tt.layers...)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}
