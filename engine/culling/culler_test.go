package culling

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
)

func localFrustum() common.Frustum {
	proj := make([]float32, 16)
	common.Perspective(proj, math.Pi/4, 1, 1, 100)
	return common.ExtractFrustumFromMatrix(proj)
}

func boxAt(name string, x, y, z float32, opts ...scene.InstanceBuilderOption) scene.Instance {
	opts = append([]scene.InstanceBuilderOption{scene.WithWorld(common.Translation(x, y, z))}, opts...)
	return scene.NewInstance(name, model.DrawRef{}, opts...)
}

func meshes() model.Registry {
	return model.NewTable(model.NewBox("unit", 0.5, 0.5, 0.5))
}

func TestCullTenObjects(t *testing.T) {
	instances := []scene.Instance{
		boxAt("in0", -3, 0, -10),
		boxAt("behind", 0, 0, 10),
		boxAt("in1", -2, 0, -10),
		boxAt("in2", -1, 0, -10),
		boxAt("left", -50, 0, -10),
		boxAt("in3", 0, 0, -10),
		boxAt("beyondFar", 0, 0, -200),
		boxAt("in4", 1, 0, -10),
		boxAt("in5", 2, 0, -10),
		boxAt("above", 0, 50, -10),
	}
	region := frame.NewUploadRegion[frame.InstanceConstants](16)

	res, err := NewCuller().Cull(instances, meshes(), localFrustum(), common.IdentityMatrix(), region)
	if err != nil {
		t.Fatalf("Cull() error = %v", err)
	}
	if res.Visible != 6 || res.Culled != 4 || res.Skipped != 0 {
		t.Fatalf("Cull() = %+v, want 6 visible, 4 culled", res)
	}

	wantSlot := map[string]uint32{"in0": 0, "in1": 1, "in2": 2, "in3": 3, "in4": 4, "in5": 5}
	for _, inst := range instances {
		slot, visible := wantSlot[inst.Name]
		if inst.Visible != visible {
			t.Errorf("%s visible = %v, want %v", inst.Name, inst.Visible, visible)
			continue
		}
		if visible && inst.Slot != slot {
			t.Errorf("%s slot = %d, want %d", inst.Name, inst.Slot, slot)
		}
	}

	// slot 3 holds in3, whose transposed world has its translation in row 3
	if got := region.At(3).World[3]; got != 0 {
		t.Errorf("slot 3 world x = %v, want 0", got)
	}
	if got := region.At(5).World[3]; got != 2 {
		t.Errorf("slot 5 world x = %v, want 2", got)
	}
}

func TestCullResetsVisibility(t *testing.T) {
	instances := []scene.Instance{boxAt("a", 0, 0, -10), boxAt("b", 0, 0, -10)}
	region := frame.NewUploadRegion[frame.InstanceConstants](4)
	c := NewCuller()

	if _, err := c.Cull(instances, meshes(), localFrustum(), common.IdentityMatrix(), region); err != nil {
		t.Fatal(err)
	}
	instances[0].World = common.Translation(0, 0, 10)
	res, err := c.Cull(instances, meshes(), localFrustum(), common.IdentityMatrix(), region)
	if err != nil {
		t.Fatal(err)
	}
	if instances[0].Visible {
		t.Error("moved instance still visible")
	}
	if res.Visible != 1 || instances[1].Slot != 0 {
		t.Errorf("survivor not compacted to slot 0: %+v, slot %d", res, instances[1].Slot)
	}
}

func TestCullSkips(t *testing.T) {
	instances := []scene.Instance{
		boxAt("hidden", 0, 0, -10, scene.WithHidden(true)),
		scene.NewInstance("empty", model.NoGeometry),
		scene.NewInstance("dangling", model.DrawRef{Mesh: 9}),
		boxAt("shown", 0, 0, -10),
	}
	region := frame.NewUploadRegion[frame.InstanceConstants](4)
	res, err := NewCuller().Cull(instances, meshes(), localFrustum(), common.IdentityMatrix(), region)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 3 || res.Visible != 1 || res.Total() != 4 {
		t.Errorf("Cull() = %+v, want 3 skipped, 1 visible", res)
	}
	if instances[3].Slot != 0 {
		t.Errorf("shown slot = %d, want 0", instances[3].Slot)
	}
}

func TestCullOverflow(t *testing.T) {
	var instances []scene.Instance
	for i := 0; i < 5; i++ {
		instances = append(instances, boxAt("box", float32(i)-2, 0, -10))
	}
	region := frame.NewUploadRegion[frame.InstanceConstants](3)
	res, err := NewCuller().Cull(instances, meshes(), localFrustum(), common.IdentityMatrix(), region)
	if !errors.Is(err, ErrInstanceOverflow) {
		t.Fatalf("Cull() error = %v, want ErrInstanceOverflow", err)
	}
	if res.Visible != 3 {
		t.Errorf("Visible = %d before overflow, want 3", res.Visible)
	}
}

func TestCullOverflowClearsStaleVisibility(t *testing.T) {
	instances := []scene.Instance{
		boxAt("a", -2, 0, 10),
		boxAt("b", -1, 0, 10),
		boxAt("c", 0, 0, -10),
		boxAt("d", 1, 0, -10),
	}
	region := frame.NewUploadRegion[frame.InstanceConstants](2)
	c := NewCuller()
	if _, err := c.Cull(instances, meshes(), localFrustum(), common.IdentityMatrix(), region); err != nil {
		t.Fatal(err)
	}
	if !instances[3].Visible {
		t.Fatal("d not visible on the first frame")
	}

	// a and b move into view and take both slots, so c overflows
	instances[0].World = common.Translation(-2, 0, -10)
	instances[1].World = common.Translation(-1, 0, -10)
	if _, err := c.Cull(instances, meshes(), localFrustum(), common.IdentityMatrix(), region); !errors.Is(err, ErrInstanceOverflow) {
		t.Fatalf("Cull() error = %v, want ErrInstanceOverflow", err)
	}
	for _, inst := range instances[2:] {
		if inst.Visible {
			t.Errorf("%s still visible after overflow", inst.Name)
		}
	}
	if !instances[0].Visible || !instances[1].Visible {
		t.Error("instances packed before the overflow lost visibility")
	}
}

func TestCullWorldSpaceCamera(t *testing.T) {
	view := make([]float32, 16)
	common.LookAt(view, 0, 0, 10, 0, 0, 0, 0, 1, 0)
	var v [16]float32
	copy(v[:], view)
	invView, ok := common.Inverted(v)
	if !ok {
		t.Fatal("view not invertible")
	}

	instances := []scene.Instance{
		boxAt("origin", 0, 0, 0),
		boxAt("behindCamera", 0, 0, 20),
	}
	region := frame.NewUploadRegion[frame.InstanceConstants](4)
	if _, err := NewCuller().Cull(instances, meshes(), localFrustum(), invView, region); err != nil {
		t.Fatal(err)
	}
	if !instances[0].Visible || instances[1].Visible {
		t.Errorf("visibility = %v/%v, want true/false", instances[0].Visible, instances[1].Visible)
	}
}

func TestCullDisabled(t *testing.T) {
	instances := []scene.Instance{boxAt("behind", 0, 0, 10), boxAt("in", 0, 0, -10)}
	region := frame.NewUploadRegion[frame.InstanceConstants](4)
	res, err := NewCuller(WithDisabled(true)).Cull(instances, meshes(), localFrustum(), common.IdentityMatrix(), region)
	if err != nil {
		t.Fatal(err)
	}
	if res.Visible != 2 {
		t.Errorf("Visible = %d, want 2", res.Visible)
	}
}
