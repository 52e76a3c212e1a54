package light

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

const epsilon = 1e-4

func approx(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) <= epsilon
}

func approxVec3(a, b [3]float32) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1]) && approx(a[2], b[2])
}

func TestDefaultRig(t *testing.T) {
	rig := NewDefaultRig(DefaultSpin)
	var pc frame.PassConstants
	if n := rig.Fill(&pc); n != frame.NumDirLights {
		t.Fatalf("Fill() = %d, want %d", n, frame.NumDirLights)
	}
	for i, want := range []float32{0.6, 0.3, 0.15} {
		if got := pc.Lights[i].Strength; !approxVec3(got, [3]float32{want, want, want}) {
			t.Errorf("light %d strength = %v, want %v", i, got, want)
		}
	}
	if pc.Lights[3] != (frame.GPULight{}) {
		t.Error("unused light entry not zeroed")
	}

	caster, ok := rig.ShadowCaster()
	if !ok || caster != rig.Lights()[0] {
		t.Error("key light is not the shadow caster")
	}
}

func TestRigRotate(t *testing.T) {
	rig := NewDefaultRig(0.1)
	base := rig.Lights()[0].Direction()

	// 5 seconds at 0.1 rad/s, in uneven steps
	for _, dt := range []float32{1, 2.5, 1.5} {
		rig.Rotate(dt)
	}
	if !approx(rig.Angle(), 0.5) {
		t.Fatalf("Angle() = %v, want 0.5", rig.Angle())
	}

	got := rig.Lights()[0].Direction()
	want := common.TransformDirection(common.RotationY(0.5), base)
	if !approxVec3(got, want) {
		t.Errorf("direction = %v, want %v", got, want)
	}
	if !approx(got[1], base[1]) || !approx(common.Length3(got), 1) {
		t.Errorf("rotation about Y changed height or length: %v", got)
	}
}

func TestRigSkipsNonDirectionalOnRotate(t *testing.T) {
	spot := NewLight(LightTypeSpot, WithDirection(1, 0, 0), WithPosition(0, 5, 0))
	rig := NewRig(1, spot)
	rig.Rotate(1)
	if spot.Direction() != [3]float32{1, 0, 0} {
		t.Errorf("spot light rotated to %v", spot.Direction())
	}
}

func TestFillOrdersByType(t *testing.T) {
	point := NewLight(LightTypePoint, WithPosition(1, 2, 3))
	dir := NewLight(LightTypeDirectional)
	off := NewLight(LightTypeDirectional, WithEnabled(false))
	rig := NewRig(0, point, off, dir)

	var pc frame.PassConstants
	if n := rig.Fill(&pc); n != 2 {
		t.Fatalf("Fill() = %d, want 2", n)
	}
	if pc.Lights[0].Direction != dir.Direction() || pc.Lights[1].Position != point.Position() {
		t.Errorf("lights out of order: %+v", pc.Lights[:2])
	}
}

func TestFillCapsAtMaxLights(t *testing.T) {
	rig := NewRig(0)
	for i := 0; i < frame.MaxLights+4; i++ {
		rig.Add(NewLight(LightTypePoint))
	}
	var pc frame.PassConstants
	if n := rig.Fill(&pc); n != frame.MaxLights {
		t.Errorf("Fill() = %d, want %d", n, frame.MaxLights)
	}
}

func TestComputeShadow(t *testing.T) {
	r := float32(math.Sqrt(200))
	bound := common.Sphere{Radius: r}
	dir := common.Normalize3([3]float32{0.57735, -0.57735, 0.57735})
	s := ComputeShadow(dir, bound)

	if want := common.Scale3(dir, -2*r); !approxVec3(s.LightPos, want) {
		t.Errorf("LightPos = %v, want %v", s.LightPos, want)
	}
	if !approx(s.Near, r) || !approx(s.Far, 3*r) {
		t.Errorf("near/far = %v/%v, want %v/%v", s.Near, s.Far, r, 3*r)
	}

	tests := []struct {
		name  string
		point [3]float32
		want  [3]float32
	}{
		{"center", [3]float32{0, 0, 0}, [3]float32{0.5, 0.5, 0.5}},
		{"nearest to light", common.Scale3(dir, -r), [3]float32{0.5, 0.5, 0}},
		{"farthest from light", common.Scale3(dir, r), [3]float32{0.5, 0.5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := common.TransformPoint(s.Transform, tt.point); !approxVec3(got, tt.want) {
				t.Errorf("shadow texcoord = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeShadowVerticalLight(t *testing.T) {
	s := ComputeShadow([3]float32{0, -1, 0}, common.Sphere{Center: [3]float32{0, 2, 0}, Radius: 5})
	if got := common.TransformPoint(s.Transform, [3]float32{0, 2, 0}); !approxVec3(got, [3]float32{0.5, 0.5, 0.5}) {
		t.Errorf("center texcoord = %v", got)
	}
}

func TestShadowFillPassConstants(t *testing.T) {
	s := ComputeShadow([3]float32{0, -0.707, -0.707}, common.Sphere{Radius: 10})
	var pc frame.PassConstants
	s.FillPassConstants(&pc, 2048)
	if pc.NearZ != s.Near || pc.FarZ != s.Far || pc.EyePosW != s.LightPos {
		t.Errorf("pass constants = near %v far %v eye %v", pc.NearZ, pc.FarZ, pc.EyePosW)
	}
	if pc.RenderTargetSize != [2]float32{2048, 2048} {
		t.Errorf("RenderTargetSize = %v", pc.RenderTargetSize)
	}
	if pc.View != common.Transposed(s.View) {
		t.Error("View not transposed")
	}
}
