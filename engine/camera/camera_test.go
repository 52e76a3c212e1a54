package camera

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

func TestDefaultCameraLooksDownNegativeZ(t *testing.T) {
	c := NewCamera()
	view := c.ViewMatrix()
	if got := common.TransformPoint(view, [3]float32{0, 0, 0}); !approxVec3(got, [3]float32{0, 0, -5}) {
		t.Errorf("target in view space = %v, want (0, 0, -5)", got)
	}
	back := common.Mul4x(c.InverseViewMatrix(), view)
	id := common.IdentityMatrix()
	for i := range back {
		if !approx(back[i], id[i]) {
			t.Fatalf("InverseView * View = %v, want identity", back)
		}
	}

	f := c.LocalFrustum()
	if !f.ContainsPoint([3]float32{0, 0, -5}) {
		t.Error("local frustum misses a point in front of the camera")
	}
	if f.ContainsPoint([3]float32{0, 0, 5}) {
		t.Error("local frustum contains a point behind the camera")
	}
}

func TestSetAspect(t *testing.T) {
	c := NewCamera(WithLens(math.Pi/2, 1, 1, 100))
	p00 := c.ProjectionMatrix()[0]
	c.SetAspect(2)
	if got := c.ProjectionMatrix()[0]; !approx(got, p00/2) {
		t.Errorf("P00 after SetAspect(2) = %v, want %v", got, p00/2)
	}
	if c.Aspect() != 2 {
		t.Errorf("Aspect() = %v", c.Aspect())
	}
}

func TestCubeCamerasFaceTheirAxis(t *testing.T) {
	center := [3]float32{0, 2, 0}
	cams := NewCubeCameras(center, 1, 1000)
	dirs := [CubeFaceCount][3]float32{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}

	for i, cam := range cams {
		p := [3]float32{center[0] + dirs[i][0]*10, center[1] + dirs[i][1]*10, center[2] + dirs[i][2]*10}
		if got := common.TransformPoint(cam.ViewMatrix(), p); !approxVec3(got, [3]float32{0, 0, -10}) {
			t.Errorf("face %d: axis point in view space = %v, want (0, 0, -10)", i, got)
		}
		if cam.Position() != center {
			t.Errorf("face %d eye = %v, want %v", i, cam.Position(), center)
		}
		if !approx(cam.Fov(), math.Pi/2) || cam.Aspect() != 1 {
			t.Errorf("face %d lens = %v/%v", i, cam.Fov(), cam.Aspect())
		}
	}
}

func TestFillPassConstants(t *testing.T) {
	c := NewCamera(WithEye([3]float32{0, 3, 10}, [3]float32{0, 3, 0}))
	var pc frame.PassConstants
	c.FillPassConstants(&pc)

	if pc.EyePosW != [3]float32{0, 3, 10} || pc.NearZ != 1 || pc.FarZ != 1000 {
		t.Errorf("eye/near/far = %v %v %v", pc.EyePosW, pc.NearZ, pc.FarZ)
	}
	if pc.View != common.Transposed(c.ViewMatrix()) {
		t.Error("View not stored transposed")
	}

	// the look-at point projects to the center of texture space
	tex := common.Transposed(pc.ViewProjTex)
	if got := common.TransformPoint(tex, [3]float32{0, 3, 0}); !approx(got[0], 0.5) || !approx(got[1], 0.5) {
		t.Errorf("target in texture space = %v, want (0.5, 0.5)", got)
	}
}

func TestOrbitController(t *testing.T) {
	oc := NewOrbitController(WithRadius(10), WithAngles(0, 0), WithRadiusBounds(5, 20))
	if got := oc.Position(); !approxVec3(got, [3]float32{0, 0, 10}) {
		t.Fatalf("Position() = %v, want (0, 0, 10)", got)
	}

	oc.Orbit(math.Pi/2, 0)
	if got := oc.Position(); !approxVec3(got, [3]float32{10, 0, 0}) {
		t.Errorf("after quarter orbit Position() = %v, want (10, 0, 0)", got)
	}

	oc.Zoom(100)
	if oc.Radius() != 5 {
		t.Errorf("Zoom past min radius = %v, want 5", oc.Radius())
	}

	oc.SetPosition([3]float32{0, 0, -8})
	if !approx(oc.Radius(), 8) || !approxVec3(oc.Position(), [3]float32{0, 0, -8}) {
		t.Errorf("SetPosition round trip = %v r=%v", oc.Position(), oc.Radius())
	}

	oc.Orbit(0, 10)
	if oc.Elevation() > math.Pi/2 {
		t.Errorf("elevation not clamped: %v", oc.Elevation())
	}
}

func TestCameraFollowsController(t *testing.T) {
	oc := NewOrbitController(WithRadius(10), WithAngles(0, 0), WithTarget(1, 0, 0))
	c := NewCamera(WithController(oc))
	if got := c.Position(); !approxVec3(got, [3]float32{1, 0, 10}) {
		t.Fatalf("Position() = %v, want (1, 0, 10)", got)
	}

	oc.Orbit(math.Pi, 0)
	c.Update()
	if got := c.Position(); !approxVec3(got, [3]float32{1, 0, -10}) {
		t.Errorf("Position() after Update = %v, want (1, 0, -10)", got)
	}

	c.LookAt([3]float32{1, 0, 4}, [3]float32{1, 0, 0}, [3]float32{0, 1, 0})
	if got := oc.Position(); !approx(oc.Radius(), 4) || !approxVec3(got, [3]float32{1, 0, 4}) {
		t.Errorf("controller after LookAt = %v r=%v", got, oc.Radius())
	}
}
