package common

import (
	"math"
	"testing"
)

func TestQuatSlerpEndpointsAreExact(t *testing.T) {
	a := QuatFromAxisAngle([3]float32{0, 1, 0}, 0.3)
	b := QuatFromAxisAngle([3]float32{1, 0, 0}, 1.2)

	if got := QuatSlerp(a, b, 0); got != a {
		t.Errorf("QuatSlerp(a, b, 0) = %v, want %v", got, a)
	}
	if got := QuatSlerp(a, b, 1); got != b {
		t.Errorf("QuatSlerp(a, b, 1) = %v, want %v", got, b)
	}
}

func TestQuatSlerpHalfway(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle([3]float32{0, 1, 0}, float32(math.Pi/2))
	want := QuatFromAxisAngle([3]float32{0, 1, 0}, float32(math.Pi/4))

	got := QuatSlerp(a, b, 0.5)
	for i := range got {
		if !approx(got[i], want[i]) {
			t.Fatalf("QuatSlerp halfway = %v, want %v", got, want)
		}
	}
}

func TestQuatSlerpTakesShortestArc(t *testing.T) {
	a := QuatIdentity()
	b := QuatFromAxisAngle([3]float32{0, 1, 0}, float32(math.Pi/2))
	negB := [4]float32{-b[0], -b[1], -b[2], -b[3]}

	m1 := QuatToMatrix(QuatSlerp(a, b, 0.5))
	m2 := QuatToMatrix(QuatSlerp(a, negB, 0.5))
	if !approxMat(m1, m2) {
		t.Errorf("slerp toward -b rotated differently: %v vs %v", m1, m2)
	}
}

func TestAffineTransformOrder(t *testing.T) {
	rot := QuatFromAxisAngle([3]float32{0, 1, 0}, float32(math.Pi/2))
	m := AffineTransform([3]float32{2, 2, 2}, rot, [3]float32{0, 0, 10})

	// scale (1,0,0) -> (2,0,0), rotate about Y -> (0,0,-2), translate -> (0,0,8)
	got := TransformPoint(m, [3]float32{1, 0, 0})
	if want := [3]float32{0, 0, 8}; !approxVec3(got, want) {
		t.Errorf("AffineTransform applied = %v, want %v", got, want)
	}
}

func TestQuatToMatrixMatchesRotationY(t *testing.T) {
	angle := float32(0.7)
	got := QuatToMatrix(QuatFromAxisAngle([3]float32{0, 1, 0}, angle))
	if want := RotationY(angle); !approxMat(got, want) {
		t.Errorf("QuatToMatrix = %v, want %v", got, want)
	}
}
