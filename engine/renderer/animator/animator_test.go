package animator

import (
	"errors"
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

func translation(m [16]float32) [3]float32 {
	return [3]float32{m[12], m[13], m[14]}
}

func keyAt(t, x float32) Keyframe {
	k := IdentityKeyframe(t)
	k.Translation = [3]float32{x, 0, 0}
	return k
}

func identities(n int) [][16]float32 {
	out := make([][16]float32, n)
	for i := range out {
		out[i] = common.IdentityMatrix()
	}
	return out
}

// chain builds parents [-1, 0, 1] where every bone moves from x=0 at t=0 to x=4 at t=2.
func chain(t *testing.T) *Skeleton {
	t.Helper()
	track := BoneTrack{Keyframes: []Keyframe{keyAt(0, 0), keyAt(2, 4)}}
	walk := Clip{Name: "walk", Tracks: []BoneTrack{track, track, track}}
	s, err := NewSkeleton([]int{-1, 0, 1}, identities(3), walk)
	if err != nil {
		t.Fatalf("NewSkeleton() error = %v", err)
	}
	return s
}

func TestTrackSampleBoundaries(t *testing.T) {
	q := common.QuatFromAxisAngle([3]float32{0, 1, 0}, 1.2)
	first := Keyframe{Time: 1, Translation: [3]float32{1, 2, 3}, Scale: [3]float32{1, 1, 1}, Rotation: common.QuatIdentity()}
	last := Keyframe{Time: 3, Translation: [3]float32{5, 6, 7}, Scale: [3]float32{2, 2, 2}, Rotation: q}
	track := BoneTrack{Keyframes: []Keyframe{first, last}}

	tests := []struct {
		name  string
		t     float32
		trans [3]float32
		scale [3]float32
		rot   [4]float32
	}{
		{"before first key", -5, first.Translation, first.Scale, first.Rotation},
		{"at first key", 1, first.Translation, first.Scale, first.Rotation},
		{"midpoint", 2, [3]float32{3, 4, 5}, [3]float32{1.5, 1.5, 1.5}, common.QuatSlerp(first.Rotation, q, 0.5)},
		{"at last key", 3, last.Translation, last.Scale, last.Rotation},
		{"after last key", 100, last.Translation, last.Scale, last.Rotation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := track.Sample(tt.t)
			if !approxVec3(k.Translation, tt.trans) {
				t.Errorf("translation = %v, want %v", k.Translation, tt.trans)
			}
			if !approxVec3(k.Scale, tt.scale) {
				t.Errorf("scale = %v, want %v", k.Scale, tt.scale)
			}
			for i := range k.Rotation {
				if !approx(k.Rotation[i], tt.rot[i]) {
					t.Errorf("rotation = %v, want %v", k.Rotation, tt.rot)
					break
				}
			}
		})
	}
}

func TestTrackKeyRoundTrip(t *testing.T) {
	var keys []Keyframe
	for i := 0; i < 5; i++ {
		k := IdentityKeyframe(float32(i) * 0.5)
		k.Translation = [3]float32{float32(i), float32(i * i), -float32(i)}
		k.Rotation = common.QuatFromAxisAngle([3]float32{1, 1, 0}, float32(i)*0.3)
		keys = append(keys, k)
	}
	track := BoneTrack{Keyframes: keys}
	for _, want := range keys {
		got := track.Sample(want.Time)
		if got.Translation != want.Translation || got.Rotation != want.Rotation {
			t.Errorf("Sample(%v) = %+v, want %+v", want.Time, got, want)
		}
	}
}

func TestEmptyTrackIsIdentity(t *testing.T) {
	if m := (BoneTrack{}).Evaluate(3); m != common.IdentityMatrix() {
		t.Errorf("Evaluate() = %v, want identity", m)
	}
}

func TestChainComposesTranslations(t *testing.T) {
	s := chain(t)
	pose := NewPose(s.BoneCount())
	if err := s.Evaluate("walk", 1, pose); err != nil {
		t.Fatal(err)
	}

	for i, want := range []float32{2, 4, 6} {
		if got := translation(pose.ToParent[i]); !approx(got[0], 2) {
			t.Errorf("bone %d to-parent x = %v, want 2", i, got[0])
		}
		if got := translation(pose.ToRoot[i]); !approx(got[0], want) {
			t.Errorf("bone %d to-root x = %v, want %v", i, got[0], want)
		}
		if pose.Final[i] != pose.ToRoot[i] {
			t.Errorf("bone %d final differs from to-root with identity offsets", i)
		}
	}
}

func TestRotationPropagatesToChildren(t *testing.T) {
	root := IdentityKeyframe(0)
	root.Rotation = common.QuatFromAxisAngle([3]float32{0, 1, 0}, math.Pi/2)
	child := keyAt(0, 1)
	clip := Clip{Name: "turn", Tracks: []BoneTrack{{Keyframes: []Keyframe{root}}, {Keyframes: []Keyframe{child}}}}

	offsets := identities(2)
	offsets[1] = common.Translation(-1, 0, 0)
	s, err := NewSkeleton([]int{-1, 0}, offsets, clip)
	if err != nil {
		t.Fatal(err)
	}
	pose := NewPose(2)
	if err := s.Evaluate("turn", 0, pose); err != nil {
		t.Fatal(err)
	}

	if got := translation(pose.ToRoot[1]); !approxVec3(got, [3]float32{0, 0, -1}) {
		t.Errorf("child to-root origin = %v, want (0, 0, -1)", got)
	}
	// the bind-pose joint at x=1 ends up at the child's posed origin
	if got := common.TransformPoint(pose.Final[1], [3]float32{1, 0, 0}); !approxVec3(got, [3]float32{0, 0, -1}) {
		t.Errorf("skinned joint = %v, want (0, 0, -1)", got)
	}
}

func TestNewSkeletonValidation(t *testing.T) {
	tests := []struct {
		name    string
		parents []int
		offsets int
		clips   []Clip
		want    error
	}{
		{"valid", []int{-1, 0, 0, 2}, 4, nil, nil},
		{"self parent", []int{-1, 1}, 2, nil, ErrMalformedHierarchy},
		{"forward parent", []int{-1, 2, 0}, 3, nil, ErrMalformedHierarchy},
		{"second root", []int{-1, -1}, 2, nil, ErrMalformedHierarchy},
		{"no bones", nil, 0, nil, ErrMalformedHierarchy},
		{"offset count", []int{-1, 0}, 1, nil, ErrMalformedHierarchy},
		{"track count", []int{-1, 0}, 2, []Clip{{Name: "short", Tracks: []BoneTrack{{}}}}, ErrTrackCount},
		{"too many bones", make([]int, frame.MaxBones+1), frame.MaxBones + 1, nil, ErrTooManyBones},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSkeleton(tt.parents, identities(tt.offsets), tt.clips...)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewSkeleton() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUnknownClip(t *testing.T) {
	s := chain(t)
	a := NewAnimator()
	if _, err := a.AddInstance(s, "run"); !errors.Is(err, ErrUnknownClip) {
		t.Errorf("AddInstance() error = %v, want ErrUnknownClip", err)
	}
	idx, err := a.AddInstance(s, "walk")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.PlayAnimation(idx, "jump"); !errors.Is(err, ErrUnknownClip) {
		t.Errorf("PlayAnimation() error = %v, want ErrUnknownClip", err)
	}
	if err := s.Evaluate("jump", 0, NewPose(3)); !errors.Is(err, ErrUnknownClip) {
		t.Errorf("Evaluate() error = %v, want ErrUnknownClip", err)
	}
}

func TestUpdateWrapsToZero(t *testing.T) {
	a := NewAnimator()
	idx, err := a.AddInstance(chain(t), "walk")
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		dt   float32
		want float32
	}{
		{1.5, 1.5},
		{0.5, 2},  // exactly at the end is kept
		{0.25, 0}, // past the end wraps to zero, not to the overshoot
		{1, 1},
	}
	for i, s := range steps {
		if err := a.Update(s.dt); err != nil {
			t.Fatal(err)
		}
		if got := a.AnimationTime(idx); !approx(got, s.want) {
			t.Errorf("step %d time = %v, want %v", i, got, s.want)
		}
	}
	if got := translation(a.Pose(idx).ToRoot[2]); !approx(got[0], 6) {
		t.Errorf("pose at t=1 leaf x = %v, want 6", got[0])
	}
}

func TestUpdateSpeed(t *testing.T) {
	a := NewAnimator()
	idx, _ := a.AddInstance(chain(t), "walk")
	a.SetAnimationSpeed(idx, 0.5)
	if err := a.Update(2); err != nil {
		t.Fatal(err)
	}
	if got := a.AnimationTime(idx); !approx(got, 1) {
		t.Errorf("time = %v, want 1", got)
	}
}

func TestUpdateParallel(t *testing.T) {
	a := NewAnimator(WithWorkers(3), WithParallelThreshold(1))
	s := chain(t)
	for i := 0; i < 8; i++ {
		idx, err := a.AddInstance(s, "walk")
		if err != nil {
			t.Fatal(err)
		}
		a.SetAnimationTime(idx, float32(i)*0.25)
	}
	if err := a.Update(0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		// leaf x is 3 * (2t) for t in [0, 2]
		want := 6 * float32(i) * 0.25
		if got := translation(a.Pose(i).ToRoot[2]); !approx(got[0], want) {
			t.Errorf("instance %d leaf x = %v, want %v", i, got[0], want)
		}
	}
}

func TestWrite(t *testing.T) {
	a := NewAnimator()
	s := chain(t)
	a.AddInstance(s, "walk")
	a.SetAnimationTime(0, 1)
	if err := a.Update(0); err != nil {
		t.Fatal(err)
	}

	region := frame.NewUploadRegion[frame.SkinnedConstants](1)
	if err := a.Write(region); err != nil {
		t.Fatal(err)
	}
	got := region.At(0)
	if !approx(got.BoneTransforms[2][3], 6) {
		t.Errorf("leaf transform not transposed: %v", got.BoneTransforms[2])
	}
	if got.BoneTransforms[3] != common.IdentityMatrix() {
		t.Error("unused bone slot not identity")
	}

	a.AddInstance(s, "walk")
	if err := a.Write(region); !errors.Is(err, frame.ErrRegionOverflow) {
		t.Errorf("Write() error = %v, want ErrRegionOverflow", err)
	}
}
