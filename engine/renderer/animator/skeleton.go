package animator

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

var (
	// ErrMalformedHierarchy is returned when a bone's parent does not precede it.
	ErrMalformedHierarchy = errors.New("animator: malformed bone hierarchy")
	// ErrUnknownClip is returned when a clip name is not part of the skeleton.
	ErrUnknownClip = errors.New("animator: unknown clip")
	// ErrTrackCount is returned when a clip's track count differs from the bone count.
	ErrTrackCount = errors.New("animator: clip track count does not match bone count")
	// ErrTooManyBones is returned for skeletons larger than frame.MaxBones.
	ErrTooManyBones = errors.New("animator: too many bones")
)

// Skeleton is an immutable bone hierarchy with its bind offsets and clips. Bone 0 is the root
// and every other bone's parent has a lower index, so a single forward pass composes it.
type Skeleton struct {
	parents []int
	offsets [][16]float32
	clips   map[string]Clip
}

// NewSkeleton validates and builds a skeleton.
//
// Parameters:
//   - parents: parent index per bone; parents[0] is ignored and 0 <= parents[i] < i otherwise
//   - offsets: per-bone bind offset, taking mesh space to bone space (column-major)
//   - clips: the skeleton's animations, one track per bone
//
// Returns:
//   - *Skeleton: the skeleton
//   - error: ErrMalformedHierarchy, ErrTrackCount or ErrTooManyBones
func NewSkeleton(parents []int, offsets [][16]float32, clips ...Clip) (*Skeleton, error) {
	if len(parents) == 0 {
		return nil, fmt.Errorf("%w: no bones", ErrMalformedHierarchy)
	}
	if len(parents) > frame.MaxBones {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyBones, len(parents), frame.MaxBones)
	}
	if len(offsets) != len(parents) {
		return nil, fmt.Errorf("%w: %d offsets for %d bones", ErrMalformedHierarchy, len(offsets), len(parents))
	}
	for i := 1; i < len(parents); i++ {
		if parents[i] < 0 || parents[i] >= i {
			return nil, fmt.Errorf("%w: bone %d has parent %d", ErrMalformedHierarchy, i, parents[i])
		}
	}

	s := &Skeleton{
		parents: append([]int(nil), parents...),
		offsets: append([][16]float32(nil), offsets...),
		clips:   make(map[string]Clip, len(clips)),
	}
	for _, c := range clips {
		if len(c.Tracks) != len(parents) {
			return nil, fmt.Errorf("%w: clip %q has %d tracks for %d bones", ErrTrackCount, c.Name, len(c.Tracks), len(parents))
		}
		s.clips[c.Name] = c
	}
	return s, nil
}

// BoneCount returns the number of bones.
func (s *Skeleton) BoneCount() int {
	return len(s.parents)
}

// Parent returns the parent index of bone i; the root returns -1.
func (s *Skeleton) Parent(i int) int {
	if i == 0 {
		return -1
	}
	return s.parents[i]
}

// Clip looks up a clip by name.
func (s *Skeleton) Clip(name string) (Clip, bool) {
	c, ok := s.clips[name]
	return c, ok
}

// ClipEnd returns the end time of the named clip.
//
// Parameters:
//   - name: the clip name
//
// Returns:
//   - float32: the clip's last key time over all tracks
//   - error: ErrUnknownClip if the clip does not exist
func (s *Skeleton) ClipEnd(name string) (float32, error) {
	c, ok := s.clips[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}
	return c.End(), nil
}

// Evaluate fills pose with the named clip sampled at t.
//
// Parameters:
//   - name: the clip name
//   - t: the clip time in seconds
//   - pose: the destination, sized by NewPose(s.BoneCount())
//
// Returns:
//   - error: ErrUnknownClip if the clip does not exist
func (s *Skeleton) Evaluate(name string, t float32, pose *Pose) error {
	c, ok := s.clips[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClip, name)
	}
	pose.resize(len(s.parents))

	for i, tr := range c.Tracks {
		pose.ToParent[i] = tr.Evaluate(t)
	}

	pose.ToRoot[0] = pose.ToParent[0]
	for i := 1; i < len(s.parents); i++ {
		pose.ToRoot[i] = common.Mul4x(pose.ToRoot[s.parents[i]], pose.ToParent[i])
	}

	for i := range s.parents {
		pose.Final[i] = common.Mul4x(pose.ToRoot[i], s.offsets[i])
	}
	return nil
}

// Pose is the evaluated state of a skeleton. All matrices are column-major.
type Pose struct {
	// ToParent is each bone's transform relative to its parent.
	ToParent [][16]float32
	// ToRoot is each bone's transform relative to the root's parent space.
	ToRoot [][16]float32
	// Final is each bone's skinning matrix, ToRoot composed with the bind offset.
	Final [][16]float32
}

// NewPose allocates a pose for bones bones.
func NewPose(bones int) *Pose {
	p := &Pose{}
	p.resize(bones)
	return p
}

func (p *Pose) resize(bones int) {
	if len(p.Final) == bones {
		return
	}
	p.ToParent = make([][16]float32, bones)
	p.ToRoot = make([][16]float32, bones)
	p.Final = make([][16]float32, bones)
}

// Constants packs the final matrices for upload, transposed. Unused entries stay identity.
func (p *Pose) Constants(out *frame.SkinnedConstants) {
	for i := range out.BoneTransforms {
		if i < len(p.Final) {
			out.BoneTransforms[i] = common.Transposed(p.Final[i])
		} else {
			out.BoneTransforms[i] = common.IdentityMatrix()
		}
	}
}
