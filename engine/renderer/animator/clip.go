package animator

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-frame/common"
)

// Keyframe is one sampled bone transform at Time seconds.
type Keyframe struct {
	Time        float32
	Translation [3]float32
	Scale       [3]float32
	// Rotation is a unit quaternion (x, y, z, w).
	Rotation [4]float32
}

// IdentityKeyframe returns a keyframe at t with no translation, unit scale and no rotation.
func IdentityKeyframe(t float32) Keyframe {
	return Keyframe{
		Time:     t,
		Scale:    [3]float32{1, 1, 1},
		Rotation: common.QuatIdentity(),
	}
}

// BoneTrack is the keyframe sequence of one bone, sorted by ascending Time.
type BoneTrack struct {
	Keyframes []Keyframe
}

// Start returns the time of the first key, or 0 for an empty track.
func (b BoneTrack) Start() float32 {
	if len(b.Keyframes) == 0 {
		return 0
	}
	return b.Keyframes[0].Time
}

// End returns the time of the last key, or 0 for an empty track.
func (b BoneTrack) End() float32 {
	if len(b.Keyframes) == 0 {
		return 0
	}
	return b.Keyframes[len(b.Keyframes)-1].Time
}

// Sample returns the interpolated keyframe at t. Times before the first key clamp to the
// first key and times after the last key clamp to the last one. Between keys translation
// and scale are linearly interpolated and rotation is slerped.
//
// Parameters:
//   - t: the sample time in seconds
//
// Returns:
//   - Keyframe: the interpolated key, with Time set to t
func (b BoneTrack) Sample(t float32) Keyframe {
	keys := b.Keyframes
	switch {
	case len(keys) == 0:
		return IdentityKeyframe(t)
	case t <= keys[0].Time:
		k := keys[0]
		k.Time = t
		return k
	case t >= keys[len(keys)-1].Time:
		k := keys[len(keys)-1]
		k.Time = t
		return k
	}

	// first key strictly after t; keys[i-1].Time <= t < keys[i].Time
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t })
	k0, k1 := keys[i-1], keys[i]
	u := (t - k0.Time) / (k1.Time - k0.Time)

	return Keyframe{
		Time:        t,
		Translation: common.Lerp3(k0.Translation, k1.Translation, u),
		Scale:       common.Lerp3(k0.Scale, k1.Scale, u),
		Rotation:    common.QuatSlerp(k0.Rotation, k1.Rotation, u),
	}
}

// Evaluate returns the bone's to-parent transform at t.
func (b BoneTrack) Evaluate(t float32) [16]float32 {
	k := b.Sample(t)
	return common.AffineTransform(k.Scale, k.Rotation, k.Translation)
}

// Clip is a named animation with one track per bone.
type Clip struct {
	Name   string
	Tracks []BoneTrack
}

// Start returns the earliest first-key time over all tracks.
func (c Clip) Start() float32 {
	if len(c.Tracks) == 0 {
		return 0
	}
	start := c.Tracks[0].Start()
	for _, tr := range c.Tracks[1:] {
		start = min(start, tr.Start())
	}
	return start
}

// End returns the latest last-key time over all tracks.
func (c Clip) End() float32 {
	var end float32
	for _, tr := range c.Tracks {
		end = max(end, tr.End())
	}
	return end
}
