// package animator evaluates skeletal animation on the CPU: clips are sampled per bone,
// composed down the hierarchy and packed into the frame's skinned constants.
package animator

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/charmbracelet/log"
)

// instanceState holds the playback state of one skinned instance.
type instanceState struct {
	skeleton *Skeleton
	clip     string
	end      float32
	time     float32
	speed    float32
	pose     *Pose
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	instances []instanceState
	scratch   frame.SkinnedConstants

	// pool evaluates instances in parallel once there are at least parallelMin of them.
	pool        worker.DynamicWorkerPool
	workers     int
	parallelMin int

	logger *log.Logger
}

// Animator advances and evaluates skinned instances. Each instance plays one clip of its
// skeleton; clip time wraps back to zero once it passes the clip's end.
type Animator interface {
	// AddInstance registers a skinned instance playing clip from time zero.
	//
	// Parameters:
	//   - skeleton: the instance's skeleton
	//   - clip: the clip to play
	//
	// Returns:
	//   - int: the instance index, used as scene.Instance.Skin
	//   - error: ErrUnknownClip if skeleton has no such clip
	AddInstance(skeleton *Skeleton, clip string) (int, error)

	// InstanceCount returns the number of registered instances.
	InstanceCount() int

	// PlayAnimation switches instance i to clip and rewinds it.
	//
	// Parameters:
	//   - i: the instance index
	//   - clip: the clip to play
	//
	// Returns:
	//   - error: ErrUnknownClip for an unknown clip or instance
	PlayAnimation(i int, clip string) error

	// SetAnimationTime sets the playback position of instance i.
	SetAnimationTime(i int, t float32)

	// SetAnimationSpeed sets the playback rate of instance i, 1 being real time.
	SetAnimationSpeed(i int, speed float32)

	// AnimationTime returns the playback position of instance i.
	AnimationTime(i int) float32

	// Pose returns the last evaluated pose of instance i, or nil if i is out of range.
	Pose(i int) *Pose

	// Update advances every instance by dt scaled by its speed, wrapping to zero past the
	// clip end, and evaluates the poses.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - error: the first evaluation error
	Update(dt float32) error

	// Write packs every instance's final matrices into region at the instance's index.
	//
	// Parameters:
	//   - region: the current slot's skinned region
	//
	// Returns:
	//   - error: frame.ErrRegionOverflow if there are more instances than region holds
	Write(region *frame.UploadRegion[frame.SkinnedConstants]) error
}

var _ Animator = &animator{}

// NewAnimator creates an Animator configured with the provided options.
//
// Parameters:
//   - options: variadic list of AnimatorBuilderOption functions
//
// Returns:
//   - Animator: the configured animator
func NewAnimator(options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:          &sync.Mutex{},
		workers:     2,
		parallelMin: 4,
	}
	for _, opt := range options {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.With("animator")
	}
	a.pool = worker.NewDynamicWorkerPool(max(a.workers, 1), 64, time.Second)
	return a
}

func (a *animator) AddInstance(skeleton *Skeleton, clip string) (int, error) {
	end, err := skeleton.ClipEnd(clip)
	if err != nil {
		return -1, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.instances = append(a.instances, instanceState{
		skeleton: skeleton,
		clip:     clip,
		end:      end,
		speed:    1,
		pose:     NewPose(skeleton.BoneCount()),
	})
	idx := len(a.instances) - 1
	// evaluate once so Pose is valid before the first Update
	if err := skeleton.Evaluate(clip, 0, a.instances[idx].pose); err != nil {
		return -1, err
	}
	return idx, nil
}

func (a *animator) InstanceCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.instances)
}

func (a *animator) PlayAnimation(i int, clip string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.instances) {
		return fmt.Errorf("%w: instance %d", ErrUnknownClip, i)
	}
	st := &a.instances[i]
	end, err := st.skeleton.ClipEnd(clip)
	if err != nil {
		return err
	}
	st.clip = clip
	st.end = end
	st.time = 0
	return nil
}

func (a *animator) SetAnimationTime(i int, t float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i >= 0 && i < len(a.instances) {
		a.instances[i].time = t
	}
}

func (a *animator) SetAnimationSpeed(i int, speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i >= 0 && i < len(a.instances) {
		a.instances[i].speed = speed
	}
}

func (a *animator) AnimationTime(i int) float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.instances) {
		return 0
	}
	return a.instances[i].time
}

func (a *animator) Pose(i int) *Pose {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.instances) {
		return nil
	}
	return a.instances[i].pose
}

func (a *animator) Update(dt float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.instances {
		st := &a.instances[i]
		st.time += dt * st.speed
		if st.time > st.end {
			st.time = 0
		}
	}

	if len(a.instances) < a.parallelMin {
		for i := range a.instances {
			st := &a.instances[i]
			if err := st.skeleton.Evaluate(st.clip, st.time, st.pose); err != nil {
				return err
			}
		}
		return nil
	}

	// Instances write disjoint poses, so the only synchronization is the barrier.
	errs := make([]error, len(a.instances))
	var wg sync.WaitGroup
	for i := range a.instances {
		wg.Add(1)
		st := &a.instances[i]
		idx := i
		a.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				errs[idx] = st.skeleton.Evaluate(st.clip, st.time, st.pose)
				return nil, errs[idx]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *animator) Write(region *frame.UploadRegion[frame.SkinnedConstants]) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.instances {
		a.instances[i].pose.Constants(&a.scratch)
		if err := region.CopyData(i, &a.scratch); err != nil {
			a.logger.Error("skinned region full", "instances", len(a.instances), "capacity", region.Cap())
			return err
		}
	}
	return nil
}
