// package culling builds the per-frame visible set: it tests every scene instance against the
// camera frustum and packs the survivors densely into the frame's instance region.
package culling

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
	"github.com/charmbracelet/log"
)

// ErrInstanceOverflow is returned when more instances are visible than the instance region holds.
var ErrInstanceOverflow = errors.New("culling: visible instances exceed instance region capacity")

// Result counts the outcome of one Cull call.
type Result struct {
	// Visible is the number of instances inside or intersecting the frustum.
	Visible int
	// Culled is the number of instances entirely outside the frustum.
	Culled int
	// Skipped is the number of hidden instances and instances without resolvable geometry.
	Skipped int
}

// Total returns the number of instances examined.
func (r Result) Total() int {
	return r.Visible + r.Culled + r.Skipped
}

// Culler decides per-frame visibility.
type Culler interface {
	// Cull classifies instances against the camera frustum. Every instance's Visible flag is
	// rewritten; visible instances receive consecutive Slot values from zero in traversal order
	// and their constants are written to region at that slot.
	//
	// Parameters:
	//   - instances: the scene instances, updated in place
	//   - meshes: resolves each instance's geometry to its local bounds
	//   - local: the camera frustum in view space
	//   - invView: the inverse view matrix, taking view space to world space
	//   - region: the current slot's instance region
	//
	// Returns:
	//   - Result: visible, culled and skipped counts
	//   - error: ErrInstanceOverflow if region is too small; counts cover the instances seen so far
	//     and no instance after the failing one is left Visible
	Cull(instances []scene.Instance, meshes model.Registry, local common.Frustum, invView [16]float32, region *frame.UploadRegion[frame.InstanceConstants]) (Result, error)

	// Disabled reports whether frustum testing is bypassed.
	Disabled() bool

	// SetDisabled bypasses frustum testing so every instance with geometry is visible.
	SetDisabled(disabled bool)
}

// culler is the implementation of the Culler interface.
type culler struct {
	disabled bool
	logger   *log.Logger
}

var _ Culler = &culler{}

// NewCuller creates a Culler configured with the provided options.
//
// Parameters:
//   - options: variadic list of CullerBuilderOption functions
//
// Returns:
//   - Culler: the configured culler
func NewCuller(options ...CullerBuilderOption) Culler {
	c := &culler{}
	for _, opt := range options {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.With("cull")
	}
	return c
}

func (c *culler) Disabled() bool {
	return c.disabled
}

func (c *culler) SetDisabled(disabled bool) {
	c.disabled = disabled
}

func (c *culler) Cull(instances []scene.Instance, meshes model.Registry, local common.Frustum, invView [16]float32, region *frame.UploadRegion[frame.InstanceConstants]) (Result, error) {
	var res Result
	world := local.Transform(invView)

	for i := range instances {
		inst := &instances[i]
		inst.Visible = false

		if inst.Hidden {
			res.Skipped++
			continue
		}
		_, sub, ok := model.Resolve(meshes, inst.Geometry)
		if !ok {
			res.Skipped++
			continue
		}

		if !c.disabled && world.ContainsAABB(sub.Bounds.Transform(inst.World)) == common.Outside {
			res.Culled++
			continue
		}

		if res.Visible >= region.Cap() {
			c.logger.Error("instance region full", "capacity", region.Cap(), "instance", inst.Name)
			clearVisible(instances[i+1:])
			return res, fmt.Errorf("%w: capacity %d", ErrInstanceOverflow, region.Cap())
		}

		consts := inst.Constants()
		if err := region.CopyData(res.Visible, &consts); err != nil {
			clearVisible(instances[i+1:])
			return res, err
		}
		inst.Slot = uint32(res.Visible)
		inst.Visible = true
		res.Visible++
	}

	c.logger.Debug("cull", "visible", res.Visible, "culled", res.Culled, "skipped", res.Skipped)
	return res, nil
}

// clearVisible marks instances not visible, so a failed Cull never leaves a previous frame's
// visible set behind.
func clearVisible(instances []scene.Instance) {
	for i := range instances {
		instances[i].Visible = false
	}
}
