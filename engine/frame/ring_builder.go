package frame

import (
	"time"

	"github.com/charmbracelet/log"
)

// RingBuilderOption is a functional option used to configure a Ring during construction.
type RingBuilderOption func(*ring)

// WithDepth sets the number of slots. The default is 3.
//
// Parameters:
//   - n: slot count
//
// Returns:
//   - RingBuilderOption: a function that sets the ring depth
func WithDepth(n int) RingBuilderOption {
	return func(r *ring) {
		r.depth = n
	}
}

// WithWaitTimeout bounds how long AdvanceSlot and Flush wait for one slot before reporting a
// device-fatal timeout. The default is 5 seconds.
//
// Parameters:
//   - d: the diagnostic timeout
//
// Returns:
//   - RingBuilderOption: a function that sets the wait timeout
func WithWaitTimeout(d time.Duration) RingBuilderOption {
	return func(r *ring) {
		if d > 0 {
			r.waitTimeout = d
		}
	}
}

// WithCapacities sizes each slot's instance, material and skinned regions.
//
// Parameters:
//   - instances: instance buffer entries per slot
//   - materials: material buffer entries per slot
//   - skinned: skinned constant blocks per slot
//
// Returns:
//   - RingBuilderOption: a function that sets the region capacities
func WithCapacities(instances, materials, skinned int) RingBuilderOption {
	return func(r *ring) {
		r.caps = capacities{instances: instances, materials: materials, skinned: skinned}
	}
}

// WithLogger sets the logger used for wait diagnostics.
func WithLogger(l *log.Logger) RingBuilderOption {
	return func(r *ring) {
		r.logger = l
	}
}
