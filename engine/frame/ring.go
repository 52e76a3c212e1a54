package frame

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/charmbracelet/log"
)

// Ring rotates a fixed number of frame slots between the CPU and the device.
type Ring interface {
	// AdvanceSlot moves to slot (current+1) mod Depth, blocking until the device has finished the
	// work last submitted from it. The returned slot's command list is reset.
	//
	// Parameters:
	//   - ctx: bounds the wait together with the ring's diagnostic timeout
	//
	// Returns:
	//   - *Slot: the slot now owned by the CPU
	//   - error: a device-fatal error if the wait fails or times out, or ctx's error
	AdvanceSlot(ctx context.Context) (*Slot, error)

	// Current returns the slot returned by the last AdvanceSlot.
	Current() *Slot

	// Slot returns slot i.
	Slot(i int) *Slot

	// Depth returns the number of slots.
	Depth() int

	// Stamp records t as the completion token of the current slot's submission. Tokens must
	// strictly increase across the whole ring.
	//
	// Parameters:
	//   - t: the token returned by Device.Submit
	//
	// Returns:
	//   - error: ErrTokenRegression if t is not newer than the last stamped token
	Stamp(t Token) error

	// Flush blocks until every slot's last submission has completed. Call it before resizing
	// targets or shutting down.
	Flush(ctx context.Context) error

	// Waits returns how many times AdvanceSlot had to block.
	Waits() uint64
}

type capacities struct {
	instances int
	materials int
	skinned   int
}

// ring is the implementation of the Ring interface.
type ring struct {
	device      Device
	slots       []*Slot
	current     int
	last        Token
	waitTimeout time.Duration
	waits       atomic.Uint64
	caps        capacities
	depth       int
	logger      *log.Logger
}

var _ Ring = &ring{}

// NewRing creates a ring over device.
//
// Parameters:
//   - device: the submission interface whose tokens gate slot reuse
//   - options: a variadic list of RingBuilderOption functions
//
// Returns:
//   - Ring: the ring, positioned so the first AdvanceSlot returns slot 0
//   - error: if device is nil or the depth is not positive
func NewRing(device Device, options ...RingBuilderOption) (Ring, error) {
	if device == nil {
		return nil, errors.New("frame: nil device")
	}
	r := &ring{
		device:      device,
		depth:       3,
		waitTimeout: 5 * time.Second,
		caps:        capacities{instances: 1024, materials: 64, skinned: 16},
	}
	for _, opt := range options {
		opt(r)
	}
	if r.depth < 1 {
		return nil, fmt.Errorf("frame: ring depth %d", r.depth)
	}
	if r.logger == nil {
		r.logger = logging.With("ring")
	}

	r.slots = make([]*Slot, r.depth)
	for i := range r.slots {
		r.slots[i] = newSlot(i, r.caps)
	}
	r.current = r.depth - 1
	return r, nil
}

func (r *ring) AdvanceSlot(ctx context.Context) (*Slot, error) {
	next := (r.current + 1) % len(r.slots)
	s := r.slots[next]

	if s.token != 0 && !r.device.HasCompleted(s.token) {
		r.waits.Add(1)
		r.logger.Debug("slot in flight, waiting", "slot", next, "token", s.token)
		if err := r.wait(ctx, s); err != nil {
			return nil, err
		}
	}

	r.current = next
	s.Commands.Reset()
	return s, nil
}

func (r *ring) wait(ctx context.Context, s *Slot) error {
	wctx, cancel := context.WithTimeout(ctx, r.waitTimeout)
	defer cancel()

	err := r.device.WaitFor(wctx, s.token)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		r.logger.Error("slot wait timed out", "slot", s.index, "token", s.token, "timeout", r.waitTimeout)
		return Fatal("wait", fmt.Errorf("%w: slot %d token %d after %v", ErrWaitTimeout, s.index, s.token, r.waitTimeout))
	default:
		r.logger.Error("slot wait failed", "slot", s.index, "token", s.token, "err", err)
		return Fatal("wait", err)
	}
}

func (r *ring) Current() *Slot {
	return r.slots[r.current]
}

func (r *ring) Slot(i int) *Slot {
	return r.slots[i]
}

func (r *ring) Depth() int {
	return len(r.slots)
}

func (r *ring) Stamp(t Token) error {
	if t <= r.last {
		return fmt.Errorf("%w: %d after %d", ErrTokenRegression, t, r.last)
	}
	r.last = t
	r.slots[r.current].token = t
	return nil
}

func (r *ring) Flush(ctx context.Context) error {
	for _, s := range r.slots {
		if s.token == 0 || r.device.HasCompleted(s.token) {
			continue
		}
		if err := r.wait(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *ring) Waits() uint64 {
	return r.waits.Load()
}
