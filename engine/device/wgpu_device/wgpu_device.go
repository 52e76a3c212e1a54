// package wgpu_device implements frame.Device on a WebGPU queue.
package wgpu_device

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// Device is a frame.Device that encodes command lists into WebGPU command buffers. Completion
// is reported by the queue's submitted-work-done callbacks, which fire in submission order.
type Device interface {
	frame.Device

	// Present presents the surface's current texture.
	//
	// Returns:
	//   - error: a device-fatal error once the device is lost, or if no surface was configured
	Present() error

	// Queue returns the underlying queue.
	Queue() *wgpu.Queue
}

// ErrNoSurface is returned by Present when the device was built without a surface.
var ErrNoSurface = errors.New("wgpu_device: no surface configured")

// device is the implementation of the Device interface.
type device struct {
	mu sync.Mutex

	device  *wgpu.Device
	queue   *wgpu.Queue
	surface *wgpu.Surface
	binder  Binder

	next      frame.Token
	completed frame.Token
	lost      error

	pollInterval time.Duration
	logger       *log.Logger
}

var _ Device = &device{}

// NewDevice wraps dev and its queue.
//
// Parameters:
//   - dev: the WebGPU device
//   - queue: the device's queue
//   - options: a variadic list of DeviceBuilderOption functions
//
// Returns:
//   - Device: the frame device
func NewDevice(dev *wgpu.Device, queue *wgpu.Queue, options ...DeviceBuilderOption) Device {
	d := &device{
		device:       dev,
		queue:        queue,
		pollInterval: time.Millisecond,
	}
	for _, opt := range options {
		opt(d)
	}
	if d.logger == nil {
		d.logger = logging.With("wgpu")
	}
	return d
}

func (d *device) Submit(cmd *frame.CommandList) (frame.Token, error) {
	d.mu.Lock()
	lost := d.lost
	d.mu.Unlock()
	if lost != nil {
		return 0, frame.Fatal("submit", lost)
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return 0, frame.Fatal("create encoder", err)
	}
	defer encoder.Release()

	if u, ok := d.binder.(Uploader); ok && cmd != nil && cmd.Slot() != nil {
		if err := u.Upload(d.queue, cmd.Slot()); err != nil {
			return 0, err
		}
	}
	if cmd != nil {
		if err := encode(encoder, cmd.Commands(), d.binder); err != nil {
			return 0, err
		}
	}

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return 0, frame.Fatal("finish", err)
	}
	defer commandBuffer.Release()

	d.mu.Lock()
	d.next++
	token := d.next
	d.mu.Unlock()

	d.queue.Submit(commandBuffer)
	d.queue.OnSubmittedWorkDone(func(status wgpu.QueueWorkDoneStatus) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if status != wgpu.QueueWorkDoneStatusSuccess {
			if d.lost == nil {
				d.lost = fmt.Errorf("%w: work done status %v for token %d", frame.ErrDeviceLost, status, token)
				d.logger.Error("queue reported failure", "token", token, "status", status)
			}
			return
		}
		if token > d.completed {
			d.completed = token
		}
	})
	return token, nil
}

func (d *device) HasCompleted(t frame.Token) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return t <= d.completed
}

func (d *device) WaitFor(ctx context.Context, t frame.Token) error {
	for {
		d.mu.Lock()
		completed, lost := d.completed, d.lost
		d.mu.Unlock()

		if t <= completed {
			return nil
		}
		if lost != nil {
			return frame.Fatal("wait", lost)
		}

		// callbacks only fire while the device is polled
		d.device.Poll(false, nil)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.pollInterval):
		}
	}
}

func (d *device) Present() error {
	d.mu.Lock()
	lost := d.lost
	d.mu.Unlock()
	if lost != nil {
		return frame.Fatal("present", lost)
	}
	if d.surface == nil {
		return ErrNoSurface
	}
	d.surface.Present()
	return nil
}

func (d *device) Queue() *wgpu.Queue {
	return d.queue
}
