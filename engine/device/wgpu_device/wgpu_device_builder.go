package wgpu_device

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// DeviceBuilderOption is a functional option used to configure a Device during construction.
type DeviceBuilderOption func(*device)

// WithSurface sets the surface Present presents.
//
// Parameters:
//   - s: the configured window surface
//
// Returns:
//   - DeviceBuilderOption: a function that sets the surface
func WithSurface(s *wgpu.Surface) DeviceBuilderOption {
	return func(d *device) {
		d.surface = s
	}
}

// WithBinder sets the binder that turns constant and resource binds into bind groups.
//
// Parameters:
//   - b: the binder
//
// Returns:
//   - DeviceBuilderOption: a function that sets the binder
func WithBinder(b Binder) DeviceBuilderOption {
	return func(d *device) {
		d.binder = b
	}
}

// WithPollInterval sets the sleep between device polls while waiting. The default is 1ms.
func WithPollInterval(p time.Duration) DeviceBuilderOption {
	return func(d *device) {
		if p > 0 {
			d.pollInterval = p
		}
	}
}

// WithLogger sets the device logger.
func WithLogger(l *log.Logger) DeviceBuilderOption {
	return func(d *device) {
		d.logger = l
	}
}
