package device

import (
	"time"

	"github.com/charmbracelet/log"
)

// HeadlessBuilderOption is a functional option used to configure a Headless device during construction.
type HeadlessBuilderOption func(*headless)

// WithLatency delays the completion of every submission by d.
//
// Parameters:
//   - d: simulated execution time per submission
//
// Returns:
//   - HeadlessBuilderOption: a function that sets the latency
func WithLatency(d time.Duration) HeadlessBuilderOption {
	return func(h *headless) {
		h.latency = d
	}
}

// WithExecutor runs fn on the device timeline for every submission, in token order.
//
// Parameters:
//   - fn: the command consumer
//
// Returns:
//   - HeadlessBuilderOption: a function that sets the executor
func WithExecutor(fn Executor) HeadlessBuilderOption {
	return func(h *headless) {
		h.executor = fn
	}
}

// WithWorkers sets the worker pool size. Completion order is preserved for any size.
func WithWorkers(n int) HeadlessBuilderOption {
	return func(h *headless) {
		h.workers = n
	}
}

// WithLogger sets the device logger.
func WithLogger(l *log.Logger) HeadlessBuilderOption {
	return func(h *headless) {
		h.logger = l
	}
}
