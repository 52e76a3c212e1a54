package profiler

import (
	"time"

	"github.com/charmbracelet/log"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler via NewProfiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often statistics are logged. Non-positive values keep the default.
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger statistics are written to.
func WithLogger(logger *log.Logger) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.logger = logger
	}
}
