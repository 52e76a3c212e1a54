package animator

import "github.com/charmbracelet/log"

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithWorkers is an option builder that sets how many pool workers evaluate poses in parallel.
//
// Parameters:
//   - workers: the worker count (minimum 1)
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the worker count to an animator
func WithWorkers(workers int) AnimatorBuilderOption {
	return func(a *animator) {
		a.workers = max(workers, 1)
	}
}

// WithParallelThreshold is an option builder that sets the instance count from which Update
// fans evaluation out to the worker pool. Below it poses are evaluated inline.
//
// Parameters:
//   - n: the minimum instance count for parallel evaluation
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the threshold to an animator
func WithParallelThreshold(n int) AnimatorBuilderOption {
	return func(a *animator) {
		a.parallelMin = max(n, 1)
	}
}

// WithLogger is an option builder that sets the animator's logger.
func WithLogger(logger *log.Logger) AnimatorBuilderOption {
	return func(a *animator) {
		a.logger = logger
	}
}
