package culling

import "github.com/charmbracelet/log"

// CullerBuilderOption is a functional option for configuring a Culler via NewCuller.
type CullerBuilderOption func(*culler)

// WithDisabled disables frustum testing. Hidden and geometry-less instances are still skipped.
//
// Parameters:
//   - disabled: true to mark every drawable instance visible
//
// Returns:
//   - CullerBuilderOption: option function to apply
func WithDisabled(disabled bool) CullerBuilderOption {
	return func(c *culler) {
		c.disabled = disabled
	}
}

// WithLogger sets the logger used for cull statistics.
func WithLogger(logger *log.Logger) CullerBuilderOption {
	return func(c *culler) {
		c.logger = logger
	}
}
