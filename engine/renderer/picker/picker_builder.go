package picker

import (
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
	"github.com/charmbracelet/log"
)

// PickerBuilderOption is a functional option for configuring a Picker via NewPicker.
type PickerBuilderOption func(*picker)

// WithLayers restricts picking to the given layers.
//
// Parameters:
//   - layers: the pickable layers; every other layer is ignored
//
// Returns:
//   - PickerBuilderOption: option function to apply
func WithLayers(layers ...scene.Layer) PickerBuilderOption {
	return func(p *picker) {
		p.layers = [scene.LayerCount]bool{}
		for _, l := range layers {
			if l >= 0 && l < scene.LayerCount {
				p.layers[l] = true
			}
		}
	}
}

// WithLogger sets the logger used to report picks.
func WithLogger(logger *log.Logger) PickerBuilderOption {
	return func(p *picker) {
		p.logger = logger
	}
}
