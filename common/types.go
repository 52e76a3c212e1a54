// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Size is a width/height pair in pixels.
type Size struct {
	Width  int
	Height int
}

// Aspect returns Width / Height, or 1 for a degenerate size.
func (s Size) Aspect() float32 {
	if s.Width <= 0 || s.Height <= 0 {
		return 1
	}
	return float32(s.Width) / float32(s.Height)
}

// Half returns the size at half resolution, never smaller than 1x1.
func (s Size) Half() Size {
	return Size{Width: max(s.Width/2, 1), Height: max(s.Height/2, 1)}
}

// Viewport describes the rasterizer viewport for a pass.
type Viewport struct {
	// X and Y are the top-left corner in pixels.
	X, Y float32
	// Width and Height are the viewport dimensions in pixels.
	Width, Height float32
	// MinDepth and MaxDepth bound the depth range, normally 0 and 1.
	MinDepth, MaxDepth float32
}

// FullViewport returns a viewport covering s with the default [0, 1] depth range.
func FullViewport(s Size) Viewport {
	return Viewport{Width: float32(s.Width), Height: float32(s.Height), MaxDepth: 1}
}
