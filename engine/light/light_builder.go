package light

import "github.com/Carmen-Shannon/oxy-frame/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x, y, z: the position components
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithDirection is an option builder that sets the direction of the light.
// The direction is normalized before storing.
//
// Parameters:
//   - x, y, z: the direction components
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = common.Normalize3([3]float32{x, y, z})
	}
}

// WithColor is an option builder that sets the RGB color of the light.
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar multiplier applied to the color.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithStrength is an option builder that sets a grey strength: white color scaled by s.
func WithStrength(s float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{1, 1, 1}
		l.intensity = s
	}
}

// WithFalloff is an option builder that sets the attenuation distances of point and spot lights.
//
// Parameters:
//   - start: distance at which attenuation begins
//   - end: distance at which the light contributes nothing
//
// Returns:
//   - LightBuilderOption: a function that applies the falloff option to a lightImpl
func WithFalloff(start, end float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.falloffStart = start
		l.falloffEnd = end
	}
}

// WithSpotPower is an option builder that sets the cone exponent of a spot light.
func WithSpotPower(power float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.spotPower = power
	}
}

// WithEnabled is an option builder that sets whether the light is active.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows is an option builder that marks the light as the shadow caster.
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}
