package light

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position and
	// attenuates linearly between its falloff start and end.
	LightTypePoint

	// LightTypeSpot represents a point light restricted to a cone around its direction.
	LightTypeSpot
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	position     [3]float32
	direction    [3]float32
	color        [3]float32
	intensity    float32
	falloffStart float32
	falloffEnd   float32
	spotPower    float32
	enabled      bool
	castsShadows bool
}

// Light is one light source of the scene. Lights are packed into the pass constants every
// frame; the strength written is Color scaled by Intensity.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	Position() [3]float32

	// Direction returns the normalized direction the light travels.
	// Meaningless for point lights.
	Direction() [3]float32

	// Color returns the RGB color of the light.
	Color() [3]float32

	// Intensity returns the scalar multiplier applied to Color.
	Intensity() float32

	// Falloff returns the distances between which point and spot lights fade to zero.
	//
	// Returns:
	//   - start: distance at which attenuation begins
	//   - end: distance at which the light contributes nothing
	Falloff() (start, end float32)

	// SpotPower returns the cone exponent of a spot light.
	SpotPower() float32

	// Enabled returns whether this light is packed into the pass constants.
	Enabled() bool

	// CastsShadows returns whether this light renders the shadow map.
	CastsShadows() bool

	// SetPosition sets the world-space position of the light.
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar multiplier applied to Color.
	SetIntensity(intensity float32)

	// SetEnabled enables or disables the light.
	SetEnabled(enabled bool)

	// SetCastsShadows sets whether the light renders the shadow map.
	SetCastsShadows(castsShadows bool)

	// GPU packs the light for the pass constants.
	//
	// Returns:
	//   - frame.GPULight: the packed light
	GPU() frame.GPULight
}

var _ Light = &lightImpl{}

// NewLight creates a new white Light of the specified type pointing down, with any provided
// options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:    lightType,
		direction:    [3]float32{0, -1, 0},
		color:        [3]float32{1, 1, 1},
		intensity:    1,
		falloffStart: 1,
		falloffEnd:   10,
		spotPower:    64,
		enabled:      true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Falloff() (start, end float32) {
	return l.falloffStart, l.falloffEnd
}

func (l *lightImpl) SpotPower() float32 {
	return l.spotPower
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = common.Normalize3([3]float32{x, y, z})
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}

func (l *lightImpl) GPU() frame.GPULight {
	return frame.GPULight{
		Strength:     common.Scale3(l.color, l.intensity),
		FalloffStart: l.falloffStart,
		Direction:    l.direction,
		FalloffEnd:   l.falloffEnd,
		Position:     l.position,
		SpotPower:    l.spotPower,
	}
}
