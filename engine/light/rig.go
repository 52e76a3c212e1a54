package light

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

// DefaultSpin is the rotation rate of the default rig about +Y in radians per second.
const DefaultSpin float32 = 0.1

// Rig owns the scene's lights and turns its directional lights about +Y over time.
type Rig struct {
	lights []Light
	base   [][3]float32
	angle  float32
	spin   float32
}

// NewRig creates a rig rotating at spin radians per second. The directions the lights have
// now are the directions at angle zero.
//
// Parameters:
//   - spin: rotation rate in radians per second
//   - lights: the lights of the scene
//
// Returns:
//   - *Rig: the rig
func NewRig(spin float32, lights ...Light) *Rig {
	r := &Rig{spin: spin}
	for _, l := range lights {
		r.Add(l)
	}
	return r
}

// NewDefaultRig creates the three-light key/fill/back setup. Only the key light casts the shadow.
func NewDefaultRig(spin float32) *Rig {
	return NewRig(spin,
		NewLight(LightTypeDirectional, WithDirection(0.57735, -0.57735, 0.57735), WithStrength(0.6), WithCastsShadows(true)),
		NewLight(LightTypeDirectional, WithDirection(-0.57735, -0.57735, 0.57735), WithStrength(0.3)),
		NewLight(LightTypeDirectional, WithDirection(0, -0.707, -0.707), WithStrength(0.15)),
	)
}

// Add appends a light, recording its current direction as its unrotated direction.
func (r *Rig) Add(l Light) {
	r.lights = append(r.lights, l)
	r.base = append(r.base, l.Direction())
}

// Lights returns the rig's lights.
func (r *Rig) Lights() []Light {
	return r.lights
}

// Angle returns the accumulated rotation in radians.
func (r *Rig) Angle() float32 {
	return r.angle
}

// SetSpin changes the rotation rate.
func (r *Rig) SetSpin(spin float32) {
	r.spin = spin
}

// Rotate advances the rotation by spin*dt and re-aims every directional light.
//
// Parameters:
//   - dt: elapsed time in seconds
func (r *Rig) Rotate(dt float32) {
	r.angle += r.spin * dt
	rot := common.RotationY(r.angle)
	for i, l := range r.lights {
		if l.Type() != LightTypeDirectional {
			continue
		}
		d := common.TransformDirection(rot, r.base[i])
		l.SetDirection(d[0], d[1], d[2])
	}
}

// ShadowCaster returns the first enabled directional light that casts shadows.
func (r *Rig) ShadowCaster() (Light, bool) {
	for _, l := range r.lights {
		if l.Enabled() && l.CastsShadows() && l.Type() == LightTypeDirectional {
			return l, true
		}
	}
	return nil, false
}

// Fill packs enabled lights into pc.Lights: directional lights first, then point lights, then
// spot lights, each group in rig order. Unused entries are zeroed.
//
// Parameters:
//   - pc: the pass constants to fill
//
// Returns:
//   - int: the number of lights written, at most frame.MaxLights
func (r *Rig) Fill(pc *frame.PassConstants) int {
	n := 0
	for _, t := range []LightType{LightTypeDirectional, LightTypePoint, LightTypeSpot} {
		for _, l := range r.lights {
			if n == frame.MaxLights {
				return n
			}
			if l.Enabled() && l.Type() == t {
				pc.Lights[n] = l.GPU()
				n++
			}
		}
	}
	for i := n; i < frame.MaxLights; i++ {
		pc.Lights[i] = frame.GPULight{}
	}
	return n
}
