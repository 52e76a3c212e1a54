package light

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
)

// Shadow is the orthographic light camera of a directional shadow map. All matrices are
// column-major.
type Shadow struct {
	// View looks from LightPos at the bounding sphere's center.
	View [16]float32
	// Proj is the orthographic box enclosing the bounding sphere in light space.
	Proj [16]float32
	// Transform takes world space to shadow map texture space: TextureSpace * Proj * View.
	Transform [16]float32
	// LightPos is the eye of the light camera.
	LightPos [3]float32
	// Near and Far are the box's depth bounds along the light direction.
	Near, Far float32
}

// ComputeShadow fits a shadow camera for a directional light around bound. The eye sits two
// radii from the center against the light direction; the box encloses the sphere exactly.
//
// Parameters:
//   - dir: normalized direction the light travels
//   - bound: sphere enclosing every shadow caster and receiver
//
// Returns:
//   - Shadow: the light camera
func ComputeShadow(dir [3]float32, bound common.Sphere) Shadow {
	r := bound.Radius
	c := bound.Center
	pos := [3]float32{c[0] - 2*r*dir[0], c[1] - 2*r*dir[1], c[2] - 2*r*dir[2]}

	// pick an up vector that is not parallel to the light direction
	up := [3]float32{0, 1, 0}
	if dir[1] > 0.99 || dir[1] < -0.99 {
		up = [3]float32{1, 0, 0}
	}

	var s Shadow
	s.LightPos = pos
	common.LookAt(s.View[:], pos[0], pos[1], pos[2], c[0], c[1], c[2], up[0], up[1], up[2])

	// the view looks down -Z, so the center's distance along the view is -z
	cl := common.TransformPoint(s.View, c)
	s.Near = -cl[2] - r
	s.Far = -cl[2] + r
	common.Ortho(s.Proj[:], cl[0]-r, cl[0]+r, cl[1]-r, cl[1]+r, s.Near, s.Far)

	s.Transform = common.Mul4x(common.TextureSpace, common.Mul4x(s.Proj, s.View))
	return s
}

// FillPassConstants writes the light camera into the shadow pass constants.
//
// Parameters:
//   - pc: the pass constants to fill
//   - size: shadow map width and height in texels
func (s Shadow) FillPassConstants(pc *frame.PassConstants, size int) {
	viewProj := common.Mul4x(s.Proj, s.View)
	invView, _ := common.Inverted(s.View)
	invProj, _ := common.Inverted(s.Proj)
	invViewProj, _ := common.Inverted(viewProj)

	pc.View = common.Transposed(s.View)
	pc.InvView = common.Transposed(invView)
	pc.Proj = common.Transposed(s.Proj)
	pc.InvProj = common.Transposed(invProj)
	pc.ViewProj = common.Transposed(viewProj)
	pc.InvViewProj = common.Transposed(invViewProj)
	pc.EyePosW = s.LightPos
	pc.RenderTargetSize = [2]float32{float32(size), float32(size)}
	pc.InvRenderTargetSize = [2]float32{1 / float32(size), 1 / float32(size)}
	pc.NearZ = s.Near
	pc.FarZ = s.Far
}
