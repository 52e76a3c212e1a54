// package picker casts a ray from a screen position through the camera and finds the nearest
// triangle of the visible scene instances it hits.
package picker

import (
	"math"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/camera"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
	"github.com/charmbracelet/log"
)

// Hit is the result of a successful pick.
type Hit struct {
	// Instance indexes the picked instance in the slice passed to Pick.
	Instance int
	// Triangle is the picked triangle's index within the instance's submesh.
	Triangle int
	// Distance is measured from the eye along the pick ray, in view space units.
	Distance float32
	// Point is the hit position in view space.
	Point [3]float32
}

// picker is the implementation of the Picker interface.
type picker struct {
	layers [scene.LayerCount]bool
	logger *log.Logger
}

// Picker selects the instance under a screen position.
type Picker interface {
	// Pick casts a ray through pixel (x, y) and returns the closest triangle hit among the
	// visible instances of the pickable layers.
	//
	// Parameters:
	//   - cam: the camera the frame was rendered with
	//   - screen: the back buffer size in pixels
	//   - x, y: the pixel, origin top left
	//   - instances: the culled scene instances
	//   - meshes: resolves instance geometry
	//
	// Returns:
	//   - Hit: the closest hit
	//   - bool: false if nothing was hit
	Pick(cam camera.Camera, screen common.Size, x, y float32, instances []scene.Instance, meshes model.Registry) (Hit, bool)

	// Pickable reports whether instances of layer l are considered.
	Pickable(l scene.Layer) bool
}

var _ Picker = &picker{}

// NewPicker creates a picker. By default every layer but the sky and debug layers is pickable.
//
// Parameters:
//   - options: a variadic list of PickerBuilderOption functions
//
// Returns:
//   - Picker: the picker
func NewPicker(options ...PickerBuilderOption) Picker {
	p := &picker{}
	for l := range p.layers {
		p.layers[l] = true
	}
	p.layers[scene.LayerSky] = false
	p.layers[scene.LayerDebug] = false
	for _, opt := range options {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.With("pick")
	}
	return p
}

func (p *picker) Pickable(l scene.Layer) bool {
	return l >= 0 && l < scene.LayerCount && p.layers[l]
}

func (p *picker) Pick(cam camera.Camera, screen common.Size, x, y float32, instances []scene.Instance, meshes model.Registry) (Hit, bool) {
	if screen.Width <= 0 || screen.Height <= 0 {
		return Hit{}, false
	}
	proj := cam.ProjectionMatrix()
	view := cam.ViewMatrix()
	invView := cam.InverseViewMatrix()

	vx := (2*x/float32(screen.Width) - 1) / proj[0]
	vy := (-2*y/float32(screen.Height) + 1) / proj[5]
	// the camera looks down -z
	viewRay := common.Ray{Direction: common.Normalize3([3]float32{vx, vy, -1})}

	best := Hit{Instance: -1, Distance: float32(math.MaxFloat32)}
	for i := range instances {
		inst := &instances[i]
		if !inst.Visible || !p.Pickable(inst.Layer) {
			continue
		}
		mesh, sub, ok := model.Resolve(meshes, inst.Geometry)
		if !ok {
			continue
		}
		invWorld, ok := common.Inverted(inst.World)
		if !ok {
			continue
		}
		toLocal := common.Mul4x(invWorld, invView)
		toView := common.Mul4x(view, inst.World)

		local := viewRay.Transform(toLocal)
		if _, hit := local.IntersectAABB(sub.Bounds); !hit {
			continue
		}

		for tri := 0; tri < mesh.TriangleCount(inst.Geometry.Submesh); tri++ {
			v, ok := mesh.Triangle(inst.Geometry.Submesh, tri)
			if !ok {
				break
			}
			if _, hit := local.IntersectTriangle(v[0], v[1], v[2]); !hit {
				continue
			}
			// local distances are not comparable across instances with different scales
			d, hit := viewRay.IntersectTriangle(
				common.TransformPoint(toView, v[0]),
				common.TransformPoint(toView, v[1]),
				common.TransformPoint(toView, v[2]),
			)
			if hit && d < best.Distance {
				best = Hit{Instance: i, Triangle: tri, Distance: d, Point: viewRay.At(d)}
			}
		}
	}

	if best.Instance < 0 {
		return Hit{}, false
	}
	p.logger.Debug("picked", "instance", instances[best.Instance].Name, "triangle", best.Triangle, "distance", best.Distance)
	return best, true
}
