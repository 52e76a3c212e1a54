package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/Carmen-Shannon/oxy-frame/engine/scene"
)

// recorder wraps a command list with a sticky error. After the first failure every call is a
// no-op and err holds the cause.
type recorder struct {
	o         *orchestrator
	cmd       *frame.CommandList
	instances []scene.Instance
	// skins and materials are the exclusive upper bounds of valid skin and material indices
	skins     int
	materials int
	pass      string
	err       error
}

func (r *recorder) fail(err error) {
	if err == nil || r.err != nil {
		return
	}
	if r.pass != "" {
		err = fmt.Errorf("pass %q: %w", r.pass, err)
	}
	r.err = err
}

func (r *recorder) transition(id resource.ID, from, to resource.State) {
	if r.err == nil {
		r.fail(r.cmd.Transition(id, from, to))
	}
}

func (r *recorder) writeView(id resource.ID, face int) resource.View {
	if r.err != nil {
		return resource.View{}
	}
	v, err := r.o.resources.WriteView(id, face)
	r.fail(err)
	return v
}

func (r *recorder) begin(name string, targets ...resource.View) {
	if r.err != nil {
		return
	}
	r.pass = name
	r.fail(r.cmd.BeginPass(name, targets...))
}

func (r *recorder) end() {
	if r.err != nil {
		return
	}
	r.fail(r.cmd.EndPass())
	r.pass = ""
}

func (r *recorder) viewport(vp common.Viewport) {
	if r.err == nil {
		r.fail(r.cmd.SetViewport(vp))
	}
}

func (r *recorder) clear(v resource.View) {
	if r.err == nil {
		r.fail(r.cmd.Clear(v))
	}
}

func (r *recorder) pipeline(name string) {
	if r.err != nil {
		return
	}
	p, err := r.o.pipelines.Lookup(name)
	if err != nil {
		r.fail(err)
		return
	}
	r.fail(r.cmd.SetPipeline(p))
}

func (r *recorder) passConstants(slot int) {
	if r.err == nil {
		r.fail(r.cmd.BindPassConstants(slot))
	}
}

func (r *recorder) read(id resource.ID) {
	if r.err != nil {
		return
	}
	v, err := r.o.resources.ReadView(id)
	if err != nil {
		r.fail(err)
		return
	}
	r.fail(r.cmd.BindRead(v))
}

func (r *recorder) constant(name string, value uint32) {
	if r.err == nil {
		r.fail(r.cmd.SetConstant(name, value))
	}
}

func (r *recorder) fullscreen() {
	if r.err == nil {
		r.fail(r.cmd.DrawFullscreen())
	}
}

// draw issues one indexed draw per visible instance of layer, reading its constants from the
// instance slot the culler assigned.
func (r *recorder) draw(layer scene.Layer, skinned bool) {
	for _, i := range r.o.layers[layer] {
		if r.err != nil {
			return
		}
		inst := &r.instances[i]
		_, sub, ok := model.Resolve(r.o.meshes, inst.Geometry)
		if !ok {
			r.fail(fmt.Errorf("%w: %s", ErrMissingGeometry, inst.Name))
			return
		}
		if inst.MaterialIndex < 0 || inst.MaterialIndex >= r.materials {
			r.fail(fmt.Errorf("%w: %s uses material %d of %d", ErrMissingMaterial, inst.Name, inst.MaterialIndex, r.materials))
			return
		}
		r.fail(r.cmd.BindInstance(inst.Slot))
		if skinned {
			if inst.Skin < 0 || inst.Skin >= r.skins {
				r.fail(fmt.Errorf("%w: %s uses skin %d of %d", ErrMissingSkin, inst.Name, inst.Skin, r.skins))
				return
			}
			r.fail(r.cmd.BindSkinned(inst.Skin))
		}
		if r.err != nil {
			return
		}
		r.fail(r.cmd.DrawIndexed(frame.DrawArgs{
			IndexCount:    sub.IndexCount,
			InstanceCount: 1,
			StartIndex:    sub.StartIndex,
			BaseVertex:    sub.BaseVertex,
			StartInstance: inst.Slot,
		}))
	}
}
