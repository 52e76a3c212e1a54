package wgpu_device

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoTextureView is returned when a pass target's view handle is not a *wgpu.TextureView.
	ErrNoTextureView = errors.New("wgpu_device: view handle is not a texture view")
	// ErrNoRenderPipeline is returned when a pipeline has no compiled *wgpu.RenderPipeline.
	ErrNoRenderPipeline = errors.New("wgpu_device: pipeline has no render pipeline handle")
)

// Binder turns the bind commands of a list (pass constants, reads, instance and skinned slots,
// root constants) into bind groups on the open pass.
type Binder interface {
	Bind(pass *wgpu.RenderPassEncoder, cmd frame.Command) error
}

// Uploader is implemented by binders that own the device copies of a slot's upload regions.
// Upload runs before the slot's commands are encoded.
type Uploader interface {
	Upload(queue *wgpu.Queue, slot *frame.Slot) error
}

// clearColors holds the clear value of color targets that do not clear to the sky color.
var clearColors = map[resource.ID]wgpu.Color{
	resource.NormalMap:   {R: 0, G: 0, B: -1, A: 0},
	resource.AmbientMap0: {R: 1, G: 1, B: 1, A: 1},
	resource.AmbientMap1: {R: 1, G: 1, B: 1, A: 1},
}

var skyColor = wgpu.Color{R: 0.69, G: 0.77, B: 0.87, A: 1}

// isDepth reports whether id is bound as a depth attachment.
func isDepth(id resource.ID) bool {
	switch id {
	case resource.ShadowMap, resource.DepthBuffer, resource.EnvironmentDepth:
		return true
	}
	return false
}

// cleared reports whether the pass begun at cmds[begin] clears id before it ends.
func cleared(cmds []frame.Command, begin int, id resource.ID) bool {
	for _, c := range cmds[begin+1:] {
		switch c.Op {
		case frame.OpEndPass:
			return false
		case frame.OpClear:
			if c.Resource == id {
				return true
			}
		}
	}
	return false
}

// passDescriptor builds the render pass descriptor for the BeginPass command at cmds[begin].
func passDescriptor(cmds []frame.Command, begin int) (*wgpu.RenderPassDescriptor, error) {
	desc := &wgpu.RenderPassDescriptor{Label: cmds[begin].Pass}
	for _, t := range cmds[begin].Targets {
		view, ok := t.Handle.(*wgpu.TextureView)
		if !ok {
			return nil, fmt.Errorf("%w: %s in pass %q", ErrNoTextureView, t.ID, cmds[begin].Pass)
		}
		load := wgpu.LoadOpLoad
		if cleared(cmds, begin, t.ID) {
			load = wgpu.LoadOpClear
		}

		if isDepth(t.ID) {
			desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
				View:            view,
				DepthLoadOp:     load,
				DepthStoreOp:    wgpu.StoreOpStore,
				DepthClearValue: 1.0,
			}
			continue
		}

		clearValue, ok := clearColors[t.ID]
		if !ok {
			clearValue = skyColor
		}
		desc.ColorAttachments = append(desc.ColorAttachments, wgpu.RenderPassColorAttachment{
			View:       view,
			LoadOp:     load,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clearValue,
		})
	}
	return desc, nil
}

// encode records cmds into encoder. Transitions are implicit in WebGPU and are skipped; clears
// are folded into the pass load operations.
func encode(encoder *wgpu.CommandEncoder, cmds []frame.Command, binder Binder) error {
	var pass *wgpu.RenderPassEncoder
	var desc *wgpu.RenderPassDescriptor
	defer func() {
		if pass != nil {
			pass.End()
			pass.Release()
		}
	}()

	for i, c := range cmds {
		switch c.Op {
		case frame.OpTransition, frame.OpClear:

		case frame.OpBeginPass:
			d, err := passDescriptor(cmds, i)
			if err != nil {
				return err
			}
			desc = d
			pass = encoder.BeginRenderPass(desc)

		case frame.OpEndPass:
			pass.End()
			pass.Release()
			pass, desc = nil, nil

		case frame.OpSetPipeline:
			rp, ok := c.Pipeline.Handle().(*wgpu.RenderPipeline)
			if !ok || rp == nil {
				return fmt.Errorf("%w: %q", ErrNoRenderPipeline, c.Name)
			}
			if err := checkPipeline(c.Pipeline, desc); err != nil {
				return err
			}
			pass.SetPipeline(rp)

		case frame.OpSetViewport:
			vp := c.Viewport
			pass.SetViewport(vp.X, vp.Y, vp.Width, vp.Height, vp.MinDepth, vp.MaxDepth)

		case frame.OpBindPassConstants, frame.OpBindRead, frame.OpBindInstance, frame.OpBindSkinned, frame.OpSetConstant:
			if binder == nil {
				continue
			}
			if err := binder.Bind(pass, c); err != nil {
				return fmt.Errorf("wgpu_device: %s in pass %q: %w", c.Op, c.Pass, err)
			}

		case frame.OpDrawIndexed:
			a := c.Draw
			pass.DrawIndexed(a.IndexCount, a.InstanceCount, a.StartIndex, a.BaseVertex, a.StartInstance)

		case frame.OpDrawFullscreen:
			pass.Draw(3, 1, 0, 0)
		}
	}
	return nil
}
