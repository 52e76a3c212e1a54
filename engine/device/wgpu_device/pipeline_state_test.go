package wgpu_device

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

func lookup(t *testing.T, name string) pipeline.Pipeline {
	t.Helper()
	p, err := pipeline.NewDefaultTable().Lookup(name)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCheckPipeline(t *testing.T) {
	color := []wgpu.RenderPassColorAttachment{{}}
	depth := &wgpu.RenderPassDepthStencilAttachment{}
	depthOnly := &wgpu.RenderPassDescriptor{Label: "shadow", DepthStencilAttachment: depth}
	colorDepth := &wgpu.RenderPassDescriptor{Label: "composite", ColorAttachments: color, DepthStencilAttachment: depth}
	colorOnly := &wgpu.RenderPassDescriptor{Label: "ssao", ColorAttachments: color}

	tests := []struct {
		name     string
		pipeline string
		desc     *wgpu.RenderPassDescriptor
		wantErr  bool
	}{
		{"shadow into depth-only pass", pipeline.Shadow, depthOnly, false},
		{"opaque into color and depth", pipeline.Opaque, colorDepth, false},
		{"sky into color and depth", pipeline.Sky, colorDepth, false},
		{"debug ignores depth", pipeline.Debug, colorDepth, false},
		{"ssao into color-only pass", pipeline.Ssao, colorOnly, false},
		{"blur into color-only pass", pipeline.SsaoBlur, colorOnly, false},
		{"shadow into color pass", pipeline.Shadow, colorDepth, true},
		{"opaque into depth-only pass", pipeline.Opaque, depthOnly, true},
		{"opaque without depth", pipeline.Opaque, colorOnly, true},
		{"outside a pass", pipeline.Opaque, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPipeline(lookup(t, tt.pipeline), tt.desc)
			if tt.wantErr != (err != nil) {
				t.Fatalf("checkPipeline() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrPipelineMismatch) {
				t.Errorf("checkPipeline() error = %v, want ErrPipelineMismatch", err)
			}
		})
	}
}

func TestNewPipelineStates(t *testing.T) {
	shadow := NewPipelineStates(lookup(t, pipeline.Shadow), wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatDepth32Float)
	if len(shadow.Targets) != 0 {
		t.Errorf("shadow targets = %d, want none", len(shadow.Targets))
	}
	if ds := shadow.DepthStencil; ds == nil || !ds.DepthWriteEnabled || ds.DepthCompare != wgpu.CompareFunctionLess || ds.DepthBias != 100000 || ds.DepthBiasSlopeScale != 1 {
		t.Errorf("shadow depth state = %+v", shadow.DepthStencil)
	}

	sky := NewPipelineStates(lookup(t, pipeline.Sky), wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatDepth32Float)
	if sky.Primitive.CullMode != wgpu.CullModeNone || sky.Primitive.Topology != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("sky primitive = %+v", sky.Primitive)
	}
	if sky.DepthStencil == nil || sky.DepthStencil.DepthWriteEnabled {
		t.Errorf("sky depth state = %+v", sky.DepthStencil)
	}
	if len(sky.Targets) != 1 || sky.Targets[0].Format != wgpu.TextureFormatBGRA8Unorm || sky.Targets[0].WriteMask != wgpu.ColorWriteMaskAll {
		t.Errorf("sky targets = %+v", sky.Targets)
	}

	blur := NewPipelineStates(lookup(t, pipeline.SsaoBlur), wgpu.TextureFormatR16Float, wgpu.TextureFormatUndefined)
	if blur.DepthStencil != nil {
		t.Error("blur has depth state without a depth format")
	}
	if blur.Primitive.FrontFace != wgpu.FrontFaceCCW {
		t.Errorf("blur front face = %v", blur.Primitive.FrontFace)
	}
}
