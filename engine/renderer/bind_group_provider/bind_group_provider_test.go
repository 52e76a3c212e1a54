package bind_group_provider

import (
	"context"
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-frame/engine/device/wgpu_device"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	_ wgpu_device.Binder   = NewBindGroupProvider()
	_ wgpu_device.Uploader = NewBindGroupProvider()
)

type idleDevice struct{}

func (idleDevice) Submit(*frame.CommandList) (frame.Token, error) { return 1, nil }
func (idleDevice) HasCompleted(frame.Token) bool                  { return true }
func (idleDevice) WaitFor(context.Context, frame.Token) error     { return nil }

func TestResolveDynamicOffsets(t *testing.T) {
	pass, object, skinned, blur := &wgpu.BindGroup{}, &wgpu.BindGroup{}, &wgpu.BindGroup{}, &wgpu.BindGroup{}
	p := NewBindGroupProvider(
		WithPassGroup(pass, nil, nil),
		WithObjectGroup(object, nil, nil),
		WithSkinnedGroup(skinned, nil),
		WithConstant("horizontalBlur", blur),
	)

	tests := []struct {
		name   string
		cmd    frame.Command
		group  uint32
		bind   *wgpu.BindGroup
		offset uint32
	}{
		{"pass constants", frame.Command{Op: frame.OpBindPassConstants, Slot: 3}, GroupPass, pass, 3 * 1536},
		{"instance", frame.Command{Op: frame.OpBindInstance, Slot: 5}, GroupObject, object, 5 * 256},
		{"skinned", frame.Command{Op: frame.OpBindSkinned, Slot: 2}, GroupVariant, skinned, 2 * 6144},
		{"root constant", frame.Command{Op: frame.OpSetConstant, Name: "horizontalBlur", Value: 1}, GroupVariant, blur, 256},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := p.Resolve(tt.cmd)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if b.Group != tt.group || b.Bind != tt.bind {
				t.Errorf("Resolve() = group %d bind %p, want group %d bind %p", b.Group, b.Bind, tt.group, tt.bind)
			}
			if len(b.Offsets) != 1 || b.Offsets[0] != tt.offset {
				t.Errorf("Resolve() offsets = %v, want [%d]", b.Offsets, tt.offset)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	p := NewBindGroupProvider()
	tests := []struct {
		name string
		cmd  frame.Command
		want error
	}{
		{"no pass group", frame.Command{Op: frame.OpBindPassConstants}, ErrUnboundGroup},
		{"no read factory", frame.Command{Op: frame.OpBindRead, Resource: resource.ShadowMap}, ErrUnboundGroup},
		{"unknown constant", frame.Command{Op: frame.OpSetConstant, Name: "verticalBlur"}, ErrUnknownConstant},
		{"not a bind", frame.Command{Op: frame.OpDrawFullscreen}, ErrUnboundGroup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Resolve(tt.cmd); !errors.Is(err, tt.want) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestResolveReadsPerPass(t *testing.T) {
	var calls [][]resource.ID
	p := NewBindGroupProvider(WithReadGroupFactory(func(reads []resource.ID) (*wgpu.BindGroup, error) {
		calls = append(calls, reads)
		return &wgpu.BindGroup{}, nil
	}))

	reads := []frame.Command{
		{Op: frame.OpBindRead, Pass: "composite", Resource: resource.ShadowMap},
		{Op: frame.OpBindRead, Pass: "composite", Resource: resource.SkyCube},
		{Op: frame.OpBindRead, Pass: "composite", Resource: resource.ShadowMap},
		{Op: frame.OpBindRead, Pass: "environment[0]", Resource: resource.ShadowMap},
	}
	var groups []*wgpu.BindGroup
	for _, cmd := range reads {
		b, err := p.Resolve(cmd)
		if err != nil {
			t.Fatalf("Resolve(%v) error = %v", cmd.Resource, err)
		}
		if b.Group != GroupReads || len(b.Offsets) != 0 {
			t.Errorf("Resolve(%v) = %+v", cmd.Resource, b)
		}
		groups = append(groups, b.Bind)
	}

	want := [][]resource.ID{{resource.ShadowMap}, {resource.ShadowMap, resource.SkyCube}}
	if !slices.EqualFunc(calls, want, slices.Equal) {
		t.Errorf("factory calls = %v, want %v", calls, want)
	}
	if groups[1] != groups[2] {
		t.Error("rebinding a read in the same pass created a new group")
	}
	// a new pass starts from its own reads and reuses the cached single-read group
	if groups[3] != groups[0] {
		t.Error("new pass did not reuse the cached group")
	}
}

func TestWrites(t *testing.T) {
	ring, err := frame.NewRing(idleDevice{}, frame.WithCapacities(4, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	slot := ring.Slot(0)
	pc := frame.DefaultPassConstants()
	pc.TotalTime = 7
	if err := slot.Pass.CopyData(2, &pc); err != nil {
		t.Fatal(err)
	}

	passBuf, instBuf, matBuf, skinBuf := &wgpu.Buffer{}, &wgpu.Buffer{}, &wgpu.Buffer{}, &wgpu.Buffer{}
	p := NewBindGroupProvider(
		WithPassGroup(&wgpu.BindGroup{}, passBuf, nil),
		WithObjectGroup(&wgpu.BindGroup{}, instBuf, matBuf),
		WithSkinnedGroup(&wgpu.BindGroup{}, skinBuf),
	)
	writes := p.Writes(slot)

	count := map[*wgpu.Buffer]int{}
	for _, w := range writes {
		count[w.Buffer]++
	}
	if count[passBuf] != frame.PassCount || count[instBuf] != 4 || count[matBuf] != 1 || count[skinBuf] != 1 {
		t.Fatalf("write counts pass=%d inst=%d mat=%d skin=%d", count[passBuf], count[instBuf], count[matBuf], count[skinBuf])
	}

	passStride := frame.SizeOf[frame.PassConstants]()
	for _, w := range writes {
		switch w.Buffer {
		case passBuf:
			if w.Offset%MinUniformAlignment != 0 || len(w.Data) != passStride {
				t.Errorf("pass write offset %d len %d", w.Offset, len(w.Data))
			}
		case instBuf:
			if w.Offset%MinUniformAlignment != 0 || len(w.Data) != frame.SizeOf[frame.InstanceConstants]() {
				t.Errorf("instance write offset %d len %d", w.Offset, len(w.Data))
			}
		case matBuf:
			if w.Offset != 0 || len(w.Data) != 2*frame.SizeOf[frame.MaterialConstants]() {
				t.Errorf("material write offset %d len %d", w.Offset, len(w.Data))
			}
		}
	}

	// TotalTime of pass slot 2 lands in the block at its dynamic offset
	third := writes[2]
	if third.Offset != uint64(DynamicOffset[frame.PassConstants](2)) {
		t.Fatalf("pass write 2 offset = %d", third.Offset)
	}
	if got := binary.LittleEndian.Uint32(third.Data[552:]); got != 0x40e00000 {
		t.Errorf("pass slot 2 total time bits = %#x, want 7.0", got)
	}
}

func TestAlignedStride(t *testing.T) {
	tests := []struct{ stride, align, want int }{
		{144, 256, 256},
		{6144, 256, 6144},
		{1376, 256, 1536},
		{112, 1, 112},
	}
	for _, tt := range tests {
		if got := AlignedStride(tt.stride, tt.align); got != tt.want {
			t.Errorf("AlignedStride(%d, %d) = %d, want %d", tt.stride, tt.align, got, tt.want)
		}
	}
}

func TestConstantData(t *testing.T) {
	data := ConstantData(2)
	if len(data) != 2*MinUniformAlignment {
		t.Fatalf("len = %d", len(data))
	}
	if binary.LittleEndian.Uint32(data[0:]) != 0 || binary.LittleEndian.Uint32(data[MinUniformAlignment:]) != 1 {
		t.Error("constant values not at aligned offsets")
	}
}
