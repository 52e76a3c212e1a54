// package bind_group_provider maps the bind commands of a frame's command list onto WebGPU bind
// groups and uploads a ring slot's regions into the buffers those groups reference.
package bind_group_provider

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/logging"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
	"github.com/charmbracelet/log"
	"github.com/cogentcore/webgpu/wgpu"
)

// Bind group indices shared by every frame pipeline layout.
const (
	// GroupPass holds the pass constants (dynamic offset) and the SSAO constants.
	GroupPass uint32 = 0
	// GroupObject holds the instance constants (dynamic offset) and the material table.
	GroupObject uint32 = 1
	// GroupVariant holds the skinned constants block of skinned draws, or the root constant
	// block of pipelines that never skin.
	GroupVariant uint32 = 2
	// GroupReads holds the textures a pass samples.
	GroupReads uint32 = 3
)

// MinUniformAlignment is the default WebGPU minUniformBufferOffsetAlignment.
const MinUniformAlignment = 256

var (
	// ErrUnboundGroup is returned when a command needs a bind group that was never provided.
	ErrUnboundGroup = errors.New("bind_group_provider: no bind group for command")
	// ErrUnknownConstant is returned for a root constant name without a registered group.
	ErrUnknownConstant = errors.New("bind_group_provider: unknown root constant")
)

// ReadGroupFactory creates the bind group sampling reads, in the order the pass bound them.
type ReadGroupFactory func(reads []resource.ID) (*wgpu.BindGroup, error)

// Binding is one resolved SetBindGroup call.
type Binding struct {
	Group   uint32
	Bind    *wgpu.BindGroup
	Offsets []uint32
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu sync.Mutex

	passGroup    *wgpu.BindGroup
	objectGroup  *wgpu.BindGroup
	skinnedGroup *wgpu.BindGroup
	constants    map[string]*wgpu.BindGroup

	readFactory ReadGroupFactory
	readGroups  map[uint64]*wgpu.BindGroup

	// reads accumulates the resources bound in the current pass.
	pass  string
	reads []resource.ID

	passBuffer     *wgpu.Buffer
	ssaoBuffer     *wgpu.Buffer
	instanceBuffer *wgpu.Buffer
	materialBuffer *wgpu.Buffer
	skinnedBuffer  *wgpu.Buffer

	logger *log.Logger
}

// BindGroupProvider resolves frame bind commands to bind groups. It satisfies the wgpu device's
// Binder and Uploader interfaces.
//
// Usage pattern:
//  1. The application creates the buffers and bind groups of each group layout
//  2. They are handed over with the With* options
//  3. The device calls Upload before encoding each slot, then Bind for every bind command
type BindGroupProvider interface {
	// Resolve maps cmd to the SetBindGroup call it needs. Commands from a new pass reset the
	// accumulated reads.
	//
	// Parameters:
	//   - cmd: a bind-pass-constants, bind-read, bind-instance, bind-skinned or set-constant command
	//
	// Returns:
	//   - Binding: the group index, bind group and dynamic offsets
	//   - error: ErrUnboundGroup or ErrUnknownConstant
	Resolve(cmd frame.Command) (Binding, error)

	// Bind resolves cmd and sets the result on pass.
	Bind(pass *wgpu.RenderPassEncoder, cmd frame.Command) error

	// Writes returns the buffer writes that copy slot's regions into the device buffers.
	// Regions whose buffer was not provided are skipped.
	Writes(slot *frame.Slot) []BufferWrite

	// Upload queues every write of Writes(slot).
	Upload(queue *wgpu.Queue, slot *frame.Slot) error

	// Release releases the bind groups and buffers held by the provider.
	Release()
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		constants:  make(map[string]*wgpu.BindGroup),
		readGroups: make(map[uint64]*wgpu.BindGroup),
	}
	for _, opt := range options {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.With("bind")
	}
	return p
}

// AlignedStride rounds stride up to a multiple of align.
func AlignedStride(stride, align int) int {
	if align <= 1 {
		return stride
	}
	return (stride + align - 1) / align * align
}

// DynamicOffset returns the byte offset of element i of a region of T bound with dynamic offsets.
func DynamicOffset[T any](i int) uint32 {
	return uint32(i * AlignedStride(frame.SizeOf[T](), MinUniformAlignment))
}

func (p *bindGroupProvider) Resolve(cmd frame.Command) (Binding, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cmd.Pass != p.pass {
		p.pass = cmd.Pass
		p.reads = p.reads[:0]
	}

	var b Binding
	switch cmd.Op {
	case frame.OpBindPassConstants:
		b = Binding{Group: GroupPass, Bind: p.passGroup, Offsets: []uint32{DynamicOffset[frame.PassConstants](cmd.Slot)}}
	case frame.OpBindInstance:
		b = Binding{Group: GroupObject, Bind: p.objectGroup, Offsets: []uint32{DynamicOffset[frame.InstanceConstants](cmd.Slot)}}
	case frame.OpBindSkinned:
		b = Binding{Group: GroupVariant, Bind: p.skinnedGroup, Offsets: []uint32{DynamicOffset[frame.SkinnedConstants](cmd.Slot)}}
	case frame.OpSetConstant:
		bg, ok := p.constants[cmd.Name]
		if !ok {
			return Binding{}, fmt.Errorf("%w: %q", ErrUnknownConstant, cmd.Name)
		}
		b = Binding{Group: GroupVariant, Bind: bg, Offsets: []uint32{cmd.Value * MinUniformAlignment}}
	case frame.OpBindRead:
		bg, err := p.readGroup(cmd.Resource)
		if err != nil {
			return Binding{}, err
		}
		b = Binding{Group: GroupReads, Bind: bg}
	default:
		return Binding{}, fmt.Errorf("%w: %s is not a bind command", ErrUnboundGroup, cmd.Op)
	}
	if b.Bind == nil {
		return Binding{}, fmt.Errorf("%w: %s", ErrUnboundGroup, cmd.Op)
	}
	return b, nil
}

// readGroup adds id to the pass's reads and returns the group sampling all of them.
func (p *bindGroupProvider) readGroup(id resource.ID) (*wgpu.BindGroup, error) {
	if !slices.Contains(p.reads, id) {
		p.reads = append(p.reads, id)
	}
	var key uint64
	for _, r := range p.reads {
		key |= 1 << uint(r)
	}
	if bg, ok := p.readGroups[key]; ok {
		return bg, nil
	}
	if p.readFactory == nil {
		return nil, nil
	}
	bg, err := p.readFactory(slices.Clone(p.reads))
	if err != nil {
		return nil, fmt.Errorf("bind_group_provider: read group %v: %w", p.reads, err)
	}
	p.readGroups[key] = bg
	p.logger.Debug("read group created", "pass", p.pass, "reads", len(p.reads))
	return bg, nil
}

func (p *bindGroupProvider) Bind(pass *wgpu.RenderPassEncoder, cmd frame.Command) error {
	b, err := p.Resolve(cmd)
	if err != nil {
		return err
	}
	pass.SetBindGroup(b.Group, b.Bind, b.Offsets)
	return nil
}

func (p *bindGroupProvider) Writes(slot *frame.Slot) []BufferWrite {
	var writes []BufferWrite
	writes = append(writes, regionWrites(p.passBuffer, slot.Pass, MinUniformAlignment)...)
	writes = append(writes, regionWrites(p.ssaoBuffer, slot.Ssao, 1)...)
	writes = append(writes, regionWrites(p.instanceBuffer, slot.Instances, MinUniformAlignment)...)
	writes = append(writes, regionWrites(p.materialBuffer, slot.Materials, 1)...)
	writes = append(writes, regionWrites(p.skinnedBuffer, slot.Skinned, MinUniformAlignment)...)
	return writes
}

func (p *bindGroupProvider) Upload(queue *wgpu.Queue, slot *frame.Slot) error {
	if queue == nil {
		return errors.New("bind_group_provider: nil queue")
	}
	for _, w := range p.Writes(slot) {
		queue.WriteBuffer(w.Buffer, w.Offset, w.Data)
	}
	return nil
}

func (p *bindGroupProvider) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, bg := range []*wgpu.BindGroup{p.passGroup, p.objectGroup, p.skinnedGroup} {
		if bg != nil {
			bg.Release()
		}
	}
	p.passGroup, p.objectGroup, p.skinnedGroup = nil, nil, nil
	for name, bg := range p.constants {
		if bg != nil {
			bg.Release()
		}
		delete(p.constants, name)
	}
	for key, bg := range p.readGroups {
		if bg != nil {
			bg.Release()
		}
		delete(p.readGroups, key)
	}

	for _, buf := range []*wgpu.Buffer{p.passBuffer, p.ssaoBuffer, p.instanceBuffer, p.materialBuffer, p.skinnedBuffer} {
		if buf != nil {
			buf.Release()
		}
	}
	p.passBuffer, p.ssaoBuffer, p.instanceBuffer, p.materialBuffer, p.skinnedBuffer = nil, nil, nil, nil, nil
}
