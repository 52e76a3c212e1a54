package scene

import (
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/frame"
	"github.com/Carmen-Shannon/oxy-frame/engine/model"
	"github.com/google/uuid"
)

// Layer selects the draw group of an instance in the composite pass.
type Layer int

const (
	// LayerOpaque is static lit geometry.
	LayerOpaque Layer = iota
	// LayerSkinned is geometry deformed by an animator.
	LayerSkinned
	// LayerSky is the sky sphere or box.
	LayerSky
	// LayerDebug is overlay geometry drawn last.
	LayerDebug
	// LayerDynamicReflector samples the dynamic environment cube.
	LayerDynamicReflector
	// LayerCount is the number of layers.
	LayerCount
)

func (l Layer) String() string {
	switch l {
	case LayerOpaque:
		return "opaque"
	case LayerSkinned:
		return "skinned"
	case LayerSky:
		return "sky"
	case LayerDebug:
		return "debug"
	case LayerDynamicReflector:
		return "dynamicReflector"
	default:
		return "unknown"
	}
}

// NoSkin is the Skin index of an instance without an animator.
const NoSkin = -1

// Instance is one drawable object. Geometry and material are referenced by index.
type Instance struct {
	ID            uuid.UUID
	Name          string
	World         [16]float32
	TexTransform  [16]float32
	MaterialIndex int
	Geometry      model.DrawRef
	Layer         Layer
	Hidden        bool

	// Visible and Slot are written by the culler every frame. Slot is only meaningful while
	// Visible is true and indexes the frame's instance region.
	Visible bool
	Slot    uint32

	// Skin is the animator instance driving this object, or NoSkin.
	Skin int
}

// InstanceBuilderOption is a functional option for configuring an Instance via NewInstance.
type InstanceBuilderOption func(*Instance)

// NewInstance creates an instance of geometry with identity transforms, material 0 and a fresh ID.
//
// Parameters:
//   - name: a human readable name
//   - geometry: the submesh drawn, or model.NoGeometry
//   - options: variadic list of InstanceBuilderOption functions
//
// Returns:
//   - Instance: the configured instance
func NewInstance(name string, geometry model.DrawRef, options ...InstanceBuilderOption) Instance {
	inst := Instance{
		ID:           uuid.New(),
		Name:         name,
		World:        common.IdentityMatrix(),
		TexTransform: common.IdentityMatrix(),
		Geometry:     geometry,
		Skin:         NoSkin,
	}
	for _, opt := range options {
		opt(&inst)
	}
	return inst
}

// WithWorld sets the world transform.
func WithWorld(world [16]float32) InstanceBuilderOption {
	return func(i *Instance) {
		i.World = world
	}
}

// WithTexTransform sets the texture coordinate transform.
func WithTexTransform(t [16]float32) InstanceBuilderOption {
	return func(i *Instance) {
		i.TexTransform = t
	}
}

// WithMaterial sets the material index.
func WithMaterial(index int) InstanceBuilderOption {
	return func(i *Instance) {
		i.MaterialIndex = index
	}
}

// WithLayer sets the draw layer.
func WithLayer(layer Layer) InstanceBuilderOption {
	return func(i *Instance) {
		i.Layer = layer
	}
}

// WithHidden marks the instance hidden so the culler skips it.
func WithHidden(hidden bool) InstanceBuilderOption {
	return func(i *Instance) {
		i.Hidden = hidden
	}
}

// WithSkin binds the instance to animator instance skin and moves it to LayerSkinned.
//
// Parameters:
//   - skin: the animator instance index
//
// Returns:
//   - InstanceBuilderOption: option function to apply
func WithSkin(skin int) InstanceBuilderOption {
	return func(i *Instance) {
		i.Skin = skin
		i.Layer = LayerSkinned
	}
}

// Constants packs the instance for the instance region, transposing both matrices.
func (i *Instance) Constants() frame.InstanceConstants {
	return frame.InstanceConstants{
		World:         common.Transposed(i.World),
		TexTransform:  common.Transposed(i.TexTransform),
		MaterialIndex: uint32(i.MaterialIndex),
	}
}

// AppendVisible appends the indices of visible instances in any of layers to dst, in
// traversal order.
//
// Parameters:
//   - dst: the slice to append to, usually a reused buffer truncated to zero length
//   - instances: the culled instances
//   - layers: the layers to select
//
// Returns:
//   - []int: dst with the selected indices appended
func AppendVisible(dst []int, instances []Instance, layers ...Layer) []int {
	for i := range instances {
		if !instances[i].Visible {
			continue
		}
		for _, l := range layers {
			if instances[i].Layer == l {
				dst = append(dst, i)
				break
			}
		}
	}
	return dst
}
