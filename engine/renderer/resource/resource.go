// package resource names the off-screen targets and textures the render graph reads and writes,
// and the states they move through within a frame.
package resource

import (
	"errors"
	"fmt"
)

// ID indexes a resource in the registry's table.
type ID int

const (
	ShadowMap ID = iota
	EnvironmentCube
	EnvironmentDepth
	DepthBuffer
	NormalMap
	AmbientMap0
	AmbientMap1
	RandomVectorMap
	SkyCube
	BackBuffer
	resourceCount
)

var idNames = [...]string{
	ShadowMap:        "ShadowMap",
	EnvironmentCube:  "EnvironmentCube",
	EnvironmentDepth: "EnvironmentDepth",
	DepthBuffer:      "DepthBuffer",
	NormalMap:        "NormalMap",
	AmbientMap0:      "AmbientMap0",
	AmbientMap1:      "AmbientMap1",
	RandomVectorMap:  "RandomVectorMap",
	SkyCube:          "SkyCube",
	BackBuffer:       "BackBuffer",
}

func (id ID) String() string {
	if id < 0 || id >= resourceCount {
		return fmt.Sprintf("ID(%d)", int(id))
	}
	return idNames[id]
}

// IDs returns every resource ID in table order.
func IDs() []ID {
	ids := make([]ID, resourceCount)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

// State is the usage a resource is currently prepared for.
type State int

const (
	// StateRead is the shader-readable state every off-screen target rests in between passes.
	StateRead State = iota
	// StateRenderTarget allows color writes.
	StateRenderTarget
	// StateDepthWrite allows depth writes.
	StateDepthWrite
	// StatePresent is the rest state of the back buffer.
	StatePresent
	// StateCopyDest allows uploads.
	StateCopyDest
)

func (s State) String() string {
	switch s {
	case StateRead:
		return "read"
	case StateRenderTarget:
		return "render-target"
	case StateDepthWrite:
		return "depth-write"
	case StatePresent:
		return "present"
	case StateCopyDest:
		return "copy-dest"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Writable reports whether a pass may write to a resource in this state.
func (s State) Writable() bool {
	return s == StateRenderTarget || s == StateDepthWrite
}

// RestState is the state id is in at frame boundaries. Every frame must return each resource
// it transitions to this state before it is submitted.
func RestState(id ID) State {
	switch id {
	case BackBuffer:
		return StatePresent
	case DepthBuffer, EnvironmentDepth:
		return StateDepthWrite
	default:
		return StateRead
	}
}

// View is an opaque handle to a read or write view of a resource. Face selects a cube face for
// write views of cube targets and is -1 otherwise.
type View struct {
	ID     ID
	Face   int
	Write  bool
	Handle any
}

var (
	// ErrUnknownResource is returned for IDs outside the table.
	ErrUnknownResource = errors.New("resource: unknown id")
	// ErrInvalidFace is returned for a cube face outside 0..5 or a face on a non-cube resource.
	ErrInvalidFace = errors.New("resource: invalid face")
	// ErrInvalidSize is returned by Resize for non-positive sizes.
	ErrInvalidSize = errors.New("resource: invalid size")
)

// Registry hands out views of the frame's resources. Creation and binding mechanics live
// behind it.
type Registry interface {
	// ReadView returns a shader-readable view of id.
	ReadView(id ID) (View, error)
	// WriteView returns a write view of id. face selects the cube face for cube targets and
	// must be -1 for everything else.
	WriteView(id ID, face int) (View, error)
	// Resize recreates the size-dependent targets (depth buffer, normal and ambient maps,
	// back buffer) for a w x h output.
	Resize(w, h int) error
	// Upload replaces the contents of id.
	Upload(id ID, data []byte) error
}

// IsCube reports whether id is a cube target.
func IsCube(id ID) bool {
	return id == EnvironmentCube || id == SkyCube
}
