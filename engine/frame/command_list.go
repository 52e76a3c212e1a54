package frame

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-frame/engine/renderer/resource"
)

var (
	// ErrStateMismatch is returned when a transition's source state differs from the tracked one,
	// or when a list is closed with resources away from their rest state.
	ErrStateMismatch = errors.New("frame: resource state mismatch")
	// ErrReadHazard is returned when binding a resource for reading that is not in a read state.
	ErrReadHazard = errors.New("frame: resource bound for read while writable")
	// ErrWriteHazard is returned when a pass targets a resource that is not in a write state.
	ErrWriteHazard = errors.New("frame: pass target not in a write state")
	// ErrPassOpen is returned for operations that require no open pass, or a second BeginPass.
	ErrPassOpen = errors.New("frame: pass already open")
	// ErrNoPass is returned for draws, clears and binds outside a pass.
	ErrNoPass = errors.New("frame: no pass open")
	// ErrNoPipeline is returned for a draw before SetPipeline.
	ErrNoPipeline = errors.New("frame: no pipeline set")
)

// Op identifies a recorded command.
type Op int

const (
	OpTransition Op = iota
	OpBeginPass
	OpEndPass
	OpSetPipeline
	OpSetViewport
	OpBindPassConstants
	OpBindRead
	OpBindInstance
	OpBindSkinned
	OpSetConstant
	OpClear
	OpDrawIndexed
	OpDrawFullscreen
)

var opNames = [...]string{
	OpTransition:        "transition",
	OpBeginPass:         "begin-pass",
	OpEndPass:           "end-pass",
	OpSetPipeline:       "set-pipeline",
	OpSetViewport:       "set-viewport",
	OpBindPassConstants: "bind-pass-constants",
	OpBindRead:          "bind-read",
	OpBindInstance:      "bind-instance",
	OpBindSkinned:       "bind-skinned",
	OpSetConstant:       "set-constant",
	OpClear:             "clear",
	OpDrawIndexed:       "draw-indexed",
	OpDrawFullscreen:    "draw-fullscreen",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// DrawArgs are the arguments of an indexed draw.
type DrawArgs struct {
	IndexCount    uint32
	InstanceCount uint32
	StartIndex    uint32
	BaseVertex    int32
	// StartInstance is the first instance-buffer slot the draw reads.
	StartInstance uint32
}

// Command is one recorded operation. Only the fields relevant to Op are set.
type Command struct {
	Op       Op
	Pass     string
	Resource resource.ID
	From, To resource.State
	Targets  []resource.View
	View     resource.View
	Pipeline pipeline.Pipeline
	Viewport common.Viewport
	Slot     int
	Name     string
	Value    uint32
	Draw     DrawArgs
}

// CommandList records one frame's commands for a ring slot and tracks the state of every
// resource it touches. Resources not yet touched are assumed to be in their rest state.
type CommandList struct {
	commands []Command
	states   map[resource.ID]resource.State
	pass     string
	targets  []resource.View
	pipeline pipeline.Pipeline
	passes   []string
	slot     *Slot
}

// NewCommandList creates an empty list.
func NewCommandList() *CommandList {
	return &CommandList{states: make(map[resource.ID]resource.State)}
}

// Reset discards recorded commands and returns every resource to its rest state.
func (c *CommandList) Reset() {
	c.commands = c.commands[:0]
	clear(c.states)
	c.pass = ""
	c.targets = nil
	c.pipeline = nil
	c.passes = c.passes[:0]
}

// Slot returns the ring slot that owns the list, nil for a list made by NewCommandList.
func (c *CommandList) Slot() *Slot {
	return c.slot
}

// State returns the tracked state of id.
func (c *CommandList) State(id resource.ID) resource.State {
	if s, ok := c.states[id]; ok {
		return s
	}
	return resource.RestState(id)
}

// Transition moves id from one state to another.
//
// Parameters:
//   - id: the resource
//   - from: the state the caller believes id is in
//   - to: the new state
//
// Returns:
//   - error: ErrStateMismatch if from is not the tracked state, ErrPassOpen inside a pass
func (c *CommandList) Transition(id resource.ID, from, to resource.State) error {
	if c.pass != "" {
		return fmt.Errorf("%w: transition %s inside pass %q", ErrPassOpen, id, c.pass)
	}
	if cur := c.State(id); cur != from {
		return fmt.Errorf("%w: %s is %s, transition expects %s", ErrStateMismatch, id, cur, from)
	}
	c.states[id] = to
	c.commands = append(c.commands, Command{Op: OpTransition, Resource: id, From: from, To: to})
	return nil
}

// BeginPass opens a pass writing the given targets. Every target must be in a write state.
//
// Parameters:
//   - name: pass label recorded for ordering checks
//   - targets: the views the pass writes
//
// Returns:
//   - error: ErrPassOpen if a pass is open, ErrWriteHazard for a target not in a write state
func (c *CommandList) BeginPass(name string, targets ...resource.View) error {
	if c.pass != "" {
		return fmt.Errorf("%w: %q while %q is open", ErrPassOpen, name, c.pass)
	}
	for _, t := range targets {
		if s := c.State(t.ID); !s.Writable() {
			return fmt.Errorf("%w: pass %q target %s is %s", ErrWriteHazard, name, t.ID, s)
		}
	}
	c.pass = name
	c.targets = append(c.targets[:0], targets...)
	c.pipeline = nil
	c.passes = append(c.passes, name)
	c.commands = append(c.commands, Command{Op: OpBeginPass, Pass: name, Targets: append([]resource.View(nil), targets...)})
	return nil
}

// EndPass closes the open pass.
func (c *CommandList) EndPass() error {
	if c.pass == "" {
		return ErrNoPass
	}
	c.commands = append(c.commands, Command{Op: OpEndPass, Pass: c.pass})
	c.pass = ""
	c.targets = c.targets[:0]
	c.pipeline = nil
	return nil
}

// SetPipeline selects the pipeline for subsequent draws in the open pass.
func (c *CommandList) SetPipeline(p pipeline.Pipeline) error {
	if c.pass == "" {
		return ErrNoPass
	}
	c.pipeline = p
	c.commands = append(c.commands, Command{Op: OpSetPipeline, Pass: c.pass, Pipeline: p, Name: p.Name()})
	return nil
}

// SetViewport sets the viewport and scissor for the open pass.
func (c *CommandList) SetViewport(vp common.Viewport) error {
	if c.pass == "" {
		return ErrNoPass
	}
	c.commands = append(c.commands, Command{Op: OpSetViewport, Pass: c.pass, Viewport: vp})
	return nil
}

// Clear clears one of the open pass's targets.
func (c *CommandList) Clear(v resource.View) error {
	if c.pass == "" {
		return ErrNoPass
	}
	if s := c.State(v.ID); !s.Writable() {
		return fmt.Errorf("%w: clear %s in %s", ErrWriteHazard, v.ID, s)
	}
	c.commands = append(c.commands, Command{Op: OpClear, Pass: c.pass, Resource: v.ID, View: v})
	return nil
}

// BindPassConstants selects the pass constants block at slot.
func (c *CommandList) BindPassConstants(slot int) error {
	if c.pass == "" {
		return ErrNoPass
	}
	c.commands = append(c.commands, Command{Op: OpBindPassConstants, Pass: c.pass, Slot: slot})
	return nil
}

// BindRead binds v for shader reads in the open pass. The resource must be in the read state
// and must not be one of the pass's own targets.
//
// Parameters:
//   - v: the view to read
//
// Returns:
//   - error: ErrReadHazard if the resource is not readable, ErrNoPass outside a pass
func (c *CommandList) BindRead(v resource.View) error {
	if c.pass == "" {
		return ErrNoPass
	}
	if s := c.State(v.ID); s != resource.StateRead {
		return fmt.Errorf("%w: %s is %s in pass %q", ErrReadHazard, v.ID, s, c.pass)
	}
	for _, t := range c.targets {
		if t.ID == v.ID {
			return fmt.Errorf("%w: %s is a target of pass %q", ErrReadHazard, v.ID, c.pass)
		}
	}
	c.commands = append(c.commands, Command{Op: OpBindRead, Pass: c.pass, Resource: v.ID, View: v})
	return nil
}

// BindInstance points the instance buffer binding at slot for the next draw.
func (c *CommandList) BindInstance(slot uint32) error {
	if c.pass == "" {
		return ErrNoPass
	}
	c.commands = append(c.commands, Command{Op: OpBindInstance, Pass: c.pass, Slot: int(slot)})
	return nil
}

// BindSkinned selects the skinned constants block of one skinned instance.
func (c *CommandList) BindSkinned(index int) error {
	if c.pass == "" {
		return ErrNoPass
	}
	c.commands = append(c.commands, Command{Op: OpBindSkinned, Pass: c.pass, Slot: index})
	return nil
}

// SetConstant sets a named root constant, e.g. the blur direction.
func (c *CommandList) SetConstant(name string, value uint32) error {
	if c.pass == "" {
		return ErrNoPass
	}
	c.commands = append(c.commands, Command{Op: OpSetConstant, Pass: c.pass, Name: name, Value: value})
	return nil
}

// DrawIndexed records an indexed draw with the current pipeline.
func (c *CommandList) DrawIndexed(args DrawArgs) error {
	if err := c.drawable(); err != nil {
		return err
	}
	c.commands = append(c.commands, Command{Op: OpDrawIndexed, Pass: c.pass, Draw: args, Name: c.pipeline.Name()})
	return nil
}

// DrawFullscreen records a full-screen triangle draw with the current pipeline.
func (c *CommandList) DrawFullscreen() error {
	if err := c.drawable(); err != nil {
		return err
	}
	c.commands = append(c.commands, Command{Op: OpDrawFullscreen, Pass: c.pass, Name: c.pipeline.Name()})
	return nil
}

func (c *CommandList) drawable() error {
	if c.pass == "" {
		return ErrNoPass
	}
	if c.pipeline == nil {
		return fmt.Errorf("%w: pass %q", ErrNoPipeline, c.pass)
	}
	return nil
}

// Close verifies the list is ready for submission: no pass is open and every resource is back
// in its rest state.
//
// Returns:
//   - error: ErrPassOpen or ErrStateMismatch
func (c *CommandList) Close() error {
	if c.pass != "" {
		return fmt.Errorf("%w: %q not ended", ErrPassOpen, c.pass)
	}
	for id, s := range c.states {
		if rest := resource.RestState(id); s != rest {
			return fmt.Errorf("%w: %s left %s, rests %s", ErrStateMismatch, id, s, rest)
		}
	}
	return nil
}

// Commands returns the recorded commands in order. The slice is reused after Reset.
func (c *CommandList) Commands() []Command {
	return c.commands
}

// Passes returns the pass labels in the order they were begun.
func (c *CommandList) Passes() []string {
	return c.passes
}

// Len returns the number of recorded commands.
func (c *CommandList) Len() int {
	return len(c.commands)
}
