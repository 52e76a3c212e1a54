// package scene holds the flat list of renderable instances a frame is built from.
// There is no hierarchy; instances refer to geometry and materials by index.
package scene

import (
	"sync"

	"github.com/google/uuid"
)

// Scene is an ordered collection of instances. Order is traversal order for culling, so
// culler slot assignment follows insertion order.
type Scene interface {
	// Name returns the scene's name.
	Name() string

	// Active reports whether the scene is rendered.
	Active() bool

	// SetActive switches rendering of the scene on or off.
	SetActive(active bool)

	// Add appends inst and returns its index. An instance with a nil ID is assigned a new one.
	//
	// Parameters:
	//   - inst: the instance to add
	//
	// Returns:
	//   - int: the index of the new instance
	Add(inst Instance) int

	// Remove deletes the instance with the given ID, preserving the order of the rest.
	//
	// Parameters:
	//   - id: the instance ID
	//
	// Returns:
	//   - bool: false if no instance has that ID
	Remove(id uuid.UUID) bool

	// Find returns the index of the instance with the given ID.
	Find(id uuid.UUID) (int, bool)

	// Instance returns a pointer to instance i for in-place edits, or nil if out of range.
	// The pointer is invalidated by Add and Remove.
	Instance(i int) *Instance

	// SetWorld replaces the world transform of instance i.
	SetWorld(i int, world [16]float32) bool

	// Instances returns the backing slice. The frame driver reads and writes it during a tick,
	// so it must not be retained across Add or Remove.
	Instances() []Instance

	// Len returns the number of instances.
	Len() int

	// Lock and Unlock serialize structural edits against a running tick.
	Lock()
	Unlock()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.Mutex

	name   string
	active bool

	instances []Instance
	index     map[uuid.UUID]int
}

var _ Scene = &scene{}

// NewScene creates an empty, active scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:     &sync.Mutex{},
		name:   name,
		active: true,
		index:  make(map[uuid.UUID]int),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Active() bool {
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.active = active
}

func (s *scene) Add(inst Instance) int {
	if inst.ID == uuid.Nil {
		inst.ID = uuid.New()
	}
	inst.Visible = false
	s.instances = append(s.instances, inst)
	idx := len(s.instances) - 1
	s.index[inst.ID] = idx
	return idx
}

func (s *scene) Remove(id uuid.UUID) bool {
	idx, ok := s.index[id]
	if !ok {
		return false
	}
	s.instances = append(s.instances[:idx], s.instances[idx+1:]...)
	delete(s.index, id)
	for i := idx; i < len(s.instances); i++ {
		s.index[s.instances[i].ID] = i
	}
	return true
}

func (s *scene) Find(id uuid.UUID) (int, bool) {
	idx, ok := s.index[id]
	return idx, ok
}

func (s *scene) Instance(i int) *Instance {
	if i < 0 || i >= len(s.instances) {
		return nil
	}
	return &s.instances[i]
}

func (s *scene) SetWorld(i int, world [16]float32) bool {
	inst := s.Instance(i)
	if inst == nil {
		return false
	}
	inst.World = world
	return true
}

func (s *scene) Instances() []Instance {
	return s.instances
}

func (s *scene) Len() int {
	return len(s.instances)
}

func (s *scene) Lock() {
	s.mu.Lock()
}

func (s *scene) Unlock() {
	s.mu.Unlock()
}
