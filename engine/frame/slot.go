package frame

// Slot is one entry of the frame ring: a command list plus the upload regions the CPU fills
// for one frame. A slot is owned by the CPU from AdvanceSlot until it is stamped, then by the
// device until its token completes.
type Slot struct {
	index int
	token Token

	// Commands is the slot's private recording context.
	Commands *CommandList

	Pass      *UploadRegion[PassConstants]
	Materials *UploadRegion[MaterialConstants]
	Instances *UploadRegion[InstanceConstants]
	Skinned   *UploadRegion[SkinnedConstants]
	Ssao      *UploadRegion[SsaoConstants]

	// materialGen[i] is the material generation last written into this slot's Materials.
	materialGen []uint64
}

func newSlot(index int, c capacities) *Slot {
	s := &Slot{
		index:       index,
		Commands:    NewCommandList(),
		Pass:        NewUploadRegion[PassConstants](PassCount),
		Materials:   NewUploadRegion[MaterialConstants](c.materials),
		Instances:   NewUploadRegion[InstanceConstants](c.instances),
		Skinned:     NewUploadRegion[SkinnedConstants](c.skinned),
		Ssao:        NewUploadRegion[SsaoConstants](1),
		materialGen: make([]uint64, c.materials),
	}
	s.Commands.slot = s
	return s
}

// Index returns the slot's position in the ring.
func (s *Slot) Index() int {
	return s.index
}

// Token returns the completion token of the slot's last submission, zero if never submitted.
func (s *Slot) Token() Token {
	return s.token
}

// MaterialGeneration returns the generation of material i last written into this slot.
// Zero means never written.
func (s *Slot) MaterialGeneration(i int) uint64 {
	if i < 0 || i >= len(s.materialGen) {
		return 0
	}
	return s.materialGen[i]
}

// SetMaterialGeneration records that material i at generation gen is now in this slot.
func (s *Slot) SetMaterialGeneration(i int, gen uint64) {
	if i >= 0 && i < len(s.materialGen) {
		s.materialGen[i] = gen
	}
}
