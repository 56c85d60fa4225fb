package ir

// Block is an ordered list of instructions, held in a slice, belonging to
// a Function (spec §3.2 "IRBlock"). Id is the number Function.NewBlock
// assigns; the printer and llvmgen use it to label the block. The inliner
// does not use it: its skeleton tables are maps keyed by pointer.
type Block struct {
	Func  *Function
	Id    int
	Name  string
	instr []*Instruction // list order is emission order
}

func NewBlock(fn *Function, name string) *Block {
	return &Block{Func: fn, Name: name}
}

// Instructions returns the block's instructions in list order. Callers
// must not mutate the returned slice.
func (b *Block) Instructions() []*Instruction {
	return b.instr
}

// Len returns the number of instructions currently in the block.
func (b *Block) Len() int {
	return len(b.instr)
}

// Closed reports whether the block's last instruction is a terminator
// (spec §3.2: "A block is closed iff its last instruction is a
// terminator"). An empty block is not closed.
func (b *Block) Closed() bool {
	if len(b.instr) == 0 {
		return false
	}
	return b.instr[len(b.instr)-1].Op.IsTerminator()
}

// Append adds i to the end of the block. Panics if the block is already
// closed, per spec §3.2: "Emission into a closed block is forbidden."
func (b *Block) Append(i *Instruction) {
	if b.Closed() {
		panic("ir: emission into a closed block")
	}
	i.Block = b
	b.instr = append(b.instr, i)
}

// InsertBefore splices i into the block immediately before the
// instruction at index pos. The inliner does not call it; it detaches and
// reattaches a block's tail with Split and Extend.
func (b *Block) InsertBefore(pos int, i *Instruction) {
	i.Block = b
	b.instr = append(b.instr, nil)
	copy(b.instr[pos+1:], b.instr[pos:])
	b.instr[pos] = i
}

// IndexOf returns the position of i in the block, or -1 if i is not
// present.
func (b *Block) IndexOf(i *Instruction) int {
	for idx, inst := range b.instr {
		if inst == i {
			return idx
		}
	}
	return -1
}

// Split removes every instruction from index pos (inclusive) onward and
// returns them as a detached slice (Block left nil on each); the
// instructions up to pos remain. This is the "disconnect the call and
// every instruction after it" step of inlining (spec §4.3 step 2).
func (b *Block) Split(pos int) []*Instruction {
	tail := b.instr[pos:]
	b.instr = b.instr[:pos:pos]
	for _, i := range tail {
		i.Block = nil
	}
	return tail
}

// Extend appends a batch of already-owned instructions to the block,
// re-attaching their Block pointer (the counterpart to Split, spec §4.3
// step 8: "reattach the instructions after the call").
func (b *Block) Extend(tail []*Instruction) {
	for _, i := range tail {
		i.Block = b
	}
	b.instr = append(b.instr, tail...)
}

// Predecessors returns every block in fn whose last instruction branches
// to b, used to validate the PHI/predecessor-set invariant (spec §3.2,
// §8).
func (b *Block) Predecessors() []*Block {
	var preds []*Block
	for _, other := range b.Func.Blocks {
		if !other.Closed() {
			continue
		}
		last := other.instr[len(other.instr)-1]
		for _, t := range last.Targets {
			if t == b {
				preds = append(preds, other)
				break
			}
		}
	}
	return preds
}
