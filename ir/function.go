package ir

import "emberc/types"

// CallConv enumerates calling conventions (spec §3.2 "linkage/flags... ;
// calling convention"), grounded on the teacher's ChaiCC/Win64CC pair,
// generalized to also cover the FFI convention needed by extern
// declarations.
type CallConv int

const (
	ConvDefault CallConv = iota
	ConvWin64
	ConvCDecl
)

// Function is a single IR function: a list of blocks in emission order,
// its parameter instructions, and linkage flags (spec §3.2 "IRFunction").
// Each parameter is an IR_PARAMETER instruction referenced by index, kept
// alongside Blocks rather than inside the entry block the way the
// teacher's FuncDef keeps Decl separate from Body.
type Function struct {
	Name     string
	Type     *types.FunctionType
	Blocks   []*Block
	Params   []*Instruction // IR_PARAMETER instructions, index == parameter index

	Extern     bool
	Global     bool
	ForceInline bool
	CallConv   CallConv

	counter int // per-function id generator for fresh blocks/instructions
}

func NewFunction(name string, typ *types.FunctionType) *Function {
	fn := &Function{Name: name, Type: typ}
	for i, p := range typ.Params {
		param := NewInstruction(OpParameter, p.Type)
		param.ParamIndex = i
		fn.Params = append(fn.Params, param)
	}
	return fn
}

// Entry returns the function's first block, or nil if none has been
// created yet.
func (fn *Function) Entry() *Block {
	if len(fn.Blocks) == 0 {
		return nil
	}
	return fn.Blocks[0]
}

// NewBlock creates a fresh block, appends it to the function, and assigns
// it the next scratch id.
func (fn *Function) NewBlock(name string) *Block {
	b := NewBlock(fn, name)
	b.Id = fn.nextID()
	fn.Blocks = append(fn.Blocks, b)
	return b
}

// InsertBlockAfter splices newBlocks into the function's block list
// immediately after anchor (spec §4.3 step 9: "Link the new blocks in
// order and splice them into the function's block list at the call
// site").
func (fn *Function) InsertBlockAfter(anchor *Block, newBlocks []*Block) {
	idx := -1
	for i, b := range fn.Blocks {
		if b == anchor {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic("ir: InsertBlockAfter: anchor not in function")
	}

	rest := make([]*Block, len(fn.Blocks)-idx-1)
	copy(rest, fn.Blocks[idx+1:])

	fn.Blocks = append(fn.Blocks[:idx+1], newBlocks...)
	fn.Blocks = append(fn.Blocks, rest...)
}

func (fn *Function) nextID() int {
	id := fn.counter
	fn.counter++
	return id
}

// NewInstructionID allocates a fresh scratch id for an instruction created
// within this function, eg. during inlining's skeleton-allocation pass.
func (fn *Function) NewInstructionID() int {
	return fn.nextID()
}

// InstructionCount returns the number of non-parameter instructions across
// every block, the metric the inliner compares against its threshold
// (spec §4.3 "an inlining threshold t measured in instruction count of
// the callee (excluding parameters)").
func (fn *Function) InstructionCount() int {
	n := 0
	for _, b := range fn.Blocks {
		n += b.Len()
	}
	return n
}
