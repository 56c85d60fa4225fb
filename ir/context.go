package ir

import (
	"emberc/ast"
	"emberc/report"
	"emberc/types"
)

// Section enumerates the object-file sections a static or function
// symbol can live in (spec §6.4 "at least .text, .data, .bss"), grounded
// on the teacher's SectionText/SectionData/SectionBSS trio in its Bundle
// type.
type Section int

const (
	SectionText Section = iota
	SectionData
	SectionBSS
	SectionNone // external symbol; has no offset (spec §6.4)
)

// TargetDesc describes the compilation target consulted by lowering and
// the backend (spec §3.2 "target description (format, calling convention,
// assembly dialect)").
type TargetDesc struct {
	Format          string // "x86_64-gas", "ir" or "llvm-ir" (spec §6.1)
	CallConv        CallConv
	AssemblyDialect string
	Ctx             *types.Context
}

// Context owns every function and static variable produced from a single
// AST module, the emission cursor used by lowering, and instructions that
// have been detached but not yet freed (spec §3.2 "CodegenContext").
type Context struct {
	Module *ast.Module
	Target TargetDesc

	Functions []*Function
	Statics   []*StaticVar

	// cursor
	CurFunc  *Function
	CurBlock *Block

	// Removed holds instructions detached from any block (eg. by
	// Block.Split during inlining) awaiting final disposal at teardown
	// (spec §3.2 "a list of instructions removed but not yet freed").
	Removed []*Instruction

	Diag *report.CompilationContext
}

func NewContext(mod *ast.Module, target TargetDesc, diag *report.CompilationContext) *Context {
	return &Context{Module: mod, Target: target, Diag: diag}
}

// NewFunction creates a function, registers it on the context, and makes
// it the emission cursor's current function with a fresh entry block.
func (c *Context) NewFunction(name string, typ *types.FunctionType) *Function {
	fn := NewFunction(name, typ)
	c.Functions = append(c.Functions, fn)
	entry := fn.NewBlock("entry")
	c.SetCursor(fn, entry)
	return fn
}

// NewStatic creates a static variable and registers it on the context.
func (c *Context) NewStatic(name string, typ types.Type) *StaticVar {
	sv := NewStaticVar(name, typ)
	c.Statics = append(c.Statics, sv)
	return sv
}

// SetCursor moves the emission cursor to the given function/block pair.
func (c *Context) SetCursor(fn *Function, b *Block) {
	c.CurFunc = fn
	c.CurBlock = b
}

// Emit appends i to the current block via the cursor.
func (c *Context) Emit(i *Instruction) {
	c.CurBlock.Append(i)
}

// MarkRemoved detaches i's block reference (if any) and adds it to the
// removed list. The inliner uses this for skeleton instructions that end
// up unattached (spec §4.3 step 10).
func (c *Context) MarkRemoved(i *Instruction) {
	i.Block = nil
	c.Removed = append(c.Removed, i)
}

// Teardown releases every instruction owned directly or indirectly by the
// context (spec §3.2 Lifecycle: "on teardown the context deletes every
// instruction in every block, every static, and the removed list"). In Go
// this just drops references so the garbage collector can reclaim them;
// Teardown exists to make the ownership boundary explicit and to give a
// single place a future non-GC resource (eg. a memory-mapped object
// buffer) would be released.
func (c *Context) Teardown() {
	c.Functions = nil
	c.Statics = nil
	c.Removed = nil
	c.CurFunc = nil
	c.CurBlock = nil
}
