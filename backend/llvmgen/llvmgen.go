// Package llvmgen is an alternate backend that translates a lowered,
// optimized ir.Context directly into LLVM IR via github.com/llir/llvm,
// standing alongside mir's GenericObject backend (spec §4.4 names "the
// backend" as a collaborator without requiring a single output format).
// Grounded on the teacher's generate package (bootstrap/generate/
// generator.go's Generator struct converting one source package into a
// single *ir.Module via a declare-then-generate-bodies two-pass Generate())
// adapted from Chai's typing.DataType/ast.Expr walk to this module's
// ir.Context block graph.
package llvmgen

import (
	"emberc/ir"
	"emberc/types"
	"emberc/util"

	lli "github.com/llir/llvm/ir"
	llvalue "github.com/llir/llvm/ir/value"
)

// pendingPhi is a PHI instruction whose incoming edges could not be
// resolved at translation time because at least one incoming value lives
// in a block that appears later in its function's block list (spec
// §3.2's PHI arguments are (predecessor, value) pairs, but list order is
// emission order, not dominance order — see lower/control.go's lowerIf,
// which creates then/else/join blocks up front before lowering bodies
// that may themselves append further blocks after join). Builder resolves
// every pendingPhi in one final pass after all of a context's functions
// have been translated.
type pendingPhi struct {
	llPhi *lli.InstPhi
	instr *ir.Instruction
}

// Builder assembles a single LLVM module from an ir.Context, the
// counterpart of the teacher's Generator assembling one *ir.Module per
// Chai package. Unlike the teacher's per-package Generator, a Builder is
// reused across a whole context's functions and statics since this
// specification's lowering already produces one flat ir.Context for an
// entire program (spec §3.2's Context, not the teacher's per-package
// split).
type Builder struct {
	tctx    *types.Context
	strings *util.StringInterner
	mod     *lli.Module

	funcs      map[*ir.Function]*lli.Func
	statics    map[*ir.StaticVar]*lli.Global
	blocks     map[*ir.Block]*lli.Block
	values     map[*ir.Instruction]llvalue.Value
	intrinsics map[string]*lli.Func

	pendingPhis []pendingPhi
}

// NewBuilder creates a Builder targeting tctx (spec §4.4's "target
// description" supplies the pointer width every Size/Align call needs).
func NewBuilder(tctx *types.Context) *Builder {
	return &Builder{
		tctx:       tctx,
		mod:        lli.NewModule(),
		funcs:      make(map[*ir.Function]*lli.Func),
		statics:    make(map[*ir.StaticVar]*lli.Global),
		blocks:     make(map[*ir.Block]*lli.Block),
		values:     make(map[*ir.Instruction]llvalue.Value),
		intrinsics: make(map[string]*lli.Func),
	}
}

// Build translates every static and function owned by ctx into b's
// module and returns it. Statics and function signatures are declared
// before any body is generated (mirroring the teacher's visitDef/
// genForwardDecl ordering, which exists there to let a recursive
// definition forward-reference itself); here the depm/resolve/sema
// pipeline has already settled declaration order, so the declare pass is
// a flat walk rather than the teacher's dependency-graph recursion.
func (b *Builder) Build(ctx *ir.Context) *lli.Module {
	b.strings = ctx.Module.Strings

	for _, sv := range ctx.Statics {
		b.declareStatic(sv)
	}
	for _, fn := range ctx.Functions {
		b.declareFunc(fn)
	}
	for _, fn := range ctx.Functions {
		b.buildFunc(fn)
	}
	b.finalizePhis()

	return b.mod
}
