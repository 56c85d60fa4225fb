package llvmgen

import (
	"fmt"

	"emberc/ir"

	lli "github.com/llir/llvm/ir"
	llconst "github.com/llir/llvm/ir/constant"
	llenum "github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
)

// declareStatic registers a global for sv, grounded on the teacher's
// genGlobalVar (gen_defs.go) generalized from "every global starts null,
// initializers run in the package init function" to this module's
// section-addressed statics (spec §6.4 "at least .text, .data, .bss"):
// an extern static becomes an external declaration with no initializer,
// a .data static gets its constant-folded initializer baked in directly
// (sema/lowering only ever produce an integer or interned-string
// initializer for a static, per mir/object.go's encodeInitializer), and a
// .bss static gets a zero initializer.
func (b *Builder) declareStatic(sv *ir.StaticVar) {
	t := convType(b.tctx, sv.Typ)

	switch sv.Section() {
	case ir.SectionNone:
		g := b.mod.NewGlobal(sv.Name, t)
		g.Linkage = llenum.LinkageExternal
		b.statics[sv] = g

	case ir.SectionData:
		g := b.mod.NewGlobalDef(sv.Name, b.staticInitializer(sv, t))
		b.statics[sv] = g

	case ir.SectionBSS:
		g := b.mod.NewGlobalDef(sv.Name, llconst.NewZeroInitializer(t))
		b.statics[sv] = g
	}
}

// staticInitializer builds the constant initializer for a .data static.
// Unlike mir/object.go's encodeInitializer, which only reserves sv's byte
// span for a LIT_STRING initializer because mir.Builder has no access to
// the module's string table, this backend can recover the real bytes
// through the context's interner (ctx.Module.Strings, threaded in here as
// b.strings) and bake the literal text directly into the module.
func (b *Builder) staticInitializer(sv *ir.StaticVar, t lltypes.Type) llconst.Constant {
	init := sv.Initializer
	switch init.Op {
	case ir.OpLitInteger, ir.OpImmediate:
		return llconst.NewInt(mustIntType(t), init.ImmValue)
	case ir.OpLitString:
		// lower/expr.go's lowerStringLit sizes the backing static as
		// len(value)+1 bytes (room for a trailing NUL), so the char
		// array initializer must include it too.
		return llconst.NewCharArrayFromString(b.strings.Lookup(init.StringIndex) + "\x00")
	default:
		panic(fmt.Sprintf("llvmgen: static %q has an unencodable initializer opcode %s", sv.Name, init.Op))
	}
}

// declareFunc builds llFn's signature and linkage/calling-convention
// flags without generating a body, grounded on the teacher's genFunc
// (gen_defs.go) annotation-driven linkage/callconv/inline switch,
// generalized from Chai's string-keyed annotation map to this module's
// Extern/Global/ForceInline/CallConv fields set directly by lowering.
func (b *Builder) declareFunc(fn *ir.Function) {
	params := make([]*lli.Param, len(fn.Type.Params))
	for i, p := range fn.Type.Params {
		params[i] = lli.NewParam(p.Name, convType(b.tctx, p.Type))
	}

	llFn := b.mod.NewFunc(fn.Name, convType(b.tctx, fn.Type.ReturnType), params...)
	llFn.Sig.Variadic = fn.Type.Variadic

	if fn.Extern || fn.Global {
		llFn.Linkage = llenum.LinkageExternal
	} else {
		llFn.Linkage = llenum.LinkageInternal
	}

	applyCallConv(llFn, fn.CallConv)

	if fn.ForceInline {
		llFn.FuncAttrs = append(llFn.FuncAttrs, llenum.FuncAttrInlineHint)
	}
	if !fn.Extern {
		// This language has no exceptions (spec never mentions unwinding),
		// so every defined function is nounwind, the same blanket rule
		// the teacher's genFunc applies ("Chai does not use exceptions in
		// any form and thus all functions are marked nounwind").
		llFn.FuncAttrs = append(llFn.FuncAttrs, llenum.FuncAttrNoUnwind)
	}

	b.funcs[fn] = llFn
}

// applyCallConv maps this module's CallConv (spec §3.2/§6.1) onto the
// teacher's own annotation-driven switch in genFunc (the "callconv"
// annotation's win64/stdcall/thiscall/c cases). ConvDefault is left as
// LLVM's zero-value calling convention rather than guessed at, since
// neither this module's spec nor the teacher's own usage ever names a
// concrete "default" LLVM calling convention constant.
func applyCallConv(llFn *lli.Func, cc ir.CallConv) {
	switch cc {
	case ir.ConvWin64:
		llFn.CallingConv = llenum.CallingConvWin64
	case ir.ConvCDecl:
		llFn.CallingConv = llenum.CallingConvC
	case ir.ConvDefault:
	}
}

// buildFunc generates llFn's body. Parameters are seeded into the value
// map before any block is visited since fn.Params are IR_PARAMETER
// instructions that never appear in any block's instruction list (they
// are referenced directly by pointer from the entry block's alloca+store
// sequence lower/lower.go's LowerFunc emits) — a walk over fn.Blocks alone
// would never discover them. Every block is created up front in list
// order (so a forward branch target always already has its LLVM
// counterpart) before any instruction is translated.
func (b *Builder) buildFunc(fn *ir.Function) {
	if fn.Extern {
		return
	}
	llFn := b.funcs[fn]

	for i, p := range fn.Params {
		b.values[p] = llFn.Params[i]
	}

	for _, blk := range fn.Blocks {
		b.blocks[blk] = llFn.NewBlock(blockName(blk))
	}

	for _, blk := range fn.Blocks {
		llBlk := b.blocks[blk]
		for _, instr := range blk.Instructions() {
			b.translateInstr(llBlk, instr)
		}
	}
}

// blockName gives every LLVM block a name unique within its function;
// blk.Id is the per-function scratch counter ir/function.go's NewBlock
// assigns, so suffixing with it disambiguates blocks lowering gave the
// same mnemonic name (eg. two sibling "if.join" blocks from two distinct
// if-expressions in the same function).
func blockName(blk *ir.Block) string {
	return fmt.Sprintf("%s.%d", blk.Name, blk.Id)
}
