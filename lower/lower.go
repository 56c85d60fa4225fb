// Package lower implements the AST -> IR lowering pass of spec §4.2: it
// walks an analyzed module's function bodies and emits IR instructions
// through a code-gen cursor, one function at a time. Grounded on the
// teacher's cursor-carrying Generator (generate/generator.go: a struct
// holding the module under construction plus lookup tables, driven by a
// single entry point per package) generalized from an LLVM-module target
// to the ir.Context cursor defined in this module.
package lower

import (
	"emberc/ast"
	"emberc/ir"
	"emberc/types"
	"emberc/util"
)

// Lowerer holds the state threaded through a single module's lowering: the
// emission context (cursor, owned functions/statics), the module's string
// interner, and two lookup tables standing in for "remember the resulting
// address on the AST node" (spec §4.2 "Declarations"): since ast.Expr
// cannot hold an *ir.Instruction field without an import cycle (ir already
// imports ast for ir.Context.Module), the address and the function handle
// are instead keyed by node identity here, mirroring the source's
// pointer-to-pointer rewriting scheme used elsewhere in this module.
type Lowerer struct {
	Ctx     *ir.Context
	Strings *util.StringInterner

	addrs  map[ast.Expr]*ir.Instruction  // lvalue address of a VarDecl/param
	funcs  map[*ast.FuncDecl]*ir.Function
	topFn  *ast.FuncDecl // the module's synthetic top-level function
}

func NewLowerer(ctx *ir.Context) *Lowerer {
	return &Lowerer{
		Ctx:     ctx,
		Strings: ctx.Module.Strings,
		addrs:   make(map[ast.Expr]*ir.Instruction),
		funcs:   make(map[*ast.FuncDecl]*ir.Function),
		topFn:   ctx.Module.TopLevel,
	}
}

// LowerModule lowers every function in two passes: declare every IR
// function first (so a call to a function defined later in source order
// still resolves to a direct call), then lower each body in turn.
func (l *Lowerer) LowerModule() {
	for _, fn := range l.Ctx.Module.Funcs {
		l.declareFunc(fn)
	}
	l.declareFunc(l.topFn)

	for _, fn := range l.Ctx.Module.Funcs {
		l.LowerFunc(fn)
	}
	l.LowerFunc(l.topFn)
}

// declareFunc registers fn's IR function without lowering its body, so
// later direct-call resolution (spec §4.2 "Call": "direct call for known
// function callees") can find it regardless of declaration order.
func (l *Lowerer) declareFunc(fn *ast.FuncDecl) {
	if _, ok := l.funcs[fn]; ok {
		return
	}
	if fn.IsExtern {
		irFn := ir.NewFunction(fn.Name, fn.Signature)
		irFn.Extern = true
		l.Ctx.Functions = append(l.Ctx.Functions, irFn)
		l.funcs[fn] = irFn
		return
	}
	irFn := l.Ctx.NewFunction(fn.Name, fn.Signature)
	irFn.Global = fn.IsGlobal
	irFn.ForceInline = fn.IsForceInline
	l.funcs[fn] = irFn
}

// LowerFunc lowers fn's body (a no-op for an extern/declaration-only
// function) into the IR function declareFunc already registered.
func (l *Lowerer) LowerFunc(fn *ast.FuncDecl) {
	irFn := l.funcs[fn]
	if fn.Body == nil {
		return
	}

	l.Ctx.SetCursor(irFn, irFn.Entry())

	// Every parameter gets its own alloca so `&param` and reassignment
	// through a parameter name behave exactly like a local variable (spec
	// §4.2 "Declarations": "remember the resulting address on the AST
	// node"); the parameter's incoming IR_PARAMETER value is stored into it
	// once up front.
	for i, decl := range fn.ParamDecls {
		addr := ir.NewInstruction(ir.OpAlloca, types.NewPointer(decl.Type()))
		l.Ctx.Emit(addr)
		store := ir.NewInstruction(ir.OpStore, types.NewBuiltin(types.Void))
		ir.Use(store, addr)
		ir.Use(store, irFn.Params[i])
		l.Ctx.Emit(store)
		l.addrs[decl] = addr
	}

	l.lowerExpr(fn.Body)

	if !l.Ctx.CurBlock.Closed() {
		if types.Equal(fn.Signature.ReturnType, types.NewBuiltin(types.Void)) {
			l.Ctx.Emit(ir.NewInstruction(ir.OpReturn, types.NewBuiltin(types.Void)))
		} else {
			l.Ctx.Emit(ir.NewInstruction(ir.OpUnreachable, types.NewBuiltin(types.Void)))
		}
	}
}

// constInt emits a synthesized IMMEDIATE instruction, used for offsets and
// sizes the lowerer computes itself rather than a literal appearing in
// source (which lowers to LIT_INTEGER instead; see lowerExpr's *ast.IntLit
// case).
func (l *Lowerer) constInt(v int64, typ types.Type) *ir.Instruction {
	i := ir.NewInstruction(ir.OpImmediate, typ)
	i.ImmValue = v
	l.Ctx.Emit(i)
	return i
}

func (l *Lowerer) tctx() *types.Context {
	return l.Ctx.Target.Ctx
}
