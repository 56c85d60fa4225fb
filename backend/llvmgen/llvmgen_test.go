package llvmgen

import (
	"strings"
	"testing"

	"emberc/ast"
	"emberc/ir"
	"emberc/report"
	"emberc/types"
)

func newTestContext() *ir.Context {
	diag := report.NewCompilationContext("test.mb", "test")
	mod := ast.NewModule("test", "test.mb", ast.NewScope(nil), diag)
	return ir.NewContext(mod, ir.TargetDesc{Format: "ir", Ctx: types.DefaultContext}, diag)
}

// buildAddFunction mirrors ir_test.go's buildArithmeticFunction shape: a
// function computing 2 + (3 * 4) and returning it, used here to exercise
// ordinary (non-pointer) ADD translation end to end.
func buildAddFunction(ctx *ir.Context) *ir.Function {
	sig := types.NewFunction(nil, types.NewBuiltin(types.Int), types.CConvDefault, false)
	fn := ctx.NewFunction("add_example", sig)
	b := fn.Entry()

	two := ir.NewInstruction(ir.OpImmediate, types.NewBuiltin(types.Int))
	two.ImmValue = 2
	three := ir.NewInstruction(ir.OpImmediate, types.NewBuiltin(types.Int))
	three.ImmValue = 3
	four := ir.NewInstruction(ir.OpImmediate, types.NewBuiltin(types.Int))
	four.ImmValue = 4

	mul := ir.NewInstruction(ir.OpMul, types.NewBuiltin(types.Int))
	ir.Use(mul, three)
	ir.Use(mul, four)

	add := ir.NewInstruction(ir.OpAdd, types.NewBuiltin(types.Int))
	ir.Use(add, two)
	ir.Use(add, mul)

	ret := ir.NewInstruction(ir.OpReturn, types.NewBuiltin(types.Void))
	ir.Use(ret, add)

	for _, i := range []*ir.Instruction{two, three, four, mul, add, ret} {
		i.Id = fn.NewInstructionID()
		b.Append(i)
	}

	return fn
}

func TestBuildTranslatesFunctionSignature(t *testing.T) {
	ctx := newTestContext()
	buildAddFunction(ctx)

	b := NewBuilder(types.DefaultContext)
	mod := b.Build(ctx)

	if len(mod.Funcs) != 1 {
		t.Fatalf("expected exactly one function in the module, got %d", len(mod.Funcs))
	}
	fn := mod.Funcs[0]
	if fn.Name() != "add_example" {
		t.Fatalf("expected function named %q, got %q", "add_example", fn.Name())
	}
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected exactly one block, got %d", len(fn.Blocks))
	}
}

// buildPointerAddFunction builds a single instruction computing a byte
// offset from a pointer parameter, the same shape lower/lvalue.go's
// lowerMemberAddr produces for a struct field access, to exercise the
// ADD opcode's pointer-vs-integer overload discriminator (instr.Typ being
// a *types.PointerType).
func buildPointerAddFunction(ctx *ir.Context) (*ir.Function, *ir.Instruction) {
	byteType := types.NewBuiltin(types.Byte)
	ptrType := types.NewPointer(byteType)

	sig := types.NewFunction(
		[]types.FuncParam{{Name: "p", Type: ptrType}},
		ptrType,
		types.CConvDefault,
		false,
	)
	fn := ctx.NewFunction("field_addr", sig)
	b := fn.Entry()

	offset := ir.NewInstruction(ir.OpImmediate, types.NewBuiltin(types.Int))
	offset.ImmValue = 8

	fieldAddr := ir.NewInstruction(ir.OpAdd, ptrType)
	ir.Use(fieldAddr, fn.Params[0])
	ir.Use(fieldAddr, offset)

	ret := ir.NewInstruction(ir.OpReturn, ptrType)
	ir.Use(ret, fieldAddr)

	for _, i := range []*ir.Instruction{offset, fieldAddr, ret} {
		i.Id = fn.NewInstructionID()
		b.Append(i)
	}

	return fn, fieldAddr
}

func TestPointerAddTranslation(t *testing.T) {
	ctx := newTestContext()
	buildPointerAddFunction(ctx)

	b := NewBuilder(types.DefaultContext)
	b.Build(ctx)

	if len(b.pendingPhis) != 0 {
		t.Fatal("pointer-add function should not produce any PHI nodes")
	}
}

func TestDeclareStaticAllThreeSections(t *testing.T) {
	ctx := newTestContext()

	extern := ctx.NewStatic("imported_counter", types.NewBuiltin(types.Int))
	extern.Extern = true

	dataInit := ir.NewInstruction(ir.OpImmediate, types.NewBuiltin(types.Int))
	dataInit.ImmValue = 42
	data := ctx.NewStatic("answer", types.NewBuiltin(types.Int))
	data.Initializer = dataInit

	uninitialized := ctx.NewStatic("scratch", types.NewBuiltin(types.Int))

	b := NewBuilder(types.DefaultContext)
	mod := b.Build(ctx)

	if len(mod.Globals) != 3 {
		t.Fatalf("expected 3 globals, got %d", len(mod.Globals))
	}

	if _, ok := b.statics[extern]; !ok {
		t.Fatal("extern static not registered")
	}
	if _, ok := b.statics[data]; !ok {
		t.Fatal("data static not registered")
	}
	if _, ok := b.statics[uninitialized]; !ok {
		t.Fatal("bss static not registered")
	}
}

func TestStaticInitializerStringAppendsNUL(t *testing.T) {
	ctx := newTestContext()
	idx := ctx.Module.Strings.Intern("hi")

	strInit := ir.NewInstruction(ir.OpLitString, types.NewArray(types.NewBuiltin(types.Byte), 3))
	strInit.StringIndex = idx
	sv := ctx.NewStatic("greeting", strInit.Typ)
	sv.Initializer = strInit

	b := NewBuilder(types.DefaultContext)
	b.Build(ctx)

	g := b.statics[sv]
	arr, ok := g.Init.(interface{ String() string })
	if !ok {
		t.Fatalf("expected char array initializer, got %T", g.Init)
	}
	// The char array renders with non-printable bytes hex-escaped, so a
	// trailing NUL shows up as `\00` right after the string's bytes.
	if !strings.Contains(arr.String(), `c"hi\00"`) {
		t.Fatalf("expected a NUL-terminated \"hi\" initializer, got %s", arr.String())
	}
}

// buildNestedIfFunction mirrors lower/control.go's lowerIf block-creation
// order (then/else/join created up front, before either arm's body is
// lowered) with a second if nested inside the then-arm, so the nested
// if's blocks are appended to the function after the outer join block —
// the exact scenario the three-pass PHI-deferral scheme exists for.
func buildNestedIfFunction(ctx *ir.Context) *ir.Function {
	intType := types.NewBuiltin(types.Int)
	sig := types.NewFunction(
		[]types.FuncParam{{Name: "cond", Type: types.NewBuiltin(types.Bool)}},
		intType,
		types.CConvDefault,
		false,
	)
	fn := ctx.NewFunction("nested_if", sig)
	entry := fn.Entry()

	thenBlock := fn.NewBlock("if.then")
	elseBlock := fn.NewBlock("if.else")
	joinBlock := fn.NewBlock("if.join")

	condBr := ir.NewInstruction(ir.OpBranchConditional, types.NewBuiltin(types.Void))
	ir.Use(condBr, fn.Params[0])
	condBr.Targets = []*ir.Block{thenBlock, elseBlock}
	condBr.Id = fn.NewInstructionID()
	entry.Append(condBr)

	// Nested if inside the then-arm: its own then/join blocks get
	// appended after the outer joinBlock in fn.Blocks.
	innerThen := fn.NewBlock("if.then")
	innerJoin := fn.NewBlock("if.join")

	zeroVal := ir.NewInstruction(ir.OpImmediate, intType)
	zeroVal.ImmValue = 0
	zeroVal.Id = fn.NewInstructionID()
	thenBlock.Append(zeroVal)

	innerCond := ir.NewInstruction(ir.OpBranchConditional, types.NewBuiltin(types.Void))
	ir.Use(innerCond, fn.Params[0])
	innerCond.Targets = []*ir.Block{innerThen, innerJoin}
	innerCond.Id = fn.NewInstructionID()
	thenBlock.Append(innerCond)

	innerVal := ir.NewInstruction(ir.OpImmediate, intType)
	innerVal.ImmValue = 1
	innerVal.Id = fn.NewInstructionID()
	innerThen.Append(innerVal)

	innerBr := ir.NewInstruction(ir.OpBranch, types.NewBuiltin(types.Void))
	innerBr.Targets = []*ir.Block{innerJoin}
	innerBr.Id = fn.NewInstructionID()
	innerThen.Append(innerBr)

	innerPhi := ir.NewInstruction(ir.OpPhi, intType)
	innerPhi.Phis = []ir.PhiArg{
		{Pred: thenBlock, Value: zeroVal},
		{Pred: innerThen, Value: innerVal},
	}
	innerPhi.Id = fn.NewInstructionID()
	innerJoin.Append(innerPhi)

	innerJoinBr := ir.NewInstruction(ir.OpBranch, types.NewBuiltin(types.Void))
	innerJoinBr.Targets = []*ir.Block{joinBlock}
	innerJoinBr.Id = fn.NewInstructionID()
	innerJoin.Append(innerJoinBr)

	elseVal := ir.NewInstruction(ir.OpImmediate, intType)
	elseVal.ImmValue = 2
	elseVal.Id = fn.NewInstructionID()
	elseBlock.Append(elseVal)

	elseBr := ir.NewInstruction(ir.OpBranch, types.NewBuiltin(types.Void))
	elseBr.Targets = []*ir.Block{joinBlock}
	elseBr.Id = fn.NewInstructionID()
	elseBlock.Append(elseBr)

	// The outer join's PHI has an incoming edge from innerJoin, a block
	// that appears AFTER joinBlock itself in fn.Blocks — this is the
	// out-of-order edge the deferral scheme must resolve correctly.
	outerPhi := ir.NewInstruction(ir.OpPhi, intType)
	outerPhi.Phis = []ir.PhiArg{
		{Pred: innerJoin, Value: innerPhi},
		{Pred: elseBlock, Value: elseVal},
	}
	outerPhi.Id = fn.NewInstructionID()
	joinBlock.Append(outerPhi)

	ret := ir.NewInstruction(ir.OpReturn, intType)
	ir.Use(ret, outerPhi)
	ret.Id = fn.NewInstructionID()
	joinBlock.Append(ret)

	return fn
}

func TestNestedIfPhiFinalization(t *testing.T) {
	ctx := newTestContext()
	fn := buildNestedIfFunction(ctx)

	b := NewBuilder(types.DefaultContext)
	b.Build(ctx)

	llFn := b.funcs[fn]
	if len(llFn.Blocks) != 6 {
		t.Fatalf("expected 6 blocks (entry, then, else, join, inner then, inner join), got %d", len(llFn.Blocks))
	}
	if len(b.pendingPhis) != 2 {
		t.Fatalf("expected 2 deferred phis, got %d", len(b.pendingPhis))
	}

	for _, pp := range b.pendingPhis {
		if len(pp.llPhi.Incs) != 2 {
			t.Fatalf("expected phi to have 2 resolved incoming edges, got %d", len(pp.llPhi.Incs))
		}
		for _, inc := range pp.llPhi.Incs {
			if inc.X == nil || inc.Pred == nil {
				t.Fatal("phi incoming edge left unresolved (nil value or predecessor)")
			}
		}
	}
}
