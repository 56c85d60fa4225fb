package optimize

import (
	"testing"

	"emberc/ir"
	"emberc/report"
	"emberc/types"
)

// buildCallerCallee constructs `f := () { g() }` and `g := () { 42 }`: a
// single call to g, tail or
// not, as its only instruction before a return of the call's value.
func buildCallerCallee(tail bool) (*ir.Function, *ir.Function) {
	intType := types.NewBuiltin(types.Int)
	voidSig := types.NewFunction(nil, intType, types.CConvDefault, false)

	g := ir.NewFunction("g", voidSig)
	gEntry := g.NewBlock("entry")
	imm := ir.NewInstruction(ir.OpImmediate, intType)
	imm.ImmValue = 42
	imm.Id = g.NewInstructionID()
	gEntry.Append(imm)
	gRet := ir.NewInstruction(ir.OpReturn, types.NewBuiltin(types.Void))
	ir.Use(gRet, imm)
	gRet.Id = g.NewInstructionID()
	gEntry.Append(gRet)

	f := ir.NewFunction("f", voidSig)
	fEntry := f.NewBlock("entry")
	call := ir.NewInstruction(ir.OpCall, intType)
	call.Func = g
	call.IsTail = tail
	call.Id = f.NewInstructionID()
	fEntry.Append(call)
	fRet := ir.NewInstruction(ir.OpReturn, types.NewBuiltin(types.Void))
	ir.Use(fRet, call)
	fRet.Id = f.NewInstructionID()
	fEntry.Append(fRet)

	return f, g
}

func TestInlineCallReplacesReturnValue(t *testing.T) {
	f, g := buildCallerCallee(false)
	ctx := &ir.Context{Functions: []*ir.Function{f, g}}
	diag := report.NewCompilationContext("test.ember", "test.ember")

	inl := NewInliner(0, true, diag)
	res := inl.Run(ctx)
	if !res.Changed || res.Failed {
		t.Fatalf("expected a successful change, got %+v", res)
	}

	for _, b := range f.Blocks {
		for _, inst := range b.Instructions() {
			if inst.Op == ir.OpCall {
				t.Fatalf("expected no remaining call in f, found one in block %s", b.Name)
			}
		}
	}

	var ret *ir.Instruction
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions() {
			if inst.Op == ir.OpReturn {
				ret = inst
			}
		}
	}
	if ret == nil || len(ret.Operands) != 1 {
		t.Fatal("expected a return with exactly one operand after inlining")
	}
	if ret.Operands[0].Op != ir.OpImmediate || ret.Operands[0].ImmValue != 42 {
		t.Fatalf("expected the return to carry the inlined immediate 42, got %+v", ret.Operands[0])
	}
}

func TestInlineIdempotent(t *testing.T) {
	f, g := buildCallerCallee(false)
	ctx := &ir.Context{Functions: []*ir.Function{f, g}}
	diag := report.NewCompilationContext("test.ember", "test.ember")

	inl := NewInliner(0, true, diag)
	inl.Run(ctx)

	second := NewInliner(0, true, diag)
	res := second.Run(ctx)
	if res.Changed {
		t.Fatal("running the inliner again on an already-inlined module should make no further changes")
	}
}

func TestInlineCycleRefused(t *testing.T) {
	intType := types.NewBuiltin(types.Int)
	voidSig := types.NewFunction(nil, intType, types.CConvDefault, false)

	f := ir.NewFunction("f", voidSig)
	f.ForceInline = true
	entry := f.NewBlock("entry")
	call := ir.NewInstruction(ir.OpCall, intType)
	call.Func = f
	call.IsTail = false
	entry.Append(call)
	ret := ir.NewInstruction(ir.OpReturn, types.NewBuiltin(types.Void))
	ir.Use(ret, call)
	entry.Append(ret)

	ctx := &ir.Context{Functions: []*ir.Function{f}}
	diag := report.NewCompilationContext("test.ember", "test.ember")

	inl := NewInliner(RootInlineOnly, false, diag)
	res := inl.Run(ctx)
	if !res.Failed {
		t.Fatal("expected a non-tail-recursive forced inline to fail")
	}
	if !diag.HasError {
		t.Fatal("expected a user-visible error to have been reported")
	}
	if entry.Instructions()[0] != call {
		t.Fatal("the IR must be unchanged after a refused inline")
	}
}
