package ir

import (
	"testing"

	"emberc/types"
)

func buildArithmeticFunction() *Function {
	sig := types.NewFunction(nil, types.NewBuiltin(types.Int), types.CConvDefault, false)
	fn := NewFunction("main", sig)
	b := fn.NewBlock("entry")

	two := NewInstruction(OpImmediate, types.NewBuiltin(types.Int))
	two.ImmValue = 2
	three := NewInstruction(OpImmediate, types.NewBuiltin(types.Int))
	three.ImmValue = 3
	four := NewInstruction(OpImmediate, types.NewBuiltin(types.Int))
	four.ImmValue = 4

	mul := NewInstruction(OpMul, types.NewBuiltin(types.Int))
	Use(mul, three)
	Use(mul, four)

	add := NewInstruction(OpAdd, types.NewBuiltin(types.Int))
	Use(add, two)
	Use(add, mul)

	ret := NewInstruction(OpReturn, types.NewBuiltin(types.Void))
	Use(ret, add)

	for _, i := range []*Instruction{two, three, four, mul, add, ret} {
		i.Id = fn.NewInstructionID()
		b.Append(i)
	}

	return fn
}

func TestUseDefBidirectional(t *testing.T) {
	fn := buildArithmeticFunction()
	for _, b := range fn.Blocks {
		for _, instr := range b.Instructions() {
			for _, operand := range instr.Operands {
				if _, ok := operand.Users[instr]; !ok {
					t.Fatalf("instruction %%%d uses %%%d but is missing from its user set", instr.Id, operand.Id)
				}
			}
		}
	}
}

func TestBlockClosedRequiresTerminator(t *testing.T) {
	fn := NewFunction("f", types.NewFunction(nil, types.NewBuiltin(types.Void), types.CConvDefault, false))
	b := fn.NewBlock("entry")
	if b.Closed() {
		t.Fatal("empty block must not be considered closed")
	}

	b.Append(NewInstruction(OpReturn, types.NewBuiltin(types.Void)))
	if !b.Closed() {
		t.Fatal("block ending in a return must be closed")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic emitting into a closed block")
		}
	}()
	b.Append(NewInstruction(OpReturn, types.NewBuiltin(types.Void)))
}

func TestReplaceAllUses(t *testing.T) {
	fn := buildArithmeticFunction()
	var add, ret *Instruction
	for _, instr := range fn.Blocks[0].Instructions() {
		switch instr.Op {
		case OpAdd:
			add = instr
		case OpReturn:
			ret = instr
		}
	}

	repl := NewInstruction(OpImmediate, types.NewBuiltin(types.Int))
	repl.ImmValue = 14
	ReplaceAllUses(add, repl)

	if ret.Operands[0] != repl {
		t.Fatalf("expected return operand to be replaced, got %%%d", ret.Operands[0].Id)
	}
	if len(add.Users) != 0 {
		t.Fatal("old instruction's user set should be empty after ReplaceAllUses")
	}
}

func TestPrintParseRoundTrip(t *testing.T) {
	fn := buildArithmeticFunction()
	text := Print(fn)

	parsed, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	reprinted := Print(parsed)
	if text != reprinted {
		t.Fatalf("round-trip mismatch:\n--- original ---\n%s\n--- reprinted ---\n%s", text, reprinted)
	}
}
