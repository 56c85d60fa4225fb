package ir

import (
	"emberc/types"
)

// PhiArg is one (predecessor block, incoming value) pair of a PHI
// instruction (spec §3.2 "PHI arguments are (predecessor block, value)
// pairs").
type PhiArg struct {
	Pred  *Block
	Value *Instruction
}

// Instruction is the tagged variant over the opcode set of spec §6.3. A
// single struct carries every opcode's payload rather than one Go type per
// opcode: the inliner clones instructions generically by opcode (spec
// §4.3 step 5), which is far simpler against one shape than against N
// concrete types asserted via a type switch, and it mirrors the teacher's
// own single Instruction/OpCode/Operands shape (ir/block.go in the source
// repo this was adapted from).
type Instruction struct {
	Op    Op
	Typ   types.Type
	Block *Block // owning block, nil while on the "removed" list
	Id    int    // scratch field: renumbered per-pass (eg. cloning, printing)

	// Users is the set of instructions that read this instruction's value.
	// Maintained symmetrically with Operands by Use/Unuse (spec §3.2
	// "use list is bidirectional").
	Users map[*Instruction]struct{}

	// Operands holds the generic operand list: binary/unary operands, call
	// arguments (after Callee), store's (address, value) pair, the copy
	// source, the cast's source value.
	Operands []*Instruction

	// Opcode-specific payload. Exactly one group is populated per Op; the
	// rest stay zero.
	ImmValue    int64      // IMMEDIATE, LIT_INTEGER
	StringIndex int        // LIT_STRING: index into the module's string interner
	Static      *StaticVar // STATIC_REF
	Func        *Function  // FUNC_REF, direct CALL callee
	ParamIndex  int         // PARAMETER: index into the function's parameter list
	Intrinsic   string      // INTRINSIC name
	IsTail      bool        // CALL: tail-call flag consulted by the inliner

	Targets []*Block // BRANCH (len 1); BRANCH_CONDITIONAL (then, else)
	Phis    []PhiArg // PHI
}

// NewInstruction allocates a detached instruction (Block is nil until it
// is appended to one).
func NewInstruction(op Op, typ types.Type) *Instruction {
	return &Instruction{Op: op, Typ: typ, Users: make(map[*Instruction]struct{})}
}

// Use records that user reads the value produced by i, maintaining the
// bidirectional use/operand invariant (spec §3.2, tested by spec §8's
// universal user/operand quantifier).
func Use(user, i *Instruction) {
	user.Operands = append(user.Operands, i)
	i.Users[user] = struct{}{}
}

// AddPhiArg appends an incoming (predecessor, value) pair to phi and
// registers phi as a user of value, the PHI-specific counterpart of Use:
// a PHI's incoming values live in Phis rather than Operands, so
// constructing a PhiArg by hand bypasses the user/operand bookkeeping
// Use provides. This is the one sanctioned way to grow phi.Phis.
func AddPhiArg(phi *Instruction, pred *Block, value *Instruction) {
	phi.Phis = append(phi.Phis, PhiArg{Pred: pred, Value: value})
	Use(phi, value)
}

// Unuse removes the link added by Use. Used when an operand slot is
// rewritten (eg. replacing uses of an inlined call with its return value).
func Unuse(user, i *Instruction) {
	for idx, op := range user.Operands {
		if op == i {
			user.Operands = append(user.Operands[:idx], user.Operands[idx+1:]...)
			break
		}
	}
	delete(i.Users, user)
}

// ReplaceAllUses rewrites every user of old to instead use repl, updating
// both sides' bookkeeping (spec §8 inliner-correctness property: "uses of
// the call's value are exclusively replaced by the produced PHI or single
// return value").
func ReplaceAllUses(old, repl *Instruction) {
	for user := range old.Users {
		for idx, op := range user.Operands {
			if op == old {
				user.Operands[idx] = repl
			}
		}
		for i, arg := range user.Phis {
			if arg.Value == old {
				user.Phis[i].Value = repl
			}
		}
		repl.Users[user] = struct{}{}
	}
	old.Users = make(map[*Instruction]struct{})
}
