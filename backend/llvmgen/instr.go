package llvmgen

import (
	"fmt"

	"emberc/ir"
	"emberc/types"

	lli "github.com/llir/llvm/ir"
	llconst "github.com/llir/llvm/ir/constant"
	llenum "github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	llvalue "github.com/llir/llvm/ir/value"
)

// translateInstr translates one IR instruction into its LLVM counterpart,
// recording the produced value (if any) in b.values. The switch is
// exhaustive over spec §6.3's opcode set, so that adding an opcode without
// a case here fails loudly at translation time.
func (b *Builder) translateInstr(llBlk *lli.Block, instr *ir.Instruction) {
	switch instr.Op {
	case ir.OpImmediate, ir.OpLitInteger:
		b.values[instr] = b.constInt(instr.Typ, instr.ImmValue)

	case ir.OpLitString:
		// lower/expr.go's lowerStringLit and lowerEvaluatedConstString
		// only ever attach a LIT_STRING instruction as a StaticVar's
		// Initializer; neither calls Ctx.Emit on one, so it can never
		// appear in a block's instruction list.
		panic("llvmgen: LIT_STRING instruction reached per-block translation")

	case ir.OpStaticRef:
		b.values[instr] = b.statics[instr.Static]

	case ir.OpFuncRef:
		b.values[instr] = b.funcs[instr.Func]

	case ir.OpParameter:
		// Seeded into b.values by buildFunc before any block is visited.

	case ir.OpRegister, ir.OpCopy:
		// Neither opcode is ever emitted by this pipeline's lowerer or
		// optimizer (grep over lower/ and optimize/ turns up no
		// producer); if a future pass ever introduces one, the only
		// sensible reading of "register"/"copy" is an identity
		// passthrough of its single operand.
		b.values[instr] = b.operand(instr, 0)

	case ir.OpLoad:
		b.values[instr] = llBlk.NewLoad(convType(b.tctx, instr.Typ), b.operand(instr, 0))

	case ir.OpStore:
		llBlk.NewStore(b.operand(instr, 1), b.operand(instr, 0))

	case ir.OpAlloca:
		elem := instr.Typ.(*types.PointerType).ElemType
		b.values[instr] = llBlk.NewAlloca(convType(b.tctx, elem))

	case ir.OpPhi:
		b.deferPhi(llBlk, instr)

	case ir.OpBranch:
		llBlk.NewBr(b.blocks[instr.Targets[0]])

	case ir.OpBranchConditional:
		llBlk.NewCondBr(b.operand(instr, 0), b.blocks[instr.Targets[0]], b.blocks[instr.Targets[1]])

	case ir.OpReturn:
		if len(instr.Operands) > 0 {
			llBlk.NewRet(b.operand(instr, 0))
		} else {
			llBlk.NewRet(nil)
		}

	case ir.OpUnreachable:
		llBlk.NewUnreachable()

	case ir.OpCall:
		b.values[instr] = b.translateCall(llBlk, instr)

	case ir.OpIntrinsic:
		b.values[instr] = b.translateIntrinsic(llBlk, instr)

	case ir.OpNot:
		// LLVM has no native unary "not"; bitwise complement is `xor x,
		// -1` (every bit set), the textbook idiom for it.
		allOnes := llconst.NewInt(mustIntType(convType(b.tctx, instr.Typ)), -1)
		b.values[instr] = llBlk.NewXor(b.operand(instr, 0), allOnes)

	case ir.OpZeroExtend:
		b.values[instr] = llBlk.NewZExt(b.operand(instr, 0), convType(b.tctx, instr.Typ))
	case ir.OpSignExtend:
		b.values[instr] = llBlk.NewSExt(b.operand(instr, 0), convType(b.tctx, instr.Typ))
	case ir.OpTruncate:
		b.values[instr] = llBlk.NewTrunc(b.operand(instr, 0), convType(b.tctx, instr.Typ))
	case ir.OpBitcast:
		b.values[instr] = b.translateBitcast(llBlk, instr)

	case ir.OpAdd:
		b.values[instr] = b.translateAdd(llBlk, instr)

	case ir.OpSub:
		b.values[instr] = llBlk.NewSub(b.operand(instr, 0), b.operand(instr, 1))
	case ir.OpMul:
		b.values[instr] = llBlk.NewMul(b.operand(instr, 0), b.operand(instr, 1))
	case ir.OpDiv:
		if isSigned(instr.Operands[0].Typ) {
			b.values[instr] = llBlk.NewSDiv(b.operand(instr, 0), b.operand(instr, 1))
		} else {
			b.values[instr] = llBlk.NewUDiv(b.operand(instr, 0), b.operand(instr, 1))
		}
	case ir.OpMod:
		if isSigned(instr.Operands[0].Typ) {
			b.values[instr] = llBlk.NewSRem(b.operand(instr, 0), b.operand(instr, 1))
		} else {
			b.values[instr] = llBlk.NewURem(b.operand(instr, 0), b.operand(instr, 1))
		}
	case ir.OpShl:
		b.values[instr] = llBlk.NewShl(b.operand(instr, 0), b.operand(instr, 1))
	case ir.OpShr:
		if isSigned(instr.Operands[0].Typ) {
			b.values[instr] = llBlk.NewAShr(b.operand(instr, 0), b.operand(instr, 1))
		} else {
			b.values[instr] = llBlk.NewLShr(b.operand(instr, 0), b.operand(instr, 1))
		}
	case ir.OpSar:
		// Never emitted by this lowering — OpShr already dispatches a
		// signed right shift to an arithmetic shift itself — kept so
		// this switch covers the whole opcode set.
		b.values[instr] = llBlk.NewAShr(b.operand(instr, 0), b.operand(instr, 1))
	case ir.OpAnd:
		b.values[instr] = llBlk.NewAnd(b.operand(instr, 0), b.operand(instr, 1))
	case ir.OpOr:
		b.values[instr] = llBlk.NewOr(b.operand(instr, 0), b.operand(instr, 1))

	case ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe, ir.OpEq, ir.OpNe:
		b.values[instr] = b.translateCompare(llBlk, instr)

	default:
		panic(fmt.Sprintf("llvmgen: unhandled opcode %s", instr.Op))
	}
}

func (b *Builder) operand(instr *ir.Instruction, i int) llvalue.Value {
	return b.values[instr.Operands[i]]
}

func (b *Builder) constInt(t types.Type, v int64) llvalue.Value {
	return llconst.NewInt(mustIntType(convType(b.tctx, t)), v)
}

func mustIntType(t lltypes.Type) *lltypes.IntType {
	it, ok := t.(*lltypes.IntType)
	if !ok {
		panic("llvmgen: expected an integer type")
	}
	return it
}

// isSigned mirrors lower/cast.go's isSignedType (unexported there, so
// duplicated here rather than imported): arbitrary-width integers carry
// their own Signed flag, the builtin `int` is signed and `uint` is not,
// and an FFI type asks its own IsSigned helper; every other type (eg. a
// pointer used as a DIV/MOD operand, which sema never allows) is treated
// as unsigned.
func isSigned(t types.Type) bool {
	switch tt := t.(type) {
	case *types.IntegerType:
		return tt.Signed
	case *types.BuiltinType:
		return tt.Kind == types.Int
	case *types.FFIType:
		return tt.IsSigned()
	default:
		return false
	}
}

// translateBitcast reuses the source value directly when its LLVM type
// already equals the destination type: some of this pipeline's ADJUST_SIZE
// bitcasts (lower/cast.go's adjustSize, lower/lvalue.go's zero-offset
// member access) are same-size casts between types that convType happens
// to map onto the identical LLVM type, and a self-bitcast's validity as an
// LLVM instruction is not something this backend can assume.
func (b *Builder) translateBitcast(llBlk *lli.Block, instr *ir.Instruction) llvalue.Value {
	dst := convType(b.tctx, instr.Typ)
	src := b.operand(instr, 0)
	if src.Type().Equal(dst) {
		return src
	}
	return llBlk.NewBitCast(src, dst)
}

// translateAdd implements the ADD opcode's overload (spec's IR has one ADD
// opcode doing double duty): when the instruction's result type is a
// pointer, this is the byte-offset pointer arithmetic
// lower/lvalue.go's lowerMemberAddr/lowerSubscriptAddr and
// lower/expr.go's lowerCompoundLit emit; otherwise it is ordinary integer
// addition.
func (b *Builder) translateAdd(llBlk *lli.Block, instr *ir.Instruction) llvalue.Value {
	if _, ok := instr.Typ.(*types.PointerType); ok {
		return b.translatePointerAdd(llBlk, instr)
	}
	return llBlk.NewAdd(b.operand(instr, 0), b.operand(instr, 1))
}

// translatePointerAdd computes base+offset in bytes: bitcast the base to
// an i8 pointer, index by the byte offset, and bitcast the result to the
// destination pointer type. GEP on an i8-element type advances by exactly
// one byte per index, which is what the offset operand (itself computed
// in bytes by lowerMemberAddr/lowerSubscriptAddr) already measures in.
func (b *Builder) translatePointerAdd(llBlk *lli.Block, instr *ir.Instruction) llvalue.Value {
	base := b.operand(instr, 0)
	offset := b.operand(instr, 1)
	dst := convType(b.tctx, instr.Typ)

	bytePtr := llBlk.NewBitCast(base, lltypes.I8Ptr)
	indexed := llBlk.NewGetElementPtr(lltypes.I8, bytePtr, offset)
	return llBlk.NewBitCast(indexed, dst)
}

// translateCall implements the direct/indirect CALL split documented on
// ir.Instruction.Func: a direct call's Operands are exactly its arguments
// (Func names the callee); an indirect call's Operands[0] is the callee
// value, with Operands[1:] the arguments.
func (b *Builder) translateCall(llBlk *lli.Block, instr *ir.Instruction) llvalue.Value {
	var callee llvalue.Value
	argOperands := instr.Operands

	if instr.Func != nil {
		callee = b.funcs[instr.Func]
	} else {
		callee = b.operand(instr, 0)
		argOperands = instr.Operands[1:]
	}

	args := make([]llvalue.Value, len(argOperands))
	for i, op := range argOperands {
		args[i] = b.values[op]
	}
	return llBlk.NewCall(callee, args...)
}

// translateIntrinsic resolves an INTRINSIC instruction against a lazily
// declared external function named after the intrinsic. sema/call.go's
// analyzeIntrinsicCall resolves intrinsics "by name against a fixed
// compiler-known set" (eg. `__builtin_trap`, `__builtin_unreachable`) and
// always types the result as int; this backend mirrors that by name
// alone rather than special-casing individual intrinsics the way the
// teacher's genIntrinsic (gen_expr.go) does for its own richer set,
// since nothing past the name and argument list is available here.
func (b *Builder) translateIntrinsic(llBlk *lli.Block, instr *ir.Instruction) llvalue.Value {
	fn, ok := b.intrinsics[instr.Intrinsic]
	if !ok {
		params := make([]*lli.Param, len(instr.Operands))
		for i, op := range instr.Operands {
			params[i] = lli.NewParam("", convType(b.tctx, op.Typ))
		}
		fn = b.mod.NewFunc(instr.Intrinsic, convType(b.tctx, instr.Typ), params...)
		fn.Linkage = llenum.LinkageExternal
		b.intrinsics[instr.Intrinsic] = fn
	}

	args := make([]llvalue.Value, len(instr.Operands))
	for i, op := range instr.Operands {
		args[i] = b.values[op]
	}
	return llBlk.NewCall(fn, args...)
}

type orderedPredPair struct {
	signed, unsigned llenum.IPred
}

var orderedPreds = map[ir.Op]orderedPredPair{
	ir.OpLt: {llenum.IPredSLT, llenum.IPredULT},
	ir.OpLe: {llenum.IPredSLE, llenum.IPredULE},
	ir.OpGt: {llenum.IPredSGT, llenum.IPredUGT},
	ir.OpGe: {llenum.IPredSGE, llenum.IPredUGE},
}

// translateCompare implements the six comparison opcodes. EQ/NE need no
// sign dispatch (bit-pattern equality is sign-agnostic); the four ordered
// comparisons look at the left operand's emberc type, not instr.Typ
// (which is always the boolean result type — lower/expr.go's lowerBinary
// sets every binary instruction's Typ to the *expression's* result type,
// be.Type(), so the comparison operands' own signedness must be recovered
// from the operand instruction, not the comparison instruction itself).
func (b *Builder) translateCompare(llBlk *lli.Block, instr *ir.Instruction) llvalue.Value {
	lhs := b.operand(instr, 0)
	rhs := b.operand(instr, 1)

	var pred llenum.IPred
	switch instr.Op {
	case ir.OpEq:
		pred = llenum.IPredEQ
	case ir.OpNe:
		pred = llenum.IPredNE
	default:
		preds := orderedPreds[instr.Op]
		if isSigned(instr.Operands[0].Typ) {
			pred = preds.signed
		} else {
			pred = preds.unsigned
		}
	}
	return llBlk.NewICmp(pred, lhs, rhs)
}

// deferPhi creates llBlk's PHI node with no incoming edges yet and
// prepends it to the block's instruction list (PHIs must lead a block in
// valid LLVM IR), queuing it for finalizePhis to complete once every
// block in every function has been translated — see pendingPhi's doc
// comment for why incoming edges cannot always be resolved immediately.
func (b *Builder) deferPhi(llBlk *lli.Block, instr *ir.Instruction) {
	llPhi := &lli.InstPhi{Typ: convType(b.tctx, instr.Typ)}
	llBlk.Insts = append([]lli.Instruction{llPhi}, llBlk.Insts...)
	b.values[instr] = llPhi
	b.pendingPhis = append(b.pendingPhis, pendingPhi{llPhi: llPhi, instr: instr})
}

// finalizePhis fills in every deferred PHI's incoming (predecessor,
// value) pairs now that every block's values and every function's blocks
// have been translated, so b.values and b.blocks are complete for every
// operand a PHI could possibly reference.
func (b *Builder) finalizePhis() {
	for _, pp := range b.pendingPhis {
		incs := make([]*lli.Incoming, len(pp.instr.Phis))
		for i, arg := range pp.instr.Phis {
			incs[i] = lli.NewIncoming(b.values[arg.Value], b.blocks[arg.Pred])
		}
		pp.llPhi.Incs = incs
	}
}
