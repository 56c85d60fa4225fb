package optimize

import (
	"emberc/ir"
	"emberc/types"
)

// skeleton holds the per-inlining mapping tables and accumulated state of
// one call expansion (spec §4.3 steps 3-9). Unlike the small-integer id
// tables the spec's algorithm (and original_source/src/codegen/opt/
// inline.c) uses to pre-size a flat array, this maps callee instructions
// and blocks directly by pointer identity — the same approach lower/
// already uses for its address table — since Go gives us a real hash map
// instead of requiring a hand-rolled id-to-slot scheme.
type skeleton struct {
	fn     *ir.Function
	callee *ir.Function

	isTailCall bool

	blockMap map[*ir.Block]*ir.Block
	instrMap map[*ir.Instruction]*ir.Instruction

	// blocks is every caller block this expansion produced, in order;
	// blocks[0] is always the block that contained the call.
	blocks []*ir.Block

	// unattached holds pre-allocated clones not yet appended to a block;
	// any still here once expansion finishes are freed via
	// Context.MarkRemoved (spec step 10). Parameters never get a clone:
	// they map straight to the call's arguments.
	unattached []*ir.Instruction

	returnValue    *ir.Instruction // nil if the callee returns void
	returnValuePhi *ir.Instruction // non-nil only when more than one return needed joining
	returnBlock    *ir.Block
}

// newSkeleton allocates the block/instruction skeleton for inlining call
// (spec §4.3 steps 3-4): one block per callee block except the first
// (which reuses the block containing the call), and maps each callee
// parameter directly to its corresponding call argument.
func newSkeleton(fn *ir.Function, callee *ir.Function, call *ir.Instruction, callBlock *ir.Block, args []*ir.Instruction) *skeleton {
	sk := &skeleton{
		fn:         fn,
		callee:     callee,
		isTailCall: call.IsTail,
		blockMap:   make(map[*ir.Block]*ir.Block),
		instrMap:   make(map[*ir.Instruction]*ir.Instruction),
	}

	sk.blocks = append(sk.blocks, callBlock)
	sk.blockMap[callee.Blocks[0]] = callBlock
	for _, b := range callee.Blocks[1:] {
		nb := ir.NewBlock(fn, "inline."+b.Name)
		sk.blockMap[b] = nb
		sk.blocks = append(sk.blocks, nb)
	}

	for i, p := range callee.Params {
		sk.instrMap[p] = args[i]
	}

	// Pre-allocate a bare clone for every non-parameter, non-return
	// instruction up front so that any forward reference (eg. a PHI
	// argument coming from a block processed later in list order) finds
	// its mapping already populated when operands are filled in below.
	for _, b := range callee.Blocks {
		for _, inst := range b.Instructions() {
			if inst.Op == ir.OpParameter || inst.Op == ir.OpReturn {
				continue
			}
			clone := ir.NewInstruction(inst.Op, inst.Typ)
			sk.instrMap[inst] = clone
			sk.unattached = append(sk.unattached, clone)
		}
	}

	return sk
}

// cloneInstructions fills in every pre-allocated clone's payload and
// operands and appends it to its mapped block, in callee block/
// instruction order (spec §4.3 step 5). inl is used to push history
// entries for any nested direct calls (spec step 5 "Call instructions").
func cloneInstructions(inl *Inliner, sk *skeleton, historyIdx int) {
	lastBlock := sk.callee.Blocks[len(sk.callee.Blocks)-1]

	for _, b := range sk.callee.Blocks {
		target := sk.blockMap[b]
		instrs := b.Instructions()
		for idx, inst := range instrs {
			switch inst.Op {
			case ir.OpParameter:
				continue

			case ir.OpReturn:
				isLast := b == lastBlock && idx == len(instrs)-1
				cloneReturn(sk, inst, target, isLast)
				continue
			}

			clone := sk.instrMap[inst]
			copyPayload(clone, inst)

			for _, op := range inst.Operands {
				ir.Use(clone, sk.instrMap[op])
			}

			switch inst.Op {
			case ir.OpBranch:
				clone.Targets = []*ir.Block{sk.blockMap[inst.Targets[0]]}
			case ir.OpBranchConditional:
				clone.Targets = []*ir.Block{sk.blockMap[inst.Targets[0]], sk.blockMap[inst.Targets[1]]}
			case ir.OpPhi:
				for _, arg := range inst.Phis {
					ir.AddPhiArg(clone, sk.blockMap[arg.Pred], sk.instrMap[arg.Value])
				}
			case ir.OpCall:
				clone.IsTail = inst.IsTail
				clone.Func = inst.Func
				if inst.Func != nil {
					// A direct call inside the callee: record its origin
					// so a later pass can detect cycles through it (spec
					// step 5 "Call instructions ... pushed onto the
					// history with the current inlining as their parent").
					inl.history = append(inl.history, historyEntry{
						Call:        clone,
						Callee:      inst.Func,
						ParentEntry: historyIdx,
					})
				}
			case ir.OpIntrinsic:
				clone.Intrinsic = inst.Intrinsic
			}

			target.Append(clone)
			removeUnattached(sk, clone)
		}
	}
}

// copyPayload copies the opcode-specific scalar fields plain operand
// mapping doesn't cover.
func copyPayload(clone, inst *ir.Instruction) {
	clone.ImmValue = inst.ImmValue
	clone.StringIndex = inst.StringIndex
	clone.Static = inst.Static
	if inst.Op == ir.OpFuncRef {
		clone.Func = inst.Func
	}
}

// cloneReturn implements spec §4.3 step 5's Return special case.
func cloneReturn(sk *skeleton, inst *ir.Instruction, block *ir.Block, isLast bool) {
	var operand *ir.Instruction
	if len(inst.Operands) > 0 {
		operand = sk.instrMap[inst.Operands[0]]
	}

	if sk.isTailCall {
		clone := ir.NewInstruction(ir.OpReturn, inst.Typ)
		if operand != nil {
			ir.Use(clone, operand)
		}
		block.Append(clone)
		return
	}

	if sk.returnBlock == nil && isLast {
		// The callee has exactly one return and it is its very last
		// instruction: no join is needed, the call is simply replaced
		// by the returned value.
		sk.returnValue = operand
		return
	}

	if sk.returnBlock == nil {
		sk.returnBlock = ir.NewBlock(sk.fn, "inline.return")
		if sk.callee.Type.ReturnType != nil && !types.Equal(sk.callee.Type.ReturnType, types.NewBuiltin(types.Void)) {
			sk.returnValuePhi = ir.NewInstruction(ir.OpPhi, sk.callee.Type.ReturnType)
			sk.returnBlock.Append(sk.returnValuePhi)
			sk.returnValue = sk.returnValuePhi
		}
	}
	if sk.returnValuePhi != nil && operand != nil {
		ir.AddPhiArg(sk.returnValuePhi, block, operand)
	}

	br := ir.NewInstruction(ir.OpBranch, types.NewBuiltin(types.Void))
	br.Targets = []*ir.Block{sk.returnBlock}
	block.Append(br)
}

// removeUnattached drops clone from sk.unattached once it has actually
// been appended to a block, leaving only the skeleton slots that never
// got used (the original's "free unused instructions", spec step 10).
func removeUnattached(sk *skeleton, clone *ir.Instruction) {
	for i, u := range sk.unattached {
		if u == clone {
			sk.unattached = append(sk.unattached[:i], sk.unattached[i+1:]...)
			return
		}
	}
}

// finishBlocks appends the return-join block, if one was created, as the
// expansion's final block (spec step 5 "insert it after the last block").
func finishBlocks(sk *skeleton) {
	if sk.returnBlock != nil {
		sk.blocks = append(sk.blocks, sk.returnBlock)
	}
}
