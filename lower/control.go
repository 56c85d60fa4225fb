package lower

import (
	"emberc/ast"
	"emberc/ir"
	"emberc/types"
)

// lowerBlock implements spec §4.2 "Block": lower children in order; the
// block's value is the last non-declaration child's value if the block is
// non-void.
func (l *Lowerer) lowerBlock(b *ast.Block) *ir.Instruction {
	var last *ir.Instruction
	for _, child := range b.Children {
		last = l.lowerExpr(child)
	}
	if types.Equal(b.Type(), types.NewBuiltin(types.Void)) {
		return nil
	}
	return last
}

// lowerIf implements spec §4.2 "If": create then/else/join blocks, emit a
// conditional branch, and if the expression is non-void, join with a PHI
// of the two arms' values.
func (l *Lowerer) lowerIf(ifExpr *ast.If) *ir.Instruction {
	fn := l.Ctx.CurFunc
	cond := l.lowerExpr(ifExpr.Cond)

	thenBlock := fn.NewBlock("if.then")
	var elseBlock, joinBlock *ir.Block
	if ifExpr.Else != nil {
		elseBlock = fn.NewBlock("if.else")
	}
	joinBlock = fn.NewBlock("if.join")

	br := ir.NewInstruction(ir.OpBranchConditional, types.NewBuiltin(types.Void))
	ir.Use(br, cond)
	if elseBlock != nil {
		br.Targets = []*ir.Block{thenBlock, elseBlock}
	} else {
		br.Targets = []*ir.Block{thenBlock, joinBlock}
	}
	l.Ctx.Emit(br)

	l.Ctx.SetCursor(fn, thenBlock)
	thenVal := l.lowerExpr(ifExpr.Then)
	lastThen := l.Ctx.CurBlock
	thenReachesJoin := !lastThen.Closed()
	if thenReachesJoin {
		l.branchTo(joinBlock)
	}

	var elseVal *ir.Instruction
	var lastElse *ir.Block
	elseReachesJoin := false
	if elseBlock != nil {
		l.Ctx.SetCursor(fn, elseBlock)
		elseVal = l.lowerExpr(ifExpr.Else)
		lastElse = l.Ctx.CurBlock
		elseReachesJoin = !lastElse.Closed()
		if elseReachesJoin {
			l.branchTo(joinBlock)
		}
	}

	l.Ctx.SetCursor(fn, joinBlock)

	if types.Equal(ifExpr.Type(), types.NewBuiltin(types.Void)) {
		return nil
	}

	// Both arms are guaranteed non-void here (spec §4.1.1 analyzeIf converts
	// both arms to a common type), so whichever arm falls through to join
	// contributes its value; an arm that instead returned/diverged
	// contributes nothing.
	phi := ir.NewInstruction(ir.OpPhi, ifExpr.Type())
	if thenReachesJoin {
		ir.AddPhiArg(phi, lastThen, thenVal)
	}
	if elseReachesJoin {
		ir.AddPhiArg(phi, lastElse, elseVal)
	}
	l.Ctx.Emit(phi)
	return phi
}

// branchTo emits an unconditional branch to target from the current
// cursor block.
func (l *Lowerer) branchTo(target *ir.Block) {
	br := ir.NewInstruction(ir.OpBranch, types.NewBuiltin(types.Void))
	br.Targets = []*ir.Block{target}
	l.Ctx.Emit(br)
}

// lowerWhile implements spec §4.2 "While": create cond/body/join blocks;
// branch to cond; conditional branch to body/join; body branches back to
// cond. A syntactically empty body omits the body block.
func (l *Lowerer) lowerWhile(w *ast.While) *ir.Instruction {
	fn := l.Ctx.CurFunc
	condBlock := fn.NewBlock("while.cond")
	joinBlock := fn.NewBlock("while.join")

	l.branchTo(condBlock)
	l.Ctx.SetCursor(fn, condBlock)
	cond := l.lowerExpr(w.Cond)

	if isEmptyBlock(w.Body) {
		br := ir.NewInstruction(ir.OpBranchConditional, types.NewBuiltin(types.Void))
		ir.Use(br, cond)
		br.Targets = []*ir.Block{condBlock, joinBlock}
		l.Ctx.Emit(br)
	} else {
		bodyBlock := fn.NewBlock("while.body")
		br := ir.NewInstruction(ir.OpBranchConditional, types.NewBuiltin(types.Void))
		ir.Use(br, cond)
		br.Targets = []*ir.Block{bodyBlock, joinBlock}
		l.Ctx.Emit(br)

		l.Ctx.SetCursor(fn, bodyBlock)
		l.lowerExpr(w.Body)
		if !l.Ctx.CurBlock.Closed() {
			l.branchTo(condBlock)
		}
	}

	l.Ctx.SetCursor(fn, joinBlock)
	return nil
}

// lowerFor implements spec §4.2 "For": init; branch to cond; conditional
// branch to body/join; body; iterator; branch back to cond; attach join.
func (l *Lowerer) lowerFor(f *ast.For) *ir.Instruction {
	fn := l.Ctx.CurFunc

	if f.Init != nil {
		l.lowerExpr(f.Init)
	}

	condBlock := fn.NewBlock("for.cond")
	bodyBlock := fn.NewBlock("for.body")
	joinBlock := fn.NewBlock("for.join")

	l.branchTo(condBlock)
	l.Ctx.SetCursor(fn, condBlock)

	if f.Cond != nil {
		cond := l.lowerExpr(f.Cond)
		br := ir.NewInstruction(ir.OpBranchConditional, types.NewBuiltin(types.Void))
		ir.Use(br, cond)
		br.Targets = []*ir.Block{bodyBlock, joinBlock}
		l.Ctx.Emit(br)
	} else {
		l.branchTo(bodyBlock)
	}

	l.Ctx.SetCursor(fn, bodyBlock)
	l.lowerExpr(f.Body)
	if f.Iterator != nil {
		l.lowerExpr(f.Iterator)
	}
	if !l.Ctx.CurBlock.Closed() {
		l.branchTo(condBlock)
	}

	l.Ctx.SetCursor(fn, joinBlock)
	return nil
}

func isEmptyBlock(e ast.Expr) bool {
	b, ok := e.(*ast.Block)
	return ok && len(b.Children) == 0
}

// lowerReturn implements spec §4.2 "Return": optionally lower the operand
// and emit a return terminator.
func (l *Lowerer) lowerReturn(r *ast.Return) *ir.Instruction {
	ret := ir.NewInstruction(ir.OpReturn, types.NewBuiltin(types.Void))
	if r.Operand != nil {
		val := l.lowerExpr(r.Operand)
		ir.Use(ret, val)
	}
	l.Ctx.Emit(ret)
	return nil
}
