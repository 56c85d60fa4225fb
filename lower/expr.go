package lower

import (
	"emberc/ast"
	"emberc/ir"
	"emberc/types"
)

// lowerExpr implements the rvalue half of spec §4.2's lvalue rule: for an
// lvalue-category node it lowers the address then loads it; otherwise it
// dispatches straight to the value-producing rule for that expression kind.
func (l *Lowerer) lowerExpr(e ast.Expr) *ir.Instruction {
	switch e.(type) {
	case *ast.VarDecl, *ast.FuncDecl, *ast.TypeDecl, *ast.EnumeratorDecl:
		// Declarations carry Category() == LValue so a later NameRef to the
		// declared name can be lowered as an address, but the declaration
		// node itself is never read as an addressable value in the
		// position it occurs (spec §4.2 "Block": declarations are excluded
		// from being a block's representative value); lower it directly.
		return l.lowerRValue(e)
	}

	if e.Category() == ast.LValue {
		addr := l.lowerLvalue(e)
		load := ir.NewInstruction(ir.OpLoad, e.Type())
		ir.Use(load, addr)
		l.Ctx.Emit(load)
		return load
	}
	return l.lowerRValue(e)
}

func (l *Lowerer) lowerRValue(e ast.Expr) *ir.Instruction {
	switch v := e.(type) {
	case *ast.IntLit:
		i := ir.NewInstruction(ir.OpLitInteger, e.Type())
		i.ImmValue = v.Value
		l.Ctx.Emit(i)
		return i

	case *ast.StringLit:
		return l.lowerStringLit(v)

	case *ast.CompoundLit:
		return l.lowerCompoundLit(v)

	case *ast.EvaluatedConst:
		if v.IsString {
			return l.lowerEvaluatedConstString(v)
		}
		i := ir.NewInstruction(ir.OpLitInteger, e.Type())
		i.ImmValue = v.IntValue
		l.Ctx.Emit(i)
		return i

	case *ast.NameRef:
		fd, ok := v.Decl.(*ast.FuncDecl)
		if !ok {
			panic("lower: rvalue NameRef must resolve to a function")
		}
		i := ir.NewInstruction(ir.OpFuncRef, e.Type())
		i.Func = l.funcs[fd]
		l.Ctx.Emit(i)
		return i

	case *ast.BinaryExpr:
		return l.lowerBinary(v)

	case *ast.UnaryExpr:
		return l.lowerUnary(v)

	case *ast.Cast:
		return l.lowerCast(v)

	case *ast.MemberAccess:
		// ma.Category() mirrors its object's category; an rvalue object
		// (eg. a temporary struct) is still addressable via addressOf, so
		// the field is loaded from that materialized address.
		addr := l.lowerMemberAddr(v)
		load := ir.NewInstruction(ir.OpLoad, v.Type())
		ir.Use(load, addr)
		l.Ctx.Emit(load)
		return load

	case *ast.Call:
		return l.lowerCall(v)

	case *ast.IntrinsicCall:
		return l.lowerIntrinsicCall(v)

	case *ast.If:
		return l.lowerIf(v)
	case *ast.While:
		return l.lowerWhile(v)
	case *ast.For:
		return l.lowerFor(v)
	case *ast.Block:
		return l.lowerBlock(v)
	case *ast.Return:
		return l.lowerReturn(v)

	case *ast.VarDecl:
		l.lowerVarDecl(v)
		return nil

	case *ast.Sizeof:
		te := v.Operand.(*ast.TypeExpr)
		return l.constInt(int64(te.Denoted.Size(l.tctx())), types.NewBuiltin(types.Int))
	case *ast.Alignof:
		te := v.Operand.(*ast.TypeExpr)
		return l.constInt(int64(te.Denoted.Align(l.tctx())), types.NewBuiltin(types.Int))

	case *ast.FuncDecl:
		l.LowerFunc(v)
		return nil

	default:
		panic("lower: unhandled expression kind in lowerRValue")
	}
}

func (l *Lowerer) lowerBinary(be *ast.BinaryExpr) *ir.Instruction {
	switch be.Op {
	case ast.OpAssign:
		addr := l.lowerLvalue(be.Lhs)
		val := l.lowerExpr(be.Rhs)
		store := ir.NewInstruction(ir.OpStore, types.NewBuiltin(types.Void))
		ir.Use(store, addr)
		ir.Use(store, val)
		l.Ctx.Emit(store)
		return val

	case ast.OpSubscript:
		addr := l.lowerSubscriptAddr(be)
		load := ir.NewInstruction(ir.OpLoad, be.Type())
		ir.Use(load, addr)
		l.Ctx.Emit(load)
		return load
	}

	lhs := l.lowerExpr(be.Lhs)
	rhs := l.lowerExpr(be.Rhs)

	op, ok := binOpcode[be.Op]
	if !ok {
		panic("lower: unhandled binary operator")
	}
	i := ir.NewInstruction(op, be.Type())
	ir.Use(i, lhs)
	ir.Use(i, rhs)
	l.Ctx.Emit(i)
	return i
}

var binOpcode = map[ast.BinOp]ir.Op{
	ast.OpAdd:   ir.OpAdd,
	ast.OpSub:   ir.OpSub,
	ast.OpMul:   ir.OpMul,
	ast.OpDiv:   ir.OpDiv,
	ast.OpMod:   ir.OpMod,
	ast.OpShl:   ir.OpShl,
	ast.OpShr:   ir.OpShr,
	ast.OpBWAnd: ir.OpAnd,
	ast.OpBWOr:  ir.OpOr,
	ast.OpLt:    ir.OpLt,
	ast.OpLe:    ir.OpLe,
	ast.OpGt:    ir.OpGt,
	ast.OpGe:    ir.OpGe,
	ast.OpEq:    ir.OpEq,
	ast.OpNe:    ir.OpNe,
}

func (l *Lowerer) lowerUnary(ue *ast.UnaryExpr) *ir.Instruction {
	switch ue.Op {
	case ast.OpAddr:
		return l.lowerLvalue(ue.Operand)

	case ast.OpDeref:
		// Reached only when a deref's result is itself consumed as an
		// rvalue elsewhere in lowerRValue (eg. `@p` as a call argument);
		// the generic lvalue-category branch in lowerExpr already handles
		// the common case, so this path only covers an explicit rvalue
		// request for symmetry.
		addr := l.lowerExpr(ue.Operand)
		load := ir.NewInstruction(ir.OpLoad, ue.Type())
		ir.Use(load, addr)
		l.Ctx.Emit(load)
		return load

	case ast.OpBWNot:
		operand := l.lowerExpr(ue.Operand)
		i := ir.NewInstruction(ir.OpNot, ue.Type())
		ir.Use(i, operand)
		l.Ctx.Emit(i)
		return i

	case ast.OpNeg:
		operand := l.lowerExpr(ue.Operand)
		zero := l.constInt(0, ue.Type())
		i := ir.NewInstruction(ir.OpSub, ue.Type())
		ir.Use(i, zero)
		ir.Use(i, operand)
		l.Ctx.Emit(i)
		return i

	case ast.OpPos:
		return l.lowerExpr(ue.Operand)

	default:
		panic("lower: unhandled unary operator")
	}
}

func (l *Lowerer) lowerCall(call *ast.Call) *ir.Instruction {
	i := ir.NewInstruction(ir.OpCall, call.Type())
	i.IsTail = call.IsTail

	if call.IsDirect {
		ref := call.Callee.(*ast.NameRef)
		fd := ref.Decl.(*ast.FuncDecl)
		i.Func = l.funcs[fd]
	} else {
		callee := l.lowerExpr(call.Callee)
		ir.Use(i, callee)
	}

	for _, arg := range call.Args {
		ir.Use(i, l.lowerExpr(arg))
	}

	l.Ctx.Emit(i)
	return i
}

func (l *Lowerer) lowerIntrinsicCall(ic *ast.IntrinsicCall) *ir.Instruction {
	i := ir.NewInstruction(ir.OpIntrinsic, ic.Type())
	i.Intrinsic = ic.Name
	for _, arg := range ic.Args {
		ir.Use(i, l.lowerExpr(arg))
	}
	l.Ctx.Emit(i)
	return i
}

func (l *Lowerer) lowerStringLit(sl *ast.StringLit) *ir.Instruction {
	idx := l.Strings.Intern(sl.Value)
	static := l.Ctx.NewStatic("", types.NewArray(types.NewBuiltin(types.Byte), int64(len(sl.Value)+1)))
	init := ir.NewInstruction(ir.OpLitString, static.Typ)
	init.StringIndex = idx
	static.Initializer = init

	ref := ir.NewInstruction(ir.OpStaticRef, sl.Type())
	ref.Static = static
	l.Ctx.Emit(ref)
	return ref
}

func (l *Lowerer) lowerEvaluatedConstString(ec *ast.EvaluatedConst) *ir.Instruction {
	idx := l.Strings.Intern(ec.StringValue)
	static := l.Ctx.NewStatic("", types.NewArray(types.NewBuiltin(types.Byte), int64(len(ec.StringValue)+1)))
	init := ir.NewInstruction(ir.OpLitString, static.Typ)
	init.StringIndex = idx
	static.Initializer = init

	ref := ir.NewInstruction(ir.OpStaticRef, ec.Type())
	ref.Static = static
	l.Ctx.Emit(ref)
	return ref
}

// lowerCompoundLit implements spec §4.2 "Compound array literal": alloca
// the array, then for each element compute the running address and store
// the lowered element there; yield a load of the whole value.
func (l *Lowerer) lowerCompoundLit(cl *ast.CompoundLit) *ir.Instruction {
	arrType := cl.Type().(*types.ArrayType)
	addr := ir.NewInstruction(ir.OpAlloca, types.NewPointer(arrType))
	l.Ctx.Emit(addr)

	elemSize := int64(arrType.ElemType.Size(l.tctx()))
	elemPtr := types.NewPointer(arrType.ElemType)
	for idx, elem := range cl.Elements {
		val := l.lowerExpr(elem)
		var slot *ir.Instruction
		if idx == 0 {
			bc := ir.NewInstruction(ir.OpBitcast, elemPtr)
			ir.Use(bc, addr)
			l.Ctx.Emit(bc)
			slot = bc
		} else {
			offset := l.constInt(int64(idx)*elemSize, types.NewBuiltin(types.Int))
			gep := ir.NewInstruction(ir.OpAdd, elemPtr)
			ir.Use(gep, addr)
			ir.Use(gep, offset)
			l.Ctx.Emit(gep)
			slot = gep
		}
		store := ir.NewInstruction(ir.OpStore, types.NewBuiltin(types.Void))
		ir.Use(store, slot)
		ir.Use(store, val)
		l.Ctx.Emit(store)
	}

	load := ir.NewInstruction(ir.OpLoad, arrType)
	ir.Use(load, addr)
	l.Ctx.Emit(load)
	return load
}

func (l *Lowerer) lowerVarDecl(vd *ast.VarDecl) {
	var addr *ir.Instruction
	if l.Ctx.CurFunc == l.funcs[l.topFn] {
		static := l.Ctx.NewStatic(vd.Name, vd.Declared)
		if vd.Initializer != nil {
			if lit, ok := constFoldable(vd.Initializer); ok {
				static.Initializer = lit
			}
		}
		ref := ir.NewInstruction(ir.OpStaticRef, types.NewPointer(vd.Declared))
		ref.Static = static
		l.Ctx.Emit(ref)
		addr = ref
		if vd.Initializer != nil && static.Initializer == nil {
			val := l.lowerExpr(vd.Initializer)
			store := ir.NewInstruction(ir.OpStore, types.NewBuiltin(types.Void))
			ir.Use(store, addr)
			ir.Use(store, val)
			l.Ctx.Emit(store)
		}
	} else {
		addr = ir.NewInstruction(ir.OpAlloca, types.NewPointer(vd.Declared))
		l.Ctx.Emit(addr)
		if vd.Initializer != nil {
			val := l.lowerExpr(vd.Initializer)
			store := ir.NewInstruction(ir.OpStore, types.NewBuiltin(types.Void))
			ir.Use(store, addr)
			ir.Use(store, val)
			l.Ctx.Emit(store)
		}
	}

	l.addrs[vd] = addr
}

// constFoldable reports whether init is a literal simple enough to become
// a static's own initializer instruction directly. Only integer literals
// (an IntLit or an integer EvaluatedConst) fold; every other initializer,
// string literals included, reports false and is lowered as a runtime
// store.
func constFoldable(init ast.Expr) (*ir.Instruction, bool) {
	switch v := init.(type) {
	case *ast.IntLit:
		i := ir.NewInstruction(ir.OpLitInteger, init.Type())
		i.ImmValue = v.Value
		return i, true
	case *ast.EvaluatedConst:
		if v.IsString {
			return nil, false
		}
		i := ir.NewInstruction(ir.OpLitInteger, init.Type())
		i.ImmValue = v.IntValue
		return i, true
	default:
		return nil, false
	}
}
