package lower

import (
	"emberc/ast"
	"emberc/ir"
	"emberc/types"
)

// lowerLvalue implements the "lvalue rule" of spec §4.2: it never emits a
// load, producing only an address. Grounded on the teacher's
// walk/atom_walker.go split between value-producing and address-producing
// walks of the same atom kinds.
func (l *Lowerer) lowerLvalue(e ast.Expr) *ir.Instruction {
	switch v := e.(type) {
	case *ast.NameRef:
		decl, ok := v.Decl.(*ast.VarDecl)
		if !ok {
			panic("lower: lvalue NameRef does not resolve to a VarDecl")
		}
		addr, ok := l.addrs[decl]
		if !ok {
			panic("lower: no storage recorded for variable " + decl.Name)
		}
		return addr

	case *ast.MemberAccess:
		return l.lowerMemberAddr(v)

	case *ast.BinaryExpr:
		if v.Op != ast.OpSubscript {
			panic("lower: lvalue BinaryExpr must be a subscript")
		}
		return l.lowerSubscriptAddr(v)

	case *ast.UnaryExpr:
		if v.Op != ast.OpDeref {
			panic("lower: lvalue UnaryExpr must be a dereference")
		}
		// `@p`'s address is simply p's value; no load is emitted here.
		return l.lowerExpr(v.Operand)

	default:
		panic("lower: expression kind has no lvalue interpretation")
	}
}

// addressOf returns an address for e regardless of its category: an
// lvalue-category expression lowers directly via lowerLvalue; an
// rvalue-category expression (eg. a struct returned by value) is first
// materialized into a fresh alloca so further address arithmetic (member
// access, subscript) has somewhere to point.
func (l *Lowerer) addressOf(e ast.Expr) *ir.Instruction {
	if e.Category() == ast.LValue {
		return l.lowerLvalue(e)
	}
	v := l.lowerExpr(e)
	addr := ir.NewInstruction(ir.OpAlloca, types.NewPointer(e.Type()))
	l.Ctx.Emit(addr)
	store := ir.NewInstruction(ir.OpStore, types.NewBuiltin(types.Void))
	ir.Use(store, addr)
	ir.Use(store, v)
	l.Ctx.Emit(store)
	return addr
}

// lowerMemberAddr implements spec §4.2 "Member access": recursively lower
// the base as an address, add the member's byte offset, and produce a
// pointer to the member's type.
func (l *Lowerer) lowerMemberAddr(ma *ast.MemberAccess) *ir.Instruction {
	base := l.addressOf(ma.Object)
	fieldPtr := types.NewPointer(ma.Type())
	if ma.Offset == 0 {
		// A zero offset still needs a pointer of the field's own type, not
		// the struct's; bitcast rather than add a useless zero immediate.
		bc := ir.NewInstruction(ir.OpBitcast, fieldPtr)
		ir.Use(bc, base)
		l.Ctx.Emit(bc)
		return bc
	}
	offset := l.constInt(int64(ma.Offset), types.NewBuiltin(types.Int))
	addr := ir.NewInstruction(ir.OpAdd, fieldPtr)
	ir.Use(addr, base)
	ir.Use(addr, offset)
	l.Ctx.Emit(addr)
	return addr
}

// lowerSubscriptAddr implements spec §4.2 "Subscript": load the base
// (decaying arrays to a pointer-to-element), multiply the index by the
// element size, add, and produce a pointer; a constant-zero index is
// elided.
func (l *Lowerer) lowerSubscriptAddr(be *ast.BinaryExpr) *ir.Instruction {
	elemType := be.Type()
	elemPtr := types.NewPointer(elemType)

	var base *ir.Instruction
	switch be.Lhs.Type().(type) {
	case *types.ArrayType, *types.DynArrayType:
		// Arrays decay: their "value" for subscripting purposes is the
		// address of element 0, which is simply the array's own address.
		base = l.addressOf(be.Lhs)
	default: // pointer
		base = l.lowerExpr(be.Lhs)
	}

	if lit, ok := be.Rhs.(*ast.IntLit); ok && lit.Value == 0 {
		bc := ir.NewInstruction(ir.OpBitcast, elemPtr)
		ir.Use(bc, base)
		l.Ctx.Emit(bc)
		return bc
	}

	index := l.lowerExpr(be.Rhs)
	elemSize := l.constInt(int64(elemType.Size(l.tctx())), types.NewBuiltin(types.Int))
	scaled := ir.NewInstruction(ir.OpMul, types.NewBuiltin(types.Int))
	ir.Use(scaled, index)
	ir.Use(scaled, elemSize)
	l.Ctx.Emit(scaled)

	addr := ir.NewInstruction(ir.OpAdd, elemPtr)
	ir.Use(addr, base)
	ir.Use(addr, scaled)
	l.Ctx.Emit(addr)
	return addr
}
