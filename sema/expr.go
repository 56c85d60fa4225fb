package sema

import (
	"emberc/ast"
	"emberc/types"
)

func (a *Analyzer) analyzeCompoundLit(e *ast.CompoundLit) bool {
	ok := true
	var elemType types.Type
	for i := range e.Elements {
		if !a.Analyse(&e.Elements[i]) {
			ok = false
			continue
		}
		if elemType == nil {
			elemType = e.Elements[i].Type()
		} else if !a.Convert(&e.Elements[i], elemType) {
			ok = false
		}
	}
	if !ok {
		return false
	}
	if elemType == nil {
		elemType = types.NewBuiltin(types.Unknown)
	}
	e.SetType(types.NewArray(elemType, int64(len(e.Elements))))
	return true
}

func (a *Analyzer) analyzeNameRef(e *ast.NameRef) bool {
	decl, ok := a.curScope.Lookup(e.Name)
	if !ok {
		a.error(e.Position(), "undefined name %q", e.Name)
		return false
	}
	e.Decl = decl
	if decl.State() == types.StateNotAnalyzed {
		if fd, isFunc := decl.(*ast.FuncDecl); isFunc {
			a.analyzeFunc(fd)
		}
	}
	e.SetType(decl.Type())
	if _, isFunc := decl.(*ast.FuncDecl); isFunc {
		e.SetCategory(ast.RValue)
	} else {
		e.SetCategory(ast.LValue)
	}
	return decl.State() != types.StateErrored
}

func (a *Analyzer) analyzeModuleRef(e *ast.ModuleRef) bool {
	if _, ok := a.Module.Imports[e.Name]; !ok {
		a.error(e.Position(), "no imported module named %q", e.Name)
		return false
	}
	e.SetType(types.NewBuiltin(types.Void))
	return true
}

func (a *Analyzer) analyzeVarDecl(vd *ast.VarDecl) bool {
	ok := true

	if vd.Initializer != nil {
		if !a.Analyse(&vd.Initializer) {
			ok = false
		}
	}

	if vd.Declared == nil {
		if vd.Initializer == nil {
			a.error(vd.Position(), "variable %q needs either a declared type or an initializer", vd.Name)
			return false
		}
		if vd.Initializer.Category() == ast.LValue && vd.IsReference {
			vd.Declared = types.NewReference(vd.Initializer.Type())
		} else {
			vd.Declared = types.StripReferences(vd.Initializer.Type())
		}
	} else if vd.Initializer != nil {
		target := vd.Declared
		if vd.IsReference {
			if refT, isRef := target.(*types.ReferenceType); isRef {
				target = refT.ElemType
			}
		}
		if !a.Convert(&vd.Initializer, target) {
			ok = false
		}
	}

	vd.SetType(vd.Declared)
	vd.SetCategory(ast.LValue)
	a.curScope.DefineLocal(vd.Name, vd)
	return ok
}

func (a *Analyzer) analyzeBinary(exprPtr *ast.Expr, be *ast.BinaryExpr) bool {
	if be.Op.IsCompoundAssign() {
		return a.rewriteCompoundAssign(exprPtr, be)
	}

	okL := a.Analyse(&be.Lhs)
	okR := a.Analyse(&be.Rhs)
	if !okL || !okR {
		return false
	}

	switch be.Op {
	case ast.OpAssign:
		if be.Lhs.Category() != ast.LValue {
			a.error(be.Position(), "left side of assignment must be an lvalue")
			return false
		}
		target := be.Lhs.Type()
		if refT, isRef := target.(*types.ReferenceType); isRef {
			target = refT.ElemType
		}
		if !a.Convert(&be.Rhs, target) {
			return false
		}
		be.SetType(target)
		be.SetCategory(ast.RValue)
		return true

	case ast.OpSubscript:
		return a.analyzeSubscript(be)

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		if _, ok := a.ConvertToCommonType(&be.Lhs, &be.Rhs); !ok {
			return false
		}
		be.SetType(types.NewBuiltin(types.Bool))
		be.SetCategory(ast.RValue)
		return true

	default: // arithmetic / bitwise: promote to a common integer type
		common, ok := a.ConvertToCommonType(&be.Lhs, &be.Rhs)
		if !ok {
			return false
		}
		be.SetType(common)
		be.SetCategory(ast.RValue)
		return true
	}
}

func (a *Analyzer) analyzeSubscript(be *ast.BinaryExpr) bool {
	if !a.Convert(&be.Rhs, types.NewBuiltin(types.Int)) {
		return false
	}

	base := types.StripReferences(be.Lhs.Type())
	elem := base.Elem()
	if elem == nil {
		a.error(be.Position(), "cannot subscript a value of type %s", be.Lhs.Type().Repr())
		return false
	}
	be.SetType(elem)
	be.SetCategory(ast.LValue)
	return true
}

// rewriteCompoundAssign implements RewriteToBinaryOpThenAssign (spec
// §4.1.3): `lhs op= rhs` becomes `lhs = lhs op rhs`. Because the lhs
// expression would otherwise be analyzed (and potentially rewritten with
// inserted casts) twice, the rewritten tree references the lhs that has
// already been analyzed rather than a deep copy — matching the spec's
// "Clone is unimplemented; no pass currently needs it" stance, since
// lowering reads lhs's address once as an lvalue and once as the base of
// the nested binary, both from the same node.
func (a *Analyzer) rewriteCompoundAssign(exprPtr *ast.Expr, be *ast.BinaryExpr) bool {
	if !a.Analyse(&be.Lhs) {
		return false
	}
	if be.Lhs.Category() != ast.LValue {
		a.error(be.Position(), "left side of a compound assignment must be an lvalue")
		return false
	}

	inner := ast.NewBinaryExpr(be.Position(), be.Op.BaseOp(), be.Lhs, be.Rhs)
	assign := ast.NewBinaryExpr(be.Position(), ast.OpAssign, be.Lhs, inner)
	*exprPtr = assign
	return a.Analyse(exprPtr)
}

func (a *Analyzer) analyzeUnary(exprPtr *ast.Expr, ue *ast.UnaryExpr) bool {
	if !a.Analyse(&ue.Operand) {
		return false
	}

	switch ue.Op {
	case ast.OpDeref:
		operandType := types.StripReferences(ue.Operand.Type())
		ptr, ok := operandType.(*types.PointerType)
		if !ok {
			if !a.Convert(&ue.Operand, operandType) {
				return false
			}
			ptr, ok = ue.Operand.Type().(*types.PointerType)
			if !ok {
				a.error(ue.Position(), "cannot dereference a value of type %s", ue.Operand.Type().Repr())
				return false
			}
		}
		ue.SetType(ptr.ElemType)
		ue.SetCategory(ast.LValue)
		return true

	case ast.OpAddr:
		if ue.Operand.Category() != ast.LValue {
			a.error(ue.Position(), "cannot take the address of an rvalue")
			return false
		}
		ue.SetType(types.NewPointer(ue.Operand.Type()))
		ue.SetCategory(ast.RValue)
		return true

	default: // ~, -, +
		if !a.Convert(&ue.Operand, types.StripReferences(ue.Operand.Type())) {
			return false
		}
		ue.SetType(ue.Operand.Type())
		ue.SetCategory(ast.RValue)
		return true
	}
}

func (a *Analyzer) analyzeMemberAccess(ma *ast.MemberAccess) bool {
	if !a.Analyse(&ma.Object) {
		return false
	}

	baseType := types.StripReferences(ma.Object.Type())
	st, ok := baseType.(*types.StructType)
	if !ok {
		a.error(ma.Position(), "cannot access field %q on a value of type %s", ma.FieldName, ma.Object.Type().Repr())
		return false
	}

	idx := st.FieldByName(ma.FieldName)
	if idx < 0 {
		a.error(ma.Position(), "type %s has no field %q", st.Repr(), ma.FieldName)
		return false
	}
	field := st.Fields[idx]

	ma.Offset = field.Offset
	ma.SetType(field.Type)
	ma.SetCategory(ma.Object.Category())
	return true
}
