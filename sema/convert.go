package sema

import (
	"emberc/ast"
	"emberc/common"
	"emberc/types"
)

// TryConvert implements the conversion ladder of spec §4.1.2: it scores
// whether e (already analyzed) can convert to the type to, without
// mutating the tree. Lower is better; common.ScoreIllegal means no legal
// conversion exists.
func (a *Analyzer) TryConvert(e ast.Expr, to types.Type) int {
	if e.State() == types.StateErrored {
		return common.ScoreErrored
	}

	from := e.Type()

	// Rule 1: identity.
	if types.Equal(from, to) {
		return common.ScoreIdentity
	}

	// Rule 2: lvalue -> rvalue is mandatory before using a value; free
	// (this conversion happens as part of whatever rule applies below, not
	// on its own) unless the destination is itself a reference, handled by
	// rule 3.
	if e.Category() == ast.LValue {
		if _, destIsRef := to.(*types.ReferenceType); !destIsRef {
			stripped := types.StripReferences(from)
			if types.Equal(stripped, to) {
				return common.ScoreLValueToRValue
			}
			// fall through: recheck the remaining rules against the
			// dereferenced type as an rvalue.
			from = stripped
		}
	}

	// Rule 3: reference binding. An lvalue of type T binds to &T.
	if refTo, ok := to.(*types.ReferenceType); ok {
		if e.Category() == ast.LValue && types.Equal(types.StripReferences(from), refTo.ElemType) {
			return common.ScoreReferenceBind
		}
		return common.ScoreIllegal
	}

	// Rule 4/5: integer widening and literal shrinking.
	if score, ok := a.tryConvertInteger(e, from, to); ok {
		return score
	}

	// Rule 6: pointer <-> integer only via hard cast, never here.
	if isPointerLike(from) != isPointerLike(to) {
		return common.ScoreIllegal
	}

	// Rule 7: array -> pointer to element (decay).
	if arr, ok := from.(*types.ArrayType); ok {
		if ptr, ok := to.(*types.PointerType); ok && types.Equal(arr.ElemType, ptr.ElemType) {
			return common.ScoreArrayDecay
		}
	}
	if dyn, ok := from.(*types.DynArrayType); ok {
		if ptr, ok := to.(*types.PointerType); ok && types.Equal(dyn.ElemType, ptr.ElemType) {
			return common.ScoreArrayDecay
		}
	}

	// Rule 8: function -> function pointer.
	if fnType, ok := from.(*types.FunctionType); ok {
		if ptr, ok := to.(*types.PointerType); ok && types.Equal(fnType, ptr.ElemType) {
			return common.ScoreFuncToFuncPtr
		}
	}

	// Rule 9: overload set -> concrete function is handled by the call
	// analysis, not here, since it needs the full argument list.

	if ptrFrom, ok := from.(*types.PointerType); ok {
		if ptrTo, ok := to.(*types.PointerType); ok && types.Equal(ptrFrom.ElemType, ptrTo.ElemType) {
			return common.ScoreIdentity
		}
	}

	return common.ScoreIllegal
}

func isPointerLike(t types.Type) bool {
	switch t.(type) {
	case *types.PointerType, *types.ReferenceType:
		return true
	default:
		return false
	}
}

// tryConvertInteger handles rules 4 and 5. ok is false when neither from
// nor to is an arithmetic integer type, signaling the caller to continue
// down the ladder.
func (a *Analyzer) tryConvertInteger(e ast.Expr, from, to types.Type) (int, bool) {
	fromInt, fromIsInt := asIntegerLike(from)
	toInt, toIsInt := asIntegerLike(to)
	if !fromIsInt || !toIsInt {
		return 0, false
	}

	// Rule 4: widening (strictly larger destination) always needs an
	// explicit extend at lowering, so it is never a no-op, regardless of
	// whether the source happens to be a literal.
	if toInt.Width > fromInt.Width {
		return 1, true
	}

	if toInt.Width == fromInt.Width {
		if toInt.Signed == fromInt.Signed {
			return common.ScoreIdentity, true
		}
		// Equal width, differing sign: a no-op cast if the source is a
		// non-negative literal, else a scored (lossy) conversion.
		if _, isConst, nonNeg := constIntValue(e); isConst && nonNeg {
			return common.ScoreIdentity, true
		}
		return 2, true
	}

	// Rule 5: literal shrinking. Only a compile-time-known integer value
	// can be checked against the narrower target; a runtime value can
	// never shrink implicitly.
	if v, isConst, _ := constIntValue(e); isConst {
		if fitsWidth(v, toInt.Width, toInt.Signed) {
			return common.ScoreIdentity, true
		}
	}

	return common.ScoreIllegal, true
}

// constIntValue extracts the compile-time integer value of e, if e is a
// literal or an already-folded constant.
func constIntValue(e ast.Expr) (value int64, isConst bool, nonNegative bool) {
	switch v := e.(type) {
	case *ast.IntLit:
		return v.Value, true, v.Value >= 0
	case *ast.EvaluatedConst:
		if !v.IsString {
			return v.IntValue, true, v.IntValue >= 0
		}
	}
	return 0, false, false
}

// asIntegerLike normalizes BuiltinType int/uint and byte/bool to an
// IntegerType-shaped view so the widening rules apply uniformly.
func asIntegerLike(t types.Type) (types.IntegerType, bool) {
	switch tt := t.(type) {
	case *types.IntegerType:
		return *tt, true
	case *types.BuiltinType:
		switch tt.Kind {
		case types.Int:
			return types.IntegerType{Width: 64, Signed: true}, true
		case types.UInt:
			return types.IntegerType{Width: 64, Signed: false}, true
		case types.Byte:
			return types.IntegerType{Width: 8, Signed: false}, true
		case types.Bool:
			return types.IntegerType{Width: 1, Signed: false}, true
		}
	}
	return types.IntegerType{}, false
}

func fitsWidth(v int64, width int, signed bool) bool {
	if width >= 64 {
		return true
	}
	if signed {
		max := int64(1)<<(width-1) - 1
		min := -(int64(1) << (width - 1))
		return v >= min && v <= max
	}
	if v < 0 {
		return false
	}
	max := int64(1)<<width - 1
	return v <= max
}

// Convert calls TryConvert; on success it rewrites *exprPtr to insert an
// implicit cast node recording the conversion kind (spec §4.1.2 final
// paragraph).
func (a *Analyzer) Convert(exprPtr *ast.Expr, to types.Type) bool {
	e := *exprPtr
	score := a.TryConvert(e, to)
	if score == common.ScoreIllegal {
		a.error(e.Position(), "cannot convert value of type %s to %s", e.Type().Repr(), to.Repr())
		return false
	}
	if score == common.ScoreErrored {
		return true
	}

	kind := a.castKindFor(e, to, score)
	if kind == noCastNeeded {
		return true
	}

	cast := ast.NewCast(e.Position(), kind, e, to)
	*exprPtr = cast
	return true
}

const noCastNeeded ast.CastKind = -1

func (a *Analyzer) castKindFor(e ast.Expr, to types.Type, score int) ast.CastKind {
	if e.Category() == ast.LValue {
		if _, destIsRef := to.(*types.ReferenceType); destIsRef {
			return ast.CastLValueToReference
		}
		stripped := types.StripReferences(e.Type())
		if !types.Equal(stripped, to) || score != common.ScoreIdentity {
			return ast.CastLValueToRValue
		}
		if !types.Equal(e.Type(), to) {
			return ast.CastLValueToRValue
		}
	}
	if _, srcIsRef := e.Type().(*types.ReferenceType); srcIsRef {
		if _, destIsRef := to.(*types.ReferenceType); !destIsRef {
			return ast.CastReferenceToLValue
		}
	}
	if types.Equal(e.Type(), to) {
		return noCastNeeded
	}
	return ast.CastImplicit
}

// ConvertToCommonType implements spec §4.1.2's final rule: try converting
// a -> type(b) and b -> type(a); pick the lower score; ties are errors.
func (a *Analyzer) ConvertToCommonType(aPtr, bPtr *ast.Expr) (types.Type, bool) {
	ae, be := *aPtr, *bPtr

	// Identical types need no conversion in either direction; without
	// this, scoreAtoB == scoreBtoA == ScoreIdentity falls through to the
	// ambiguous case below even though there's nothing ambiguous about
	// it.
	if types.Equal(ae.Type(), be.Type()) {
		return ae.Type(), true
	}

	scoreAtoB := a.TryConvert(ae, be.Type())
	scoreBtoA := a.TryConvert(be, ae.Type())

	switch {
	case scoreAtoB == common.ScoreIllegal && scoreBtoA == common.ScoreIllegal:
		a.error(ae.Position(), "no common type between %s and %s", ae.Type().Repr(), be.Type().Repr())
		return nil, false
	case scoreAtoB == common.ScoreIllegal:
		a.Convert(bPtr, ae.Type())
		return ae.Type(), true
	case scoreBtoA == common.ScoreIllegal:
		a.Convert(aPtr, be.Type())
		return be.Type(), true
	case scoreAtoB < scoreBtoA:
		a.Convert(aPtr, be.Type())
		return be.Type(), true
	case scoreBtoA < scoreAtoB:
		a.Convert(bPtr, ae.Type())
		return ae.Type(), true
	default:
		a.error(ae.Position(), "ambiguous common type between %s and %s", ae.Type().Repr(), be.Type().Repr())
		return nil, false
	}
}
