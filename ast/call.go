package ast

import (
	"emberc/report"
)

// Call is a function call expression (spec §3.1 "call"; §4.1.3 "Call").
// IsDirect is set by sema once the callee resolves to a statically-known
// function (spec: "Direct calls to known functions are marked as such for
// lowering; other callees become indirect calls"). IsTail marks a call
// whose value is the direct return value of its enclosing function
// (GLOSSARY "Tail call"); the lowerer copies it onto the IR call. Neither
// the parser nor sema sets it.
type Call struct {
	Base
	Callee   Expr
	Args     []Expr
	IsDirect bool
	IsTail   bool
}

func NewCall(pos *report.TextPosition, callee Expr, args []Expr) *Call {
	return &Call{Base: NewBase(KindCall, pos), Callee: callee, Args: args}
}

// IntrinsicCall is a call to a compiler intrinsic rather than a
// user-defined function (spec §3.1 "intrinsic call").
type IntrinsicCall struct {
	Base
	Name string
	Args []Expr
}

func NewIntrinsicCall(pos *report.TextPosition, name string, args []Expr) *IntrinsicCall {
	return &IntrinsicCall{Base: NewBase(KindIntrinsicCall, pos), Name: name, Args: args}
}

// MemberAccess is a `.field` expression (spec §3.1 "member access"; §4.2
// "Member access"). Sema fills in Offset, and sets the expression's type to
// the field's type, once the base's struct type is known.
type MemberAccess struct {
	Base
	Object    Expr
	FieldName string
	Offset    int
}

func NewMemberAccess(pos *report.TextPosition, object Expr, fieldName string) *MemberAccess {
	return &MemberAccess{Base: NewBase(KindMemberAccess, pos), Object: object, FieldName: fieldName}
}
