// Package ast implements the AST model of spec §3.1: a tagged variant of
// expressions owned by a Module, carrying source position, analysis state
// and a cached type. Grounded on the teacher's ast/ (ExprBase with
// Type/SetType/Category/Position, one Go struct per expression kind) but
// generalized to the fuller kind list and the not-analyzed/analyzing/done/
// errored state machine of the specification.
package ast

import (
	"emberc/report"
	"emberc/types"
)

// Kind enumerates every expression variant named in spec §3.1.
type Kind int

const (
	KindFuncDecl Kind = iota
	KindVarDecl
	KindEnumeratorDecl
	KindTypeDecl
	KindBinary
	KindUnary
	KindIntLit
	KindStringLit
	KindCompoundLit
	KindNameRef
	KindOverloadSet
	KindEvaluatedConst
	KindMemberAccess
	KindCall
	KindIntrinsicCall
	KindCast
	KindIf
	KindWhile
	KindFor
	KindBlock
	KindReturn
	KindSizeof
	KindAlignof
	KindModuleRef
	KindTypeExpr
)

// Category is the lvalue/rvalue discipline of spec §4.1/§4.2 and the
// GLOSSARY.
type Category int

const (
	RValue Category = iota
	LValue
)

// Expr is the common interface implemented by every expression kind.
// Sema rewrites the tree by swapping out the Expr stored in a parent's
// child slot/field (spec Design Notes §9: "rewrite means swapping the
// handle") rather than mutating in place, so every parent field that holds
// a child is declared as the Expr interface, never a concrete struct.
type Expr interface {
	Kind() Kind
	Position() *report.TextPosition

	// Type returns the cached type of the expression (Void/Unknown until
	// analyzed).
	Type() types.Type
	SetType(types.Type)

	// State is the not-analyzed/analyzing/done/errored flag of spec §3.1.
	State() types.State
	SetState(types.State)

	// Category is the lvalue/rvalue discipline.
	Category() Category
	SetCategory(Category)

	// Clone produces a deep copy sharing no mutable state with the
	// original. Left unimplemented per spec §9 Open Questions ("Expr::Clone
	// is declared but aborts in the source... leave the contract"); the
	// inliner works at the IR level and never needs to clone AST nodes, so
	// no caller exists yet. A future pass that does need it must honor this
	// contract exactly.
	Clone() Expr
}

// Base is embedded by every concrete expression struct.
type Base struct {
	kind     Kind
	pos      *report.TextPosition
	typ      types.Type
	state    types.State
	category Category
}

func NewBase(kind Kind, pos *report.TextPosition) Base {
	return Base{kind: kind, pos: pos, typ: types.NewBuiltin(types.Void), state: types.StateNotAnalyzed}
}

func (b *Base) Kind() Kind                    { return b.kind }
func (b *Base) Position() *report.TextPosition { return b.pos }
func (b *Base) Type() types.Type              { return b.typ }
func (b *Base) SetType(t types.Type)          { b.typ = t }
func (b *Base) State() types.State            { return b.state }
func (b *Base) SetState(s types.State)        { b.state = s }
func (b *Base) Category() Category            { return b.category }
func (b *Base) SetCategory(c Category)        { b.category = c }

func (b *Base) Clone() Expr {
	panic("ast: Clone is unimplemented (spec §9 open question); no pass currently needs it")
}

// -----------------------------------------------------------------------------
// Literals

// IntLit is an integer literal (spec §3.1 "integer literal").
type IntLit struct {
	Base
	Value int64
}

func NewIntLit(pos *report.TextPosition, value int64) *IntLit {
	return &IntLit{Base: NewBase(KindIntLit, pos), Value: value}
}

// StringLit is a string literal (spec §3.1 "string literal").
type StringLit struct {
	Base
	Value string
}

func NewStringLit(pos *report.TextPosition, value string) *StringLit {
	return &StringLit{Base: NewBase(KindStringLit, pos), Value: value}
}

// CompoundLit is a compound literal, eg. an array literal `[1, 2, 3]`
// (spec §3.1 "compound literal").
type CompoundLit struct {
	Base
	Elements []Expr
}

func NewCompoundLit(pos *report.TextPosition, elements []Expr) *CompoundLit {
	return &CompoundLit{Base: NewBase(KindCompoundLit, pos), Elements: elements}
}

// -----------------------------------------------------------------------------
// Names

// NameRef is a reference to a declared name (spec §3.1 "name reference").
// Sema resolves Decl once the name's declaration has been found.
type NameRef struct {
	Base
	Name string
	Decl Expr // the resolved declaration (FuncDecl/VarDecl/...), nil until resolved
}

func NewNameRef(pos *report.TextPosition, name string) *NameRef {
	return &NameRef{Base: NewBase(KindNameRef, pos), Name: name}
}

// OverloadSet is a name bound to more than one function declaration (spec
// §3.1 "overload set"; GLOSSARY). Resolution rewrites the parent's pointer
// to this node into a concrete NameRef plus inserted argument conversions
// (spec §4.1.2 rule 9).
type OverloadSet struct {
	Base
	Name        string
	Candidates  []*FuncDecl
}

func NewOverloadSet(pos *report.TextPosition, name string, candidates []*FuncDecl) *OverloadSet {
	os := &OverloadSet{Base: NewBase(KindOverloadSet, pos), Name: name, Candidates: candidates}
	os.SetType(types.NewBuiltin(types.OverloadSet))
	return os
}

// ModuleRef is a reference to an imported module/package (spec §3.1
// "module reference").
type ModuleRef struct {
	Base
	Name string
}

func NewModuleRef(pos *report.TextPosition, name string) *ModuleRef {
	return &ModuleRef{Base: NewBase(KindModuleRef, pos), Name: name}
}

// TypeExpr is a type used where an expression is syntactically expected,
// eg. the operand of `sizeof`/`alignof` or a type argument (spec §3.1
// "type-as-expression").
type TypeExpr struct {
	Base
	Denoted types.Type
}

func NewTypeExpr(pos *report.TextPosition, denoted types.Type) *TypeExpr {
	te := &TypeExpr{Base: NewBase(KindTypeExpr, pos), Denoted: denoted}
	te.SetType(denoted)
	return te
}

// EvaluatedConst is the result of constant folding: an expression already
// known to be a compile-time constant (spec §3.1 "evaluated constant").
// Sema's conversion ladder and the lowerer both special-case it to avoid
// re-deriving a value that sema already proved constant.
type EvaluatedConst struct {
	Base
	IntValue    int64
	StringValue string
	IsString    bool
}

func NewEvaluatedConstInt(pos *report.TextPosition, typ types.Type, value int64) *EvaluatedConst {
	ec := &EvaluatedConst{Base: NewBase(KindEvaluatedConst, pos), IntValue: value}
	ec.SetType(typ)
	ec.SetState(types.StateDone)
	return ec
}

func NewEvaluatedConstString(pos *report.TextPosition, typ types.Type, value string) *EvaluatedConst {
	ec := &EvaluatedConst{Base: NewBase(KindEvaluatedConst, pos), StringValue: value, IsString: true}
	ec.SetType(typ)
	ec.SetState(types.StateDone)
	return ec
}

// -----------------------------------------------------------------------------
// Sizeof / alignof

// Sizeof computes the byte size of a type at compile time (spec §3.1
// "sizeof").
type Sizeof struct {
	Base
	Operand Expr
}

func NewSizeof(pos *report.TextPosition, operand Expr) *Sizeof {
	return &Sizeof{Base: NewBase(KindSizeof, pos), Operand: operand}
}

// Alignof computes the byte alignment of a type at compile time (spec
// §3.1 "alignof").
type Alignof struct {
	Base
	Operand Expr
}

func NewAlignof(pos *report.TextPosition, operand Expr) *Alignof {
	return &Alignof{Base: NewBase(KindAlignof, pos), Operand: operand}
}
