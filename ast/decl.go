package ast

import (
	"emberc/report"
	"emberc/types"
)

// FuncDecl is a function declaration (spec §3.1 "function decl"). An
// overload set (GLOSSARY) is a name bound to more than one FuncDecl; see
// OverloadSet.
type FuncDecl struct {
	Base
	Name       string
	Signature  *types.FunctionType
	ParamNames []string
	Body       Expr // nil for an extern/declaration-only function

	// ParamDecls is filled in by sema (analyzeFunc) with the per-parameter
	// VarDecl bound in the function's scope, one per ParamNames entry, so
	// lowering can find the storage a parameter reference resolves to
	// without re-deriving it.
	ParamDecls []*VarDecl

	IsExtern     bool
	IsGlobal     bool
	IsForceInline bool
}

func NewFuncDecl(pos *report.TextPosition, name string, sig *types.FunctionType, paramNames []string, body Expr) *FuncDecl {
	fd := &FuncDecl{Base: NewBase(KindFuncDecl, pos), Name: name, Signature: sig, ParamNames: paramNames, Body: body}
	fd.SetType(sig)
	fd.SetState(types.StateDone)
	return fd
}

// VarDecl is a variable declaration (spec §3.1 "var decl"; §4.1.1). When
// IsReference is set, the variable binds directly to the initializer's
// address rather than copying (spec: "a reference-typed variable binds
// directly to the initializer's address (no implicit copy)").
type VarDecl struct {
	Base
	Name        string
	Declared    types.Type // nil if the type is to be inferred from Initializer
	Initializer Expr       // nil for a declaration with no initializer
	IsReference bool
	IsConst     bool
}

func NewVarDecl(pos *report.TextPosition, name string, declared types.Type, init Expr) *VarDecl {
	return &VarDecl{Base: NewBase(KindVarDecl, pos), Name: name, Declared: declared, Initializer: init}
}

// EnumeratorDecl is one member of an enum declaration (spec §3.1
// "enumerator decl").
type EnumeratorDecl struct {
	Base
	Name   string
	Parent *types.EnumType
	Index  int
}

func NewEnumeratorDecl(pos *report.TextPosition, name string, parent *types.EnumType, index int) *EnumeratorDecl {
	ed := &EnumeratorDecl{Base: NewBase(KindEnumeratorDecl, pos), Name: name, Parent: parent, Index: index}
	ed.SetType(parent)
	ed.SetState(types.StateDone)
	return ed
}

// TypeDecl is a type declaration or alias (spec §3.1 "type decl/alias").
// IsAlias distinguishes `type Foo = Bar` (Foo and Bar remain Equal) from a
// nominal `type Foo Bar` (Foo gets its own identity, relevant for structs
// and enums per spec §3.1's identity-comparison invariant).
type TypeDecl struct {
	Base
	Name       string
	Underlying types.Type
	IsAlias    bool
}

func NewTypeDecl(pos *report.TextPosition, name string, underlying types.Type, isAlias bool) *TypeDecl {
	td := &TypeDecl{Base: NewBase(KindTypeDecl, pos), Name: name, Underlying: underlying, IsAlias: isAlias}
	td.SetType(underlying)
	td.SetState(types.StateDone)
	return td
}
